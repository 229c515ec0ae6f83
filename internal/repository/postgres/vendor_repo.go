package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hitchly/hitchly-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// VendorRepository implements domain.VendorRepository using PostgreSQL.
// deposit_amount is nullable in the schema; it is normalized to zero here so
// callers never see the null.
type VendorRepository struct {
	pool *pgxpool.Pool
}

// NewVendorRepository creates a new VendorRepository
func NewVendorRepository(pool *pgxpool.Pool) *VendorRepository {
	return &VendorRepository{pool: pool}
}

const vendorColumns = `id, workspace_id, wedding_id, name, category, total_cost, deposit_amount, balance, created_at, updated_at`

func scanVendor(row pgx.Row) (*domain.Vendor, error) {
	var v domain.Vendor
	var totalCost, balance pgtype.Numeric
	var deposit pgtype.Numeric
	err := row.Scan(&v.ID, &v.WorkspaceID, &v.WeddingID, &v.Name, &v.Category,
		&totalCost, &deposit, &balance, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVendorNotFound
		}
		return nil, err
	}
	v.TotalCost = pgNumericToDecimal(totalCost)
	v.DepositAmount = pgNumericToDecimal(deposit)
	v.Balance = pgNumericToDecimal(balance)
	v.Payments = []domain.VendorPayment{}
	return &v, nil
}

// Create creates a new vendor
func (r *VendorRepository) Create(vendor *domain.Vendor) (*domain.Vendor, error) {
	ctx := context.Background()
	totalCost, err := decimalToPgNumeric(vendor.TotalCost)
	if err != nil {
		return nil, fmt.Errorf("invalid total cost: %w", err)
	}
	deposit, err := decimalToPgNumeric(vendor.DepositAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid deposit amount: %w", err)
	}
	balance, err := decimalToPgNumeric(vendor.Balance)
	if err != nil {
		return nil, fmt.Errorf("invalid balance: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO vendors (workspace_id, wedding_id, name, category, total_cost, deposit_amount, balance)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+vendorColumns,
		vendor.WorkspaceID, vendor.WeddingID, vendor.Name, vendor.Category, totalCost, deposit, balance)
	return scanVendor(row)
}

// GetByID retrieves a vendor with its payments
func (r *VendorRepository) GetByID(workspaceID int32, id int32) (*domain.Vendor, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+vendorColumns+` FROM vendors WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	vendor, err := scanVendor(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadPayments(ctx, []*domain.Vendor{vendor}); err != nil {
		return nil, err
	}
	return vendor, nil
}

// GetAllByWorkspace retrieves all vendors (with payments) for a workspace
func (r *VendorRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.Vendor, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+vendorColumns+` FROM vendors WHERE workspace_id = $1 ORDER BY id`,
		workspaceID)
	if err != nil {
		return nil, err
	}
	vendors, err := collectVendors(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadPayments(ctx, vendors); err != nil {
		return nil, err
	}
	return vendors, nil
}

// GetAllByWedding retrieves all vendors (with payments) booked for a wedding
func (r *VendorRepository) GetAllByWedding(workspaceID int32, weddingID int32) ([]*domain.Vendor, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+vendorColumns+` FROM vendors
		 WHERE workspace_id = $1 AND wedding_id = $2 ORDER BY id`,
		workspaceID, weddingID)
	if err != nil {
		return nil, err
	}
	vendors, err := collectVendors(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadPayments(ctx, vendors); err != nil {
		return nil, err
	}
	return vendors, nil
}

func collectVendors(rows pgx.Rows) ([]*domain.Vendor, error) {
	defer rows.Close()
	vendors := []*domain.Vendor{}
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

// loadPayments attaches payments to the given vendors in creation order
func (r *VendorRepository) loadPayments(ctx context.Context, vendors []*domain.Vendor) error {
	if len(vendors) == 0 {
		return nil
	}

	ids := make([]int32, len(vendors))
	byID := make(map[int32]*domain.Vendor, len(vendors))
	for i, v := range vendors {
		ids[i] = v.ID
		byID[v.ID] = v
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, vendor_id, amount, status, note, paid_at, created_at
		 FROM vendor_payments
		 WHERE vendor_id = ANY($1)
		 ORDER BY vendor_id, id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.VendorPayment
		var amount pgtype.Numeric
		var status string
		if err := rows.Scan(&p.ID, &p.VendorID, &amount, &status, &p.Note, &p.PaidAt, &p.CreatedAt); err != nil {
			return err
		}
		p.Amount = pgNumericToDecimal(amount)
		p.Status = domain.PaymentStatus(status)
		if v, ok := byID[p.VendorID]; ok {
			v.Payments = append(v.Payments, p)
		}
	}
	return rows.Err()
}

// Update updates a vendor's booking details
func (r *VendorRepository) Update(vendor *domain.Vendor) (*domain.Vendor, error) {
	ctx := context.Background()
	totalCost, err := decimalToPgNumeric(vendor.TotalCost)
	if err != nil {
		return nil, fmt.Errorf("invalid total cost: %w", err)
	}
	deposit, err := decimalToPgNumeric(vendor.DepositAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid deposit amount: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE vendors
		 SET name = $3, category = $4, total_cost = $5, deposit_amount = $6, updated_at = now()
		 WHERE workspace_id = $1 AND id = $2
		 RETURNING `+vendorColumns,
		vendor.WorkspaceID, vendor.ID, vendor.Name, vendor.Category, totalCost, deposit)
	updated, err := scanVendor(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadPayments(ctx, []*domain.Vendor{updated}); err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateBalance sets the stored balance column
func (r *VendorRepository) UpdateBalance(workspaceID int32, id int32, balance decimal.Decimal) error {
	ctx := context.Background()
	num, err := decimalToPgNumeric(balance)
	if err != nil {
		return fmt.Errorf("invalid balance: %w", err)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE vendors SET balance = $3, updated_at = now()
		 WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id, num)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVendorNotFound
	}
	return nil
}

// Delete removes a vendor and its payments (cascade)
func (r *VendorRepository) Delete(workspaceID int32, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM vendors WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVendorNotFound
	}
	return nil
}

// AddPayment records a payment against a vendor
func (r *VendorRepository) AddPayment(payment *domain.VendorPayment) (*domain.VendorPayment, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(payment.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var created domain.VendorPayment
	var scannedAmount pgtype.Numeric
	var status string
	err = r.pool.QueryRow(ctx,
		`INSERT INTO vendor_payments (vendor_id, amount, status, note, paid_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, vendor_id, amount, status, note, paid_at, created_at`,
		payment.VendorID, amount, string(payment.Status), payment.Note, payment.PaidAt).
		Scan(&created.ID, &created.VendorID, &scannedAmount, &status, &created.Note, &created.PaidAt, &created.CreatedAt)
	if err != nil {
		return nil, err
	}
	created.Amount = pgNumericToDecimal(scannedAmount)
	created.Status = domain.PaymentStatus(status)
	return &created, nil
}
