package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the state of a vendor payment
type PaymentStatus string

const (
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusScheduled PaymentStatus = "scheduled"
)

// IsValid reports whether the status is one of the known payment states
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPending, PaymentStatusScheduled:
		return true
	}
	return false
}

// VendorPayment represents a single payment made (or planned) toward a vendor
type VendorPayment struct {
	ID        int32           `json:"id"`
	VendorID  int32           `json:"vendorId"`
	Amount    decimal.Decimal `json:"amount"`
	Status    PaymentStatus   `json:"status"`
	Note      *string         `json:"note,omitempty"`
	PaidAt    *time.Time      `json:"paidAt,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Vendor represents a wedding-service vendor booked for a wedding.
//
// Repositories return vendors fully populated: DepositAmount is zero when the
// column is null and Payments is an empty slice when there are none, so
// balance math never has to branch on absence. Balance is the stored derived
// column; ComputedBalance is the source of truth.
type Vendor struct {
	ID            int32           `json:"id"`
	WorkspaceID   int32           `json:"workspaceId"`
	WeddingID     int32           `json:"weddingId"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	TotalCost     decimal.Decimal `json:"totalCost"`
	DepositAmount decimal.Decimal `json:"depositAmount"`
	Balance       decimal.Decimal `json:"balance"`
	Payments      []VendorPayment `json:"payments"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// PaidTotal sums the amounts of payments with status "paid". Pending and
// scheduled payments do not count toward the balance.
func (v *Vendor) PaidTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range v.Payments {
		if p.Status == PaymentStatusPaid {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// ComputedBalance returns what the vendor is still owed:
// totalCost - depositAmount - sum of paid payments.
// The result is deliberately not clamped at zero; a negative balance signals
// an overpayment credit.
func (v *Vendor) ComputedBalance() decimal.Decimal {
	return v.TotalCost.Sub(v.DepositAmount).Sub(v.PaidTotal())
}

// PaidPaymentCount returns how many payments have status "paid"
func (v *Vendor) PaidPaymentCount() int {
	count := 0
	for _, p := range v.Payments {
		if p.Status == PaymentStatusPaid {
			count++
		}
	}
	return count
}

// VendorRepository defines the interface for vendor persistence operations.
// All getters load the vendor's payments.
type VendorRepository interface {
	Create(vendor *Vendor) (*Vendor, error)
	GetByID(workspaceID int32, id int32) (*Vendor, error)
	GetAllByWorkspace(workspaceID int32) ([]*Vendor, error)
	GetAllByWedding(workspaceID int32, weddingID int32) ([]*Vendor, error)
	Update(vendor *Vendor) (*Vendor, error)
	UpdateBalance(workspaceID int32, id int32, balance decimal.Decimal) error
	Delete(workspaceID int32, id int32) error
	AddPayment(payment *VendorPayment) (*VendorPayment, error)
}
