package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses
const (
	OrderStatusPending   = "PENDING"
	OrderStatusPaid      = "PAID"
	OrderStatusAccepted  = "ACCEPTED"
	OrderStatusPrinting  = "PRINTING"
	OrderStatusReady     = "READY"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
	OrderStatusRejected  = "REJECTED"
	OrderStatusRefunded  = "REFUNDED"
)

// Deadlines applied on lifecycle transitions.
const (
	PickupDeadlineAfterPayment = 7 * 24 * time.Hour
	DisputeWindowAfterPickup   = 48 * time.Hour
)

// Order is a single print job: a container for one or more files sharing a
// fulfillment lifecycle at one shop.
type Order struct {
	ID uint `gorm:"primarykey"`

	ShopID uuid.UUID `gorm:"type:uuid;not null;index"`
	Shop   *Shop     `gorm:"foreignKey:ShopID"`

	// Customer is optional; guests are identified by phone only.
	CustomerID    *uint `gorm:"index"`
	Customer      *User `gorm:"foreignKey:CustomerID"`
	CustomerName  string
	CustomerPhone string `gorm:"not null"`

	// Aggregated from files by CalculateTotals. CommissionAmount snapshots
	// the shop's rate at aggregation time; later rate changes never touch
	// already-aggregated orders.
	FinalSheets      int             `gorm:"default:0"`
	TotalPrice       decimal.Decimal `gorm:"type:decimal(10,2);default:0.00"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(10,2);default:0.00"`
	ShopPayout       decimal.Decimal `gorm:"type:decimal(10,2);default:0.00"`

	Status  string `gorm:"default:'PENDING';index"`
	PinCode string `gorm:"size:4"`

	PaymentReference string
	RejectionReason  string

	PickupDeadline       *time.Time
	DisputeWindowExpires *time.Time

	CreatedAt   time.Time
	UpdatedAt   time.Time
	PaidAt      *time.Time
	CompletedAt *time.Time

	Files []OrderFile `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// IsTerminal reports whether no further forward transition is possible.
// REFUNDED is still reachable from COMPLETED via a completed refund.
func (o *Order) IsTerminal() bool {
	switch o.Status {
	case OrderStatusCancelled, OrderStatusRejected, OrderStatusRefunded, OrderStatusCompleted:
		return true
	}
	return false
}

// InDisputeWindow reports whether a dispute may still be raised, evaluated
// against the given instant.
func (o *Order) InDisputeWindow(now time.Time) bool {
	if o.Status != OrderStatusCompleted || o.DisputeWindowExpires == nil {
		return false
	}
	return now.Before(*o.DisputeWindowExpires)
}
