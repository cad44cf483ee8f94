package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Refund statuses
const (
	RefundStatusPending    = "PENDING"
	RefundStatusProcessing = "PROCESSING"
	RefundStatusCompleted  = "COMPLETED"
	RefundStatusFailed     = "FAILED"
)

// Refund reasons
const (
	RefundReasonPaymentFailed   = "PAYMENT_FAILED"
	RefundReasonShopRejected    = "SHOP_REJECTED"
	RefundReasonShopClosed      = "SHOP_CLOSED"
	RefundReasonDisputeApproved = "DISPUTE_APPROVED"
	RefundReasonAdminForced     = "ADMIN_FORCED"
	RefundReasonOrderExpired    = "ORDER_EXPIRED"
)

// Refund records money owed back to a customer. Completion is confirmed by
// an admin after the gateway refund settles, and forces the owning order to
// REFUNDED regardless of its prior status.
type Refund struct {
	gorm.Model
	OrderID uint   `gorm:"not null;index"`
	Order   *Order `gorm:"foreignKey:OrderID"`

	Amount decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Reason string          `gorm:"size:30;not null"`
	Status string          `gorm:"default:'PENDING'"`

	ProcessedByID *uint `gorm:"index"`
	ProcessedBy   *User `gorm:"foreignKey:ProcessedByID"`
	ProcessedAt   *time.Time
}
