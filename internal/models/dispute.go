package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Dispute statuses
const (
	DisputeStatusPending  = "PENDING"
	DisputeStatusInReview = "IN_REVIEW"
	DisputeStatusResolved = "RESOLVED"
	DisputeStatusRejected = "REJECTED"
)

// Dispute issue types
const (
	IssueMissingPages = "MISSING_PAGES"
	IssueWrongColor   = "WRONG_COLOR"
	IssueWrongSize    = "WRONG_SIZE"
	IssuePoorQuality  = "POOR_QUALITY"
	IssueOther        = "OTHER"
)

// Dispute is a customer complaint against a completed order, raised within
// the 48-hour window after pickup. Once resolved or rejected it is terminal;
// staff recommendations move it to IN_REVIEW without resolving.
type Dispute struct {
	gorm.Model
	OrderID    uint  `gorm:"not null;index"`
	Order      *Order `gorm:"foreignKey:OrderID"`
	RaisedByID uint  `gorm:"not null"`
	RaisedBy   *User `gorm:"foreignKey:RaisedByID"`

	IssueType   string `gorm:"not null"`
	Description string `gorm:"not null"`
	ProofImage  string `gorm:"not null"`

	// Shop response, optional
	ShopResponse   string
	ShopProofImage string

	// Admin decision
	Status         string `gorm:"default:'PENDING'"`
	AdminDecision  string
	RefundApproved bool             `gorm:"default:false"`
	RefundAmount   *decimal.Decimal `gorm:"type:decimal(10,2)"`

	ResolvedAt *time.Time
}

// IsOpen reports whether the dispute can still be resolved.
func (d *Dispute) IsOpen() bool {
	return d.Status == DisputeStatusPending || d.Status == DisputeStatusInReview
}
