package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Paper sizes and color modes priced by a shop.
const (
	PaperA4 = "A4"
	PaperA3 = "A3"

	ColorBW    = "BW"
	ColorColor = "COLOR"
)

type Shop struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID uint      `gorm:"uniqueIndex;not null"`
	Owner   *User     `gorm:"foreignKey:OwnerID"`

	Name     string `gorm:"not null"`
	Location string
	Phone    string

	// Approval & status
	IsVerified       bool `gorm:"default:false"`
	IsApproved       bool `gorm:"default:false"`
	IsSuspended      bool `gorm:"default:false"`
	RejectionReason  string
	SuspensionReason string

	ShopCode string `gorm:"uniqueIndex"`

	// Price per sheet by paper size and color mode.
	A4BWPrice    decimal.Decimal `gorm:"type:decimal(6,2);default:1.00"`
	A4ColorPrice decimal.Decimal `gorm:"type:decimal(6,2);default:5.00"`
	A3BWPrice    decimal.Decimal `gorm:"type:decimal(6,2);default:2.00"`
	A3ColorPrice decimal.Decimal `gorm:"type:decimal(6,2);default:10.00"`

	// Earnings ledger. PaidTotal only ever grows, via payout processing.
	EarningsTotal  decimal.Decimal `gorm:"type:decimal(10,2);default:0.00"`
	PaidTotal      decimal.Decimal `gorm:"type:decimal(10,2);default:0.00"`
	CommissionRate decimal.Decimal `gorm:"type:decimal(4,2);default:15.00"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Shop) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.ShopCode == "" {
		s.ShopCode = fmt.Sprintf("SHOP-%s", strings.ToUpper(s.ID.String()[:8]))
	}
	return nil
}

// IsActive reports whether the shop can take orders.
func (s *Shop) IsActive() bool {
	return s.IsApproved && !s.IsSuspended
}

// PricePerSheet returns the configured price for a paper/color combination.
// Unmapped combinations price as zero; the original system treats that as a
// silently free line, not an error.
func (s *Shop) PricePerSheet(paperSize, colorMode string) decimal.Decimal {
	switch {
	case paperSize == PaperA4 && colorMode == ColorBW:
		return s.A4BWPrice
	case paperSize == PaperA4 && colorMode == ColorColor:
		return s.A4ColorPrice
	case paperSize == PaperA3 && colorMode == ColorBW:
		return s.A3BWPrice
	case paperSize == PaperA3 && colorMode == ColorColor:
		return s.A3ColorPrice
	}
	return decimal.Zero
}

// Commission computes the platform cut of an amount at the shop's current
// rate, rounded once to 2 decimal places.
func (s *Shop) Commission(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(s.CommissionRate).Div(decimal.NewFromInt(100)).Round(2)
}
