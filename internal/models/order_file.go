package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Print sides
const (
	SideSingle = "SINGLE"
	SideDouble = "DOUBLE"
)

// Page filters
const (
	FilterAll  = "ALL"
	FilterOdd  = "ODD"
	FilterEven = "EVEN"
)

// ValidPagesPerSheet lists the supported n-up layouts.
var ValidPagesPerSheet = []int{1, 2, 4, 6, 9}

// OrderFile is one uploaded document within an order, carrying its print
// configuration and the memoized pricing result. FinalSheets and TotalPrice
// are recomputed whenever the configuration changes.
type OrderFile struct {
	ID      uint `gorm:"primarykey"`
	OrderID uint `gorm:"not null;index"`

	StorageKey string `gorm:"not null"`
	FileName   string `gorm:"not null"`
	FileSizeMB float64
	PagesCount int `gorm:"default:1"`

	// Print configuration
	PaperSize     string `gorm:"size:2;default:'A4'"`
	ColorMode     string `gorm:"size:10;default:'BW'"`
	PrintSide     string `gorm:"size:10;default:'SINGLE'"`
	PagesPerSheet int    `gorm:"default:1"`
	PageFilter    string `gorm:"size:10;default:'ALL'"`
	Copies        int    `gorm:"default:1"`
	SpecialNote   string

	// Memoized pricing result
	PricePerSheet decimal.Decimal `gorm:"type:decimal(6,2);default:0.00"`
	FinalSheets   int             `gorm:"default:0"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(10,2);default:0.00"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
