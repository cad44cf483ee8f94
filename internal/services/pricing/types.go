package pricing

import "github.com/shopspring/decimal"

// Config is one file's print configuration.
type Config struct {
	PaperSize     string // A4 or A3
	ColorMode     string // BW or COLOR
	PrintSide     string // SINGLE or DOUBLE
	PagesPerSheet int    // 1, 2, 4, 6 or 9
	PageFilter    string // ALL, ODD or EVEN
	Copies        int
}

// PriceTable resolves a price per sheet for a paper/color combination.
// Unknown combinations resolve to zero, not an error.
type PriceTable interface {
	PricePerSheet(paperSize, colorMode string) decimal.Decimal
}

// Result is the deterministic outcome of pricing one file.
type Result struct {
	PricePerSheet decimal.Decimal
	FinalSheets   int
	TotalPrice    decimal.Decimal
}
