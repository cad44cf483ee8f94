// Package pricing converts one file's page count and print configuration
// into a sheet count and price. Calculate is a pure function of its inputs;
// recomputing with the same inputs always yields the same result.
package pricing

import (
	"github.com/shopspring/decimal"

	"printhub/internal/models"
)

// Calculate prices one file against a shop's price table.
//
// The sequence is fixed: the page filter shrinks the logical page count,
// n-up layout packs pages onto sheet faces, duplex halves the physical sheet
// count, copies multiply it, and the per-sheet price scales the total.
//
// Zero pages or zero copies price as zero sheets and zero money; a
// pages-per-sheet of zero is malformed input and fails before any division.
func Calculate(pages int, cfg Config, table PriceTable) (Result, error) {
	if err := validate(cfg); err != nil {
		return Result{}, err
	}

	price := table.PricePerSheet(cfg.PaperSize, cfg.ColorMode)

	if pages <= 0 || cfg.Copies <= 0 {
		return Result{PricePerSheet: price, FinalSheets: 0, TotalPrice: decimal.Zero.Round(2)}, nil
	}

	adjusted := adjustedPages(pages, cfg.PageFilter)
	sheets := ceilDiv(adjusted, cfg.PagesPerSheet)
	if cfg.PrintSide == models.SideDouble {
		sheets = ceilDiv(sheets, 2)
	}
	finalSheets := sheets * cfg.Copies

	return Result{
		PricePerSheet: price,
		FinalSheets:   finalSheets,
		TotalPrice:    price.Mul(decimal.NewFromInt(int64(finalSheets))).Round(2),
	}, nil
}

// adjustedPages applies the odd/even/all page filter.
func adjustedPages(pages int, filter string) int {
	switch filter {
	case models.FilterOdd:
		return (pages + 1) / 2
	case models.FilterEven:
		return pages / 2
	}
	return pages
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func validate(cfg Config) error {
	if !validPagesPerSheet(cfg.PagesPerSheet) {
		return ErrInvalidPagesPerSheet
	}
	switch cfg.PageFilter {
	case models.FilterAll, models.FilterOdd, models.FilterEven:
	default:
		return ErrInvalidPageFilter
	}
	switch cfg.PrintSide {
	case models.SideSingle, models.SideDouble:
	default:
		return ErrInvalidPrintSide
	}
	return nil
}

func validPagesPerSheet(n int) bool {
	for _, v := range models.ValidPagesPerSheet {
		if n == v {
			return true
		}
	}
	return false
}
