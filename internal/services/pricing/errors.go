package pricing

import "printhub/internal/errors"

var (
	ErrInvalidPagesPerSheet = errors.Validation("INVALID_PAGES_PER_SHEET",
		"pages per sheet must be one of 1, 2, 4, 6, 9")
	ErrInvalidPageFilter = errors.Validation("INVALID_PAGE_FILTER",
		"page filter must be ALL, ODD or EVEN")
	ErrInvalidPrintSide = errors.Validation("INVALID_PRINT_SIDE",
		"print side must be SINGLE or DOUBLE")
)
