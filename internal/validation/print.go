package validation

import "printhub/internal/models"

// PaperSize checks a print-config paper size.
func (v *Validator) PaperSize(field, size string) {
	v.Check(size == models.PaperA4 || size == models.PaperA3,
		field, "must be A4 or A3")
}

// ColorMode checks a print-config color mode.
func (v *Validator) ColorMode(field, mode string) {
	v.Check(mode == models.ColorBW || mode == models.ColorColor,
		field, "must be BW or COLOR")
}

// PrintSide checks single versus double sided.
func (v *Validator) PrintSide(field, side string) {
	v.Check(side == models.SideSingle || side == models.SideDouble,
		field, "must be SINGLE or DOUBLE")
}

// PageFilter checks the page-subset selector.
func (v *Validator) PageFilter(field, filter string) {
	v.Check(filter == models.FilterAll || filter == models.FilterOdd || filter == models.FilterEven,
		field, "must be ALL, ODD or EVEN")
}

// PagesPerSheet checks the n-up layout factor.
func (v *Validator) PagesPerSheet(field string, n int) {
	ok := false
	for _, allowed := range models.ValidPagesPerSheet {
		if n == allowed {
			ok = true
			break
		}
	}
	v.Check(ok, field, "must be 1, 2, 4, 6 or 9")
}

// Copies checks the copy count.
func (v *Validator) Copies(field string, n int) {
	v.Check(n >= 1 && n <= 100, field, "must be between 1 and 100")
}
