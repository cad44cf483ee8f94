package order

import (
	"github.com/google/uuid"

	"printhub/internal/models"
)

// Principal is the acting caller, passed explicitly into every privileged
// operation. Role checks happen before the core is invoked; ownership checks
// happen here.
type Principal struct {
	UserID uint
	Role   string
}

func (p Principal) staffLevel() bool {
	return p.Role == models.RoleStaff || p.Role == models.RoleAdmin
}

// FileUpload is one incoming file: the handler has already stored the bytes
// and passes the storage key plus the raw content for page counting.
type FileUpload struct {
	FileName   string
	StorageKey string
	Content    []byte
}

// FileConfig is the print configuration applied to one file.
type FileConfig struct {
	PaperSize     string
	ColorMode     string
	PrintSide     string
	PagesPerSheet int
	PageFilter    string
	Copies        int
	SpecialNote   string
}

// CreateOrderRequest opens a new order at a shop with its first batch of
// files. CustomerID is nil for phone-only guests.
type CreateOrderRequest struct {
	ShopID        uuid.UUID
	CustomerID    *uint
	CustomerName  string
	CustomerPhone string
	Files         []FileUpload
}

// ConfigureRequest updates print configuration prior to payment. When
// ApplyToAll is set, Common is applied to every file; otherwise PerFile maps
// file IDs to their configuration.
type ConfigureRequest struct {
	ApplyToAll bool
	Common     FileConfig
	PerFile    map[uint]FileConfig
}

// VerifyPickupRequest completes an order at the counter. OrderID is the
// primary path; a nil OrderID falls back to PIN-only lookup scoped to the
// shop, which is ambiguous if two READY orders share a PIN.
type VerifyPickupRequest struct {
	OrderID *uint
	PIN     string
}
