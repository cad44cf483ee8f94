package shop

import "printhub/internal/errors"

var (
	ErrShopNotFound = errors.NotFound("SHOP_NOT_FOUND", "shop not found")

	ErrAlreadyRegistered = errors.StateConflict("SHOP_ALREADY_REGISTERED",
		"user already owns a shop")
	ErrAlreadyReviewed = errors.StateConflict("SHOP_ALREADY_REVIEWED",
		"shop has already been reviewed")
	ErrNotSuspended = errors.StateConflict("SHOP_NOT_SUSPENDED",
		"shop is not suspended")

	ErrMissingName = errors.Validation("MISSING_SHOP_NAME",
		"shop name is required")
	ErrMissingReason = errors.Validation("MISSING_REASON",
		"a reason is required")
	ErrNegativePrice = errors.Validation("NEGATIVE_PRICE",
		"prices must not be negative")

	ErrNotShopOwner = errors.Unauthorized("NOT_SHOP_OWNER",
		"acting user does not own this shop")
	ErrStaffRequired = errors.Unauthorized("STAFF_REQUIRED",
		"staff or admin role required")
)
