package order

import "printhub/internal/errors"

var (
	ErrOrderNotFound = errors.NotFound("ORDER_NOT_FOUND", "order not found")
	ErrShopNotFound  = errors.NotFound("SHOP_NOT_FOUND", "shop not found")

	ErrShopUnavailable = errors.StateConflict("SHOP_UNAVAILABLE",
		"shop is not accepting orders")
	ErrNoValidFiles = errors.Validation("NO_VALID_FILES",
		"no valid files uploaded")
	ErrNotEditable = errors.StateConflict("ORDER_NOT_EDITABLE",
		"order can no longer be reconfigured")
	ErrAlreadyTerminal = errors.StateConflict("ORDER_TERMINAL",
		"order is already in a terminal status")
	ErrInvalidTransition = errors.StateConflict("INVALID_TRANSITION",
		"order status does not allow this transition")
	ErrOrderNotReady = errors.StateConflict("ORDER_NOT_READY",
		"order is not ready for pickup")
	ErrInvalidPIN = errors.Validation("INVALID_PIN",
		"invalid PIN for this order")
	ErrNotShopOwner = errors.Unauthorized("NOT_SHOP_OWNER",
		"caller does not own the shop for this order")
	ErrNotOrderOwner = errors.Unauthorized("NOT_ORDER_OWNER",
		"caller does not own this order")
	ErrMissingReason = errors.Validation("MISSING_REASON",
		"a reason is required")
)
