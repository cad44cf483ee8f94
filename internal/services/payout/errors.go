package payout

import "printhub/internal/errors"

var (
	ErrShopNotFound = errors.NotFound("SHOP_NOT_FOUND", "shop not found")

	ErrInvalidAmount = errors.Validation("INVALID_PAYOUT_AMOUNT",
		"payout amount must be greater than zero")
	ErrInvalidCommissionRate = errors.Validation("INVALID_COMMISSION_RATE",
		"commission rate must be between 0 and 100")

	ErrAdminRequired = errors.Unauthorized("ADMIN_REQUIRED",
		"only admins can manage payouts")
)
