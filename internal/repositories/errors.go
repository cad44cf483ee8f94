package repositories

import "errors"

// Sentinel errors returned by the repositories. Services translate these
// into typed domain errors before they reach a handler.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrShopNotFound    = errors.New("shop not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrFileNotFound    = errors.New("order file not found")
	ErrDisputeNotFound = errors.New("dispute not found")
	ErrRefundNotFound  = errors.New("refund not found")
)
