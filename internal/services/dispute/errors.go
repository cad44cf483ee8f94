package dispute

import "printhub/internal/errors"

var (
	ErrDisputeNotFound = errors.NotFound("DISPUTE_NOT_FOUND", "dispute not found")
	ErrRefundNotFound  = errors.NotFound("REFUND_NOT_FOUND", "refund not found")
	ErrOrderNotFound   = errors.NotFound("ORDER_NOT_FOUND", "order not found")

	ErrOrderNotCompleted = errors.StateConflict("ORDER_NOT_COMPLETED",
		"disputes can only be raised against completed orders")
	ErrWindowExpired = errors.StateConflict("DISPUTE_WINDOW_EXPIRED",
		"dispute window has expired")
	ErrDisputeClosed = errors.StateConflict("DISPUTE_CLOSED",
		"dispute has already been resolved")
	ErrRefundNotPending = errors.StateConflict("REFUND_NOT_PENDING",
		"refund is not pending")

	ErrIncompleteSubmission = errors.Validation("INCOMPLETE_SUBMISSION",
		"issue type, description and proof image are all required")
	ErrInvalidIssueType = errors.Validation("INVALID_ISSUE_TYPE",
		"unknown issue type")
	ErrInvalidRefundAmount = errors.Validation("INVALID_REFUND_AMOUNT",
		"refund amount must be a non-negative number")
	ErrInvalidDecision = errors.Validation("INVALID_DECISION",
		"unknown resolution decision")

	ErrNotOrderCustomer = errors.Unauthorized("NOT_ORDER_CUSTOMER",
		"only the ordering customer can raise a dispute")
	ErrAdminRequired = errors.Unauthorized("ADMIN_REQUIRED",
		"only admins can approve refunds")
)
