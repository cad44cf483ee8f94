// Package dispute implements the post-completion dispute and refund ledger.
// Customers contest a completed order inside its 48-hour window; staff review
// and recommend, admins approve or reject; settled refunds force the owning
// order to REFUNDED.
package dispute

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"printhub/internal/models"
	"printhub/internal/repositories"
	"printhub/internal/services/audit"
	"printhub/internal/services/order"
)

// Resolution decisions accepted by Resolve.
const (
	DecisionApproveFull    = "approve_full"
	DecisionApprovePartial = "approve_partial"
	DecisionReject         = "reject"
	DecisionRecommend      = "recommend"
)

// OrderLifecycle is the slice of the order service the ledger needs: forcing
// an order to REFUNDED after a refund settles.
type OrderLifecycle interface {
	ForceRefunded(ctx context.Context, orderID uint) (*models.Order, error)
}

// RaiseRequest is a customer's dispute submission. All of issue type,
// description and proof image are required.
type RaiseRequest struct {
	OrderID     uint
	IssueType   string
	Description string
	ProofImage  string
}

// ResolveRequest carries a staff or admin decision. RefundAmount is the raw
// admin-supplied value for approve_partial and must parse as a non-negative
// number.
type ResolveRequest struct {
	Decision     string
	AdminNotes   string
	RefundAmount string
}

type Service struct {
	disputes  repositories.DisputeRepository
	refunds   repositories.RefundRepository
	orders    repositories.OrderRepository
	lifecycle OrderLifecycle
	audit     audit.Recorder
}

func NewService(
	disputes repositories.DisputeRepository,
	refunds repositories.RefundRepository,
	orders repositories.OrderRepository,
	lifecycle OrderLifecycle,
	auditRec audit.Recorder,
) *Service {
	if disputes == nil || refunds == nil || orders == nil || lifecycle == nil {
		panic("dispute.NewService: nil dependency")
	}
	if auditRec == nil {
		auditRec = audit.NoopRecorder{}
	}
	return &Service{
		disputes:  disputes,
		refunds:   refunds,
		orders:    orders,
		lifecycle: lifecycle,
		audit:     auditRec,
	}
}

// Raise opens a dispute against a completed order. The window guard is
// evaluated against the wall clock at submission time.
func (s *Service) Raise(ctx context.Context, actor order.Principal, req RaiseRequest) (*models.Dispute, error) {
	if req.IssueType == "" || req.Description == "" || req.ProofImage == "" {
		return nil, ErrIncompleteSubmission
	}
	if !validIssueType(req.IssueType) {
		return nil, ErrInvalidIssueType
	}

	o, err := s.orders.FindByID(req.OrderID)
	if err != nil {
		if err == repositories.ErrOrderNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if o.CustomerID == nil || *o.CustomerID != actor.UserID {
		return nil, ErrNotOrderCustomer
	}
	if o.Status != models.OrderStatusCompleted {
		return nil, ErrOrderNotCompleted
	}
	if !o.InDisputeWindow(time.Now()) {
		return nil, ErrWindowExpired
	}

	d := &models.Dispute{
		OrderID:     o.ID,
		RaisedByID:  actor.UserID,
		IssueType:   req.IssueType,
		Description: req.Description,
		ProofImage:  req.ProofImage,
		Status:      models.DisputeStatusPending,
	}
	if err := s.disputes.Create(d); err != nil {
		return nil, err
	}
	s.audit.Record(&actor.UserID, "dispute.raise", "dispute", itoa(d.ID),
		audit.Detailf("order %d, issue %s", o.ID, req.IssueType))
	return d, nil
}

// Resolve applies a decision to an open dispute. A staff recommendation
// escalates to IN_REVIEW without resolving; approvals are admin-only and
// create a PENDING refund; rejection closes the dispute with no refund. An
// invalid partial amount aborts the call with the dispute untouched.
func (s *Service) Resolve(ctx context.Context, actor order.Principal, disputeID uint, req ResolveRequest) (*models.Dispute, error) {
	d, err := s.disputes.FindByID(disputeID)
	if err != nil {
		if err == repositories.ErrDisputeNotFound {
			return nil, ErrDisputeNotFound
		}
		return nil, err
	}
	if !d.IsOpen() {
		return nil, ErrDisputeClosed
	}

	now := time.Now()
	switch req.Decision {
	case DecisionRecommend:
		d.Status = models.DisputeStatusInReview
		d.AdminDecision = audit.Detailf("[STAFF RECOMMENDATION] %s", req.AdminNotes)

	case DecisionApproveFull, DecisionApprovePartial:
		if actor.Role != models.RoleAdmin {
			return nil, ErrAdminRequired
		}
		amount, err := s.approvedAmount(d, req)
		if err != nil {
			return nil, err
		}
		d.Status = models.DisputeStatusResolved
		d.RefundApproved = true
		d.RefundAmount = &amount
		d.AdminDecision = req.AdminNotes
		d.ResolvedAt = &now

		refund := &models.Refund{
			OrderID: d.OrderID,
			Amount:  amount,
			Reason:  models.RefundReasonDisputeApproved,
			Status:  models.RefundStatusPending,
		}
		if err := s.refunds.Create(refund); err != nil {
			return nil, err
		}

	case DecisionReject:
		d.Status = models.DisputeStatusRejected
		d.RefundApproved = false
		d.AdminDecision = req.AdminNotes
		d.ResolvedAt = &now

	default:
		return nil, ErrInvalidDecision
	}

	if err := s.disputes.Update(d); err != nil {
		return nil, err
	}
	s.audit.Record(&actor.UserID, "dispute.resolve", "dispute", itoa(d.ID),
		audit.Detailf("decision %s", req.Decision))
	return d, nil
}

// ProcessRefund confirms gateway settlement of a PENDING refund and forces
// the owning order to REFUNDED regardless of its current status.
func (s *Service) ProcessRefund(ctx context.Context, actor order.Principal, refundID uint) (*models.Refund, error) {
	r, err := s.refunds.FindByID(refundID)
	if err != nil {
		if err == repositories.ErrRefundNotFound {
			return nil, ErrRefundNotFound
		}
		return nil, err
	}
	if r.Status != models.RefundStatusPending {
		return nil, ErrRefundNotPending
	}

	now := time.Now()
	r.Status = models.RefundStatusCompleted
	r.ProcessedByID = &actor.UserID
	r.ProcessedAt = &now
	if err := s.refunds.Update(r); err != nil {
		return nil, err
	}

	if _, err := s.lifecycle.ForceRefunded(ctx, r.OrderID); err != nil {
		return nil, err
	}
	s.audit.Record(&actor.UserID, "refund.complete", "refund", itoa(r.ID),
		audit.Detailf("order %d refunded %s", r.OrderID, r.Amount.StringFixed(2)))
	return r, nil
}

// ListOpen returns disputes awaiting a decision, oldest first.
func (s *Service) ListOpen(ctx context.Context) ([]models.Dispute, error) {
	return s.disputes.ListOpen()
}

// ListPendingRefunds returns refunds awaiting settlement confirmation.
func (s *Service) ListPendingRefunds(ctx context.Context) ([]models.Refund, error) {
	return s.refunds.ListPending()
}

// OrderDisputes returns all disputes raised against an order, newest first.
func (s *Service) OrderDisputes(ctx context.Context, orderID uint) ([]models.Dispute, error) {
	return s.disputes.FindByOrderID(orderID)
}

func (s *Service) approvedAmount(d *models.Dispute, req ResolveRequest) (decimal.Decimal, error) {
	if req.Decision == DecisionApproveFull {
		if d.Order != nil {
			return d.Order.TotalPrice, nil
		}
		o, err := s.orders.FindByID(d.OrderID)
		if err != nil {
			return decimal.Zero, err
		}
		return o.TotalPrice, nil
	}
	amount, err := decimal.NewFromString(req.RefundAmount)
	if err != nil || amount.IsNegative() {
		return decimal.Zero, ErrInvalidRefundAmount
	}
	return amount.Round(2), nil
}

func validIssueType(issue string) bool {
	switch issue {
	case models.IssueMissingPages, models.IssueWrongColor, models.IssueWrongSize,
		models.IssuePoorQuality, models.IssueOther:
		return true
	}
	return false
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
