package service

import (
	"time"

	"github.com/khannadk2/swift-order-entry/internal/domain"
	"github.com/khannadk2/swift-order-entry/internal/store"
	"github.com/khannadk2/swift-order-entry/internal/stream"
)

const maxApprovalCommentLen = 500

// ApprovalService handles the supervisory review queue: listing orders
// awaiting sign-off and recording approve/reject decisions.
type ApprovalService struct {
	approvalStore *store.ApprovalStore
	orderStore    *store.OrderStore
	webhookSvc    *WebhookService
	hub           *stream.Hub
}

// NewApprovalService creates a new ApprovalService with the given
// dependencies. webhookSvc and hub may be nil.
func NewApprovalService(
	approvalStore *store.ApprovalStore,
	orderStore *store.OrderStore,
	webhookSvc *WebhookService,
	hub *stream.Hub,
) *ApprovalService {
	return &ApprovalService{
		approvalStore: approvalStore,
		orderStore:    orderStore,
		webhookSvc:    webhookSvc,
		hub:           hub,
	}
}

// ListPending returns the orders awaiting approval in submission order.
func (s *ApprovalService) ListPending() []*domain.Order {
	return s.approvalStore.Pending()
}

// Approve releases a pending order into the working book. The comment
// is optional.
func (s *ApprovalService) Approve(orderID, comment string) (*domain.Order, error) {
	if len(comment) > maxApprovalCommentLen {
		return nil, &domain.ValidationError{Message: "comment must be at most 500 characters"}
	}

	order, err := s.decide(orderID, domain.OrderStatusNew, comment)
	if err != nil {
		return nil, err
	}

	publishOrderEvent(s.hub, s.webhookSvc, "order.approved", order)
	return order, nil
}

// Reject declines a pending order. A rejection must carry a supervisor
// comment explaining the decision.
func (s *ApprovalService) Reject(orderID, comment string) (*domain.Order, error) {
	if comment == "" {
		return nil, &domain.ValidationError{Message: "comment is required when rejecting an order"}
	}
	if len(comment) > maxApprovalCommentLen {
		return nil, &domain.ValidationError{Message: "comment must be at most 500 characters"}
	}

	order, err := s.decide(orderID, domain.OrderStatusRejected, comment)
	if err != nil {
		return nil, err
	}

	publishOrderEvent(s.hub, s.webhookSvc, "order.rejected", order)
	return order, nil
}

// decide transitions a pending-approval order to the decided status
// under the order-store lock and dequeues it from the approval queue.
func (s *ApprovalService) decide(orderID string, to domain.OrderStatus, comment string) (*domain.Order, error) {
	if _, err := s.approvalStore.Get(orderID); err != nil {
		return nil, err
	}

	order, err := s.orderStore.Update(orderID, func(o *domain.Order) error {
		if o.Status != domain.OrderStatusPendingApproval {
			return domain.ErrOrderNotPending
		}
		now := time.Now().UTC()
		o.Status = to
		o.DecidedAt = &now
		o.ApprovalComment = comment
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.approvalStore.Remove(orderID)
	return order, nil
}
