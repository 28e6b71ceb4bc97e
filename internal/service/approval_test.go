package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/khannadk2/swift-order-entry/internal/domain"
	"github.com/khannadk2/swift-order-entry/internal/store"
)

type approvalTestEnv struct {
	orderSvc      *OrderService
	approvalSvc   *ApprovalService
	orderStore    *store.OrderStore
	approvalStore *store.ApprovalStore
}

func newApprovalTestEnv() *approvalTestEnv {
	orderStore := store.NewOrderStore()
	approvalStore := store.NewApprovalStore()
	return &approvalTestEnv{
		orderSvc:      NewOrderService(testCatalog(), testProvider(), orderStore, approvalStore, nil, nil),
		approvalSvc:   NewApprovalService(approvalStore, orderStore, nil, nil),
		orderStore:    orderStore,
		approvalStore: approvalStore,
	}
}

// submitPending submits an order large enough to need supervisory
// approval.
func submitPending(t *testing.T, env *approvalTestEnv) *domain.Order {
	t.Helper()
	order, err := env.orderSvc.SubmitOrder(OrderRequest{
		Symbol:            "AAPL",
		Side:              domain.OrderSideBuy,
		Type:              domain.OrderTypeMarket,
		Quantity:          1500,
		InvestmentAccount: "INV-002 Growth",
		CashAccount:       "CASH-002 USD",
	})
	if err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	if order.Status != domain.OrderStatusPendingApproval {
		t.Fatalf("status = %s, want pending_approval", order.Status)
	}
	return order
}

func TestApprove(t *testing.T) {
	env := newApprovalTestEnv()
	order := submitPending(t, env)

	approved, err := env.approvalSvc.Approve(order.OrderID, "reviewed against mandate")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != domain.OrderStatusNew {
		t.Errorf("status = %s, want new", approved.Status)
	}
	if approved.DecidedAt == nil {
		t.Error("DecidedAt not set")
	}
	if approved.ApprovalComment != "reviewed against mandate" {
		t.Errorf("comment = %q", approved.ApprovalComment)
	}
	if env.approvalStore.Len() != 0 {
		t.Error("approved order still in the queue")
	}
}

func TestApprove_CommentIsOptional(t *testing.T) {
	env := newApprovalTestEnv()
	order := submitPending(t, env)

	approved, err := env.approvalSvc.Approve(order.OrderID, "")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != domain.OrderStatusNew {
		t.Errorf("status = %s, want new", approved.Status)
	}
}

func TestReject(t *testing.T) {
	env := newApprovalTestEnv()
	order := submitPending(t, env)

	rejected, err := env.approvalSvc.Reject(order.OrderID, "exceeds desk risk appetite")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.Status != domain.OrderStatusRejected {
		t.Errorf("status = %s, want rejected", rejected.Status)
	}
	if rejected.DecidedAt == nil {
		t.Error("DecidedAt not set")
	}
	if env.approvalStore.Len() != 0 {
		t.Error("rejected order still in the queue")
	}
}

func TestReject_RequiresComment(t *testing.T) {
	env := newApprovalTestEnv()
	order := submitPending(t, env)

	_, err := env.approvalSvc.Reject(order.OrderID, "")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("err = %v, want ValidationError", err)
	}
	if env.approvalStore.Len() != 1 {
		t.Error("order should remain queued after a failed rejection")
	}
}

func TestDecide_CommentTooLong(t *testing.T) {
	env := newApprovalTestEnv()
	order := submitPending(t, env)
	long := strings.Repeat("x", 501)

	var verr *domain.ValidationError
	if _, err := env.approvalSvc.Approve(order.OrderID, long); !errors.As(err, &verr) {
		t.Errorf("Approve err = %v, want ValidationError", err)
	}
	if _, err := env.approvalSvc.Reject(order.OrderID, long); !errors.As(err, &verr) {
		t.Errorf("Reject err = %v, want ValidationError", err)
	}
}

func TestDecide_NotPending(t *testing.T) {
	env := newApprovalTestEnv()

	if _, err := env.approvalSvc.Approve("missing", ""); !errors.Is(err, domain.ErrOrderNotPending) {
		t.Errorf("err = %v, want ErrOrderNotPending", err)
	}

	order := submitPending(t, env)
	if _, err := env.approvalSvc.Approve(order.OrderID, ""); err != nil {
		t.Fatalf("first Approve: %v", err)
	}
	if _, err := env.approvalSvc.Approve(order.OrderID, ""); !errors.Is(err, domain.ErrOrderNotPending) {
		t.Errorf("second Approve err = %v, want ErrOrderNotPending", err)
	}
}

func TestListPending(t *testing.T) {
	env := newApprovalTestEnv()

	first := submitPending(t, env)
	second := submitPending(t, env)

	pending := env.approvalSvc.ListPending()
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}
	if pending[0].OrderID != first.OrderID || pending[1].OrderID != second.OrderID {
		t.Error("pending orders not in submission order")
	}
}
