package shop

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/fjod/go_storefront/internal/auth"
	"github.com/fjod/go_storefront/internal/backend"
	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/order"
)

// OrderBackend is the slice of the REST client the shop submits orders to.
type OrderBackend interface {
	CreateOrder(ctx context.Context, payload *order.Payload, idempotencyKey string) (int64, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	UpdateOrder(ctx context.Context, id int64, payload *order.Payload) error
	DeleteOrder(ctx context.Context, id int64) error
}

// Shop wires catalog snapshot, cart, auth session and order engine into the
// storefront control flow: snapshot -> cart -> order payload -> backend.
// Engine operations are synchronous; the only suspension points are backend
// calls, and at most one mutating call may be in flight at a time.
type Shop struct {
	catalog *catalog.Service
	cart    *cart.Cart
	session *auth.Session
	backend OrderBackend
	logger  *slog.Logger

	mu       sync.Mutex
	inFlight bool
	edit     *order.Session
}

func New(catalogSvc *catalog.Service, c *cart.Cart, session *auth.Session, b OrderBackend, logger *slog.Logger) *Shop {
	return &Shop{
		catalog: catalogSvc,
		cart:    c,
		session: session,
		backend: b,
		logger:  logger,
	}
}

func (s *Shop) Cart() *cart.Cart {
	return s.cart
}

// Browse returns the current catalog snapshot, fetching one if needed.
func (s *Shop) Browse(ctx context.Context) (*catalog.Snapshot, error) {
	return s.catalog.Current(ctx)
}

// AddToCart adds one unit of the product against the current snapshot.
func (s *Shop) AddToCart(ctx context.Context, productID int64) error {
	snapshot, err := s.catalog.Current(ctx)
	if err != nil {
		return err
	}
	return s.cart.Add(snapshot, productID)
}

// Checkout builds the order payload from the cart and submits it. On
// success the cart is cleared and the snapshot invalidated so stock reads
// reflect the backend's decrement. On failure the cart is left untouched
// for the user to retry.
func (s *Shop) Checkout(ctx context.Context) (int64, error) {
	if _, ok := s.session.Current(); !ok {
		return 0, ErrNotLoggedIn
	}

	payload, err := order.BuildPayload(s.cart.Lines())
	if err != nil {
		return 0, err
	}

	if !s.acquire() {
		return 0, ErrBusy
	}
	defer s.release()

	orderID, err := s.backend.CreateOrder(ctx, payload, uuid.NewString())
	if err != nil {
		s.handleUnauthorized(err)
		return 0, err
	}

	s.cart.Clear()
	s.catalog.Invalidate(ctx)
	s.logger.Info("order placed", "order_id", orderID, "lines", len(payload.Items))
	return orderID, nil
}

// Orders lists the authenticated user's orders.
func (s *Shop) Orders(ctx context.Context) ([]domain.Order, error) {
	if _, ok := s.session.Current(); !ok {
		return nil, ErrNotLoggedIn
	}
	orders, err := s.backend.ListOrders(ctx)
	if err != nil {
		s.handleUnauthorized(err)
		return nil, err
	}
	return orders, nil
}

// StartEdit opens an edit session for the order against a fresh snapshot.
// Ceilings are computed at this moment and never reused across sessions.
// An edit session already open is discarded first.
func (s *Shop) StartEdit(ctx context.Context, orderID int64) (*order.Session, error) {
	orders, err := s.Orders(ctx)
	if err != nil {
		return nil, err
	}

	var target *domain.Order
	for i := range orders {
		if orders[i].ID == orderID {
			target = &orders[i]
			break
		}
	}
	if target == nil {
		return nil, ErrOrderNotFound
	}

	snapshot, err := s.catalog.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	session := order.Begin(*target, snapshot)

	s.mu.Lock()
	if s.edit != nil && s.edit.State() == order.StateOpen {
		_ = s.edit.Discard()
	}
	s.edit = session
	s.mu.Unlock()

	return session, nil
}

// Edit returns the open edit session, if any.
func (s *Shop) Edit() (*order.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit == nil {
		return nil, ErrNoEditSession
	}
	return s.edit, nil
}

// CommitEdit submits the replacement line set and closes the session once
// the backend accepted it. On a failed submit the session stays open with
// its edits intact so the user can retry; it is released only on success,
// on an expired backend session, or by an explicit discard. If the user
// dismissed the session while the call was in flight, the late response is
// dropped instead of being applied.
func (s *Shop) CommitEdit(ctx context.Context) error {
	s.mu.Lock()
	session := s.edit
	s.mu.Unlock()
	if session == nil {
		return ErrNoEditSession
	}

	if !s.acquire() {
		return ErrBusy
	}
	defer s.release()

	payload, err := session.Payload()
	if err != nil {
		return err
	}

	err = s.backend.UpdateOrder(ctx, session.OrderID(), payload)

	s.mu.Lock()
	current := s.edit == session
	s.mu.Unlock()

	if !current {
		// The session was dismissed mid-flight; whatever came back must
		// not touch local state.
		s.logger.Warn("dropping stale edit response", "order_id", session.OrderID())
		return nil
	}

	if err != nil {
		s.handleUnauthorized(err)
		return err
	}

	_, _ = session.Commit()
	s.mu.Lock()
	if s.edit == session {
		s.edit = nil
	}
	s.mu.Unlock()

	s.catalog.Invalidate(ctx)
	s.logger.Info("order updated", "order_id", session.OrderID(), "lines", len(payload.Items))
	return nil
}

// DiscardEdit releases the open session without submitting anything.
func (s *Shop) DiscardEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit == nil {
		return ErrNoEditSession
	}
	err := s.edit.Discard()
	s.edit = nil
	if errors.Is(err, order.ErrSessionClosed) {
		// Already committed; nothing left to release.
		return nil
	}
	return err
}

// DeleteOrder asks the backend to restore the order's stock and drop the
// record, then invalidates the snapshot so the restoration is visible.
func (s *Shop) DeleteOrder(ctx context.Context, orderID int64) error {
	if _, ok := s.session.Current(); !ok {
		return ErrNotLoggedIn
	}

	if !s.acquire() {
		return ErrBusy
	}
	defer s.release()

	if err := s.backend.DeleteOrder(ctx, orderID); err != nil {
		s.handleUnauthorized(err)
		return err
	}

	s.catalog.Invalidate(ctx)
	s.logger.Info("order deleted", "order_id", orderID)
	return nil
}

// Logout drops the backend session and, per the original behaviour, empties
// the cart with it.
func (s *Shop) Logout(ctx context.Context) error {
	if err := s.session.Logout(ctx); err != nil {
		return err
	}
	s.cart.Clear()
	s.mu.Lock()
	if s.edit != nil && s.edit.State() == order.StateOpen {
		_ = s.edit.Discard()
	}
	s.edit = nil
	s.mu.Unlock()
	return nil
}

// handleUnauthorized terminates local session state when the backend
// rejects the cookie, forcing a re-authentication prompt instead of a
// silent retry.
func (s *Shop) handleUnauthorized(err error) {
	if !errors.Is(err, backend.ErrUnauthorized) {
		return
	}
	s.session.Reset()
	s.mu.Lock()
	if s.edit != nil && s.edit.State() == order.StateOpen {
		_ = s.edit.Discard()
	}
	s.edit = nil
	s.mu.Unlock()
	s.logger.Warn("session expired, local state reset")
}

func (s *Shop) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return false
	}
	s.inFlight = true
	return true
}

func (s *Shop) release() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}
