package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/d8nd8/python-final-diplom/internal/domain/identity"
	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"github.com/d8nd8/python-final-diplom/internal/domain/trade"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/logger"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/notify"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Order error codes
const (
	ErrCodeEmptyCart       = "EMPTY_CART"
	ErrCodeOrderNotFound   = "ORDER_NOT_FOUND"
	ErrCodeContactNotFound = "CONTACT_NOT_FOUND"
	ErrCodeInvalidStatus   = "INVALID_STATUS"
)

// OrderNotifier tells the buyer about a confirmed order
type OrderNotifier interface {
	SendOrderConfirmation(ctx context.Context, notice notify.OrderNotice) error
}

// OrderService converts carts into orders and drives the order state machine
type OrderService struct {
	txScope  TransactionScope
	orders   trade.OrderRepository
	contacts identity.ContactRepository
	users    identity.UserRepository
	notifier OrderNotifier
	metrics  *telemetry.MarketMetrics
	logger   *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	txScope TransactionScope,
	orders trade.OrderRepository,
	contacts identity.ContactRepository,
	users identity.UserRepository,
	notifier OrderNotifier,
	metrics *telemetry.MarketMetrics,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		txScope:  txScope,
		orders:   orders,
		contacts: contacts,
		users:    users,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// Checkout turns the user's cart into a pending order delivered to contactID.
// The order items are snapshots of the cart lines; the cart is emptied in the same transaction.
func (s *OrderService) Checkout(ctx context.Context, userID, contactID int64) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "checkout",
		telemetry.AttrUserID.Int64(userID),
	)
	defer span.End()

	var order *trade.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		contact, err := repos.ContactRepo().FindByIDForUser(ctx, userID, contactID)
		if err != nil {
			return contactError(err)
		}

		cart, err := repos.CartRepo().FindByUser(ctx, userID)
		if errors.Is(err, shared.ErrNotFound) {
			return emptyCart()
		}
		if err != nil {
			return fmt.Errorf("failed to load cart: %w", err)
		}
		lines, err := repos.CartRepo().Lines(ctx, cart.ID)
		if err != nil {
			return fmt.Errorf("failed to load cart lines: %w", err)
		}
		if len(lines) == 0 {
			return emptyCart()
		}

		order, err = trade.NewOrder(userID, contact.ID)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if err := order.SnapshotItem(line); err != nil {
				return err
			}
		}
		if err := repos.OrderRepo().Create(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if err := repos.CartRepo().Clear(ctx, cart.ID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(telemetry.AttrOrderID.Int64(order.ID))
	telemetry.SetOK(span)
	s.metrics.RecordCheckout(ctx, order.Total().InexactFloat64())
	logger.Enrich(ctx, s.logger).Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.Total().StringFixed(2)),
	)
	return ToOrderResponse(order), nil
}

// Confirm moves the user's pending order to confirmed and assigns contactID.
// Confirming an already confirmed order fails with ALREADY_CONFIRMED and changes nothing.
func (s *OrderService) Confirm(ctx context.Context, userID, orderID, contactID int64) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "confirm",
		telemetry.AttrUserID.Int64(userID),
		telemetry.AttrOrderID.Int64(orderID),
	)
	defer span.End()

	order, err := s.orders.FindByIDForUser(ctx, userID, orderID)
	if err != nil {
		err = orderError(err)
		telemetry.RecordError(span, err)
		return nil, err
	}
	if order.Status == trade.OrderStatusConfirmed {
		err := order.Confirm(contactID)
		telemetry.RecordError(span, err)
		return nil, err
	}
	contact, err := s.contacts.FindByIDForUser(ctx, userID, contactID)
	if err != nil {
		err = contactError(err)
		telemetry.RecordError(span, err)
		return nil, err
	}

	confirm := func(o *trade.Order) error { return o.Confirm(contact.ID) }
	if err := s.transition(ctx, order, confirm); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetOK(span)
	s.metrics.RecordOrderTransition(ctx, order.Status.String())
	s.notifyConfirmed(ctx, order)
	return ToOrderResponse(order), nil
}

// ChangeStatus applies an administrative transition (ship, deliver, cancel, confirm)
func (s *OrderService) ChangeStatus(ctx context.Context, orderID int64, status string) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "change_status",
		telemetry.AttrOrderID.Int64(orderID),
	)
	defer span.End()

	target := trade.OrderStatus(status)
	if !target.IsValid() || target == trade.OrderStatusPending {
		err := shared.NewDomainError(ErrCodeInvalidStatus, fmt.Sprintf("Cannot move an order to status %q", status))
		telemetry.RecordError(span, err)
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		err = orderError(err)
		telemetry.RecordError(span, err)
		return nil, err
	}
	apply := func(o *trade.Order) error { return o.TransitionTo(target) }
	if err := s.transition(ctx, order, apply); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetOK(span)
	s.metrics.RecordOrderTransition(ctx, order.Status.String())
	logger.Enrich(ctx, s.logger).Info("Order status changed",
		zap.Int64("order_id", order.ID),
		zap.String("status", order.Status.String()),
	)
	if order.Status == trade.OrderStatusConfirmed {
		s.notifyConfirmed(ctx, order)
	}
	return ToOrderResponse(order), nil
}

// List returns the user's orders, newest first
func (s *OrderService) List(ctx context.Context, userID int64) ([]OrderResponse, error) {
	orders, err := s.orders.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// Get returns one of the user's orders
func (s *OrderService) Get(ctx context.Context, userID, orderID int64) (*OrderResponse, error) {
	order, err := s.orders.FindByIDForUser(ctx, userID, orderID)
	if err != nil {
		return nil, orderError(err)
	}
	return ToOrderResponse(order), nil
}

// transition applies the change and stores it only if the stored status is unchanged.
// When another writer got there first the change is replayed on the stored order,
// so the caller gets the same error a sequential request would.
func (s *OrderService) transition(ctx context.Context, order *trade.Order, apply func(*trade.Order) error) error {
	from := order.Status
	if err := apply(order); err != nil {
		return err
	}
	err := s.orders.UpdateStatus(ctx, order, from)
	if err == nil {
		return nil
	}
	if !errors.Is(err, shared.ErrConflict) {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	current, findErr := s.orders.FindByID(ctx, order.ID)
	if findErr != nil {
		return orderError(findErr)
	}
	if replayErr := apply(current); replayErr != nil {
		return replayErr
	}
	return err
}

// notifyConfirmed sends the confirmation notice. Failures are logged; the order stays confirmed.
func (s *OrderService) notifyConfirmed(ctx context.Context, order *trade.Order) {
	if s.notifier == nil {
		return
	}
	log := logger.Enrich(ctx, s.logger)
	notice := notify.OrderNotice{
		OrderID: order.ID,
		Items:   len(order.Items),
		Total:   order.Total(),
	}
	if s.users != nil {
		user, err := s.users.FindByID(ctx, order.UserID)
		if err != nil {
			log.Warn("Could not load order owner for notification", zap.Int64("order_id", order.ID), zap.Error(err))
		} else {
			notice.Email = user.Email
		}
	}
	if err := s.notifier.SendOrderConfirmation(ctx, notice); err != nil {
		log.Error("Order confirmation notice failed", zap.Int64("order_id", order.ID), zap.Error(err))
	}
}

func emptyCart() error {
	return shared.NewDomainError(ErrCodeEmptyCart, "Cart is empty")
}

func orderError(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError(ErrCodeOrderNotFound, "Order")
	}
	return err
}

func contactError(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError(ErrCodeContactNotFound, "Contact")
	}
	return err
}
