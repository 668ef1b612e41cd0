package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vphone/simshop/internal/shop/domain"
	"github.com/vphone/simshop/internal/shop/store"
	"github.com/vphone/simshop/pkg/cryptox"
	"github.com/vphone/simshop/pkg/idx"
)

// OrderService persists completed purchases. Direct debit details are sealed
// with the data key before they touch the database and unsealed only on
// explicit reads.
type OrderService struct {
	Store  store.Store
	Logger *slog.Logger
}

func NewOrderService(st store.Store, logger *slog.Logger) *OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderService{Store: st, Logger: logger}
}

// Create validates the purchaser's details and writes the order. Price
// fields are snapshotted from the plan at this moment.
func (s *OrderService) Create(ctx context.Context, plan domain.Plan, user domain.UserDetails, dd domain.DirectDebitDetails) (domain.Order, error) {
	user.Name = strings.TrimSpace(user.Name)
	if user.Name == "" {
		return domain.Order{}, domain.ErrMissingName
	}

	dd = dd.Normalize()
	if err := dd.Validate(); err != nil {
		return domain.Order{}, err
	}

	payload, err := json.Marshal(dd)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to encode direct debit details: %w", err)
	}
	sealed, err := cryptox.Encrypt(payload)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to seal direct debit details: %w", err)
	}

	order := domain.Order{
		ID:            idx.New().String(),
		PlanID:        plan.ID,
		PlanName:      plan.Name,
		MonthlyPrice:  plan.Price,
		ActivationFee: ActivationFee,
		FirstCredit:   FirstMonthCredit,
		Total:         OrderTotal(plan),
		User:          user,
		DirectDebit:   dd,
		Status:        domain.OrderCompleted,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.Store.Orders().CreateOrder(ctx, order, sealed); err != nil {
		return domain.Order{}, err
	}

	s.Logger.Info("order created",
		slog.String("order_id", order.ID),
		slog.String("plan_id", order.PlanID),
		slog.String("total", order.Total.StringFixed(2)))

	return order, nil
}

// Get returns one order with its direct debit details unsealed.
func (s *OrderService) Get(ctx context.Context, id string) (domain.Order, error) {
	order, sealed, err := s.Store.Orders().GetOrderByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}

	if len(sealed) > 0 {
		payload, err := cryptox.Decrypt(sealed)
		if err != nil {
			return domain.Order{}, fmt.Errorf("failed to unseal direct debit details for order %s: %w", id, err)
		}
		if err := json.Unmarshal(payload, &order.DirectDebit); err != nil {
			return domain.Order{}, fmt.Errorf("failed to decode direct debit details for order %s: %w", id, err)
		}
	}

	return order, nil
}

// List returns all orders, newest first, without payment details.
func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.Store.Orders().ListOrders(ctx)
}
