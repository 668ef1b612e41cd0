package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vphone/simshop/internal/shop/domain"
	"github.com/vphone/simshop/internal/shop/store"
)

type ordersRepo struct {
	db dbtx
}

const orderColumns = `id, plan_id, plan_name, monthly_price, activation_fee,
	first_credit, total, user_name, user_address, user_birth_date, status, created_at`

func (r *ordersRepo) CreateOrder(ctx context.Context, o domain.Order, directDebitEnc []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (
			id, plan_id, plan_name, monthly_price, activation_fee,
			first_credit, total, user_name, user_address, user_birth_date,
			direct_debit_enc, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.PlanID, o.PlanName,
		o.MonthlyPrice.String(), o.ActivationFee.String(),
		o.FirstCredit.String(), o.Total.String(),
		o.User.Name, o.User.Address, o.User.BirthDate,
		directDebitEnc, string(o.Status), o.CreatedAt.UTC(),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *ordersRepo) GetOrderByID(ctx context.Context, id string) (domain.Order, []byte, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`, direct_debit_enc
		FROM orders WHERE id = ?`, id)

	var (
		o                                          domain.Order
		monthly, activation, credit, total, status string
		directDebitEnc                             []byte
	)
	err := row.Scan(
		&o.ID, &o.PlanID, &o.PlanName,
		&monthly, &activation, &credit, &total,
		&o.User.Name, &o.User.Address, &o.User.BirthDate,
		&status, &o.CreatedAt, &directDebitEnc,
	)
	if err != nil {
		return domain.Order{}, nil, mapNotFound(err)
	}

	if err := mapOrderMoney(&o, monthly, activation, credit, total); err != nil {
		return domain.Order{}, nil, err
	}
	o.Status = domain.OrderStatus(status)

	return o, directDebitEnc, nil
}

func (r *ordersRepo) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var (
			o                                          domain.Order
			monthly, activation, credit, total, status string
		)
		err := rows.Scan(
			&o.ID, &o.PlanID, &o.PlanName,
			&monthly, &activation, &credit, &total,
			&o.User.Name, &o.User.Address, &o.User.BirthDate,
			&status, &o.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if err := mapOrderMoney(&o, monthly, activation, credit, total); err != nil {
			return nil, err
		}
		o.Status = domain.OrderStatus(status)
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

func (r *ordersRepo) CountOrders(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n)
	return n, err
}

// mapOrderMoney parses the TEXT money columns back into decimals. Money is
// stored as exact decimal strings, never floats.
func mapOrderMoney(o *domain.Order, monthly, activation, credit, total string) error {
	var err error
	if o.MonthlyPrice, err = decimal.NewFromString(monthly); err != nil {
		return fmt.Errorf("order %s: bad monthly_price %q: %w", o.ID, monthly, err)
	}
	if o.ActivationFee, err = decimal.NewFromString(activation); err != nil {
		return fmt.Errorf("order %s: bad activation_fee %q: %w", o.ID, activation, err)
	}
	if o.FirstCredit, err = decimal.NewFromString(credit); err != nil {
		return fmt.Errorf("order %s: bad first_credit %q: %w", o.ID, credit, err)
	}
	if o.Total, err = decimal.NewFromString(total); err != nil {
		return fmt.Errorf("order %s: bad total %q: %w", o.ID, total, err)
	}
	return nil
}
