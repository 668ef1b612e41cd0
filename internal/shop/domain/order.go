package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidSortCode      = errors.New("sort code must be 6 digits")
	ErrInvalidAccountNumber = errors.New("account number must be 8 digits")
	ErrMissingName          = errors.New("account holder name is required")
)

var (
	sortCodeRe      = regexp.MustCompile(`^\d{6}$`)
	accountNumberRe = regexp.MustCompile(`^\d{8}$`)
)

// UserDetails holds the purchaser's identity fields, either released by the
// wallet or entered manually.
type UserDetails struct {
	Name      string `json:"name"`
	Address   string `json:"address,omitempty"`
	BirthDate string `json:"birth_date,omitempty"`
}

// DirectDebitDetails is a recurring payment authorization for the plan's
// monthly charge. Stored encrypted; exposed only in masked form.
type DirectDebitDetails struct {
	SortCode      string `json:"sort_code"`
	AccountNumber string `json:"account_number"`
}

// Normalize strips the common dashed sort code form (60-16-13 -> 601613).
func (d DirectDebitDetails) Normalize() DirectDebitDetails {
	d.SortCode = strings.ReplaceAll(strings.TrimSpace(d.SortCode), "-", "")
	d.AccountNumber = strings.TrimSpace(d.AccountNumber)
	return d
}

// Validate checks the UK direct debit field formats.
func (d DirectDebitDetails) Validate() error {
	if !sortCodeRe.MatchString(d.SortCode) {
		return ErrInvalidSortCode
	}
	if !accountNumberRe.MatchString(d.AccountNumber) {
		return ErrInvalidAccountNumber
	}
	return nil
}

// MaskedSortCode returns the sort code with only the last two digits visible.
func (d DirectDebitDetails) MaskedSortCode() string {
	if len(d.SortCode) != 6 {
		return ""
	}
	return "****" + d.SortCode[4:]
}

// MaskedAccountNumber returns the account number with only the last four
// digits visible.
func (d DirectDebitDetails) MaskedAccountNumber() string {
	if len(d.AccountNumber) != 8 {
		return ""
	}
	return "****" + d.AccountNumber[4:]
}

// OrderStatus is the lifecycle state of a persisted order.
type OrderStatus string

const (
	OrderCompleted OrderStatus = "completed"
)

// Order is the persisted record of a completed SIM purchase. Price fields
// are snapshotted at completion so later catalog changes never touch
// existing orders.
type Order struct {
	ID            string
	PlanID        string
	PlanName      string
	MonthlyPrice  decimal.Decimal
	ActivationFee decimal.Decimal
	FirstCredit   decimal.Decimal
	Total         decimal.Decimal
	User          UserDetails
	DirectDebit   DirectDebitDetails
	Status        OrderStatus
	CreatedAt     time.Time
}
