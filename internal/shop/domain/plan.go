package domain

import "github.com/shopspring/decimal"

// Plan is a catalog entry for a monthly SIM plan. Catalog entries are
// read-only; services hand out copies so callers cannot mutate the catalog.
type Plan struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"` // GBP per month, VAT inclusive
	Data     string          `json:"data"`
	Minutes  string          `json:"minutes"`
	Texts    string          `json:"texts"`
	Features []string        `json:"features"`
	Popular  bool            `json:"popular,omitempty"`
}

// Clone returns a deep copy of the plan.
func (p Plan) Clone() Plan {
	out := p
	out.Features = append([]string(nil), p.Features...)
	return out
}
