package service

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/vphone/simshop/internal/shop/domain"
)

var ErrUnknownPlan = errors.New("unknown plan")

// Order pricing applied to every plan at checkout. Amounts are GBP.
var (
	ActivationFee    = decimal.NewFromInt(5)
	FirstMonthCredit = decimal.NewFromInt(20)
)

// CatalogService serves the SIM plan catalog. The catalog is static for now;
// pulling it from the store is a straightforward swap later since callers
// only see the accessors.
type CatalogService struct {
	plans []domain.Plan
}

func NewCatalogService() *CatalogService {
	return &CatalogService{
		plans: []domain.Plan{
			{
				ID:       "basic",
				Name:     "Essential",
				Price:    decimal.NewFromInt(15),
				Data:     "5GB",
				Minutes:  "Unlimited",
				Texts:    "Unlimited",
				Features: []string{"5G Ready", "EU Roaming", "WiFi Calling"},
			},
			{
				ID:       "standard",
				Name:     "Standard",
				Price:    decimal.NewFromInt(25),
				Data:     "20GB",
				Minutes:  "Unlimited",
				Texts:    "Unlimited",
				Features: []string{"5G Ready", "EU Roaming", "WiFi Calling", "Hotspot"},
				Popular:  true,
			},
			{
				ID:       "premium",
				Name:     "Premium",
				Price:    decimal.NewFromInt(40),
				Data:     "Unlimited",
				Minutes:  "Unlimited",
				Texts:    "Unlimited",
				Features: []string{"5G Ready", "Global Roaming", "WiFi Calling", "Hotspot", "Priority Support"},
			},
		},
	}
}

// Plans returns the catalog as copies so callers cannot mutate it.
func (s *CatalogService) Plans() []domain.Plan {
	out := make([]domain.Plan, len(s.plans))
	for i, p := range s.plans {
		out[i] = p.Clone()
	}
	return out
}

// Plan looks up one catalog entry.
func (s *CatalogService) Plan(id string) (domain.Plan, error) {
	for _, p := range s.plans {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return domain.Plan{}, ErrUnknownPlan
}

// OrderTotal is the amount due today: the first month's plan price, the
// one-off activation fee, and the welcome airtime credit.
func OrderTotal(p domain.Plan) decimal.Decimal {
	return p.Price.Add(ActivationFee).Add(FirstMonthCredit)
}
