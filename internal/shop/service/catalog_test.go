package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogPlans(t *testing.T) {
	svc := NewCatalogService()

	plans := svc.Plans()
	require.Len(t, plans, 3)
	assert.Equal(t, []string{"basic", "standard", "premium"}, []string{plans[0].ID, plans[1].ID, plans[2].ID})
	assert.True(t, plans[1].Popular)

	// Handed-out copies must not leak into the catalog.
	plans[0].Features[0] = "mutated"
	assert.Equal(t, "5G Ready", svc.Plans()[0].Features[0])
}

func TestCatalogPlanLookup(t *testing.T) {
	svc := NewCatalogService()

	plan, err := svc.Plan("premium")
	require.NoError(t, err)
	assert.Equal(t, "Unlimited", plan.Data)
	assert.Equal(t, "40", plan.Price.String())

	_, err = svc.Plan("nope")
	require.ErrorIs(t, err, ErrUnknownPlan)
}

func TestOrderTotal(t *testing.T) {
	svc := NewCatalogService()

	for planID, want := range map[string]string{
		"basic":    "40",
		"standard": "50",
		"premium":  "65",
	} {
		plan, err := svc.Plan(planID)
		require.NoError(t, err)
		assert.Equal(t, want, OrderTotal(plan).String(), planID)
	}
}
