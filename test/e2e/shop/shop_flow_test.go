package shop_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPurchaseFlowWithWalletBankDetails runs the whole purchase through the
// real binary: catalog, plan selection, checkout against the stub provider,
// verification approval with wallet-released bank details, and the
// resulting order.
func TestPurchaseFlowWithWalletBankDetails(t *testing.T) {
	provider := newStubProvider(t, []stubTick{
		{status: "INITIAL"},
		{status: "SCANNED"},
		{status: "VERIFICATION_SUCCESSFUL", fields: map[string]string{
			"firstName":     "Avery",
			"lastName":      "Quinn",
			"address":       "12 Harbour Lane, Bristol",
			"birthDate":     "1991-04-17",
			"accountNumber": "31926819",
			"sortCode":      "60-16-13",
		}},
	})

	client, cleanup := setupShopContainer(t, provider, nil)
	defer cleanup()

	ctx := context.Background()

	plans, err := client.GetPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans.Plans, 3)

	wizard, err := client.StartWizard(ctx)
	require.NoError(t, err)
	require.Equal(t, "plans", wizard.Step)

	state, err := client.SelectPlan(ctx, wizard.ID, "standard")
	require.NoError(t, err)
	require.Equal(t, "basket", state.Step)
	require.NotNil(t, state.Summary)
	require.Equal(t, "50", state.Summary.Total)

	state, err = client.Checkout(ctx, wizard.ID)
	require.NoError(t, err)
	require.Equal(t, "qr_display", state.Step)
	require.Contains(t, state.QRCodeURL, "https://wallet.example/qr/")

	// The poller walks the stub's script to approval; bank details came from
	// the wallet so the order completes without a credentials step.
	state = waitForWizardStep(t, client, wizard.ID, "completed")
	require.Equal(t, "approved", state.VerificationStatus)
	require.NotEmpty(t, state.OrderID)
	require.NotNil(t, state.Identity)
	require.Equal(t, "Avery Quinn", state.Identity.Name)
	require.True(t, state.Identity.HasBankDetails)

	order, err := client.GetOrder(ctx, state.OrderID)
	require.NoError(t, err)
	require.Equal(t, "standard", order.PlanID)
	require.Equal(t, "50", order.Total)
	require.Equal(t, "Avery Quinn", order.User.Name)

	// Payment details only ever come back masked
	require.Equal(t, "****13", order.DirectDebit.SortCode)
	require.Equal(t, "****6819", order.DirectDebit.AccountNumber)
}

// TestPurchaseFlowWithManualCredentials covers the path where the wallet
// releases identity only and the shopper types in their bank details.
func TestPurchaseFlowWithManualCredentials(t *testing.T) {
	provider := newStubProvider(t, []stubTick{
		{status: "WAITING"},
		{status: "VERIFICATION_SUCCESSFUL", fields: map[string]string{
			"firstName": "Priya",
			"lastName":  "Shah",
			"birthDate": "1988-11-02",
		}},
	})

	client, cleanup := setupShopContainer(t, provider, nil)
	defer cleanup()

	ctx := context.Background()

	wizard, err := client.StartWizard(ctx)
	require.NoError(t, err)

	_, err = client.SelectPlan(ctx, wizard.ID, "basic")
	require.NoError(t, err)

	_, err = client.Checkout(ctx, wizard.ID)
	require.NoError(t, err)

	state := waitForWizardStep(t, client, wizard.ID, "credentials")
	require.Equal(t, "approved", state.VerificationStatus)
	require.NotNil(t, state.Identity)
	require.False(t, state.Identity.HasBankDetails)

	// Bad sort code is rejected with a validation error
	_, err = client.SubmitDetails(ctx, wizard.ID, submitDetails("12-34-5", "31926819"))
	assertAPIError(t, err, http.StatusUnprocessableEntity, "invalid_bank_details")

	state, err = client.SubmitDetails(ctx, wizard.ID, submitDetails("60-16-13", "31926819"))
	require.NoError(t, err)
	require.Equal(t, "completed", state.Step)
	require.NotEmpty(t, state.OrderID)

	order, err := client.GetOrder(ctx, state.OrderID)
	require.NoError(t, err)
	require.Equal(t, "basic", order.PlanID)
	require.Equal(t, "40", order.Total)
	// Wallet identity wins over anything typed into the form
	require.Equal(t, "Priya Shah", order.User.Name)
}

// TestDeclinedVerificationAndRestart verifies a declined wallet verification
// lands on the failed step and the session can start over.
func TestDeclinedVerificationAndRestart(t *testing.T) {
	provider := newStubProvider(t, []stubTick{
		{status: "SCANNED"},
		{status: "VERIFICATION_REJECTED"},
	})

	client, cleanup := setupShopContainer(t, provider, nil)
	defer cleanup()

	ctx := context.Background()

	wizard, err := client.StartWizard(ctx)
	require.NoError(t, err)

	_, err = client.SelectPlan(ctx, wizard.ID, "premium")
	require.NoError(t, err)

	_, err = client.Checkout(ctx, wizard.ID)
	require.NoError(t, err)

	state := waitForWizardStep(t, client, wizard.ID, "failed")
	require.Equal(t, "declined", state.VerificationStatus)
	require.NotEmpty(t, state.FailureReason)

	// Reset returns the same session to the plan step
	state, err = client.ResetWizard(ctx, wizard.ID)
	require.NoError(t, err)
	require.Equal(t, wizard.ID, state.ID)
	require.Equal(t, "plans", state.Step)
	require.Empty(t, state.FailureReason)
}
