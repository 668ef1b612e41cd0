package http

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vphone/simshop/internal/shop/service"
	"github.com/vphone/simshop/internal/shop/store/drivers/sqlite"
	"github.com/vphone/simshop/pkg/pingsdk"
	"github.com/vphone/simshop/pkg/shopsdk"
	"github.com/vphone/simshop/pkg/slogx"
)

// stubProvider walks a fixed raw status sequence, repeating the last entry.
type stubProvider struct {
	mu       sync.Mutex
	statuses []string
	fields   []pingsdk.CredentialField
	calls    int
}

func (p *stubProvider) RequestAccessToken(context.Context) (string, error) {
	return "token-1", nil
}

func (p *stubProvider) CreatePresentationSession(context.Context, string, string) (*pingsdk.PresentationSession, error) {
	return &pingsdk.PresentationSession{
		SessionID:     "sess-1",
		EnvironmentID: "env-1",
		QRCodeURL:     "https://provider.test/qr/sess-1.png",
		ExpiresAt:     time.Now().Add(5 * time.Minute),
		Status:        pingsdk.RawStatusInitial,
	}, nil
}

func (p *stubProvider) CheckStatus(context.Context, string, string, string) (*pingsdk.StatusResponse, error) {
	p.mu.Lock()
	i := p.calls
	p.calls++
	if i >= len(p.statuses) {
		i = len(p.statuses) - 1
	}
	status := p.statuses[i]
	p.mu.Unlock()

	resp := &pingsdk.StatusResponse{ID: "sess-1", Status: status}
	if status == pingsdk.RawStatusSuccessful && len(p.fields) > 0 {
		resp.SessionData = &pingsdk.SessionData{
			CredentialsData: []pingsdk.CredentialData{{Type: "Your Digital ID", Data: p.fields}},
		}
	}
	return resp, nil
}

func newTestServer(t *testing.T, provider *stubProvider) *shopsdk.SDKClient {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "shop.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	logger := slogx.New(slogx.Config{Service: "simshop", Env: "test", Format: "text"})
	orders := service.NewOrderService(st, logger)
	wizard := service.NewWizardService(service.NewCatalogService(), provider, orders, st, logger, service.WizardConfig{
		PollerOptions:     service.PollerOptions{Interval: 5 * time.Millisecond, MaxFailures: 3},
		WalletBankDetails: true,
	})

	router := NewRouter("test", st, logger)
	router.CatalogService = service.NewCatalogService()
	router.WizardService = wizard
	router.OrderService = orders
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return shopsdk.NewSDKClient(srv.URL)
}

func TestPurchaseFlowOverHTTP(t *testing.T) {
	ctx := context.Background()
	provider := &stubProvider{
		statuses: []string{
			pingsdk.RawStatusWaiting,
			pingsdk.RawStatusScanned,
			pingsdk.RawStatusSuccessful,
		},
		fields: []pingsdk.CredentialField{
			{Key: "firstName", Value: "Avery"},
			{Key: "lastName", Value: "Quinn"},
			{Key: "sortCode", Value: "601613"},
			{Key: "accountNumber", Value: "31926819"},
		},
	}
	client := newTestServer(t, provider)

	plans, err := client.GetPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans.Plans, 3)
	assert.Equal(t, "25", plans.Plans[1].Price)

	state, err := client.StartWizard(ctx)
	require.NoError(t, err)
	assert.Equal(t, "plans", state.Step)

	state, err = client.SelectPlan(ctx, state.ID, "standard")
	require.NoError(t, err)
	assert.Equal(t, "basket", state.Step)
	require.NotNil(t, state.Summary)
	assert.Equal(t, "50", state.Summary.Total)

	state, err = client.Checkout(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, "qr_display", state.Step)
	assert.NotEmpty(t, state.QRCodeURL)

	require.Eventually(t, func() bool {
		state, err = client.GetWizard(ctx, state.ID)
		require.NoError(t, err)
		return state.Step == "completed"
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, "approved", state.VerificationStatus)
	require.NotNil(t, state.Identity)
	assert.True(t, state.Identity.HasBankDetails)
	require.NotEmpty(t, state.OrderID)

	order, err := client.GetOrder(ctx, state.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "Avery Quinn", order.User.Name)
	assert.Equal(t, "****6819", order.DirectDebit.AccountNumber)
	assert.Equal(t, "****13", order.DirectDebit.SortCode)
	assert.Equal(t, "completed", order.Status)
}

func TestManualCredentialsOverHTTP(t *testing.T) {
	ctx := context.Background()
	provider := &stubProvider{
		statuses: []string{pingsdk.RawStatusSuccessful},
		fields: []pingsdk.CredentialField{
			{Key: "firstName", Value: "Avery"},
			{Key: "lastName", Value: "Quinn"},
		},
	}
	client := newTestServer(t, provider)

	state, err := client.StartWizard(ctx)
	require.NoError(t, err)
	_, err = client.SelectPlan(ctx, state.ID, "basic")
	require.NoError(t, err)
	_, err = client.Checkout(ctx, state.ID)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		state, err = client.GetWizard(ctx, state.ID)
		require.NoError(t, err)
		return state.Step == "credentials"
	}, 2*time.Second, 5*time.Millisecond)

	// Bad details are a 422 with a machine-readable code.
	_, err = client.SubmitDetails(ctx, state.ID, shopsdk.SubmitDetailsRequest{
		SortCode: "12", AccountNumber: "34",
	})
	var apiErr *shopsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, shopsdk.ErrorCodeInvalidBankDetails, apiErr.Code)

	state, err = client.SubmitDetails(ctx, state.ID, shopsdk.SubmitDetailsRequest{
		SortCode: "60-16-13", AccountNumber: "31926819",
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", state.Step)
	require.NotEmpty(t, state.OrderID)
}

func TestWizardErrorResponses(t *testing.T) {
	ctx := context.Background()
	client := newTestServer(t, &stubProvider{statuses: []string{pingsdk.RawStatusWaiting}})

	var apiErr *shopsdk.APIError

	_, err := client.GetWizard(ctx, "01ZZZZZZZZZZZZZZZZZZZZZZZZ")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, shopsdk.ErrorCodeNotFound, apiErr.Code)

	state, err := client.StartWizard(ctx)
	require.NoError(t, err)

	_, err = client.SelectPlan(ctx, state.ID, "gold-plated")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, shopsdk.ErrorCodeUnknownPlan, apiErr.Code)

	// Checkout without a basket is a step conflict.
	_, err = client.Checkout(ctx, state.ID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, shopsdk.ErrorCodeInvalidStep, apiErr.Code)
}

func TestHealthEndpoints(t *testing.T) {
	ctx := context.Background()
	client := newTestServer(t, &stubProvider{statuses: []string{pingsdk.RawStatusWaiting}})

	live, err := client.GetLiveness(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", live.Status)
	assert.Equal(t, "test", live.Version)

	ready, err := client.GetReadiness(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	assert.Equal(t, "ok", ready.Checks.Database)
}
