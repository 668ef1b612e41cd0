package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"

	"github.com/vphone/simshop/internal/shop/domain"
	"github.com/vphone/simshop/internal/shop/store"
	"github.com/vphone/simshop/pkg/idx"
	"github.com/vphone/simshop/pkg/pingsdk"
)

var (
	ErrSessionNotFound   = errors.New("wizard session not found")
	ErrInvalidTransition = errors.New("action not valid in the current step")
	ErrNoPlanSelected    = errors.New("no plan selected")
	ErrCheckoutInFlight  = errors.New("checkout already in progress")
)

// tokenGrantRetries is how many extra attempts a failed token grant gets
// before checkout is abandoned.
const tokenGrantRetries = 2

// DefaultSessionTTL is how long an untouched wizard session survives before
// housekeeping purges it.
const DefaultSessionTTL = time.Hour

// VerificationProvider is the slice of the identity provider the wizard
// needs. *pingsdk.Client satisfies it.
type VerificationProvider interface {
	RequestAccessToken(ctx context.Context) (string, error)
	CreatePresentationSession(ctx context.Context, accessToken, message string) (*pingsdk.PresentationSession, error)
	CheckStatus(ctx context.Context, accessToken, environmentID, sessionID string) (*pingsdk.StatusResponse, error)
}

// OrderSummary is the basket breakdown shown before checkout.
type OrderSummary struct {
	MonthlyPrice  decimal.Decimal `json:"monthly_price"`
	ActivationFee decimal.Decimal `json:"activation_fee"`
	FirstCredit   decimal.Decimal `json:"first_credit"`
	Total         decimal.Decimal `json:"total"`
}

// WizardState is a point-in-time snapshot of one wizard session, safe to
// hand out beyond the service.
type WizardState struct {
	ID                 string
	Step               domain.Step
	Plan               *domain.Plan
	Summary            *OrderSummary
	QRCodeURL          string
	VerificationStatus domain.Status
	Identity           *domain.ExtractedIdentity
	FailureReason      domain.Status

	// PollError is the most recent status-check failure, cleared as soon as
	// a check succeeds. It lets the client show a degrading verification
	// before the failure budget declares it failed.
	PollError string

	OrderID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WizardConfig tunes the wizard service.
type WizardConfig struct {
	PollerOptions PollerOptions

	// WalletBankDetails requests direct debit fields from the wallet. When
	// the wallet releases them the manual credentials step is skipped and
	// the order completes straight from approval.
	WalletBankDetails bool

	// SessionTTL is how long an idle session lives. Zero means
	// DefaultSessionTTL.
	SessionTTL time.Duration
}

// WizardService owns the purchase flow: one in-memory session per shopper,
// stepped plans -> basket -> verification -> credentials -> completed. Each
// session drives its own Poller; verification attempts are audited in the
// store but polling state never touches the database.
type WizardService struct {
	Catalog  *CatalogService
	Provider VerificationProvider
	Orders   *OrderService
	Store    store.Store
	Logger   *slog.Logger

	cfg WizardConfig

	mu       sync.Mutex
	sessions map[string]*wizardSession
}

type wizardSession struct {
	mu sync.Mutex

	id               string
	step             domain.Step
	plan             *domain.Plan
	verification     domain.VerificationSession
	status           domain.Status
	identity         *domain.ExtractedIdentity
	failureReason    domain.Status
	pollError        string
	orderID          string
	auditID          string
	checkoutInFlight bool
	poller           *Poller
	createdAt        time.Time
	updatedAt        time.Time
}

func NewWizardService(catalog *CatalogService, provider VerificationProvider, orders *OrderService, st store.Store, logger *slog.Logger, cfg WizardConfig) *WizardService {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}

	return &WizardService{
		Catalog:  catalog,
		Provider: provider,
		Orders:   orders,
		Store:    st,
		Logger:   logger,
		cfg:      cfg,
		sessions: make(map[string]*wizardSession),
	}
}

// StartSession creates a fresh wizard session at the plan selection step.
func (s *WizardService) StartSession(ctx context.Context) WizardState {
	now := time.Now().UTC()
	sess := &wizardSession{
		id:        idx.New().String(),
		step:      domain.StepPlans,
		status:    domain.StatusPending,
		createdAt: now,
		updatedAt: now,
	}
	sess.poller = NewPoller(s.Provider, s.Logger, s.statusCallback(sess), s.errorCallback(sess), s.cfg.PollerOptions)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.Logger.Info("wizard session started", slog.String("wizard_id", sess.id))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshot()
}

// Get returns the current state of a session.
func (s *WizardService) Get(ctx context.Context, id string) (WizardState, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return WizardState{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshot(), nil
}

// SelectPlan puts a plan in the basket. Valid from the plan selection step
// and from the basket itself (re-selection).
func (s *WizardService) SelectPlan(ctx context.Context, id, planID string) (WizardState, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return WizardState{}, err
	}

	plan, err := s.Catalog.Plan(planID)
	if err != nil {
		return WizardState{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.step != domain.StepPlans && sess.step != domain.StepBasket {
		return WizardState{}, ErrInvalidTransition
	}

	sess.plan = &plan
	sess.step = domain.StepBasket
	sess.touch()
	return sess.snapshot(), nil
}

// Checkout starts identity verification for the basket's plan: obtain a
// provider token, create a presentation session, and begin polling. On any
// provider failure the session stays on the basket so the shopper can retry.
func (s *WizardService) Checkout(ctx context.Context, id string) (WizardState, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return WizardState{}, err
	}

	sess.mu.Lock()
	if sess.step != domain.StepBasket {
		sess.mu.Unlock()
		return WizardState{}, ErrInvalidTransition
	}
	if sess.plan == nil {
		sess.mu.Unlock()
		return WizardState{}, ErrNoPlanSelected
	}
	if sess.checkoutInFlight {
		// A second checkout while the first still talks to the provider
		// would orphan a provider session; reject it outright.
		sess.mu.Unlock()
		return WizardState{}, ErrCheckoutInFlight
	}
	sess.checkoutInFlight = true
	sess.mu.Unlock()

	defer func() {
		sess.mu.Lock()
		sess.checkoutInFlight = false
		sess.mu.Unlock()
	}()

	// Token grants are flaky under provider maintenance windows; retry with
	// exponential backoff before giving up on the checkout.
	token, err := backoff.RetryWithData(func() (string, error) {
		return s.Provider.RequestAccessToken(ctx)
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), tokenGrantRetries), ctx))
	if err != nil {
		s.Logger.Error("checkout token grant failed", slog.String("wizard_id", id), slog.Any("error", err))
		return WizardState{}, err
	}

	presentation, err := s.Provider.CreatePresentationSession(ctx, token, "")
	if err != nil {
		s.Logger.Error("checkout presentation session failed", slog.String("wizard_id", id), slog.Any("error", err))
		return WizardState{}, err
	}

	verification := domain.VerificationSession{
		SessionID:     presentation.SessionID,
		EnvironmentID: presentation.EnvironmentID,
		QRCodeURL:     presentation.QRCodeURL,
		ExpiresAt:     presentation.ExpiresAt,
		AccessToken:   token,
	}

	now := time.Now().UTC()
	auditID := idx.New().String()
	err = s.Store.VerificationSessions().CreateVerificationSession(ctx, domain.VerificationRecord{
		ID:            auditID,
		WizardID:      id,
		SessionID:     verification.SessionID,
		EnvironmentID: verification.EnvironmentID,
		QRCodeURL:     verification.QRCodeURL,
		Status:        domain.StatusPending,
		ExpiresAt:     verification.ExpiresAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		s.Logger.Error("failed to audit verification session", slog.String("wizard_id", id), slog.Any("error", err))
		return WizardState{}, err
	}

	sess.mu.Lock()
	if sess.step != domain.StepBasket {
		// Concurrent reset or back while we talked to the provider.
		sess.mu.Unlock()
		return WizardState{}, ErrInvalidTransition
	}
	sess.verification = verification
	sess.status = domain.StatusPending
	sess.identity = nil
	sess.pollError = ""
	sess.auditID = auditID
	sess.step = domain.StepQRDisplay
	sess.touch()
	poller := sess.poller
	state := sess.snapshot()
	sess.mu.Unlock()

	// Start outside the session lock; a pre-expired session reports through
	// the callback synchronously.
	poller.Configure(verification)
	if err := poller.Start(); err != nil {
		return WizardState{}, err
	}

	s.Logger.Info("verification started",
		slog.String("wizard_id", id),
		slog.String("session_id", verification.SessionID))

	return state, nil
}

// SubmitDetails accepts the purchaser's bank credentials at the manual entry
// step and completes the order.
func (s *WizardService) SubmitDetails(ctx context.Context, id string, user domain.UserDetails, dd domain.DirectDebitDetails) (WizardState, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return WizardState{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.step != domain.StepCredentials {
		return WizardState{}, ErrInvalidTransition
	}
	if sess.plan == nil {
		return WizardState{}, ErrNoPlanSelected
	}

	// Wallet-released identity fields win over manual input.
	if sess.identity != nil {
		if name := sess.identity.Name(); name != "" {
			user.Name = name
		}
		if sess.identity.Address != "" {
			user.Address = sess.identity.Address
		}
		if sess.identity.BirthDate != "" {
			user.BirthDate = sess.identity.BirthDate
		}
	}

	order, err := s.Orders.Create(ctx, *sess.plan, user, dd)
	if err != nil {
		return WizardState{}, err
	}

	sess.orderID = order.ID
	sess.step = domain.StepCompleted
	sess.touch()
	return sess.snapshot(), nil
}

// Back steps the wizard one screen backwards. Leaving the QR screen or the
// verifying screen abandons the running verification.
func (s *WizardService) Back(ctx context.Context, id string) (WizardState, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return WizardState{}, err
	}

	sess.mu.Lock()
	step := sess.step
	sess.mu.Unlock()

	abandoning := step == domain.StepQRDisplay || step == domain.StepVerifying
	switch step {
	case domain.StepBasket, domain.StepCredentials:
	default:
		if !abandoning {
			return WizardState{}, ErrInvalidTransition
		}
	}

	// Stop the poller before mutating state. Reset happens outside the
	// session lock because the poller callback takes it.
	if abandoning {
		sess.poller.Reset()
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	switch {
	case sess.step == domain.StepBasket:
		sess.plan = nil
		sess.step = domain.StepPlans
	case sess.step == domain.StepCredentials:
		sess.step = domain.StepBasket
	case abandoning:
		// The poller may have landed a transition between the step read and
		// its Reset. A completed order stands; anything else the reset made
		// void, so the session returns to the basket.
		if sess.step == domain.StepCompleted {
			return WizardState{}, ErrInvalidTransition
		}
		sess.verification = domain.VerificationSession{}
		sess.status = domain.StatusPending
		sess.identity = nil
		sess.failureReason = ""
		sess.pollError = ""
		sess.step = domain.StepBasket
	default:
		return WizardState{}, ErrInvalidTransition
	}

	sess.touch()
	return sess.snapshot(), nil
}

// Reset abandons everything and returns the session to plan selection. The
// session id survives so the client keeps its handle.
func (s *WizardService) Reset(ctx context.Context, id string) (WizardState, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return WizardState{}, err
	}

	sess.poller.Reset()

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.step = domain.StepPlans
	sess.plan = nil
	sess.verification = domain.VerificationSession{}
	sess.status = domain.StatusPending
	sess.identity = nil
	sess.failureReason = ""
	sess.pollError = ""
	sess.orderID = ""
	sess.auditID = ""
	sess.touch()
	return sess.snapshot(), nil
}

// PurgeStale drops sessions idle for longer than the TTL and stops their
// pollers. Returns how many were removed.
func (s *WizardService) PurgeStale() int {
	cutoff := time.Now().UTC().Add(-s.cfg.SessionTTL)

	s.mu.Lock()
	var stale []*wizardSession
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.updatedAt.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			stale = append(stale, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		sess.poller.Stop()
	}

	if len(stale) > 0 {
		s.Logger.Info("purged stale wizard sessions", slog.Int("count", len(stale)))
	}
	return len(stale)
}

// Close stops every running poller and drops all sessions. Called on
// service shutdown.
func (s *WizardService) Close() {
	s.mu.Lock()
	live := make([]*wizardSession, 0, len(s.sessions))
	for id, sess := range s.sessions {
		live = append(live, sess)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, sess := range live {
		sess.poller.Stop()
	}
}

// SessionCount reports how many wizard sessions are live.
func (s *WizardService) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *WizardService) lookup(id string) (*wizardSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// statusCallback wires a session to its poller. Runs on the poller goroutine.
func (s *WizardService) statusCallback(sess *wizardSession) StatusCallback {
	return func(status domain.Status, identity *domain.ExtractedIdentity) {
		sess.mu.Lock()
		auditID := sess.auditID

		sess.status = status
		sess.pollError = "" // a transition means the provider answered
		switch status {
		case domain.StatusScanned:
			if sess.step == domain.StepQRDisplay {
				sess.step = domain.StepVerifying
			}
		case domain.StatusApproved:
			sess.identity = identity
			s.completeApprovedLocked(sess)
		case domain.StatusDeclined, domain.StatusExpired, domain.StatusFailed, domain.StatusTimeout:
			sess.failureReason = status
			sess.step = domain.StepFailed
		}
		sess.touch()
		step := sess.step
		sess.mu.Unlock()

		s.Logger.Info("wizard verification update",
			slog.String("wizard_id", sess.id),
			slog.String("status", status.String()),
			slog.String("step", step.String()))

		if auditID != "" {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.Store.VerificationSessions().UpdateVerificationSessionStatus(ctx, auditID, status); err != nil {
				s.Logger.Error("failed to update verification audit record",
					slog.String("wizard_id", sess.id), slog.Any("error", err))
			}
		}
	}
}

// errorCallback surfaces failed status checks on the session so clients
// polling the wizard see a degrading verification. Runs on the poller
// goroutine; the poller's generation guard keeps deliveries from a reset
// run out.
func (s *WizardService) errorCallback(sess *wizardSession) ErrorCallback {
	return func(err error) {
		sess.mu.Lock()
		sess.pollError = err.Error()
		sess.touch()
		sess.mu.Unlock()
	}
}

// completeApprovedLocked advances an approved session. With wallet-released
// bank details the order completes immediately; otherwise the shopper enters
// them manually. Callers hold sess.mu.
func (s *WizardService) completeApprovedLocked(sess *wizardSession) {
	if sess.plan == nil {
		sess.step = domain.StepCredentials
		return
	}

	if s.cfg.WalletBankDetails && sess.identity != nil && sess.identity.HasBankDetails() {
		user := domain.UserDetails{
			Name:      sess.identity.Name(),
			Address:   sess.identity.Address,
			BirthDate: sess.identity.BirthDate,
		}
		dd := domain.DirectDebitDetails{
			SortCode:      sess.identity.SortCode,
			AccountNumber: sess.identity.AccountNumber,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		order, err := s.Orders.Create(ctx, *sess.plan, user, dd)
		if err == nil {
			sess.orderID = order.ID
			sess.step = domain.StepCompleted
			return
		}

		// Bad wallet data falls back to manual entry rather than failing
		// the whole purchase.
		s.Logger.Warn("wallet-released bank details rejected, falling back to manual entry",
			slog.String("wizard_id", sess.id), slog.Any("error", err))
	}

	sess.step = domain.StepCredentials
}

// touch bumps updated_at. Callers hold sess.mu.
func (sess *wizardSession) touch() {
	sess.updatedAt = time.Now().UTC()
}

// snapshot builds an immutable state view. Callers hold sess.mu.
func (sess *wizardSession) snapshot() WizardState {
	state := WizardState{
		ID:                 sess.id,
		Step:               sess.step,
		QRCodeURL:          sess.verification.QRCodeURL,
		VerificationStatus: sess.status,
		FailureReason:      sess.failureReason,
		PollError:          sess.pollError,
		OrderID:            sess.orderID,
		CreatedAt:          sess.createdAt,
		UpdatedAt:          sess.updatedAt,
	}

	if sess.plan != nil {
		plan := sess.plan.Clone()
		state.Plan = &plan
		state.Summary = &OrderSummary{
			MonthlyPrice:  plan.Price,
			ActivationFee: ActivationFee,
			FirstCredit:   FirstMonthCredit,
			Total:         OrderTotal(plan),
		}
	}
	if sess.identity != nil {
		identity := *sess.identity
		state.Identity = &identity
	}

	return state
}
