package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/vphone/simshop/internal/shop/domain"
	"github.com/vphone/simshop/pkg/pingsdk"
)

const (
	// DefaultPollInterval is how often the provider is asked for a verdict.
	DefaultPollInterval = 3 * time.Second

	// DefaultMaxFailures is how many consecutive poll errors are tolerated
	// before the verification is declared failed.
	DefaultMaxFailures = 5
)

var (
	ErrPollerRunning     = errors.New("poller already running")
	ErrIncompleteSession = errors.New("verification session is incomplete")
)

// StatusChecker is the single provider call the poller depends on.
// *pingsdk.Client satisfies it; tests substitute scripted fakes.
type StatusChecker interface {
	CheckStatus(ctx context.Context, accessToken, environmentID, sessionID string) (*pingsdk.StatusResponse, error)
}

// StatusCallback is invoked on every status transition, from the poller's
// goroutine. Implementations must not call Stop or Reset from the callback.
type StatusCallback func(status domain.Status, identity *domain.ExtractedIdentity)

// ErrorCallback is invoked on every failed status check, from the poller's
// goroutine, so callers can surface a degrading verification before the
// failure budget runs out. Same restriction as StatusCallback: no Stop or
// Reset from inside the callback.
type ErrorCallback func(err error)

// PollerOptions tunes one poller. Zero values take the defaults.
type PollerOptions struct {
	Interval    time.Duration
	MaxFailures int

	// SafetyTimeout bounds the whole polling run regardless of provider
	// expiry. Zero disables it.
	SafetyTimeout time.Duration
}

// Poller drives one verification session to a verdict. It polls the provider
// on a fixed interval, maps each raw response onto the wizard's status set,
// and reports transitions edge-triggered through the callback.
//
// The lifecycle is Configure -> Start -> (terminal status stops the loop),
// with Reset returning the poller to an unconfigured, reusable state. A
// generation counter guards against a stale in-flight response landing after
// a Reset or re-Configure: results from a previous generation are discarded.
type Poller struct {
	checker  StatusChecker
	logger   *slog.Logger
	onChange StatusCallback
	onError  ErrorCallback
	opts     PollerOptions

	mu         sync.Mutex
	session    domain.VerificationSession
	generation uint64
	status     domain.Status
	identity   *domain.ExtractedIdentity
	failures   int
	running    bool
	stopCh     chan struct{}
	doneCh     chan struct{}
	cancel     context.CancelFunc
}

func NewPoller(checker StatusChecker, logger *slog.Logger, onChange StatusCallback, onError ErrorCallback, opts PollerOptions) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	if opts.MaxFailures <= 0 {
		opts.MaxFailures = DefaultMaxFailures
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Poller{
		checker:  checker,
		logger:   logger,
		onChange: onChange,
		onError:  onError,
		opts:     opts,
		status:   domain.StatusPending,
	}
}

// Configure loads a verification session into the poller, discarding any
// previous run and its in-flight results.
func (p *Poller) Configure(session domain.VerificationSession) {
	p.halt()

	p.mu.Lock()
	p.session = session
	p.status = domain.StatusPending
	p.identity = nil
	p.failures = 0
	p.mu.Unlock()
}

// Status returns the last observed status and, after approval, the identity
// released by the wallet.
func (p *Poller) Status() (domain.Status, *domain.ExtractedIdentity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status, p.identity
}

// Start begins polling. A session already past its provider expiry is
// reported expired immediately without a single network request.
func (p *Poller) Start() error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return ErrPollerRunning
	}
	if !p.session.Complete() {
		p.mu.Unlock()
		return ErrIncompleteSession
	}

	gen := p.generation
	session := p.session

	if session.Expired(time.Now()) {
		p.mu.Unlock()
		p.apply(gen, domain.StatusExpired, nil)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	p.running = true
	p.stopCh = stopCh
	p.doneCh = doneCh
	p.cancel = cancel
	p.mu.Unlock()

	go func() {
		defer cancel()
		p.run(ctx, gen, session, stopCh, doneCh)
	}()
	return nil
}

// Stop halts the polling loop without recording a verdict. Safe to call when
// the poller isn't running.
func (p *Poller) Stop() {
	p.halt()
}

// Reset stops any run and returns the poller to its unconfigured state, so a
// declined or expired verification can be retried with a fresh session.
func (p *Poller) Reset() {
	p.halt()

	p.mu.Lock()
	p.session = domain.VerificationSession{}
	p.status = domain.StatusPending
	p.identity = nil
	p.failures = 0
	p.mu.Unlock()
}

// halt stops the loop if one is running and invalidates in-flight checks.
func (p *Poller) halt() {
	p.mu.Lock()
	p.generation++
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	stopCh, doneCh, cancel := p.stopCh, p.doneCh, p.cancel
	p.mu.Unlock()

	// Cancel the run's context first so an in-flight status request aborts
	// instead of being waited out.
	cancel()
	close(stopCh)
	<-doneCh
}

func (p *Poller) run(ctx context.Context, gen uint64, session domain.VerificationSession, stopCh, doneCh chan struct{}) {
	defer func() {
		p.mu.Lock()
		// Only clear running if no Stop/Reset/Configure superseded this run.
		if p.generation == gen {
			p.running = false
		}
		p.mu.Unlock()
		close(doneCh)
	}()

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	var safety <-chan time.Time
	if p.opts.SafetyTimeout > 0 {
		timer := time.NewTimer(p.opts.SafetyTimeout)
		defer timer.Stop()
		safety = timer.C
	}

	// First check immediately; a wallet that scanned during checkout should
	// not wait a full interval to show progress.
	if done := p.tick(ctx, gen, session); done {
		return
	}

	for {
		select {
		case <-stopCh:
			return
		case <-safety:
			p.apply(gen, domain.StatusTimeout, nil)
			return
		case <-ticker.C:
			if done := p.tick(ctx, gen, session); done {
				return
			}
		}
	}
}

// tick performs one status check. Returns true when the loop should stop,
// either because a terminal status was reached or the run went stale.
func (p *Poller) tick(ctx context.Context, gen uint64, session domain.VerificationSession) bool {
	// Local expiry wins over whatever the provider would have said.
	if session.Expired(time.Now()) {
		p.apply(gen, domain.StatusExpired, nil)
		return true
	}

	// Bound each request by the poll interval so a slow provider cannot
	// stack requests; Stop and Reset cancel ctx, aborting the request
	// instead of waiting it out.
	reqCtx, cancel := context.WithTimeout(ctx, p.opts.Interval)
	resp, err := p.checker.CheckStatus(reqCtx, session.AccessToken, session.EnvironmentID, session.SessionID)
	cancel()

	p.mu.Lock()
	if p.generation != gen {
		p.mu.Unlock()
		return true // superseded while the request was in flight
	}

	if err != nil {
		p.failures++
		failures := p.failures
		p.mu.Unlock()

		p.logger.Warn("verification status check failed",
			slog.String("session_id", session.SessionID),
			slog.Int("consecutive_failures", failures),
			slog.Any("error", err))

		if p.onError != nil {
			p.onError(err)
		}

		if failures >= p.opts.MaxFailures {
			p.apply(gen, domain.StatusFailed, nil)
			return true
		}
		return false
	}

	p.failures = 0
	p.mu.Unlock()

	status := normalizeStatus(resp.Status)
	var identity *domain.ExtractedIdentity
	if status == domain.StatusApproved {
		identity = extractIdentity(resp)
	}

	p.apply(gen, status, identity)
	return status.Terminal()
}

// apply records a status observation and fires the callback when it is an
// actual transition. Observations from a superseded generation are dropped.
func (p *Poller) apply(gen uint64, status domain.Status, identity *domain.ExtractedIdentity) {
	p.mu.Lock()
	if p.generation != gen {
		p.mu.Unlock()
		return
	}
	if status == p.status {
		p.mu.Unlock()
		return
	}
	p.status = status
	if identity != nil {
		p.identity = identity
	}
	p.mu.Unlock()

	p.logger.Info("verification status changed",
		slog.String("status", status.String()),
		slog.Bool("identity_released", identity != nil))

	if p.onChange != nil {
		p.onChange(status, identity)
	}
}
