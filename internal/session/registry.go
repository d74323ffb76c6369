package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/CoderRahul01/OrmeeHairs/internal/cart"
	"github.com/CoderRahul01/OrmeeHairs/internal/checkout"
	"github.com/CoderRahul01/OrmeeHairs/internal/snapshot"
	"github.com/CoderRahul01/OrmeeHairs/pkg/logger"
	"github.com/CoderRahul01/OrmeeHairs/pkg/metrics"
	"github.com/CoderRahul01/OrmeeHairs/pkg/pricing"
	"go.uber.org/multierr"
	"golang.org/x/sync/singleflight"
)

// Session is everything one device owns: its cart, the bridge persisting it
// and its checkout orchestrator.
type Session struct {
	DeviceID string
	Cart     *cart.Store
	Checkout *checkout.Orchestrator

	bridge   *snapshot.Bridge
	lastSeen time.Time
}

// hydrateTimeout bounds the snapshot read for a new session. The read does not
// follow the request's cancellation.
const hydrateTimeout = 5 * time.Second

// Params configure a Registry.
type Params struct {
	Storage     snapshot.Storage
	SnapshotKey string
	Orders      checkout.OrderCreator
	Navigator   checkout.Navigator
	Rules       pricing.Rules
	Logger      *logger.Logger
	Metrics     *metrics.CartMetrics
	Now         func() time.Time
}

// Registry holds live sessions keyed by device id. A device's snapshot is
// loaded once, however many first requests arrive together.
type Registry struct {
	params Params
	logg   *logger.Logger
	now    func() time.Time
	group  singleflight.Group

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

var ErrClosed = errors.New("session registry closed")

func NewRegistry(params Params) (*Registry, error) {
	if params.Storage == nil {
		return nil, errors.New("snapshot storage required")
	}
	if params.Orders == nil {
		return nil, errors.New("order creator required")
	}
	if params.SnapshotKey == "" {
		params.SnapshotKey = snapshot.DefaultKey
	}
	if params.Navigator == nil {
		params.Navigator = checkout.RedirectNavigator{}
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Registry{
		params:   params,
		logg:     logg,
		now:      now,
		sessions: make(map[string]*Session),
	}, nil
}

// Get returns the device's session, hydrating it from storage on first use.
func (r *Registry) Get(ctx context.Context, deviceID string) (*Session, error) {
	if s, ok, err := r.lookup(deviceID); err != nil || ok {
		return s, err
	}
	v, err, _ := r.group.Do(deviceID, func() (any, error) {
		if s, ok, err := r.lookup(deviceID); err != nil || ok {
			return s, err
		}
		s, err := r.open(ctx, deviceID)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			_ = s.bridge.Close(context.WithoutCancel(ctx))
			return nil, ErrClosed
		}
		r.sessions[deviceID] = s
		count := len(r.sessions)
		r.mu.Unlock()
		r.params.Metrics.SetActiveSessions(count)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

func (r *Registry) lookup(deviceID string) (*Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, false, ErrClosed
	}
	s, ok := r.sessions[deviceID]
	if ok {
		s.lastSeen = r.now()
	}
	return s, ok, nil
}

func (r *Registry) open(ctx context.Context, deviceID string) (*Session, error) {
	ctx = r.logg.WithDeviceID(ctx, deviceID)
	store := cart.NewStore(cart.WithRecorder(r.params.Metrics))
	bridge, err := snapshot.NewBridge(snapshot.BridgeParams{
		Storage:  r.params.Storage,
		DeviceID: deviceID,
		Key:      r.params.SnapshotKey,
		Logger:   r.logg,
		Metrics:  r.params.Metrics,
	})
	if err != nil {
		return nil, err
	}
	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), hydrateTimeout)
	bridge.Hydrate(hctx, store)
	cancel()
	bridge.Attach(store)

	orch, err := checkout.New(checkout.Params{
		Store:     store,
		Orders:    r.params.Orders,
		Navigator: r.params.Navigator,
		Rules:     r.params.Rules,
		Logger:    r.logg,
		Metrics:   r.params.Metrics,
	})
	if err != nil {
		_ = bridge.Close(context.WithoutCancel(ctx))
		return nil, err
	}
	r.logg.Debug(ctx, "session opened")
	return &Session{
		DeviceID: deviceID,
		Cart:     store,
		Checkout: orch,
		bridge:   bridge,
		lastSeen: r.now(),
	}, nil
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// EvictIdle flushes and drops sessions unused for at least ttl. Sessions with
// an order call in flight are kept.
func (r *Registry) EvictIdle(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := r.now().Add(-ttl)
	r.mu.Lock()
	var idle []*Session
	for id, s := range r.sessions {
		if s.lastSeen.After(cutoff) {
			continue
		}
		if d, ok := s.Checkout.Current(); ok && d.InFlight() {
			continue
		}
		idle = append(idle, s)
		delete(r.sessions, id)
	}
	count := len(r.sessions)
	r.mu.Unlock()
	r.params.Metrics.SetActiveSessions(count)

	var errs error
	for _, s := range idle {
		s.Checkout.Discard(ctx)
		if err := s.bridge.Close(ctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return len(idle), errs
}

// Close flushes every session and rejects further lookups.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = map[string]*Session{}
	r.mu.Unlock()
	r.params.Metrics.SetActiveSessions(0)

	var errs error
	for _, s := range sessions {
		errs = multierr.Append(errs, s.bridge.Close(ctx))
	}
	return errs
}
