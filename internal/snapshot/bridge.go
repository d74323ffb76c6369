package snapshot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/CoderRahul01/OrmeeHairs/internal/cart"
	"github.com/CoderRahul01/OrmeeHairs/pkg/logger"
)

const defaultWriteTimeout = 5 * time.Second

// FailureRecorder counts swallowed storage failures by operation.
type FailureRecorder interface {
	IncSnapshotFailure(op string)
}

// BridgeParams configure a Bridge.
type BridgeParams struct {
	Storage      Storage
	DeviceID     string
	Key          string
	Logger       *logger.Logger
	Metrics      FailureRecorder
	WriteTimeout time.Duration
}

// Bridge mirrors one device's cart into a Storage slot. Storage failures
// never reach the cart: they are logged, counted and dropped.
type Bridge struct {
	storage      Storage
	deviceID     string
	key          string
	logg         *logger.Logger
	metrics      FailureRecorder
	writeTimeout time.Duration

	mu          sync.Mutex
	pending     []byte
	hasPending  bool
	closed      bool
	unsubscribe func()

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// NewBridge builds a bridge and starts its writer goroutine.
func NewBridge(params BridgeParams) (*Bridge, error) {
	if params.Storage == nil {
		return nil, errors.New("snapshot storage required")
	}
	if params.DeviceID == "" {
		return nil, errors.New("device id required")
	}
	key := params.Key
	if key == "" {
		key = DefaultKey
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	timeout := params.WriteTimeout
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	b := &Bridge{
		storage:      params.Storage,
		deviceID:     params.DeviceID,
		key:          key,
		logg:         logg,
		metrics:      params.Metrics,
		writeTimeout: timeout,
		wake:         make(chan struct{}, 1),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	go b.run()
	return b, nil
}

// Hydrate restores the stored snapshot into store. A missing, unreadable or
// malformed snapshot leaves the store untouched.
func (b *Bridge) Hydrate(ctx context.Context, store *cart.Store) {
	ctx = b.logg.WithDeviceID(ctx, b.deviceID)
	data, err := b.storage.Load(ctx, b.deviceID, b.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			b.logg.Debug(ctx, "no cart snapshot found")
			return
		}
		b.fail(ctx, "read", "cart snapshot read failed", err)
		return
	}
	items, err := Decode(data)
	if err != nil {
		b.fail(ctx, "decode", "discarding malformed cart snapshot", err)
		return
	}
	if len(items) == 0 {
		return
	}
	store.Dispatch(cart.Hydrate{Items: items})
}

// Attach subscribes to store and schedules a write whenever the item list
// changes. Drawer toggles and no-op actions produce no write.
func (b *Bridge) Attach(store *cart.Store) {
	unsubscribe := store.Subscribe(func(prev, next cart.State, _ cart.Action) {
		if cart.ItemsEqual(prev.Items, next.Items) {
			return
		}
		b.enqueue(next.Items)
	})
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		unsubscribe()
		return
	}
	previous := b.unsubscribe
	b.unsubscribe = unsubscribe
	b.mu.Unlock()

	if previous != nil {
		previous()
	}
}

// enqueue replaces any pending payload with the latest one. It runs inside the
// store's dispatch and never blocks on storage.
func (b *Bridge) enqueue(items []cart.Item) {
	payload, err := Encode(items)
	if err != nil {
		b.fail(context.Background(), "encode", "cart snapshot encode failed", err)
		return
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.pending = payload
	b.hasPending = true
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

func (b *Bridge) run() {
	defer close(b.done)
	for {
		select {
		case <-b.wake:
			b.flush()
		case <-b.stop:
			b.flush()
			return
		}
	}
}

func (b *Bridge) flush() {
	b.mu.Lock()
	if !b.hasPending {
		b.mu.Unlock()
		return
	}
	payload := b.pending
	b.pending = nil
	b.hasPending = false
	b.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), b.writeTimeout)
	defer cancel()
	ctx = b.logg.WithDeviceID(ctx, b.deviceID)
	if err := b.storage.Save(ctx, b.deviceID, b.key, payload); err != nil {
		b.fail(ctx, "write", "cart snapshot write failed", err)
	}
}

// Close detaches from the store, writes any pending snapshot and stops the
// writer. It returns ctx.Err() if the final write does not finish in time.
func (b *Bridge) Close(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	b.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	close(b.stop)

	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bridge) fail(ctx context.Context, op, msg string, err error) {
	if b.metrics != nil {
		b.metrics.IncSnapshotFailure(op)
	}
	b.logg.Warn(b.logg.WithField(ctx, "error", err.Error()), msg)
}
