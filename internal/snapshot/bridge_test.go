package snapshot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/CoderRahul01/OrmeeHairs/internal/cart"
	"github.com/shopspring/decimal"
)

type failureCounter struct {
	mu  sync.Mutex
	ops map[string]int
}

func (f *failureCounter) IncSnapshotFailure(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ops == nil {
		f.ops = map[string]int{}
	}
	f.ops[op]++
}

func (f *failureCounter) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ops[op]
}

type failingStorage struct {
	loadErr error
	saveErr error
	saves   int
	mu      sync.Mutex
}

func (f *failingStorage) Load(context.Context, string, string) ([]byte, error) {
	return nil, f.loadErr
}

func (f *failingStorage) Save(context.Context, string, string, []byte) error {
	f.mu.Lock()
	f.saves++
	f.mu.Unlock()
	return f.saveErr
}

// gatedStorage blocks every Save until the gate is opened.
type gatedStorage struct {
	*MemoryStorage
	gate    chan struct{}
	started chan struct{}
	once    sync.Once
	mu      sync.Mutex
	saves   int
}

func newGatedStorage() *gatedStorage {
	return &gatedStorage{
		MemoryStorage: NewMemoryStorage(),
		gate:          make(chan struct{}),
		started:       make(chan struct{}),
	}
}

func (g *gatedStorage) Save(ctx context.Context, deviceID, key string, payload []byte) error {
	g.once.Do(func() { close(g.started) })
	<-g.gate
	g.mu.Lock()
	g.saves++
	g.mu.Unlock()
	return g.MemoryStorage.Save(ctx, deviceID, key, payload)
}

func item(id string, price int64, qty int) cart.Item {
	return cart.Item{ID: id, Name: "Item " + id, UnitPrice: decimal.NewFromInt(price), Quantity: qty}
}

func newTestBridge(t *testing.T, storage Storage, metrics FailureRecorder) *Bridge {
	t.Helper()
	bridge, err := NewBridge(BridgeParams{Storage: storage, DeviceID: "device-1", Metrics: metrics})
	if err != nil {
		t.Fatalf("new bridge: %v", err)
	}
	return bridge
}

func closeBridge(t *testing.T, bridge *Bridge) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := bridge.Close(ctx); err != nil {
		t.Fatalf("close bridge: %v", err)
	}
}

func TestRoundTripRestoresItems(t *testing.T) {
	storage := NewMemoryStorage()
	store := cart.NewStore()
	bridge := newTestBridge(t, storage, nil)
	bridge.Attach(store)

	store.AddItem(item("a", 500, 1))
	store.AddItem(item("b", 120, 2))
	store.AddItem(item("a", 500, 2))
	store.UpdateQuantity("b", 5)
	store.AddItem(item("c", 75, 1))
	store.RemoveItem("c")
	closeBridge(t, bridge)
	want := store.State()

	restored := cart.NewStore()
	reader := newTestBridge(t, storage, nil)
	reader.Hydrate(context.Background(), restored)
	closeBridge(t, reader)

	got := restored.State()
	if !cart.ItemsEqual(got.Items, want.Items) {
		t.Fatalf("restored items differ\n got: %+v\nwant: %+v", got.Items, want.Items)
	}
	if got.TotalItemCount != want.TotalItemCount || !got.Subtotal.Equal(want.Subtotal) {
		t.Fatalf("restored totals differ: got %d/%s want %d/%s", got.TotalItemCount, got.Subtotal, want.TotalItemCount, want.Subtotal)
	}
	if got.IsDrawerOpen {
		t.Fatal("hydration must not open the drawer")
	}
}

func TestHydrateIgnoresMalformedSnapshot(t *testing.T) {
	storage := NewMemoryStorage()
	_ = storage.Save(context.Background(), "device-1", DefaultKey, []byte(`{"items":[{"name":"no id","price":10,"quantity":1}]}`))
	metrics := &failureCounter{}
	store := cart.NewStore()
	bridge := newTestBridge(t, storage, metrics)
	bridge.Hydrate(context.Background(), store)
	closeBridge(t, bridge)

	if !store.State().IsEmpty() {
		t.Fatalf("expected empty cart, got %+v", store.State().Items)
	}
	if metrics.count("decode") != 1 {
		t.Fatalf("expected one decode failure, got %d", metrics.count("decode"))
	}
}

func TestHydrateMissingSnapshotIsSilent(t *testing.T) {
	metrics := &failureCounter{}
	store := cart.NewStore()
	bridge := newTestBridge(t, NewMemoryStorage(), metrics)
	bridge.Hydrate(context.Background(), store)
	closeBridge(t, bridge)

	if !store.State().IsEmpty() {
		t.Fatal("expected empty cart")
	}
	if metrics.count("read") != 0 || metrics.count("decode") != 0 {
		t.Fatal("a missing snapshot is not a failure")
	}
}

func TestStorageFailuresAreSwallowed(t *testing.T) {
	storage := &failingStorage{loadErr: errors.New("disk gone"), saveErr: errors.New("quota exceeded")}
	metrics := &failureCounter{}
	store := cart.NewStore()
	bridge := newTestBridge(t, storage, metrics)
	bridge.Hydrate(context.Background(), store)
	bridge.Attach(store)

	state := store.AddItem(item("a", 100, 1))
	if state.TotalItemCount != 1 {
		t.Fatalf("mutation should succeed despite storage failure, got %+v", state)
	}
	closeBridge(t, bridge)

	if metrics.count("read") != 1 {
		t.Fatalf("expected one read failure, got %d", metrics.count("read"))
	}
	if metrics.count("write") != 1 {
		t.Fatalf("expected one write failure, got %d", metrics.count("write"))
	}
}

func TestDrawerToggleDoesNotWrite(t *testing.T) {
	storage := &failingStorage{}
	store := cart.NewStore()
	bridge := newTestBridge(t, storage, nil)
	bridge.Attach(store)

	store.ToggleCart(nil)
	store.RemoveItem("missing")
	closeBridge(t, bridge)

	if storage.saves != 0 {
		t.Fatalf("expected no writes, got %d", storage.saves)
	}
}

func TestWritesCoalesceWhileStorageIsSlow(t *testing.T) {
	storage := newGatedStorage()
	store := cart.NewStore()
	bridge := newTestBridge(t, storage, nil)
	bridge.Attach(store)

	store.AddItem(item("a", 10, 1))
	<-storage.started

	done := make(chan struct{})
	go func() {
		for i := 0; i < 20; i++ {
			store.AddItem(item("a", 10, 1))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch blocked on storage")
	}

	close(storage.gate)
	closeBridge(t, bridge)

	storage.mu.Lock()
	saves := storage.saves
	storage.mu.Unlock()
	if saves > 2 {
		t.Fatalf("expected pending writes to coalesce, got %d saves", saves)
	}
	data, err := storage.Load(context.Background(), "device-1", DefaultKey)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	items, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 21 {
		t.Fatalf("expected latest snapshot with quantity 21, got %+v", items)
	}
}

func TestCloseDetachesFromStore(t *testing.T) {
	storage := &failingStorage{}
	store := cart.NewStore()
	bridge := newTestBridge(t, storage, nil)
	bridge.Attach(store)
	closeBridge(t, bridge)

	store.AddItem(item("a", 10, 1))
	if storage.saves != 0 {
		t.Fatalf("closed bridge should not write, got %d saves", storage.saves)
	}
	if err := bridge.Close(context.Background()); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestNewBridgeRequiresStorageAndDevice(t *testing.T) {
	if _, err := NewBridge(BridgeParams{DeviceID: "d"}); err == nil {
		t.Fatal("expected storage error")
	}
	if _, err := NewBridge(BridgeParams{Storage: NewMemoryStorage()}); err == nil {
		t.Fatal("expected device error")
	}
}
