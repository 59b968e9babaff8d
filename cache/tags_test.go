package cache

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestTagBusInvalidateRunsLocalHandlers(t *testing.T) {
	st := newMemStore()
	st.data[ProductsDurableKey] = []byte(`{}`)
	bus := NewTagBus(nil, st)

	var products, home int
	bus.Subscribe(TagProducts, func() { products++ })
	bus.Subscribe(ConfigTag("home"), func() { home++ })
	bus.RegisterDurableKey(TagProducts, ProductsDurableKey)

	if err := bus.Invalidate(context.Background(), TagProducts); err != nil {
		t.Fatal(err)
	}
	if products != 1 || home != 0 {
		t.Fatalf("unexpected handler runs: products=%d home=%d", products, home)
	}
	if _, ok := st.data[ProductsDurableKey]; ok {
		t.Fatal("durable key should have been deleted")
	}
	if !reflect.DeepEqual(st.deleted, []string{ProductsDurableKey}) {
		t.Fatalf("unexpected deletes %v", st.deleted)
	}
}

func TestTagBusInvalidateNoTags(t *testing.T) {
	bus := NewTagBus(nil, nil)
	called := false
	bus.Subscribe(TagProducts, func() { called = true })
	if err := bus.Invalidate(context.Background()); err != nil || called {
		t.Fatalf("empty invalidate should be a no-op, err=%v called=%v", err, called)
	}
}

func TestTagBusDurableDeleteErrorReported(t *testing.T) {
	st := newMemStore()
	st.delErr = errors.New("redis down")
	bus := NewTagBus(nil, st)
	ran := false
	bus.Subscribe(TagProducts, func() { ran = true })
	bus.RegisterDurableKey(TagProducts, ProductsDurableKey)

	err := bus.Invalidate(context.Background(), TagProducts)
	if err == nil || !errors.Is(err, st.delErr) {
		t.Fatalf("expected durable delete error, got %v", err)
	}
	if !ran {
		t.Fatal("local handlers must run even when the durable layer fails")
	}
}

func TestTagBusHandleMessage(t *testing.T) {
	bus := NewTagBus(nil, nil)
	runs := 0
	bus.Subscribe(TagProducts, func() { runs++ })

	own, _ := json.Marshal(invalidationMessage{Origin: bus.origin, Tags: []string{TagProducts}})
	bus.handleMessage(own)
	if runs != 0 {
		t.Fatal("own broadcast must be ignored")
	}

	remote, _ := json.Marshal(invalidationMessage{Origin: "other-worker", Tags: []string{TagProducts, "unknown"}})
	bus.handleMessage(remote)
	if runs != 1 {
		t.Fatalf("remote invalidation not applied, runs=%d", runs)
	}

	bus.handleMessage([]byte("not json"))
	if runs != 1 {
		t.Fatal("malformed message must be dropped")
	}
}

func TestTagBusTags(t *testing.T) {
	bus := NewTagBus(nil, nil)
	bus.Subscribe(ConfigTag("home"), func() {})
	bus.Subscribe(TagProducts, func() {})
	bus.RegisterDurableKey(TagProducts, ProductsDurableKey)
	bus.RegisterDurableKey(ConfigTag("dollar"), "cache:config:dollar")

	want := []string{TagProducts, "site-config:dollar", "site-config:home"}
	if got := bus.Tags(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Tags() = %v, want %v", got, want)
	}
}

func TestTagBusListenWithoutRedis(t *testing.T) {
	if err := NewTagBus(nil, nil).Listen(context.Background()); err != nil {
		t.Fatalf("Listen without a client should return nil, got %v", err)
	}
}

func TestProductCacheOnBus(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	f := newCountingFetcher(clock)
	bus := NewTagBus(nil, nil)
	c := NewProductCache(f, DefaultProductsTTL, WithClock(clock.Now), WithInvalidator(bus))
	bus.Subscribe(TagProducts, c.Reset)

	if _, err := c.Get(ctx, GetOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := bus.Invalidate(ctx, TagProducts); err != nil {
		t.Fatal(err)
	}
	if !c.ExpiresAt().IsZero() {
		t.Fatal("invalidation should reset the cache")
	}
	if _, err := c.Get(ctx, GetOptions{}); err != nil {
		t.Fatal(err)
	}
	if f.calls.Load() != 2 {
		t.Fatalf("expected refetch after invalidation, got %d fetches", f.calls.Load())
	}

	// a forced refresh resets through the bus too and must not deadlock
	if _, err := c.Get(ctx, GetOptions{Force: true}); err != nil {
		t.Fatal(err)
	}
}
