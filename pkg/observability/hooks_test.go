package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Layout hooks
	l := NoopLayoutHooks{}
	l.OnStepComplete(ctx, 100, 0.5, time.Millisecond)
	l.OnConverged(ctx, 100, 42)
	l.OnLayoutStart(ctx, "spectral", 100)
	l.OnLayoutComplete(ctx, "spectral", time.Second, nil)

	// Algorithm hooks
	a := NoopAlgoHooks{}
	a.OnCommunityLevel(ctx, 0, 12, 34)
	a.OnRoutesComplete(ctx, 50, 7, time.Second)
	a.OnRouteOrderRejected(ctx, 3)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "result")
	c.OnCacheMiss(ctx, "result")
	c.OnCacheSet(ctx, "result", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Algo().(NoopAlgoHooks); !ok {
		t.Error("Algo() should return NoopAlgoHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	// Set custom hooks
	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customAlgo := &testAlgoHooks{}
	SetAlgoHooks(customAlgo)
	if Algo() != customAlgo {
		t.Error("SetAlgoHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testLayoutHooks{}
	SetLayoutHooks(custom)

	// Setting nil should be ignored
	SetLayoutHooks(nil)

	if Layout() != custom {
		t.Error("SetLayoutHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testLayoutHooks struct{ NoopLayoutHooks }
type testAlgoHooks struct{ NoopAlgoHooks }
type testCacheHooks struct{ NoopCacheHooks }
