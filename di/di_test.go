package di

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRegisterAndResolve(t *testing.T) {
	c := NewContainer()

	if err := c.Register("greeting", func() string { return "hello" }); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	val, err := c.Resolve("greeting")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if val != "hello" {
		t.Errorf("expected 'hello', got %v", val)
	}
}

func TestResolveNotRegistered(t *testing.T) {
	c := NewContainer()
	_, err := c.Resolve("nonexistent")
	if err == nil {
		t.Fatal("expected error for unregistered component")
	}
	if !strings.Contains(err.Error(), "not registered") {
		t.Errorf("expected 'not registered' in error, got %q", err.Error())
	}
}

func TestRegisterSingleton(t *testing.T) {
	c := NewContainer()
	if err := c.RegisterSingleton("single", "singleton-value"); err != nil {
		t.Fatalf("RegisterSingleton failed: %v", err)
	}
	val, err := c.Resolve("single")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if val != "singleton-value" {
		t.Errorf("expected singleton-value, got %v", val)
	}
}

func TestRegisterEager(t *testing.T) {
	c := NewContainer()
	called := false
	err := c.RegisterEager("eager", func() string {
		called = true
		return "eager-value"
	})
	if err != nil {
		t.Fatalf("RegisterEager failed: %v", err)
	}
	if !called {
		t.Error("expected constructor to be called immediately for eager registration")
	}
}

func TestRegisterEagerWithError(t *testing.T) {
	c := NewContainer()
	err := c.RegisterEager("bad", func() (string, error) {
		return "", stderrors.New("init failed")
	})
	if err == nil {
		t.Fatal("expected error for failed eager initialization")
	}
	if c.Has("bad") {
		t.Error("failed eager component should not be registered")
	}
}

func TestRegisterLazy_CachesSuccess(t *testing.T) {
	c := NewContainer()
	callCount := 0
	_ = c.RegisterLazy("lazy", func() string {
		callCount++
		return "lazy-value"
	})
	if callCount != 0 {
		t.Error("expected constructor not to be called until resolve")
	}

	for range 3 {
		if _, err := c.Resolve("lazy"); err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
	}
	if callCount != 1 {
		t.Errorf("expected constructor called once, got %d", callCount)
	}
}

func TestRegisterLazy_ErrorIsReturnedOnceAndNotCached(t *testing.T) {
	c := NewContainer()
	calls := 0
	boom := stderrors.New("boom")
	_ = c.RegisterLazy("flaky", func() (string, error) {
		calls++
		if calls == 1 {
			return "", boom
		}
		return "ok", nil
	})

	_, err := c.Resolve("flaky")
	if !stderrors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt per resolve, got %d", calls)
	}

	val, err := c.Resolve("flaky")
	if err != nil || val != "ok" {
		t.Fatalf("expected recovery on next resolve, got %v, %v", val, err)
	}
}

func TestRegisterTransient(t *testing.T) {
	c := NewContainer()
	var calls atomic.Int32
	_ = c.RegisterTransient("t", func() int { return int(calls.Add(1)) })

	a, _ := c.Resolve("t")
	b, _ := c.Resolve("t")
	if a == b {
		t.Errorf("expected a new instance per resolve, got %v twice", a)
	}
}

func TestConstructorReceivesContainer(t *testing.T) {
	c := NewContainer()
	_ = c.RegisterSingleton("base", "https://api.example.com")
	_ = c.Register("url", func(c Container) (string, error) {
		base, err := Resolve[string](c, "base")
		return base + "/v1", err
	})

	got, err := Resolve[string](c, "url")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "https://api.example.com/v1" {
		t.Errorf("unexpected value %q", got)
	}
}

func TestConstructorReceivesContext(t *testing.T) {
	c := NewContainer()
	_ = c.Register("ctx", func(ctx context.Context) bool { return ctx != nil })
	if got := MustResolve[bool](c, "ctx"); !got {
		t.Error("expected non-nil context")
	}
}

type ctxKey struct{}

func TestResolveContextPassesContext(t *testing.T) {
	c := NewContainer()
	_ = c.RegisterTransient("transient", func(ctx context.Context) any { return ctx.Value(ctxKey{}) })
	_ = c.RegisterLazy("lazy", func(ctx context.Context) any { return ctx.Value(ctxKey{}) })
	ctx := context.WithValue(context.Background(), ctxKey{}, "caller")

	for _, key := range []string{"transient", "lazy"} {
		got, err := c.ResolveContext(ctx, key)
		if err != nil {
			t.Fatalf("ResolveContext(%s): %v", key, err)
		}
		if got != "caller" {
			t.Errorf("%s constructor saw %v, want the caller's context", key, got)
		}
	}
	if got, _ := c.Resolve("transient"); got != nil {
		t.Errorf("Resolve should use a background context, got %v", got)
	}
}

func TestInvalidConstructors(t *testing.T) {
	tests := []struct {
		name string
		ctor any
	}{
		{"not a function", "value"},
		{"unsupported parameter", func(int) string { return "" }},
		{"two parameters", func(context.Context, Container) string { return "" }},
		{"no results", func() {}},
		{"second result not error", func() (string, int) { return "", 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewContainer()
			if err := c.Register("x", tc.ctor); err == nil {
				t.Error("expected registration error")
			}
		})
	}
}

func TestReRegisterReplaces(t *testing.T) {
	c := NewContainer()
	_ = c.RegisterSingleton("item", "first")
	_ = c.Register("item", func() string { return "second" })

	if got := MustResolve[string](c, "item"); got != "second" {
		t.Errorf("expected last registration to win, got %q", got)
	}
}

func TestLazyConcurrentResolveConstructsOnce(t *testing.T) {
	c := NewContainer()
	var calls atomic.Int32
	_ = c.Register("shared", func() *struct{} {
		calls.Add(1)
		return &struct{}{}
	})

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Resolve("shared"); err != nil {
				t.Errorf("Resolve failed: %v", err)
			}
		}()
	}
	wg.Wait()
	if calls.Load() != 1 {
		t.Errorf("expected one construction, got %d", calls.Load())
	}
}

type mockCloser struct {
	closed bool
	err    error
}

func (m *mockCloser) Close() error {
	m.closed = true
	return m.err
}

func TestClose(t *testing.T) {
	c := NewContainer()
	single := &mockCloser{}
	lazy := &mockCloser{err: stderrors.New("close failed")}
	untouched := &mockCloser{}

	_ = c.RegisterSingleton("single", single)
	_ = c.Register("lazy", func() *mockCloser { return lazy })
	_ = c.Register("untouched", func() *mockCloser { return untouched })
	_, _ = c.Resolve("lazy")

	err := c.Close()
	if err == nil || !strings.Contains(err.Error(), "close failed") {
		t.Errorf("expected joined close error, got %v", err)
	}
	if !single.closed || !lazy.closed {
		t.Error("expected constructed instances to be closed")
	}
	if untouched.closed {
		t.Error("unconstructed lazy component should not be closed")
	}
}

func TestInvalidateCache(t *testing.T) {
	c := NewContainer()
	callCount := 0
	_ = c.Register("svc", func() int {
		callCount++
		return callCount
	})

	_, _ = c.Resolve("svc")
	if err := c.InvalidateCache("svc"); err != nil {
		t.Fatalf("InvalidateCache failed: %v", err)
	}
	if got := MustResolve[int](c, "svc"); got != 2 {
		t.Errorf("expected reconstruction after invalidation, got %d", got)
	}
	if err := c.InvalidateCache("missing"); err == nil {
		t.Error("expected error for unregistered key")
	}
}

func TestGenericResolveTypeMismatch(t *testing.T) {
	c := NewContainer()
	_ = c.RegisterSingleton("num", 42)
	if _, err := Resolve[string](c, "num"); err == nil {
		t.Error("expected type mismatch error")
	}
}

func TestGenericMustResolvePanics(t *testing.T) {
	c := NewContainer()
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected MustResolve to panic for unregistered component")
		}
	}()
	MustResolve[string](c, "missing")
}

func TestTryResolve(t *testing.T) {
	c := NewContainer()
	_ = c.RegisterSingleton("present", "yes")
	_ = c.Register("broken", func() (string, error) { return "", stderrors.New("broken") })

	if v, ok, err := TryResolve[string](c, "present"); !ok || err != nil || v != "yes" {
		t.Errorf("expected present value, got %q %v %v", v, ok, err)
	}
	if _, ok, err := TryResolve[string](c, "absent"); ok || err != nil {
		t.Errorf("expected absent without error, got %v %v", ok, err)
	}
	if _, ok, err := TryResolve[string](c, "broken"); ok || err == nil {
		t.Errorf("expected construction error, got %v %v", ok, err)
	}
}

func TestRegistrations(t *testing.T) {
	c := NewContainer()
	_ = c.RegisterSingleton("b", 1)
	_ = c.RegisterTransient("a", func() int { return 1 })
	_ = c.Register("c", func() int { return 1 })

	regs := c.Registrations()
	if len(regs) != 3 {
		t.Fatalf("expected 3 registrations, got %d", len(regs))
	}
	if regs[0].Key != "a" || regs[0].Mode != Transient {
		t.Errorf("unexpected first registration %+v", regs[0])
	}
	if regs[1].Mode != Singleton || !regs[1].Initialized {
		t.Errorf("unexpected singleton registration %+v", regs[1])
	}
	if regs[2].Mode != Lazy || regs[2].Initialized {
		t.Errorf("unexpected lazy registration %+v", regs[2])
	}
	if Lazy.String() != "lazy" || RegistrationMode(99).String() != "unknown" {
		t.Error("unexpected mode names")
	}
}
