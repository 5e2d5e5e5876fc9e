package cache

import (
	"testing"

	"github.com/san-kum/hydrodrag/internal/entity"
)

func countingFactory(calls *int) Factory[int] {
	return func(h entity.Handle) int {
		*calls++
		return int(h.ID) * 10
	}
}

func TestGetInvokesFactoryOnce(t *testing.T) {
	reg := entity.NewRegistry()
	calls := 0
	c := New(countingFactory(&calls)).Watch(reg)

	a := reg.Create("a")
	if got := c.Get(a); got != int(a.ID)*10 {
		t.Fatalf("Get(a) = %d", got)
	}
	c.Get(a)
	if calls != 1 {
		t.Errorf("factory called %d times for consecutive gets, want 1", calls)
	}

	b := reg.Create("b")
	c.Get(b)
	c.Get(a)
	c.Get(b)
	if calls != 2 {
		t.Errorf("factory called %d times after alternating gets, want 2", calls)
	}
}

func TestDestroyDropsEntry(t *testing.T) {
	reg := entity.NewRegistry()
	calls := 0
	c := New(countingFactory(&calls)).Watch(reg)

	h := reg.Create("ship")
	c.Get(h)
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}

	reg.Destroy(h)
	if c.Len() != 0 {
		t.Errorf("entry survived destroy, Len = %d", c.Len())
	}
	if _, ok := c.Peek(h); ok {
		t.Error("destroyed handle still reachable")
	}

	// dead handles are served but never stored
	c.Get(h)
	if c.Len() != 0 {
		t.Errorf("dead handle was stored, Len = %d", c.Len())
	}
}

func TestStaleHandleDoesNotAliasReusedSlot(t *testing.T) {
	reg := entity.NewRegistry()
	c := New(func(h entity.Handle) string { return h.String() }).Watch(reg)

	old := reg.Create("old")
	c.Get(old)
	reg.Destroy(old)

	fresh := reg.Create("fresh")
	if got := c.Get(fresh); got != fresh.String() {
		t.Errorf("reused slot returned %q, want %q", got, fresh.String())
	}
}

func TestGetFuncAndSet(t *testing.T) {
	c := New[float64](nil)
	h := entity.Handle{ID: 3, Gen: 1}

	if got := c.GetFunc(h, func(entity.Handle) float64 { return 1.5 }); got != 1.5 {
		t.Errorf("GetFunc = %v, want 1.5", got)
	}
	c.Set(h, 2.5)
	if got := c.Get(h); got != 2.5 {
		t.Errorf("Get after Set = %v, want 2.5", got)
	}

	c.Forget(h)
	if got := c.Get(h); got != 0 {
		t.Errorf("Get after Forget with nil factory = %v, want zero", got)
	}
}
