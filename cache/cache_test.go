package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/dslx-project/bcvm/astiface"
	"github.com/dslx-project/bcvm/bytecode"
)

type testFn struct{ name string }

func (f testFn) Name() string            { return f.name }
func (f testFn) ParamCount() int         { return 0 }
func (f testFn) Module() astiface.Module { return nil }
func (f testFn) IsParametric() bool      { return false }

func TestGetOrCreateMemoizes(t *testing.T) {
	c := New()
	fn := testFn{name: "f"}
	calls := 0
	emit := func() (*bytecode.Function, error) {
		calls++
		return bytecode.Create(fn, nil, nil, 0, 0, nil), nil
	}

	first, err := c.GetOrCreate(fn, nil, astiface.NoBindings{}, emit)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.GetOrCreate(fn, nil, astiface.NoBindings{}, emit)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatal("expected the same cached pointer")
	}
	if calls != 1 {
		t.Fatalf("emit called %d times, want 1", calls)
	}
}

func TestGetOrCreateDistinguishesBindings(t *testing.T) {
	c := New()
	fn := testFn{name: "f"}
	a, err := c.GetOrCreate(fn, nil, stringBindings("a"), func() (*bytecode.Function, error) {
		return bytecode.Create(fn, nil, nil, 0, 0, nil), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.GetOrCreate(fn, nil, stringBindings("b"), func() (*bytecode.Function, error) {
		return bytecode.Create(fn, nil, nil, 0, 0, nil), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("different bindings should produce distinct cache entries")
	}
}

type stringBindings string

func (s stringBindings) Key() string { return string(s) }

func TestSyntheticFunctionsAreNeverCached(t *testing.T) {
	c := New()
	fn := testFn{name: "map"}
	bf, err := c.GetOrCreate(fn, nil, astiface.NoBindings{}, func() (*bytecode.Function, error) {
		return bytecode.CreateSynthetic(2, nil), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if !bf.Synthetic {
		t.Fatal("expected the synthetic function back")
	}
	if c.Len() != 0 {
		t.Fatalf("cache should not have stored a synthetic entry, len=%d", c.Len())
	}
}

func TestConcurrentGetOrCreate(t *testing.T) {
	c := New()
	fn := testFn{name: "f"}
	var wg sync.WaitGroup
	results := make([]*bytecode.Function, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bf, err := c.GetOrCreate(fn, nil, astiface.NoBindings{}, func() (*bytecode.Function, error) {
				return bytecode.Create(fn, nil, nil, 0, 0, nil), nil
			})
			if err != nil {
				panic(fmt.Sprintf("GetOrCreate: %v", err))
			}
			results[i] = bf
		}(i)
	}
	wg.Wait()
	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatal("concurrent GetOrCreate calls should converge on one winner")
		}
	}
}
