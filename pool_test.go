package dfimage

import (
	"errors"
	"runtime"
	"testing"
	"time"
)

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit takes priority", 4, 4},
		{"explicit can exceed max", 20, 20},
		{"zero uses auto calculation", 0, min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize)},
		{"negative uses auto calculation", -3, min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestConverterPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(2)
	t.Cleanup(func() { _ = pool.Close() })

	if pool.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", pool.Size())
	}

	a, err := pool.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	b, err := pool.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("distinct converters expected while both are held")
	}

	got := make(chan *Converter)
	go func() {
		c, _ := pool.Acquire()
		got <- c
	}()

	select {
	case <-got:
		t.Fatal("Acquire should block while the pool is exhausted")
	case <-time.After(50 * time.Millisecond):
	}

	pool.Release(a)
	select {
	case c := <-got:
		if c != a {
			t.Error("released converter should be reused")
		}
	case <-time.After(time.Second):
		t.Fatal("Acquire did not unblock after Release")
	}
	pool.Release(b)
}

func TestConverterPool_Close(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(0)
	if pool.Size() != 1 {
		t.Errorf("Size() = %d, want 1", pool.Size())
	}
	c, err := pool.Acquire()
	if err != nil {
		t.Fatal(err)
	}

	if err := pool.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	pool.Release(c) // no-op after close
	if _, err := pool.Acquire(); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() after Close error = %v, want ErrPoolClosed", err)
	}
}

func TestConverterPool_OptionError(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(1, WithAssetPath(t.TempDir()+"/missing"))
	t.Cleanup(func() { _ = pool.Close() })

	if _, err := pool.Acquire(); !errors.Is(err, ErrInvalidAssetPath) {
		t.Errorf("error = %v, want ErrInvalidAssetPath", err)
	}
	// The failed slot is freed for a later attempt.
	if _, err := pool.Acquire(); !errors.Is(err, ErrInvalidAssetPath) {
		t.Errorf("retry error = %v, want ErrInvalidAssetPath", err)
	}
}
