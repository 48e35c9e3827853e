package buffer

import (
	"fmt"
	"sync"
	"testing"
)

func TestAppendBelowCapacity(t *testing.T) {
	r := New[int](5)
	r.Append(1)
	r.Append(2)

	got := r.Snapshot()
	if len(got) != 2 {
		t.Fatalf("Snapshot: got %d elements, want 2", len(got))
	}
	if got[0] != 1 || got[1] != 2 {
		t.Errorf("Snapshot: got %v, want [1 2]", got)
	}
}

func TestEvictionKeepsLastC(t *testing.T) {
	cases := []struct {
		capacity int
		appends  int
	}{
		{1, 3},
		{3, 4},
		{5, 100},
		{10, 10},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("cap%d_n%d", tc.capacity, tc.appends), func(t *testing.T) {
			r := New[int](tc.capacity)
			for i := 0; i < tc.appends; i++ {
				r.Append(i)
			}

			want := tc.appends
			if want > tc.capacity {
				want = tc.capacity
			}
			got := r.Snapshot()
			if len(got) != want {
				t.Fatalf("Snapshot: got %d elements, want %d", len(got), want)
			}
			for i, v := range got {
				if exp := tc.appends - want + i; v != exp {
					t.Errorf("Snapshot[%d]: got %d, want %d", i, v, exp)
				}
			}
		})
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	r := New[string](3)
	r.Append("a")
	r.Append("b")

	snap := r.Snapshot()
	r.Append("c")
	r.Append("d") // evicts "a"

	if len(snap) != 2 || snap[0] != "a" || snap[1] != "b" {
		t.Errorf("earlier snapshot changed after appends: %v", snap)
	}
}

func TestRecentWindow(t *testing.T) {
	r := New[int](5)
	for i := 1; i <= 4; i++ {
		r.Append(i)
	}

	if got := r.RecentWindow(2); len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Errorf("RecentWindow(2): got %v, want [3 4]", got)
	}
	if got := r.RecentWindow(10); len(got) != 4 {
		t.Errorf("RecentWindow(10): got %d elements, want 4", len(got))
	}
	if got := r.RecentWindow(0); len(got) != 0 {
		t.Errorf("RecentWindow(0): got %v, want empty", got)
	}
}

func TestRecentWindowAfterWrap(t *testing.T) {
	r := New[int](3)
	for i := 0; i < 7; i++ {
		r.Append(i)
	}

	got := r.RecentWindow(2)
	if len(got) != 2 || got[0] != 5 || got[1] != 6 {
		t.Errorf("RecentWindow(2) after wrap: got %v, want [5 6]", got)
	}
}

func TestCapBelowOne(t *testing.T) {
	r := New[int](0)
	if r.Cap() != 1 {
		t.Errorf("Cap: got %d, want 1", r.Cap())
	}
	r.Append(1)
	r.Append(2)
	if got := r.Snapshot(); len(got) != 1 || got[0] != 2 {
		t.Errorf("Snapshot: got %v, want [2]", got)
	}
}

func TestConcurrentAppendsAndReads(t *testing.T) {
	r := New[int](64)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			r.Append(n)
		}(i)
		go func() {
			defer wg.Done()
			r.Snapshot()
			r.RecentWindow(10)
		}()
	}
	wg.Wait()

	if got := r.Len(); got != 50 {
		t.Errorf("Len after concurrent appends: got %d, want 50", got)
	}
}
