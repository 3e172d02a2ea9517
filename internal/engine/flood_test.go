package engine

import "testing"

func TestFloodAllowsUpToMaxCountPerWindow(t *testing.T) {
	f := NewFloodTable(16, 1000, 5)
	target := mustIP(t, "10.0.0.9")

	allowedCount := 0
	for i := uint64(0); i < 6; i++ {
		var allowed bool
		f, allowed = f.Allow(target, i*100)
		if allowed {
			allowedCount++
		}
	}
	if allowedCount != 5 {
		t.Fatalf("allowed %d of 6 calls within window, want 5", allowedCount)
	}
}

func TestFloodResetsAfterWindow(t *testing.T) {
	f := NewFloodTable(16, 1000, 1)
	target := mustIP(t, "10.0.0.9")

	f, allowed := f.Allow(target, 0)
	if !allowed {
		t.Fatal("first request should be allowed")
	}
	f, allowed = f.Allow(target, 500)
	if allowed {
		t.Fatal("second request within window should be denied")
	}
	_, allowed = f.Allow(target, 1000)
	if !allowed {
		t.Fatal("request after window elapses should be allowed")
	}
}

func TestFloodTracksTargetsIndependently(t *testing.T) {
	f := NewFloodTable(16, 1000, 1)
	a := mustIP(t, "10.0.0.1")
	b := mustIP(t, "10.0.0.2")

	f, allowedA := f.Allow(a, 0)
	_, allowedB := f.Allow(b, 0)
	if !allowedA || !allowedB {
		t.Fatal("independent targets should each get their own allowance")
	}
}

func TestFloodEvictsOldestWindowAtBound(t *testing.T) {
	f := NewFloodTable(2, 1000, 5)
	a := mustIP(t, "10.0.0.1")
	b := mustIP(t, "10.0.0.2")
	d := mustIP(t, "10.0.0.3")

	f, _ = f.Allow(a, 0)
	f, _ = f.Allow(b, 10)
	f, _ = f.Allow(d, 20)

	if f.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 after eviction", f.Len())
	}
}
