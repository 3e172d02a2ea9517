package engine

import "testing"

func TestPendingPlaceAndMarkSent(t *testing.T) {
	q := NewPendingQueue(4)
	ip := mustIP(t, "10.0.0.9")

	q = q.Place(ip, 0)
	e, ok := q.Get(ip)
	if !ok || e.Attempts != 0 {
		t.Fatalf("Get after Place = %+v, %v; want Attempts=0", e, ok)
	}

	q = q.MarkSent(ip, 5)
	e, _ = q.Get(ip)
	if e.Attempts != 1 || e.LastSentAt != 5 {
		t.Fatalf("Get after MarkSent = %+v; want Attempts=1 LastSentAt=5", e)
	}
}

func TestPendingDueRespectsRetryInterval(t *testing.T) {
	q := NewPendingQueue(4)
	ip := mustIP(t, "10.0.0.9")
	q = q.Place(ip, 0)
	q = q.MarkSent(ip, 0)

	if due := q.Due(500, 1000); len(due) != 0 {
		t.Fatalf("Due at t=500 with 1000ms interval returned %d entries, want 0", len(due))
	}
	due := q.Due(1000, 1000)
	if len(due) != 1 || due[0].IP != ip {
		t.Fatalf("Due at t=1000 = %+v, want one entry for %v", due, ip)
	}
}

func TestPendingRemoveOnResolution(t *testing.T) {
	q := NewPendingQueue(4)
	ip := mustIP(t, "10.0.0.9")
	q = q.Place(ip, 0)
	q = q.Remove(ip)
	if _, ok := q.Get(ip); ok {
		t.Fatal("Remove did not clear pending entry")
	}
}

func TestPendingBoundDropsNewEntriesSilently(t *testing.T) {
	q := NewPendingQueue(1)
	a := mustIP(t, "10.0.0.1")
	b := mustIP(t, "10.0.0.2")

	q = q.Place(a, 0)
	q = q.Place(b, 0)
	if _, ok := q.Get(b); ok {
		t.Fatal("Place beyond bound should be dropped silently")
	}
	if q.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", q.Len())
	}
}
