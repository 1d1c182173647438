package client

import (
	"sort"
	"testing"
	"time"
)

func TestMemCacheFreshness(t *testing.T) {
	t.Parallel()

	c := newMemCache()
	now := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)
	c.put("expenses", []byte(`[]`), now)

	if _, fresh, ok := c.get("expenses", time.Minute, now.Add(30*time.Second)); !ok || !fresh {
		t.Errorf("entry within TTL: fresh=%v ok=%v, want both true", fresh, ok)
	}

	// Past TTL the entry survives as a stale fallback.
	payload, fresh, ok := c.get("expenses", time.Minute, now.Add(2*time.Minute))
	if !ok || fresh {
		t.Errorf("entry past TTL: fresh=%v ok=%v, want stale hit", fresh, ok)
	}
	if string(payload) != `[]` {
		t.Errorf("stale payload = %s, want []", payload)
	}

	if _, _, ok := c.get("missing", time.Minute, now); ok {
		t.Error("unknown key reported a hit")
	}
}

func TestMemCacheInvalidatePrefix(t *testing.T) {
	t.Parallel()

	c := newMemCache()
	now := time.Now()
	c.put("expenses", []byte(`a`), now)
	c.put("expenses/42", []byte(`b`), now)
	c.put("expense-categories", []byte(`c`), now)

	dropped := c.invalidatePrefix("expenses")
	sort.Strings(dropped)
	if len(dropped) != 2 || dropped[0] != "expenses" || dropped[1] != "expenses/42" {
		t.Errorf("dropped = %v, want [expenses expenses/42]", dropped)
	}

	// "expense-categories" shares a prefix string but is a different
	// resource and must survive.
	if _, _, ok := c.get("expense-categories", time.Minute, now); !ok {
		t.Error("expense-categories was wrongly invalidated")
	}
}

func TestDependentsOf(t *testing.T) {
	t.Parallel()

	got := dependentsOf("expenses")
	want := map[string]bool{
		"expenses": true, "dashboard": true, "daily-spending": true,
		"expense-categories": true, "calendar-days": true,
	}
	if len(got) != len(want) {
		t.Fatalf("dependentsOf(expenses) = %v, want %d targets", got, len(want))
	}
	for _, target := range got {
		if !want[target] {
			t.Errorf("unexpected target %q", target)
		}
	}

	// Unknown resources invalidate themselves only.
	if got := dependentsOf("unknown"); len(got) != 1 || got[0] != "unknown" {
		t.Errorf("dependentsOf(unknown) = %v, want [unknown]", got)
	}
}
