package state

import (
	"testing"

	"pgregory.net/rapid"
)

func TestProperty_SetThenGet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := New()
		key := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "key")
		v := rapid.Int().Draw(t, "v")

		h.Set(key, v)
		if got := h.Get(key, nil); got != v {
			t.Fatalf("Get(%q) = %v, want %v", key, got, v)
		}
	})
}

func TestProperty_GetDefaultForUnseenKeys(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := New()
		key := rapid.StringMatching(`[a-z]{1,8}`).Filter(func(s string) bool { return s != KeyConfig }).Draw(t, "key")
		def := rapid.String().Draw(t, "def")

		if got := h.Get(key, def); got != def {
			t.Fatalf("Get(%q) = %v, want default %v", key, got, def)
		}
	})
}

// Listeners fire exactly once per transition between distinct values.
func TestProperty_NotificationCount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := New()
		var fired int
		h.AddListener("k", func(string, any, any) { fired++ })

		values := rapid.SliceOf(rapid.IntRange(0, 3)).Draw(t, "values")
		want := 0
		var prev any
		for _, v := range values {
			if prev != any(v) {
				want++
			}
			h.Set("k", v)
			prev = v
		}
		if fired != want {
			t.Fatalf("fired %d times, want %d", fired, want)
		}
	})
}

func TestProperty_RemovedListenerNeverFires(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := New()
		n := rapid.IntRange(1, 6).Draw(t, "listeners")
		counts := make([]int, n)
		ids := make([]ListenerID, n)
		for i := range n {
			ids[i] = h.AddListener("k", func(string, any, any) { counts[i]++ })
		}
		removed := rapid.IntRange(0, n-1).Draw(t, "removed")
		h.RemoveListener("k", ids[removed])

		h.Set("k", rapid.Int().Draw(t, "v"))

		for i, c := range counts {
			want := 1
			if i == removed {
				want = 0
			}
			if c != want {
				t.Fatalf("listener %d fired %d times, want %d", i, c, want)
			}
		}
	})
}
