package checkin

import "testing"

func TestMemoryPrefsRoundTrip(t *testing.T) {
	p := NewMemoryPrefs()
	err := p.Edit(func(e Editor) {
		e.PutString("name", "四月").
			PutInt("count", 3).
			PutStringSet("dates", map[string]struct{}{"2025-01-01": {}})
	})
	if err != nil {
		t.Fatal(err)
	}

	if v, ok, _ := p.GetString("name"); !ok || v != "四月" {
		t.Errorf("GetString = %q, %v", v, ok)
	}
	if v, ok, _ := p.GetInt("count"); !ok || v != 3 {
		t.Errorf("GetInt = %d, %v", v, ok)
	}
	set, ok, _ := p.GetStringSet("dates")
	if !ok || len(set) != 1 {
		t.Fatalf("GetStringSet = %v, %v", set, ok)
	}
	has, _ := p.Contains("name")
	missing, _ := p.Contains("missing")
	if !has || missing {
		t.Error("Contains misreports presence")
	}
}

func TestMemoryPrefsRemove(t *testing.T) {
	p := NewMemoryPrefs()
	_ = p.Edit(func(e Editor) { e.PutString("k", "v") })
	_ = p.Edit(func(e Editor) { e.Remove("k") })
	if ok, _ := p.Contains("k"); ok {
		t.Error("Remove left the key behind")
	}
	if _, ok, _ := p.GetString("k"); ok {
		t.Error("GetString found a removed key")
	}
}

func TestMemoryPrefsTypeMismatch(t *testing.T) {
	p := NewMemoryPrefs()
	_ = p.Edit(func(e Editor) { e.PutString("k", "text") })
	if _, ok, _ := p.GetInt("k"); ok {
		t.Error("GetInt read a string value")
	}
	if _, ok, _ := p.GetStringSet("k"); ok {
		t.Error("GetStringSet read a string value")
	}
}

// Mutating a returned set must not leak back into the store.
func TestMemoryPrefsSetIsolation(t *testing.T) {
	p := NewMemoryPrefs()
	seed := map[string]struct{}{"2025-01-01": {}}
	_ = p.Edit(func(e Editor) { e.PutStringSet("dates", seed) })

	seed["2025-01-02"] = struct{}{}
	got, _, _ := p.GetStringSet("dates")
	if len(got) != 1 {
		t.Errorf("stored set aliased the caller's map: %v", got)
	}

	got["2025-01-03"] = struct{}{}
	again, _, _ := p.GetStringSet("dates")
	if len(again) != 1 {
		t.Errorf("returned set aliased the stored map: %v", again)
	}
}
