package repcmd

import "testing"

func TestListMapInsertionOrder(t *testing.T) {
	m := &ListMap{}
	m.Add("b", "2")
	m.Add("a", "1")
	m.Add("b", "3")

	pairs := m.Pairs()
	want := []Pair{{"b", "2"}, {"a", "1"}, {"b", "3"}}
	if len(pairs) != len(want) {
		t.Fatalf("Pairs() len = %d, want %d", len(pairs), len(want))
	}
	for i, p := range want {
		if pairs[i] != p {
			t.Errorf("Pairs()[%d] = %+v, want %+v", i, pairs[i], p)
		}
	}
}

func TestListMapFirst(t *testing.T) {
	m := &ListMap{}
	if _, ok := m.First(); ok {
		t.Error("First() on empty ListMap reported ok")
	}
	m.Add("sv_cheats", "1")
	m.Add("timescale", "2")
	p, ok := m.First()
	if !ok || p != (Pair{"sv_cheats", "1"}) {
		t.Errorf("First() = %+v, %v, want {sv_cheats 1}, true", p, ok)
	}
}

func TestListMapGetFold(t *testing.T) {
	m := &ListMap{}
	m.Add("Name", "Player1")
	if v, ok := m.GetFold("name"); !ok || v != "Player1" {
		t.Errorf("GetFold(\"name\") = %q, %v, want \"Player1\", true", v, ok)
	}
	if _, ok := m.GetFold("missing"); ok {
		t.Error("GetFold on missing key reported ok")
	}
}

func TestListMapInsertAfter(t *testing.T) {
	m := &ListMap{}
	m.Add("name", "foo^1bar")
	m.InsertAfter("name", "uncoloredName", "foobar")

	pairs := m.Pairs()
	if len(pairs) != 2 || pairs[1].Key != "uncoloredName" || pairs[1].Value != "foobar" {
		t.Errorf("InsertAfter produced %+v", pairs)
	}

	// Appends at the end when the "after" key isn't found.
	m2 := &ListMap{}
	m2.InsertAfter("missing", "k", "v")
	if got := m2.Pairs(); len(got) != 1 || got[0] != (Pair{"k", "v"}) {
		t.Errorf("InsertAfter with missing after key = %+v", got)
	}
}

func TestListMapToMapLastWins(t *testing.T) {
	m := &ListMap{}
	m.Add("k", "first")
	m.Add("k", "second")
	got := m.ToMap()
	if got["k"] != "second" {
		t.Errorf("ToMap()[\"k\"] = %q, want \"second\"", got["k"])
	}
}

func TestListMapReplaceKeys(t *testing.T) {
	m := &ListMap{}
	m.Add("n", "Player1")
	m.Add("t", "0")
	m.ReplaceKeys(playerConfigKeyReplacementsForTest())
	pairs := m.Pairs()
	if pairs[0].Key != "name" || pairs[1].Key != "team" {
		t.Errorf("ReplaceKeys produced %+v", pairs)
	}
}

// playerConfigKeyReplacementsForTest mirrors rep's private
// playerConfigKeyReplacements table without importing it (rep imports
// repcmd, not the reverse).
func playerConfigKeyReplacementsForTest() map[string]string {
	return map[string]string{"n": "name", "t": "team"}
}
