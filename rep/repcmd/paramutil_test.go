package repcmd

import "testing"

func TestGetOrZero(t *testing.T) {
	params := map[string]string{"g_speed": "320", "bad": "nope"}
	if got := GetOrZero(params, "g_speed"); got != 320 {
		t.Errorf("GetOrZero(g_speed) = %d, want 320", got)
	}
	if got := GetOrZero(params, "missing"); got != 0 {
		t.Errorf("GetOrZero(missing) = %d, want 0", got)
	}
	if got := GetOrZero(params, "bad"); got != 0 {
		t.Errorf("GetOrZero(bad) = %d, want 0", got)
	}
}

func TestGetOrDefault(t *testing.T) {
	params := map[string]string{"mapname": "q3dm17"}
	if got := GetOrDefault(params, "mapname", "none"); got != "q3dm17" {
		t.Errorf("GetOrDefault(mapname) = %q, want q3dm17", got)
	}
	if got := GetOrDefault(params, "missing", "none"); got != "none" {
		t.Errorf("GetOrDefault(missing) = %q, want none", got)
	}
}

func TestToIntOrDefault(t *testing.T) {
	params := map[string]string{"all_weapons": "2"}
	if got := ToIntOrDefault(params, "all_weapons", -1); got != 2 {
		t.Errorf("ToIntOrDefault(all_weapons) = %d, want 2", got)
	}
	if got := ToIntOrDefault(params, "missing", -1); got != -1 {
		t.Errorf("ToIntOrDefault(missing) = %d, want -1", got)
	}
}

func TestGetFloatOrNeg1(t *testing.T) {
	params := map[string]string{"timescale": "1.5"}
	if got := GetFloatOrNeg1(params, "timescale"); got != 1.5 {
		t.Errorf("GetFloatOrNeg1(timescale) = %v, want 1.5", got)
	}
	if got := GetFloatOrNeg1(params, "missing"); got != -1 {
		t.Errorf("GetFloatOrNeg1(missing) = %v, want -1", got)
	}
}
