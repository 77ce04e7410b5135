package repcmd

import "testing"

func TestGetGameNameDefrag(t *testing.T) {
	params := map[string]string{"fs_game": "defrag", "defrag_vers": "1.91.26"}
	name, isDefrag := GetGameName(params)
	if !isDefrag || name.Short != "defrag" {
		t.Errorf("GetGameName(defrag) = %+v, %v", name, isDefrag)
	}
}

func TestGetGameNameFsGameMapping(t *testing.T) {
	params := map[string]string{"fs_game": "CPMA"}
	name, isDefrag := GetGameName(params)
	if isDefrag || name.Short != "cpma" || name.Long != "Challenge ProMode Arena" {
		t.Errorf("GetGameName(CPMA) = %+v, %v", name, isDefrag)
	}
}

func TestGetGameNameFallsBackToQ3A(t *testing.T) {
	name, isDefrag := GetGameName(map[string]string{})
	if isDefrag || name.Short != "q3a" {
		t.Errorf("GetGameName({}) = %+v, %v, want q3a, false", name, isDefrag)
	}
}

func TestGetGameplayTypeShortDefragUsesSnapshotFlag(t *testing.T) {
	cpm := true
	if got := GetGameplayTypeShort("defrag", nil, &cpm); got != "cpm" {
		t.Errorf("GetGameplayTypeShort(defrag, cpm snapshot) = %q, want cpm", got)
	}
	vq3 := false
	if got := GetGameplayTypeShort("defrag", nil, &vq3); got != "vq3" {
		t.Errorf("GetGameplayTypeShort(defrag, vq3 snapshot) = %q, want vq3", got)
	}
}

func TestGetGameplayTypeShortDefragFallsBackToCvar(t *testing.T) {
	params := map[string]string{"df_promode": "1"}
	if got := GetGameplayTypeShort("defrag", params, nil); got != "cpm" {
		t.Errorf("GetGameplayTypeShort(defrag, df_promode=1) = %q, want cpm", got)
	}
	if got := GetGameplayTypeShort("defrag", map[string]string{}, nil); got != "vq3" {
		t.Errorf("GetGameplayTypeShort(defrag, no cvars) = %q, want vq3", got)
	}
}

func TestGetGameplayTypeShortCPMA(t *testing.T) {
	params := map[string]string{"server_gameplay": "2"}
	if got := GetGameplayTypeShort("cpma", params, nil); got != "cpm" {
		t.Errorf("GetGameplayTypeShort(cpma, server_gameplay=2) = %q, want cpm", got)
	}
}

func TestGetGameTypeDefragMultiplayer(t *testing.T) {
	params := map[string]string{"defrag_gametype": "5"}
	short, long, isFreeStyle, isOnline := GetGameType("defrag", params)
	if short != "mdf" || long != "Multiplayer Defrag" || isFreeStyle || !isOnline {
		t.Errorf("GetGameType(defrag, 5) = %q %q %v %v", short, long, isFreeStyle, isOnline)
	}
}

func TestGetGameTypeDefragFreestyle(t *testing.T) {
	params := map[string]string{"defrag_gametype": "2"}
	short, _, isFreeStyle, isOnline := GetGameType("defrag", params)
	if short != "fs" || !isFreeStyle || isOnline {
		t.Errorf("GetGameType(defrag, 2) = %q %v %v", short, isFreeStyle, isOnline)
	}
}

func TestGetGameTypeDefragUnmappedFallsBackToDf(t *testing.T) {
	short, long, _, _ := GetGameType("defrag", map[string]string{"defrag_gametype": "99"})
	if short != "df" || long != "Offline Defrag" {
		t.Errorf("GetGameType(defrag, unmapped) = %q %q, want df Offline Defrag", short, long)
	}
}

func TestGetGameTypeQ3WByServerdataMarker(t *testing.T) {
	params := map[string]string{"g_serverdata": "somejunkG04more"}
	short, long, _, _ := GetGameType("q3w", params)
	if short != "ctf" || long != "Capture the Flag" {
		t.Errorf("GetGameType(q3w) = %q %q, want ctf Capture the Flag", short, long)
	}
}

func TestGetGameTypeFallsBackToBaseMapping(t *testing.T) {
	short, long, _, _ := GetGameType("q3a", map[string]string{"g_gametype": "4"})
	if short != "ctf" || long != "Capture the Flag" {
		t.Errorf("GetGameType(q3a, g_gametype=4) = %q %q, want ctf Capture the Flag", short, long)
	}
}

func TestGetGameTypeUnknownFallsBackToFFA(t *testing.T) {
	short, long, _, _ := GetGameType("q3a", map[string]string{})
	if short != "ffa" || long != "Free for All" {
		t.Errorf("GetGameType(q3a, {}) = %q %q, want ffa Free for All", short, long)
	}
}

func TestGetModTypeLegacyFastCaps(t *testing.T) {
	params := map[string]string{"all_weapons": "1"}
	number, display := GetModType("fc", params)
	if number != "2" || display != "Give All, No BFG" {
		t.Errorf("GetModType(fc) = %q %q, want 2 \"Give All, No BFG\"", number, display)
	}
}

func TestGetModTypeDefragModeSuffix(t *testing.T) {
	params := map[string]string{"defrag_gametype": "2", "defrag_mode": "6"}
	number, display := GetModType("fs", params)
	if number != "6" || display != "Quake3 Hook" {
		t.Errorf("GetModType(defrag mode) = %q %q, want 6 \"Quake3 Hook\"", number, display)
	}
}

func TestGetModTypeNoSuffix(t *testing.T) {
	number, display := GetModType("ctf", map[string]string{})
	if number != "" || display != "" {
		t.Errorf("GetModType(ctf, {}) = %q %q, want empty strings", number, display)
	}
}
