// This file contains the game/mod/gametype classification tables derived
// from merged cvar parameters, grounded on the original game_info.py.

package repcmd

import (
	"strconv"
	"strings"
)

// GameName holds a long and short display name for a game/mod.
type GameName struct {
	Short string
	Long  string
}

// fsGameMapping matches the fs_game cvar's exact (lowercased) value to a
// mod's game name; this is an exact-match table, not a marker-cvar check.
var fsGameMapping = map[string]GameName{
	"cpma":               {"cpma", "Challenge ProMode Arena"},
	"osp":                {"osp", "Orange Smoothie Productions"},
	"arena":              {"ra3", "Rocket Arena"},
	"threewave":          {"q3w", "Threewave CTF"},
	"freeze":             {"q3ft", "Freeze Tag"},
	"ufreeze":            {"q3uft", "Ultra Freeze Tag"},
	"q3ut":               {"q3ut", "Urban Terror"},
	"excessiveplus":      {"q3xp", "Excessive Plus"},
	"excessive":          {"q3ex", "Excessive"},
	"reactance:iu":       {"q3insta", "InstaUnlagged"},
	"battle":             {"battle", "Battle"},
	"beryllium":          {"beryllium", "Beryllium"},
	"bma":                {"bma", "Black Metal Assault"},
	"the corkscrew mod":  {"corkscrew", "The CorkScrew Mod"},
	"f4a":                {"f4a", "Freeze For All"},
	"freezeplus":         {"fp", "Freeze Plus"},
	"generations":        {"gen", "Generations"},
	"nemesis":            {"nemesis", "Nemesis"},
	"noghost":            {"noghost", "NoGhost"},
	"q3f":                {"q3f", "Quake 3 Fortress"},
	"q3f2":               {"q3f", "Quake 3 Fortress"},
	"truecombat":         {"truecombat", "Quake 3 True Combat"},
	"q3tc":               {"q3tc", "Quake 3 True Combat"},
}

// GetGameName classifies the game/mod from merged, lowercase-keyed cvar
// parameters. Returns the short/long name pair and whether this is a
// Defrag demo.
func GetGameName(params map[string]string) (name GameName, isDefrag bool) {
	game := strings.ToLower(GetOrDefault(params, "fs_game", ""))
	gName := strings.ToLower(GetOrDefault(params, "gamename", ""))
	gameVersion := strings.ToLower(GetOrDefault(params, "gameversion", ""))

	if strings.HasPrefix(game, "defrag") || gName == "defrag" || Has(params, "defrag_vers") || Has(params, "defrag_version") {
		return GameName{"defrag", "Defrag"}, true
	}

	if n, ok := fsGameMapping[game]; ok {
		return n, false
	}
	if strings.HasPrefix(gameVersion, "osp") {
		return GameName{"osp", "Orange Smoothie Productions"}, false
	}
	xpVersion := strings.ToLower(GetOrDefault(params, "xp_version", ""))
	if strings.HasPrefix(xpVersion, "xp") {
		return GameName{"q3xp", "Excessive Plus"}, false
	}
	if strings.HasPrefix(game, "pkarena") {
		return GameName{game, "Painkeep"}, false
	}
	if strings.Contains(game, "unlagged") {
		return GameName{"unlagged", "Unlagged"}, false
	}
	if strings.Contains(game, "westernq3") {
		return GameName{"westernq3", "Western Quake 3"}, false
	}
	return GameName{"q3a", "Quake 3 Arena"}, false
}

// gameplayTypeNames maps a short gameplay-type code to its long display name.
var gameplayTypeNames = map[string]string{
	"vq3": "Vanilla Quake3",
	"cpm": "Challenge ProMode",
	"pmc": "ProMode Classic",
	"cq3": "Challenge Quake3",
}

var cpmaGameplayMapping = map[string]string{
	"0": "vq3", "vq3": "vq3",
	"1": "pmc", "pmc": "pmc",
	"2": "cpm", "cpm": "cpm",
	"cq3": "cq3",
}

// GetGameplayTypeShort determines the short physics code (vq3/cpm/pmc/cq3)
// for the given mod, preferring the demo snapshot's own cpm flag (when
// known) over cvar guesses for Defrag.
func GetGameplayTypeShort(gameNameShort string, params map[string]string, isCpmInSnapshots *bool) string {
	switch gameNameShort {
	case "defrag":
		if isCpmInSnapshots != nil {
			if *isCpmInSnapshots {
				return "cpm"
			}
			return "vq3"
		}
		if GetOrZero(params, "df_promode") > 0 {
			return "cpm"
		}
		return "vq3"
	case "cpma":
		if v, ok := cpmaGameplayMapping[GetOrDefault(params, "server_gameplay", "")]; ok {
			return v
		}
		if GetOrZero(params, "server_promode") > 0 {
			return "cpm"
		}
		return "vq3"
	case "osp":
		if GetOrZero(params, "server_promode") > 0 {
			return "cpm"
		}
		return "vq3"
	}
	return ""
}

// GetGameplayType returns the long display name for a short gameplay code.
func GetGameplayType(short string) string {
	return gameplayTypeNames[short]
}

type gameTypeEntry struct {
	short string
	long  string
}

var defragGameTypeMapping = map[int]gameTypeEntry{
	1: {"df", "Offline Defrag"},
	2: {"fs", "Offline Freestyle"},
	3: {"fc", "Offline Fast Caps"},
	5: {"mdf", "Multiplayer Defrag"},
	6: {"mfs", "Multiplayer Freestyle"},
	7: {"mfc", "Multiplayer Fast Caps"},
}

var cpmaGameTypeMapping = map[int]gameTypeEntry{
	5:  {"ca", "Clan Arena"},
	6:  {"ft", "Freeze Tag"},
	7:  {"ctfs", "Capturestrike"},
	8:  {"ntf", "Not Team Fortress"},
	-1: {"hm", "Hoonymode"},
}

// q3wServerdataMapping is checked as a substring match against the
// uppercased g_serverdata cvar, in this exact iteration order (iteration
// order over a Python dict follows insertion order, and the first
// substring match wins).
var q3wServerdataMapping = []struct {
	marker string
	entry  gameTypeEntry
}{
	{"G00", gameTypeEntry{"ffa", "Free for All"}},
	{"G01", gameTypeEntry{"1v1", "Duel"}},
	{"G03", gameTypeEntry{"tdm", "Team Deathmatch"}},
	{"G04", gameTypeEntry{"ctf", "Capture the Flag"}},
	{"G05", gameTypeEntry{"ofc", "One Flag CTF"}},
	{"G09", gameTypeEntry{"ctfs", "Capturestrike"}},
	{"G10", gameTypeEntry{"cctf", "Classic CTF"}},
	{"G010", gameTypeEntry{"cctf", "Classic CTF"}},
	{"G11", gameTypeEntry{"ar", "Arena"}},
	{"G011", gameTypeEntry{"ar", "Arena"}},
}

var q3utGameTypeMapping = map[int]gameTypeEntry{
	0: {"ffa", "Free for All"},
	1: {"ffa", "Free for All"},
	3: {"tdm", "Team Deathmatch"},
	4: {"tsv", "Team Survivor"},
	5: {"ftl", "Follow the Leader"},
	6: {"ch", "Capture & Hold"},
	7: {"ctf", "Capture the Flag"},
	8: {"bd", "Bomb & Defuse"},
}

var q3xpGameTypeMapping = map[int]gameTypeEntry{
	5: {"rtf", "Return The Flag"},
	6: {"ofc", "One Flag CTF"},
	7: {"ca", "Clan Arena"},
	8: {"ft", "Freeze Tag"},
	9: {"ptl", "Protect The Leader"},
}

var baseGameTypeMapping = map[int]gameTypeEntry{
	0: {"ffa", "Free for All"},
	1: {"1v1", "Duel"},
	2: {"ffa", "Free for All"},
	3: {"tdm", "Team Deathmatch"},
	4: {"ctf", "Capture the Flag"},
}

// GetGameType classifies the gametype from merged cvar parameters and
// reports the Defrag-only isFreeStyle/isOnline flags. The per-mod checks
// fall through to the next mod's check (and finally to the base mapping)
// whenever the mod-specific table has no entry for the observed value -
// this mirrors the original's un-elif'd if-chain exactly, including that
// a recognized mod with an unrecognized gametype value ultimately resolves
// through the generic g_gametype mapping instead of an empty result.
func GetGameType(gameNameShort string, params map[string]string) (short, long string, isFreeStyle, isOnline bool) {
	gGametype := GetOrZero(params, "g_gametype")

	// isFreeStyle/isOnline are only ever computed for Defrag; every other
	// mod keeps the struct-level defaults (false/true).
	isOnline = true

	if gameNameShort == "defrag" {
		dfGtype := GetOrZero(params, "defrag_gametype")
		isFreeStyle = dfGtype == 2 || dfGtype == 6
		isOnline = dfGtype > 4
		if e, ok := defragGameTypeMapping[dfGtype]; ok {
			return e.short, e.long, isFreeStyle, isOnline
		}
		if gGametype == 4 {
			return "fc", "Offline Fast Caps", isFreeStyle, isOnline
		}
		return "df", "Offline Defrag", isFreeStyle, isOnline
	}

	if gameNameShort == "cpma" {
		if e, ok := cpmaGameTypeMapping[gGametype]; ok {
			return e.short, e.long, isFreeStyle, isOnline
		}
	}
	if gameNameShort == "osp" && gGametype >= 5 {
		if gGametype == 5 {
			return "ca", "Clan Arena", isFreeStyle, isOnline
		}
		switch GetOrZero(params, "server_freezetag") {
		case 1:
			return "fto", "Freeze Tag (OSP)", isFreeStyle, isOnline
		case 2:
			return "ftv", "Freeze Tag (Vanilla)", isFreeStyle, isOnline
		}
	}
	if gameNameShort == "q3w" {
		data := strings.ToUpper(GetOrDefault(params, "g_serverdata", ""))
		for _, m := range q3wServerdataMapping {
			if strings.Contains(data, m.marker) {
				return m.entry.short, m.entry.long, isFreeStyle, isOnline
			}
		}
	}
	if gameNameShort == "q3ut" {
		if e, ok := q3utGameTypeMapping[gGametype]; ok {
			return e.short, e.long, isFreeStyle, isOnline
		}
	}
	if gameNameShort == "q3xp" {
		if e, ok := q3xpGameTypeMapping[gGametype]; ok {
			return e.short, e.long, isFreeStyle, isOnline
		}
	}

	if e, ok := baseGameTypeMapping[gGametype]; ok {
		return e.short, e.long, isFreeStyle, isOnline
	}
	return "ffa", "Free for All", isFreeStyle, isOnline
}

// dfModText/oldDfModText name the Defrag physics-mode number for display.
// Both default to an original-observed fallback on an unmapped number:
// dfModText falls back to empty, oldDfModText falls back to "Custom".
var dfModText = map[int]string{
	0: "Custom", 1: "No weapon / No map objects", 2: "Weapons & Map Objects",
	3: "Map Objects Only", 4: "Weapons Only", 5: "Swinging Hook",
	6: "Quake3 Hook", 7: "Original quake 3", 8: "Custom",
}

var oldDfModText = map[int]string{
	0: "Pickup", 1: "Give All, No BFG", 2: "Give All", 3: "No weapons",
}

// GetDfModText returns a display string for a Defrag mode number.
func GetDfModText(mode int) string {
	return dfModText[mode]
}

// GetOldDfModText returns a display string for a legacy Fast-Caps weapon mode.
func GetOldDfModText(mode int) string {
	if s, ok := oldDfModText[mode]; ok {
		return s
	}
	return "Custom"
}

// allWeaponsLegacyDfMode is the legacy Fast Caps "all_weapons" -> df_mode
// fallback table. Its default branch (df_mode 8) is preserved exactly as
// observed upstream, not "corrected".
func allWeaponsLegacyDfMode(allWeapons int) int {
	switch allWeapons {
	case 0:
		return 7
	case 1:
		return 2
	case 2:
		return 8
	case 3:
		return 3
	default:
		return 8
	}
}

// GetModType computes the (modeNumber, modeDisplay) pair used as the
// optional ".modType" suffix of a demo's physics tag.
func GetModType(gameTypeShort string, params map[string]string) (number, display string) {
	dfGametype := GetOrZero(params, "defrag_gametype")
	if dfGametype > 1 && dfGametype != 5 {
		mode := GetOrZero(params, "defrag_mode")
		return strconv.Itoa(mode), GetDfModText(mode)
	}
	if gameTypeShort == "fc" {
		allWeapons := ToIntOrDefault(params, "all_weapons", -1)
		mode := allWeaponsLegacyDfMode(allWeapons)
		return strconv.Itoa(mode), GetOldDfModText(allWeapons)
	}
	return "", ""
}
