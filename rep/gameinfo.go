package rep

import "github.com/icza/q3demo/rep/repcmd"

// GameInfo classifies a demo's mod/gametype/physics-mode from its merged
// cvar parameters, grounded on game_info.py's GameInfo.
type GameInfo struct {
	Parameters map[string]string

	IsDefrag   bool
	IsFreeStyle bool
	IsOnline   bool

	GameName      string
	GameNameShort string

	GameType      string
	GameTypeShort string

	GameplayType      string
	GameplayTypeShort string

	ModType     string
	ModTypeName string
}

// NewGameInfo classifies parameters (already merged client+game+additional
// cvars) into a GameInfo, consulting isCpmInSnapshots when it is non-nil
// to resolve Defrag's physics mode in preference to cvar guesses.
func NewGameInfo(parameters map[string]string, isCpmInSnapshots *bool) *GameInfo {
	g := &GameInfo{Parameters: lowerKeys(parameters)}

	name, isDefrag := repcmd.GetGameName(g.Parameters)
	g.IsDefrag = isDefrag
	g.GameNameShort = name.Short
	g.GameName = name.Long

	short, long, isFreeStyle, isOnline := repcmd.GetGameType(g.GameNameShort, g.Parameters)
	g.GameTypeShort = short
	g.GameType = long
	g.IsFreeStyle = isFreeStyle
	g.IsOnline = isOnline

	g.GameplayTypeShort = repcmd.GetGameplayTypeShort(g.GameNameShort, g.Parameters, isCpmInSnapshots)
	g.GameplayType = repcmd.GetGameplayType(g.GameplayTypeShort)

	modNumber, modName := repcmd.GetModType(g.GameTypeShort, g.Parameters)
	g.ModType = modNumber
	g.ModTypeName = modName

	return g
}

func lowerKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[lowerASCII(k)] = v
	}
	return out
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
