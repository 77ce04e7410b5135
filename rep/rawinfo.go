package rep

import (
	"strconv"
	"time"

	"github.com/icza/q3demo/rep/repcmd"
)

// Config-string field bases (CS_* indices), mirrored from the parser's own
// copy since rep cannot import repparser.
const (
	cfgFieldGame   = 0   // CS_SERVERINFO
	cfgFieldClient = 1   // CS_SYSTEMINFO
	cfgFieldMap    = 32  // CS_MODELS (assumed)
	cfgFieldPlayer = 544 // CS_PLAYERS
)

// ConsoleRecord is a single console-command announcement paired with the
// serverTime in effect when it arrived (the serverTime itself is carried
// for completeness but unused by the classifiers below, exactly as
// upstream discards it too).
type ConsoleRecord struct {
	ServerTime int64
	Value      string
}

// RawInfo gathers classified client connection state into the reusable
// building blocks a demo name is derived from, grounded on raw_info.py's
// RawInfo.
type RawInfo struct {
	DemoPath string

	rawConfig map[int32]string
	clientNum int32
	errors    map[string]string

	ConsoleCommandsParser *ConsoleCommandsParser
	ClientEvents          []*ClientEvent
	LastClientEvent       *ClientEvent
	Fin                   *FinishEvent
	MaxSpeed              int
	IsCpmInSnapshots      *bool
	GameInfo              *GameInfo

	friendlyInfo  map[string]map[string]string
	playerConfigs map[int32]map[string]string
}

// FinishType classifies how a recovered finish time was validated.
type FinishType string

const (
	FinishIncorrect    FinishType = "INCORRECT"
	FinishCorrectStart FinishType = "CORRECT_START"
	FinishCorrectTR    FinishType = "CORRECT_TR"
)

// FinishEvent pairs a FinishType verdict with the ClientEvent it was
// derived from.
type FinishEvent struct {
	Type  FinishType
	Event *ClientEvent
}

// Friendly-info / player-info map keys.
const (
	KeyPlayer = "player"
	KeyClient = "client"
	KeyErrors = "errors"
)

// NewRawInfo builds a RawInfo from the raw per-client state accumulated
// while parsing demoPath.
func NewRawInfo(
	demoPath string,
	rawConfig map[int32]string,
	console map[int32]ConsoleRecord,
	clientNum int32,
	clcErrors map[string]string,
	clientEvents []*ClientEvent,
	lastClientEvent *ClientEvent,
	maxSpeed int,
	isCpmInSnapshots *bool,
) *RawInfo {
	r := &RawInfo{
		DemoPath:              demoPath,
		rawConfig:             rawConfig,
		clientNum:             clientNum,
		errors:                clcErrors,
		ConsoleCommandsParser: NewConsoleCommandsParser(toConsoleValues(console)),
		ClientEvents:          clientEvents,
		LastClientEvent:       lastClientEvent,
		MaxSpeed:              maxSpeed,
		IsCpmInSnapshots:      isCpmInSnapshots,
		playerConfigs:         map[int32]map[string]string{},
	}
	r.Fin = r.getCorrectFinishEvent()
	r.GameInfo = r.buildGameInfo()
	return r
}

func toConsoleValues(console map[int32]ConsoleRecord) map[int32]string {
	out := make(map[int32]string, len(console))
	for k, v := range console {
		out[k] = v.Value
	}
	return out
}

// GetFriendlyInfo returns the client/player/error sections of rawConfig,
// split into cvar maps and lazily cached.
func (r *RawInfo) GetFriendlyInfo() map[string]map[string]string {
	if r.friendlyInfo != nil {
		return r.friendlyInfo
	}
	info := map[string]map[string]string{}
	if clientCfg, ok := r.rawConfig[cfgFieldClient]; ok && clientCfg != "" {
		if clientInfo := repcmd.SplitConfig(clientCfg).ToMap(); len(clientInfo) > 0 {
			info[KeyClient] = clientInfo
		}
	}
	if playerInfo := r.GetPlayerInfoByPlayerNum(r.clientNum); playerInfo != nil {
		info[KeyPlayer] = playerInfo
	}
	if len(r.errors) > 0 {
		errs := make(map[string]string, len(r.errors))
		idx := 1
		for message := range r.errors {
			errs[strconv.Itoa(idx)] = message
			idx++
		}
		info[KeyErrors] = errs
	}
	r.friendlyInfo = info
	return info
}

// GetPlayerInfoByPlayerNum returns the per-player cvar map for clientNum,
// splitting and caching it on first access.
func (r *RawInfo) GetPlayerInfoByPlayerNum(clientNum int32) map[string]string {
	key := int32(cfgFieldPlayer) + clientNum
	if cached, ok := r.playerConfigs[key]; ok {
		return cached
	}
	cfg, ok := r.rawConfig[key]
	if !ok {
		return nil
	}
	info := splitConfigPlayer(cfg)
	r.playerConfigs[key] = info
	return info
}

// GetPlayerInfoByPlayerName scans client slots 0..31 for a player whose
// "name" cvar matches playerName.
func (r *RawInfo) GetPlayerInfoByPlayerName(playerName string) map[string]string {
	if playerName == "" {
		return nil
	}
	for i := int32(0); i < 32; i++ {
		info := r.GetPlayerInfoByPlayerNum(i)
		if info == nil {
			continue
		}
		if info["name"] == playerName {
			return info
		}
	}
	return nil
}

func (r *RawInfo) buildGameInfo() *GameInfo {
	var clientCfg, gameCfg map[string]string
	if v, ok := r.rawConfig[cfgFieldClient]; ok && v != "" {
		clientCfg = repcmd.SplitConfig(v).ToMap()
	}
	if v, ok := r.rawConfig[cfgFieldGame]; ok && v != "" {
		gameCfg = repcmd.SplitConfig(v).ToMap()
	}
	var additional map[string]string
	if n := len(r.ConsoleCommandsParser.AdditionalInfos); n > 0 {
		additional = r.ConsoleCommandsParser.AdditionalInfos[n-1].ToDictionary()
	}
	parameters := joinLowercased(clientCfg, gameCfg, additional)
	return NewGameInfo(parameters, r.IsCpmInSnapshots)
}

func joinLowercased(maps ...map[string]string) map[string]string {
	out := map[string]string{}
	for _, m := range maps {
		for k, v := range m {
			out[lowerASCII(k)] = v
		}
	}
	return out
}

// getCorrectFinishEvent picks, among every eventFinish whose backward scan
// resolves to something other than INCORRECT, the one with the smallest
// non-error recovered time - the run this demo is ultimately named after.
func (r *RawInfo) getCorrectFinishEvent() *FinishEvent {
	var correct []*FinishEvent
	for idx := len(r.ClientEvents) - 1; idx >= 0; idx-- {
		finishType := r.isFinishCorrect(idx)
		ev := r.ClientEvents[idx]
		if finishType != FinishIncorrect && ev.TimeNoError() > 0 {
			correct = append(correct, &FinishEvent{Type: finishType, Event: ev})
		}
	}
	if len(correct) == 0 {
		return nil
	}
	best := correct[0]
	for _, c := range correct[1:] {
		if c.Event.TimeNoError() < best.Event.TimeNoError() {
			best = c
		}
	}
	return best
}

// isFinishCorrect walks backward from events[index] (which must be an
// eventFinish) looking for the run-start marker it belongs to, setting
// TimeByServerTime along the way.
func (r *RawInfo) isFinishCorrect(index int) FinishType {
	events := r.ClientEvents
	current := events[index]
	if !current.EventFinish {
		return FinishIncorrect
	}
	for prevIndex := index - 1; prevIndex >= 0; prevIndex-- {
		prev := events[prevIndex]
		if prev.EventChangePmType || prev.EventFinish {
			return FinishIncorrect
		}
		current.TimeByServerTime = time.Duration(current.ServerTime-prev.ServerTime) * time.Millisecond
		if prev.EventTimeReset {
			return FinishCorrectTR
		}
		if prev.EventStartTime {
			if r.hasStartBefore(prevIndex) {
				return FinishCorrectTR
			}
			return FinishCorrectStart
		}
		if prev.EventStartFile || prev.EventChangeUser {
			return FinishIncorrect
		}
	}
	return FinishIncorrect
}

func (r *RawInfo) hasStartBefore(index int) bool {
	events := r.ClientEvents
	for prevIndex := index - 1; prevIndex >= 0; prevIndex-- {
		prev := events[prevIndex]
		if prev.EventChangePmType || prev.EventChangeUser {
			return false
		}
		if prev.EventStartTime || prev.EventTimeReset {
			return true
		}
	}
	return false
}

// playerConfigKeyReplacements renames the terse per-player cvar keys a
// demo's config string carries into their readable names.
var playerConfigKeyReplacements = map[string]string{
	"n": "name", "dfn": "df_name", "t": "team", "c1": "color1",
	"c2": "color2", "hc": "maxHealth", "w": "wins", "l": "losses",
	"tt": "teamTask", "tl": "teamLeader",
}

// splitConfigPlayer splits and renames a per-player config string, adding
// an "uncoloredName" entry right after "name" when color codes or
// non-ASCII characters were present.
func splitConfigPlayer(src string) map[string]string {
	lm := repcmd.SplitConfig(src)
	lm.ReplaceKeys(playerConfigKeyReplacements)
	if name, ok := lm.GetFold("name"); ok {
		uncolored := repcmd.RemoveColors(name)
		if uncolored == "" {
			uncolored = name
		}
		uncolored2 := repcmd.RemoveNonASCII(uncolored)
		if uncolored2 == "" {
			uncolored2 = uncolored
		}
		if uncolored2 != name {
			lm.InsertAfter("name", "uncoloredName", uncolored2)
		}
	}
	return lm.ToMap()
}
