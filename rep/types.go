// This file contains the per-snapshot data model: trajectories, entity and
// player states, client events and demo names - the Go analogue of
// structures/player.py, structures/client.py and structures/client_event.py.

package rep

import (
	"time"

	"github.com/icza/q3demo/rep/repcmd"
	"github.com/icza/q3demo/rep/repcore"
)

// Trajectory describes how a value (position or angles) moves between two
// snapshots.
type Trajectory struct {
	Type     *repcore.TrType
	Time     int32
	Duration int32
	Base     [3]float32
	Delta    [3]float32
}

// EntityState is a single networked entity's interpolation state, as
// delta-decoded from the snapshot stream (§4.4.1).
type EntityState struct {
	Number int32

	Pos  Trajectory
	Apos Trajectory

	Time, Time2      int32
	Origin, Origin2  [3]float32
	Angles, Angles2  [3]float32

	EType  int32
	EFlags int32

	OtherEntityNum, OtherEntityNum2 int32
	GroundEntityNum                 int32
	ConstantLight                   int32
	LoopSound                       int32
	ModelIndex, ModelIndex2         int32
	ClientNum                       int32
	Frame                           int32
	Solid                           int32
	Events                          int32
	EventParm                       int32
	Powerups                        int32
	Weapon                          int32
	LegsAnim, TorsoAnim             int32
	Generic1                        int32
}

// Copy overwrites e with other's contents (a deep value copy, since every
// field is a value type).
func (e *EntityState) Copy(other *EntityState) {
	*e = *other
}

// PlayerState is the local client's own movement/combat state, delta
// decoded from the snapshot stream (§4.4.3).
type PlayerState struct {
	CommandTime int32
	PMType      int32
	BobCycle    int32
	PMFlags     int32
	PMTime      int32
	Origin      [3]float32
	Velocity    [3]float32
	WeaponTime  int32
	Gravity     int32
	Speed       int32
	DeltaAngles [3]int32

	GroundEntityNum int32
	LegsTimer       int32
	LegsAnim        int32
	TorsoTimer      int32
	TorsoAnim       int32
	MovementDir     int32

	GrapplePoint [3]float32

	EFlags          int32
	EventSequence   int32
	Events          [2]int32
	EventParms      [2]int32
	ExternalEvent   int32
	ExternalEventParm int32
	ExternalEventTime int32

	ClientNum    int32
	Weapon       int32
	WeaponState  int32
	ViewAngles   [3]float32
	ViewHeight   int32

	DamageEvent int32
	DamageYaw   int32
	DamagePitch int32
	DamageCount int32

	Stats      [16]int32
	Persistant [16]int32
	Powerups   [16]int32
	Ammo       [16]int32

	Generic1 int32
	LoopSound int32
	JumppadEnt int32
	Ping       int32
	PMoveFrameCount int32
	JumppadFrame    int32
	EntityEventSequence int32
}

// Stat indices into PlayerState.Stats actually consulted by the run
// reconstructor and timer decoder; the remaining slots carry ordinary
// gameplay stats not interpreted by this package.
const (
	StatHealth     = 0
	StatTimerUpper = 7
	StatTimerLower = 8
	StatRunFlags   = 12
)

// Copy overwrites p with other's contents.
func (p *PlayerState) Copy(other *PlayerState) {
	*p = *other
}

// ClientEvent records the derived run-progress signal for a single
// snapshot (§4.5).
type ClientEvent struct {
	EventStartFile  bool
	EventStartTime  bool
	EventTimeReset  bool
	EventFinish     bool
	EventCheckPoint bool
	EventSomeTrigger bool
	EventChangePmType bool
	EventChangeUser   bool

	// Time is the decoded timer value, only meaningful if !TimeHasError.
	Time          time.Duration
	TimeHasError  bool
	TimeByServerTime time.Duration

	ServerTime int64
	PlayerNum  int32
	PlayerMode *repcore.PlayerMode
	UserStat   int32
	Speed      int
}

// HasAnyEvent reports whether any of the boolean event flags are set.
func (e *ClientEvent) HasAnyEvent() bool {
	return e.EventStartFile || e.EventStartTime || e.EventTimeReset || e.EventFinish ||
		e.EventCheckPoint || e.EventSomeTrigger || e.EventChangePmType || e.EventChangeUser
}

// TimeNoError returns TimeByServerTime if the decoded Time carried a
// checksum error, else Time.
func (e *ClientEvent) TimeNoError() time.Duration {
	if e.TimeHasError {
		return e.TimeByServerTime
	}
	return e.Time
}

// CLSnapshot is a single parsed client snapshot (§4.4.2).
type CLSnapshot struct {
	Valid    bool
	SnapFlags int32
	ServerTime int64
	MessageNum int32
	DeltaNum   int32
	Ping       int32
	AreaMask   [16]byte
	CmdNum     int32
	PS         PlayerState
	NumEntities int32
	ParseEntitiesNum int32
	ServerCommandNum int32
}

// DemoNames holds the several candidate names gathered for a player over
// the course of parsing a demo (§4.8), grounded on demo_names.py.
type DemoNames struct {
	DfName string // from df_name cvar (player info)
	UName  string // normalized "name" cvar (player info)
	OName  string // console-reported online name
	LName  string // console-reported q3df.org login name
	CName  string // console-reported offline name
	FName  string // name parsed back out of an existing filename
}

// DefaultPlayerName is the placeholder used when no real name could be
// determined.
const DefaultPlayerName = "UnnamedPlayer"

// SetNamesByPlayerInfo fills DfName/UName from a merged player-info cvar
// map (the "df_name"/"name" cvars), normalizing "name" the way a console
// name is normalized.
func (n *DemoNames) SetNamesByPlayerInfo(playerInfo map[string]string) {
	if playerInfo == nil {
		return
	}
	n.DfName = playerInfo["df_name"]
	if raw, ok := playerInfo["name"]; ok {
		n.UName = repcmd.NormalizeName(repcmd.RemoveColors(raw))
	}
}

// SetConsoleName records the console-reported name(s): both an online
// name/login-name pair when isOnline, or just an offline console name
// otherwise, each normalized the way a player name is normalized.
func (n *DemoNames) SetConsoleName(onlineName, loginName string, isOnline bool) {
	if isOnline {
		if onlineName != "" {
			n.OName = repcmd.NormalizeName(repcmd.RemoveColors(onlineName))
		}
		if loginName != "" {
			n.LName = repcmd.NormalizeName(repcmd.RemoveColors(loginName))
		}
		return
	}
	if onlineName != "" {
		n.CName = repcmd.NormalizeName(repcmd.RemoveColors(onlineName))
	}
}

// SetBracketsName records a name parsed back out of an existing filename.
func (n *DemoNames) SetBracketsName(name string) {
	n.FName = name
}

// ChooseNormalName returns the first non-empty, non-placeholder candidate
// name, preferring df_name, then console-offline, then the player-info
// "name" cvar, then console-online, then q3df login, then a name parsed
// back out of an existing filename.
func (n *DemoNames) ChooseNormalName() string {
	for _, candidate := range []string{n.DfName, n.CName, n.UName, n.OName, n.LName, n.FName} {
		if candidate != "" && candidate != DefaultPlayerName {
			return candidate
		}
	}
	return DefaultPlayerName
}
