package repparser

import "github.com/icza/q3demo/rep"

// consoleRecord is a single console-command announcement, timestamped by
// the serverTime in effect when it arrived.
type consoleRecord struct {
	ServerTime int64
	Value      string
}

// clientConnection mirrors the connection-level state a Quake III client
// keeps outside of any snapshot (structures/client.py's ClientConnection).
type clientConnection struct {
	ClientNum                 int32
	ConnectPacketCount         int32
	ChecksumFeed               int32
	ReliableSequence           int32
	ReliableAcknowledge        int32
	ServerMessageSequence      int32
	ServerCommandSequence      int32
	LastExecutedServerCommand  int32

	Console         map[int32]consoleRecord
	Configs         map[int32]string
	Errors          map[string]string
	EntityBaselines map[int32]*rep.EntityState
	Demowaiting     bool
}

func newClientConnection() *clientConnection {
	return &clientConnection{
		Console:         map[int32]consoleRecord{},
		Configs:         map[int32]string{},
		Errors:          map[string]string{},
		EntityBaselines: map[int32]*rep.EntityState{},
	}
}

// logError records err's message the way the original's _log_error does:
// keyed by message text, value discarded.
func (c *clientConnection) logError(err error) {
	c.Errors[err.Error()] = ""
}

// clientState mirrors structures/client.py's ClientState: the rolling
// snapshot/entity ring buffers and the demo-wide classification fields
// they accumulate into.
type clientState struct {
	Snap             *rep.CLSnapshot
	NewSnapshots     bool
	GameState        map[int32]string
	ParseEntitiesNum int32
	Snapshots        map[int32]*rep.CLSnapshot
	EntityBaselines  map[int32]*rep.EntityState
	ParseEntities    map[int32]*rep.EntityState
	ClientEvents     []*rep.ClientEvent
	LastClientEvent  *rep.ClientEvent

	ClientConfig map[string]string
	GameConfig   map[string]string

	Mapname         string
	MapNameChecksum int32
	Dfvers          int32
	IsOnline        bool
	IsCheatsOn      bool
	MaxSpeed        int

	IsCpmInParams    *bool
	IsCpmInSnapshots *bool
}

func newClientState() *clientState {
	return &clientState{
		Snap:            &rep.CLSnapshot{},
		GameState:       map[int32]string{},
		Snapshots:       map[int32]*rep.CLSnapshot{},
		EntityBaselines: map[int32]*rep.EntityState{},
		ParseEntities:   map[int32]*rep.EntityState{},
	}
}

func getOrCreateEntity(m map[int32]*rep.EntityState, key int32) *rep.EntityState {
	e, ok := m[key]
	if !ok {
		e = &rep.EntityState{}
		m[key] = e
	}
	return e
}

func getOrCreateSnapshot(m map[int32]*rep.CLSnapshot, key int32) *rep.CLSnapshot {
	s, ok := m[key]
	if !ok {
		s = &rep.CLSnapshot{}
		m[key] = s
	}
	return s
}
