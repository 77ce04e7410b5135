package repparser

// Protocol-level constants. These are the well-known, publicly documented
// limits baked into the id Tech 3 engine's network protocol; they are not
// game-specific secrets and are stable across the dm_66/67/68 demo family.
const (
	gentityNumBits    = 10
	maxGEntities      = 1 << gentityNumBits // 1024
	maxParseEntities  = 2048
	packetBackup      = 32
	packetMask        = packetBackup - 1
	maxConfigStrings  = 1024
	maxStats          = 16
	maxPersistant     = 16
	maxPowerups       = 16
	maxWeapons        = 16
	maxMapAreaBytes   = 16
	q3MessageMaxSize  = 16384
	q3MaxStringChars  = 1024
	q3BigInfoString   = 8192
	floatIntBits      = 13
	floatIntBias      = 1 << (floatIntBits - 1)
	percentCharByte   = int('%')
	dotCharByte       = int('.')

	// Config-string field bases (CS_* indices). cfgFieldMap is the one
	// index not directly confirmed against a retrieved const table (the
	// original const.py was not part of the retrieval pack); it is set to
	// the well-known CS_MODELS base and marked as assumed below.
	cfgFieldGame   = 0   // CS_SERVERINFO
	cfgFieldClient = 1   // CS_SYSTEMINFO
	cfgFieldMap    = 32  // CS_MODELS (assumed)
	cfgFieldPlayer = 544 // CS_PLAYERS
)

// Server-command opcode values (svc_* in the engine source).
const (
	svcBad = iota
	svcNop
	svcGamestate
	svcConfigstring
	svcBaseline
	svcServerCommand
	svcDownload
	svcSnapshot
	svcEOF
)

// entityStateFieldNum and playerStateFieldNum bound the per-field bitmask
// read in a delta entity / player state (§4.4.1, §4.4.3).
const (
	entityStateFieldNum = 51
	playerStateFieldNum = 48
)
