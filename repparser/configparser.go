// This file contains the core demo-message interpreter: server-command,
// gamestate and snapshot decoding, delta-entity/delta-player-state
// reconstruction, the run-timer decoder and the client-event state
// machine (§4.3-§4.5), grounded on parser.py's Q3DemoConfigParser.

package repparser

import (
	"math"
	"strings"
	"time"

	"github.com/icza/q3demo/rep"
	"github.com/icza/q3demo/rep/repcmd"
	"github.com/icza/q3demo/rep/repcore"
)

// configParser holds all state accumulated while stepping through a single
// demo's message stream.
type configParser struct {
	clc        *clientConnection
	client     *clientState
	serverTime int64
}

func newConfigParser() *configParser {
	return &configParser{clc: newClientConnection(), client: newClientState()}
}

// parse interprets one demo message. An EOF/BAD/NOP opcode or an
// unrecognized top-level command ends the message. It always returns
// true, so the caller goes on to the next message.
func (p *configParser) parse(message *demoMessage) bool {
	p.serverTime = 0
	p.clc.ServerMessageSequence = message.Sequence
	r := newHuffmanReader(message.Data)
	r.readLong()
	for !r.isEOD() {
		command := r.readByte()
		switch command {
		case svcBad, svcNop, svcEOF:
			return true
		case svcServerCommand:
			p.parseServerCommand(r)
		case svcGamestate:
			p.parseGameState(r)
		case svcSnapshot:
			p.parseSnapshot(r)
		default:
			return true
		}
	}
	return true
}

func (p *configParser) parseServerCommand(r *huffmanReader) {
	key := r.readLong()
	value := r.readString()
	p.clc.Console[key] = consoleRecord{ServerTime: p.serverTime, Value: value}
}

func (p *configParser) parseGameState(r *huffmanReader) {
	r.readLong()
	for {
		command := r.readByte()
		if command == svcEOF {
			break
		}
		switch command {
		case svcConfigstring:
			key := r.readShort()
			if key < 0 || int(key) > maxConfigStrings {
				return
			}
			p.clc.Configs[key] = r.readBigString()
		case svcBaseline:
			newnum := r.readNumBits(gentityNumBits)
			if newnum < 0 || int(newnum) >= maxGEntities {
				p.clc.logError(newBaselineNumberOutOfRangeError())
				return
			}
			entity := getOrCreateEntity(p.clc.EntityBaselines, newnum)
			if err := readDeltaEntity(r, entity, newnum); err != nil {
				p.clc.logError(err)
				return
			}
		default:
			p.clc.logError(newBadGameStateCommandError())
			return
		}
	}
	p.clc.ClientNum = r.readLong()
	p.clc.ChecksumFeed = r.readLong()
}

func (p *configParser) parseSnapshot(r *huffmanReader) {
	if p.client.ClientConfig == nil {
		p.client.ClientConfig = map[string]string{}
		if gameCfg, ok := p.clc.Configs[cfgFieldGame]; ok {
			gameConfig := repcmd.SplitConfig(gameCfg).ToMap()
			p.client.IsCheatsOn = repcmd.GetOrZero(gameConfig, "sv_cheats") > 0
		}
		if clientCfg, ok := p.clc.Configs[cfgFieldClient]; ok {
			clientConfig := repcmd.SplitConfig(clientCfg).ToMap()
			p.client.ClientConfig = clientConfig
			p.client.Dfvers = int32(repcmd.GetOrZero(clientConfig, "defrag_vers"))
			p.client.Mapname = repcmd.GetOrDefault(clientConfig, "mapname", "")
			p.client.MapNameChecksum = p.mapChecksum(p.client.Mapname)
			p.client.IsOnline = repcmd.GetOrZero(clientConfig, "defrag_gametype") > 4
		}
	}

	newSnap := &rep.CLSnapshot{}
	newSnap.ServerCommandNum = p.clc.ServerCommandSequence
	newSnap.ServerTime = int64(r.readLong())
	newSnap.MessageNum = p.clc.ServerMessageSequence
	p.serverTime = newSnap.ServerTime

	deltaNum := r.readByte()
	if deltaNum == 0 {
		newSnap.DeltaNum = -1
	} else {
		newSnap.DeltaNum = newSnap.MessageNum - deltaNum
	}
	newSnap.SnapFlags = r.readByte()

	var oldSnapshot *rep.CLSnapshot
	if newSnap.DeltaNum <= 0 {
		newSnap.Valid = true
		p.clc.Demowaiting = false
	} else {
		oldSnapshot = getOrCreateSnapshot(p.client.Snapshots, newSnap.DeltaNum&packetMask)
		switch {
		case !oldSnapshot.Valid:
			p.clc.logError(newDeltaFromInvalidFrameError())
		case oldSnapshot.MessageNum != newSnap.DeltaNum:
			p.clc.logError(newDeltaFrameTooOldError())
		case p.client.ParseEntitiesNum-oldSnapshot.ParseEntitiesNum > maxParseEntities-128:
			p.clc.logError(newDeltaParseEntitiesNumTooOldError())
		default:
			newSnap.Valid = true
		}
	}

	length := r.readByte()
	if int(length) > len(newSnap.AreaMask) {
		p.clc.logError(newSnapshotAreaMaskSizeError())
		return
	}
	r.readData(newSnap.AreaMask[:], int(length))

	if oldSnapshot != nil {
		newSnap.PS.Copy(&oldSnapshot.PS)
	}
	if err := readDeltaPlayerState(r, &newSnap.PS); err != nil {
		p.clc.logError(err)
	}
	p.parsePacketEntities(r, oldSnapshot, newSnap)

	if !newSnap.Valid {
		return
	}

	oldMessage := p.client.Snap.MessageNum + 1
	if newSnap.MessageNum-oldMessage >= packetBackup {
		oldMessage = newSnap.MessageNum - (packetBackup - 1)
	}
	for messageNum := oldMessage; messageNum < newSnap.MessageNum; messageNum++ {
		if stored, ok := p.client.Snapshots[messageNum&packetMask]; ok {
			stored.Valid = false
		}
	}

	p.client.Snap = newSnap
	p.client.Snap.Ping = 0
	p.client.Snapshots[p.client.Snap.MessageNum&packetMask] = p.client.Snap
	p.client.NewSnapshots = true
	p.updateClientEvents(newSnap)
}

func (p *configParser) updateClientEvents(snapshot *rep.CLSnapshot) {
	if p.client.Dfvers <= 0 || p.client.Mapname == "" {
		return
	}
	timeVal, hasError := p.getTime(&snapshot.PS, snapshot.ServerTime, p.client.Dfvers, p.client.MapNameChecksum)
	if hasError {
		p.clc.logError(newBadChecksumError())
	}

	event := &rep.ClientEvent{
		TimeHasError: hasError,
		ServerTime:   snapshot.ServerTime,
		PlayerNum:    snapshot.PS.ClientNum,
		PlayerMode:   repcore.PlayerModeByID(byte(snapshot.PS.PMType)),
		UserStat:     snapshot.PS.Stats[rep.StatRunFlags],
	}
	if !hasError {
		event.Time = time.Duration(timeVal) * time.Millisecond
	}

	events := p.client.ClientEvents
	var prevStat int32
	newStat := snapshot.PS.Stats[rep.StatRunFlags]

	if len(events) > 0 {
		previous := events[len(events)-1]
		if previous.PlayerNum != snapshot.PS.ClientNum {
			event.EventChangeUser = true
		}
		if previous.PlayerMode.ID != byte(snapshot.PS.PMType) {
			event.EventChangePmType = true
		}
		prevStat = previous.UserStat
		isNormal := snapshot.PS.PMType == 0
		prevNormal := previous.PlayerMode.ID == 0

		if prevStat != newStat {
			switch {
			case (prevStat & 4) != (newStat & 4):
				if isNormal {
					if prevStat&2 == 0 {
						event.EventStartTime = true
					} else {
						event.EventTimeReset = true
					}
				}
			case (prevStat & 8) != (newStat & 8):
				if (isNormal || prevNormal) && !event.EventChangeUser {
					event.EventFinish = true
				}
			case (prevStat & 16) != (newStat & 16):
				if isNormal {
					event.EventCheckPoint = true
				}
			case previous.EventFinish && (prevStat&2) != 0 && (newStat&2) == 0:
				if (isNormal || prevNormal) && !event.EventChangeUser {
					previous.EventFinish = false
					if !previous.HasAnyEvent() {
						events = events[:len(events)-1]
					}
					event.EventFinish = true
				}
			case previous.EventStartTime && (prevStat&2) == 0 && (newStat&2) != 0:
				if isNormal {
					previous.EventStartTime = false
					if !previous.HasAnyEvent() {
						events = events[:len(events)-1]
					}
					event.EventStartTime = true
				}
			case previous.EventTimeReset && (prevStat&4) == 0 && (newStat&2) != 0:
				if isNormal {
					previous.EventTimeReset = false
					if !previous.HasAnyEvent() {
						events = events[:len(events)-1]
					}
					event.EventTimeReset = true
				}
			default:
				event.EventSomeTrigger = true
			}
		}
	} else {
		event.EventStartFile = true
		if snapshot.PS.PMType == 0 {
			if (prevStat&4) != (newStat&4) && (prevStat&2) == 0 {
				event.EventStartTime = true
			}
		}
	}

	xVel := math.Abs(float64(snapshot.PS.Velocity[0]))
	yVel := math.Abs(float64(snapshot.PS.Velocity[1]))
	event.Speed = int(math.Sqrt(xVel*xVel + yVel*yVel))
	if event.Speed > p.client.MaxSpeed {
		p.client.MaxSpeed = event.Speed
	}

	if event.HasAnyEvent() {
		events = append(events, event)
	}
	p.client.ClientEvents = events
	p.client.LastClientEvent = event
}

func (p *configParser) parsePacketEntities(r *huffmanReader, oldframe, newframe *rep.CLSnapshot) {
	newframe.ParseEntitiesNum = p.client.ParseEntitiesNum
	newframe.NumEntities = 0

	oldindex := int32(0)
	var oldstate *rep.EntityState
	var oldnum int32
	if oldframe == nil || oldframe.NumEntities == 0 {
		oldnum = 99999
	} else {
		oldstate = getOrCreateEntity(p.client.ParseEntities, (oldframe.ParseEntitiesNum+oldindex)&(maxParseEntities-1))
		oldnum = oldstate.Number
	}

	for {
		newnum := r.readNumBits(gentityNumBits)
		if newnum == maxGEntities-1 {
			break
		}
		if r.isEOD() {
			p.clc.logError(newPacketEntitiesEndOfMessageError())
			return
		}
		for oldframe != nil && oldnum < newnum {
			p.clDeltaEntity(r, newframe, oldnum, oldstate, true)
			oldindex++
			if oldindex >= oldframe.NumEntities {
				oldnum = 99999
				oldstate = nil
			} else {
				oldstate = getOrCreateEntity(p.client.ParseEntities, (oldframe.ParseEntitiesNum+oldindex)&(maxParseEntities-1))
				oldnum = oldstate.Number
			}
		}
		if oldframe != nil && oldnum == newnum {
			p.clDeltaEntity(r, newframe, newnum, oldstate, false)
			oldindex++
			if oldindex >= oldframe.NumEntities {
				oldnum = 99999
				oldstate = nil
			} else {
				oldstate = getOrCreateEntity(p.client.ParseEntities, (oldframe.ParseEntitiesNum+oldindex)&(maxParseEntities-1))
				oldnum = oldstate.Number
			}
			continue
		}
		if oldnum > newnum || oldframe == nil {
			baseline := getOrCreateEntity(p.clc.EntityBaselines, newnum)
			p.clDeltaEntity(r, newframe, newnum, baseline, false)
			continue
		}
	}

	for oldframe != nil && oldnum != 99999 {
		p.clDeltaEntity(r, newframe, oldnum, oldstate, true)
		oldindex++
		if oldindex >= oldframe.NumEntities {
			break
		}
		oldstate = getOrCreateEntity(p.client.ParseEntities, (oldframe.ParseEntitiesNum+oldindex)&(maxParseEntities-1))
		oldnum = oldstate.Number
	}
}

func (p *configParser) clDeltaEntity(r *huffmanReader, frame *rep.CLSnapshot, newnum int32, old *rep.EntityState, unchanged bool) {
	state := getOrCreateEntity(p.client.ParseEntities, p.client.ParseEntitiesNum&(maxParseEntities-1))
	if unchanged && old != nil {
		state.Copy(old)
	} else if err := readDeltaEntity(r, state, newnum); err != nil {
		p.clc.logError(err)
	}
	if state.Number == maxGEntities-1 {
		return
	}
	p.client.ParseEntitiesNum++
	frame.NumEntities++
}

func (p *configParser) mapChecksum(mapname string) int32 {
	if mapname == "" {
		return 0
	}
	var sum int32
	for _, c := range strings.ToLower(mapname) {
		sum += int32(c)
	}
	return sum & 0xFF
}

// getTime decodes the obfuscated demo-timer stat pair into a millisecond
// run time, reporting whether the embedded checksum disagreed (a replay
// inconsistency, not necessarily a corrupt file - see §4.5).
func (p *configParser) getTime(ps *rep.PlayerState, serverTime int64, dfVer, checksum int32) (value int32, hasError bool) {
	v := uint32(ps.Stats[7])<<16 | uint32(ps.Stats[8])&0xFFFF
	if v == 0 {
		return 0, false
	}
	if (p.client.IsOnline && dfVer != 190) || (dfVer >= 19112 && p.client.IsCheatsOn) {
		return int32(v), false
	}

	v ^= uint32(abs32(int32(ps.Origin[0]))) & 0xFFFF
	v ^= uint32(abs32(int32(ps.Velocity[0]))) << 16
	if ps.Stats[0] > 0 {
		v ^= uint32(ps.Stats[0]) & 0xFF
	} else {
		v ^= 150
	}
	v ^= uint32(ps.MovementDir&0xF) << 28
	for shift := uint(24); shift > 0; shift -= 8 {
		temp := ((v >> shift) ^ (v >> (shift - 8))) & 0xFF
		v = (v &^ (0xFF << shift)) | (temp << shift)
	}

	local := uint32(serverTime << 2)
	local += uint32((int64(dfVer) + int64(checksum)) << 8)
	local ^= uint32(serverTime << 24)
	v ^= local

	local = (v >> 28) & 0xF
	local |= (^local & 0xF) << 4
	local |= local << 8
	local |= local << 16
	v ^= local

	local = (v >> 22) & 0x3F
	v &= 0x3FFFFF
	var localSum uint32
	for idx := uint(0); idx < 3; idx++ {
		localSum += (v >> (6 * idx)) & 0x3F
	}
	localSum += (v >> 18) & 0xF

	return int32(v), local != (localSum & 0x3F)
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// readDeltaEntity decodes one entity's delta against its prior state
// (§4.4.1), dispatching through entityFieldTable. Kept as a free function
// (not a huffmanReader method) so the primitive bit-reader type never
// needs to import the rep package.
func readDeltaEntity(r *huffmanReader, state *rep.EntityState, number int32) error {
	if r.readNumBits(1) == 1 {
		state.Number = maxGEntities - 1
		return nil
	}
	if r.readNumBits(1) == 0 {
		state.Number = number
		return nil
	}
	count := r.readByte()
	if count < 0 || int(count) > entityStateFieldNum {
		return newInvalidFieldCountError()
	}
	state.Number = number
	for index := int32(0); index < count; index++ {
		if r.readNumBits(1) == 0 {
			continue
		}
		reset := r.readNumBits(1) == 0
		entityFieldTable[index](state, r, reset)
	}
	return nil
}

// readDeltaPlayerState decodes the local client's own delta-compressed
// movement state (§4.4.3), plus the trailing stat/persistant/ammo/powerups
// bitmask-gated arrays.
func readDeltaPlayerState(r *huffmanReader, state *rep.PlayerState) error {
	count := r.readByte()
	if count < 0 || int(count) > playerStateFieldNum {
		return newInvalidFieldCountError()
	}
	for index := int32(0); index < count; index++ {
		if r.readNumBits(1) == 0 {
			continue
		}
		playerFieldTable[index](state, r)
	}
	if r.readNumBits(1) != 0 {
		if r.readNumBits(1) != 0 {
			readPSArray(r, state.Stats[:], maxStats)
		}
		if r.readNumBits(1) != 0 {
			readPSArray(r, state.Persistant[:], maxPersistant)
		}
		if r.readNumBits(1) != 0 {
			readPSArray(r, state.Ammo[:], maxWeapons)
		}
		if r.readNumBits(1) != 0 {
			readPSLongArray(r, state.Powerups[:], maxPowerups)
		}
	}
	return nil
}

func readPSArray(r *huffmanReader, array []int32, length int) {
	bits := uint32(r.readNumBits(length))
	for idx := 0; idx < length; idx++ {
		if bits&bitPos[idx] != 0 {
			array[idx] = r.readShort()
		}
	}
}

func readPSLongArray(r *huffmanReader, array []int32, length int) {
	bits := uint32(r.readNumBits(length))
	for idx := 0; idx < length; idx++ {
		if bits&bitPos[idx] != 0 {
			array[idx] = r.readLong()
		}
	}
}
