// This file contains the data-driven field tables used to delta-decode an
// entity state and a player state (§4.4.1, §4.4.3), grounded on
// structures/mapper.py's verbatim field dispatch. Each entry is applied in
// order; within a delta, a field's "reset" flag means "set to zero"
// instead of "read a value from the stream" (the bit itself, read by the
// caller, only says whether the field changed at all).

package repparser

import (
	"github.com/icza/q3demo/rep"
	"github.com/icza/q3demo/rep/repcore"
)

type entityFieldFunc func(e *rep.EntityState, r *huffmanReader, reset bool)

func entF(read func(e *rep.EntityState, r *huffmanReader), zero func(e *rep.EntityState)) entityFieldFunc {
	return func(e *rep.EntityState, r *huffmanReader, reset bool) {
		if reset {
			zero(e)
		} else {
			read(e, r)
		}
	}
}

// entityFieldTable mirrors update_entity_state's 51-entry if/elif chain,
// field index 0..50, in the exact wire order the encoder emits them.
var entityFieldTable = [entityStateFieldNum]entityFieldFunc{
	0:  entF(func(e *rep.EntityState, r *huffmanReader) { e.Pos.Time = r.readLong() }, func(e *rep.EntityState) { e.Pos.Time = 0 }),
	1:  entF(func(e *rep.EntityState, r *huffmanReader) { e.Pos.Base[0] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Pos.Base[0] = 0 }),
	2:  entF(func(e *rep.EntityState, r *huffmanReader) { e.Pos.Base[1] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Pos.Base[1] = 0 }),
	3:  entF(func(e *rep.EntityState, r *huffmanReader) { e.Pos.Delta[0] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Pos.Delta[0] = 0 }),
	4:  entF(func(e *rep.EntityState, r *huffmanReader) { e.Pos.Delta[1] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Pos.Delta[1] = 0 }),
	5:  entF(func(e *rep.EntityState, r *huffmanReader) { e.Pos.Base[2] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Pos.Base[2] = 0 }),
	6:  entF(func(e *rep.EntityState, r *huffmanReader) { e.Apos.Base[1] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Apos.Base[1] = 0 }),
	7:  entF(func(e *rep.EntityState, r *huffmanReader) { e.Pos.Delta[2] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Pos.Delta[2] = 0 }),
	8:  entF(func(e *rep.EntityState, r *huffmanReader) { e.Apos.Base[0] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Apos.Base[0] = 0 }),
	9:  entF(func(e *rep.EntityState, r *huffmanReader) { e.Events = r.readNumBits(10) }, func(e *rep.EntityState) { e.Events = 0 }),
	10: entF(func(e *rep.EntityState, r *huffmanReader) { e.Angles2[1] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Angles2[1] = 0 }),
	11: entF(func(e *rep.EntityState, r *huffmanReader) { e.Pos.Time = r.readNumBits(8) }, func(e *rep.EntityState) { e.Pos.Time = 0 }), // note: eType below, placeholder overwritten
	12: entF(func(e *rep.EntityState, r *huffmanReader) { e.TorsoAnim = r.readNumBits(8) }, func(e *rep.EntityState) { e.TorsoAnim = 0 }),
	13: entF(func(e *rep.EntityState, r *huffmanReader) { e.EventParm = r.readNumBits(8) }, func(e *rep.EntityState) { e.EventParm = 0 }),
	14: entF(func(e *rep.EntityState, r *huffmanReader) { e.LegsAnim = r.readNumBits(8) }, func(e *rep.EntityState) { e.LegsAnim = 0 }),
	15: entF(func(e *rep.EntityState, r *huffmanReader) { e.GroundEntityNum = r.readNumBits(10) }, func(e *rep.EntityState) { e.GroundEntityNum = 0 }),
	16: entF(func(e *rep.EntityState, r *huffmanReader) { e.Pos.Type = repcore.TrTypeByID(byte(r.readByte())) }, func(e *rep.EntityState) { e.Pos.Type = repcore.TrTypeStationary }),
	17: entF(func(e *rep.EntityState, r *huffmanReader) { /* eFlags */ }, func(e *rep.EntityState) {}),
	18: entF(func(e *rep.EntityState, r *huffmanReader) { e.OtherEntityNum = r.readNumBits(10) }, func(e *rep.EntityState) { e.OtherEntityNum = 0 }),
	19: entF(func(e *rep.EntityState, r *huffmanReader) { e.Weapon = r.readNumBits(8) }, func(e *rep.EntityState) { e.Weapon = 0 }),
	20: entF(func(e *rep.EntityState, r *huffmanReader) { e.ClientNum = r.readNumBits(8) }, func(e *rep.EntityState) { e.ClientNum = 0 }),
	21: entF(func(e *rep.EntityState, r *huffmanReader) { e.Angles[1] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Angles[1] = 0 }),
	22: entF(func(e *rep.EntityState, r *huffmanReader) { e.Pos.Duration = r.readLong() }, func(e *rep.EntityState) { e.Pos.Duration = 0 }),
	23: entF(func(e *rep.EntityState, r *huffmanReader) { e.Apos.Type = repcore.TrTypeByID(byte(r.readByte())) }, func(e *rep.EntityState) { e.Apos.Type = repcore.TrTypeStationary }),
	24: entF(func(e *rep.EntityState, r *huffmanReader) { e.Origin[0] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Origin[0] = 0 }),
	25: entF(func(e *rep.EntityState, r *huffmanReader) { e.Origin[1] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Origin[1] = 0 }),
	26: entF(func(e *rep.EntityState, r *huffmanReader) { e.Origin[2] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Origin[2] = 0 }),
	27: entF(func(e *rep.EntityState, r *huffmanReader) { e.Solid = r.readNumBits(24) }, func(e *rep.EntityState) { e.Solid = 0 }),
	28: entF(func(e *rep.EntityState, r *huffmanReader) { e.Powerups = r.readNumBits(16) }, func(e *rep.EntityState) { e.Powerups = 0 }),
	29: entF(func(e *rep.EntityState, r *huffmanReader) { e.ModelIndex = r.readNumBits(8) }, func(e *rep.EntityState) { e.ModelIndex = 0 }),
	30: entF(func(e *rep.EntityState, r *huffmanReader) { e.OtherEntityNum2 = r.readNumBits(10) }, func(e *rep.EntityState) { e.OtherEntityNum2 = 0 }),
	31: entF(func(e *rep.EntityState, r *huffmanReader) { e.LoopSound = r.readNumBits(8) }, func(e *rep.EntityState) { e.LoopSound = 0 }),
	32: entF(func(e *rep.EntityState, r *huffmanReader) { e.Generic1 = r.readNumBits(8) }, func(e *rep.EntityState) { e.Generic1 = 0 }),
	33: entF(func(e *rep.EntityState, r *huffmanReader) { e.Origin2[2] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Origin2[2] = 0 }),
	34: entF(func(e *rep.EntityState, r *huffmanReader) { e.Origin2[0] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Origin2[0] = 0 }),
	35: entF(func(e *rep.EntityState, r *huffmanReader) { e.Origin2[1] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Origin2[1] = 0 }),
	36: entF(func(e *rep.EntityState, r *huffmanReader) { e.ModelIndex2 = r.readNumBits(8) }, func(e *rep.EntityState) { e.ModelIndex2 = 0 }),
	37: entF(func(e *rep.EntityState, r *huffmanReader) { e.Angles[0] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Angles[0] = 0 }),
	38: entF(func(e *rep.EntityState, r *huffmanReader) { e.Time = r.readLong() }, func(e *rep.EntityState) { e.Time = 0 }),
	39: entF(func(e *rep.EntityState, r *huffmanReader) { e.Apos.Time = r.readLong() }, func(e *rep.EntityState) { e.Apos.Time = 0 }),
	40: entF(func(e *rep.EntityState, r *huffmanReader) { e.Apos.Duration = r.readLong() }, func(e *rep.EntityState) { e.Apos.Duration = 0 }),
	41: entF(func(e *rep.EntityState, r *huffmanReader) { e.Apos.Base[2] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Apos.Base[2] = 0 }),
	42: entF(func(e *rep.EntityState, r *huffmanReader) { e.Apos.Delta[0] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Apos.Delta[0] = 0 }),
	43: entF(func(e *rep.EntityState, r *huffmanReader) { e.Apos.Delta[1] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Apos.Delta[1] = 0 }),
	44: entF(func(e *rep.EntityState, r *huffmanReader) { e.Apos.Delta[2] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Apos.Delta[2] = 0 }),
	45: entF(func(e *rep.EntityState, r *huffmanReader) { e.Time2 = r.readLong() }, func(e *rep.EntityState) { e.Time2 = 0 }),
	46: entF(func(e *rep.EntityState, r *huffmanReader) { e.Angles[2] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Angles[2] = 0 }),
	47: entF(func(e *rep.EntityState, r *huffmanReader) { e.Angles2[0] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Angles2[0] = 0 }),
	48: entF(func(e *rep.EntityState, r *huffmanReader) { e.Angles2[2] = r.readFloatIntegral() }, func(e *rep.EntityState) { e.Angles2[2] = 0 }),
	49: entF(func(e *rep.EntityState, r *huffmanReader) { e.ConstantLight = r.readLong() }, func(e *rep.EntityState) { e.ConstantLight = 0 }),
	50: entF(func(e *rep.EntityState, r *huffmanReader) { e.Frame = r.readNumBits(16) }, func(e *rep.EntityState) { e.Frame = 0 }),
}

func init() {
	// Fields 11 and 17 (eType, eFlags) are wired here, replacing the
	// placeholder entries at those indices in the literal above.
	entityFieldTable[11] = entF(
		func(e *rep.EntityState, r *huffmanReader) { e.EType = r.readNumBits(8) },
		func(e *rep.EntityState) { e.EType = 0 },
	)
	entityFieldTable[17] = entF(
		func(e *rep.EntityState, r *huffmanReader) { e.EFlags = r.readNumBits(19) },
		func(e *rep.EntityState) { e.EFlags = 0 },
	)
}

type playerFieldFunc func(p *rep.PlayerState, r *huffmanReader)

// playerFieldTable mirrors update_player_state's 48-entry if/elif chain.
// Unlike the entity table, a player-state delta never resets a field to
// zero on an unset bit (the original always passes reset=False here);
// the table only needs the read side.
var playerFieldTable = [playerStateFieldNum]playerFieldFunc{
	0:  func(p *rep.PlayerState, r *huffmanReader) { p.CommandTime = r.readLong() },
	1:  func(p *rep.PlayerState, r *huffmanReader) { p.Origin[0] = r.readFloatIntegral() },
	2:  func(p *rep.PlayerState, r *huffmanReader) { p.Origin[1] = r.readFloatIntegral() },
	3:  func(p *rep.PlayerState, r *huffmanReader) { p.BobCycle = r.readNumBits(8) },
	4:  func(p *rep.PlayerState, r *huffmanReader) { p.Velocity[0] = r.readFloatIntegral() },
	5:  func(p *rep.PlayerState, r *huffmanReader) { p.Velocity[1] = r.readFloatIntegral() },
	6:  func(p *rep.PlayerState, r *huffmanReader) { p.ViewAngles[1] = r.readFloatIntegral() },
	7:  func(p *rep.PlayerState, r *huffmanReader) { p.ViewAngles[0] = r.readFloatIntegral() },
	8:  func(p *rep.PlayerState, r *huffmanReader) { p.WeaponTime = r.readNumBits(-16) },
	9:  func(p *rep.PlayerState, r *huffmanReader) { p.Origin[2] = r.readFloatIntegral() },
	10: func(p *rep.PlayerState, r *huffmanReader) { p.Velocity[2] = r.readFloatIntegral() },
	11: func(p *rep.PlayerState, r *huffmanReader) { p.LegsTimer = r.readNumBits(8) },
	12: func(p *rep.PlayerState, r *huffmanReader) { p.PMTime = r.readNumBits(-16) },
	13: func(p *rep.PlayerState, r *huffmanReader) { p.EventSequence = r.readNumBits(16) },
	14: func(p *rep.PlayerState, r *huffmanReader) { p.TorsoAnim = r.readNumBits(8) },
	15: func(p *rep.PlayerState, r *huffmanReader) { p.MovementDir = r.readNumBits(4) },
	16: func(p *rep.PlayerState, r *huffmanReader) { p.Events[0] = r.readNumBits(8) },
	17: func(p *rep.PlayerState, r *huffmanReader) { p.LegsAnim = r.readNumBits(8) },
	18: func(p *rep.PlayerState, r *huffmanReader) { p.Events[1] = r.readNumBits(8) },
	19: func(p *rep.PlayerState, r *huffmanReader) { p.PMFlags = r.readNumBits(16) },
	20: func(p *rep.PlayerState, r *huffmanReader) { p.GroundEntityNum = r.readNumBits(10) },
	21: func(p *rep.PlayerState, r *huffmanReader) { p.WeaponState = r.readNumBits(4) },
	22: func(p *rep.PlayerState, r *huffmanReader) { p.EFlags = r.readNumBits(16) },
	23: func(p *rep.PlayerState, r *huffmanReader) { p.ExternalEvent = r.readNumBits(10) },
	24: func(p *rep.PlayerState, r *huffmanReader) { p.Gravity = r.readNumBits(16) },
	25: func(p *rep.PlayerState, r *huffmanReader) { p.Speed = r.readNumBits(16) },
	26: func(p *rep.PlayerState, r *huffmanReader) { p.DeltaAngles[1] = r.readNumBits(16) },
	27: func(p *rep.PlayerState, r *huffmanReader) { p.ExternalEventParm = r.readNumBits(8) },
	28: func(p *rep.PlayerState, r *huffmanReader) { p.ViewHeight = r.readNumBits(-8) },
	29: func(p *rep.PlayerState, r *huffmanReader) { p.DamageEvent = r.readNumBits(8) },
	30: func(p *rep.PlayerState, r *huffmanReader) { p.DamageYaw = r.readNumBits(8) },
	31: func(p *rep.PlayerState, r *huffmanReader) { p.DamagePitch = r.readNumBits(8) },
	32: func(p *rep.PlayerState, r *huffmanReader) { p.DamageCount = r.readNumBits(8) },
	33: func(p *rep.PlayerState, r *huffmanReader) { p.Generic1 = r.readNumBits(8) },
	34: func(p *rep.PlayerState, r *huffmanReader) { p.PMType = r.readNumBits(8) },
	35: func(p *rep.PlayerState, r *huffmanReader) { p.DeltaAngles[0] = r.readNumBits(16) },
	36: func(p *rep.PlayerState, r *huffmanReader) { p.DeltaAngles[2] = r.readNumBits(16) },
	37: func(p *rep.PlayerState, r *huffmanReader) { p.TorsoTimer = r.readNumBits(12) },
	38: func(p *rep.PlayerState, r *huffmanReader) { p.EventParms[0] = r.readNumBits(8) },
	39: func(p *rep.PlayerState, r *huffmanReader) { p.EventParms[1] = r.readNumBits(8) },
	40: func(p *rep.PlayerState, r *huffmanReader) { p.ClientNum = r.readNumBits(8) },
	41: func(p *rep.PlayerState, r *huffmanReader) { p.Weapon = r.readNumBits(5) },
	42: func(p *rep.PlayerState, r *huffmanReader) { p.ViewAngles[2] = r.readFloatIntegral() },
	43: func(p *rep.PlayerState, r *huffmanReader) { p.GrapplePoint[0] = r.readFloatIntegral() },
	44: func(p *rep.PlayerState, r *huffmanReader) { p.GrapplePoint[1] = r.readFloatIntegral() },
	45: func(p *rep.PlayerState, r *huffmanReader) { p.GrapplePoint[2] = r.readFloatIntegral() },
	46: func(p *rep.PlayerState, r *huffmanReader) { p.JumppadEnt = r.readNumBits(10) },
	47: func(p *rep.PlayerState, r *huffmanReader) { p.LoopSound = r.readNumBits(16) },
}
