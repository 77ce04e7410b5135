// This file contains general enum types.

package repcore

import (
	"fmt"
)

// Enum is the base / common part of enum types.
type Enum struct {
	// Name of the entity
	Name string
}

// String returns the string representation of the enum (the name).
// Defined with value receiver so this gets called even if a non-pointer is used.
func (e Enum) String() string {
	return e.Name
}

// UnknownEnum constructs a new Enum for an unknown entity with a name:
//
//	"Unknown 0xID"
//
// ID must be an integer number.
func UnknownEnum(ID any) Enum {
	return Enum{fmt.Sprintf("Unknown 0x%x", ID)}
}

// TrType is a trajectory interpolation type used for entity and player
// movement between snapshots.
type TrType struct {
	Enum

	// ID as it appears in the demo stream
	ID byte
}

// TrTypes is an enumeration of the possible trajectory types.
var TrTypes = []*TrType{
	{Enum{"Stationary"}, 0},
	{Enum{"Interpolate"}, 1},
	{Enum{"Linear"}, 2},
	{Enum{"Linear Stop"}, 3},
	{Enum{"Sine"}, 4},
	{Enum{"Gravity"}, 5},
}

// Named trajectory types
var (
	TrTypeStationary  = TrTypes[0]
	TrTypeInterpolate = TrTypes[1]
	TrTypeLinear      = TrTypes[2]
	TrTypeLinearStop  = TrTypes[3]
	TrTypeSine        = TrTypes[4]
	TrTypeGravity     = TrTypes[5]
)

// TrTypeByID returns the TrType for a given ID.
// A new TrType with Unknown name is returned if one is not found
// for the given ID (preserving the unknown ID).
func TrTypeByID(ID byte) *TrType {
	if int(ID) < len(TrTypes) {
		return TrTypes[ID]
	}
	return &TrType{UnknownEnum(ID), ID}
}

// PlayerMode describes the pmove type of a client at the time of a client event.
type PlayerMode struct {
	Enum

	// ID as it appears in the player state (pm_type)
	ID byte
}

// PlayerModes is an enumeration of the possible player modes.
var PlayerModes = []*PlayerMode{
	{Enum{"normal"}, 0},
	{Enum{"noclip"}, 1},
	{Enum{"spectator"}, 2},
	{Enum{"death"}, 3},
}

// Named player modes
var (
	PlayerModeNormal    = PlayerModes[0]
	PlayerModeNoclip    = PlayerModes[1]
	PlayerModeSpectator = PlayerModes[2]
	PlayerModeDead      = PlayerModes[3]
)

// PlayerModeByID returns the PlayerMode for a given ID.
// A new PlayerMode with Unknown name is returned if one is not found
// for the given ID (preserving the unknown ID).
func PlayerModeByID(ID byte) *PlayerMode {
	if int(ID) < len(PlayerModes) {
		return PlayerModes[ID]
	}
	return &PlayerMode{UnknownEnum(ID), ID}
}

// RenameStatus describes the outcome of a single file rename attempt.
type RenameStatus struct {
	Enum

	// ID is a small ordinal, not part of any wire format
	ID byte
}

// RenameStatuses is an enumeration of the possible rename outcomes.
var RenameStatuses = []*RenameStatus{
	{Enum{"Renamed"}, 0},
	{Enum{"Already Matches"}, 1},
	{Enum{"Skipped Existing"}, 2},
	{Enum{"Deleted Duplicate"}, 3},
}

// Named rename statuses
var (
	RenameStatusRenamed          = RenameStatuses[0]
	RenameStatusAlreadyMatches   = RenameStatuses[1]
	RenameStatusSkippedExisting  = RenameStatuses[2]
	RenameStatusDeletedDuplicate = RenameStatuses[3]
)
