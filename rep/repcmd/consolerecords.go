// This file contains the record types produced by classifying console
// command text (§4.6), grounded on console_commands_parser.py and
// console_string_utils.py.

package repcmd

import (
	"strconv"
	"time"
)

// Q3DFResult is an intermediate parse of a q3df.org ranking announcement.
type Q3DFResult struct {
	Name     string
	Q3DFName string
	HasLogin bool
	Time     string
}

// AdditionalTimeInfo is the structured payload of a "TimerStopped" console
// line, carrying the cvar snapshot the server reported alongside the run.
// Every int field defaults to -1 ("not present"), matching the sentinel
// convention the original parser uses throughout.
type AdditionalTimeInfo struct {
	Source         string
	Time           time.Duration
	CheckpointData []time.Duration

	Offset         int
	PmoveDepends   int
	PmoveFixed     int
	SvFPS          int
	ComMaxFPS      int
	GSync          int
	PmoveMsec      int
	AllWeapons     int
	NoDamage       int
	EnablePowerups int
	IsTR           bool
}

// NewAdditionalTimeInfo returns an AdditionalTimeInfo with every int field
// defaulted to -1 (not present).
func NewAdditionalTimeInfo(source string) *AdditionalTimeInfo {
	return &AdditionalTimeInfo{
		Source: source, Offset: -1, PmoveDepends: -1, PmoveFixed: -1,
		SvFPS: -1, ComMaxFPS: -1, GSync: -1, PmoveMsec: -1,
		AllWeapons: -1, NoDamage: -1, EnablePowerups: -1,
	}
}

// ToDictionary returns the present (>=0) fields as a string-keyed map, the
// way the original's toDictionary() does - PmoveDepends is intentionally
// excluded, matching the original.
func (a *AdditionalTimeInfo) ToDictionary() map[string]string {
	out := map[string]string{}
	add := func(key string, value int) {
		if value >= 0 {
			out[key] = strconv.Itoa(value)
		}
	}
	add("offset", a.Offset)
	add("pmove_fixed", a.PmoveFixed)
	add("sv_fps", a.SvFPS)
	add("com_maxfps", a.ComMaxFPS)
	add("g_sync", a.GSync)
	add("pmove_msec", a.PmoveMsec)
	add("all_weapons", a.AllWeapons)
	add("no_damage", a.NoDamage)
	add("enable_powerups", a.EnablePowerups)
	return out
}
