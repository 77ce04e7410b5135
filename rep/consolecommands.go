package rep

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/icza/q3demo/rep/repcmd"
)

// TimeStringInfo is a candidate finish-time announcement extracted from a
// console line, together with whatever player name it was attributed to.
type TimeStringInfo struct {
	Source string
	Time   time.Duration
	OName  string
	LName  string
}

// DateStringInfo is a server "Date:" announcement extracted from a console
// line.
type DateStringInfo struct {
	Source     string
	RecordDate time.Time
	HasDate    bool
}

// ConsoleCommandsParser classifies every reliable console-command string a
// client received over the course of a demo into finish-time and date
// announcements, grounded on console_commands_parser.py's
// ConsoleComandsParser.
type ConsoleCommandsParser struct {
	TimeStrings     []TimeStringInfo
	DateStrings     []DateStringInfo
	AdditionalInfos []*repcmd.AdditionalTimeInfo
}

// consoleCommand is one (serverTime, text) console record, ordered the way
// the original iterates its console_commands dict (insertion/key order).
type consoleCommand struct {
	key   int32
	value string
}

// NewConsoleCommandsParser classifies consoleCommands (keyed by sequence
// number, as recorded during parsing) into the parser's time/date/
// additional-info buckets.
func NewConsoleCommandsParser(consoleCommands map[int32]string) *ConsoleCommandsParser {
	ordered := make([]consoleCommand, 0, len(consoleCommands))
	for k, v := range consoleCommands {
		ordered = append(ordered, consoleCommand{k, v})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].key < ordered[j].key })

	p := &ConsoleCommandsParser{}
	timerStartedCount := 0
	for _, rec := range ordered {
		value := rec.value
		switch {
		case strings.HasPrefix(value, `print "Date:`):
			t, ok := repcmd.GetDateForDemo(value)
			p.DateStrings = append(p.DateStrings, DateStringInfo{Source: value, RecordDate: t, HasDate: ok})

		case strings.Contains(value, "reached the finish line in"):
			ms, ok := repcmd.GetTimeOnline(value)
			if ok {
				p.TimeStrings = append(p.TimeStrings, TimeStringInfo{
					Source: value,
					Time:   time.Duration(ms) * time.Millisecond,
					OName:  repcmd.GetNameOnline(value),
				})
			}

		case containsAny(value, "broke the server record", "you are now rank", "equalled the server record with"):
			if result, ok := repcmd.GetNameQ3DF(value); ok {
				ms, _ := strconv.ParseInt(result.Time, 10, 64)
				p.TimeStrings = append(p.TimeStrings, TimeStringInfo{
					Source: value,
					Time:   time.Duration(ms) * time.Millisecond,
					OName:  result.Name,
					LName:  result.Q3DFName,
				})
			}

		case strings.HasPrefix(value, `print "Time performed by`):
			ms, ok := repcmd.GetTimeOfflineNormal(value)
			if ok {
				p.TimeStrings = append(p.TimeStrings, TimeStringInfo{
					Source: value,
					Time:   time.Duration(ms) * time.Millisecond,
					OName:  repcmd.GetNameOffline(value),
				})
			}

		case strings.HasPrefix(value, "NewTime"):
			ms, ok := repcmd.GetTimeOld1(value)
			if ok {
				p.TimeStrings = append(p.TimeStrings, TimeStringInfo{
					Source: value,
					Time:   time.Duration(ms) * time.Millisecond,
					OName:  repcmd.GetNameOfflineOld1(value),
				})
			}

		case strings.HasPrefix(value, `print "^3Time Performed:`):
			ms, ok := repcmd.GetTimeOfflineNormal(value)
			if ok {
				p.TimeStrings = append(p.TimeStrings, TimeStringInfo{
					Source: value,
					Time:   time.Duration(ms) * time.Millisecond,
				})
			}

		case strings.HasPrefix(value, "newTime"):
			ms, ok := repcmd.GetTimeOld3(value)
			if ok {
				p.TimeStrings = append(p.TimeStrings, TimeStringInfo{
					Source: value,
					Time:   time.Duration(ms) * time.Millisecond,
				})
			}

		case strings.HasPrefix(value, "TimerStarted"):
			timerStartedCount++

		case strings.HasPrefix(value, "TimerStopped"):
			info := repcmd.ParseAdditionalInfo(value)
			if timerStartedCount > 1 {
				info.IsTR = true
			}
			timerStartedCount = 0
			p.AdditionalInfos = append(p.AdditionalInfos, info)
		}
	}
	return p
}

func containsAny(s string, tokens ...string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// GetFastestTimeStringInfo picks the quickest finish-time announcement
// attributable to names, preferring the one carrying a q3df login name on
// a tie. A lone announcement is returned whatever its name; with no
// announcements, the fastest TimerStopped record is used.
func (p *ConsoleCommandsParser) GetFastestTimeStringInfo(names *DemoNames) (TimeStringInfo, bool) {
	if len(p.TimeStrings) == 0 && len(p.AdditionalInfos) > 0 {
		fastest := minOf(p.AdditionalInfos, func(a *repcmd.AdditionalTimeInfo) int64 { return a.Time.Milliseconds() })
		if fastest == nil {
			return TimeStringInfo{}, false
		}
		return TimeStringInfo{Source: fastest.Source, Time: fastest.Time}, true
	}
	if len(p.TimeStrings) == 1 {
		return p.TimeStrings[0], true
	}
	if len(p.TimeStrings) == 0 {
		return TimeStringInfo{}, false
	}

	candidates := make([]TimeStringInfo, 0, len(p.TimeStrings))
	for _, ts := range p.TimeStrings {
		if ts.OName != "" && (ts.OName == names.DfName || ts.OName == names.UName) {
			candidates = append(candidates, ts)
		}
	}
	if len(candidates) == 0 {
		groups := map[string]bool{}
		for _, ts := range p.TimeStrings {
			groups[ts.OName] = true
		}
		if len(groups) == 1 {
			candidates = append(candidates, p.TimeStrings...)
		}
	}
	if len(candidates) == 0 {
		return TimeStringInfo{}, false
	}

	fastest := candidates[0]
	for _, ts := range candidates[1:] {
		if ts.Time < fastest.Time {
			fastest = ts
		}
	}
	var ties []TimeStringInfo
	for _, ts := range candidates {
		if ts.Time == fastest.Time {
			ties = append(ties, ts)
		}
	}
	if len(ties) > 1 {
		for _, ts := range ties {
			if ts.LName != "" {
				return ts, true
			}
		}
	}
	return fastest, true
}

// GetGoodTimeStringInfo looks up a specific finish time (or, if timeMs is
// non-positive, the fastest time attributable to names).
func (p *ConsoleCommandsParser) GetGoodTimeStringInfo(names *DemoNames, timeMs int64) (TimeStringInfo, bool) {
	if timeMs > 0 {
		for _, ts := range p.TimeStrings {
			if ts.Time.Milliseconds() != timeMs {
				continue
			}
			if ts.OName != "" {
				if ts.OName == names.UName || ts.OName == names.DfName {
					return ts, true
				}
				continue
			}
			return ts, true
		}
		return TimeStringInfo{}, false
	}

	var userStrings []TimeStringInfo
	for _, ts := range p.TimeStrings {
		if ts.OName != "" && (ts.OName == names.UName || ts.OName == names.DfName) {
			userStrings = append(userStrings, ts)
		}
	}
	if len(userStrings) == 0 {
		return TimeStringInfo{}, false
	}
	fastest := userStrings[0]
	for _, ts := range userStrings[1:] {
		if ts.Time < fastest.Time {
			fastest = ts
		}
	}
	return fastest, true
}

// minOf returns the element of items with the smallest key, or T's zero
// value if items is empty (Ext.MinOf).
func minOf[T any](items []T, key func(T) int64) T {
	var best T
	var bestKey int64
	found := false
	for _, it := range items {
		k := key(it)
		if !found || k < bestKey {
			best, bestKey, found = it, k, true
		}
	}
	return best
}
