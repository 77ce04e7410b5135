// This file contains string-sanitizing helpers shared between the console
// command classifier and the naming engine.

package repcmd

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// colorCodeRe matches an id Tech 3 color escape: a caret followed by any
// single character (the color digit).
var colorCodeRe = regexp.MustCompile(`\^.`)

// RemoveColors strips ^-prefixed color codes from a console string.
func RemoveColors(s string) string {
	return colorCodeRe.ReplaceAllString(s, "")
}

// asciiPrintable is the printable ASCII range (space through tilde).
var asciiPrintable = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0020, Hi: 0x007E, Stride: 1}},
}

var nonASCIITransformer = transform.Chain(runes.Remove(runes.NotIn(asciiPrintable)))

// RemoveNonASCII drops every rune outside the printable ASCII range.
func RemoveNonASCII(s string) string {
	out, _, err := transform.String(nonASCIITransformer, s)
	if err != nil {
		return s
	}
	return out
}

// normalizeNameRe matches every character outside the set a normalized
// player name may contain; those characters are stripped.
var normalizeNameRe = regexp.MustCompile(`[^a-zA-Z0-9!#$%&'()+,\-.;=\[\]^_{}]`)

// NormalizeName strips a player name down to a safe filename-component
// charset.
func NormalizeName(s string) string {
	return normalizeNameRe.ReplaceAllString(s, "")
}

// GetTimeSpan parses a colon-delimited duration string of the form
// "MM:SS:mmm" or "SS:mmm", tolerating stray non-numeric characters glued
// onto a component (as console output occasionally does), and returns the
// duration in milliseconds.
func GetTimeSpan(value string) (int64, bool) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, false
	}
	nums := make([]int64, len(parts))
	for i, p := range parts {
		n, ok := cleanInt(p)
		if !ok {
			return 0, false
		}
		nums[i] = n
	}
	var minutes, seconds, millis int64
	switch len(nums) {
	case 3:
		minutes, seconds, millis = nums[0], nums[1], nums[2]
	case 2:
		seconds, millis = nums[0], nums[1]
	}
	return minutes*60_000 + seconds*1000 + millis, true
}

// cleanInt strips any non-digit characters before parsing, matching the
// original parser's tolerance for malformed console fragments.
func cleanInt(s string) (int64, bool) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// cleanLine strips color codes and the escaped-quote/newline noise that
// console command text carries, the Go equivalent of the original's
// ad hoc `re.sub(r"(\^.|\\\"|\\n|\")", "", text)` cleanup.
var cleanLineRe = regexp.MustCompile(`(\^.|\\"|\\n|")`)

func cleanLine(s string) string {
	return cleanLineRe.ReplaceAllString(s, "")
}

// GetNameOnline extracts the player name from an online "reached the
// finish line in" announcement.
func GetNameOnline(line string) string {
	cleaned := cleanLine(line)
	idx := strings.LastIndex(strings.ToLower(cleaned), " reached")
	if idx < 0 || idx < 6 {
		return ""
	}
	return NormalizeName(cleaned[6:idx])
}

// GetTimeOnline extracts the finish time (in milliseconds) from an online
// "reached the finish line in" announcement.
func GetTimeOnline(line string) (int64, bool) {
	cleaned := cleanLine(line)
	idx := strings.LastIndex(cleaned, "in")
	if idx < 0 {
		return 0, false
	}
	demoTime := cleaned[idx+3:]
	if est := strings.Index(demoTime, " (est"); est > 0 {
		demoTime = demoTime[:est]
	}
	return GetTimeSpan(demoTime)
}

// GetTimeOfflineNormal extracts the finish time from a "Time performed by"
// / "^3Time Performed:" style announcement.
func GetTimeOfflineNormal(line string) (int64, bool) {
	cleaned := cleanLine(line)
	idx := strings.Index(cleaned, ":")
	if idx < 0 {
		return 0, false
	}
	cleaned = cleaned[idx+2:]
	if sp := strings.Index(cleaned, " "); sp > 0 {
		cleaned = strings.TrimSpace(cleaned[:sp])
	}
	return GetTimeSpan(cleaned)
}

// GetNameOffline extracts the player name from a "Time performed by"
// announcement.
func GetNameOffline(line string) string {
	cleaned := cleanLine(line)
	if len(cleaned) < 24 {
		return ""
	}
	cleaned = cleaned[24:]
	if sp := strings.Index(cleaned, " :"); sp >= 0 {
		cleaned = cleaned[:sp]
	}
	return NormalizeName(cleaned)
}

// GetTimeOld1 extracts the finish time from a legacy "NewTime" announcement.
func GetTimeOld1(line string) (int64, bool) {
	parts := strings.Split(line, " ")
	if len(parts) <= 2 {
		return 0, false
	}
	return GetTimeSpan(parts[2])
}

// GetNameOfflineOld1 extracts the player name from a legacy "NewTime"
// announcement.
func GetNameOfflineOld1(line string) string {
	parts := strings.Split(line, " ")
	if len(parts) <= 3 {
		return ""
	}
	return NormalizeName(RemoveColors(parts[3]))
}

// GetTimeOld3 extracts the finish time (milliseconds) from a legacy
// "newTime" announcement.
func GetTimeOld3(line string) (int64, bool) {
	parts := strings.Split(line, " ")
	if len(parts) <= 1 {
		return 0, false
	}
	n, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// dateLayouts are the accepted "Date:" timestamp formats, both identical
// upstream (the original tries the same layout twice).
var dateLayouts = []string{"01-02-06 15:04", "01-02-06 15:04"}

// GetDateForDemo parses a server "Date:" announcement line.
func GetDateForDemo(line string) (time.Time, bool) {
	if len(line) < 13 {
		return time.Time{}, false
	}
	s := line[13:]
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "\"", "")
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// GetNameQ3DF extracts a Q3DFResult from a q3df.org ranking announcement
// ("broke the server record with", "equalled the server record with",
// "you are now rank", or a "console: ... is now rank" line). Returns false
// if line doesn't match any of those shapes.
func GetNameQ3DF(line string) (Q3DFResult, bool) {
	text := RemoveNonASCII(line)
	text = RemoveColors(text)
	stripped := strings.TrimRight(strings.ReplaceAll(text, `chat "`, ""), `"`)

	parsePrefix := func(prefix string) (string, string, bool) {
		prefix = strings.TrimSpace(prefix)
		if strings.Contains(prefix, "(") && strings.Contains(prefix, ")") {
			idx := strings.LastIndex(prefix, "(")
			name := strings.TrimSpace(prefix[:idx])
			q3df := strings.Trim(prefix[idx+1:], ")")
			q3df = strings.TrimSpace(q3df)
			return NormalizeName(name), NormalizeName(q3df), q3df != ""
		}
		return NormalizeName(prefix), "", false
	}
	parseTime := func(segment string) string {
		segment = strings.TrimSpace(segment)
		segment = strings.SplitN(segment, " ", 2)[0]
		segment = strings.SplitN(segment, "(", 2)[0]
		return strings.TrimSpace(segment)
	}

	splitOnce := func(s, sep string) (string, string, bool) {
		idx := strings.Index(s, sep)
		if idx < 0 {
			return "", "", false
		}
		return s[:idx], s[idx+len(sep):], true
	}

	if prefix, rest, ok := splitOnce(stripped, " broke the server record with "); ok {
		name, q3df, hasLogin := parsePrefix(prefix)
		ms, ok := GetTimeSpan(parseTime(rest))
		if !ok {
			return Q3DFResult{}, false
		}
		return Q3DFResult{Name: name, Q3DFName: q3df, HasLogin: hasLogin, Time: strconv.FormatInt(ms, 10)}, true
	}
	if prefix, rest, ok := splitOnce(stripped, " equalled the server record with "); ok {
		name, q3df, hasLogin := parsePrefix(prefix)
		ms, ok := GetTimeSpan(parseTime(rest))
		if !ok {
			return Q3DFResult{}, false
		}
		return Q3DFResult{Name: name, Q3DFName: q3df, HasLogin: hasLogin, Time: strconv.FormatInt(ms, 10)}, true
	}
	if prefix, rest, ok := splitOnce(stripped, ", you are now rank"); ok && strings.Contains(rest, " with ") {
		name, q3df, hasLogin := parsePrefix(prefix)
		_, timePart, _ := splitOnce(rest, " with ")
		ms, ok := GetTimeSpan(parseTime(timePart))
		if !ok {
			return Q3DFResult{}, false
		}
		return Q3DFResult{Name: name, Q3DFName: q3df, HasLogin: hasLogin, Time: strconv.FormatInt(ms, 10)}, true
	}
	if strings.HasPrefix(stripped, "console: ") && strings.Contains(stripped, " with ") {
		body := stripped[len("console: "):]
		namePart, rest, ok := splitOnce(body, " is now rank")
		if !ok {
			return Q3DFResult{}, false
		}
		name, q3df, hasLogin := parsePrefix(namePart)
		_, timePart, ok := splitOnce(rest, " with ")
		if !ok {
			return Q3DFResult{}, false
		}
		ms, ok := GetTimeSpan(parseTime(timePart))
		if !ok {
			return Q3DFResult{}, false
		}
		return Q3DFResult{Name: name, Q3DFName: q3df, HasLogin: hasLogin, Time: strconv.FormatInt(ms, 10)}, true
	}
	return Q3DFResult{}, false
}

// toInt parses parts[index] as an int, returning def if the index is out
// of range or the value doesn't parse.
func toInt(parts []string, index, def int) int {
	if index < 0 || index >= len(parts) {
		return def
	}
	n, err := strconv.Atoi(parts[index])
	if err != nil {
		return def
	}
	return n
}

// ParseAdditionalInfo decodes a "TimerStopped" console line's
// space-delimited cvar-snapshot payload.
func ParseAdditionalInfo(line string) *AdditionalTimeInfo {
	parts := strings.Split(line, " ")
	info := NewAdditionalTimeInfo(line)
	millis := toInt(parts, 1, -1)
	if millis < 0 {
		return info
	}
	info.Time = time.Duration(millis) * time.Millisecond
	offset := toInt(parts, 2, -1)
	if offset < 0 {
		return info
	}
	info.Offset = offset
	if offset > 0 {
		for i := 0; i < offset; i++ {
			cpMillis := toInt(parts, 3+i, -1)
			info.CheckpointData = append(info.CheckpointData, time.Duration(cpMillis)*time.Millisecond)
		}
	}
	if len(parts) <= offset+3 {
		return info
	}
	if parts[offset+3] != "Stats" {
		return info
	}
	info.PmoveDepends = toInt(parts, offset+4, -1)
	info.PmoveFixed = toInt(parts, offset+5, -1)
	info.SvFPS = toInt(parts, offset+6, -1)
	info.ComMaxFPS = toInt(parts, offset+7, -1)
	info.GSync = toInt(parts, offset+8, -1)
	if info.PmoveDepends <= 4 {
		info.PmoveMsec = toInt(parts, offset+9, -1)
	}
	info.AllWeapons = toInt(parts, offset+10, -1)
	info.NoDamage = toInt(parts, offset+11, -1)
	info.EnablePowerups = toInt(parts, offset+12, -1)
	return info
}

// splitNonAlnum breaks data into maximal runs of letters/digits, discarding
// every separator run between them.
func splitNonAlnum(data string) []string {
	var parts []string
	var cur strings.Builder
	for _, r := range data {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			cur.WriteRune(r)
			continue
		}
		if cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

// ContainsAnySplitted reports whether any of values matches (case
// insensitively) one of data's alphanumeric-run tokens.
func ContainsAnySplitted(data string, values ...string) bool {
	lowered := make(map[string]bool, len(values))
	for _, v := range values {
		lowered[strings.ToLower(v)] = true
	}
	for _, part := range splitNonAlnum(data) {
		if lowered[strings.ToLower(part)] {
			return true
		}
	}
	return false
}

// SplitConfig parses a backslash-delimited "\key\value\key\value..." cvar
// string into an order-preserving ListMap, skipping pairs with an empty
// value.
func SplitConfig(src string) *ListMap {
	lm := &ListMap{}
	s := src
	if strings.HasPrefix(s, "\\") {
		s = s[1:]
	}
	parts := strings.Split(s, "\\")
	for i := 0; i+1 < len(parts); i += 2 {
		key, value := parts[i], parts[i+1]
		if value == "" {
			continue
		}
		lm.Add(key, value)
	}
	return lm
}
