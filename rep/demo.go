package rep

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/icza/q3demo/rep/repcmd"
)

// tasTriggers are filename/playername tokens that flag a run as
// tool-assisted, sorted longest-first. They are matched against whole
// tokens, so the order does not change the result.
var tasTriggers = func() []string {
	triggers := []string{
		"tas", "tasbot", "bot", "boted", "botland", "wiz", "wizland",
		"script", "scripted", "scriptland",
	}
	sort.Slice(triggers, func(i, j int) bool { return len(triggers[i]) > len(triggers[j]) })
	return triggers
}()

// Demo is a single parsed .dm_68 file and the canonical name derived for
// it, grounded on demo.py's Demo.
type Demo struct {
	MapName        string
	ModPhysic      string
	Time           time.Duration
	PlayerName     string
	Names          *DemoNames
	Country        string
	File           string
	IsBroken       bool
	HasError       bool
	HasCorrectName bool
	RecordTime     time.Time
	HasRecordTime  bool
	HasTR          bool
	IsNotFinished  bool
	IsTas          bool
	ValidDict      *repcmd.ListMap
	UseValidation  bool
	RawTime        bool
	TriggerTime    bool
	TriggerTimeNoFinish bool
	IsSpectator    bool
	RawInfo        *RawInfo
	UserID         int

	demoNewName       string
	demoNewNameSimple string
	normalizedFileName string
}

// NewDemo returns a Demo with the defaults the original dataclass carries
// (validation on, no assigned user id).
func NewDemo() *Demo {
	return &Demo{UseValidation: true, UserID: -1}
}

// DemoNewNameSimple is the canonical name before the validity/userId/spect
// suffixes are appended.
func (d *Demo) DemoNewNameSimple() string {
	if d.demoNewNameSimple == "" {
		d.FillDemoNewName()
	}
	return d.demoNewNameSimple
}

// NormalizedFileName is File's base name, color-code-stripped and with a
// lowercased extension.
func (d *Demo) NormalizedFileName() string {
	if d.normalizedFileName == "" && d.File != "" {
		d.normalizedFileName = getNormalizedFileName(d.File)
	}
	return d.normalizedFileName
}

// DemoNewName is the full canonical file name this demo should be renamed
// to, including the validity/userId/[spect] suffixes.
func (d *Demo) DemoNewName() string {
	if d.demoNewName != "" {
		return d.demoNewName
	}
	if d.HasError {
		return d.NormalizedFileName()
	}
	d.FillDemoNewName()
	return d.demoNewName
}

// Validity is the first (key, value) added to ValidDict rendered as
// "key=value", or "" if ValidDict is empty - a demo's validity suffix
// names only the first violation found, not every one.
func (d *Demo) Validity() string {
	if d.ValidDict == nil {
		return ""
	}
	p, ok := d.ValidDict.First()
	if !ok {
		return ""
	}
	return p.Key + "=" + p.Value
}

// FillDemoNewName computes demoNewNameSimple/demoNewName, grounded on
// demo.py's fillDemoNewName.
func (d *Demo) FillDemoNewName() {
	if d.File == "" {
		return
	}
	var demoname string
	playerCountry := d.PlayerName
	if d.Country != "" {
		playerCountry = d.PlayerName + "." + d.Country
	}
	extension := strings.ToLower(filepath.Ext(d.File))

	if d.Time.Seconds() > 0 {
		total := d.Time.Seconds()
		minutes := int(total) / 60
		seconds := int(total) % 60
		millis := int(d.Time.Milliseconds()) % 1000
		demoname = d.MapName + "[" + d.ModPhysic + "]" +
			pad2(minutes) + "." + pad2(seconds) + "." + pad3(millis) +
			"(" + playerCountry + ")"
		d.HasCorrectName = true
	} else {
		d.HasCorrectName = false
		normalizedName := d.NormalizedFileName()
		oldName := normalizedName
		if extension != "" {
			oldName = oldName[:len(oldName)-len(extension)]
		}
		oldName = removeSubstr(oldName, d.MapName, true)
		if d.Country != "" {
			pc := playerCountry
			if d.Names != nil && d.Names.FName != "" {
				pc = d.Names.FName + "." + d.Country
			}
			oldName = removeSubstr(oldName, pc, false)
		}
		oldName = strings.ReplaceAll(oldName, "[dm]", "")
		oldName = strings.ReplaceAll(oldName, "[spect]", "")
		normName := repcmd.NormalizeName(d.PlayerName)
		patterns := []string{
			"(" + normName + "." + d.Country + ")",
			"(" + normName + ")",
		}
		if d.Names != nil && d.Names.FName != "" {
			patterns = append(patterns,
				"("+d.Names.FName+"."+d.Country+")",
				"("+d.Names.FName+")",
			)
		}
		for _, p := range patterns {
			oldName = strings.ReplaceAll(oldName, p, "")
		}
		oldName = removeSubstr(oldName, normName, false)
		if d.Names != nil && d.Names.FName != "" {
			oldName = removeSubstr(oldName, d.Names.FName, false)
		}
		oldName = removeSubstr(oldName, d.Country, false)
		oldName = strings.ReplaceAll(oldName, "["+d.ModPhysic+"]", "")
		oldName = removeSubstr(oldName, d.ModPhysic, true)
		if d.RawInfo != nil && d.RawInfo.GameInfo != nil {
			oldName = removeSubstr(oldName, d.RawInfo.GameInfo.GameNameShort, true)
		}
		oldName = removeSubstr(oldName, d.Validity(), true)
		oldName = removeDouble(oldName)
		oldName = strings.ReplaceAll(oldName, "[]", "")
		oldName = strings.ReplaceAll(oldName, "()", "")
		oldName = trimNonFilenameEdges(oldName)
		oldName = strings.ReplaceAll(oldName, " ", "_")
		demoname = d.MapName + "[" + d.ModPhysic + "](" + playerCountry + ")" + oldName
		demoname = strings.ReplaceAll(demoname, ").)", ")")
		demoname = strings.ReplaceAll(demoname, ".)", ")")
	}
	d.demoNewNameSimple = demoname + extension

	final := demoname
	if d.UseValidation && d.Validity() != "" {
		final += "{" + d.Validity() + "}"
	}
	switch {
	case d.UserID >= 0:
		final += "[" + strconv.Itoa(d.UserID) + "]"
	case d.IsSpectator || demoHasAnyTR(d.RawInfo):
		final += "[spect]"
	}
	d.demoNewName = final + extension
}

func demoHasAnyTR(raw *RawInfo) bool {
	if raw == nil || raw.ConsoleCommandsParser == nil {
		return false
	}
	for _, info := range raw.ConsoleCommandsParser.AdditionalInfos {
		if info.IsTR {
			return true
		}
	}
	return false
}

func pad2(n int) string { return pad(n, 2) }
func pad3(n int) string { return pad(n, 3) }
func pad(n, width int) string {
	s := strconv.Itoa(n)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// GetDemoFromRawInfo builds a Demo (its canonical name, country, player
// identity and validity flags) from a fully classified RawInfo.
func GetDemoFromRawInfo(raw *RawInfo) *Demo {
	demo := NewDemo()
	demo.RawInfo = raw
	demo.File = raw.DemoPath

	friendly := raw.GetFriendlyInfo()
	clientInfo, hasClient := friendly[KeyClient]
	if !hasClient || len(clientInfo) == 0 {
		demo.HasError = true
		demo.IsBroken = true
		return demo
	}

	names := &DemoNames{}
	playerInfo := friendly[KeyPlayer]
	names.SetNamesByPlayerInfo(playerInfo)
	fastest, hasFastest := raw.ConsoleCommandsParser.GetFastestTimeStringInfo(names)

	if raw.Fin != nil {
		if !raw.Fin.Event.TimeHasError {
			demo.Time = raw.Fin.Event.Time
		}
		demo.HasTR = raw.Fin.Type == FinishCorrectTR
		demo.TriggerTime = true
	} else {
		demo.HasTR = isTR(raw, fastest, hasFastest)
	}

	if demo.Time.Seconds() <= 0 {
		if hasFastest {
			demo.Time = fastest.Time
			if latest, ok := latestDateString(raw.ConsoleCommandsParser.DateStrings); ok {
				demo.RecordTime, demo.HasRecordTime = latest.RecordDate, true
			}
			if user := raw.GetPlayerInfoByPlayerName(fastest.OName); user != nil {
				names.SetNamesByPlayerInfo(user)
			}
		} else if raw.Fin != nil {
			demo.Time = raw.Fin.Event.TimeByServerTime
		}
	}
	if !demo.HasRecordTime {
		if latest, ok := latestDateString(raw.ConsoleCommandsParser.DateStrings); ok {
			demo.RecordTime, demo.HasRecordTime = latest.RecordDate, true
		}
	}

	if hasFastest {
		isOnline := true
		if raw.GameInfo != nil {
			isOnline = raw.GameInfo.IsOnline
		}
		names.SetConsoleName(fastest.OName, fastest.LName, isOnline)
	}

	filename := demo.NormalizedFileName()
	countryAndName := getNameAndCountry(filename)
	namePart, countryPart := tryGetNameAndCountry(countryAndName, names)
	normalName := names.ChooseNormalName()
	if normalName == "" || normalName == DefaultPlayerName {
		names.SetBracketsName(namePart)
	}
	demo.PlayerName = names.ChooseNormalName()
	demo.Names = names
	demo.Country = repcmd.NormalizeCountryCode(countryPart)

	lowerFilename := strings.ToLower(filename)
	if strings.Contains(lowerFilename, "tool_assisted=true") ||
		repcmd.ContainsAnySplitted(countryAndName, tasTriggers...) ||
		repcmd.ContainsAnySplitted(demo.PlayerName, tasTriggers...) {
		demo.IsTas = true
	}

	if demo.Time.Seconds() > 0 {
		demo.RawTime = true
	} else if t, ok := tryGetTimeFromFileName(filename); ok {
		demo.Time = t
	}

	mapInfo := ""
	if raw.rawConfig != nil {
		mapInfo = raw.rawConfig[cfgFieldMap]
	}
	mapName := strings.ToLower(clientInfo["mapname"])
	if mapName != "" && mapName == strings.ToLower(mapInfo) {
		demo.MapName = mapInfo
	} else {
		demo.MapName = mapName
	}
	if mapName == "" {
		demo.IsBroken = true
	}

	gameInfo := raw.GameInfo
	if gameInfo == nil {
		gameInfo = NewGameInfo(nil, nil)
	}
	if gameInfo.IsDefrag {
		if gameInfo.ModType != "" {
			demo.ModPhysic = gameInfo.GameTypeShort + "." + gameInfo.GameplayTypeShort + "." + gameInfo.ModType
		} else {
			demo.ModPhysic = gameInfo.GameTypeShort + "." + gameInfo.GameplayTypeShort
		}
	} else {
		demo.ModPhysic = gameInfo.GameNameShort + "." + gameInfo.GameTypeShort
	}
	if demo.HasTR {
		demo.ModPhysic += ".tr"
	}

	var additional map[string]string
	if n := len(raw.ConsoleCommandsParser.AdditionalInfos); n > 0 {
		additional = raw.ConsoleCommandsParser.AdditionalInfos[n-1].ToDictionary()
	}
	demo.ValidDict = checkValidity(demo.Time.Seconds() > 0, demo.RawTime, gameInfo, demo.IsTas, demo.TriggerTimeNoFinish, additional)
	if demo.ValidDict.Len() == 0 {
		if key, value, ok := getValidities(filename); ok {
			demo.ValidDict = &repcmd.ListMap{}
			demo.ValidDict.Add(key, value)
		}
	}
	if demo.TriggerTime {
		demo.UserID = tryGetUserIDFromFileName(demo.File)
	}
	if v, ok := demo.ValidDict.GetFold("client_finish"); ok && v == "false" {
		demo.IsNotFinished = true
	}
	return demo
}

func isTR(raw *RawInfo, fastest TimeStringInfo, hasFastest bool) bool {
	for _, ev := range raw.ClientEvents {
		if ev.EventTimeReset {
			return true
		}
	}
	if hasFastest {
		for _, info := range raw.ConsoleCommandsParser.AdditionalInfos {
			if info.Time == fastest.Time {
				return info.IsTR
			}
		}
	}
	return false
}

func latestDateString(dates []DateStringInfo) (DateStringInfo, bool) {
	for i := len(dates) - 1; i >= 0; i-- {
		if dates[i].HasDate {
			return dates[i], true
		}
	}
	return DateStringInfo{}, false
}

// --- naming helpers, grounded on demo.py's static methods -----------------

func isAlnumByte(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// removeDouble collapses runs of consecutive non-alnum/non-paren/non-
// bracket characters down to a single occurrence.
func removeDouble(value string) string {
	isSep := func(b byte) bool {
		return !isAlnumByte(b) && b != '(' && b != ')' && b != '[' && b != ']'
	}
	out := make([]byte, 0, len(value))
	for i := 0; i < len(value); i++ {
		b := value[i]
		if isSep(b) && len(out) > 0 && isSep(out[len(out)-1]) {
			continue
		}
		out = append(out, b)
	}
	return string(out)
}

// removeSubstr removes one occurrence of include from source (the first if
// fromStart, else the last) together with a non-alphanumeric character
// directly on either side of it, then puts one of the cut characters back
// in the gap: the following one if it was cut, else the preceding one,
// written as '_' if it is a bracket/brace/paren.
func removeSubstr(source, include string, fromStart bool) string {
	if include == "" || !strings.Contains(source, include) {
		return source
	}
	var pos int
	if fromStart {
		pos = strings.Index(source, include)
	} else {
		pos = strings.LastIndex(source, include)
	}
	if pos == -1 {
		return source
	}
	cropStart, cropEnd := 0, 0
	symbol := ""
	if pos > 0 {
		prev := source[pos-1]
		if !isAlnumByte(prev) {
			cropStart = 1
			symbol = string(prev)
		}
	}
	end := pos + len(include)
	if end < len(source) {
		next := source[end]
		if !isAlnumByte(next) {
			cropEnd = 1
			symbol = string(next)
		}
	}
	if strings.ContainsAny(symbol, "([{)]}") {
		symbol = "_"
	}
	return source[:pos-cropStart] + symbol + source[end+cropEnd:]
}

var nameAndCountryRe = regexp.MustCompile(`\(([^)]*)\)`)

func getNameAndCountry(filename string) string {
	m := nameAndCountryRe.FindStringSubmatch(filename)
	if m == nil {
		return ""
	}
	return m[1]
}

func tryGetNameAndCountry(partname string, names *DemoNames) (string, string) {
	sep := maxInt(strings.LastIndex(partname, "."), strings.LastIndex(partname, ","))
	if sep > 0 && sep+1 < len(partname) {
		country := strings.TrimSpace(partname[sep+1:])
		if !containsDigit(country) {
			return partname[:sep], country
		}
	}
	return partname, ""
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

var bracketSplitRe = regexp.MustCompile(`[\[\]()_]`)
var timeTokenSplitRe = regexp.MustCompile(`[-.]`)

func tryGetTimeFromFileName(filename string) (time.Duration, bool) {
	for _, part := range bracketSplitRe.Split(filename, -1) {
		if d, ok := tryGetTimeFromBrackets(part); ok {
			return d, ok
		}
	}
	return 0, false
}

// tryGetTimeFromBrackets accepts a dash/dot-delimited "MM.SS.mmm" (or
// "SS.mmm") token and parses it as a duration.
func tryGetTimeFromBrackets(part string) (time.Duration, bool) {
	tokens := timeTokenSplitRe.Split(part, -1)
	if len(tokens) < 2 || len(tokens) > 3 {
		return 0, false
	}
	for _, t := range tokens {
		if t == "" || !isAllDigits(t) {
			return 0, false
		}
	}
	ms, ok := repcmd.GetTimeSpan(strings.Join(tokens, ":"))
	if !ok {
		return 0, false
	}
	return time.Duration(ms) * time.Millisecond, true
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// --- validity checks -------------------------------------------------------

func checkValidity(hasTime, hasRawTime bool, gameInfo *GameInfo, isTas, triggerTimeNoFinish bool, additionalInfo map[string]string) *repcmd.ListMap {
	invalid := &repcmd.ListMap{}
	params := map[string]string{}
	if gameInfo != nil {
		params = gameInfo.Parameters
	}
	if additionalInfo != nil {
		params = joinLowercased(additionalInfo, params)
	}
	if gameInfo == nil || !gameInfo.IsFreeStyle {
		checkKey(invalid, params, "sv_cheats", 0)
	}
	if gameInfo != nil && gameInfo.IsDefrag && ((hasTime && !hasRawTime) || triggerTimeNoFinish) {
		invalid.Add("client_finish", "false")
	}
	checkKey(invalid, params, "timescale", 1)
	checkKey(invalid, params, "g_speed", 320)
	checkKey(invalid, params, "g_gravity", 800)
	checkKey(invalid, params, "handicap", 100)
	checkKey(invalid, params, "g_knockback", 1000)
	if hasTime && gameInfo != nil && gameInfo.IsOnline && !gameInfo.IsFreeStyle {
		checkKey(invalid, params, "df_mp_interferenceoff", 3)
	}
	if isTas {
		invalid.Add("tool_assisted", "true")
	}
	checkKey(invalid, params, "sv_fps", 125)
	checkKey(invalid, params, "com_maxfps", 125)
	gSync := getConfigFloat(params, "g_synchronousclients")
	if gSync != 1 {
		checkKey(invalid, params, "pmove_msec", 8)
		checkKey(invalid, params, "pmove_fixed", 1)
	}
	// "g_killWallbug" is looked up with its original mixed-case spelling
	// against an all-lowercase params map, so this check can never match -
	// preserved as-is rather than "fixed", since no observed demo has ever
	// depended on it firing.
	checkKey(invalid, params, "g_killWallbug", 1)
	return invalid
}

func checkKey(invalid *repcmd.ListMap, params map[string]string, key string, expected int) {
	v, ok := params[key]
	if !ok || v == "" {
		return
	}
	value := getConfigFloat(params, key)
	if value < 0 {
		invalid.Add(key, v)
	} else if value != float64(expected) {
		invalid.Add(key, pyFloatStr(value))
	}
}

func getConfigFloat(params map[string]string, key string) float64 {
	v, ok := params[key]
	if !ok || v == "" {
		return -1
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return -1
	}
	return f
}

// pyFloatStr mirrors Python's str(float) rendering closely enough for
// cvar values: always show a decimal point.
func pyFloatStr(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

var validitiesRe = regexp.MustCompile(`^[^\[]+\[[^.\]]+.[^\]]+]\d{2,3}\.\d{2}\.\d{3}\(.+\)\{(\w+)=(\w+)\}(?:\[\d+\])?\.\w+$`)

func getValidities(filename string) (key, value string, ok bool) {
	m := validitiesRe.FindStringSubmatch(filename)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

var userIDRe1 = regexp.MustCompile(`^.+\[(\d+)\]\[(\d+)\]$`)
var userIDRe2 = regexp.MustCompile(`^.+\[.+\].+\(.+\)(?:\{.+\})*\[(\d+)\]$`)

func tryGetUserIDFromFileName(file string) int {
	ext := filepath.Ext(file)
	nameNoExt := strings.TrimSuffix(filepath.Base(file), ext)
	if m := userIDRe1.FindStringSubmatch(nameNoExt); m != nil {
		n, _ := strconv.Atoi(m[2])
		return n
	}
	if m := userIDRe2.FindStringSubmatch(nameNoExt); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return -1
}

func getNormalizedFileName(file string) string {
	filename := filepath.Base(file)
	ext := filepath.Ext(filename)
	nameNoExt := strings.TrimSuffix(filename, ext)
	if strings.Contains(nameNoExt, "^") {
		nameNoExt = repcmd.RemoveColors(nameNoExt)
	}
	return nameNoExt + strings.ToLower(ext)
}

var edgeTrimRe = regexp.MustCompile(`^[^a-zA-Z0-9()\[\]]+|[^a-zA-Z0-9()\[\]]+$`)

func trimNonFilenameEdges(s string) string {
	return edgeTrimRe.ReplaceAllString(s, "")
}
