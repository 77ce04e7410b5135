package rep

import "testing"

func TestNewConsoleCommandsParserClassifiesByKind(t *testing.T) {
	commands := map[int32]string{
		1: `print "Date: 01-15-24 13:45` + "\n" + `"`,
		2: `print "^7Player1^7 reached the finish line in 01:23:456` + "\n" + `"`,
		3: "TimerStarted",
		4: "TimerStopped",
	}
	p := NewConsoleCommandsParser(commands)

	if len(p.DateStrings) != 1 || !p.DateStrings[0].HasDate {
		t.Fatalf("DateStrings = %+v, want one parsed date", p.DateStrings)
	}
	if len(p.TimeStrings) != 1 || p.TimeStrings[0].OName != "Player1" {
		t.Fatalf("TimeStrings = %+v, want one entry for Player1", p.TimeStrings)
	}
	if len(p.AdditionalInfos) != 1 {
		t.Fatalf("AdditionalInfos = %+v, want one entry", p.AdditionalInfos)
	}
}

func TestNewConsoleCommandsParserOrdersBySequenceKey(t *testing.T) {
	// Out of map iteration order on purpose: the parser must sort by key,
	// so the TimerStopped (key 10) follows both TimerStarted lines and is
	// flagged as a rerun.
	commands := map[int32]string{
		10: "TimerStopped",
		3:  "TimerStarted",
		7:  "TimerStarted",
	}
	p := NewConsoleCommandsParser(commands)
	if len(p.AdditionalInfos) != 1 || !p.AdditionalInfos[0].IsTR {
		t.Fatalf("AdditionalInfos = %+v, want one rerun-flagged entry", p.AdditionalInfos)
	}
}

func TestGetFastestTimeStringInfoPrefersQ3DFLoginOnTie(t *testing.T) {
	p := &ConsoleCommandsParser{
		TimeStrings: []TimeStringInfo{
			{OName: "Player1", Time: 1000 * 1_000_000},
			{OName: "Player1", LName: "q3dfLogin", Time: 1000 * 1_000_000},
		},
	}
	names := &DemoNames{UName: "Player1"}
	got, ok := p.GetFastestTimeStringInfo(names)
	if !ok || got.LName != "q3dfLogin" {
		t.Errorf("GetFastestTimeStringInfo() = %+v, %v, want the q3df-login entry on tie", got, ok)
	}
}

func TestGetFastestTimeStringInfoSingleEntryShortcut(t *testing.T) {
	p := &ConsoleCommandsParser{TimeStrings: []TimeStringInfo{{OName: "Solo", Time: 5000 * 1_000_000}}}
	got, ok := p.GetFastestTimeStringInfo(&DemoNames{})
	if !ok || got.OName != "Solo" {
		t.Errorf("GetFastestTimeStringInfo() single entry = %+v, %v", got, ok)
	}
}

func TestGetFastestTimeStringInfoEmpty(t *testing.T) {
	p := &ConsoleCommandsParser{}
	if _, ok := p.GetFastestTimeStringInfo(&DemoNames{}); ok {
		t.Error("GetFastestTimeStringInfo() on empty parser reported ok")
	}
}

func TestGetGoodTimeStringInfoByExactTime(t *testing.T) {
	p := &ConsoleCommandsParser{
		TimeStrings: []TimeStringInfo{
			{OName: "Player1", Time: 1234 * 1_000_000},
			{OName: "Player1", Time: 5678 * 1_000_000},
		},
	}
	got, ok := p.GetGoodTimeStringInfo(&DemoNames{UName: "Player1"}, 5678)
	if !ok || got.Time.Milliseconds() != 5678 {
		t.Errorf("GetGoodTimeStringInfo(5678) = %+v, %v", got, ok)
	}
}

func TestGetGoodTimeStringInfoFallsBackToFastestForUser(t *testing.T) {
	p := &ConsoleCommandsParser{
		TimeStrings: []TimeStringInfo{
			{OName: "Player1", Time: 2000 * 1_000_000},
			{OName: "Other", Time: 1000 * 1_000_000},
		},
	}
	got, ok := p.GetGoodTimeStringInfo(&DemoNames{UName: "Player1"}, 0)
	if !ok || got.OName != "Player1" {
		t.Errorf("GetGoodTimeStringInfo(0) = %+v, %v, want Player1's entry", got, ok)
	}
}
