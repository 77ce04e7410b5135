package rep

import (
	"testing"
	"time"
)

func TestFillDemoNewNameHasTimePath(t *testing.T) {
	d := &Demo{
		MapName:    "q3dm17",
		ModPhysic:  "df.vq3",
		Time:       1*time.Minute + 23*time.Second + 456*time.Millisecond,
		PlayerName: "Player1",
		Country:    "US",
		File:       "somefile.dm_68",
		UserID:     -1, // NewDemo()'s default: no assigned user id
	}
	d.FillDemoNewName()

	want := "q3dm17[df.vq3]01.23.456(Player1.US).dm_68"
	if got := d.DemoNewName(); got != want {
		t.Errorf("DemoNewName() = %q, want %q", got, want)
	}
	if !d.HasCorrectName {
		t.Error("HasCorrectName should be true on the has-time path")
	}
}

func TestFillDemoNewNameAppendsUserIDSuffix(t *testing.T) {
	d := &Demo{
		MapName:    "q3dm17",
		ModPhysic:  "df.vq3",
		Time:       30 * time.Second,
		PlayerName: "Player1",
		Country:    "US",
		File:       "somefile.dm_68",
		UserID:     7,
	}
	d.FillDemoNewName()
	want := "q3dm17[df.vq3]00.30.000(Player1.US)[7].dm_68"
	if got := d.DemoNewName(); got != want {
		t.Errorf("DemoNewName() = %q, want %q", got, want)
	}
}

func TestFillDemoNewNameNoTimeFallsBackToFileName(t *testing.T) {
	d := &Demo{
		MapName:    "q3dm17",
		ModPhysic:  "df.vq3",
		PlayerName: "Player1",
		Country:    "US",
		File:       "q3dm17[df.vq3](Player1.US)_extra.dm_68",
	}
	d.FillDemoNewName()
	if d.HasCorrectName {
		t.Error("HasCorrectName should be false on the no-time fallback path")
	}
	if d.DemoNewName() == "" {
		t.Error("DemoNewName() should not be empty on the fallback path")
	}
}

func TestRemoveSubstrFromStartAbsorbsTrailingDelimiter(t *testing.T) {
	// The adjoining separator is absorbed into the cut and kept as-is
	// (only a bracket/paren/brace is replaced, with '_', to keep the
	// remaining delimiters balanced).
	got := removeSubstr("q3dm17_extra", "q3dm17", true)
	if got != "_extra" {
		t.Errorf("removeSubstr() = %q, want %q", got, "_extra")
	}
}

func TestRemoveSubstrBracketBecomesUnderscore(t *testing.T) {
	got := removeSubstr("[df.vq3]rest", "df.vq3", true)
	if got != "_rest" {
		t.Errorf("removeSubstr() = %q, want %q", got, "_rest")
	}
}

func TestRemoveSubstrNotFoundIsNoop(t *testing.T) {
	got := removeSubstr("abc", "xyz", true)
	if got != "abc" {
		t.Errorf("removeSubstr() = %q, want unchanged %q", got, "abc")
	}
}

func TestRemoveDoubleCollapsesRuns(t *testing.T) {
	got := removeDouble("a___b--c")
	if got != "a_b-c" {
		t.Errorf("removeDouble() = %q, want %q", got, "a_b-c")
	}
}

func TestGetNameAndCountry(t *testing.T) {
	if got := getNameAndCountry("q3dm17[df](Player1.US).dm_68"); got != "Player1.US" {
		t.Errorf("getNameAndCountry() = %q, want %q", got, "Player1.US")
	}
	if got := getNameAndCountry("nomatch"); got != "" {
		t.Errorf("getNameAndCountry() = %q, want empty", got)
	}
}

func TestTryGetNameAndCountrySplitsOnTrailingNonDigitToken(t *testing.T) {
	name, country := tryGetNameAndCountry("Player1.US", &DemoNames{})
	if name != "Player1" || country != "US" {
		t.Errorf("tryGetNameAndCountry() = %q, %q", name, country)
	}
}

func TestTryGetNameAndCountryRejectsDigitSuffix(t *testing.T) {
	name, country := tryGetNameAndCountry("Player1.42", &DemoNames{})
	if name != "Player1.42" || country != "" {
		t.Errorf("tryGetNameAndCountry() = %q, %q, want unsplit", name, country)
	}
}

func TestTryGetTimeFromFileName(t *testing.T) {
	d, ok := tryGetTimeFromFileName("q3dm17[df.vq3]01.23.456(Player1.US).dm_68")
	if !ok || d != 1*time.Minute+23*time.Second+456*time.Millisecond {
		t.Errorf("tryGetTimeFromFileName() = %v, %v", d, ok)
	}
}

func TestTryGetTimeFromFileNameNoMatch(t *testing.T) {
	if _, ok := tryGetTimeFromFileName("nothingbracketed"); ok {
		t.Error("tryGetTimeFromFileName() matched a file name with no time token")
	}
}
