package repcmd

import "testing"

func TestRemoveColors(t *testing.T) {
	cases := []struct{ in, want string }{
		{"^1Red^7Name", "RedName"},
		{"NoColors", "NoColors"},
		{"^", "^"}, // a trailing caret with nothing after it isn't a full code
	}
	for _, c := range cases {
		if got := RemoveColors(c.in); got != c.want {
			t.Errorf("RemoveColors(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	if got := NormalizeName("Foo Bar#1!"); got != "FooBar#1!" {
		t.Errorf("NormalizeName() = %q", got)
	}
}

func TestGetTimeSpan(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantOk  bool
	}{
		{"01:02:003", 62003, true},
		{"02:003", 2003, true},
		{"1:2:3:4", 0, false},
		{"", 0, false},
		{"ab:cd", 0, false},
	}
	for _, c := range cases {
		got, ok := GetTimeSpan(c.in)
		if ok != c.wantOk || (ok && got != c.want) {
			t.Errorf("GetTimeSpan(%q) = %d, %v, want %d, %v", c.in, got, ok, c.want, c.wantOk)
		}
	}
}

func TestGetNameOnlineAndTimeOnline(t *testing.T) {
	line := `print "^7Player1^7 reached the finish line in 01:23:456\n"`
	if name := GetNameOnline(line); name != "Player1" {
		t.Errorf("GetNameOnline() = %q, want %q", name, "Player1")
	}
	ms, ok := GetTimeOnline(line)
	if !ok || ms != 83456 {
		t.Errorf("GetTimeOnline() = %d, %v, want 83456, true", ms, ok)
	}
}

func TestGetDateForDemo(t *testing.T) {
	line := "print \"Date: 01-15-24 13:45\n\""
	tm, ok := GetDateForDemo(line)
	if !ok {
		t.Fatal("GetDateForDemo() reported not ok")
	}
	if tm.Year() != 2024 || tm.Month() != 1 || tm.Day() != 15 || tm.Hour() != 13 || tm.Minute() != 45 {
		t.Errorf("GetDateForDemo() = %v", tm)
	}
}

func TestGetDateForDemoTooShort(t *testing.T) {
	if _, ok := GetDateForDemo("short"); ok {
		t.Error("GetDateForDemo on too-short line reported ok")
	}
}

func TestSplitConfigSkipsEmptyValues(t *testing.T) {
	lm := SplitConfig(`\mapname\q3dm17\empty\\fs_game\defrag`)
	got := lm.ToMap()
	if got["mapname"] != "q3dm17" || got["fs_game"] != "defrag" {
		t.Errorf("SplitConfig() = %+v", got)
	}
	if _, ok := got["empty"]; ok {
		t.Error("SplitConfig() kept a pair with an empty value")
	}
}

func TestContainsAnySplitted(t *testing.T) {
	if !ContainsAnySplitted("Player[TAS]Bot", "tas") {
		t.Error("ContainsAnySplitted should match tas token split out by brackets")
	}
	if ContainsAnySplitted("PlayerNormal", "tas", "bot") {
		t.Error("ContainsAnySplitted matched a name with no trigger token")
	}
}

func TestGetNameQ3DFBrokeRecord(t *testing.T) {
	line := `chat "Player1 (q3dfLogin) broke the server record with 01:23:456"`
	res, ok := GetNameQ3DF(line)
	if !ok {
		t.Fatal("GetNameQ3DF() reported not ok")
	}
	if res.Name != "Player1" || res.Q3DFName != "q3dfLogin" || !res.HasLogin || res.Time != "83456" {
		t.Errorf("GetNameQ3DF() = %+v", res)
	}
}

func TestGetNameQ3DFNoMatch(t *testing.T) {
	if _, ok := GetNameQ3DF("unrelated console text"); ok {
		t.Error("GetNameQ3DF() matched unrelated text")
	}
}
