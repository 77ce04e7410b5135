// This file wraps the parser and naming engine into the two entry points
// the CLI and batch orchestrator actually call, grounded on renamer.py's
// suggest_name/parse_demo_metadata.

package renamer

import (
	"path/filepath"
	"time"

	"github.com/icza/q3demo/rep"
	"github.com/icza/q3demo/repparser"
)

// SuggestName parses demoPath and returns the canonical file name the
// naming engine assigns it, or ("", false) if parsing or classification
// failed.
func SuggestName(demoPath string) (string, bool) {
	demo, ok := parseDemo(demoPath)
	if !ok {
		return "", false
	}
	return filepath.Base(demo.DemoNewName()), true
}

// Metadata summarizes a parsed Demo for callers that only need a handful
// of display fields alongside the suggested filename, grounded on
// renamer.py's parse_demo_metadata.
type Metadata struct {
	SuggestedFilename string
	RecordTime        time.Time
	HasRecordTime     bool
	MapName           string
	PlayerName        string
	Physics           string
	TimeSeconds       float64
}

// ParseDemoMetadata parses demoPath and summarizes the resulting Demo, or
// returns (Metadata{}, false) if parsing or classification failed.
func ParseDemoMetadata(demoPath string) (Metadata, bool) {
	demo, ok := parseDemo(demoPath)
	if !ok {
		return Metadata{}, false
	}
	return Metadata{
		SuggestedFilename: filepath.Base(demo.DemoNewName()),
		RecordTime:        demo.RecordTime,
		HasRecordTime:     demo.HasRecordTime,
		MapName:           demo.MapName,
		PlayerName:        demo.PlayerName,
		Physics:           demo.ModPhysic,
		TimeSeconds:       demo.Time.Seconds(),
	}, true
}

func parseDemo(demoPath string) (*rep.Demo, bool) {
	raw, err := repparser.ParseFile(demoPath)
	if err != nil {
		return nil, false
	}
	demo := rep.GetDemoFromRawInfo(raw)
	if demo.HasError {
		return nil, false
	}
	return demo, true
}
