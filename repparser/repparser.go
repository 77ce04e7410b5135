/*

Package repparser implements Quake III Arena (and Defrag-mod) demo file
parsing: it reads the length-prefixed, Huffman-coded message stream of a
.dm_66/.dm_67/.dm_68 demo, reconstructs client snapshots and the run
timer's client-event state machine, and classifies the result into a
rep.RawInfo ready for naming.

The package is safe for concurrent use; each Parse/ParseFile call builds
its own configParser.

*/
package repparser

import (
	"errors"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/icza/q3demo/rep"
)

const (
	// Version is a Semver2 compatible version of the parser.
	Version = "v1.0.0"
)

var (
	// ErrNotDemoFile indicates the given file (or reader) is not a valid
	// demo file.
	ErrNotDemoFile = errors.New("not a demo file")

	// ErrParsing indicates that an unexpected error occurred, which may be
	// due to a corrupt/invalid demo file, or some implementation error.
	ErrParsing = errors.New("parsing")
)

// Config holds parser configuration. It is currently empty but kept as a
// struct (rather than dropped) so future options don't break callers.
type Config struct {
	_ struct{} // To prevent unkeyed literals
}

// ParseFile parses a demo file at the given path.
func ParseFile(name string) (*rep.RawInfo, error) {
	return ParseFileConfig(name, Config{})
}

// ParseFileConfig parses a demo file at the given path using the given
// parser configuration.
func ParseFileConfig(name string, cfg Config) (*rep.RawInfo, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, newCantOpenFileError(err)
	}
	defer f.Close()

	return parseProtected(name, f, cfg)
}

// Parse parses a demo stream read from r. name is recorded on the
// resulting RawInfo (and used for DemoPath-derived naming fallbacks) but
// is not itself opened or read.
func Parse(name string, r io.Reader) (*rep.RawInfo, error) {
	return ParseConfig(name, r, Config{})
}

// ParseConfig parses a demo stream read from r using the given parser
// configuration.
func ParseConfig(name string, r io.Reader, cfg Config) (*rep.RawInfo, error) {
	return parseProtected(name, r, cfg)
}

// parseProtected calls parse(), but protects the function call from
// panics (the input is untrusted data), in which case it returns
// ErrParsing.
func parseProtected(name string, r io.Reader, cfg Config) (raw *rep.RawInfo, err error) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("Parsing error: %v", p)
			buf := make([]byte, 2000)
			n := runtime.Stack(buf, false)
			log.Printf("Stack: %s", buf[:n])
			raw = nil
			err = ErrParsing
		}
	}()

	return parse(name, r, cfg)
}

// parse steps through the demo's message stream until its end (the
// end-of-stream header or a short read) or an error, then hands the accumulated
// client state off to the rep package for classification.
func parse(name string, r io.Reader, cfg Config) (*rep.RawInfo, error) {
	p := newConfigParser()
	stream := newMessageStream(r)

	for {
		message, err := stream.nextMessage()
		if err != nil {
			return nil, err
		}
		if message == nil {
			break
		}
		if !p.parse(message) {
			break
		}
	}

	return buildRawInfo(name, p, cfg), nil
}

// buildRawInfo bridges configParser's unexported clientConnection/
// clientState into the exported shapes rep.NewRawInfo expects, since rep
// cannot import repparser (one-way package dependency).
func buildRawInfo(name string, p *configParser, cfg Config) *rep.RawInfo {
	console := make(map[int32]rep.ConsoleRecord, len(p.clc.Console))
	for k, v := range p.clc.Console {
		console[k] = rep.ConsoleRecord{ServerTime: v.ServerTime, Value: v.Value}
	}

	return rep.NewRawInfo(
		name,
		p.clc.Configs,
		console,
		p.clc.ClientNum,
		p.clc.Errors,
		p.client.ClientEvents,
		p.client.LastClientEvent,
		p.client.MaxSpeed,
		p.client.IsCpmInSnapshots,
	)
}
