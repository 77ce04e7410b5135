package repparser

import (
	"encoding/binary"
	"io"
)

// demoMessage is one length-prefixed frame of the demo file: a sequence
// number and the raw Huffman-coded message bytes that follow it.
type demoMessage struct {
	Sequence int32
	Size     int32
	Data     []byte
}

// messageStream reads the length-prefixed frames that make up a .dm_68
// style Quake III demo file (§3), grounded on parser.py's Q3MessageStream.
type messageStream struct {
	r      io.Reader
	offset int
}

func newMessageStream(r io.Reader) *messageStream {
	return &messageStream{r: r}
}

// nextMessage reads the next frame, returning (nil, nil) at a clean end of
// stream (either a short read or the (-1,-1) sentinel header).
func (s *messageStream) nextMessage() (*demoMessage, error) {
	var header [8]byte
	if _, err := io.ReadFull(s.r, header[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, nil
		}
		return nil, err
	}
	s.offset += len(header)
	sequence := int32(binary.LittleEndian.Uint32(header[0:4]))
	msgLength := int32(binary.LittleEndian.Uint32(header[4:8]))
	if sequence == -1 && msgLength == -1 {
		return nil, nil
	}
	if msgLength < 0 || msgLength > q3MessageMaxSize {
		return nil, newWrongLengthError(s.offset)
	}
	data := make([]byte, msgLength)
	if _, err := io.ReadFull(s.r, data); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, nil
		}
		return nil, err
	}
	s.offset += len(data)
	return &demoMessage{Sequence: sequence, Size: msgLength, Data: data}, nil
}
