package touch

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

// Linux input event types and codes used by the multitouch decoder.
const (
	EV_SYN = 0x00
	EV_KEY = 0x01
	EV_ABS = 0x03

	SYN_REPORT  = 0x00
	SYN_DROPPED = 0x03

	ABS_MT_SLOT        = 0x2f
	ABS_MT_POSITION_X  = 0x35
	ABS_MT_POSITION_Y  = 0x36
	ABS_MT_TOOL_TYPE   = 0x37
	ABS_MT_TRACKING_ID = 0x39

	MT_TOOL_FINGER = 0x00
	MT_TOOL_PALM   = 0x02
)

// Sizes of struct input_event with a 64-bit and a 32-bit timeval.
const (
	eventSize        = 24
	compactEventSize = 16
)

// Event is one decoded struct input_event.
type Event struct {
	Time  time.Time
	Type  uint16
	Code  uint16
	Value int32
}

func (e Event) String() string {
	return fmt.Sprintf("type=%#x code=%#x value=%d", e.Type, e.Code, e.Value)
}

// ReadEvent reads a single input_event from r. compact selects the 16-byte
// layout used by 32-bit kernels.
func ReadEvent(r io.Reader, compact bool) (Event, error) {
	var buf [eventSize]byte
	b := buf[:eventSize]
	if compact {
		b = buf[:compactEventSize]
	}
	if _, err := io.ReadFull(r, b); err != nil {
		return Event{}, err
	}
	return parseEvent(b), nil
}

func parseEvent(b []byte) Event {
	var sec, usec int64
	var rest []byte
	if len(b) == eventSize {
		sec = int64(binary.LittleEndian.Uint64(b[0:8]))
		usec = int64(binary.LittleEndian.Uint64(b[8:16]))
		rest = b[16:]
	} else {
		sec = int64(int32(binary.LittleEndian.Uint32(b[0:4])))
		usec = int64(int32(binary.LittleEndian.Uint32(b[4:8])))
		rest = b[8:]
	}
	return Event{
		Time:  time.Unix(sec, usec*int64(time.Microsecond)).UTC(),
		Type:  binary.LittleEndian.Uint16(rest[0:2]),
		Code:  binary.LittleEndian.Uint16(rest[2:4]),
		Value: int32(binary.LittleEndian.Uint32(rest[4:8])),
	}
}

// AppendEvent encodes e in the layout selected by compact and appends it
// to b.
func AppendEvent(b []byte, e Event, compact bool) []byte {
	sec := e.Time.Unix()
	usec := int64(e.Time.Nanosecond()) / int64(time.Microsecond)
	if compact {
		b = binary.LittleEndian.AppendUint32(b, uint32(int32(sec)))
		b = binary.LittleEndian.AppendUint32(b, uint32(int32(usec)))
	} else {
		b = binary.LittleEndian.AppendUint64(b, uint64(sec))
		b = binary.LittleEndian.AppendUint64(b, uint64(usec))
	}
	b = binary.LittleEndian.AppendUint16(b, e.Type)
	b = binary.LittleEndian.AppendUint16(b, e.Code)
	return binary.LittleEndian.AppendUint32(b, uint32(e.Value))
}
