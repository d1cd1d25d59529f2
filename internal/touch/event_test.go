package touch

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEvent_Layouts(t *testing.T) {
	want := Event{
		Time:  time.Unix(1700000000, 250_000_000).UTC(),
		Type:  EV_ABS,
		Code:  ABS_MT_POSITION_X,
		Value: 812,
	}
	for _, compact := range []bool{false, true} {
		buf := AppendEvent(nil, want, compact)
		if compact {
			assert.Len(t, buf, compactEventSize)
		} else {
			assert.Len(t, buf, eventSize)
		}

		got, err := ReadEvent(bytes.NewReader(buf), compact)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestReadEvent_NegativeValue(t *testing.T) {
	buf := AppendEvent(nil, Event{Time: time.Unix(1, 0), Type: EV_ABS, Code: ABS_MT_TRACKING_ID, Value: -1}, false)
	got, err := ReadEvent(bytes.NewReader(buf), false)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), got.Value)
}

func TestReadEvent_Truncated(t *testing.T) {
	buf := AppendEvent(nil, Event{Type: EV_SYN}, false)

	_, err := ReadEvent(bytes.NewReader(buf[:10]), false)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = ReadEvent(bytes.NewReader(nil), false)
	assert.ErrorIs(t, err, io.EOF)
}
