package touch

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/inky2048/internal/gesture"
	"github.com/banshee-data/inky2048/internal/serialmux"
	"github.com/banshee-data/inky2048/internal/timeutil"
)

func collect(ch <-chan gesture.Sample) []gesture.Sample {
	var out []gesture.Sample
	for s := range ch {
		out = append(out, s)
	}
	return out
}

func TestDecode_Stream(t *testing.T) {
	var buf []byte
	for _, f := range [][]Event{
		frame(0, abs(ABS_MT_TRACKING_ID, 1), abs(ABS_MT_POSITION_X, 100), abs(ABS_MT_POSITION_Y, 100)),
		frame(20, abs(ABS_MT_POSITION_X, 400)),
		frame(40, abs(ABS_MT_TRACKING_ID, -1)),
	} {
		for _, e := range f {
			buf = AppendEvent(buf, e, true)
		}
	}

	out := make(chan gesture.Sample, 8)
	err := decode(context.Background(), bytes.NewReader(buf), Options{Compact: true}, out)
	require.NoError(t, err)
	close(out)

	assert.Equal(t, []gesture.Sample{
		smp(1, gesture.PhaseDown, 100, 100, 0),
		smp(1, gesture.PhaseMoving, 400, 100, 20),
		smp(1, gesture.PhaseUp, 400, 100, 40),
	}, collect(out))
}

func TestDecode_TruncatedStream(t *testing.T) {
	buf := AppendEvent(nil, Event{Type: EV_ABS, Code: ABS_MT_SLOT}, false)
	err := decode(context.Background(), bytes.NewReader(buf[:20]), Options{}, make(chan gesture.Sample, 1))
	assert.ErrorContains(t, err, "read touch event")
}

func TestEvdevSource_MissingDevice(t *testing.T) {
	src := &EvdevSource{Path: t.TempDir() + "/event99"}
	err := src.Run(context.Background(), make(chan gesture.Sample))
	assert.ErrorContains(t, err, "open touch device")
}

const fixture = `# swipe right then a tap
down 1 100 100 0
move 1 200 100 20
garbage line
up 1 300 100 40
down 2 50 50 100
up 2 52 51 130
`

func TestReplaySource(t *testing.T) {
	clock := timeutil.NewMockClock(frameEpoch)
	src := &ReplaySource{Reader: strings.NewReader(fixture), Clock: clock}

	out := make(chan gesture.Sample, 16)
	require.NoError(t, src.Run(context.Background(), out))
	close(out)

	got := collect(out)
	require.Len(t, got, 5)
	assert.Equal(t, smp(1, gesture.PhaseDown, 100, 100, 0), got[0])
	assert.Equal(t, smp(2, gesture.PhaseUp, 52, 51, 130), got[4])
	assert.Empty(t, clock.Waits())
}

func TestReplaySource_Paced(t *testing.T) {
	clock := timeutil.NewMockClock(frameEpoch)
	src := &ReplaySource{Reader: strings.NewReader("down 1 0 0 0\nmove 1 50 0 20\nup 1 90 0 50\n"), Clock: clock, Pace: true}

	out := make(chan gesture.Sample, 4)
	done := make(chan error, 1)
	go func() { done <- src.Run(context.Background(), out) }()

	require.Eventually(t, func() bool { return len(clock.Waits()) == 1 }, time.Second, time.Millisecond)
	clock.Advance(20 * time.Millisecond)
	require.Eventually(t, func() bool { return len(clock.Waits()) == 2 }, time.Second, time.Millisecond)
	clock.Advance(30 * time.Millisecond)

	require.NoError(t, <-done)
	close(out)
	assert.Len(t, collect(out), 3)
	assert.Equal(t, []time.Duration{20 * time.Millisecond, 30 * time.Millisecond}, clock.Waits())
}

func TestReplaySource_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &ReplaySource{Reader: strings.NewReader("down 1 0 0\n")}

	err := src.Run(ctx, make(chan gesture.Sample))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReplaySource_MissingFile(t *testing.T) {
	src := &ReplaySource{Path: t.TempDir() + "/none.txt"}
	assert.ErrorContains(t, src.Run(context.Background(), make(chan gesture.Sample)), "open fixture")
}

func TestSerialSource(t *testing.T) {
	port := serialmux.NewTestableSerialPort()
	mux := serialmux.NewSerialMux(port)
	clock := timeutil.NewMockClock(frameEpoch)
	src := &SerialSource{Mux: mux, Clock: clock}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := make(chan gesture.Sample, 8)
	srcDone := make(chan error, 1)
	go func() { srcDone <- src.Run(ctx, out) }()

	require.Eventually(t, func() bool { return mux.Stats().Subscribers == 1 }, time.Second, time.Millisecond)
	port.AddReadData([]byte("down 4 10 10 0\nnot a sample\n\nup 4 10 90 30\n"))
	port.EndOfInput()
	require.NoError(t, mux.Monitor(ctx))

	assert.Equal(t, smp(4, gesture.PhaseDown, 10, 10, 0), <-out)
	assert.Equal(t, smp(4, gesture.PhaseUp, 10, 90, 30), <-out)

	require.NoError(t, mux.Close())
	assert.NoError(t, <-srcDone)
}
