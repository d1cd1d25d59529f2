package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/inky2048/internal/board"
	"github.com/banshee-data/inky2048/internal/config"
	"github.com/banshee-data/inky2048/internal/db"
	"github.com/banshee-data/inky2048/internal/gesture"
	"github.com/banshee-data/inky2048/internal/testutil"
	"github.com/banshee-data/inky2048/internal/timeutil"
)

type fakeRecorder struct {
	swipes []gesture.Swipe
	moves  []db.MoveRecord
	err    error
}

func (r *fakeRecorder) RecordSwipe(_ string, s gesture.Swipe) error {
	r.swipes = append(r.swipes, s)
	return r.err
}

func (r *fakeRecorder) RecordMove(m db.MoveRecord) error {
	r.moves = append(r.moves, m)
	return r.err
}

type fakeView struct {
	inits   []board.Grid
	updates [][]board.Pos
	err     error
}

func (v *fakeView) Init(g board.Grid) error {
	v.inits = append(v.inits, g)
	return nil
}

func (v *fakeView) Update(_ board.Grid, changed []board.Pos) error {
	v.updates = append(v.updates, changed)
	return v.err
}

const seed = 2048

func newGame(t *testing.T, trigger gesture.Trigger, opts ...Option) (*Game, *fakeRecorder, *fakeView) {
	t.Helper()
	rec, view := &fakeRecorder{}, &fakeView{}
	cfg := Config{Tracker: gesture.DefaultConfig(), MoveTrigger: trigger, Seed: seed}
	opts = append([]Option{
		WithRecorder(rec),
		WithView(view),
		WithClock(timeutil.NewMockClock(testutil.Epoch)),
		WithSessionID("session-1"),
	}, opts...)
	g, err := New(cfg, opts...)
	require.NoError(t, err)
	require.NoError(t, g.Start())
	return g, rec, view
}

func rightStroke(id int32, start time.Time) []gesture.Sample {
	return testutil.Stroke(id, gesture.Point{X: 200, Y: 900}, gesture.Point{X: 600, Y: 900}, 3, start, 20*time.Millisecond)
}

func TestCommands(t *testing.T) {
	assert.Len(t, Commands, 4)
	assert.Equal(t, board.SlideUp, Commands[gesture.Up])
	assert.Equal(t, board.SlideRight, Commands[gesture.Right])
	assert.Equal(t, board.SlideDown, Commands[gesture.Down])
	assert.Equal(t, board.SlideLeft, Commands[gesture.Left])
}

func TestGame_CompletedSwipeMovesBoard(t *testing.T) {
	g, rec, view := newGame(t, gesture.Completed)
	require.Len(t, view.inits, 1)

	ref := board.New(seed)
	want, err := ref.Move(board.SlideRight)
	require.NoError(t, err)

	for _, s := range rightStroke(1, testutil.Epoch) {
		require.NoError(t, g.HandleSample(s))
	}

	// Both the in-progress and completed swipes are recorded.
	require.Len(t, rec.swipes, 2)
	assert.Equal(t, gesture.InProgress, rec.swipes[0].Trigger)
	assert.Equal(t, gesture.Completed, rec.swipes[1].Trigger)

	require.Len(t, rec.moves, 1)
	m := rec.moves[0]
	assert.Equal(t, "session-1", m.SessionID)
	assert.Equal(t, 1, m.Seq)
	assert.Equal(t, "right", m.Direction)
	assert.Equal(t, want.Moved, m.Moved)
	assert.Equal(t, ref.Score(), m.Score)
	assert.Equal(t, rec.swipes[1].Time, m.RecordedAt)

	assert.Equal(t, ref.Grid(), g.Board().Grid())
	if want.Moved {
		assert.Equal(t, [][]board.Pos{want.Changed}, view.updates)
	} else {
		assert.Empty(t, view.updates)
	}
}

func TestGame_InProgressTrigger(t *testing.T) {
	g, rec, _ := newGame(t, gesture.InProgress)

	for _, s := range rightStroke(1, testutil.Epoch) {
		require.NoError(t, g.HandleSample(s))
	}
	require.Len(t, rec.moves, 1, "the completed swipe must not move again")

	ref := board.New(seed)
	_, err := ref.Move(board.SlideRight)
	require.NoError(t, err)
	assert.Equal(t, ref.Grid(), g.Board().Grid())
}

func TestGame_TapDoesNothing(t *testing.T) {
	g, rec, view := newGame(t, gesture.Completed)
	before := g.Board().Grid()

	tap := testutil.Stroke(1, gesture.Point{X: 500, Y: 500}, gesture.Point{X: 503, Y: 498}, 1, testutil.Epoch, 30*time.Millisecond)
	for _, s := range tap {
		require.NoError(t, g.HandleSample(s))
	}

	assert.Empty(t, rec.swipes)
	assert.Empty(t, rec.moves)
	assert.Empty(t, view.updates)
	assert.Equal(t, before, g.Board().Grid())
}

func TestGame_RecorderErrorsAreNotFatal(t *testing.T) {
	g, rec, _ := newGame(t, gesture.Completed)
	rec.err = errors.New("disk full")

	for _, s := range rightStroke(1, testutil.Epoch) {
		assert.NoError(t, g.HandleSample(s))
	}
	assert.Len(t, rec.moves, 1)
}

func TestGame_ViewErrorIsReturned(t *testing.T) {
	g, _, view := newGame(t, gesture.Completed)
	view.err = errors.New("panel busy")
	g.board = board.FromGrid(board.Grid{{2, 0, 0, 0}}, 0, 1)

	err := g.HandleSwipe(gesture.Swipe{ContactID: 1, Direction: gesture.Right, Trigger: gesture.Completed, Time: testutil.Epoch})
	assert.ErrorContains(t, err, "panel busy")
}

func TestGame_RestartsWhenOver(t *testing.T) {
	g, rec, view := newGame(t, gesture.Completed)
	stuck := board.Grid{{2, 4, 2, 4}, {4, 2, 4, 2}, {2, 4, 2, 4}, {4, 2, 4, 2}}
	g.board = board.FromGrid(stuck, 100, 1)
	first := g.SessionID()

	require.NoError(t, g.HandleSwipe(gesture.Swipe{ContactID: 1, Direction: gesture.Left, Trigger: gesture.Completed, Time: testutil.Epoch}))

	assert.NotEqual(t, first, g.SessionID())
	assert.Equal(t, 0, g.Board().Score())
	assert.Equal(t, board.Size*board.Size-2, g.Board().Empty())
	assert.Len(t, view.inits, 2)
	assert.Empty(t, rec.moves)
}

func TestGame_Run(t *testing.T) {
	g, rec, _ := newGame(t, gesture.Completed)

	in := make(chan gesture.Sample, 16)
	for _, s := range rightStroke(1, testutil.Epoch) {
		in <- s
	}
	close(in)
	require.NoError(t, g.Run(context.Background(), in))
	assert.Len(t, rec.moves, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, g.Run(ctx, make(chan gesture.Sample)), context.Canceled)
}

func TestNew_RejectsStartedTrigger(t *testing.T) {
	_, err := New(Config{Tracker: gesture.DefaultConfig(), MoveTrigger: gesture.Started, Seed: 1})
	assert.ErrorIs(t, err, gesture.ErrUnsupportedTrigger)
}

func TestNew_GeneratesSessionAndSeed(t *testing.T) {
	g, err := New(Config{Tracker: gesture.DefaultConfig(), MoveTrigger: gesture.Completed})
	require.NoError(t, err)
	assert.Len(t, g.SessionID(), 36)
	assert.Equal(t, board.Size*board.Size-2, g.Board().Empty())
	assert.NoError(t, g.Start())
}

func TestConfigFromTuning(t *testing.T) {
	cfg := config.DefaultTuningConfig()
	assert.Equal(t, gesture.Completed, ConfigFromTuning(cfg).MoveTrigger)

	trigger := config.MoveOnInProgress
	cfg.MoveTrigger = &trigger
	got := ConfigFromTuning(cfg)
	assert.Equal(t, gesture.InProgress, got.MoveTrigger)
	assert.Equal(t, gesture.DefaultConfig(), got.Tracker)
}
