// Package game drives a 2048 board from recognised swipes.
package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/banshee-data/inky2048/internal/board"
	"github.com/banshee-data/inky2048/internal/config"
	"github.com/banshee-data/inky2048/internal/db"
	"github.com/banshee-data/inky2048/internal/gesture"
	"github.com/banshee-data/inky2048/internal/monitoring"
	"github.com/banshee-data/inky2048/internal/timeutil"
)

// Commands maps each swipe direction to the slide it triggers.
var Commands = map[gesture.Direction]board.Command{
	gesture.Up:    board.SlideUp,
	gesture.Right: board.SlideRight,
	gesture.Down:  board.SlideDown,
	gesture.Left:  board.SlideLeft,
}

// Recorder persists swipes and moves. *db.DB implements it.
type Recorder interface {
	RecordSwipe(sessionID string, s gesture.Swipe) error
	RecordMove(m db.MoveRecord) error
}

// View shows the board. *render.Screen implements it.
type View interface {
	Init(g board.Grid) error
	Update(g board.Grid, changed []board.Pos) error
}

// Config holds the game parameters.
type Config struct {
	Tracker gesture.Config
	// MoveTrigger selects which swipes slide the board: Completed waits for
	// the finger to lift, InProgress moves as soon as the direction is known.
	MoveTrigger gesture.Trigger
	// Seed for tile spawning; zero draws one from crypto/rand.
	Seed int64
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	trigger := gesture.Completed
	if cfg.GetMoveTrigger() == config.MoveOnInProgress {
		trigger = gesture.InProgress
	}
	return Config{
		Tracker:     gesture.ConfigFromTuning(cfg),
		MoveTrigger: trigger,
	}
}

// Option customises a Game.
type Option func(*Game)

// WithRecorder stores every swipe and move in r.
func WithRecorder(r Recorder) Option { return func(g *Game) { g.recorder = r } }

// WithView redraws v after every move.
func WithView(v View) Option { return func(g *Game) { g.view = v } }

// WithClock sets the clock used by the tracker and for move timestamps.
func WithClock(c timeutil.Clock) Option { return func(g *Game) { g.clock = c } }

// WithSessionID fixes the id of the first session.
func WithSessionID(id string) Option { return func(g *Game) { g.session = id } }

// Game is one player's sequence of boards. It is driven from a single
// goroutine.
type Game struct {
	cfg      Config
	clock    timeutil.Clock
	recorder Recorder
	view     View

	tracker *gesture.Tracker
	specs   *gesture.SpecSet

	session string
	board   *board.Board
	seq     int
}

// New creates a game with a fresh board. Nothing is drawn until Start.
func New(cfg Config, opts ...Option) (*Game, error) {
	specs, err := gesture.NewSpecSet(append(
		gesture.AllDirections(gesture.InProgress),
		gesture.AllDirections(gesture.Completed)...,
	)...)
	if err != nil {
		return nil, err
	}
	if cfg.MoveTrigger != gesture.InProgress && cfg.MoveTrigger != gesture.Completed {
		return nil, fmt.Errorf("%w: move trigger %s", gesture.ErrUnsupportedTrigger, cfg.MoveTrigger)
	}

	g := &Game{cfg: cfg, clock: timeutil.RealClock{}, specs: specs}
	for _, opt := range opts {
		opt(g)
	}
	g.tracker = gesture.NewTracker(cfg.Tracker, gesture.WithClock(g.clock))

	seed := cfg.Seed
	if seed == 0 {
		if seed, err = board.NewSeed(); err != nil {
			return nil, err
		}
	}
	if g.session == "" {
		g.session = uuid.NewString()
	}
	g.board = board.New(seed)
	return g, nil
}

// Start draws the initial board.
func (g *Game) Start() error {
	monitoring.Logf("game: session %s started", g.session)
	if g.view == nil {
		return nil
	}
	return g.view.Init(g.board.Grid())
}

// SessionID identifies the current board in the recorder.
func (g *Game) SessionID() string { return g.session }

// Board returns the current board.
func (g *Game) Board() *board.Board { return g.board }

// Tracker exposes the swipe tracker, mainly for its counters.
func (g *Game) Tracker() *gesture.Tracker { return g.tracker }

// HandleSample feeds one touch sample through the tracker and applies any
// resulting swipe.
func (g *Game) HandleSample(s gesture.Sample) error {
	for _, sw := range g.tracker.Detect(s, g.specs) {
		if err := g.HandleSwipe(sw); err != nil {
			return err
		}
	}
	return nil
}

// HandleSwipe records sw and, when its trigger is the move trigger,
// slides the board. A swipe on a finished board starts a new game.
// Recorder failures are logged; view failures are returned.
func (g *Game) HandleSwipe(sw gesture.Swipe) error {
	monitoring.Debugf("game: %s", sw)
	if g.recorder != nil {
		if err := g.recorder.RecordSwipe(g.session, sw); err != nil {
			monitoring.Logf("game: %v", err)
		}
	}
	if sw.Trigger != g.cfg.MoveTrigger {
		return nil
	}
	cmd, ok := Commands[sw.Direction]
	if !ok {
		return fmt.Errorf("%w: %s", gesture.ErrUnknownDirection, sw.Direction)
	}
	if g.board.Over() {
		return g.restart()
	}

	res, err := g.board.Move(cmd)
	if err != nil {
		return err
	}
	g.seq++
	if g.recorder != nil {
		at := sw.Time
		if at.IsZero() {
			at = g.clock.Now()
		}
		err := g.recorder.RecordMove(db.MoveRecord{
			SessionID:  g.session,
			Seq:        g.seq,
			Direction:  cmd.String(),
			Moved:      res.Moved,
			Gained:     res.Gained,
			Score:      g.board.Score(),
			MaxTile:    g.board.MaxTile(),
			RecordedAt: at,
		})
		if err != nil {
			monitoring.Logf("game: %v", err)
		}
	}
	if !res.Moved {
		return nil
	}
	if g.view != nil {
		if err := g.view.Update(g.board.Grid(), res.Changed); err != nil {
			return fmt.Errorf("update view: %w", err)
		}
	}
	if g.board.Over() {
		monitoring.Logf("game: session %s over, score %d, max tile %d", g.session, g.board.Score(), g.board.MaxTile())
	}
	return nil
}

func (g *Game) restart() error {
	seed, err := board.NewSeed()
	if err != nil {
		return err
	}
	g.board = board.New(seed)
	g.session = uuid.NewString()
	g.seq = 0
	return g.Start()
}

// Run consumes samples until ctx is done or in is closed.
func (g *Game) Run(ctx context.Context, in <-chan gesture.Sample) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-in:
			if !ok {
				return nil
			}
			if err := g.HandleSample(s); err != nil {
				return err
			}
		}
	}
}
