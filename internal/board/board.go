// Package board implements the 2048 sliding-tile rules on a 4x4 grid.
package board

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Size is the number of rows and columns.
const Size = 4

// ErrInvalidCommand is returned for a Command outside the four slides.
var ErrInvalidCommand = errors.New("invalid board command")

// Command slides every tile towards one edge.
type Command int

const (
	SlideUp Command = iota
	SlideRight
	SlideDown
	SlideLeft
)

var commandNames = [...]string{"up", "right", "down", "left"}

func (c Command) valid() bool { return c >= SlideUp && c <= SlideLeft }

func (c Command) String() string {
	if !c.valid() {
		return fmt.Sprintf("command(%d)", int(c))
	}
	return commandNames[c]
}

// ParseCommand parses "up", "right", "down" or "left".
func ParseCommand(s string) (Command, error) {
	for i, name := range commandNames {
		if strings.EqualFold(s, name) {
			return Command(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCommand, s)
}

// Pos addresses a cell; X is the column and Y the row, both from the top
// left.
type Pos struct{ X, Y int }

// Grid holds tile values indexed [y][x]; zero is an empty cell.
type Grid [Size][Size]int

// At returns the value at p.
func (g *Grid) At(p Pos) int { return g[p.Y][p.X] }

// Diff returns the cells whose value differs between g and other, in row
// order.
func (g *Grid) Diff(other *Grid) []Pos {
	var out []Pos
	for y := range Size {
		for x := range Size {
			if g[y][x] != other[y][x] {
				out = append(out, Pos{x, y})
			}
		}
	}
	return out
}

func (g Grid) String() string {
	var b strings.Builder
	for y := range Size {
		for x := range Size {
			if x > 0 {
				b.WriteByte(' ')
			}
			if g[y][x] == 0 {
				b.WriteByte('.')
				continue
			}
			b.WriteString(strconv.Itoa(g[y][x]))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Result describes the outcome of one Move.
type Result struct {
	Moved   bool
	Gained  int   // points from merges in this move
	Changed []Pos // cells whose value changed, spawn included
	Spawned *Pos  // nil when nothing was spawned
}

// Board is a game in progress. It is not safe for concurrent use.
type Board struct {
	grid  Grid
	score int
	moves int
	rng   *rand.Rand
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

func newRNG(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// New starts a game with two spawned tiles. The same seed always yields
// the same game for the same sequence of moves.
func New(seed int64) *Board {
	b := &Board{rng: newRNG(seed)}
	b.spawn()
	b.spawn()
	return b
}

// FromGrid resumes a game from an existing grid without spawning.
func FromGrid(g Grid, score int, seed int64) *Board {
	return &Board{grid: g, score: score, rng: newRNG(seed)}
}

// Grid returns a copy of the cells.
func (b *Board) Grid() Grid { return b.grid }

// Score is the sum of every merged tile so far.
func (b *Board) Score() int { return b.score }

// Moves counts the moves that changed the board.
func (b *Board) Moves() int { return b.moves }

// MaxTile returns the largest tile on the board.
func (b *Board) MaxTile() int {
	m := 0
	for y := range Size {
		for x := range Size {
			m = max(m, b.grid[y][x])
		}
	}
	return m
}

// Empty returns the number of empty cells.
func (b *Board) Empty() int {
	n := 0
	for y := range Size {
		for x := range Size {
			if b.grid[y][x] == 0 {
				n++
			}
		}
	}
	return n
}

// Over reports whether no move can change the board.
func (b *Board) Over() bool {
	for y := range Size {
		for x := range Size {
			v := b.grid[y][x]
			if v == 0 {
				return false
			}
			if x+1 < Size && b.grid[y][x+1] == v {
				return false
			}
			if y+1 < Size && b.grid[y+1][x] == v {
				return false
			}
		}
	}
	return true
}

// Move applies cmd. Tiles slide as far as they can and equal neighbours
// merge, each tile at most once per move. A move that changes the board
// spawns one new tile; one that changes nothing spawns nothing.
func (b *Board) Move(cmd Command) (Result, error) {
	if !cmd.valid() {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidCommand, int(cmd))
	}
	before := b.grid
	gained := 0
	for i := range Size {
		line := b.line(cmd, i)
		var vals [Size]int
		for j, p := range line {
			vals[j] = b.grid[p.Y][p.X]
		}
		merged, pts := slide(vals)
		gained += pts
		for j, p := range line {
			b.grid[p.Y][p.X] = merged[j]
		}
	}
	if b.grid == before {
		return Result{}, nil
	}

	b.score += gained
	b.moves++
	res := Result{Moved: true, Gained: gained}
	if p, ok := b.spawn(); ok {
		res.Spawned = &p
	}
	res.Changed = b.grid.Diff(&before)
	return res, nil
}

// line returns the cells of row or column i ordered from the edge the
// tiles slide towards.
func (b *Board) line(cmd Command, i int) [Size]Pos {
	var out [Size]Pos
	for j := range Size {
		switch cmd {
		case SlideUp:
			out[j] = Pos{i, j}
		case SlideDown:
			out[j] = Pos{i, Size - 1 - j}
		case SlideLeft:
			out[j] = Pos{j, i}
		case SlideRight:
			out[j] = Pos{Size - 1 - j, i}
		}
	}
	return out
}

// slide compacts vals towards index zero, merging equal pairs once.
func slide(vals [Size]int) ([Size]int, int) {
	var out [Size]int
	n, gained := 0, 0
	mergeable := false
	for _, v := range vals {
		if v == 0 {
			continue
		}
		if mergeable && out[n-1] == v {
			out[n-1] = v * 2
			gained += v * 2
			mergeable = false
			continue
		}
		out[n] = v
		n++
		mergeable = true
	}
	return out, gained
}

// spawn places a 2 (90%) or a 4 (10%) on a random empty cell.
func (b *Board) spawn() (Pos, bool) {
	var empty []Pos
	for y := range Size {
		for x := range Size {
			if b.grid[y][x] == 0 {
				empty = append(empty, Pos{x, y})
			}
		}
	}
	if len(empty) == 0 {
		return Pos{}, false
	}
	p := empty[b.rng.IntN(len(empty))]
	v := 2
	if b.rng.IntN(10) == 0 {
		v = 4
	}
	b.grid[p.Y][p.X] = v
	return p, true
}
