package db

import (
	"fmt"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// DirectionStats summarises the swipes of one direction.
type DirectionStats struct {
	Direction      string  `json:"direction"`
	Count          int     `json:"count"`
	MeanDistance   float64 `json:"mean_distance"`
	StdDevDistance float64 `json:"stddev_distance"`
	P95Distance    float64 `json:"p95_distance"`
	MeanElapsedMs  float64 `json:"mean_elapsed_ms"`
	MedianElapsed  float64 `json:"median_elapsed_ms"`
	P95ElapsedMs   float64 `json:"p95_elapsed_ms"`
}

// SwipeSummary describes how a player swipes.
type SwipeSummary struct {
	SessionID  string           `json:"session_id,omitempty"`
	Total      int              `json:"total"`
	Directions []DirectionStats `json:"directions"`
}

// SwipeStats summarises the completed swipes of a session, or of every
// session when sessionID is empty. Directions appear in up, right, down,
// left order and only when they have at least one swipe.
func (db *DB) SwipeStats(sessionID string) (SwipeSummary, error) {
	query := `SELECT ` + swipeColumns + ` FROM swipes WHERE trigger_type = 'completed'`
	var args []any
	if sessionID != "" {
		query += ` AND session_id = ?`
		args = append(args, sessionID)
	}
	records, err := db.querySwipes(query+` ORDER BY swipe_id`, args...)
	if err != nil {
		return SwipeSummary{}, fmt.Errorf("swipe stats: %w", err)
	}
	return Summarise(sessionID, records), nil
}

// Summarise computes per-direction statistics for records.
func Summarise(sessionID string, records []SwipeRecord) SwipeSummary {
	byDir := make(map[string][]SwipeRecord)
	for _, r := range records {
		byDir[r.Direction] = append(byDir[r.Direction], r)
	}

	sum := SwipeSummary{SessionID: sessionID, Total: len(records)}
	for _, dir := range []string{"up", "right", "down", "left"} {
		rs := byDir[dir]
		if len(rs) == 0 {
			continue
		}
		dist := make([]float64, len(rs))
		elapsed := make([]float64, len(rs))
		for i, r := range rs {
			dist[i] = r.Distance()
			elapsed[i] = float64(r.Elapsed) / float64(time.Millisecond)
		}
		ds := DirectionStats{Direction: dir, Count: len(rs)}
		ds.MeanDistance, ds.StdDevDistance = stat.MeanStdDev(dist, nil)
		if len(rs) < 2 {
			ds.StdDevDistance = 0
		}
		ds.MeanElapsedMs = stat.Mean(elapsed, nil)
		slices.Sort(dist)
		slices.Sort(elapsed)
		ds.P95Distance = stat.Quantile(0.95, stat.Empirical, dist, nil)
		ds.MedianElapsed = stat.Quantile(0.5, stat.Empirical, elapsed, nil)
		ds.P95ElapsedMs = stat.Quantile(0.95, stat.Empirical, elapsed, nil)
		sum.Directions = append(sum.Directions, ds)
	}
	return sum
}
