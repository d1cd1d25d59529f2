package db

import (
	"fmt"
	"math"
	"time"

	"github.com/banshee-data/inky2048/internal/gesture"
)

// SwipeRecord is one row of the swipes table.
type SwipeRecord struct {
	ID         int64
	SessionID  string
	ContactID  int32
	Direction  string
	Trigger    string
	DX, DY     float64
	Elapsed    time.Duration
	RecordedAt time.Time
}

func (r SwipeRecord) String() string {
	return fmt.Sprintf("%s %s/%s contact=%d d=(%.0f,%.0f) %s",
		r.RecordedAt.Format(time.RFC3339), r.Direction, r.Trigger, r.ContactID, r.DX, r.DY, r.Elapsed)
}

// Distance is the length of the swipe's displacement along its direction.
func (r SwipeRecord) Distance() float64 {
	dir, err := gesture.ParseDirection(r.Direction)
	if err == nil && (dir == gesture.Up || dir == gesture.Down) {
		return math.Abs(r.DY)
	}
	return math.Abs(r.DX)
}

// RecordSwipe stores one recognised swipe.
func (db *DB) RecordSwipe(sessionID string, s gesture.Swipe) error {
	_, err := db.Exec(
		`INSERT INTO swipes (
			session_id, contact_id, direction, trigger_type, dx, dy, elapsed_ms, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, s.ContactID, s.Direction.String(), s.Trigger.String(),
		s.Displacement.X, s.Displacement.Y, s.Elapsed.Milliseconds(), formatTime(s.Time),
	)
	if err != nil {
		return fmt.Errorf("record swipe: %w", err)
	}
	return nil
}

const swipeColumns = `swipe_id, session_id, contact_id, direction, trigger_type, dx, dy, elapsed_ms, recorded_at`

// RecentSwipes returns up to limit swipes, newest first.
func (db *DB) RecentSwipes(limit int) ([]SwipeRecord, error) {
	return db.querySwipes(`SELECT `+swipeColumns+` FROM swipes ORDER BY swipe_id DESC LIMIT ?`, limit)
}

// SessionSwipes returns every swipe of a session in the order recorded.
func (db *DB) SessionSwipes(sessionID string) ([]SwipeRecord, error) {
	return db.querySwipes(`SELECT `+swipeColumns+` FROM swipes WHERE session_id = ? ORDER BY swipe_id`, sessionID)
}

func (db *DB) querySwipes(query string, args ...any) ([]SwipeRecord, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query swipes: %w", err)
	}
	defer rows.Close()

	var out []SwipeRecord
	for rows.Next() {
		var r SwipeRecord
		var elapsedMs int64
		var recordedAt string
		if err := rows.Scan(&r.ID, &r.SessionID, &r.ContactID, &r.Direction, &r.Trigger,
			&r.DX, &r.DY, &elapsedMs, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan swipe: %w", err)
		}
		r.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		if r.RecordedAt, err = parseTime(recordedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
