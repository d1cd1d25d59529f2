package db

import (
	"fmt"
	"time"
)

// MoveRecord is one row of the moves table.
type MoveRecord struct {
	SessionID  string
	Seq        int
	Direction  string
	Moved      bool
	Gained     int
	Score      int
	MaxTile    int
	RecordedAt time.Time
}

// RecordMove stores one applied board command.
func (db *DB) RecordMove(m MoveRecord) error {
	_, err := db.Exec(
		`INSERT INTO moves (
			session_id, seq, direction, moved, gained, score, max_tile, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.SessionID, m.Seq, m.Direction, m.Moved, m.Gained, m.Score, m.MaxTile, formatTime(m.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("record move: %w", err)
	}
	return nil
}

// SessionMoves returns the moves of a session in sequence order.
func (db *DB) SessionMoves(sessionID string) ([]MoveRecord, error) {
	rows, err := db.Query(
		`SELECT session_id, seq, direction, moved, gained, score, max_tile, recorded_at
		FROM moves WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query moves: %w", err)
	}
	defer rows.Close()

	var out []MoveRecord
	for rows.Next() {
		var m MoveRecord
		var recordedAt string
		if err := rows.Scan(&m.SessionID, &m.Seq, &m.Direction, &m.Moved, &m.Gained,
			&m.Score, &m.MaxTile, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		if m.RecordedAt, err = parseTime(recordedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Session summarises one game.
type Session struct {
	ID        string
	Moves     int
	Score     int
	MaxTile   int
	StartedAt time.Time
	EndedAt   time.Time
}

// Sessions lists games, most recent first.
func (db *DB) Sessions(limit int) ([]Session, error) {
	rows, err := db.Query(
		`SELECT session_id, COUNT(*), MAX(score), MAX(max_tile), MIN(recorded_at), MAX(recorded_at)
		FROM moves GROUP BY session_id ORDER BY MAX(recorded_at) DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var s Session
		var started, ended string
		if err := rows.Scan(&s.ID, &s.Moves, &s.Score, &s.MaxTile, &started, &ended); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if s.StartedAt, err = parseTime(started); err != nil {
			return nil, err
		}
		if s.EndedAt, err = parseTime(ended); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
