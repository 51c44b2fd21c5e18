// Package store keeps the attempt journal of the active session in SQLite.
//
// The journal holds one session at a time: BeginSession discards whatever the
// previous session wrote.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/reflexrush/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store wraps SQLite access for the attempt journal.
type Store struct {
	db *sql.DB
}

// Open opens or creates the journal database and applies migrations.
func Open(path string) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			difficulty TEXT NOT NULL,
			started_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attempts (
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			kind TEXT NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			target_index INTEGER NOT NULL,
			round_seq INTEGER NOT NULL,
			at TEXT NOT NULL,
			reaction_ms INTEGER NOT NULL,
			PRIMARY KEY (session_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_kind ON attempts(kind);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// BeginSession clears the journal and registers a new session.
func (s *Store) BeginSession(ctx context.Context, id model.SessionID, difficulty model.Difficulty, startedAt time.Time) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	for _, stmt := range []string{`DELETE FROM attempts`, `DELETE FROM sessions`} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, difficulty, started_at) VALUES (?, ?, ?)`,
		id.String(), string(difficulty), startedAt.Format(time.RFC3339Nano),
	); err != nil {
		return err
	}
	return tx.Commit()
}

// RecordAttempt appends one attempt to the journal.
func (s *Store) RecordAttempt(ctx context.Context, id model.SessionID, a model.Attempt) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (session_id, seq, kind, x, y, target_index, round_seq, at, reaction_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(),
		a.Seq,
		a.Kind.String(),
		a.X,
		a.Y,
		a.TargetIndex,
		a.RoundSeq,
		a.At.Format(time.RFC3339Nano),
		a.Reaction.Milliseconds(),
	)
	return err
}

// ListAttempts returns the journaled attempts of a session in order.
func (s *Store) ListAttempts(ctx context.Context, id model.SessionID) ([]model.Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, kind, x, y, target_index, round_seq, at, reaction_ms
		 FROM attempts
		 WHERE session_id = ?
		 ORDER BY seq ASC`, id.String())
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.Attempt
	for rows.Next() {
		var a model.Attempt
		var kind, at string
		var reactionMs int64
		if err := rows.Scan(&a.Seq, &kind, &a.X, &a.Y, &a.TargetIndex, &a.RoundSeq, &at, &reactionMs); err != nil {
			return nil, err
		}
		if a.Kind, err = model.ParseAttemptKind(kind); err != nil {
			return nil, err
		}
		if a.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, err
		}
		a.Reaction = time.Duration(reactionMs) * time.Millisecond
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Breakdown aggregates the journal of a session per attempt kind.
func (s *Store) Breakdown(ctx context.Context, id model.SessionID) (model.Breakdown, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, COUNT(*) AS n,
			COALESCE(SUM(CASE WHEN kind = ? THEN reaction_ms ELSE 0 END), 0) AS reaction_sum
		 FROM attempts
		 WHERE session_id = ?
		 GROUP BY kind`, model.Hit.String(), id.String())
	if err != nil {
		return model.Breakdown{}, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	b := model.Breakdown{Counts: map[model.AttemptKind]int{}}
	var reactionSum int64
	for rows.Next() {
		var kind string
		var n int
		var sum int64
		if err := rows.Scan(&kind, &n, &sum); err != nil {
			return model.Breakdown{}, err
		}
		k, err := model.ParseAttemptKind(kind)
		if err != nil {
			return model.Breakdown{}, err
		}
		b.Counts[k] = n
		reactionSum += sum
	}
	if err := rows.Err(); err != nil {
		return model.Breakdown{}, err
	}
	if hits := b.Counts[model.Hit]; hits > 0 {
		b.AvgReaction = time.Duration(reactionSum/int64(hits)) * time.Millisecond
	}
	return b, nil
}
