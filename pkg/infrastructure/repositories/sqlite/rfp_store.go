package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/vsinha/bidengine/pkg/domain/entities"
	"github.com/vsinha/bidengine/pkg/domain/repositories"
)

const schema = `
CREATE TABLE IF NOT EXISTS rfps (
	id         TEXT PRIMARY KEY,
	position   INTEGER NOT NULL,
	client     TEXT NOT NULL DEFAULT '',
	archived   INTEGER NOT NULL DEFAULT 0,
	body       TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS rfps_position ON rfps (position);
`

type rfpRow struct {
	ID       string `db:"id"`
	Position int64  `db:"position"`
	Body     string `db:"body"`
}

// RFPStore persists the RFP collection in SQLite. The full record is kept
// as JSON; id, client and archived are columns for ad hoc queries.
type RFPStore struct {
	db  *sqlx.DB
	mu  sync.Mutex
	now func() time.Time
}

var _ repositories.RFPRepository = (*RFPStore)(nil)

// NewRFPStore opens or creates the database at dbPath
func NewRFPStore(dbPath string) (*RFPStore, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &RFPStore{db: db, now: time.Now}, nil
}

// Close closes the database handle
func (s *RFPStore) Close() error {
	return s.db.Close()
}

func decode(row rfpRow) (*entities.RFP, error) {
	var rfp entities.RFP
	if err := json.Unmarshal([]byte(row.Body), &rfp); err != nil {
		return nil, fmt.Errorf("decode rfp %s: %w", row.ID, err)
	}
	return &rfp, nil
}

// GetRFP returns the RFP with the given id
func (s *RFPStore) GetRFP(ctx context.Context, id string) (*entities.RFP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var row rfpRow
	err := s.db.GetContext(ctx, &row, `SELECT id, position, body FROM rfps WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rfp %s: %w", id, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select rfp %s: %w", id, err)
	}
	return decode(row)
}

// ListRFPs returns every RFP in insertion order
func (s *RFPStore) ListRFPs(ctx context.Context) ([]*entities.RFP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.list(ctx, s.db)
}

func (s *RFPStore) list(ctx context.Context, q sqlx.QueryerContext) ([]*entities.RFP, error) {
	var rows []rfpRow
	if err := sqlx.SelectContext(ctx, q, &rows, `SELECT id, position, body FROM rfps ORDER BY position`); err != nil {
		return nil, fmt.Errorf("select rfps: %w", err)
	}

	rfps := make([]*entities.RFP, 0, len(rows))
	for _, row := range rows {
		rfp, err := decode(row)
		if err != nil {
			return nil, err
		}
		rfps = append(rfps, rfp)
	}
	return rfps, nil
}

func (s *RFPStore) upsert(ctx context.Context, tx *sqlx.Tx, rfp *entities.RFP) error {
	body, err := json.Marshal(rfp)
	if err != nil {
		return fmt.Errorf("encode rfp %s: %w", rfp.ID, err)
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO rfps (id, position, client, archived, body, updated_at)
VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM rfps), ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	client = excluded.client,
	archived = excluded.archived,
	body = excluded.body,
	updated_at = excluded.updated_at`,
		rfp.ID, rfp.ClientName, rfp.Archived, string(body), s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert rfp %s: %w", rfp.ID, err)
	}
	return nil
}

// inTx runs fn in a transaction, committing only when fn succeeds
func (s *RFPStore) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// SaveRFP inserts the RFP or replaces the row with the same id
func (s *RFPStore) SaveRFP(ctx context.Context, rfp *entities.RFP) error {
	if rfp == nil || rfp.ID == "" {
		return fmt.Errorf("rfp id cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		return s.upsert(ctx, tx, rfp)
	})
}

// UpdateRFP applies fn to one RFP inside a transaction that rolls back if fn fails
func (s *RFPStore) UpdateRFP(ctx context.Context, id string, fn func(rfp *entities.RFP) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var row rfpRow
		err := tx.GetContext(ctx, &row, `SELECT id, position, body FROM rfps WHERE id = ?`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("rfp %s: %w", id, repositories.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("select rfp %s: %w", id, err)
		}

		rfp, err := decode(row)
		if err != nil {
			return err
		}
		if err := fn(rfp); err != nil {
			return err
		}
		if rfp.ID != id {
			return fmt.Errorf("rfp id cannot change during update: %s -> %s", id, rfp.ID)
		}
		return s.upsert(ctx, tx, rfp)
	})
}

// UpdateAll applies fn to every RFP inside one transaction that rolls back if fn fails
func (s *RFPStore) UpdateAll(ctx context.Context, fn func(rfps []*entities.RFP) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		rfps, err := s.list(ctx, tx)
		if err != nil {
			return err
		}
		ids := make([]string, len(rfps))
		for i, rfp := range rfps {
			ids[i] = rfp.ID
		}

		if err := fn(rfps); err != nil {
			return err
		}

		for i, rfp := range rfps {
			if rfp.ID != ids[i] {
				return fmt.Errorf("rfp id cannot change during update: %s -> %s", ids[i], rfp.ID)
			}
			if err := s.upsert(ctx, tx, rfp); err != nil {
				return err
			}
		}
		return nil
	})
}
