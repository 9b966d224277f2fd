package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/Atharva7126/community-dashboard/internal/apperror"
	"github.com/Atharva7126/community-dashboard/internal/model"
	"github.com/Atharva7126/community-dashboard/internal/repository"
)

var _ repository.SnapshotRepository = (*DB)(nil)

// Create stores a new snapshot, assigning its ID and CreatedAt.
//
// xid IDs sort by creation time, which gives List and Latest a stable
// tie-breaker when two snapshots share a timestamp.
func (db *DB) Create(ctx context.Context, snapshot *model.Snapshot) error {
	contributors := snapshot.Contributors
	if contributors == nil {
		contributors = []model.Contributor{}
	}
	doc, err := json.Marshal(contributors)
	if err != nil {
		return fmt.Errorf("sqlite: encoding contributors: %w", err)
	}

	snapshot.ID = xid.New().String()
	snapshot.CreatedAt = time.Now().UTC()

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO snapshots (id, label, contributors, contributor_count, published_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		snapshot.ID,
		snapshot.Label,
		string(doc),
		len(contributors),
		snapshot.PublishedBy,
		snapshot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating snapshot: %w", err)
	}

	return nil
}

// GetByID returns the full snapshot, contributors included.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Snapshot, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, label, contributors, published_by, created_at
		 FROM snapshots
		 WHERE id = ?`,
		id,
	)
	s, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("snapshot", id)
		}
		return nil, fmt.Errorf("sqlite: getting snapshot %s: %w", id, err)
	}
	return s, nil
}

// Latest returns the most recently published snapshot.
func (db *DB) Latest(ctx context.Context) (*model.Snapshot, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, label, contributors, published_by, created_at
		 FROM snapshots
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
	)
	s, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("snapshot", "latest")
		}
		return nil, fmt.Errorf("sqlite: getting latest snapshot: %w", err)
	}
	return s, nil
}

// List returns snapshot metadata, newest first. The contributor documents are
// not read; contributor_count is kept alongside for this purpose.
func (db *DB) List(ctx context.Context, opts repository.ListOptions) ([]model.SnapshotInfo, error) {
	opts = opts.Normalize()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, label, contributor_count, published_by, created_at
		 FROM snapshots
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		opts.Limit,
		opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snapshots: %w", err)
	}
	defer rows.Close()

	infos := make([]model.SnapshotInfo, 0, opts.Limit)
	for rows.Next() {
		var info model.SnapshotInfo
		if err := rows.Scan(
			&info.ID, &info.Label, &info.ContributorCount,
			&info.PublishedBy, &info.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snapshot row: %w", err)
		}
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snapshots: %w", err)
	}

	return infos, nil
}

func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM snapshots WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snapshot %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snapshot", id)
	}

	return nil
}

func scanSnapshot(row *sql.Row) (*model.Snapshot, error) {
	var (
		s   model.Snapshot
		doc string
	)
	if err := row.Scan(&s.ID, &s.Label, &doc, &s.PublishedBy, &s.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(doc), &s.Contributors); err != nil {
		return nil, fmt.Errorf("decoding contributors: %w", err)
	}
	if s.Contributors == nil {
		s.Contributors = []model.Contributor{}
	}
	return &s, nil
}
