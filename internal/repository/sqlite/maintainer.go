package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/Atharva7126/community-dashboard/internal/apperror"
	"github.com/Atharva7126/community-dashboard/internal/model"
	"github.com/Atharva7126/community-dashboard/internal/repository"
)

var _ repository.MaintainerRepository = (*MaintainerDB)(nil)

// MaintainerDB stores maintainer accounts. Obtain one with DB.Maintainers.
type MaintainerDB struct {
	conn *sql.DB
}

// Upsert inserts or updates a maintainer keyed by login.
//
// A returning maintainer keeps the ID and CreatedAt from their first login;
// only the profile fields (GitHub ID, avatar, source) are refreshed. On return
// m holds the stored row.
func (u *MaintainerDB) Upsert(ctx context.Context, m *model.Maintainer) error {
	existing, err := u.GetByLogin(ctx, m.Login)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return err
	}

	now := time.Now().UTC()

	if existing != nil {
		m.ID = existing.ID
		m.CreatedAt = existing.CreatedAt
		m.UpdatedAt = now
		_, err = u.conn.ExecContext(ctx,
			`UPDATE maintainers SET github_id = ?, avatar_url = ?, source = ?, updated_at = ?
			 WHERE id = ?`,
			m.GitHubID,
			m.AvatarURL,
			m.Source,
			m.UpdatedAt,
			m.ID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating maintainer %s: %w", m.ID, err)
		}
		return nil
	}

	m.ID = xid.New().String()
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err = u.conn.ExecContext(ctx,
		`INSERT INTO maintainers (id, login, github_id, avatar_url, source, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		m.Login,
		m.GitHubID,
		m.AvatarURL,
		m.Source,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting maintainer %s: %w", m.Login, err)
	}

	return nil
}

// GetByID returns apperror.ErrNotFound when no maintainer has that ID.
func (u *MaintainerDB) GetByID(ctx context.Context, id string) (*model.Maintainer, error) {
	m, err := u.getOne(ctx, `WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("maintainer", id)
		}
		return nil, fmt.Errorf("sqlite: getting maintainer %s: %w", id, err)
	}
	return m, nil
}

func (u *MaintainerDB) GetByLogin(ctx context.Context, login string) (*model.Maintainer, error) {
	m, err := u.getOne(ctx, `WHERE login = ?`, login)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("maintainer", login)
		}
		return nil, fmt.Errorf("sqlite: getting maintainer by login %s: %w", login, err)
	}
	return m, nil
}

func (u *MaintainerDB) getOne(ctx context.Context, where string, arg any) (*model.Maintainer, error) {
	var m model.Maintainer
	err := u.conn.QueryRowContext(ctx,
		`SELECT id, login, github_id, avatar_url, source, created_at, updated_at
		 FROM maintainers `+where,
		arg,
	).Scan(
		&m.ID,
		&m.Login,
		&m.GitHubID,
		&m.AvatarURL,
		&m.Source,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
