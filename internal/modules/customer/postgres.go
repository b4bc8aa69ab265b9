package customer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Profile, error) {
	profiles := make(map[uuid.UUID]*Profile, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, full_name, email, phone, created_at
		FROM user_profiles WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles[p.ID] = p
	}
	return profiles, rows.Err()
}

func (r *postgresRepo) List(ctx context.Context) ([]*Profile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, full_name, email, phone, created_at
		FROM user_profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()
	var profiles []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *postgresRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM user_profiles`).Scan(&n)
	return n, err
}

func scanProfile(rows *sql.Rows) (*Profile, error) {
	p := &Profile{}
	var fullName, email, phone sql.NullString
	if err := rows.Scan(&p.ID, &fullName, &email, &phone, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.FullName = fullName.String
	p.Email = email.String
	p.Phone = phone.String
	return p, nil
}
