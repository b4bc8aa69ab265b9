package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	acct := &Account{}
	var userMeta, appMeta []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, user_metadata, app_metadata
		FROM admin_users WHERE email=$1`, email).
		Scan(&acct.ID, &acct.Email, &acct.PasswordHash, &userMeta, &appMeta)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query account: %w", err)
	}

	acct.UserMetadata = decodeMetadata(userMeta)
	acct.AppMetadata = decodeMetadata(appMeta)
	return acct, nil
}

func decodeMetadata(raw []byte) map[string]interface{} {
	m := map[string]interface{}{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &m)
	}
	return m
}
