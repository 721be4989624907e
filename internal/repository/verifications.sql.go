package repository

import (
	"context"
)

const createVerification = `
INSERT INTO verifications (
    id,
    user_email,
    status,
    type,
    fayda_id,
    api_provider,
    metadata,
    created_at
) VALUES (
    ?, ?, ?, ?, ?, ?, ?, ?
)
RETURNING id, user_email, status, type, fayda_id, api_provider, metadata, created_at
`

type CreateVerificationParams struct {
	ID          string
	UserEmail   string
	Status      string
	Type        string
	FaydaID     string
	ApiProvider string
	Metadata    string
	CreatedAt   int64
}

func (q *Queries) CreateVerification(ctx context.Context, arg CreateVerificationParams) (Verification, error) {
	row := q.db.QueryRowContext(ctx, createVerification,
		arg.ID,
		arg.UserEmail,
		arg.Status,
		arg.Type,
		arg.FaydaID,
		arg.ApiProvider,
		arg.Metadata,
		arg.CreatedAt,
	)
	var i Verification
	err := row.Scan(
		&i.ID,
		&i.UserEmail,
		&i.Status,
		&i.Type,
		&i.FaydaID,
		&i.ApiProvider,
		&i.Metadata,
		&i.CreatedAt,
	)
	return i, err
}

const getVerification = `
SELECT id, user_email, status, type, fayda_id, api_provider, metadata, created_at FROM verifications
WHERE id = ? LIMIT 1
`

func (q *Queries) GetVerification(ctx context.Context, id string) (Verification, error) {
	row := q.db.QueryRowContext(ctx, getVerification, id)
	var i Verification
	err := row.Scan(
		&i.ID,
		&i.UserEmail,
		&i.Status,
		&i.Type,
		&i.FaydaID,
		&i.ApiProvider,
		&i.Metadata,
		&i.CreatedAt,
	)
	return i, err
}

const listVerificationsByFaydaID = `
SELECT id, user_email, status, type, fayda_id, api_provider, metadata, created_at FROM verifications
WHERE fayda_id = ?
ORDER BY created_at DESC
`

func (q *Queries) ListVerificationsByFaydaID(ctx context.Context, faydaID string) ([]Verification, error) {
	rows, err := q.db.QueryContext(ctx, listVerificationsByFaydaID, faydaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Verification
	for rows.Next() {
		var i Verification
		if err := rows.Scan(
			&i.ID,
			&i.UserEmail,
			&i.Status,
			&i.Type,
			&i.FaydaID,
			&i.ApiProvider,
			&i.Metadata,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
