package credential

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/safemeet/internal/pkg/goerror"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS identities (
	id             BIGINT PRIMARY KEY,
	identifier     TEXT NOT NULL UNIQUE,
	password_hash  TEXT,
	otp_digest     TEXT,
	otp_issued_at  TIMESTAMPTZ,
	otp_verified   BOOLEAN NOT NULL DEFAULT FALSE,
	delivery_token TEXT,
	full_name      TEXT,
	phone          TEXT,
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS identities_delivery_token_idx ON identities (delivery_token);
`

const pgColumns = `id, identifier, password_hash, otp_digest, otp_issued_at, otp_verified,
	delivery_token, full_name, phone, created_at, updated_at`

const pgUpsert = `
INSERT INTO identities (id, identifier, password_hash, otp_digest, otp_issued_at, otp_verified,
	delivery_token, full_name, phone, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, COALESCE($6::boolean, FALSE), $7, $8, $9, $10, $10)
ON CONFLICT (identifier) DO UPDATE SET
	password_hash  = COALESCE(EXCLUDED.password_hash, identities.password_hash),
	otp_digest     = COALESCE(EXCLUDED.otp_digest, identities.otp_digest),
	otp_issued_at  = COALESCE(EXCLUDED.otp_issued_at, identities.otp_issued_at),
	otp_verified   = COALESCE($6::boolean, identities.otp_verified),
	delivery_token = COALESCE(EXCLUDED.delivery_token, identities.delivery_token),
	full_name      = COALESCE(EXCLUDED.full_name, identities.full_name),
	phone          = COALESCE(EXCLUDED.phone, identities.phone),
	updated_at     = EXCLUDED.updated_at
RETURNING ` + pgColumns

// Postgres is the pgx-backed Store.
type Postgres struct {
	Deps
	pool *pgxpool.Pool
}

// NewPostgres wraps pool and creates the schema when missing.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool, deps Deps) (*Postgres, error) {
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		return nil, err
	}
	return &Postgres{Deps: deps, pool: pool}, nil
}

func scanPG(row pgx.Row) (*Identity, error) {
	var (
		it                                   Identity
		hash, digest, token, fullName, phone *string
		issuedAt                             *time.Time
	)
	err := row.Scan(&it.ID, &it.Identifier, &hash, &digest, &issuedAt, &it.OTPVerified,
		&token, &fullName, &phone, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, goerror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	it.PasswordHash = deref(hash)
	it.OTPDigest = deref(digest)
	it.OTPIssuedAt = issuedAt
	it.DeliveryToken = deref(token)
	it.FullName = deref(fullName)
	it.Phone = deref(phone)

	return &it, nil
}

// FindByIdentifier implements Store.
func (p *Postgres) FindByIdentifier(ctx context.Context, identifier string) (_ *Identity, err error) {
	ctx, span := p.startSpan(ctx, "FindByIdentifier")
	defer func() { endSpan(span, err) }()

	return scanPG(p.pool.QueryRow(ctx, `SELECT `+pgColumns+` FROM identities WHERE identifier = $1`, identifier))
}

// Upsert implements Store.
func (p *Postgres) Upsert(ctx context.Context, identifier string, f Fields) (_ *Identity, err error) {
	ctx, span := p.startSpan(ctx, "Upsert")
	defer func() { endSpan(span, err) }()

	return scanPG(p.pool.QueryRow(ctx, pgUpsert,
		p.ID.Generate(), identifier, f.PasswordHash, f.OTPDigest, f.OTPIssuedAt, f.OTPVerified,
		f.DeliveryToken, f.FullName, f.Phone, p.Clock.Now()))
}

// ConsumeOTP implements Store.
func (p *Postgres) ConsumeOTP(ctx context.Context, identifier, digest string) (_ *Identity, err error) {
	ctx, span := p.startSpan(ctx, "ConsumeOTP")
	defer func() { endSpan(span, err) }()

	return scanPG(p.pool.QueryRow(ctx, `
UPDATE identities SET otp_verified = TRUE, otp_digest = NULL, otp_issued_at = NULL, updated_at = $3
WHERE identifier = $1 AND otp_digest = $2
RETURNING `+pgColumns, identifier, digest, p.Clock.Now()))
}

// ClearDeliveryToken implements Store.
func (p *Postgres) ClearDeliveryToken(ctx context.Context, token string) (_ int64, err error) {
	ctx, span := p.startSpan(ctx, "ClearDeliveryToken")
	defer func() { endSpan(span, err) }()

	tag, err := p.pool.Exec(ctx,
		`UPDATE identities SET delivery_token = NULL, updated_at = $2 WHERE delivery_token = $1`,
		token, p.Clock.Now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Ping implements Store.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close releases the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
