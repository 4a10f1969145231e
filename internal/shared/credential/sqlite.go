package credential

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shandysiswandi/safemeet/internal/pkg/goerror"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS identities (
	id             INTEGER PRIMARY KEY,
	identifier     TEXT NOT NULL UNIQUE,
	password_hash  TEXT,
	otp_digest     TEXT,
	otp_issued_at  INTEGER,
	otp_verified   INTEGER NOT NULL DEFAULT 0,
	delivery_token TEXT,
	full_name      TEXT,
	phone          TEXT,
	created_at     INTEGER NOT NULL,
	updated_at     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS identities_delivery_token_idx ON identities (delivery_token);
`

const sqliteColumns = `id, identifier, password_hash, otp_digest, otp_issued_at, otp_verified,
	delivery_token, full_name, phone, created_at, updated_at`

const sqliteUpsert = `
INSERT INTO identities (id, identifier, password_hash, otp_digest, otp_issued_at, otp_verified,
	delivery_token, full_name, phone, created_at, updated_at)
VALUES (?1, ?2, ?3, ?4, ?5, COALESCE(?6, 0), ?7, ?8, ?9, ?10, ?10)
ON CONFLICT (identifier) DO UPDATE SET
	password_hash  = COALESCE(excluded.password_hash, identities.password_hash),
	otp_digest     = COALESCE(excluded.otp_digest, identities.otp_digest),
	otp_issued_at  = COALESCE(excluded.otp_issued_at, identities.otp_issued_at),
	otp_verified   = COALESCE(?6, identities.otp_verified),
	delivery_token = COALESCE(excluded.delivery_token, identities.delivery_token),
	full_name      = COALESCE(excluded.full_name, identities.full_name),
	phone          = COALESCE(excluded.phone, identities.phone),
	updated_at     = excluded.updated_at
RETURNING ` + sqliteColumns

// SQLite is the embedded Store used for local development and tests.
type SQLite struct {
	Deps
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(ctx context.Context, path string, deps Deps) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("credential: sqlite path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("credential: open sqlite: %w", err)
	}
	// single writer avoids SQLITE_BUSY under concurrent upserts
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("credential: sqlite schema: %w", err)
	}

	return &SQLite{Deps: deps, db: db}, nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func millisArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return toMillis(*t)
}

// arg unwraps optional values so the driver binds NULL for nil.
func arg[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func scanSQLite(row *sql.Row) (*Identity, error) {
	var (
		it                                   Identity
		hash, digest, token, fullName, phone sql.NullString
		issuedAt                             sql.NullInt64
		createdAt, updatedAt                 int64
	)
	err := row.Scan(&it.ID, &it.Identifier, &hash, &digest, &issuedAt, &it.OTPVerified,
		&token, &fullName, &phone, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goerror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	it.PasswordHash = hash.String
	it.OTPDigest = digest.String
	it.DeliveryToken = token.String
	it.FullName = fullName.String
	it.Phone = phone.String
	if issuedAt.Valid {
		t := time.UnixMilli(issuedAt.Int64).UTC()
		it.OTPIssuedAt = &t
	}
	it.CreatedAt = time.UnixMilli(createdAt).UTC()
	it.UpdatedAt = time.UnixMilli(updatedAt).UTC()

	return &it, nil
}

// FindByIdentifier implements Store.
func (s *SQLite) FindByIdentifier(ctx context.Context, identifier string) (_ *Identity, err error) {
	ctx, span := s.startSpan(ctx, "FindByIdentifier")
	defer func() { endSpan(span, err) }()

	return scanSQLite(s.db.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM identities WHERE identifier = ?1`, identifier))
}

// Upsert implements Store.
func (s *SQLite) Upsert(ctx context.Context, identifier string, f Fields) (_ *Identity, err error) {
	ctx, span := s.startSpan(ctx, "Upsert")
	defer func() { endSpan(span, err) }()

	return scanSQLite(s.db.QueryRowContext(ctx, sqliteUpsert,
		s.ID.Generate(), identifier, arg(f.PasswordHash), arg(f.OTPDigest), millisArg(f.OTPIssuedAt), arg(f.OTPVerified),
		arg(f.DeliveryToken), arg(f.FullName), arg(f.Phone), toMillis(s.Clock.Now())))
}

// ConsumeOTP implements Store.
func (s *SQLite) ConsumeOTP(ctx context.Context, identifier, digest string) (_ *Identity, err error) {
	ctx, span := s.startSpan(ctx, "ConsumeOTP")
	defer func() { endSpan(span, err) }()

	return scanSQLite(s.db.QueryRowContext(ctx, `
UPDATE identities SET otp_verified = 1, otp_digest = NULL, otp_issued_at = NULL, updated_at = ?3
WHERE identifier = ?1 AND otp_digest = ?2
RETURNING `+sqliteColumns, identifier, digest, toMillis(s.Clock.Now())))
}

// ClearDeliveryToken implements Store.
func (s *SQLite) ClearDeliveryToken(ctx context.Context, token string) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "ClearDeliveryToken")
	defer func() { endSpan(span, err) }()

	res, err := s.db.ExecContext(ctx,
		`UPDATE identities SET delivery_token = NULL, updated_at = ?2 WHERE delivery_token = ?1`,
		token, toMillis(s.Clock.Now()))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Ping implements Store.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
