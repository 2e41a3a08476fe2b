package history

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/dashbored/internal/core"
)

// DB is the subset of *pgxpool.Pool used by PostgresLog.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS dataset_uploads (
	id            UUID PRIMARY KEY,
	dataset       TEXT NOT NULL,
	original_name TEXT NOT NULL,
	size_bytes    BIGINT NOT NULL,
	ip_address    INET,
	user_agent    TEXT,
	uploaded_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS dataset_uploads_uploaded_at_idx
	ON dataset_uploads (uploaded_at DESC);
`

// PostgresLog stores upload records in the dataset_uploads table.
type PostgresLog struct {
	db DB
}

// NewPostgresLog creates a log over db. Call Migrate before first use.
func NewPostgresLog(db DB) *PostgresLog {
	return &PostgresLog{db: db}
}

// Migrate creates the dataset_uploads table if it does not exist.
func (p *PostgresLog) Migrate(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate dataset_uploads: %w", err)
	}
	return nil
}

// Record inserts rec.
func (p *PostgresLog) Record(ctx context.Context, rec core.UploadRecord) error {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return fmt.Errorf("record upload: invalid id %q: %w", rec.ID, err)
	}

	var ip *netip.Addr
	if addr, err := netip.ParseAddr(rec.IP); err == nil {
		ip = &addr
	}

	_, err = p.db.Exec(ctx,
		`INSERT INTO dataset_uploads (id, dataset, original_name, size_bytes, ip_address, user_agent, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		pgtype.UUID{Bytes: id, Valid: true},
		rec.Dataset,
		rec.OriginalName,
		rec.Size,
		ip,
		pgtype.Text{String: rec.UserAgent, Valid: rec.UserAgent != ""},
		pgtype.Timestamptz{Time: rec.UploadedAt, Valid: !rec.UploadedAt.IsZero()},
	)
	if err != nil {
		return fmt.Errorf("record upload: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (p *PostgresLog) Recent(ctx context.Context, limit int) ([]core.UploadRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := p.db.Query(ctx,
		`SELECT id, dataset, original_name, size_bytes, ip_address, user_agent, uploaded_at
		 FROM dataset_uploads ORDER BY uploaded_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query uploads: %w", err)
	}
	defer rows.Close()

	records := make([]core.UploadRecord, 0)
	for rows.Next() {
		rec, err := scanUploadRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query uploads: %w", err)
	}
	return records, nil
}

func scanUploadRow(rows pgx.Rows) (core.UploadRecord, error) {
	var (
		id         pgtype.UUID
		dataset    string
		name       string
		size       int64
		ipAddress  *netip.Addr
		userAgent  pgtype.Text
		uploadedAt pgtype.Timestamptz
	)
	if err := rows.Scan(&id, &dataset, &name, &size, &ipAddress, &userAgent, &uploadedAt); err != nil {
		return core.UploadRecord{}, fmt.Errorf("scan upload: %w", err)
	}

	rec := core.UploadRecord{
		Dataset:      dataset,
		OriginalName: name,
		Size:         size,
		UploadedAt:   uploadedAt.Time,
	}
	if id.Valid {
		rec.ID = uuid.UUID(id.Bytes).String()
	}
	if ipAddress != nil {
		rec.IP = ipAddress.String()
	}
	if userAgent.Valid {
		rec.UserAgent = userAgent.String
	}
	return rec, nil
}
