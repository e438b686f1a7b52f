package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Store persists report snapshots and batch job records. It is an audit and
// history convenience: nothing in the request path depends on it, and the
// service runs without it when no DSN is configured.
type Store struct{ DB *sql.DB }

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Store{DB: db}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

func (s *Store) Close() error { return s.DB.Close() }

func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE TABLE IF NOT EXISTS report_snapshots (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			environment    TEXT NOT NULL,
			endpoint       TEXT NOT NULL,
			property_key   TEXT,
			payload        JSONB NOT NULL,
			payload_sha256 TEXT NOT NULL,
			fetched_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_endpoint ON report_snapshots(endpoint, fetched_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_property ON report_snapshots(property_key, fetched_at DESC);`,
		`CREATE TABLE IF NOT EXISTS batch_jobs (
			id UUID PRIMARY KEY,
			filename      TEXT NOT NULL,
			endpoint      TEXT NOT NULL,
			environment   TEXT NOT NULL,
			total_rows    INT NOT NULL,
			ok_rows       INT NOT NULL,
			failed_rows   INT NOT NULL,
			started_at    TIMESTAMPTZ NOT NULL,
			finished_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_batch_jobs_finished ON batch_jobs(finished_at DESC);`,
	}
	for _, q := range stmts {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// SnapshotInput is one vendor payload to record.
type SnapshotInput struct {
	Environment string
	Endpoint    string
	PropertyKey string
	Payload     []byte
}

func (s *Store) InsertSnapshot(ctx context.Context, in SnapshotInput) error {
	sum := sha256.Sum256(in.Payload)
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO report_snapshots (environment, endpoint, property_key, payload, payload_sha256)
		VALUES ($1,$2,$3,$4,$5)`,
		in.Environment, in.Endpoint, nullString(in.PropertyKey), string(in.Payload), hex.EncodeToString(sum[:]),
	)
	return err
}

// SnapshotRecord is one history row, payload omitted.
type SnapshotRecord struct {
	ID          string    `json:"id"`
	Environment string    `json:"environment"`
	Endpoint    string    `json:"endpoint"`
	PropertyKey string    `json:"property_key,omitempty"`
	SHA256      string    `json:"payload_sha256"`
	FetchedAt   time.Time `json:"fetched_at"`
}

func (s *Store) RecentSnapshots(ctx context.Context, limit int) ([]SnapshotRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, environment, endpoint, COALESCE(property_key, ''), payload_sha256, fetched_at
		FROM report_snapshots ORDER BY fetched_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SnapshotRecord
	for rows.Next() {
		var rec SnapshotRecord
		if err := rows.Scan(&rec.ID, &rec.Environment, &rec.Endpoint, &rec.PropertyKey, &rec.SHA256, &rec.FetchedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// BatchJobRecord summarizes one completed CSV batch.
type BatchJobRecord struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Endpoint    string    `json:"endpoint"`
	Environment string    `json:"environment"`
	TotalRows   int       `json:"total_rows"`
	OKRows      int       `json:"ok_rows"`
	FailedRows  int       `json:"failed_rows"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

func (s *Store) InsertBatchJob(ctx context.Context, rec BatchJobRecord) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO batch_jobs (id, filename, endpoint, environment, total_rows, ok_rows, failed_rows, started_at, finished_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		rec.ID, rec.Filename, rec.Endpoint, rec.Environment, rec.TotalRows, rec.OKRows, rec.FailedRows, rec.StartedAt, rec.FinishedAt,
	)
	return err
}

func (s *Store) RecentBatchJobs(ctx context.Context, limit int) ([]BatchJobRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, filename, endpoint, environment, total_rows, ok_rows, failed_rows, started_at, finished_at
		FROM batch_jobs ORDER BY finished_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BatchJobRecord
	for rows.Next() {
		var rec BatchJobRecord
		if err := rows.Scan(&rec.ID, &rec.Filename, &rec.Endpoint, &rec.Environment, &rec.TotalRows, &rec.OKRows, &rec.FailedRows, &rec.StartedAt, &rec.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
