package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/saatgomi1/secondsense/models"
)

// SessionRepository stores sessions in PostgreSQL
// Implements SessionRepositoryInterface
type SessionRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const sessionsTable = "garment_sessions"

var sessionColumns = []string{
	"id", "record", "pending", "raw_text", "composite_image", "confirmed", "created_at", "updated_at",
}

// Ensure SessionRepository implements SessionRepositoryInterface
var _ SessionRepositoryInterface = (*SessionRepository)(nil)

const createSessionsTable = `
	CREATE TABLE IF NOT EXISTS garment_sessions (
		id UUID PRIMARY KEY,
		record JSONB NOT NULL,
		pending JSONB NOT NULL DEFAULT '{}'::jsonb,
		raw_text TEXT NOT NULL DEFAULT '',
		composite_image BYTEA,
		confirmed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)
`

// EnsureSchema creates the garment_sessions table if it does not exist
func (r *SessionRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSessionsTable); err != nil {
		return fmt.Errorf("failed to create garment_sessions table: %w", err)
	}
	log.Printf("✓ garment_sessions table ready")
	return nil
}

// Save upserts the session
func (r *SessionRepository) Save(ctx context.Context, session *models.Session) error {
	query, args, err := r.saveQuery(session)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Printf("❌ Error saving session %s: %v", session.ID, err)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) saveQuery(session *models.Session) (string, []interface{}, error) {
	if session == nil || session.ID == "" || session.Record == nil {
		return "", nil, fmt.Errorf("session id and record are required")
	}

	record, err := json.Marshal(session.Record)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode record: %w", err)
	}
	pending, err := json.Marshal(session.Pending)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode pending inputs: %w", err)
	}

	return r.builder.Insert(sessionsTable).
		Columns(sessionColumns...).
		Values(
			session.ID,
			record,
			pending,
			session.Record.RawText,
			session.Record.CompositeImage,
			session.Confirmed,
			session.CreatedAt,
			session.UpdatedAt,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			record = EXCLUDED.record,
			pending = EXCLUDED.pending,
			raw_text = EXCLUDED.raw_text,
			composite_image = EXCLUDED.composite_image,
			confirmed = EXCLUDED.confirmed,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
}

// Get loads a session by id
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	query, args, err := r.builder.Select(sessionColumns...).
		From(sessionsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var (
		session         models.Session
		record, pending []byte
		rawText         string
		compositeImage  []byte
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&session.ID,
		&record,
		&pending,
		&rawText,
		&compositeImage,
		&session.Confirmed,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session.Record = &models.GarmentRecord{}
	if err := json.Unmarshal(record, session.Record); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	session.Record.RawText = rawText
	session.Record.CompositeImage = compositeImage

	session.Pending = map[string]string{}
	if len(pending) > 0 {
		if err := json.Unmarshal(pending, &session.Pending); err != nil {
			return nil, fmt.Errorf("failed to decode pending inputs: %w", err)
		}
	}
	return &session, nil
}

// Delete removes a session by id
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	query, args, err := r.builder.Delete(sessionsTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		log.Printf("⚠️  Warning: Could not get rows affected: %v", err)
		return nil
	}
	if rows == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteOlderThan removes sessions last updated before cutoff
func (r *SessionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := r.builder.Delete(sessionsTable).Where(sq.Lt{"updated_at": cutoff}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}
