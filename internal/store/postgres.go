package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"personnel-audit-bot/internal/models"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// RunMigrations creates tables if they don't exist
func (s *PostgresStore) RunMigrations(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// === Audit journal ===

func (s *PostgresStore) InsertAudit(ctx context.Context, rec models.AuditRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audits (id, guild_id, channel_id, invoker_id, target_user_id, auditor_info,
		                     employee_name, passport_number, position, reason_text, action_date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		rec.ID, rec.GuildID, rec.ChannelID, rec.InvokerID, rec.TargetUserID, rec.AuditorInfo,
		rec.EmployeeName, rec.PassportNumber, rec.Position, rec.ReasonText, rec.ActionDate, rec.CreatedAt,
	)
	return err
}
