package repository

import (
	"context"
	"fmt"

	"picnify/internal/data/entity"
	"picnify/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type AuditLogRepository interface {
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingAuditLog, error)
}

type auditLogRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAuditLogRepository(db database.PgxIface, log *zap.Logger) AuditLogRepository {
	return &auditLogRepository{
		db:  db,
		log: log.With(zap.String("repository", "audit_log")),
	}
}

// execer is satisfied by both the pool and a pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// insertAudit appends an audit row. Booking state changes call it inside
// their own transaction so the row and the change commit together.
func insertAudit(ctx context.Context, db execer, audit *entity.BookingAuditLog) error {
	metadata := audit.Metadata
	if len(metadata) == 0 {
		metadata = []byte(`{}`)
	}

	_, err := db.Exec(ctx, `
		INSERT INTO booking_audit_logs (id, booking_id, actor_id, action, reason, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		audit.ID,
		audit.BookingID,
		audit.ActorID,
		audit.Action,
		audit.Reason,
		[]byte(metadata),
		audit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit %s for booking %s: %w", audit.Action, audit.BookingID.String(), err)
	}

	return nil
}

func (r *auditLogRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingAuditLog, error) {
	query := `
		SELECT id, booking_id, actor_id, action, reason, metadata, created_at
		FROM booking_audit_logs
		WHERE booking_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find audit logs",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find audit logs of booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var logs []*entity.BookingAuditLog
	for rows.Next() {
		var (
			entry    entity.BookingAuditLog
			metadata []byte
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.BookingID,
			&entry.ActorID,
			&entry.Action,
			&entry.Reason,
			&metadata,
			&entry.CreatedAt,
		); err != nil {
			r.log.Error("Failed to scan audit row", zap.Error(err))
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		entry.Metadata = metadata
		logs = append(logs, &entry)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate audit rows: %w", err)
	}

	return logs, nil
}
