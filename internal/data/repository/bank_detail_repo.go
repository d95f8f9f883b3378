package repository

import (
	"context"
	"errors"
	"fmt"

	"picnify/internal/data/entity"
	"picnify/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BankDetailRepository interface {
	Upsert(ctx context.Context, detail *entity.BankDetail) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.BankDetail, error)
}

type bankDetailRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBankDetailRepository(db database.PgxIface, log *zap.Logger) BankDetailRepository {
	return &bankDetailRepository{
		db:  db,
		log: log.With(zap.String("repository", "bank_detail")),
	}
}

// Upsert keeps one bank detail row per user; saving again replaces it.
func (r *bankDetailRepository) Upsert(ctx context.Context, detail *entity.BankDetail) error {
	query := `
		INSERT INTO bank_details (id, user_id, account_holder_name, account_number,
		                          ifsc, bank_name, pan, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE
		SET account_holder_name = EXCLUDED.account_holder_name,
		    account_number = EXCLUDED.account_number,
		    ifsc = EXCLUDED.ifsc,
		    bank_name = EXCLUDED.bank_name,
		    pan = EXCLUDED.pan,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query,
		detail.ID,
		detail.UserID,
		detail.AccountHolderName,
		detail.AccountNumber,
		detail.IFSC,
		detail.BankName,
		detail.PAN,
		detail.CreatedAt,
		detail.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to save bank details",
			zap.Error(err),
			zap.String("user_id", detail.UserID.String()),
		)
		return fmt.Errorf("save bank details of user %s: %w", detail.UserID.String(), err)
	}

	return nil
}

func (r *bankDetailRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.BankDetail, error) {
	query := `
		SELECT id, user_id, account_holder_name, account_number, ifsc, bank_name, pan,
		       created_at, updated_at
		FROM bank_details
		WHERE user_id = $1
	`

	var d entity.BankDetail
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&d.ID,
		&d.UserID,
		&d.AccountHolderName,
		&d.AccountNumber,
		&d.IFSC,
		&d.BankName,
		&d.PAN,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find bank details",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find bank details of user %s: %w", userID.String(), err)
	}

	return &d, nil
}
