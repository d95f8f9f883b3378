package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"picnify/internal/data/entity"
	"picnify/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// PropertyFilter narrows public listings. Nil fields are ignored.
type PropertyFilter struct {
	City    *string
	Type    *entity.PropertyType
	OwnerID *uuid.UUID
}

type PropertyRepository interface {
	Create(ctx context.Context, property *entity.Property) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error)
	FindAll(ctx context.Context, filter PropertyFilter, limit, offset int) ([]*entity.Property, error)
	CountAll(ctx context.Context, filter PropertyFilter) (int64, error)
	Update(ctx context.Context, property *entity.Property) error
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type propertyRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPropertyRepository(db database.PgxIface, log *zap.Logger) PropertyRepository {
	return &propertyRepository{
		db:  db,
		log: log.With(zap.String("repository", "property")),
	}
}

const propertyColumns = `id, owner_id, title, description, property_type, city, address,
		       adult_rate, child_rate, max_guests, rating, is_active,
		       created_at, updated_at, deleted_at`

func scanProperty(row pgx.Row) (*entity.Property, error) {
	var p entity.Property
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Title,
		&p.Description,
		&p.Type,
		&p.City,
		&p.Address,
		&p.AdultRate,
		&p.ChildRate,
		&p.MaxGuests,
		&p.Rating,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *propertyRepository) Create(ctx context.Context, property *entity.Property) error {
	query := `
		INSERT INTO properties (id, owner_id, title, description, property_type, city, address,
		                        adult_rate, child_rate, max_guests, rating, is_active,
		                        created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		property.ID,
		property.OwnerID,
		property.Title,
		property.Description,
		property.Type,
		property.City,
		property.Address,
		property.AdultRate,
		property.ChildRate,
		property.MaxGuests,
		property.Rating,
		property.IsActive,
		property.CreatedAt,
		property.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create property",
			zap.Error(err),
			zap.String("title", property.Title),
			zap.String("owner_id", property.OwnerID.String()),
		)
		return fmt.Errorf("create property %s: %w", property.Title, err)
	}

	return nil
}

func (r *propertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1 AND deleted_at IS NULL`

	property, err := scanProperty(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find property by ID",
			zap.Error(err),
			zap.String("property_id", id.String()),
		)
		return nil, fmt.Errorf("find property by ID %s: %w", id.String(), err)
	}

	return property, nil
}

// where builds the filter clause shared by FindAll and CountAll. Owner
// listings include inactive properties; public ones do not.
func (f PropertyFilter) where() (string, []any) {
	var sb strings.Builder
	sb.WriteString(" WHERE deleted_at IS NULL")
	args := []any{}

	if f.OwnerID != nil {
		args = append(args, *f.OwnerID)
		sb.WriteString(fmt.Sprintf(" AND owner_id = $%d", len(args)))
	} else {
		sb.WriteString(" AND is_active = true")
	}
	if f.City != nil && *f.City != "" {
		args = append(args, "%"+*f.City+"%")
		sb.WriteString(fmt.Sprintf(" AND city ILIKE $%d", len(args)))
	}
	if f.Type != nil && *f.Type != "" {
		args = append(args, *f.Type)
		sb.WriteString(fmt.Sprintf(" AND property_type = $%d", len(args)))
	}

	return sb.String(), args
}

func (r *propertyRepository) FindAll(ctx context.Context, filter PropertyFilter, limit, offset int) ([]*entity.Property, error) {
	where, args := filter.where()
	args = append(args, limit, offset)
	query := `SELECT ` + propertyColumns + ` FROM properties` + where +
		fmt.Sprintf(" ORDER BY rating DESC, created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find all properties",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all properties limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var properties []*entity.Property
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			r.log.Error("Failed to scan property row", zap.Error(err))
			return nil, fmt.Errorf("scan property row: %w", err)
		}
		properties = append(properties, property)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate property rows: %w", err)
	}

	return properties, nil
}

func (r *propertyRepository) CountAll(ctx context.Context, filter PropertyFilter) (int64, error) {
	where, args := filter.where()

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM properties`+where, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count properties", zap.Error(err))
		return 0, fmt.Errorf("count all properties: %w", err)
	}

	return total, nil
}

func (r *propertyRepository) Update(ctx context.Context, property *entity.Property) error {
	query := `
		UPDATE properties
		SET title = $2, description = $3, property_type = $4, city = $5, address = $6,
		    adult_rate = $7, child_rate = $8, max_guests = $9, is_active = $10, updated_at = $11
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		property.ID,
		property.Title,
		property.Description,
		property.Type,
		property.City,
		property.Address,
		property.AdultRate,
		property.ChildRate,
		property.MaxGuests,
		property.IsActive,
		property.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update property",
			zap.Error(err),
			zap.String("property_id", property.ID.String()),
		)
		return fmt.Errorf("update property %s: %w", property.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("property %s not found or already deleted", property.ID.String())
	}

	return nil
}

func (r *propertyRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error {
	query := `UPDATE properties SET rating = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	if _, err := r.db.Exec(ctx, query, id, rating); err != nil {
		r.log.Error("Failed to update property rating",
			zap.Error(err),
			zap.String("property_id", id.String()),
		)
		return fmt.Errorf("update rating of property %s: %w", id.String(), err)
	}

	return nil
}

func (r *propertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE properties SET deleted_at = NOW(), is_active = false WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete property",
			zap.Error(err),
			zap.String("property_id", id.String()),
		)
		return fmt.Errorf("delete property %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("property %s not found", id.String())
	}

	r.log.Info("Property deleted", zap.String("property_id", id.String()))
	return nil
}
