package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"picnify/internal/data/entity"
	"picnify/internal/data/repository"
	"picnify/internal/dto/request"
	"picnify/internal/dto/response"
	"picnify/pkg/cache"
	"picnify/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const propertyCacheTTL = 5 * time.Minute

type PropertyService interface {
	GetProperties(ctx context.Context, req *request.PropertyListRequest) (*response.PaginatedResponse[response.PropertyResponse], error)
	GetPropertyByID(ctx context.Context, propertyID string) (*response.PropertyResponse, error)
	GetMyProperties(ctx context.Context, actor utils.Actor, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PropertyResponse], error)

	CreateProperty(ctx context.Context, actor utils.Actor, req *request.CreatePropertyRequest) (*response.PropertyResponse, error)
	UpdateProperty(ctx context.Context, actor utils.Actor, propertyID string, req *request.UpdatePropertyRequest) (*response.PropertyResponse, error)
	DeleteProperty(ctx context.Context, actor utils.Actor, propertyID string) error
}

type propertyService struct {
	repo  *repository.Repository
	cache cache.Cache
	now   func() time.Time
	log   *zap.Logger
}

func NewPropertyService(repo *repository.Repository, deps Deps, log *zap.Logger) PropertyService {
	return &propertyService{
		repo:  repo,
		cache: deps.Cache,
		now:   deps.Now,
		log:   log.With(zap.String("service", "property")),
	}
}

func (s *propertyService) GetProperties(ctx context.Context, req *request.PropertyListRequest) (*response.PaginatedResponse[response.PropertyResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	req.Normalize()

	filter := repository.PropertyFilter{}
	if city := strings.TrimSpace(req.City); city != "" {
		filter.City = &city
	}
	if req.Type != "" {
		t := entity.PropertyType(req.Type)
		filter.Type = &t
	}

	return s.list(ctx, filter, req.PaginatedRequest)
}

func (s *propertyService) GetMyProperties(ctx context.Context, actor utils.Actor, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PropertyResponse], error) {
	req.Normalize()
	return s.list(ctx, repository.PropertyFilter{OwnerID: &actor.UserID}, *req)
}

func (s *propertyService) list(ctx context.Context, filter repository.PropertyFilter, page request.PaginatedRequest) (*response.PaginatedResponse[response.PropertyResponse], error) {
	properties, err := s.repo.Property.FindAll(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to get properties from repository",
			zap.Error(err),
			zap.Int("page", page.Page),
			zap.Int("per_page", page.PerPage),
			zap.Stringp("city_filter", filter.City),
		)
		return nil, fmt.Errorf("get properties: %w", err)
	}

	total, err := s.repo.Property.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count properties: %w", err)
	}

	items := make([]response.PropertyResponse, len(properties))
	for i, p := range properties {
		items[i] = response.PropertyToResponse(p)
	}

	return response.NewPaginatedResponse(items, page.Page, page.PerPage, total), nil
}

func (s *propertyService) GetPropertyByID(ctx context.Context, propertyID string) (*response.PropertyResponse, error) {
	id, err := uuid.Parse(propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid property ID %q", ErrInvalidArgument, propertyID)
	}

	var cached response.PropertyResponse
	if hit, err := s.cache.GetJSON(ctx, propertyCacheKey(id), &cached); err != nil {
		s.log.Warn("Property cache read failed", zap.Error(err), zap.String("property_id", propertyID))
	} else if hit {
		return &cached, nil
	}

	property, err := s.findProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	if !property.IsActive {
		return nil, fmt.Errorf("%w: property not found", ErrNotFound)
	}

	resp := response.PropertyToResponse(property)
	if err := s.cache.SetJSON(ctx, propertyCacheKey(id), resp, propertyCacheTTL); err != nil {
		s.log.Warn("Property cache write failed", zap.Error(err), zap.String("property_id", propertyID))
	}

	return &resp, nil
}

func (s *propertyService) CreateProperty(ctx context.Context, actor utils.Actor, req *request.CreatePropertyRequest) (*response.PropertyResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	if actor.Role != string(entity.RoleOwner) && actor.Role != string(entity.RoleAdmin) {
		return nil, fmt.Errorf("%w: only owners can list properties", ErrForbidden)
	}

	now := s.now()
	property := &entity.Property{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OwnerID:     actor.UserID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Type:        entity.PropertyType(req.Type),
		City:        strings.TrimSpace(req.City),
		Address:     strings.TrimSpace(req.Address),
		AdultRate:   req.AdultRate,
		ChildRate:   req.ChildRate,
		MaxGuests:   req.MaxGuests,
		IsActive:    true,
	}

	if err := s.repo.Property.Create(ctx, property); err != nil {
		s.log.Error("Failed to create property", zap.Error(err), zap.String("title", property.Title))
		return nil, fmt.Errorf("create property: %w", err)
	}

	s.log.Info("Property created",
		zap.String("property_id", property.ID.String()),
		zap.String("owner_id", actor.UserID.String()),
		zap.String("type", string(property.Type)),
	)

	resp := response.PropertyToResponse(property)
	return &resp, nil
}

func (s *propertyService) UpdateProperty(ctx context.Context, actor utils.Actor, propertyID string, req *request.UpdatePropertyRequest) (*response.PropertyResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	property, err := s.ownedProperty(ctx, actor, propertyID)
	if err != nil {
		return nil, err
	}

	// Update fields if provided
	if req.Title != nil {
		property.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		property.Description = req.Description
	}
	if req.Type != nil {
		property.Type = entity.PropertyType(*req.Type)
	}
	if req.City != nil {
		property.City = strings.TrimSpace(*req.City)
	}
	if req.Address != nil {
		property.Address = strings.TrimSpace(*req.Address)
	}
	if req.AdultRate != nil {
		property.AdultRate = *req.AdultRate
	}
	if req.ChildRate != nil {
		property.ChildRate = *req.ChildRate
	}
	if req.MaxGuests != nil {
		property.MaxGuests = *req.MaxGuests
	}
	if req.IsActive != nil {
		property.IsActive = *req.IsActive
	}
	property.UpdatedAt = s.now()

	if err := s.repo.Property.Update(ctx, property); err != nil {
		s.log.Error("Failed to update property", zap.Error(err), zap.String("property_id", propertyID))
		return nil, fmt.Errorf("update property: %w", err)
	}
	s.invalidate(ctx, property.ID)

	s.log.Info("Property updated", zap.String("property_id", propertyID))

	resp := response.PropertyToResponse(property)
	return &resp, nil
}

func (s *propertyService) DeleteProperty(ctx context.Context, actor utils.Actor, propertyID string) error {
	property, err := s.ownedProperty(ctx, actor, propertyID)
	if err != nil {
		return err
	}

	if err := s.repo.Property.Delete(ctx, property.ID); err != nil {
		s.log.Error("Failed to delete property", zap.Error(err), zap.String("property_id", propertyID))
		return fmt.Errorf("delete property: %w", err)
	}
	s.invalidate(ctx, property.ID)

	s.log.Info("Property deleted", zap.String("property_id", propertyID))
	return nil
}

// ownedProperty loads a property the actor may modify: its owner or an admin.
func (s *propertyService) ownedProperty(ctx context.Context, actor utils.Actor, propertyID string) (*entity.Property, error) {
	id, err := uuid.Parse(propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid property ID %q", ErrInvalidArgument, propertyID)
	}

	property, err := s.findProperty(ctx, id)
	if err != nil {
		return nil, err
	}

	if property.OwnerID != actor.UserID && actor.Role != string(entity.RoleAdmin) {
		s.log.Warn("Property access denied",
			zap.String("property_id", propertyID),
			zap.String("actor_id", actor.UserID.String()),
		)
		return nil, fmt.Errorf("%w: not your property", ErrForbidden)
	}

	return property, nil
}

func (s *propertyService) findProperty(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	property, err := s.repo.Property.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get property by ID", zap.Error(err), zap.String("property_id", id.String()))
		return nil, fmt.Errorf("get property %s: %w", id, err)
	}
	if property == nil {
		return nil, fmt.Errorf("%w: property not found", ErrNotFound)
	}
	return property, nil
}

func (s *propertyService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, propertyCacheKey(id)); err != nil {
		s.log.Warn("Property cache invalidation failed", zap.Error(err), zap.String("property_id", id.String()))
	}
}

func propertyCacheKey(id uuid.UUID) string {
	return "property:" + id.String()
}
