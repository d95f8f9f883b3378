package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"picnify/internal/data/entity"
	"picnify/internal/data/repository"
	"picnify/internal/dto/request"
	"picnify/internal/dto/response"
	"picnify/internal/pricing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CouponService interface {
	CreateCoupon(ctx context.Context, req *request.CreateCouponRequest) (*response.CouponResponse, error)
	GetCoupons(ctx context.Context, req *request.PaginatedRequest, activeOnly bool) (*response.PaginatedResponse[response.CouponResponse], error)
	DeactivateCoupon(ctx context.Context, code string) error
	PreviewCoupon(ctx context.Context, req *request.PreviewCouponRequest) (*response.CouponPreviewResponse, error)
}

type couponService struct {
	couponRepo repository.CouponRepository
	now        func() time.Time
	log        *zap.Logger
}

func NewCouponService(repo *repository.Repository, deps Deps, log *zap.Logger) CouponService {
	return &couponService{
		couponRepo: repo.Coupon,
		now:        deps.Now,
		log:        log.With(zap.String("service", "coupon")),
	}
}

func (s *couponService) CreateCoupon(ctx context.Context, req *request.CreateCouponRequest) (*response.CouponResponse, error) {
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if err := validate(req); err != nil {
		return nil, err
	}

	discountType := pricing.DiscountType(req.DiscountType)
	if discountType == pricing.DiscountPercentage && req.DiscountValue > 100 {
		return nil, &ValidationError{Fields: map[string]string{
			"discount_value": "Percentage discount must not exceed 100",
		}}
	}
	if req.ValidFrom != nil && req.ValidUntil != nil && req.ValidUntil.Before(*req.ValidFrom) {
		return nil, &ValidationError{Fields: map[string]string{
			"valid_until": "Must be after valid_from",
		}}
	}

	existing, err := s.couponRepo.FindByCode(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("check coupon code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: coupon %s already exists", ErrConflict, req.Code)
	}

	now := s.now()
	coupon := &entity.Coupon{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Code:           req.Code,
		Description:    req.Description,
		DiscountType:   discountType,
		DiscountValue:  req.DiscountValue,
		MaxDiscount:    req.MaxDiscount,
		MinOrderAmount: req.MinOrderAmount,
		ValidFrom:      req.ValidFrom,
		ValidUntil:     req.ValidUntil,
		UsageLimit:     req.UsageLimit,
		IsActive:       true,
	}

	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		s.log.Error("Failed to create coupon", zap.Error(err), zap.String("code", coupon.Code))
		return nil, fmt.Errorf("create coupon: %w", err)
	}

	s.log.Info("Coupon created",
		zap.String("code", coupon.Code),
		zap.String("discount_type", string(coupon.DiscountType)),
		zap.Int64("discount_value", coupon.DiscountValue),
	)

	resp := response.CouponToResponse(coupon)
	return &resp, nil
}

func (s *couponService) GetCoupons(ctx context.Context, req *request.PaginatedRequest, activeOnly bool) (*response.PaginatedResponse[response.CouponResponse], error) {
	req.Normalize()

	coupons, err := s.couponRepo.FindAll(ctx, activeOnly, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}

	total, err := s.couponRepo.CountAll(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("count coupons: %w", err)
	}

	items := make([]response.CouponResponse, len(coupons))
	for i, c := range coupons {
		items[i] = response.CouponToResponse(c)
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *couponService) DeactivateCoupon(ctx context.Context, code string) error {
	coupon, err := s.findCoupon(ctx, code)
	if err != nil {
		return err
	}

	if err := s.couponRepo.Deactivate(ctx, coupon.ID); err != nil {
		return fmt.Errorf("deactivate coupon: %w", err)
	}

	s.log.Info("Coupon deactivated", zap.String("code", coupon.Code))
	return nil
}

// PreviewCoupon reports the discount a coupon would give on amount without
// redeeming it.
func (s *couponService) PreviewCoupon(ctx context.Context, req *request.PreviewCouponRequest) (*response.CouponPreviewResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	coupon, err := s.findCoupon(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if coupon.Exhausted() {
		return nil, fmt.Errorf("%w: coupon %s usage limit reached", ErrInvalidArgument, coupon.Code)
	}

	discount, err := pricing.CouponDiscount(coupon.Terms(), req.Amount, s.now())
	if err != nil {
		return nil, mapPricingError(err)
	}

	resp := response.NewCouponPreview(coupon.Code, req.Amount, discount)
	return &resp, nil
}

func (s *couponService) findCoupon(ctx context.Context, code string) (*entity.Coupon, error) {
	coupon, err := s.couponRepo.FindByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("find coupon: %w", err)
	}
	if coupon == nil {
		return nil, fmt.Errorf("%w: coupon not found", ErrNotFound)
	}
	return coupon, nil
}

// mapPricingError turns calculator errors into usecase errors the handlers
// understand.
func mapPricingError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrCouponNotApplicable), errors.Is(err, pricing.ErrInvalidArgument):
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	default:
		return err
	}
}
