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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	GetAllUsers(ctx context.Context, req *request.ListUsersRequest) (*response.PaginatedResponse[response.UserResponse], error)
	DeleteUser(ctx context.Context, userID string) error

	SaveBankDetails(ctx context.Context, userID uuid.UUID, req *request.BankDetailsRequest) (*response.BankDetailsResponse, error)
	GetBankDetails(ctx context.Context, userID uuid.UUID) (*response.BankDetailsResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	bankRepo repository.BankDetailRepository
	now      func() time.Time
	log      *zap.Logger
}

func NewUserService(repo *repository.Repository, deps Deps, log *zap.Logger) UserService {
	return &userService{
		userRepo: repo.User,
		bankRepo: repo.BankDetail,
		now:      deps.Now,
		log:      log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	user.UpdatedAt = us.now()

	if err := us.userRepo.Update(ctx, user); err != nil {
		us.log.Error("Failed to update profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("update profile: %w", err)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) GetAllUsers(ctx context.Context, req *request.ListUsersRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	req.Normalize()

	var role *entity.UserRole
	if req.Role != "" {
		r := entity.UserRole(req.Role)
		role = &r
	}

	users, err := us.userRepo.FindAll(ctx, role, req.Limit(), req.Offset())
	if err != nil {
		us.log.Error("Failed to get all users",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("list users: %w", err)
	}

	total, err := us.userRepo.CountAll(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	userResponses := make([]response.UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = response.UserToResponse(user)
	}

	us.log.Debug("Users retrieved",
		zap.Int("count", len(users)),
		zap.Int64("total", total),
		zap.Int("page", req.Page),
	)

	return response.NewPaginatedResponse(userResponses, req.Page, req.PerPage, total), nil
}

func (us *userService) DeleteUser(ctx context.Context, userID string) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("%w: invalid user ID", ErrInvalidArgument)
	}

	user, err := us.findUser(ctx, id)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return fmt.Errorf("%w: admin accounts cannot be deleted", ErrForbidden)
	}

	if err := us.userRepo.Delete(ctx, id); err != nil {
		us.log.Error("Failed to delete user", zap.Error(err), zap.String("id", userID))
		return fmt.Errorf("delete user: %w", err)
	}

	us.log.Info("User deleted", zap.String("user_id", id.String()))
	return nil
}

// SaveBankDetails stores where an owner's payouts go. Only owners have one.
func (us *userService) SaveBankDetails(ctx context.Context, userID uuid.UUID, req *request.BankDetailsRequest) (*response.BankDetailsResponse, error) {
	req.IFSC = strings.ToUpper(strings.TrimSpace(req.IFSC))
	if req.PAN != nil {
		pan := strings.ToUpper(strings.TrimSpace(*req.PAN))
		req.PAN = &pan
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != entity.RoleOwner {
		return nil, fmt.Errorf("%w: only property owners can save bank details", ErrForbidden)
	}

	now := us.now()
	detail := &entity.BankDetail{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:            userID,
		AccountHolderName: strings.TrimSpace(req.AccountHolderName),
		AccountNumber:     req.AccountNumber,
		IFSC:              req.IFSC,
		BankName:          strings.TrimSpace(req.BankName),
		PAN:               req.PAN,
	}

	if err := us.bankRepo.Upsert(ctx, detail); err != nil {
		us.log.Error("Failed to save bank details", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("save bank details: %w", err)
	}

	us.log.Info("Bank details saved", zap.String("user_id", userID.String()))

	resp := response.BankDetailsToResponse(detail)
	return &resp, nil
}

func (us *userService) GetBankDetails(ctx context.Context, userID uuid.UUID) (*response.BankDetailsResponse, error) {
	detail, err := us.bankRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find bank details: %w", err)
	}
	if detail == nil {
		return nil, fmt.Errorf("%w: no bank details on file", ErrNotFound)
	}

	resp := response.BankDetailsToResponse(detail)
	return &resp, nil
}

func (us *userService) findUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := us.userRepo.FindByID(ctx, id)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", id.String()))
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	return user, nil
}
