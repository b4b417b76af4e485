package services

import (
	"context"
	"errors"
	"strings"

	"community_issues/internal/auth"
	"community_issues/internal/logger"
	"community_issues/internal/repositories"
	"community_issues/internal/services/dto"
	"community_issues/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	GetUsers(ctx context.Context, db *gorm.DB) ([]dto.UserResponse, error)
	GetUser(ctx context.Context, db *gorm.DB, id uint) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, db *gorm.DB, id uint, req *dto.UpdateUserRequest) error
	DeleteUser(ctx context.Context, db *gorm.DB, id uint) error
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUsers(ctx context.Context, db *gorm.DB) ([]dto.UserResponse, error) {
	users, err := s.userRepo.FindAll(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, dto.NewUserResponse(&users[i]))
	}
	return resp, nil
}

func (s *userService) GetUser(ctx context.Context, db *gorm.DB, id uint) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, id)
	if err != nil {
		return nil, handleUserError(err)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// UpdateUser writes the supplied profile fields. The role is never changed.
func (s *userService) UpdateUser(ctx context.Context, db *gorm.DB, id uint, req *dto.UpdateUserRequest) error {
	fields := make(map[repositories.UserField]interface{})
	if req.Name != nil {
		fields[repositories.UserFieldName] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		fields[repositories.UserFieldPhone] = *req.Phone
	}
	if req.Barangay != nil {
		fields[repositories.UserFieldBarangay] = *req.Barangay
	}
	if req.Avatar != nil {
		fields[repositories.UserFieldAvatar] = *req.Avatar
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return handlePasswordError(err)
		}
		fields[repositories.UserFieldPassword] = hash
	}
	if req.Email != nil {
		fields[repositories.UserFieldEmail] = strings.TrimSpace(*req.Email)
	}
	if len(fields) == 0 {
		return apperrors.ErrNoFieldsToUpdate
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.userRepo.FindByID(tx, id); err != nil {
		return handleUserError(err)
	}

	if newEmail, ok := fields[repositories.UserFieldEmail]; ok {
		taken, err := s.userRepo.EmailTaken(tx, newEmail.(string), id)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if taken {
			return apperrors.ErrEmailAlreadyExists
		}
	}

	if err := s.userRepo.Update(tx, id, fields); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return apperrors.ErrEmailAlreadyExists
		}
		return apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "User updated", "user_id", id, "fields", len(fields))
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, db *gorm.DB, id uint) error {
	if err := s.userRepo.Delete(db, id); err != nil {
		return handleUserError(err)
	}
	logger.CtxInfo(ctx, "User deleted", "user_id", id)
	return nil
}
