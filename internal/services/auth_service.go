package services

import (
	"context"
	"time"

	"barber_backend/internal/auth"
	"barber_backend/internal/config"
	"barber_backend/internal/logger"
	"barber_backend/internal/models"
	"barber_backend/internal/repositories"
	"barber_backend/internal/services/dto"
	"barber_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error)
	// Authenticate проверяет токен и возвращает активного сотрудника
	Authenticate(db *gorm.DB, token string) (*models.User, error)
	SeedAdmin(ctx context.Context, db *gorm.DB) error
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
	jwt      *auth.JWTManager
	cfg      *config.Config
}

func NewAuthService(userRepo repositories.UserRepository, jwt *auth.JWTManager, cfg *config.Config) AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
		jwt:      jwt,
		cfg:      cfg,
	}
}

// Login - вход сотрудника по логину и паролю
func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(db, req.Username)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.CtxWarn(ctx, "Failed login attempt", "username", req.Username)
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.CanAccessAdmin() {
		return nil, apperrors.ErrStaffOnly
	}

	// Пароли из дампа лежат в pbkdf2, переводим на bcrypt при первом входе
	if auth.NeedsRehash(user.PasswordHash) {
		if hash, err := auth.HashPassword(req.Password); err == nil {
			if err := s.userRepo.UpdatePasswordHash(db, user.ID, hash); err != nil {
				logger.CtxWithError(ctx, "Failed to rehash password", err, "user_id", user.ID)
			}
		}
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(db, user.ID, now); err != nil {
		logger.CtxWithError(ctx, "Failed to update last login", err, "user_id", user.ID)
	}
	user.LastLogin = &now

	token, err := s.jwt.GenerateAccessToken(user.ID, user.Username, user.IsStaff)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwt.AccessExpiry().Seconds()),
		User: dto.UserResponse{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			IsStaff:   user.IsStaff,
			LastLogin: user.LastLogin,
		},
	}, nil
}

func (s *AuthServiceImpl) Authenticate(db *gorm.DB, token string) (*models.User, error) {
	claims, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	user, err := s.userRepo.FindByID(db, claims.UserID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	if !user.CanAccessAdmin() {
		return nil, apperrors.ErrStaffOnly
	}
	return user, nil
}

// SeedAdmin создает первого сотрудника из конфига, если пользователей еще нет
func (s *AuthServiceImpl) SeedAdmin(ctx context.Context, db *gorm.DB) error {
	admin := s.cfg.Admin
	if admin.Username == "" || admin.Password == "" {
		return nil
	}

	count, err := s.userRepo.Count(db)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if count > 0 {
		return nil
	}

	if err := auth.ValidatePassword(admin.Password); err != nil {
		return apperrors.NewBadRequestError("admin password: " + err.Error())
	}
	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user := &models.User{
		Username:     admin.Username,
		Email:        admin.Email,
		PasswordHash: hash,
		IsStaff:      true,
		IsActive:     true,
		IsSuperuser:  true,
	}
	if err := s.userRepo.Create(db, user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil
		}
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Admin user created", "username", user.Username)
	return nil
}
