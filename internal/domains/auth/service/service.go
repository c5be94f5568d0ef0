package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"smartmeet/config"
	"smartmeet/infras/jwt"
	"smartmeet/infras/otel"
	"smartmeet/internal/domains/auth/model/dto"
	userModel "smartmeet/internal/domains/user/model"
	userRepo "smartmeet/internal/domains/user/repository"
	"smartmeet/shared/constant"
	gDto "smartmeet/shared/dto"
	"smartmeet/shared/failure"
	"smartmeet/shared/password"
	"smartmeet/shared/timezone"
)

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) error
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) error
}

type serviceImpl struct {
	userRepo   userRepo.User
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(userRepo userRepo.User, cfg *config.Config, otel otel.Otel, jwt jwt.JWT) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		cfg:        cfg,
		otel:       otel,
		jwtService: jwt,
	}
}

// Register creates a self-service account. Only addresses on the
// department's domain are accepted, and the admin role can never be
// self-assigned.
func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Register")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !strings.HasSuffix(strings.ToLower(req.Email), "@"+s.cfg.Account.AllowedEmailDomain) {
		return failure.BadRequestFromString(
			fmt.Sprintf("email must belong to the %s domain", s.cfg.Account.AllowedEmailDomain),
		) // nolint:wrapcheck
	}

	exists, err := s.userRepo.Exist(ctx, emailFilter(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return failure.BadRequestFromString("email already registered") // nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err = s.userRepo.Insert(ctx, req.ToUserModel(constant.ContextGuest, hashedPassword)); err != nil {
		log.Error().Err(err).Msg("failed to create user")

		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// Login verifies credentials under a lockout policy: after the configured
// number of consecutive failures the account is rejected until the
// lockout window passes. A successful login resets the counter.
func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := emailFilter(req.Email)

	user, err := s.userRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		log.Warn().Str("email", req.Email).Msg("login attempt with non-existent email")

		return res, failure.BadRequestFromString("invalid email or password") // nolint:wrapcheck
	}

	if !user.Active {
		return res, failure.BadRequestFromString("user account is deactivated") // nolint:wrapcheck
	}

	if s.isLockedOut(user) {
		log.Warn().Str("email", req.Email).Msg("login attempt on locked account")

		return res, failure.Unauthorized(
			fmt.Sprintf("account locked, try again in %d minutes", s.cfg.Account.LockoutMinutes),
		) // nolint:wrapcheck
	}

	if err := password.Verify(req.Password, user.Password); err != nil {
		s.recordFailedAttempt(ctx, user, filter)

		return res, failure.BadRequestFromString("invalid email or password") // nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(ctx, user.ID, user.Email, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.userRepo.Update(ctx, map[string]any{
		userModel.FieldLastLogin:     timezone.Now(),
		userModel.FieldLoginAttempts: 0,
		constant.FieldModifiedAt:     timezone.Now(),
		constant.FieldModifiedBy:     user.ID,
	}, filter); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")

		return res, fmt.Errorf("failed to update last login: %w", err)
	}

	res.FromTokenPair(tokenPair)
	res.FirstLogin = user.FirstLogin

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(err)

	tokenPair, err := s.jwtService.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		return res, failure.Unauthorized("invalid refresh token") // nolint:wrapcheck
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

// ChangePassword also clears the first-login flag, completing the
// provisioning flow for accounts created with the default password.
func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ChangePassword")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    userModel.TableName,
			},
		},
	}

	user, err := s.userRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return failure.NotFound("user not found") // nolint:wrapcheck
	}

	if err := password.Verify(req.CurrentPassword, user.Password); err != nil {
		return failure.BadRequestFromString("current password is incorrect") // nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err = s.userRepo.Update(ctx, map[string]any{
		userModel.FieldPassword:   hashedPassword,
		userModel.FieldFirstLogin: false,
		constant.FieldModifiedAt:  timezone.Now(),
		constant.FieldModifiedBy:  userID,
	}, filter); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func (s *serviceImpl) isLockedOut(user userModel.User) bool {
	if user.LoginAttempts < s.cfg.Account.MaxLoginAttempts || user.LastLoginAttempt == nil {
		return false
	}

	lockedUntil := user.LastLoginAttempt.Add(time.Duration(s.cfg.Account.LockoutMinutes) * time.Minute)

	return timezone.Now().Before(lockedUntil)
}

// recordFailedAttempt bumps the failure counter, restarting it when the
// previous lockout window has already expired.
func (s *serviceImpl) recordFailedAttempt(ctx context.Context, user userModel.User, filter gDto.FilterGroup) {
	attempts := user.LoginAttempts + 1

	if user.LastLoginAttempt != nil {
		windowEnd := user.LastLoginAttempt.Add(time.Duration(s.cfg.Account.LockoutMinutes) * time.Minute)
		if timezone.Now().After(windowEnd) {
			attempts = 1
		}
	}

	if err := s.userRepo.Update(ctx, map[string]any{
		userModel.FieldLoginAttempts:    attempts,
		userModel.FieldLastLoginAttempt: timezone.Now(),
		constant.FieldModifiedAt:        timezone.Now(),
		constant.FieldModifiedBy:        user.ID,
	}, filter); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record login attempt")
	}
}

func emailFilter(email string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    email,
				Table:    userModel.TableName,
			},
		},
	}
}
