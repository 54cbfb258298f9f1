package user

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"

	"github.com/attendly/attendance-backend-go/internal/domain/notification"
	"github.com/attendly/attendance-backend-go/internal/domain/profile"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/attendly/attendance-backend-go/internal/pkg/email"
	"github.com/attendly/attendance-backend-go/internal/pkg/metrics"
	"github.com/attendly/attendance-backend-go/internal/repository/postgresql"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	db *database.DB
	user.UserRepository
	profile.ProfileRepository
	notifier     notification.Service
	emailService email.EmailService
	metrics      *metrics.Metrics
}

func NewUserService(
	db *database.DB,
	userRepo user.UserRepository,
	profileRepo profile.ProfileRepository,
	notifier notification.Service,
	emailService email.EmailService,
	m *metrics.Metrics,
) profile.UserService {
	return &UserServiceImpl{
		db:                db,
		UserRepository:    userRepo,
		ProfileRepository: profileRepo,
		notifier:          notifier,
		emailService:      emailService,
		metrics:           m,
	}
}

// CreateUser implements profile.UserService. The auth row and profile row are
// written in one transaction so a half-provisioned account never exists.
func (s *UserServiceImpl) CreateUser(ctx context.Context, req user.CreateUserRequest) (user.CreateUserResult, error) {
	if err := req.Validate(); err != nil {
		return user.CreateUserResult{}, err
	}

	exists, err := s.UserRepository.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return user.CreateUserResult{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return user.CreateUserResult{}, user.ErrEmailExists
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		return user.CreateUserResult{}, fmt.Errorf("failed to generate password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return user.CreateUserResult{}, fmt.Errorf("failed to hash password: %w", err)
	}
	hashStr := string(hash)

	var created user.User
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		created, err = s.UserRepository.Create(txCtx, user.User{
			Email:        req.Email,
			PasswordHash: &hashStr,
		})
		if err != nil {
			return err
		}

		_, err = s.ProfileRepository.Upsert(txCtx, profile.Profile{
			ID:       created.ID,
			FullName: req.FullName,
			Role:     user.Role(req.Role),
			IsActive: true,
		})
		return err
	})
	if err != nil {
		return user.CreateUserResult{}, err
	}

	s.metrics.UsersCreated.Inc()

	var fullName string
	if req.FullName != nil {
		fullName = *req.FullName
	}
	if err := s.emailService.SendWelcome(req.Email, fullName, req.Role, tempPassword); err != nil {
		slog.Error("failed to send welcome email", "error", err, "email", req.Email)
	}

	if s.notifier != nil {
		_, err = s.notifier.Notify(ctx, notification.Notification{
			RecipientID: created.ID,
			Type:        notification.TypeAccountCreated,
			Title:       "Welcome",
			Message:     "Your attendance account has been created",
		})
		if err != nil {
			slog.Error("failed to send account notification", "error", err, "user_id", created.ID)
		}
	}

	return user.CreateUserResult{
		UserID:       created.ID,
		TempPassword: tempPassword,
	}, nil
}

// ListUsers implements profile.UserService.
func (s *UserServiceImpl) ListUsers(ctx context.Context, filter profile.ListFilter) ([]profile.Profile, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.ProfileRepository.List(ctx, filter)
}

// UpdateRole implements profile.UserService.
func (s *UserServiceImpl) UpdateRole(ctx context.Context, userID string, req user.UpdateRoleRequest) (profile.Profile, error) {
	if err := req.Validate(); err != nil {
		return profile.Profile{}, err
	}

	p, err := s.ProfileRepository.GetByID(ctx, userID)
	if err != nil {
		return profile.Profile{}, err
	}

	p.Role = user.Role(req.Role)
	return s.ProfileRepository.Update(ctx, p)
}

// SetActive implements profile.UserService.
func (s *UserServiceImpl) SetActive(ctx context.Context, userID string, active bool) (profile.Profile, error) {
	p, err := s.ProfileRepository.GetByID(ctx, userID)
	if err != nil {
		return profile.Profile{}, err
	}

	p.IsActive = active
	return s.ProfileRepository.Update(ctx, p)
}

const passwordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateTempPassword() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = passwordAlphabet[int(b)%len(passwordAlphabet)]
	}
	return string(buf), nil
}
