package authservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dkravets/recipebook/internal/pkg/config"
	"github.com/dkravets/recipebook/internal/pkg/tokenauth"
	"github.com/dkravets/recipebook/internal/recipebook/domain/models"
	"github.com/dkravets/recipebook/internal/recipebook/repository/userrepo"
	"github.com/dkravets/recipebook/internal/recipebook/services/validate"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 5

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrAlreadyExists   = errors.New("user already exists")
)

type Repository interface {
	CreateUser(context.Context, models.User) (models.User, error)
	GetUserByEmail(context.Context, string) (models.User, error)
	GetUserByID(context.Context, int64) (models.User, error)
	UpdateUser(context.Context, models.User) (models.User, error)
}

type AuthService struct {
	userRepo Repository
	cfg      config.Auth
}

func New(userRepo Repository, cfg config.Auth) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (as *AuthService) Register(ctx context.Context, req RegisterRequest) (models.User, error) {
	email := NormalizeEmail(req.Email)

	ve := validate.Errors{}

	validateEmail(ve, email)

	if len(req.Password) < minPasswordLen {
		ve.Add("password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	}

	if err := ve.Err(); err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("generate from password error: %w", err)
	}

	u := models.User{
		Email:        email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Active:       true,
	}

	u, err = as.userRepo.CreateUser(ctx, u)
	if err != nil {
		if errors.Is(err, userrepo.ErrAlreadyExists) {
			return models.User{}, ErrAlreadyExists
		}

		return models.User{}, fmt.Errorf("create user error: %w", err)
	}

	return u, nil
}

// Login verifies the credentials and issues a bearer token. Inactive
// users cannot obtain tokens.
func (as *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := as.userRepo.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return "", ErrUnauthenticated
		}

		return "", fmt.Errorf("get user error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrUnauthenticated
	}

	if !u.Active {
		return "", ErrUnauthenticated
	}

	token, err := tokenauth.NewToken(u.ID, as.cfg.TTL, as.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("can't get token error: %w", err)
	}

	return token, nil
}

// Authenticate resolves a bearer token to exactly one active user or
// fails. Nothing else in the system touches a store before this
// succeeds.
func (as *AuthService) Authenticate(ctx context.Context, token string) (models.User, error) {
	userID, err := tokenauth.UserID(token, as.cfg.Secret)
	if err != nil {
		return models.User{}, ErrUnauthenticated
	}

	u, err := as.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return models.User{}, ErrUnauthenticated
		}

		return models.User{}, fmt.Errorf("get user error: %w", err)
	}

	if !u.Active {
		return models.User{}, ErrUnauthenticated
	}

	return u, nil
}

func (as *AuthService) UpdateProfile(ctx context.Context, //nolint:cyclop
	userID int64, req UpdateProfileRequest,
) (models.User, error) {
	u, err := as.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("get user error: %w", err)
	}

	ve := validate.Errors{}

	if req.Email != nil {
		email := NormalizeEmail(*req.Email)
		validateEmail(ve, email)
		u.Email = email
	}

	if req.Name != nil {
		u.Name = *req.Name
	}

	if req.Password != nil {
		if len(*req.Password) < minPasswordLen {
			ve.Add("password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
		} else {
			hash, errH := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if errH != nil {
				return models.User{}, fmt.Errorf("generate from password error: %w", errH)
			}

			u.PasswordHash = string(hash)
		}
	}

	if err := ve.Err(); err != nil {
		return models.User{}, err
	}

	u, err = as.userRepo.UpdateUser(ctx, u)
	if err != nil {
		if errors.Is(err, userrepo.ErrAlreadyExists) {
			return models.User{}, ErrAlreadyExists
		}

		return models.User{}, fmt.Errorf("update user error: %w", err)
	}

	return u, nil
}

// NormalizeEmail trims surrounding whitespace and lowercases the
// domain part, leaving the local part as given.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)

	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}

	return email[:at+1] + strings.ToLower(email[at+1:])
}

func validateEmail(ve validate.Errors, email string) {
	switch {
	case email == "":
		ve.Add("email", "must not be empty")
	case strings.LastIndex(email, "@") <= 0 || strings.LastIndex(email, "@") == len(email)-1:
		ve.Add("email", "must be a valid email address")
	}
}
