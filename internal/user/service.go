package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"portal/internal/apperr"
)

const minPasswordLen = 6

var (
	ErrMissingFields      = apperr.New("MissingFields", http.StatusBadRequest, "Missing fields")
	ErrInvalidEmail       = apperr.New("InvalidEmail", http.StatusBadRequest, "Invalid email")
	ErrWeakPassword       = apperr.New("WeakPassword", http.StatusBadRequest, "Weak password")
	ErrPasswordTooLong    = apperr.New("PasswordTooLong", http.StatusBadRequest, "Password too long")
	ErrEmailExists        = apperr.New("EmailExists", http.StatusConflict, "Email already exists")
	ErrMissingCredentials = apperr.New("MissingCredentials", http.StatusBadRequest, "Missing credentials")
	ErrUserNotFound       = apperr.New("UserNotFound", http.StatusNotFound, "User not found")
	ErrInvalidPassword    = apperr.New("InvalidPassword", http.StatusUnauthorized, "Invalid password")
	ErrNameRequired       = apperr.New("NameRequired", http.StatusBadRequest, "Name required")
)

// SignupInput is what a new account is created from.
type SignupInput struct {
	Name     string
	Role     string
	Email    string
	Password string
}

// Service validates and stores accounts.
type Service struct {
	repo       *Repository
	bcryptCost int
}

// NewService creates a service backed by a repository.
func NewService(repo *Repository, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

// NormalizeEmail is the canonical form emails are stored and looked up by.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates in, then creates the user and its profile.
// The first failing check wins: missing fields, email shape, password
// length, email already taken.
func (s *Service) Register(ctx context.Context, in SignupInput) (*User, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  name,
	}
	if err := s.repo.Create(ctx, u, strings.TrimSpace(in.Role)); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Authenticate resolves email and password to a user. An unknown email and a
// wrong password are reported as different errors.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidPassword
	}
	return u, nil
}

// Get returns the user with id, or nil if it does not exist.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile changes the display name and role of an existing user.
func (s *Service) UpdateProfile(ctx context.Context, id, name, role string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	return s.repo.UpdateProfile(ctx, id, name, strings.TrimSpace(role))
}

// validEmail accepts exactly one '@' with something on both sides.
func validEmail(email string) bool {
	local, domain, ok := strings.Cut(email, "@")
	return ok && local != "" && domain != "" && !strings.Contains(domain, "@")
}
