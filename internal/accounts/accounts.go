// Package accounts registers and authenticates donors and admins.
package accounts

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/apperr"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/auth"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/models"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/store"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	db        *gorm.DB
	tokens    *auth.TokenIssuer
	adminCode string
	hashCost  int
}

type Option func(*Service)

// WithHashCost overrides bcrypt.DefaultCost.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

func NewService(db *gorm.DB, tokens *auth.TokenIssuer, adminCode string, opts ...Option) *Service {
	s := &Service{db: db, tokens: tokens, adminCode: adminCode, hashCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	return s.register(ctx, in, models.RoleDonor)
}

func (s *Service) AdminSignup(ctx context.Context, in SignupInput, adminCode string) (*Session, error) {
	if err := in.validate(); err != nil || adminCode == "" {
		return nil, apperr.New(apperr.InvalidArgument, "all fields are required including admin registration code")
	}
	if s.adminCode == "" || subtle.ConstantTimeCompare([]byte(adminCode), []byte(s.adminCode)) != 1 {
		return nil, apperr.New(apperr.Forbidden, "invalid admin registration code")
	}
	return s.register(ctx, in, models.RoleAdmin)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.session(u)
}

// AdminLogin additionally requires the admin role. The password is checked
// first so the role of an account is not revealed to unauthenticated callers.
func (s *Service) AdminLogin(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if u.Role != models.RoleAdmin {
		return nil, apperr.New(apperr.Forbidden, "access denied: admin privileges required")
	}
	return s.session(u)
}

func (s *Service) User(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "user not found")
		}
		return nil, store.TranslateError(err, "failed to load user")
	}
	return &u, nil
}

func (s *Service) register(ctx context.Context, in SignupInput, role models.Role) (*Session, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, store.TranslateError(err, "error creating user")
	}
	if count > 0 {
		return nil, apperr.New(apperr.Conflict, "user already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "error creating user", err)
	}
	u := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    in.Email,
		Password: string(hash),
		Role:     role,
	}
	if err := db.Create(u).Error; err != nil {
		// lost a race with a concurrent signup for the same email
		if apperr.KindOf(store.TranslateError(err, "")) == apperr.Conflict {
			return nil, apperr.Wrap(apperr.Conflict, "user already exists", err)
		}
		return nil, store.TranslateError(err, "error creating user")
	}
	return s.session(u)
}

func (s *Service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperr.New(apperr.InvalidArgument, "email and password are required")
	}

	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.Unauthorized, "invalid credentials")
	}
	if err != nil {
		return nil, store.TranslateError(err, "error during login")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, apperr.New(apperr.Unauthorized, "invalid credentials")
	}
	return &u, nil
}

func (s *Service) session(u *models.User) (*Session, error) {
	tok, err := s.tokens.Issue(u)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to create token", err)
	}
	return &Session{Token: tok, User: u}, nil
}

func (in *SignupInput) validate() error {
	in.Email = strings.TrimSpace(in.Email)
	if strings.TrimSpace(in.Name) == "" || in.Email == "" || in.Password == "" {
		return apperr.New(apperr.InvalidArgument, "all fields are required")
	}
	return nil
}
