package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"ledger/internal/auth"
	"ledger/internal/core"
)

const minPasswordLength = 6

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginResult struct {
	Token string          `json:"token"`
	User  core.PublicUser `json:"user"`
}

// AuthService handles account creation and session tokens.
type AuthService struct {
	users   UserStore
	tokens  TokenIssuer
	revoker TokenRevoker
}

func NewAuthService(users UserStore, tokens TokenIssuer, revoker TokenRevoker) *AuthService {
	return &AuthService{users: users, tokens: tokens, revoker: revoker}
}

// Register creates a USER account. The email is stored lower-cased.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (core.PublicUser, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Name == "" || in.Email == "" || in.Password == "" {
		return core.PublicUser{}, core.Invalid("body", "Name, email and password are required")
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLength {
		return core.PublicUser{}, core.Invalid("password", "Password must be at least 6 characters")
	}

	user := core.User{Name: in.Name, Email: in.Email, Role: core.RoleUser}
	if err := user.Validate(); err != nil {
		return core.PublicUser{}, err
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return core.PublicUser{}, core.Fail(core.ErrConflict, "User already exists")
	} else if !errors.Is(err, core.ErrNotFound) {
		return core.PublicUser{}, fmt.Errorf("register: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return core.PublicUser{}, fmt.Errorf("register: %w", err)
	}
	user.PasswordHash = hash

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, core.ErrConflict) {
			return core.PublicUser{}, core.Fail(core.ErrConflict, "User already exists")
		}
		return core.PublicUser{}, fmt.Errorf("register: %w", err)
	}
	return created.Public(), nil
}

// Login checks the credentials and issues a token.
// Unknown emails and wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return LoginResult{}, core.Invalid("body", "Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, core.ErrNotFound) {
		return LoginResult{}, core.Fail(core.ErrUnauthorized, "Invalid credentials")
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}
	if !ok {
		return LoginResult{}, core.Fail(core.ErrUnauthorized, "Invalid credentials")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}
	return LoginResult{Token: token, User: user.Public()}, nil
}

// Logout revokes the caller's current token.
func (s *AuthService) Logout(ctx context.Context, p core.Principal) error {
	if p.TokenID == "" {
		return nil
	}
	if err := s.revoker.Revoke(ctx, p.TokenID, p.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
