package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sakif/bulletin-board/internal/apperror"
	"github.com/sakif/bulletin-board/internal/auth"
	"github.com/sakif/bulletin-board/internal/model"
	"github.com/sakif/bulletin-board/internal/repository"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 4

var nicknamePattern = regexp.MustCompile(`^[a-zA-Z0-9]{3,}$`)

// Messages surfaced to clients. The login message is shared by the
// unknown-nickname and wrong-password paths.
const (
	msgNicknameFormat   = "nickname must be at least 3 letters or digits"
	msgPasswordMismatch = "password and confirmation do not match"
	msgPasswordFormat   = "password must be at least 4 characters"
	msgPasswordTooLong  = "password must be 72 bytes or fewer"
	msgPasswordNickname = "password must not contain the nickname"
	msgDuplicate        = "nickname is already taken"
	msgLoginFailed      = "check your nickname or password"
	msgBadCredential    = auth.MsgBadCredential
)

// AuthService handles registration, login and token resolution.
//
//	AuthHandler (HTTP) → AuthService → UserRepository (DB)
//	                   ↘ TokenService (JWT), PasswordService (bcrypt)
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// compile-time check: the auth middleware resolves tokens through us.
var _ auth.Authenticator = (*AuthService)(nil)

// AuthResult bundles the user and the issued token so the handler can set
// the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// RegisterInput is the signup form.
type RegisterInput struct {
	Nickname string
	Password string
	Confirm  string
}

// Register validates the form, hashes the password and stores the user.
//
// Checks run in a fixed order and the first failure wins: nickname format,
// confirmation, password length, nickname inside password, bcrypt's input
// limit, and finally nickname uniqueness (enforced by the store).
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperror.ValidationFailed("password", msgPasswordTooLong)
		}
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{Nickname: in.Nickname, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.ValidationFailed("nickname", msgDuplicate)
		}
		return nil, fmt.Errorf("service/auth: creating user %q: %w", in.Nickname, err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("nickname", user.Nickname),
	)
	return user, nil
}

func validateRegistration(in RegisterInput) error {
	if !nicknamePattern.MatchString(in.Nickname) {
		return apperror.ValidationFailed("nickname", msgNicknameFormat)
	}
	if in.Password != in.Confirm {
		return apperror.ValidationFailed("confirm", msgPasswordMismatch)
	}
	if utf8.RuneCountInString(in.Password) < MinPasswordLength {
		return apperror.ValidationFailed("password", msgPasswordFormat)
	}
	if strings.Contains(in.Password, in.Nickname) {
		return apperror.ValidationFailed("password", msgPasswordNickname)
	}
	return nil
}

// Login checks the credentials and issues a token whose subject is the
// user's id. An unknown nickname and a wrong password produce the same
// error.
func (s *AuthService) Login(ctx context.Context, nickname, password string) (*AuthResult, error) {
	user, err := s.users.GetUserByNickname(ctx, nickname)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ValidationFailed("nickname", msgLoginFailed)
		}
		return nil, fmt.Errorf("service/auth: looking up %q: %w", nickname, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperror.ValidationFailed("password", msgLoginFailed)
		}
		return nil, fmt.Errorf("service/auth: verifying password for %q: %w", nickname, err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// Authenticate verifies a bearer token and loads its subject. Every
// token problem, and a subject that no longer exists, comes back as the
// same Unauthenticated error.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.tokens.Validate(token)
	if err != nil {
		s.logger.Debug("token rejected", slog.String("error", err.Error()))
		return nil, apperror.Unauthenticated(msgBadCredential)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthenticated(msgBadCredential)
		}
		return nil, fmt.Errorf("service/auth: resolving user %s: %w", userID, err)
	}
	return user, nil
}

// TokenTTL is the lifetime of issued tokens; the handler uses it for the
// cookie's Max-Age.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}
