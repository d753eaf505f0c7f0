package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sakif/bulletin-board/internal/apperror"
	"github.com/sakif/bulletin-board/internal/auth"
	"github.com/sakif/bulletin-board/internal/model"
)

const testSecret = "test-secret-at-least-16-chars!!"

func newTestTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService(auth.TokenConfig{Secret: testSecret, TTL: time.Hour})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func newTestAuthService(t *testing.T, store *fakeStore) *AuthService {
	t.Helper()
	return NewAuthService(store, newTestTokenService(t), auth.NewPasswordServiceForTest(), testLogger())
}

func mustRegister(t *testing.T, svc *AuthService, nickname, password string) *model.User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{
		Nickname: nickname,
		Password: password,
		Confirm:  password,
	})
	if err != nil {
		t.Fatalf("Register(%q) error = %v", nickname, err)
	}
	return u
}

// =========================================================================
// REGISTER TESTS
// =========================================================================

func TestRegister_Success(t *testing.T) {
	store := newFakeStore()
	svc := newTestAuthService(t, store)

	u := mustRegister(t, svc, "alice123", "pass1234")

	if u.ID == "" {
		t.Error("Register() did not set ID")
	}
	if u.PasswordHash == "" || u.PasswordHash == "pass1234" {
		t.Errorf("PasswordHash = %q, want a bcrypt hash", u.PasswordHash)
	}
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name      string
		in        RegisterInput
		wantField string
	}{
		{"nickname too short", RegisterInput{"ab", "pass1234", "pass1234"}, "nickname"},
		{"nickname with symbol", RegisterInput{"alice_1", "pass1234", "pass1234"}, "nickname"},
		{"nickname with space", RegisterInput{"alice 1", "pass1234", "pass1234"}, "nickname"},
		{"nickname non-ascii", RegisterInput{"앨리스123", "pass1234", "pass1234"}, "nickname"},
		{"confirm mismatch", RegisterInput{"alice123", "pass1234", "pass12345"}, "confirm"},
		{"password too short", RegisterInput{"alice123", "abc", "abc"}, "password"},
		{"password too short in characters", RegisterInput{"alice123", "가나다", "가나다"}, "password"},
		{"password contains nickname", RegisterInput{"alice", "xxalicexx", "xxalicexx"}, "password"},
		{"password too long for bcrypt", RegisterInput{"alice123", strings.Repeat("p", 73), strings.Repeat("p", 73)}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAuthService(t, newFakeStore())

			_, err := svc.Register(context.Background(), tt.in)

			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("Register() error = %v, want ErrValidation", err)
			}
			var appErr *apperror.AppError
			if !errors.As(err, &appErr) || appErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", appErr.Field, tt.wantField)
			}
		})
	}
}

// The nickname check comes first even when every other rule also fails.
func TestRegister_NicknameCheckedFirst(t *testing.T) {
	svc := newTestAuthService(t, newFakeStore())

	_, err := svc.Register(context.Background(), RegisterInput{"a!", "a", "b"})

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Field != "nickname" {
		t.Errorf("Register() error = %v, want nickname validation", err)
	}
}

func TestRegister_DuplicateNickname(t *testing.T) {
	svc := newTestAuthService(t, newFakeStore())
	mustRegister(t, svc, "alice123", "pass1234")

	_, err := svc.Register(context.Background(), RegisterInput{"alice123", "other999", "other999"})

	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Register() error = %v, want ErrValidation", err)
	}
}

func TestRegister_RepositoryError(t *testing.T) {
	store := newFakeStore()
	store.createUserErr = errors.New("database is locked")
	svc := newTestAuthService(t, store)

	_, err := svc.Register(context.Background(), RegisterInput{"alice123", "pass1234", "pass1234"})

	if err == nil {
		t.Fatal("Register() should fail when the store fails")
	}
	if errors.Is(err, apperror.ErrValidation) {
		t.Error("a storage failure must not look like a validation error")
	}
}

// =========================================================================
// LOGIN TESTS
// =========================================================================

func TestLogin_TokenSubjectIsUserID(t *testing.T) {
	svc := newTestAuthService(t, newFakeStore())
	registered := mustRegister(t, svc, "alice123", "pass1234")

	result, err := svc.Login(context.Background(), "alice123", "pass1234")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if result.User.ID != registered.ID {
		t.Errorf("User.ID = %q, want %q", result.User.ID, registered.ID)
	}

	resolved, err := svc.Authenticate(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if resolved.ID != registered.ID {
		t.Errorf("token resolves to %q, want %q", resolved.ID, registered.ID)
	}
}

func TestLogin_FailuresShareOneMessage(t *testing.T) {
	svc := newTestAuthService(t, newFakeStore())
	mustRegister(t, svc, "alice123", "pass1234")

	_, wrongPassword := svc.Login(context.Background(), "alice123", "wrong999")
	_, unknownUser := svc.Login(context.Background(), "nobody", "pass1234")

	for _, err := range []error{wrongPassword, unknownUser} {
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Login() error = %v, want ErrValidation", err)
		}
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Errorf("messages differ: %q vs %q", wrongPassword.Error(), unknownUser.Error())
	}
}

func TestLogin_RepositoryError(t *testing.T) {
	store := newFakeStore()
	svc := newTestAuthService(t, store)
	mustRegister(t, svc, "alice123", "pass1234")
	store.getUserErr = errors.New("disk I/O error")

	_, err := svc.Login(context.Background(), "alice123", "pass1234")

	if err == nil || errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Login() error = %v, want a non-validation failure", err)
	}
}

// =========================================================================
// AUTHENTICATE TESTS
// =========================================================================

func TestAuthenticate_Rejections(t *testing.T) {
	store := newFakeStore()
	svc := newTestAuthService(t, store)
	u := mustRegister(t, svc, "alice123", "pass1234")

	ts := newTestTokenService(t)
	expired, err := ts.GenerateWithDuration(u.ID, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	ghost, err := ts.Generate("no-such-user")
	if err != nil {
		t.Fatal(err)
	}
	other, err := auth.NewTokenService(auth.TokenConfig{Secret: "a-completely-different-secret", TTL: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	foreign, err := other.Generate(u.ID)
	if err != nil {
		t.Fatal(err)
	}

	tests := map[string]string{
		"garbage":        "not-a-jwt",
		"expired":        expired,
		"unknown user":   ghost,
		"foreign secret": foreign,
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Authenticate(context.Background(), token)
			if !errors.Is(err, apperror.ErrUnauthenticated) {
				t.Fatalf("Authenticate() error = %v, want ErrUnauthenticated", err)
			}
			if err.Error() != auth.MsgBadCredential {
				t.Errorf("message = %q, want %q", err.Error(), auth.MsgBadCredential)
			}
		})
	}
}

func TestAuthenticate_StorageFailureIsNotUnauthenticated(t *testing.T) {
	store := newFakeStore()
	svc := newTestAuthService(t, store)
	u := mustRegister(t, svc, "alice123", "pass1234")
	token, err := newTestTokenService(t).Generate(u.ID)
	if err != nil {
		t.Fatal(err)
	}
	store.getUserErr = errors.New("database is locked")

	_, err = svc.Authenticate(context.Background(), token)

	if err == nil || errors.Is(err, apperror.ErrUnauthenticated) {
		t.Errorf("Authenticate() error = %v, want a storage failure", err)
	}
}

func TestTokenTTL(t *testing.T) {
	svc := newTestAuthService(t, newFakeStore())

	if got := svc.TokenTTL(); got != time.Hour {
		t.Errorf("TokenTTL() = %v, want 1h", got)
	}
}
