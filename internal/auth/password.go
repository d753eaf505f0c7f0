package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used in production.
const DefaultCost = 12

// MaxPasswordBytes is bcrypt's input limit. Longer inputs would be
// silently truncated, so Hash rejects them.
const MaxPasswordBytes = 72

var (
	// ErrPasswordTooLong is returned by Hash for inputs over MaxPasswordBytes.
	ErrPasswordTooLong = errors.New("auth: password must be 72 bytes or fewer")
	// ErrPasswordMismatch is returned by Verify when the password is wrong.
	ErrPasswordMismatch = errors.New("auth: invalid password")
)

// PasswordService hashes and verifies user passwords with bcrypt.
//
// Hash format:
//
//	$2a$12$<22-char salt><31-char hash>
//	 ^   ^
//	 |   cost
//	 version
type PasswordService struct {
	cost int
}

// NewPasswordServiceWithCost creates a PasswordService with a configured
// cost. The cost must lie within bcrypt's accepted range.
func NewPasswordServiceWithCost(cost int) (*PasswordService, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("auth: bcrypt cost %d outside [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &PasswordService{cost: cost}, nil
}

// NewPasswordServiceForTest creates a PasswordService with bcrypt's
// minimum cost. Do NOT use in production.
func NewPasswordServiceForTest() *PasswordService {
	return &PasswordService{cost: bcrypt.MinCost}
}

// Hash returns the bcrypt hash of plaintext. The salt is random, so two
// calls with the same input produce different hashes.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks plaintext against a stored hash in constant time.
// It returns ErrPasswordMismatch for a wrong password.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
