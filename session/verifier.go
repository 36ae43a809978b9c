package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"storefront-admin/models"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Verifier checks a login attempt. A production deployment would back this
// with an identity provider.
type Verifier interface {
	Verify(ctx context.Context, email, password string) (*models.Admin, error)
}

// StaticVerifier accepts a single configured admin account.
type StaticVerifier struct {
	email        string
	name         string
	passwordHash []byte
}

func NewStaticVerifier(email, name, passwordHash string) (*StaticVerifier, error) {
	if email == "" || passwordHash == "" {
		return nil, errors.New("admin email and password hash are required")
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, fmt.Errorf("admin password hash: %w", err)
	}
	return &StaticVerifier{
		email:        strings.ToLower(email),
		name:         name,
		passwordHash: []byte(passwordHash),
	}, nil
}

// HashPassword is used when only a plaintext admin password is configured.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (v *StaticVerifier) Verify(ctx context.Context, email, password string) (*models.Admin, error) {
	emailMatch := subtle.ConstantTimeCompare([]byte(strings.ToLower(email)), []byte(v.email)) == 1
	passwordErr := bcrypt.CompareHashAndPassword(v.passwordHash, []byte(password))
	if !emailMatch || passwordErr != nil {
		return nil, ErrInvalidCredentials
	}
	return &models.Admin{Email: v.email, Name: v.name, Role: models.RoleAdmin}, nil
}
