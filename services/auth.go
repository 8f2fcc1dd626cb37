package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"law_office_app_go/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/scrypt"
	"gorm.io/gorm"
)

const (
	// SaltLength is the number of random salt bytes per password
	SaltLength = 16
	// KeyLength is the derived key length in bytes
	KeyLength = 64
	// PasswordDelimiter separates the derived key from its salt in the stored hash
	PasswordDelimiter = "."

	scryptN = 16384
	scryptR = 8
	scryptP = 1
)

// dummyHash is verified against when the email is unknown so login timing does not reveal accounts
var dummyHash string

func init() {
	hash, err := HashPassword("dummy_password_for_timing_mitigation")
	if err == nil {
		dummyHash = hash
	}
}

// HashPassword derives a salted scrypt key and returns "<hex key>.<hex salt>"
func HashPassword(password string) (string, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)

	key, err := deriveKey(password, saltHex)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(key) + PasswordDelimiter + saltHex, nil
}

// VerifyPassword checks a supplied password against a stored "<hex key>.<hex salt>" hash
func VerifyPassword(stored, password string) bool {
	keyHex, saltHex, ok := strings.Cut(stored, PasswordDelimiter)
	if !ok || keyHex == "" || saltHex == "" {
		return false
	}
	expected, err := hex.DecodeString(keyHex)
	if err != nil || len(expected) != KeyLength {
		return false
	}

	supplied, err := deriveKey(password, saltHex)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(expected, supplied) == 1
}

// The hex salt string itself is the scrypt salt, matching hashes produced by the previous deployment
func deriveKey(password, saltHex string) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), []byte(saltHex), scryptN, scryptR, scryptP, KeyLength)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

// RegisterInput carries the fields accepted by registration
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Username string
	Role     string
}

// RegisterUser creates an active user after checking email and username are free
func RegisterUser(db *gorm.DB, input RegisterInput) (*models.User, error) {
	if _, err := GetUserByEmail(db, input.Email); err == nil {
		return nil, fmt.Errorf("email %w", ErrDuplicate)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if _, err := GetUserByUsername(db, input.Username); err == nil {
		return nil, fmt.Errorf("username %w", ErrDuplicate)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = models.RoleSecretary
	}

	return CreateUser(db, &models.User{
		Email:    input.Email,
		Username: input.Username,
		FullName: input.FullName,
		Role:     role,
		Password: hashed,
		IsActive: true,
	})
}

// Authenticate resolves an email/password pair to an active user.
// Unknown email, wrong password and disabled accounts all return ErrInvalidCredentials.
func Authenticate(db *gorm.DB, email, password string) (*models.User, error) {
	user, err := GetUserByEmail(db, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			VerifyPassword(dummyHash, password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !VerifyPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		LogSecurityEvent("LOGIN_DISABLED_ACCOUNT", user.ID, "login attempt on deactivated account")
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// LogSecurityEvent logs security-related events
func LogSecurityEvent(eventType, userID, details string) {
	zap.L().Warn("security event",
		zap.String("event", eventType),
		zap.String("user_id", userID),
		zap.String("details", details),
	)
}

// contextDB attaches ctx to db when one is supplied
func contextDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if ctx == nil {
		return db
	}
	return db.WithContext(ctx)
}
