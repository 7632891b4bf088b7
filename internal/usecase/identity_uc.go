package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/debeshghorui/Roomsy/internal/domain"
	"github.com/debeshghorui/Roomsy/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// IdentityUsecase registers and authenticates users and turns bearer
// tokens back into principals. Credential hashing stays inside this layer;
// the rest of the core only ever sees a Principal.
type IdentityUsecase struct {
	users     domain.UserRepository
	tokens    TokenStore
	jwtSecret string
	tokenTTL  time.Duration
	logger    *logger.Logger
}

func NewIdentityUsecase(users domain.UserRepository, tokens TokenStore, jwtSecret string, tokenTTL time.Duration, log *logger.Logger) *IdentityUsecase {
	return &IdentityUsecase{
		users:     users,
		tokens:    tokens,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    log.Named("IdentityUsecase"),
	}
}

// Register validates and creates a new user account with a bcrypt-hashed
// credential, then returns the stored user.
func (uc *IdentityUsecase) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" {
		return nil, domain.NewValidationError("username", "username is required")
	}
	if !emailPattern.MatchString(email) {
		return nil, domain.NewValidationError("email", "a valid email address is required")
	}
	if len(password) < minPasswordLength {
		return nil, domain.NewValidationError("password", "password must be at least 6 characters long")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("User registered",
		zap.String("user_id", user.ID.Hex()), zap.String("username", username))
	return user, nil
}

// Login verifies the credentials and issues a signed session token, cached
// so that logout can revoke it before expiry.
func (uc *IdentityUsecase) Login(ctx context.Context, username, password string) (string, error) {
	user, err := uc.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	claims := Claims{
		UserID:   user.ID.Hex(),
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(uc.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	if uc.tokens != nil {
		if err := uc.tokens.CacheToken(ctx, user.ID.Hex(), token, uc.tokenTTL); err != nil {
			uc.logger.Warn("Failed to cache session token", zap.String("user_id", user.ID.Hex()), zap.Error(err))
		}
	}

	uc.logger.Info("User logged in", zap.String("user_id", user.ID.Hex()))
	return token, nil
}

// Logout invalidates the principal's cached session token.
func (uc *IdentityUsecase) Logout(ctx context.Context, principal *domain.Principal) error {
	if principal == nil {
		return domain.ErrUnauthenticated
	}
	if uc.tokens == nil {
		return nil
	}
	return uc.tokens.InvalidateToken(ctx, principal.UserID.Hex())
}

// Profile returns the account for the given user id.
func (uc *IdentityUsecase) Profile(ctx context.Context, userID string) (*domain.User, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	return uc.users.FindByID(ctx, id)
}

// UpdateProfile changes the principal's own username and email. Both
// fields are validated the same way registration validates them; the
// password is never touched through this path.
func (uc *IdentityUsecase) UpdateProfile(ctx context.Context, principal *domain.Principal, username, email string) (*domain.User, error) {
	if principal == nil {
		return nil, domain.ErrUnauthenticated
	}

	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" {
		return nil, domain.NewValidationError("username", "username is required")
	}
	if !emailPattern.MatchString(email) {
		return nil, domain.NewValidationError("email", "a valid email address is required")
	}

	user, err := uc.users.Update(ctx, principal.UserID, domain.UserUpdate{Username: &username, Email: &email})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Profile updated", zap.String("user_id", principal.UserID.Hex()))
	return user, nil
}

// UsernameAvailable reports whether no account currently holds the given
// username.
func (uc *IdentityUsecase) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, domain.NewValidationError("username", "username is required")
	}
	if _, err := uc.users.FindByUsername(ctx, username); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// ProfileByUsername returns the account with the given username.
func (uc *IdentityUsecase) ProfileByUsername(ctx context.Context, username string) (*domain.User, error) {
	return uc.users.FindByUsername(ctx, strings.TrimSpace(username))
}

// PrincipalFromToken verifies a bearer token and returns the principal it
// represents. A revoked or expired token yields ErrUnauthenticated.
func (uc *IdentityUsecase) PrincipalFromToken(ctx context.Context, tokenString string) (*domain.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(uc.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthenticated
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	if uc.tokens != nil {
		cached, err := uc.tokens.GetToken(ctx, claims.UserID)
		if err != nil {
			uc.logger.Warn("Token store lookup failed", zap.String("user_id", claims.UserID), zap.Error(err))
		} else if cached != tokenString {
			return nil, domain.ErrUnauthenticated
		}
	}

	return &domain.Principal{UserID: userID, Username: claims.Username}, nil
}
