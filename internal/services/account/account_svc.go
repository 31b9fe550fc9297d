package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"auctionhousego/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("account type must be Buyer or Seller")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrAccountDisabled    = errors.New("account is disabled")
)

type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	AccountType string
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type IAccountService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	ValidateToken(token string) (*Claims, error)
}

type accountService struct {
	db       *sql.DB
	secret   []byte
	tokenTTL time.Duration
}

func NewAccountService(db *sql.DB, jwtSecret string, tokenTTL time.Duration) IAccountService {
	return &accountService{
		db:       db,
		secret:   []byte(jwtSecret),
		tokenTTL: tokenTTL,
	}
}

// Register creates an account with a fixed role. The role never changes
// after registration; a person wanting both sides opens two accounts.
func (svc *accountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	role := strings.TrimSpace(in.AccountType)
	if role != models.RoleBuyer && role != models.RoleSeller {
		return nil, ErrInvalidRole
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	u := models.User{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Email:       email,
		AccountType: role,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	err = svc.db.QueryRowContext(ctx, `
		INSERT INTO users (first_name, last_name, email, password_hash,
		                   account_type, is_active, created_at)
		     VALUES ($1, $2, $3, $4, $5, TRUE, $6)
		ON CONFLICT (email) DO NOTHING
		  RETURNING user_id`,
		u.FirstName, u.LastName, u.Email, string(hash), u.AccountType, u.CreatedAt).
		Scan(&u.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("register: insert user: %w", err)
	}

	zap.L().Info("user_registered",
		zap.Int64("user_id", u.UserID),
		zap.String("role", u.AccountType),
	)
	return &u, nil
}

func (svc *accountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u := models.User{}
	err := svc.db.QueryRowContext(ctx, `
		SELECT user_id, first_name, last_name, email, password_hash,
		       account_type, is_active, created_at
		  FROM users WHERE email = $1`, email).
		Scan(&u.UserID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
			&u.AccountType, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: load user: %w", err)
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := svc.issueToken(&u)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: &u}, nil
}

func (svc *accountService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	u := models.User{}
	err := svc.db.QueryRowContext(ctx, `
		SELECT user_id, first_name, last_name, email, account_type,
		       is_active, created_at
		  FROM users WHERE user_id = $1`, userID).
		Scan(&u.UserID, &u.FirstName, &u.LastName, &u.Email, &u.AccountType,
			&u.IsActive, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	return &u, nil
}

func (svc *accountService) issueToken(u *models.User) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		UserID: u.UserID,
		Email:  u.Email,
		Role:   u.AccountType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(svc.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(svc.secret)
	if err != nil {
		zap.L().Error("token_sign", zap.Error(err))
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

func (svc *accountService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return svc.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
