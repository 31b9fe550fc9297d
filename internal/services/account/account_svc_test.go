package account

import (
	"context"
	"regexp"
	"testing"
	"time"

	"auctionhousego/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (*accountService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &accountService{
		db:       db,
		secret:   []byte("test-secret"),
		tokenTTL: time.Hour,
	}, mock
}

func TestRegister(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("Ann", "Price", "ann@example.com", sqlmock.AnyArg(), "Buyer", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(42))

	u, err := svc.Register(context.Background(), RegisterInput{
		FirstName:   "  Ann ",
		LastName:    "Price",
		Email:       " Ann@Example.com ",
		Password:    "hunter22",
		AccountType: "Buyer",
	})
	require.NoError(t, err)
	require.Equal(t, int64(42), u.UserID)
	require.Equal(t, "ann@example.com", u.Email, "email is normalized")
	require.Equal(t, "Ann", u.FirstName)
	require.True(t, u.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_InvalidRole(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       "x@example.com",
		Password:    "pw",
		AccountType: "Admin",
	})
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestRegister_EmailTaken(t *testing.T) {
	svc, mock := newTestService(t)

	// ON CONFLICT DO NOTHING returns no row for a duplicate email.
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       "taken@example.com",
		Password:    "pw",
		AccountType: "Seller",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func userRow(t *testing.T, password string, active bool) *sqlmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"user_id", "first_name", "last_name", "email",
		"password_hash", "account_type", "is_active", "created_at"}).
		AddRow(42, "Ann", "Price", "ann@example.com", string(hash), "Buyer",
			active, time.Now().UTC())
}

func TestLogin_IssuesValidToken(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("ann@example.com").
		WillReturnRows(userRow(t, "hunter22", true))

	res, err := svc.Login(context.Background(), "Ann@Example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.Equal(t, int64(42), res.User.UserID)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "ann@example.com", claims.Email)
	require.Equal(t, models.RoleBuyer, claims.Role)
	require.NotEmpty(t, claims.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("ann@example.com").
		WillReturnRows(userRow(t, "hunter22", true))

	_, err := svc.Login(context.Background(), "ann@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err := svc.Login(context.Background(), "ghost@example.com", "pw")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_DisabledAccount(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("ann@example.com").
		WillReturnRows(userRow(t, "hunter22", false))

	_, err := svc.Login(context.Background(), "ann@example.com", "hunter22")
	require.ErrorIs(t, err, ErrAccountDisabled)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc, _ := newTestService(t)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: 42})
	signed, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	svc, _ := newTestService(t)

	past := time.Now().Add(-2 * time.Hour)
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(past),
		},
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.ValidateToken("not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestGetUser_NotFound(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE user_id = $1")).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err := svc.GetUser(context.Background(), 404)
	require.ErrorIs(t, err, ErrUserNotFound)
}
