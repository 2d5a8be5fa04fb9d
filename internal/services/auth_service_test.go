package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pulseapp/pulse-backend/internal/config"
	"github.com/pulseapp/pulse-backend/internal/dto"
	"github.com/pulseapp/pulse-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestHashToken(t *testing.T) {
	h1 := hashToken("some-refresh-token")
	h2 := hashToken("some-refresh-token")
	h3 := hashToken("another-token")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64) // hex-encoded sha256
}

func TestRegisterValidation(t *testing.T) {
	s := NewAuthService(nil, &config.Config{}, nil)

	_, err := s.Register(&dto.RegisterRequest{
		Username: "ab",
		Email:    "a@example.com",
		Password: "password123",
	})
	assert.EqualError(t, err, "username must be 3-50 characters")

	_, err = s.Register(&dto.RegisterRequest{
		Username: "validname",
		Email:    "a@example.com",
		Password: "short",
	})
	assert.EqualError(t, err, "email required and password must be at least 8 characters")
}

func TestGenerateAccessTokenClaims(t *testing.T) {
	cfg := &config.Config{
		JWTSecret:       "test-secret",
		JWTAccessExpiry: 15 * time.Minute,
	}
	s := NewAuthService(nil, cfg, nil)

	user := &models.User{
		ID:    uuid.New(),
		Email: "a@example.com",
		Role:  "admin",
	}

	tokenString, err := s.generateAccessToken(user)
	require.NoError(t, err)

	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, user.ID.String(), claims["sub"])
	assert.Equal(t, "a@example.com", claims["email"])
	assert.Equal(t, "admin", claims["role"])

	exp, ok := claims["exp"].(float64)
	require.True(t, ok)
	assert.InDelta(t, time.Now().Add(15*time.Minute).Unix(), int64(exp), 5)
}

type purgeRecorder struct {
	calls []uuid.UUID
}

func (p *purgeRecorder) PurgeUserData(_ *gorm.DB, userID uuid.UUID) error {
	p.calls = append(p.calls, userID)
	return nil
}

func TestDeleteAccountRunsPurgers(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewAuthService(db, &config.Config{}, nil)

	recorder := &purgeRecorder{}
	s.SetPurgers(recorder)

	userID := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(`FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "password"}).
			AddRow(userID, string(hash)))
	mock.ExpectBegin()
	for range [6]struct{}{} {
		mock.ExpectExec(`DELETE FROM`).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec(`UPDATE "users"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.DeleteAccount(userID, "password123"))

	require.Len(t, recorder.calls, 1)
	assert.Equal(t, userID, recorder.calls[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateAccessTokenRejectsWrongSecret(t *testing.T) {
	s := NewAuthService(nil, &config.Config{
		JWTSecret:       "right-secret",
		JWTAccessExpiry: time.Minute,
	}, nil)

	tokenString, err := s.generateAccessToken(&models.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	assert.Error(t, err)
}
