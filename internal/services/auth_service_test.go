package services_test

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"barber_backend/internal/auth"
	"barber_backend/internal/models"
	"barber_backend/internal/services"
	"barber_backend/internal/services/dto"
	"barber_backend/pkg/apperrors"
	"barber_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
)

func TestAuthService_Login(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := newContainer(t, services.Dependencies{}).AuthService
	ctx := context.Background()

	staff := helpers.CreateStaffUser(t, db, "admin", "barber-pass", true)
	helpers.CreateStaffUser(t, db, "client", "client-pass", false)

	resp, err := svc.Login(ctx, db, &dto.LoginRequest{Username: "admin", Password: "barber-pass"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, staff.ID, resp.User.ID)
	assert.NotNil(t, resp.User.LastLogin)

	user, err := svc.Authenticate(db, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)

	_, err = svc.Login(ctx, db, &dto.LoginRequest{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, db, &dto.LoginRequest{Username: "nobody", Password: "x"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, db, &dto.LoginRequest{Username: "client", Password: "client-pass"})
	assert.ErrorIs(t, err, apperrors.ErrStaffOnly)

	_, err = svc.Authenticate(db, "garbage")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestAuthService_Login_RehashesImportedPassword(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := newContainer(t, services.Dependencies{}).AuthService

	key := pbkdf2.Key([]byte("imported-pass"), []byte("salt"), 1000, 32, sha256.New)
	user := &models.User{
		Username:     "legacy",
		PasswordHash: "pbkdf2_sha256$1000$salt$" + base64.StdEncoding.EncodeToString(key),
		IsStaff:      true,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)

	_, err := svc.Login(context.Background(), db, &dto.LoginRequest{Username: "legacy", Password: "imported-pass"})
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.False(t, auth.NeedsRehash(stored.PasswordHash))
	assert.True(t, auth.CheckPasswordHash("imported-pass", stored.PasswordHash))
}

func TestAuthService_SeedAdmin(t *testing.T) {
	db := helpers.NewTestDB(t)
	cfg := testConfig()
	cfg.Admin.Username = "admin"
	cfg.Admin.Password = "long-enough-password"
	svc := newContainer(t, services.Dependencies{Config: cfg}).AuthService
	ctx := context.Background()

	require.NoError(t, svc.SeedAdmin(ctx, db))
	require.NoError(t, svc.SeedAdmin(ctx, db))

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.True(t, users[0].CanAccessAdmin())
	assert.True(t, users[0].IsSuperuser)
}
