package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/models"
)

func newAuthService(t *testing.T) (*AuthService, *mockFacultyRepo) {
	t.Helper()
	repo := seededFaculty(t)
	svc := NewAuthService(repo, nil, zap.NewNop(), AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "college-admin-api",
	})
	return svc, repo
}

func TestAuthServiceLoginIssuesValidToken(t *testing.T) {
	svc, _ := newAuthService(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "ADA@college.edu", Password: "original-secret"})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "f1", resp.User.ID)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "f1", claims.FacultyID)
	assert.Equal(t, models.RoleFaculty, claims.Role)
	assert.Equal(t, "college-admin-api", claims.Issuer)
}

func TestAuthServiceLoginRejectsBadPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ada@college.edu", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "nobody@college.edu", Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))
}

func TestAuthServiceValidateTokenRejectsForeignSecret(t *testing.T) {
	svc, repo := newAuthService(t)
	other := NewAuthService(repo, nil, nil, AuthConfig{AccessTokenSecret: "other-secret"})

	resp, err := other.Login(context.Background(), models.LoginRequest{Email: "ada@college.edu", Password: "original-secret"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))
}

func TestAuthServiceMe(t *testing.T) {
	svc, _ := newAuthService(t)

	user, err := svc.Me(context.Background(), &models.JWTClaims{FacultyID: "f1"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", user.Name)

	_, err = svc.Me(context.Background(), &models.JWTClaims{FacultyID: "gone"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))
}
