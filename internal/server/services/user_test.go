package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtimeline/internal/common"
	"github.com/dmitrijs2005/gophtimeline/internal/server/auth"
	"github.com/dmitrijs2005/gophtimeline/internal/server/config"
	"github.com/dmitrijs2005/gophtimeline/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T, rm *fakeRepoManager) (*UserService, *fakeRefreshRepo) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	if rm.r == nil {
		rm.r = &fakeRefreshRepo{}
	}
	cfg := &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
	return NewUserService(db, rm, cfg), rm.r
}

func newUserServiceWithTx(t *testing.T, rm *fakeRepoManager, commit bool) *UserService {
	t.Helper()
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
	t.Cleanup(func() { assert.NoError(t, mock.ExpectationsWereMet()) })
	if rm.r == nil {
		rm.r = &fakeRefreshRepo{}
	}
	cfg := &config.Config{SecretKey: "k", AccessTokenValidityDuration: time.Hour, RefreshTokenValidityDuration: 2 * time.Hour}
	return NewUserService(db, rm, cfg)
}

func TestRefreshToken_Success(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	refresh := &fakeRefreshRepo{findOut: &models.RefreshToken{UserID: "u1", Expires: fixed.Add(time.Minute)}}
	s := newUserServiceWithTx(t, &fakeRepoManager{r: refresh}, true)
	s.now = func() time.Time { return fixed }

	pair, err := s.RefreshToken(context.Background(), "refresh-xyz")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Len(t, pair.RefreshToken, 64)
	assert.Equal(t, []string{"refresh-xyz"}, refresh.deleted)
	assert.Equal(t, []time.Time{fixed.Add(2 * time.Hour)}, refresh.expires)
}

func TestRefreshToken_Expired(t *testing.T) {
	s, _ := newUserService(t, &fakeRepoManager{r: &fakeRefreshRepo{
		findOut: &models.RefreshToken{UserID: "u1", Expires: time.Now().Add(-time.Minute)},
	}})

	_, err := s.RefreshToken(context.Background(), "r")
	assert.ErrorIs(t, err, common.ErrRefreshTokenExpired)
}

func TestRefreshToken_Unknown(t *testing.T) {
	s, _ := newUserService(t, &fakeRepoManager{r: &fakeRefreshRepo{findErr: common.ErrorNotFound}})

	_, err := s.RefreshToken(context.Background(), "r")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRefreshToken_FindErr(t *testing.T) {
	s, _ := newUserService(t, &fakeRepoManager{r: &fakeRefreshRepo{findErr: errBoom}})

	_, err := s.RefreshToken(context.Background(), "r")
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "error searching refresh token")
}

func TestRefreshToken_DeleteErrRollsBack(t *testing.T) {
	s := newUserServiceWithTx(t, &fakeRepoManager{r: &fakeRefreshRepo{
		findOut: &models.RefreshToken{UserID: "u1", Expires: time.Now().Add(10 * time.Minute)},
		delErr:  errBoom,
	}}, false)

	_, err := s.RefreshToken(context.Background(), "r")
	assert.ErrorIs(t, err, errBoom)
}

func TestRefreshToken_CreateErrRollsBack(t *testing.T) {
	s := newUserServiceWithTx(t, &fakeRepoManager{r: &fakeRefreshRepo{
		findOut:   &models.RefreshToken{UserID: "u1", Expires: time.Now().Add(10 * time.Minute)},
		createErr: errBoom,
	}}, false)

	_, err := s.RefreshToken(context.Background(), "r")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestRegister(t *testing.T) {
	s, _ := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{createOut: &models.User{ID: "42", UserName: "alice"}}})

	u, err := s.Register(context.Background(), "alice", []byte("s"), []byte("v"))
	require.NoError(t, err)
	assert.Equal(t, "42", u.ID)
}

func TestRegister_Validation(t *testing.T) {
	s, _ := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{}})

	cases := []struct {
		name     string
		username string
		salt     []byte
		verifier []byte
	}{
		{"no username", "", []byte("s"), []byte("v")},
		{"no salt", "alice", nil, []byte("v")},
		{"no verifier", "alice", []byte("s"), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tc.username, tc.salt, tc.verifier)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	s, _ := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{createErr: common.ErrorAlreadyExists}})

	_, err := s.Register(context.Background(), "alice", []byte("s"), []byte("v"))
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestGetSalt(t *testing.T) {
	s, _ := newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{getOut: &models.User{Salt: []byte("SALT")}}})
	salt, err := s.GetSalt(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "SALT", string(salt))

	s, _ = newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{getErr: common.ErrorNotFound}})
	salt1, err := s.GetSalt(context.Background(), "ghost")
	require.NoError(t, err)
	salt2, _ := s.GetSalt(context.Background(), "ghost")
	assert.Len(t, salt1, saltSize)
	assert.NotEqual(t, salt1, salt2)

	s, _ = newUserService(t, &fakeRepoManager{u: &fakeUsersRepo{getErr: errBoom}})
	_, err = s.GetSalt(context.Background(), "x")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestLogin_Rejections(t *testing.T) {
	cases := []struct {
		name string
		repo *fakeUsersRepo
		want error
	}{
		{"unknown user", &fakeUsersRepo{getErr: common.ErrorNotFound}, common.ErrorUnauthorized},
		{"db failure", &fakeUsersRepo{getErr: errBoom}, common.ErrorInternal},
		{"wrong verifier", &fakeUsersRepo{getOut: &models.User{ID: "u1", Verifier: []byte("right")}}, common.ErrorUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newUserService(t, &fakeRepoManager{u: tc.repo})
			_, err := s.Login(context.Background(), "u", []byte("wrong"))
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestLogin_SuccessPurgesAndIssuesPair(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{getOut: &models.User{ID: "u1", Verifier: []byte("right")}}}
	s := newUserServiceWithTx(t, rm, true)

	pair, err := s.Login(context.Background(), "u", []byte("right"))
	require.NoError(t, err)

	userID, err := auth.GetUserIDFromToken(pair.AccessToken, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, []string{"u1"}, rm.r.purged)
	assert.Equal(t, []string{"u1"}, rm.r.created)
}

func TestLogin_PurgeFailureRollsBack(t *testing.T) {
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{getOut: &models.User{ID: "u1", Verifier: []byte("right")}},
		r: &fakeRefreshRepo{purgeErr: errBoom},
	}
	s := newUserServiceWithTx(t, rm, false)

	_, err := s.Login(context.Background(), "u", []byte("right"))
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.Empty(t, rm.r.created)
}
