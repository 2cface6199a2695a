// Package services contains the client's application services: sign-in with
// an offline fallback, and the timeline service that wires the composer to
// the right store.
package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophtimeline/internal/client/client"
	"github.com/dmitrijs2005/gophtimeline/internal/client/repositories/slots"
	"github.com/dmitrijs2005/gophtimeline/internal/common"
	"github.com/dmitrijs2005/gophtimeline/internal/cryptox"
	"github.com/dmitrijs2005/gophtimeline/internal/dbx"
)

const (
	keyUsername = "auth:username"
	keySalt     = "auth:salt"
	keyVerifier = "auth:verifier"
)

// AuthService signs the user in.
//
// OnlineLogin authenticates against the gateway and caches what OfflineLogin
// needs to verify the same password later without a network. An offline
// session has no gateway tokens, so the timeline runs against local storage.
type AuthService interface {
	OfflineLogin(ctx context.Context, username string, password []byte) error
	OnlineLogin(ctx context.Context, username string, password []byte) error
	Register(ctx context.Context, username string, password []byte) error
	Ping(ctx context.Context) error
	HasSession() bool
	Logout(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	db     *sql.DB
}

func NewAuthService(client client.Client, db *sql.DB) AuthService {
	return &authService{client: client, db: db}
}

func (a *authService) slotRepo(db dbx.DBTX) slots.Repository {
	return slots.NewSQLiteRepository(db)
}

// OfflineLogin checks password against the cached verifier.
func (a *authService) OfflineLogin(ctx context.Context, username string, password []byte) error {
	repo := a.slotRepo(a.db)

	savedUsername, err := repo.ReadSlot(ctx, keyUsername)
	if err != nil {
		return err
	}
	if savedUsername == nil {
		return client.ErrUnauthorized
	}
	if string(savedUsername) != username {
		return client.ErrUnauthorized
	}

	savedSalt, err := repo.ReadSlot(ctx, keySalt)
	if err != nil {
		return err
	}
	savedVerifier, err := repo.ReadSlot(ctx, keyVerifier)
	if err != nil {
		return err
	}

	candidate := cryptox.MakeVerifier(cryptox.DeriveMasterKey(password, savedSalt))
	if !cryptox.Equal(savedVerifier, candidate) {
		return client.ErrUnauthorized
	}
	return nil
}

func (a *authService) OnlineLogin(ctx context.Context, userName string, password []byte) error {
	salt, err := a.client.GetSalt(ctx, userName)
	if err != nil {
		return fmt.Errorf("get salt error: %w", err)
	}

	verifier := cryptox.MakeVerifier(cryptox.DeriveMasterKey(password, salt))

	if err := a.client.Login(ctx, userName, verifier); err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	if err := a.saveOfflineData(ctx, userName, salt, verifier); err != nil {
		return fmt.Errorf("offline data saving error: %w", err)
	}
	return nil
}

func (a *authService) saveOfflineData(ctx context.Context, userName string, salt []byte, verifier []byte) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.slotRepo(tx)
		if err := repo.WriteSlot(ctx, keyUsername, []byte(userName)); err != nil {
			return err
		}
		if err := repo.WriteSlot(ctx, keySalt, salt); err != nil {
			return err
		}
		return repo.WriteSlot(ctx, keyVerifier, verifier)
	})
}

// Register creates the account with a fresh random salt.
func (a *authService) Register(ctx context.Context, username string, password []byte) error {
	salt := common.GenerateRandByteArray(32)
	verifier := cryptox.MakeVerifier(cryptox.DeriveMasterKey(password, salt))

	return a.client.Register(ctx, username, salt, verifier)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// HasSession reports whether gateway tokens are held.
func (a *authService) HasSession() bool {
	return a.client.Authenticated()
}

// Logout drops the session and the cached credentials. Local timelines are
// kept.
func (a *authService) Logout(ctx context.Context) error {
	a.client.Logout()
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.slotRepo(tx)
		for _, k := range []string{keyUsername, keySalt, keyVerifier} {
			if err := repo.DeleteSlot(ctx, k); err != nil {
				return err
			}
		}
		return nil
	})
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
