package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophtimeline/internal/client/client"
	"github.com/dmitrijs2005/gophtimeline/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email and password and creates the account.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Register(ctx, userName, password); err != nil {
		fmt.Fprintf(a.out, "Registration failed: %s\n", err)
		return err
	}

	fmt.Fprintln(a.out, "Success!")
	return nil
}

// Login tries the gateway first. When it is unreachable the cached
// credentials are checked instead and the session runs offline against the
// local timeline. Both failing leaves the app disabled.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	err = a.authService.OnlineLogin(ctx, userName, password)
	switch {
	case err == nil:
		fmt.Fprintln(a.out, "Login successful")
		a.setUser(userName)
		a.setMode(ModeOnline)
		return nil

	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Server unavailable, trying offline login...")
		if err := a.authService.OfflineLogin(ctx, userName, password); err != nil {
			fmt.Fprintf(a.out, "Offline login unsuccessful: %s\n", err)
			a.setMode(ModeDisabled)
			return err
		}
		fmt.Fprintln(a.out, "Offline login successful")
		a.setUser(userName)
		a.setMode(ModeOffline)
		return nil

	default:
		fmt.Fprintf(a.out, "Login unsuccessful: %s\n", err)
		return err
	}
}

// Logout drops the session and the cached credentials.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.setUser("")
	a.setMode(ModeOffline)
	return nil
}
