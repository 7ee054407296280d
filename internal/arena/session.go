package arena

import (
	"context"
	"errors"

	"DiamondQuest/internal/model"
	"DiamondQuest/internal/session"
)

// LoginResult is the outcome of Login and SelectCandidate.
type LoginResult struct {
	session.LoginResult
	Toast *model.Toast `json:"toast,omitempty"`
}

// Login starts a session for identifier. It never fails for lookup errors;
// an empty identifier returns session.ErrEmptyIdentifier.
func (a *Arena) Login(ctx context.Context, identifier string) (LoginResult, error) {
	res, err := a.session.Login(ctx, identifier)
	if errors.Is(err, session.ErrEmptyIdentifier) {
		t := toast(model.ToastDestructive, "Error", "Please enter a Roblox username")
		a.notify(ctx, *t)
		return LoginResult{Toast: t}, err
	}
	if err != nil {
		return LoginResult{}, err
	}

	var t *model.Toast
	switch {
	case res.Status == session.ChooseCandidate:
		t = toast(model.ToastInfo, "Multiple Users Found", "Please select your account from the list")
	case res.Identity.Verified:
		t = toast(model.ToastSuccess, "Login Successful", "Welcome, %s!", res.Identity.DisplayName)
	default:
		t = toast(model.ToastSuccess, "Welcome", "Logged in as %s", res.Identity.Username)
	}
	a.notify(ctx, *t)
	return LoginResult{LoginResult: res, Toast: t}, nil
}

// SelectCandidate finishes a login that returned candidates.
func (a *Arena) SelectCandidate(ctx context.Context, candidateID string) (LoginResult, error) {
	id, err := a.session.Select(candidateID)
	if err != nil {
		return LoginResult{}, err
	}
	t := toast(model.ToastSuccess, "Login Successful", "Welcome, %s!", id.DisplayName)
	a.notify(ctx, *t)
	return LoginResult{LoginResult: session.LoginResult{Status: session.LoggedIn, Identity: id}, Toast: t}, nil
}

// Logout ends the session and resets balance, gates, claims and games.
func (a *Arena) Logout(ctx context.Context) Result {
	a.session.Logout()
	return a.result(ctx, StatusOK, toast(model.ToastInfo, "Logged Out", "See you next time!"))
}

// CurrentUser returns the active identity.
func (a *Arena) CurrentUser() (model.Identity, bool) {
	return a.session.Current()
}
