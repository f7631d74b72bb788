package cli

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/llehouerou/echoes/internal/api"
	"github.com/llehouerou/echoes/internal/errmsg"
	"github.com/llehouerou/echoes/internal/session"
)

var (
	errNotSignedIn    = errors.New("not signed in. Run 'echoes token set <token>' first")
	errSessionExpired = errors.New("session expired. Run 'echoes token set <token>' again")
)

// openSession opens the configured session store.
func openSession() (*session.Store, error) {
	store, err := session.Open(cfg.Session.DBPath)
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpSessionOpen, err))
	}
	return store, nil
}

// requireToken fails when the store holds no usable token.
func requireToken(store *session.Store) error {
	token, err := store.Token()
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		return errNotSignedIn
	}
	return nil
}

// newClient builds the API client from config, authenticated by tokens.
func newClient(tokens api.TokenSource) *api.Client {
	ac := cfg.GetAPIConfig()
	retries := ac.MaxRetries
	if retries == 0 {
		retries = -1 // disabled in config
	}
	return api.New(ac.URL, tokens, api.Options{
		Timeout:    ac.Timeout(),
		MaxRetries: retries,
		RetryWait:  ac.RetryWait(),
		Logger:     zap.L().Named("api"),
	})
}

// signOutOnAuth clears the session when err is an authentication failure,
// and returns the error to show.
func signOutOnAuth(store *session.Store, err error) error {
	if !api.IsAuthRequired(err) {
		return err
	}
	return expireSession(store)
}

// expireSession signs out after the server rejected the token.
func expireSession(store *session.Store) error {
	if err := store.SignOut(); err != nil {
		zap.L().Warn("sign out failed", zap.Error(err))
	}
	return errSessionExpired
}
