package auth

import (
	"os"
	"time"
)

// EnvSessionID holds a session cookie supplied through the environment
const EnvSessionID = "IGSCRAPER_SESSION_ID"

// EnvironmentStore is a read-only store backed by IGSCRAPER_SESSION_ID
type EnvironmentStore struct {
	lookup func(string) string
}

// NewEnvironmentStore creates a store reading the process environment
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{lookup: os.Getenv}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// EnvAccountName names the account exposed by EnvironmentStore
const EnvAccountName = "env"

// Retrieve returns the environment session for name "" or "env"
func (e *EnvironmentStore) Retrieve(name string) (*Account, error) {
	if name != "" && name != EnvAccountName {
		return nil, ErrCredentialsNotFound
	}
	sessionID := e.lookup(EnvSessionID)
	if sessionID == "" {
		return nil, ErrCredentialsNotFound
	}

	return &Account{
		Name:         EnvAccountName,
		SessionID:    sessionID,
		LastModified: time.Time{},
	}, nil
}

// List returns the environment account if one is set
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists reports whether Retrieve would succeed for name
func (e *EnvironmentStore) Exists(name string) bool {
	_, err := e.Retrieve(name)
	return err == nil
}
