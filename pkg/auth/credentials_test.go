package auth

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func envStore(sessionID string) *EnvironmentStore {
	return &EnvironmentStore{lookup: func(key string) string {
		if key == EnvSessionID {
			return sessionID
		}
		return ""
	}}
}

func TestManagerStoreRetrieveDelete(t *testing.T) {
	manager, mockStore := NewMockManager()
	fixed := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return fixed }

	require.NoError(t, manager.Store(&Account{Name: "main", SessionID: "123%3Aabc%3A4"}))

	retrieved, err := manager.Retrieve("main")
	require.NoError(t, err)
	assert.Equal(t, "123%3Aabc%3A4", retrieved.SessionID)
	assert.Equal(t, fixed, retrieved.LastModified)

	require.NoError(t, manager.Delete("main"))
	assert.Equal(t, 0, mockStore.Count())

	_, err = manager.Retrieve("main")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)

	err = manager.Delete("main")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestManagerStoreValidation(t *testing.T) {
	manager, _ := NewMockManager()

	assert.Error(t, manager.Store(nil))
	assert.Error(t, manager.Store(&Account{SessionID: "x"}))
	assert.Error(t, manager.Store(&Account{Name: "main"}))
}

func TestManagerStoreFallsThrough(t *testing.T) {
	broken := NewMockStore()
	broken.StoreError = errors.New("keychain locked")
	working := NewMockStore()
	manager := NewManager(broken, working)

	require.NoError(t, manager.Store(&Account{Name: "alt", SessionID: "s"}))
	assert.Equal(t, 0, broken.Count())
	assert.True(t, working.Exists("alt"))
}

func TestManagerStoreAllFail(t *testing.T) {
	broken := NewMockStore()
	broken.StoreError = errors.New("keychain locked")
	manager := NewManager(broken, envStore(""))

	err := manager.Store(&Account{Name: "alt", SessionID: "s"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestManagerListMergesAndSorts(t *testing.T) {
	older := NewMockStore()
	newer := NewMockStore()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, older.Store(&Account{Name: "zed", SessionID: "old", LastModified: t0}))
	require.NoError(t, older.Store(&Account{Name: "amy", SessionID: "a", LastModified: t0}))
	require.NoError(t, newer.Store(&Account{Name: "zed", SessionID: "new", LastModified: t0.Add(time.Hour)}))

	accounts, err := NewManager(older, newer).List()
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "amy", accounts[0].Name)
	assert.Equal(t, "zed", accounts[1].Name)
	assert.Equal(t, "new", accounts[1].SessionID)
}

func TestManagerSessionFor(t *testing.T) {
	store := NewMockStore()
	require.NoError(t, store.Store(&Account{Name: "b", SessionID: "sess-b"}))
	require.NoError(t, store.Store(&Account{Name: "a", SessionID: "sess-a"}))

	t.Run("named", func(t *testing.T) {
		sessionID, err := NewManager(store, envStore("")).SessionFor("b")
		require.NoError(t, err)
		assert.Equal(t, "sess-b", sessionID)
	})

	t.Run("default is first by name", func(t *testing.T) {
		sessionID, err := NewManager(store, envStore("")).SessionFor("")
		require.NoError(t, err)
		assert.Equal(t, "sess-a", sessionID)
	})

	t.Run("environment wins as default", func(t *testing.T) {
		sessionID, err := NewManager(store, envStore("from-env")).SessionFor("")
		require.NoError(t, err)
		assert.Equal(t, "from-env", sessionID)
	})

	t.Run("environment does not shadow a named account", func(t *testing.T) {
		_, err := NewManager(envStore("from-env")).SessionFor("missing")
		assert.ErrorIs(t, err, ErrCredentialsNotFound)
	})

	t.Run("nothing stored", func(t *testing.T) {
		_, err := NewManager(NewMockStore(), envStore("")).SessionFor("")
		assert.ErrorIs(t, err, ErrCredentialsNotFound)
	})
}

func TestEnvironmentStore(t *testing.T) {
	store := envStore("abc")

	account, err := store.Retrieve("")
	require.NoError(t, err)
	assert.Equal(t, EnvAccountName, account.Name)
	assert.Equal(t, "abc", account.SessionID)
	assert.True(t, store.Exists(EnvAccountName))
	assert.False(t, store.Exists("other"))

	assert.ErrorIs(t, store.Store(&Account{Name: "x", SessionID: "y"}), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete("env"), ErrStoreUnavailable)

	accounts, err := envStore("").List()
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestEncryptedFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds", "credentials.enc")
	store, err := NewEncryptedFileStoreWithPassphrase(path, "correct horse")
	require.NoError(t, err)

	accounts, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, accounts)

	require.NoError(t, store.Store(&Account{Name: "main", SessionID: "secret-session-value"}))
	require.NoError(t, store.Store(&Account{Name: "alt", SessionID: "other"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-session-value")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reopened, err := NewEncryptedFileStoreWithPassphrase(path, "correct horse")
	require.NoError(t, err)
	account, err := reopened.Retrieve("main")
	require.NoError(t, err)
	assert.Equal(t, "secret-session-value", account.SessionID)
	assert.True(t, reopened.Exists("alt"))

	wrong, err := NewEncryptedFileStoreWithPassphrase(path, "wrong")
	require.NoError(t, err)
	_, err = wrong.Retrieve("main")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCredentialsNotFound)

	require.NoError(t, store.Delete("main"))
	assert.ErrorIs(t, store.Delete("main"), ErrCredentialsNotFound)
	require.NoError(t, store.Delete("alt"))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file removed with the last account")
}

func TestEncryptedFileStoreGeneratesPassphrase(t *testing.T) {
	t.Setenv(EnvPassphrase, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.enc")

	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(&Account{Name: "main", SessionID: "s"}))

	passphrase, err := os.ReadFile(filepath.Join(dir, ".passphrase"))
	require.NoError(t, err)
	assert.NotEmpty(t, passphrase)

	again, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	assert.True(t, again.Exists("main"))
}

func TestEncryptedFileStoreRequiresPassphrase(t *testing.T) {
	_, err := NewEncryptedFileStoreWithPassphrase(filepath.Join(t.TempDir(), "c.enc"), "")
	assert.Error(t, err)
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()

	store, err := NewKeyringStore()
	require.NoError(t, err)

	require.NoError(t, store.Store(&Account{Name: "b", SessionID: "sb"}))
	require.NoError(t, store.Store(&Account{Name: "a", SessionID: "sa"}))

	account, err := store.Retrieve("b")
	require.NoError(t, err)
	assert.Equal(t, "sb", account.SessionID)

	accounts, err := store.List()
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "a", accounts[0].Name)

	require.NoError(t, store.Delete("a"))
	assert.False(t, store.Exists("a"))
	assert.ErrorIs(t, store.Delete("a"), ErrCredentialsNotFound)

	accounts, err = store.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	_, err = store.Retrieve("missing")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestKeyringUnavailable(t *testing.T) {
	keyring.MockInitWithError(errors.New("no dbus"))
	defer keyring.MockInit()

	_, err := NewKeyringStore()
	assert.Error(t, err)
}

func TestSanitizeAccount(t *testing.T) {
	account := &Account{Name: "main", SessionID: "1234567890abcdef"}
	sanitized := SanitizeAccount(account)

	assert.Equal(t, "main", sanitized.Name)
	assert.Equal(t, "1234...cdef", sanitized.SessionID)
	assert.Equal(t, "********", MaskSecret("short"))
	assert.Nil(t, SanitizeAccount(nil))
}

func TestWriteSessionCookieGuide(t *testing.T) {
	var buf bytes.Buffer
	WriteSessionCookieGuide(&buf)
	assert.Contains(t, buf.String(), "sessionid")
	assert.NotContains(t, buf.String(), "password")
}
