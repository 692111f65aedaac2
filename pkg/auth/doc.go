// Package auth stores named Instagram session cookies.
//
// igexport never logs in; it reuses the sessionid cookie of a signed-in
// browser. Accounts are kept, in order of preference, in the system keychain
// (go-keyring), in an AES-GCM encrypted file under the user config directory,
// or read from IGSCRAPER_SESSION_ID.
//
//	m, err := auth.NewDefaultManager()
//	sessionID, err := m.SessionFor("") // default account
package auth
