package scraper

import (
	"context"
	"strings"

	errs "igexport/pkg/errors"
)

// ResolveUserID maps a handle to its numeric user ID via search. The first
// result whose username matches case-insensitively wins.
func ResolveUserID(ctx context.Context, sess InstagramSession, username string) (string, error) {
	resp, err := sess.Search(ctx, username)
	if err != nil {
		return "", err
	}

	for _, entry := range resp.Users {
		if entry.User.PK == "" {
			continue
		}
		if strings.EqualFold(entry.User.Username, username) {
			return entry.User.PK.String(), nil
		}
	}

	return "", errs.NewUserNotFound(username)
}
