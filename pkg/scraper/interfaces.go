package scraper

import (
	"context"

	"igexport/pkg/instagram"
)

// InstagramSession defines the API calls the scraper makes through an
// established session
type InstagramSession interface {
	Search(ctx context.Context, query string) (*instagram.SearchResponse, error)
	UserInfo(ctx context.Context, userID string) (*instagram.UserInfoResponse, error)
	UserFeed(ctx context.Context, userID, maxID string) (*instagram.FeedResponse, error)
}

// SessionEstablisher opens a session, optionally seeded with a session cookie
type SessionEstablisher func(ctx context.Context, sessionID string) (InstagramSession, error)

// ProgressFunc is told the running post count after every feed page
type ProgressFunc func(fetched int)

// ProgressReporter receives run progress together with the expected total
type ProgressReporter interface {
	Start(username string, expected int)
	Update(fetched int)
	Finish()
}
