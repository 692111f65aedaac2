package instagram

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultBaseURL is the base URL for Instagram
	DefaultBaseURL = "https://www.instagram.com"

	// SearchPath resolves a handle to user records
	SearchPath = "/web/search/topsearch/"

	// UserInfoPath is the profile endpoint, keyed by numeric user ID
	UserInfoPath = "/api/v1/users/%s/info/"

	// FeedPath is the paginated post feed, keyed by numeric user ID
	FeedPath = "/api/v1/feed/user/%s/"

	// DefaultPageSize is the number of feed items requested per page
	DefaultPageSize = 12

	// MaxUsernameLength is Instagram's handle length limit
	MaxUsernameLength = 30
)

// Endpoints builds request URLs against a configurable base
type Endpoints struct {
	Base     string
	PageSize int
}

// NewEndpoints returns endpoints rooted at base with the given feed page size
func NewEndpoints(base string, pageSize int) Endpoints {
	if base == "" {
		base = DefaultBaseURL
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Endpoints{
		Base:     strings.TrimRight(base, "/"),
		PageSize: pageSize,
	}
}

// Root is the landing page visited to bootstrap cookies
func (e Endpoints) Root() string {
	return e.Base + "/"
}

// Search constructs the topsearch URL for a query
func (e Endpoints) Search(query string) string {
	params := url.Values{}
	params.Set("query", query)
	return fmt.Sprintf("%s%s?%s", e.Base, SearchPath, params.Encode())
}

// UserInfo constructs the profile URL for a user ID
func (e Endpoints) UserInfo(userID string) string {
	return e.Base + fmt.Sprintf(UserInfoPath, url.PathEscape(userID))
}

// Feed constructs the feed URL for a user ID. maxID is omitted when empty.
func (e Endpoints) Feed(userID, maxID string) string {
	query := fmt.Sprintf("count=%d", e.PageSize)
	if maxID != "" {
		query += "&max_id=" + url.QueryEscape(maxID)
	}
	return e.Base + fmt.Sprintf(FeedPath, url.PathEscape(userID)) + "?" + query
}

// IsValidUsername checks if a username is valid according to Instagram rules
func IsValidUsername(username string) bool {
	if username == "" || len(username) > MaxUsernameLength {
		return false
	}

	// Instagram usernames can only contain letters, numbers, periods, and underscores
	for _, char := range username {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '.' || char == '_') {
			return false
		}
	}

	return true
}

// SanitizeUsername strips a leading @, profile URL prefixes and trailing
// slashes or spaces
func SanitizeUsername(username string) string {
	username = strings.TrimSpace(username)
	for _, prefix := range []string{"https://", "http://", "www.", "instagram.com/"} {
		username = strings.TrimPrefix(username, prefix)
	}
	username = strings.TrimPrefix(username, "@")
	return strings.TrimRight(username, "/ ")
}
