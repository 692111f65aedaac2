package instagram

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEndpointsDefaults(t *testing.T) {
	e := NewEndpoints("", 0)
	assert.Equal(t, DefaultBaseURL, e.Base)
	assert.Equal(t, DefaultPageSize, e.PageSize)

	e = NewEndpoints("http://localhost:8080/", 6)
	assert.Equal(t, "http://localhost:8080", e.Base)
	assert.Equal(t, "http://localhost:8080/", e.Root())
}

func TestSearchURL(t *testing.T) {
	e := NewEndpoints(DefaultBaseURL, 12)

	assert.Equal(t, "https://www.instagram.com/web/search/topsearch/?query=natgeo", e.Search("natgeo"))

	parsed, err := url.Parse(e.Search("a b&c"))
	require.NoError(t, err)
	assert.Equal(t, "a b&c", parsed.Query().Get("query"))
}

func TestUserInfoURL(t *testing.T) {
	e := NewEndpoints(DefaultBaseURL, 12)
	assert.Equal(t, "https://www.instagram.com/api/v1/users/787132/info/", e.UserInfo("787132"))
}

func TestFeedURL(t *testing.T) {
	e := NewEndpoints(DefaultBaseURL, 12)

	tests := []struct {
		name     string
		maxID    string
		expected string
	}{
		{"first page omits max_id", "", "https://www.instagram.com/api/v1/feed/user/42/?count=12"},
		{"cursor appended", "A", "https://www.instagram.com/api/v1/feed/user/42/?count=12&max_id=A"},
		{"cursor escaped", "3141_42", "https://www.instagram.com/api/v1/feed/user/42/?count=12&max_id=3141_42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, e.Feed("42", tt.maxID))
		})
	}

	parsed, err := url.Parse(e.Feed("42", "QVFB=+/"))
	require.NoError(t, err)
	assert.Equal(t, "QVFB=+/", parsed.Query().Get("max_id"))
}

func TestIsValidUsername(t *testing.T) {
	tests := []struct {
		username string
		valid    bool
	}{
		{"testuser", true},
		{"test_user", true},
		{"test.user", true},
		{"TestUser123", true},
		{"", false},
		{"test-user", false},
		{"test user", false},
		{"test@user", false},
		{"abcdefghijklmnopqrstuvwxyz12345", false},
		{"abcdefghijklmnopqrstuvwxyz1234", true},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidUsername(tt.username))
		})
	}
}

func TestSanitizeUsername(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"testuser", "testuser"},
		{"@testuser", "testuser"},
		{"  @testuser  ", "testuser"},
		{"testuser/", "testuser"},
		{"testuser// ", "testuser"},
		{"https://www.instagram.com/natgeo/", "natgeo"},
		{"instagram.com/natgeo", "natgeo"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeUsername(tt.input))
		})
	}
}
