package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// ScraperVersion is stamped into every export
const ScraperVersion = "1.0.0"

type MediaKind string

const (
	MediaImage    MediaKind = "Image"
	MediaVideo    MediaKind = "Video"
	MediaCarousel MediaKind = "Carousel"
	MediaUnknown  MediaKind = "Unknown"
)

// Nullable fields are pointers without omitempty so they encode as null.
type Profile struct {
	UserID         string  `json:"user_id"`
	Username       string  `json:"username"`
	FullName       string  `json:"full_name"`
	Biography      string  `json:"biography"`
	FollowerCount  int64   `json:"follower_count"`
	FollowingCount int64   `json:"following_count"`
	MediaCount     int64   `json:"media_count"`
	ProfilePicURL  string  `json:"profile_pic_url"`
	Category       *string `json:"category"`
	IsVerified     bool    `json:"is_verified"`
	ExternalURL    *string `json:"external_url"`
	IsPrivate      bool    `json:"is_private"`
}

type MediaVariant struct {
	URL      *string `json:"url"`
	IsVideo  bool    `json:"is_video"`
	VideoURL *string `json:"video_url"`
}

type Post struct {
	PostID               string         `json:"post_id"`
	Shortcode            string         `json:"shortcode"`
	MediaType            MediaKind      `json:"media_type"`
	Caption              string         `json:"caption"`
	LikeCount            int64          `json:"like_count"`
	CommentCount         int64          `json:"comment_count"`
	Timestamp            int64          `json:"timestamp"`
	Date                 string         `json:"date"`
	MediaURLs            []MediaVariant `json:"media_urls"`
	VideoViewCount       *int64         `json:"video_view_count"`
	Location             *string        `json:"location"`
	IsVideo              bool           `json:"is_video"`
	AccessibilityCaption *string        `json:"accessibility_caption"`
}

type ScrapeMetadata struct {
	ScrapedAt         string `json:"scraped_at"`
	TargetUsername    string `json:"target_username"`
	TotalPostsFetched int    `json:"total_posts_fetched"`
	ScraperVersion    string `json:"scraper_version"`
}

type ScrapeResult struct {
	Profile        *Profile       `json:"profile"`
	Posts          []Post         `json:"posts"`
	ScrapeMetadata ScrapeMetadata `json:"scrape_metadata"`
}

// ISOTimestamp renders t in UTC with millisecond precision
func ISOTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// NewScrapeResult assembles an export, stamping it with scrapedAt
func NewScrapeResult(profile *Profile, posts []Post, target string, scrapedAt time.Time) *ScrapeResult {
	if posts == nil {
		posts = []Post{}
	}
	return &ScrapeResult{
		Profile: profile,
		Posts:   posts,
		ScrapeMetadata: ScrapeMetadata{
			ScrapedAt:         ISOTimestamp(scrapedAt),
			TargetUsername:    target,
			TotalPostsFetched: len(posts),
			ScraperVersion:    ScraperVersion,
		},
	}
}

// MarshalJSON keeps posts as [] even when the slice was emptied to nil.
// URLs keep a literal & instead of \u0026.
func (r ScrapeResult) MarshalJSON() ([]byte, error) {
	type plain ScrapeResult
	if r.Posts == nil {
		r.Posts = []Post{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(plain(r)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// StringPtr returns nil for an empty string
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
