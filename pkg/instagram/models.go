package instagram

import "encoding/json"

// Media type codes used by the feed API
const (
	MediaTypeImage    = 1
	MediaTypeVideo    = 2
	MediaTypeCarousel = 8
)

// SearchResponse is the payload of /web/search/topsearch/
type SearchResponse struct {
	Users  []SearchEntry `json:"users"`
	Status string        `json:"status"`
}

// SearchEntry wraps one user hit in the search results
type SearchEntry struct {
	Position int        `json:"position"`
	User     SearchUser `json:"user"`
}

// SearchUser is the trimmed user shape returned by search
type SearchUser struct {
	PK         json.Number `json:"pk"`
	Username   string      `json:"username"`
	FullName   string      `json:"full_name"`
	IsPrivate  bool        `json:"is_private"`
	IsVerified bool        `json:"is_verified"`
}

// UserInfoResponse is the payload of /api/v1/users/{id}/info/
type UserInfoResponse struct {
	User   *RawUser `json:"user"`
	Status string   `json:"status"`
}

// RawUser is the full user record as Instagram returns it
type RawUser struct {
	PK                  json.Number `json:"pk"`
	Username            string      `json:"username"`
	FullName            string      `json:"full_name"`
	Biography           string      `json:"biography"`
	FollowerCount       int64       `json:"follower_count"`
	FollowingCount      int64       `json:"following_count"`
	MediaCount          int64       `json:"media_count"`
	ProfilePicURL       string      `json:"profile_pic_url"`
	HDProfilePicURLInfo *ImageInfo  `json:"hd_profile_pic_url_info"`
	Category            string      `json:"category"`
	IsVerified          bool        `json:"is_verified"`
	ExternalURL         string      `json:"external_url"`
	IsPrivate           bool        `json:"is_private"`
}

// ImageInfo is a sized image reference
type ImageInfo struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// FeedResponse is one page of /api/v1/feed/user/{id}/
type FeedResponse struct {
	Items         []FeedItem `json:"items"`
	NumResults    int        `json:"num_results"`
	MoreAvailable bool       `json:"more_available"`
	NextMaxID     string     `json:"next_max_id"`
	Status        string     `json:"status"`
}

// FeedItem is a single post in the feed. Optional counters are pointers so a
// missing key can be told apart from zero.
type FeedItem struct {
	PK                   json.Number     `json:"pk"`
	ID                   string          `json:"id"`
	Code                 string          `json:"code"`
	MediaType            int             `json:"media_type"`
	TakenAt              int64           `json:"taken_at"`
	Caption              *Caption        `json:"caption"`
	LikeCount            *int64          `json:"like_count"`
	CommentCount         *int64          `json:"comment_count"`
	PlayCount            *int64          `json:"play_count"`
	ViewCount            *int64          `json:"view_count"`
	Location             *Location       `json:"location"`
	AccessibilityCaption *string         `json:"accessibility_caption"`
	ImageVersions2       *ImageVersions  `json:"image_versions2"`
	VideoVersions        []VideoVersion  `json:"video_versions"`
	CarouselMedia        []CarouselChild `json:"carousel_media"`
}

// CarouselChild is one slide of a carousel post
type CarouselChild struct {
	PK             json.Number    `json:"pk"`
	MediaType      int            `json:"media_type"`
	ImageVersions2 *ImageVersions `json:"image_versions2"`
	VideoVersions  []VideoVersion `json:"video_versions"`
}

// Caption holds the post text
type Caption struct {
	Text string `json:"text"`
}

// Location is the tagged place of a post
type Location struct {
	PK   json.Number `json:"pk"`
	Name string      `json:"name"`
}

// ImageVersions lists renditions of an image, best first
type ImageVersions struct {
	Candidates []ImageInfo `json:"candidates"`
}

// VideoVersion is one rendition of a video
type VideoVersion struct {
	URL    string `json:"url"`
	Type   int    `json:"type"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
