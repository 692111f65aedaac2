package scraper

import (
	"time"

	"igexport/pkg/instagram"
	"igexport/pkg/models"
)

// MediaKindOf maps a feed media_type code to its kind
func MediaKindOf(code int) models.MediaKind {
	switch code {
	case instagram.MediaTypeImage:
		return models.MediaImage
	case instagram.MediaTypeVideo:
		return models.MediaVideo
	case instagram.MediaTypeCarousel:
		return models.MediaCarousel
	default:
		return models.MediaUnknown
	}
}

// NormalizeItem converts a raw feed item into a Post. Missing fields fall back
// to their zero or null form; it never fails.
func NormalizeItem(item instagram.FeedItem) models.Post {
	post := models.Post{
		PostID:       item.PK.String(),
		Shortcode:    item.Code,
		MediaType:    MediaKindOf(item.MediaType),
		LikeCount:    derefCount(item.LikeCount),
		CommentCount: derefCount(item.CommentCount),
		Timestamp:    item.TakenAt,
		Date:         models.ISOTimestamp(time.Unix(item.TakenAt, 0)),
		MediaURLs:    mediaVariants(item),
		IsVideo:      item.MediaType == instagram.MediaTypeVideo,
	}

	if item.Caption != nil {
		post.Caption = item.Caption.Text
	}

	// a reported play_count of 0 is kept, not replaced by view_count
	switch {
	case item.PlayCount != nil:
		views := *item.PlayCount
		post.VideoViewCount = &views
	case item.ViewCount != nil:
		views := *item.ViewCount
		post.VideoViewCount = &views
	}

	if item.Location != nil {
		post.Location = models.StringPtr(item.Location.Name)
	}
	if item.AccessibilityCaption != nil {
		post.AccessibilityCaption = models.StringPtr(*item.AccessibilityCaption)
	}

	return post
}

// mediaVariants yields one variant per carousel child, or a single variant
// for the item itself. A present but empty carousel yields none.
func mediaVariants(item instagram.FeedItem) []models.MediaVariant {
	if item.CarouselMedia != nil {
		variants := make([]models.MediaVariant, 0, len(item.CarouselMedia))
		for _, child := range item.CarouselMedia {
			variants = append(variants, variant(child.MediaType, child.ImageVersions2, child.VideoVersions))
		}
		return variants
	}
	return []models.MediaVariant{variant(item.MediaType, item.ImageVersions2, item.VideoVersions)}
}

func variant(mediaType int, images *instagram.ImageVersions, videos []instagram.VideoVersion) models.MediaVariant {
	v := models.MediaVariant{IsVideo: mediaType == instagram.MediaTypeVideo}
	if images != nil && len(images.Candidates) > 0 {
		v.URL = models.StringPtr(images.Candidates[0].URL)
	}
	if len(videos) > 0 {
		v.VideoURL = models.StringPtr(videos[0].URL)
	}
	return v
}

func derefCount(n *int64) int64 {
	if n == nil {
		return 0
	}
	return *n
}
