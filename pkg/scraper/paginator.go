package scraper

import (
	"context"

	"igexport/pkg/models"
)

// FetchAllPosts walks the feed of userID page by page. maxPosts > 0 stops
// collection as soon as that many posts are held, even mid-page. progress may
// be nil. Pagination ends when the feed reports no more items or omits the
// next cursor; a pacing pause is taken only before a page that will be
// requested.
func (s *Scraper) FetchAllPosts(ctx context.Context, sess InstagramSession, userID string, maxPosts int, progress ProgressFunc) ([]models.Post, error) {
	posts := make([]models.Post, 0)
	cursor := ""

	for page := 1; ; page++ {
		feed, err := sess.UserFeed(ctx, userID, cursor)
		if err != nil {
			return nil, err
		}

		finished := false
		for _, item := range feed.Items {
			posts = append(posts, NormalizeItem(item))
			if maxPosts > 0 && len(posts) >= maxPosts {
				finished = true
				break
			}
		}

		if progress != nil {
			progress(len(posts))
		}

		s.logger.DebugWithFields("feed page fetched", map[string]interface{}{
			"user_id":        userID,
			"page":           page,
			"items":          len(feed.Items),
			"total":          len(posts),
			"more_available": feed.MoreAvailable,
		})

		if finished || !feed.MoreAvailable || feed.NextMaxID == "" {
			break
		}
		cursor = feed.NextMaxID

		if err := s.pacer.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return posts, nil
}
