// Package scraper exports an Instagram profile and its post history.
//
// A run follows a fixed sequence, every network call going through the
// instagram package's retrying executor:
//
//  1. establish a session (cookies and CSRF token)
//  2. resolve the username to a user ID through search
//  3. pause, then fetch the profile
//  4. unless the profile is private, walk the feed with max_id cursors,
//     pausing between pages, and normalize each item into a Post
//
// Usage:
//
//	s := scraper.NewFromConfig(cfg, logger.GetLogger())
//	result, err := s.Run(ctx, "natgeo", scraper.RunOptions{
//		SessionID: cfg.Instagram.SessionID,
//		MaxPosts:  50,
//	})
//
// The scraper never retries on its own and never returns partial results.
package scraper
