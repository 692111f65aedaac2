// Package instagram is the transport layer for Instagram's internal web API.
//
// A Client carries the request policy (browser headers, user agent pool,
// retry budget, rate limiter). Establish turns it into a Session with its own
// cookie jar and CSRF token; every API call goes through the session.
//
//	client := instagram.NewClient(instagram.OptionsFromConfig(cfg))
//	sess, err := client.Establish(ctx, cfg.Instagram.SessionID)
//	if err != nil {
//		return err
//	}
//	feed, err := sess.UserFeed(ctx, "25025320", "")
//
// Failed calls return *errors.Error values classified by HTTP status. Only
// the request executor retries; callers never loop on errors themselves.
package instagram
