package scraper

import (
	"context"
	"fmt"
	"time"

	"igexport/pkg/config"
	"igexport/pkg/instagram"
	"igexport/pkg/logger"
	"igexport/pkg/models"
	"igexport/pkg/ratelimit"
	"igexport/pkg/retry"
)

// RunOptions tunes a single export
type RunOptions struct {
	// SessionID is injected as the sessionid cookie when non-empty
	SessionID string
	// MaxPosts caps the number of posts collected; 0 means all
	MaxPosts int
	// Progress is optional
	Progress ProgressReporter
}

// Scraper drives one export: session, profile, then the post feed
type Scraper struct {
	establish SessionEstablisher
	pacer     ratelimit.Limiter
	logger    logger.Logger
	now       func() time.Time
}

// New creates a scraper that opens sessions through client and paces logical
// requests with pacer
func New(client *instagram.Client, pacer ratelimit.Limiter, log logger.Logger) *Scraper {
	return NewWithEstablisher(func(ctx context.Context, sessionID string) (InstagramSession, error) {
		sess, err := client.Establish(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		return sess, nil
	}, pacer, log)
}

// NewWithEstablisher creates a scraper around a custom session source
func NewWithEstablisher(establish SessionEstablisher, pacer ratelimit.Limiter, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}
	if pacer == nil {
		pacer = ratelimit.NewPacer(0, 0, nil)
	}
	return &Scraper{
		establish: establish,
		pacer:     pacer,
		logger:    log,
		now:       time.Now,
	}
}

// NewFromConfig wires a client, pacer and request limiter from cfg. One random
// source drives user agents, retry jitter and pacing.
func NewFromConfig(cfg *config.Config, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}
	rng := retry.NewTimeSeededRand()

	opts := instagram.OptionsFromConfig(cfg)
	opts.Rand = rng
	opts.Logger = log
	client := instagram.NewClient(opts)

	pacer := ratelimit.NewPacer(cfg.RateLimit.MinDelay, cfg.RateLimit.MaxDelay, rng)
	pacer.Logger = log

	return New(client, pacer, log)
}

// SetClock overrides the timestamp source used for scrape metadata
func (s *Scraper) SetClock(now func() time.Time) {
	s.now = now
}

// Run exports username. Any failure aborts the run and discards what was
// collected so far. The result records the sanitized handle.
func (s *Scraper) Run(ctx context.Context, username string, opts RunOptions) (*models.ScrapeResult, error) {
	username = instagram.SanitizeUsername(username)
	if !instagram.IsValidUsername(username) {
		return nil, fmt.Errorf("invalid username %q", username)
	}

	log := s.logger.WithField("username", username)
	log.Info("Starting export")

	sess, err := s.establish(ctx, opts.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to establish session: %w", err)
	}

	profile, err := s.FetchProfile(ctx, sess, username)
	if err != nil {
		return nil, err
	}

	log.InfoWithFields("Profile fetched", map[string]interface{}{
		"user_id":     profile.UserID,
		"followers":   profile.FollowerCount,
		"media_count": profile.MediaCount,
		"private":     profile.IsPrivate,
	})

	posts := []models.Post{}
	if profile.IsPrivate {
		log.Warn("Profile is private, skipping posts")
	} else {
		expected := expectedPosts(profile.MediaCount, opts.MaxPosts)
		if opts.Progress != nil {
			opts.Progress.Start(username, expected)
		}

		posts, err = s.FetchAllPosts(ctx, sess, profile.UserID, opts.MaxPosts, func(fetched int) {
			logger.LogScrapeProgress(log, username, fetched, expected)
			if opts.Progress != nil {
				opts.Progress.Update(fetched)
			}
		})
		if opts.Progress != nil {
			opts.Progress.Finish()
		}
		if err != nil {
			return nil, err
		}
	}

	log.WithField("posts", len(posts)).Info("Export complete")

	return models.NewScrapeResult(profile, posts, username, s.now()), nil
}

// expectedPosts is the count progress is measured against
func expectedPosts(mediaCount int64, maxPosts int) int {
	expected := int(mediaCount)
	if maxPosts > 0 && (expected == 0 || maxPosts < expected) {
		expected = maxPosts
	}
	return expected
}
