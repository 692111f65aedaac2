package scraper

import (
	"context"

	errs "igexport/pkg/errors"
	"igexport/pkg/instagram"
	"igexport/pkg/models"
)

// FetchProfile resolves username, pauses once, then loads the full profile
func (s *Scraper) FetchProfile(ctx context.Context, sess InstagramSession, username string) (*models.Profile, error) {
	userID, err := ResolveUserID(ctx, sess, username)
	if err != nil {
		return nil, err
	}

	s.logger.DebugWithFields("resolved username", map[string]interface{}{
		"username": username,
		"user_id":  userID,
	})

	if err := s.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	info, err := sess.UserInfo(ctx, userID)
	if err != nil {
		return nil, err
	}
	if info.User == nil {
		return nil, errs.NewProfileUnavailable(userID)
	}

	return mapProfile(info.User), nil
}

func mapProfile(u *instagram.RawUser) *models.Profile {
	pic := u.ProfilePicURL
	if u.HDProfilePicURLInfo != nil && u.HDProfilePicURLInfo.URL != "" {
		pic = u.HDProfilePicURLInfo.URL
	}

	return &models.Profile{
		UserID:         u.PK.String(),
		Username:       u.Username,
		FullName:       u.FullName,
		Biography:      u.Biography,
		FollowerCount:  u.FollowerCount,
		FollowingCount: u.FollowingCount,
		MediaCount:     u.MediaCount,
		ProfilePicURL:  pic,
		Category:       models.StringPtr(u.Category),
		IsVerified:     u.IsVerified,
		ExternalURL:    models.StringPtr(u.ExternalURL),
		IsPrivate:      u.IsPrivate,
	}
}
