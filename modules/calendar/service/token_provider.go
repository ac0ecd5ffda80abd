package service

import (
	"context"
	"time"

	"studio-api/core/cache"
	"studio-api/core/config"
	"studio-api/core/constants"
	"studio-api/core/errors"
	"studio-api/core/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// TokenProvider yields a valid calendar access token.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, *errors.AppError)
}

// oauthTokenProvider exchanges the studio account's long-lived refresh token
// for access tokens and keeps the current one in the cache until shortly
// before expiry.
type oauthTokenProvider struct {
	conf         *oauth2.Config
	refreshToken string
	cache        cache.Cache
}

func NewTokenProvider(cfg config.GoogleAPIConfig, c cache.Cache) TokenProvider {
	return &oauthTokenProvider{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
		},
		refreshToken: cfg.RefreshToken,
		cache:        c,
	}
}

func (p *oauthTokenProvider) AccessToken(ctx context.Context) (string, *errors.AppError) {
	if p.refreshToken == "" {
		return "", errors.NewAppError(errors.ErrUnauthorized, "calendar credentials not configured", nil)
	}

	if p.cache != nil {
		if cached, err := p.cache.Get(ctx, constants.CacheKeyCalendarToken); err == nil && cached != "" {
			return cached, nil
		}
	}

	tokenSource := p.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: p.refreshToken})
	token, err := tokenSource.Token()
	if err != nil {
		logger.Error("TokenProvider:AccessToken:RefreshError", "error", err)
		return "", errors.NewAppError(errors.ErrUnauthorized, "failed to refresh calendar token", err)
	}

	if p.cache != nil {
		ttl := time.Until(token.Expiry) - 5*time.Minute
		if ttl > 0 {
			if err := p.cache.Set(ctx, constants.CacheKeyCalendarToken, token.AccessToken, ttl); err != nil {
				logger.Warn("TokenProvider:AccessToken:CacheSetError", "error", err)
			}
		}
	}

	return token.AccessToken, nil
}
