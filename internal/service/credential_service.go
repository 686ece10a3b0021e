package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/KickLedger/kickledger_api/internal/cache"
	"github.com/KickLedger/kickledger_api/internal/models"
	"github.com/KickLedger/kickledger_api/internal/repository"
	"github.com/KickLedger/kickledger_api/internal/utils"
	"github.com/KickLedger/kickledger_api/pkg/ebay"
	"github.com/KickLedger/kickledger_api/pkg/stockx"
)

// CredentialService hands out live marketplace access tokens. Refresh tokens
// live in Postgres; short-lived access tokens are cached in Redis with a TTL
// derived from their expiry and refreshed through the marketplace clients on
// miss. Callers never see an expired token.
type CredentialService struct {
	creds  *repository.CredentialRepository
	tokens *cache.TokenCache
	stockx *stockx.Client
	ebay   *ebay.Client
}

// NewCredentialService creates a new CredentialService.
func NewCredentialService(
	creds *repository.CredentialRepository,
	tokens *cache.TokenCache,
	stockxClient *stockx.Client,
	ebayClient *ebay.Client,
) *CredentialService {
	return &CredentialService{
		creds:  creds,
		tokens: tokens,
		stockx: stockxClient,
		ebay:   ebayClient,
	}
}

// GetValidToken returns a live access token for the user on the given
// marketplace. Returns utils.ErrNoCredential if the user never connected it.
func (s *CredentialService) GetValidToken(ctx context.Context, userID int, marketplace models.Marketplace) (string, error) {
	cached, err := s.tokens.Get(ctx, userID, marketplace.String())
	if err != nil {
		// Cache trouble is not fatal; fall through to a refresh.
		log.Warn().Err(err).Int("user_id", userID).Str("marketplace", marketplace.String()).Msg("Token cache read failed")
	}
	if cached != nil {
		return cached.AccessToken, nil
	}

	cred, err := s.creds.Get(ctx, userID, marketplace)
	if err != nil {
		return "", err
	}
	if cred == nil {
		return "", utils.ErrNoCredential
	}

	accessToken, expiresIn, err := s.refresh(ctx, marketplace, cred.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("refresh %s token: %w", marketplace, err)
	}

	data := &cache.TokenData{
		AccessToken: accessToken,
		Marketplace: marketplace.String(),
		ExpiresAt:   time.Now().Add(time.Duration(expiresIn) * time.Second),
	}
	if err := s.tokens.Set(ctx, userID, data); err != nil {
		log.Warn().Err(err).Int("user_id", userID).Str("marketplace", marketplace.String()).Msg("Token cache write failed")
	}

	return accessToken, nil
}

// Connect stores (or replaces) a user's refresh token for one marketplace
// and drops any cached access token derived from the old one.
func (s *CredentialService) Connect(ctx context.Context, userID int, marketplace models.Marketplace, refreshToken string) error {
	cred := &models.MarketplaceCredential{
		UserID:       userID,
		Marketplace:  marketplace,
		RefreshToken: refreshToken,
	}
	if err := s.creds.Upsert(ctx, cred); err != nil {
		return err
	}
	if err := s.tokens.Invalidate(ctx, userID, marketplace.String()); err != nil {
		log.Warn().Err(err).Int("user_id", userID).Msg("Token cache invalidate failed")
	}
	return nil
}

func (s *CredentialService) refresh(ctx context.Context, marketplace models.Marketplace, refreshToken string) (string, int, error) {
	switch marketplace {
	case models.MarketplaceStockX:
		resp, err := s.stockx.RefreshToken(ctx, refreshToken)
		if err != nil {
			return "", 0, err
		}
		return resp.AccessToken, resp.ExpiresIn, nil
	case models.MarketplaceEbay:
		resp, err := s.ebay.RefreshToken(ctx, refreshToken)
		if err != nil {
			return "", 0, err
		}
		return resp.AccessToken, resp.ExpiresIn, nil
	}
	return "", 0, utils.ErrUnknownMarketplace
}
