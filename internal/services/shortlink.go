package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/anonto42/foodgram/backend/internal/apperrors"
	"github.com/anonto42/foodgram/backend/internal/metrics"
	"github.com/anonto42/foodgram/backend/pkg/logger"
	lru "github.com/hashicorp/golang-lru"
)

// NotFoundPath is where every unresolvable short link redirects.
const NotFoundPath = "/404"

// EncodeShortID renders a dish id as minimal lowercase hex (255 -> "ff").
func EncodeShortID(id uint) string {
	return strconv.FormatUint(uint64(id), 16)
}

// DecodeShortID parses a hex token case-insensitively. Tokens with non-hex
// characters, signs, prefixes, or a zero value fail with ErrInvalidToken.
func DecodeShortID(token string) (uint, error) {
	n, err := strconv.ParseUint(token, 16, strconv.IntSize)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%q: %w", token, apperrors.ErrInvalidToken)
	}
	return uint(n), nil
}

// DishPath is the canonical page path of a dish.
func DishPath(id uint) string {
	return fmt.Sprintf("/recipes/%d/", id)
}

// KnownDishTTL bounds how long a cached dish id is trusted. Deletions served
// by another replica are only seen once the entry expires.
const KnownDishTTL = time.Minute

// ShortLinkService resolves short-link tokens to dish pages. Dish ids known
// to exist are kept in an LRU cache for KnownDishTTL; Forget drops an id
// deleted through this process right away.
type ShortLinkService struct {
	dishes dishExistence
	known  *lru.Cache
	ttl    time.Duration
	now    func() time.Time
}

// NewShortLinkService creates a resolver whose cache holds up to cacheSize ids
func NewShortLinkService(dishes dishExistence, cacheSize int) (*ShortLinkService, error) {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &ShortLinkService{dishes: dishes, known: cache, ttl: KnownDishTTL, now: time.Now}, nil
}

// ShortenLink returns the token for a dish id
func (s *ShortLinkService) ShortenLink(dishID uint) string {
	return EncodeShortID(dishID)
}

// ResolveShortLink returns the dish page for token, or NotFoundPath when the
// token is malformed, the dish does not exist, or the lookup fails.
func (s *ShortLinkService) ResolveShortLink(ctx context.Context, token string) string {
	id, err := DecodeShortID(token)
	if err != nil {
		metrics.ShortLinkResolutions.WithLabelValues("invalid_token").Inc()
		return NotFoundPath
	}

	if v, ok := s.known.Get(id); ok {
		if s.now().Before(v.(time.Time)) {
			metrics.ShortLinkCacheHits.Inc()
			metrics.ShortLinkResolutions.WithLabelValues("found").Inc()
			return DishPath(id)
		}
		s.known.Remove(id)
	}

	exists, err := s.dishes.DishExists(ctx, id)
	if err != nil {
		logger.Error().Err(err).Uint("dish_id", id).Msg("short link lookup failed")
		metrics.ShortLinkResolutions.WithLabelValues("error").Inc()
		return NotFoundPath
	}
	if !exists {
		metrics.ShortLinkResolutions.WithLabelValues("missing").Inc()
		return NotFoundPath
	}

	s.known.Add(id, s.now().Add(s.ttl))
	metrics.ShortLinkResolutions.WithLabelValues("found").Inc()
	return DishPath(id)
}

// Forget drops a dish id from the cache
func (s *ShortLinkService) Forget(dishID uint) {
	s.known.Remove(dishID)
}
