package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"time"

	"hydroguide/internal/domain/hydration"
	"hydroguide/internal/repository"

	"github.com/google/uuid"
)

// Generator produces raw model text for a recommendation request.
type Generator interface {
	Generate(ctx context.Context, req hydration.RecommendationRequest) (string, error)
}

// JSONCache is the subset of the Redis cache the recommendation flow uses.
type JSONCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type RecommendationUsecase interface {
	GetRecommendations(ctx context.Context, userID uuid.UUID) ([]hydration.Recommendation, error)
}

type Recommendations struct {
	profiles repository.ProfileRepository
	gen      Generator
	cache    JSONCache
	host     string
	logger   *log.Logger
}

func NewRecommendationUsecase(profiles repository.ProfileRepository, gen Generator, cache JSONCache, marketplaceHost string, logger *log.Logger) *Recommendations {
	if marketplaceHost == "" {
		marketplaceHost = "www.amazon.com"
	}
	return &Recommendations{profiles: profiles, gen: gen, cache: cache, host: marketplaceHost, logger: logger}
}

func RecommendationCacheKey(req hydration.RecommendationRequest) string {
	b, _ := json.Marshal(req)
	sum := sha256.Sum256(b)
	return "recs:" + hex.EncodeToString(sum[:])
}

func (u *Recommendations) GetRecommendations(ctx context.Context, userID uuid.UUID) ([]hydration.Recommendation, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	var profile *hydration.Profile
	p, err := u.profiles.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		profile = &p
	case errors.Is(err, repository.ErrProfileNotFound):
	default:
		return nil, storageErr(err)
	}

	req := hydration.NewRecommendationRequest(profile)
	key := RecommendationCacheKey(req)

	if u.cache != nil {
		var cached []hydration.Recommendation
		hit, err := u.cache.GetJSON(ctx, key, &cached)
		if err == nil && hit {
			u.logf("[Recommendations] Cache HIT: %s", key)
			return cached, nil
		}
		u.logf("[Recommendations] Cache MISS: %s", key)
	}

	if u.gen == nil {
		return nil, ErrRecommendationUnavailable
	}
	raw, err := u.gen.Generate(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		u.logf("[Recommendations] generator failed: %v", err)
		return nil, errors.Join(ErrRecommendationUnavailable, err)
	}

	cands, err := hydration.ParseCandidates(raw)
	if err != nil {
		if errors.Is(err, hydration.ErrGeneratorRefused) {
			return nil, errors.Join(ErrRecommendationUnavailable, err)
		}
		u.logf("[Recommendations] unparsable response (%d bytes)", len(raw))
		return nil, errors.Join(ErrMalformedResponse, err)
	}

	out := hydration.Decorate(cands, u.host)
	if u.cache != nil && len(out) > 0 {
		if err := u.cache.SetJSON(ctx, key, out, 0); err == nil {
			u.logf("[Recommendations] Cache SET: %s", key)
		}
	}
	return out, nil
}

func (u *Recommendations) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}

var _ RecommendationUsecase = (*Recommendations)(nil)
