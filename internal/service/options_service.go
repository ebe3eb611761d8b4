package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"stockdesk/internal/apiclient"
	"stockdesk/internal/config"
	"stockdesk/internal/domain"
	"stockdesk/internal/port"
)

const (
	productsPath = "/products"
	storesPath   = "/stores"
)

// FormOptions are the dropdown choices for the adjustment form. When one
// source fails the other is still returned and the failure is listed in
// Warnings.
type FormOptions struct {
	Products []domain.Product `json:"products"`
	Stores   []domain.Store   `json:"stores"`
	Warnings []string         `json:"warnings,omitempty"`
}

// OptionsService loads dropdown data for forms.
type OptionsService interface {
	AdjustmentForm(ctx context.Context) (*FormOptions, error)
}

type optionsService struct {
	api   port.InventoryAPI
	cache port.Cache
	cfg   config.OptionsConfig
	log   *zap.Logger
}

// NewOptionsService creates a new OptionsService.
func NewOptionsService(api port.InventoryAPI, cache port.Cache, cfg config.OptionsConfig, log *zap.Logger) OptionsService {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.RetryMultiplier < 1 {
		cfg.RetryMultiplier = 1
	}
	return &optionsService{api: api, cache: cache, cfg: cfg, log: log}
}

// AdjustmentForm loads products and stores concurrently. It fails only when
// both loads fail, or when either fails authentication.
func (s *optionsService) AdjustmentForm(ctx context.Context) (*FormOptions, error) {
	out := &FormOptions{Products: []domain.Product{}, Stores: []domain.Store{}}
	var productsErr, storesErr error

	var wg conc.WaitGroup
	wg.Go(func() {
		productsErr = load(ctx, s, productsPath, &out.Products)
	})
	wg.Go(func() {
		storesErr = load(ctx, s, storesPath, &out.Stores)
	})
	wg.Wait()

	for _, err := range []error{productsErr, storesErr} {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, err
		}
	}
	if productsErr != nil && storesErr != nil {
		return nil, errors.Join(productsErr, storesErr)
	}
	if productsErr != nil {
		out.Warnings = append(out.Warnings, "Products could not be loaded: "+productsErr.Error())
	}
	if storesErr != nil {
		out.Warnings = append(out.Warnings, "Stores could not be loaded: "+storesErr.Error())
	}
	return out, nil
}

// cacheKey scopes cached options to the caller's token, so a cached list is
// only served to a token the API already accepted. Calls without a token
// are not cached.
func cacheKey(ctx context.Context, path string) (string, bool) {
	token, ok := apiclient.TokenFrom(ctx)
	if !ok {
		return "", false
	}
	sum := sha256.Sum256([]byte(token))
	return "options:" + hex.EncodeToString(sum[:])[:16] + ":" + path, true
}

// load reads path through the cache, retrying transient failures.
func load[T any](ctx context.Context, s *optionsService, path string, out *[]T) error {
	key, cached := cacheKey(ctx, path)
	if cached {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			if json.Unmarshal(raw, out) == nil {
				return nil
			}
		} else if !errors.Is(err, port.ErrCacheMiss) {
			s.log.Warn("options cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	attempt := 0
	err := retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		attempt++
		var rows []T
		if err := s.api.Get(ctx, path, nil, &rows); err != nil {
			if retryable(err) {
				s.log.Debug("options load failed, retrying",
					zap.String("path", path), zap.Int("attempt", attempt), zap.Error(err))
				return retry.RetryableError(err)
			}
			return err
		}
		if rows != nil {
			*out = rows
		}
		return nil
	})
	if err != nil {
		s.log.Warn("options load failed", zap.String("path", path), zap.Int("attempts", attempt), zap.Error(err))
		return err
	}

	if !cached {
		return nil
	}
	raw, err := json.Marshal(*out)
	if err != nil {
		return fmt.Errorf("encoding %s options: %w", path, err)
	}
	if err := s.cache.Set(ctx, key, raw, s.cfg.CacheTTL); err != nil {
		s.log.Warn("options cache write failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

// backoff waits RetryBase, then grows by RetryMultiplier, for at most
// MaxAttempts calls in total.
func (s *optionsService) backoff() retry.Backoff {
	next := s.cfg.RetryBase
	b := retry.BackoffFunc(func() (time.Duration, bool) {
		d := next
		next = time.Duration(float64(next) * s.cfg.RetryMultiplier)
		return d, false
	})
	return retry.WithMaxRetries(uint64(s.cfg.MaxAttempts-1), b)
}

// retryable reports whether a failed load may succeed on a later attempt.
func retryable(err error) bool {
	apiErr, ok := apiclient.AsError(err)
	if !ok {
		return false
	}
	switch apiErr.Kind {
	case apiclient.KindTransport:
		return true
	case apiclient.KindApplication:
		return apiErr.Status >= 500 || apiErr.Status == 429
	default:
		return false
	}
}
