// Package refrate keeps a suggested interest rate for the profile form,
// derived from the central bank key rate and refreshed on a cron schedule.
package refrate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/profile-service/internal/cache"
	"github.com/Dan9191/profile-service/internal/integrations/cbr"
	"github.com/Dan9191/profile-service/internal/models"
	"github.com/Dan9191/profile-service/internal/validation"
)

const (
	cacheKey       = "profile-service:reference-rate"
	refreshTimeout = 30 * time.Second
)

// ErrNoSnapshot is returned until the first successful refresh.
var ErrNoSnapshot = errors.New("reference rate not fetched yet")

// KeyRateFetcher is implemented by cbr.Client
type KeyRateFetcher interface {
	GetKeyRate(ctx context.Context) (*cbr.KeyRate, error)
}

// Service refreshes and serves the reference rate
type Service struct {
	fetcher KeyRateFetcher
	cache   cache.Cache
	margin  decimal.Decimal
	log     *logrus.Logger
	now     func() time.Time
	cron    *cron.Cron
}

func NewService(fetcher KeyRateFetcher, c cache.Cache, margin decimal.Decimal, log *logrus.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		cache:   c,
		margin:  margin,
		log:     log,
		now:     time.Now,
	}
}

// Refresh fetches the key rate and replaces the cached snapshot.
// On failure the previous snapshot stays in place.
func (s *Service) Refresh(ctx context.Context) error {
	kr, err := s.fetcher.GetKeyRate(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch key rate: %w", err)
	}

	snapshot := models.ReferenceRate{
		Rate:      suggest(kr.Rate, s.margin).InexactFloat64(),
		KeyRate:   kr.Rate.InexactFloat64(),
		Margin:    s.margin.InexactFloat64(),
		FetchedAt: s.now().UTC(),
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode reference rate: %w", err)
	}
	if err := s.cache.Set(ctx, cacheKey, string(raw), 0); err != nil {
		return fmt.Errorf("failed to cache reference rate: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"key_rate": snapshot.KeyRate,
		"rate":     snapshot.Rate,
	}).Info("Reference rate refreshed")
	return nil
}

// Current returns the cached snapshot
func (s *Service) Current(ctx context.Context) (*models.ReferenceRate, error) {
	raw, ok, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference rate: %w", err)
	}
	if !ok {
		return nil, ErrNoSnapshot
	}
	var rate models.ReferenceRate
	if err := json.Unmarshal([]byte(raw), &rate); err != nil {
		return nil, fmt.Errorf("failed to decode reference rate: %w", err)
	}
	return &rate, nil
}

// Start refreshes once in the background and then on every schedule tick.
func (s *Service) Start(schedule string) error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(schedule, s.refreshJob); err != nil {
		return fmt.Errorf("invalid key rate schedule %q: %w", schedule, err)
	}
	s.cron.Start()
	go s.refreshJob()
	return nil
}

// Stop halts the scheduler and waits for a running refresh to finish.
func (s *Service) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

func (s *Service) refreshJob() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	if err := s.Refresh(ctx); err != nil {
		s.log.WithError(err).Warn("Reference rate refresh failed")
	}
}

// suggest adds the margin and keeps the result inside the accepted interest rate range.
func suggest(keyRate, margin decimal.Decimal) decimal.Decimal {
	rate := keyRate.Add(margin)
	f, _ := validation.Lookup(validation.InterestRate)
	if lo := decimal.NewFromFloat(f.Min); rate.LessThan(lo) {
		rate = lo
	}
	if f.Max != nil {
		if hi := decimal.NewFromFloat(*f.Max); rate.GreaterThan(hi) {
			rate = hi
		}
	}
	return rate.Round(2)
}
