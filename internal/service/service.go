package service

import (
	"context"
	"fmt"

	"github.com/Dan9191/profile-service/internal/models"
	"github.com/Dan9191/profile-service/internal/repository"
	"github.com/sirupsen/logrus"
)

// Service handles business logic
type Service struct {
	repo repository.ProfileStore
	log  *logrus.Logger
}

// NewService initializes a new service
func NewService(repo repository.ProfileStore, log *logrus.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetProfile returns the current profile, or nil when none was saved yet
func (s *Service) GetProfile(ctx context.Context) (*models.ProfileView, error) {
	p, err := s.repo.FetchLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if p == nil {
		return nil, nil
	}
	view := p.View()
	return &view, nil
}

// SaveProfile stores a new profile row. The input must come from DecodeProfileInput.
func (s *Service) SaveProfile(ctx context.Context, input models.ProfileInput) (*models.ProfileView, error) {
	p, err := s.repo.Insert(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"profile_id":    p.ID,
		"interest_rate": p.InterestRate.String(),
	}).Info("Profile saved")
	view := p.View()
	return &view, nil
}
