package service

import (
	"github.com/maheshrc27/content-compass/internal/models"
	"github.com/maheshrc27/content-compass/internal/transfer"
)

type PlatformService interface {
	Catalog() transfer.CatalogResponse
}

type platformService struct{}

func NewPlatformService() PlatformService {
	return &platformService{}
}

// Catalog lists the choices offered during onboarding and planning.
func (s *platformService) Catalog() transfer.CatalogResponse {
	platforms := make([]transfer.PlatformInfo, 0, len(models.Platforms))
	for _, p := range models.Platforms {
		platforms = append(platforms, transfer.PlatformInfo{Title: string(p), Icon: p.Icon()})
	}
	return transfer.CatalogResponse{
		Topics:      models.AvailableTopics,
		Frequencies: models.AvailableFrequencies,
		Tones:       models.AvailableTones,
		Platforms:   platforms,
		MaxTopics:   models.MaxTopicPreferences,
	}
}
