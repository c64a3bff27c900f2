package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	gormlib "gorm.io/gorm"

	"charterops/flightdeck/internal/db/repositories"
	"charterops/flightdeck/internal/logging"
	gormmodels "charterops/flightdeck/internal/models/gorm"
)

// defaultCostProfiles are the operating assumptions shipped with the
// service. Operators override them by editing the table.
func defaultCostProfiles() []gormmodels.AircraftCostProfile {
	return []gormmodels.AircraftCostProfile{
		{Model: "EC135", MonthlyFixed: 180000, HourlyFuel: 2800, HourlyVariable: 1200, DefaultCapacity: 5},
		{Model: "EC155", MonthlyFixed: 260000, HourlyFuel: 3900, HourlyVariable: 1600, DefaultCapacity: 6},
		{Model: "AW109", MonthlyFixed: 210000, HourlyFuel: 3100, HourlyVariable: 1400, DefaultCapacity: 6},
		{Model: "Citation", MonthlyFixed: 320000, HourlyFuel: 5200, HourlyVariable: 2100, DefaultCapacity: 8},
		{Model: "Phenom", MonthlyFixed: 280000, HourlyFuel: 4600, HourlyVariable: 1900, DefaultCapacity: 7},
	}
}

// CostService supplies per-model cost and capacity assumptions to the
// derivation stage, mirrored in memory like the airport index.
type CostService struct {
	repo *repositories.AircraftCostRepository

	mu       sync.RWMutex
	profiles map[string]gormmodels.AircraftCostProfile
}

// NewCostService creates a cost service over the cost profile table
func NewCostService(db *gormlib.DB) *CostService {
	return &CostService{
		repo:     repositories.NewAircraftCostRepository(db),
		profiles: make(map[string]gormmodels.AircraftCostProfile),
	}
}

// SeedIfEmpty installs the default profiles on first start.
func (s *CostService) SeedIfEmpty(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count cost profiles: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, p := range defaultCostProfiles() {
		profile := p
		if err := s.repo.Upsert(ctx, &profile); err != nil {
			return fmt.Errorf("seed cost profile %s: %w", p.Model, err)
		}
	}
	logging.Info("aircraft cost profiles seeded", "profiles", len(defaultCostProfiles()))
	return nil
}

// Prime mirrors the cost table into the in-memory map.
func (s *CostService) Prime(ctx context.Context) error {
	profiles, err := s.repo.All(ctx)
	if err != nil {
		return fmt.Errorf("load cost profiles: %w", err)
	}

	byModel := make(map[string]gormmodels.AircraftCostProfile, len(profiles))
	for _, p := range profiles {
		byModel[strings.ToUpper(p.Model)] = p
	}

	s.mu.Lock()
	s.profiles = byModel
	s.mu.Unlock()
	return nil
}

func (s *CostService) lookup(model string) (gormmodels.AircraftCostProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[strings.ToUpper(strings.TrimSpace(model))]
	return p, ok
}

// Capacity returns the cabin seat count for a model, 0 when unknown.
func (s *CostService) Capacity(model string) int {
	p, ok := s.lookup(model)
	if !ok {
		return 0
	}
	return p.DefaultCapacity
}

// HourlyCost returns fuel plus variable cost per flight hour.
func (s *CostService) HourlyCost(model string) float64 {
	p, ok := s.lookup(model)
	if !ok {
		return 0
	}
	return p.HourlyFuel + p.HourlyVariable
}

// MonthlyFixed returns the fixed monthly cost allocated across the
// aircraft-month's flight hours.
func (s *CostService) MonthlyFixed(model string) float64 {
	p, ok := s.lookup(model)
	if !ok {
		return 0
	}
	return p.MonthlyFixed
}
