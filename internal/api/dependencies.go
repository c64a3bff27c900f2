package api

import (
	"context"
	"fmt"

	gormlib "gorm.io/gorm"

	"charterops/flightdeck/internal/common"
	"charterops/flightdeck/internal/db/repositories"
	"charterops/flightdeck/internal/metrics"
	"charterops/flightdeck/internal/services"
	"charterops/flightdeck/internal/store"
)

type Repositories struct {
	Airports *repositories.AirportRepository
	Costs    *repositories.AircraftCostRepository
}

type Services struct {
	Cache   *common.CacheService
	Lookup  *services.LookupService
	Costs   *services.CostService
	Dataset *services.DatasetService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
}

// InitDependencies wires the pipeline: reference tables seeded and
// primed, snapshot store, memoization cache, and the dataset service on
// top of them.
func InitDependencies(db *gormlib.DB, cacheDir string, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	ctx := context.Background()

	repos := &Repositories{
		Airports: repositories.NewAirportRepository(db),
		Costs:    repositories.NewAircraftCostRepository(db),
	}

	lookupSvc := services.NewLookupService(db)
	if err := lookupSvc.SeedIfEmpty(ctx); err != nil {
		return nil, fmt.Errorf("seed airports: %w", err)
	}
	if err := lookupSvc.Prime(ctx); err != nil {
		return nil, fmt.Errorf("prime airport index: %w", err)
	}

	costSvc := services.NewCostService(db)
	if err := costSvc.SeedIfEmpty(ctx); err != nil {
		return nil, fmt.Errorf("seed cost profiles: %w", err)
	}
	if err := costSvc.Prime(ctx); err != nil {
		return nil, fmt.Errorf("prime cost profiles: %w", err)
	}

	cacheSvc := common.NewCacheService(600, 600)
	snapshots := store.NewSnapshotStore(cacheDir)
	datasetSvc := services.NewDatasetService(snapshots, cacheSvc, lookupSvc, costSvc, metricsReg)

	return &Dependencies{
		Repo: repos,
		Services: &Services{
			Cache:   cacheSvc,
			Lookup:  lookupSvc,
			Costs:   costSvc,
			Dataset: datasetSvc,
		},
	}, nil
}
