package services

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	gormModels "charterops/flightdeck/internal/models/gorm"
)

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Auto migrate
	if err := db.AutoMigrate(&gormModels.Airport{}, &gormModels.AircraftCostProfile{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

func TestLookupServiceSeedAndResolve(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLookupService(db)
	ctx := context.Background()

	if err := svc.SeedIfEmpty(ctx); err != nil {
		t.Fatalf("SeedIfEmpty: %v", err)
	}
	if err := svc.Prime(ctx); err != nil {
		t.Fatalf("Prime: %v", err)
	}

	if name := svc.ResolveName("SBSP"); name != "Congonhas Airport" {
		t.Errorf("ResolveName(SBSP) = %q", name)
	}
	if name := svc.ResolveName("sbsp"); name != "Congonhas Airport" {
		t.Errorf("lookup should be case-insensitive, got %q", name)
	}
	if name := svc.ResolveName("CGH"); name != "Congonhas Airport" {
		t.Errorf("IATA lookup failed, got %q", name)
	}
	if name := svc.ResolveName("XXXX"); name != "" {
		t.Errorf("unknown code resolved to %q, want empty", name)
	}
}

func TestLookupServiceSeedIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLookupService(db)
	ctx := context.Background()

	if err := svc.SeedIfEmpty(ctx); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	count1, _ := svc.repo.Count(ctx)
	if err := svc.SeedIfEmpty(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	count2, _ := svc.repo.Count(ctx)
	if count1 != count2 {
		t.Errorf("second seed changed row count: %d -> %d", count1, count2)
	}
}

func TestDistanceNM(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLookupService(db)
	ctx := context.Background()
	if err := svc.SeedIfEmpty(ctx); err != nil {
		t.Fatalf("SeedIfEmpty: %v", err)
	}
	if err := svc.Prime(ctx); err != nil {
		t.Fatalf("Prime: %v", err)
	}

	// Congonhas to Santos Dumont is roughly 190-200 NM.
	d := svc.DistanceNM("SBSP", "SBRJ")
	if d < 180 || d > 210 {
		t.Errorf("DistanceNM(SBSP, SBRJ) = %v, want ~195", d)
	}

	if d := svc.DistanceNM("SBSP", "XXXX"); d != 0 {
		t.Errorf("distance with unknown endpoint = %v, want 0", d)
	}
	if d := svc.DistanceNM("SBSP", "SBSP"); d != 0 {
		t.Errorf("zero-length route = %v, want 0", d)
	}
}
