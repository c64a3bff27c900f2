package services

import (
	"context"
	"testing"
)

func TestCostServiceSeedAndLookup(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCostService(db)
	ctx := context.Background()

	if err := svc.SeedIfEmpty(ctx); err != nil {
		t.Fatalf("SeedIfEmpty: %v", err)
	}
	if err := svc.Prime(ctx); err != nil {
		t.Fatalf("Prime: %v", err)
	}

	if cap := svc.Capacity("EC135"); cap != 5 {
		t.Errorf("Capacity(EC135) = %d, want 5", cap)
	}
	if cap := svc.Capacity("ec135"); cap != 5 {
		t.Errorf("model lookup should be case-insensitive, got %d", cap)
	}
	if got := svc.HourlyCost("EC135"); got != 2800+1200 {
		t.Errorf("HourlyCost(EC135) = %v, want 4000", got)
	}
	if got := svc.MonthlyFixed("EC135"); got != 180000 {
		t.Errorf("MonthlyFixed(EC135) = %v", got)
	}
}

func TestCostServiceUnknownModelSentinels(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCostService(db)
	ctx := context.Background()
	if err := svc.SeedIfEmpty(ctx); err != nil {
		t.Fatalf("SeedIfEmpty: %v", err)
	}
	if err := svc.Prime(ctx); err != nil {
		t.Fatalf("Prime: %v", err)
	}

	if svc.Capacity("Zeppelin") != 0 || svc.HourlyCost("Zeppelin") != 0 || svc.MonthlyFixed("Zeppelin") != 0 {
		t.Error("unknown model should cost nothing and seat nobody")
	}
}

func TestCostServiceOperatorOverride(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCostService(db)
	ctx := context.Background()
	if err := svc.SeedIfEmpty(ctx); err != nil {
		t.Fatalf("SeedIfEmpty: %v", err)
	}

	profile, err := svc.repo.FindByModel(ctx, "EC135")
	if err != nil || profile == nil {
		t.Fatalf("FindByModel: %v", err)
	}
	profile.DefaultCapacity = 6
	if err := svc.repo.Upsert(ctx, profile); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if err := svc.Prime(ctx); err != nil {
		t.Fatalf("Prime: %v", err)
	}
	if cap := svc.Capacity("EC135"); cap != 6 {
		t.Errorf("Capacity after override = %d, want 6", cap)
	}
}
