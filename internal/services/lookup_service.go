package services

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"

	gormlib "gorm.io/gorm"

	"charterops/flightdeck/internal/db/repositories"
	"charterops/flightdeck/internal/logging"
	gormmodels "charterops/flightdeck/internal/models/gorm"
)

//go:embed seed/airports.json
var seedFS embed.FS

// RawAirportData represents the structure of airport data from JSON
type RawAirportData struct {
	ICAO    string  `json:"icao"`
	IATA    string  `json:"iata"`
	Name    string  `json:"name"`
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	TZ      string  `json:"tz"`
}

type airportEntry struct {
	name string
	lat  float64
	lon  float64
}

// LookupService resolves airport codes to canonical names and great
// circle distances. The table lives in SQLite and is mirrored into an
// in-memory index so lookups during a load never touch the database.
type LookupService struct {
	repo *repositories.AirportRepository

	mu    sync.RWMutex
	index map[string]airportEntry
}

// NewLookupService creates a lookup service over the airports table
func NewLookupService(db *gormlib.DB) *LookupService {
	return &LookupService{
		repo:  repositories.NewAirportRepository(db),
		index: make(map[string]airportEntry),
	}
}

// SeedIfEmpty imports the embedded airport table on first start.
func (s *LookupService) SeedIfEmpty(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count airports: %w", err)
	}
	if count > 0 {
		return nil
	}

	raw, err := seedFS.ReadFile("seed/airports.json")
	if err != nil {
		return fmt.Errorf("read embedded airports: %w", err)
	}

	var rawData map[string]RawAirportData
	if err := json.Unmarshal(raw, &rawData); err != nil {
		return fmt.Errorf("decode embedded airports: %w", err)
	}

	airports := make([]gormmodels.Airport, 0, len(rawData))
	for _, a := range rawData {
		airport := gormmodels.Airport{
			ICAO:      strings.ToUpper(strings.TrimSpace(a.ICAO)),
			IATA:      strings.ToUpper(strings.TrimSpace(a.IATA)),
			Name:      strings.TrimSpace(a.Name),
			City:      strings.TrimSpace(a.City),
			Country:   strings.TrimSpace(a.Country),
			Latitude:  a.Lat,
			Longitude: a.Lon,
			Timezone:  a.TZ,
		}
		if airport.ICAO == "" || airport.Name == "" {
			continue
		}
		airports = append(airports, airport)
	}

	if err := s.repo.BatchInsert(ctx, airports); err != nil {
		return fmt.Errorf("insert airports: %w", err)
	}
	logging.Info("airport table seeded", "airports", len(airports))
	return nil
}

// Prime mirrors the airports table into the in-memory index.
func (s *LookupService) Prime(ctx context.Context) error {
	airports, err := s.repo.All(ctx)
	if err != nil {
		return fmt.Errorf("load airports: %w", err)
	}

	index := make(map[string]airportEntry, len(airports)*2)
	for _, a := range airports {
		entry := airportEntry{name: a.Name, lat: a.Latitude, lon: a.Longitude}
		index[strings.ToUpper(a.ICAO)] = entry
		if a.IATA != "" {
			index[strings.ToUpper(a.IATA)] = entry
		}
	}

	s.mu.Lock()
	s.index = index
	s.mu.Unlock()
	return nil
}

// ResolveName returns the canonical airport name, empty when unknown.
func (s *LookupService) ResolveName(code string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index[strings.ToUpper(strings.TrimSpace(code))].name
}

// DistanceNM returns the haversine distance between two coded airports
// in nautical miles, 0 when either endpoint is unknown.
func (s *LookupService) DistanceNM(origin, destination string) float64 {
	s.mu.RLock()
	o, okO := s.index[strings.ToUpper(strings.TrimSpace(origin))]
	d, okD := s.index[strings.ToUpper(strings.TrimSpace(destination))]
	s.mu.RUnlock()

	if !okO || !okD {
		return 0
	}
	return haversineNM(o.lat, o.lon, d.lat, d.lon)
}

// haversineNM computes the great-circle distance in nautical miles.
func haversineNM(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusNM = 3440.065

	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusNM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
