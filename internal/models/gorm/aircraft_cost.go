package gorm

import "time"

// AircraftCostProfile holds the per-model operating cost assumptions used
// when a source row does not carry its own cost figure.
type AircraftCostProfile struct {
	ID              uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Model           string    `gorm:"column:model;size:64;not null;uniqueIndex"`
	MonthlyFixed    float64   `gorm:"column:monthly_fixed;not null"`
	HourlyFuel      float64   `gorm:"column:hourly_fuel;not null"`
	HourlyVariable  float64   `gorm:"column:hourly_variable"`
	DefaultCapacity int       `gorm:"column:default_capacity;not null"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

// TableName specifies the table name for GORM
func (AircraftCostProfile) TableName() string {
	return "aircraft_cost_profiles"
}
