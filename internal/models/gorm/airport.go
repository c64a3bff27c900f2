package gorm

import (
	"database/sql"
	"time"
)

// Airport represents an airport record with geographic coordinates
type Airport struct {
	ID        uint          `gorm:"column:id;primaryKey;autoIncrement"`
	ICAO      string        `gorm:"column:icao;size:4;not null;uniqueIndex"`
	IATA      string        `gorm:"column:iata;size:3;index"`
	Name      string        `gorm:"column:name;not null"`
	City      string        `gorm:"column:city;size:100"`
	Country   string        `gorm:"column:country;size:100"`
	Elevation sql.NullInt64 `gorm:"column:elevation"`
	Latitude  float64       `gorm:"column:latitude;not null"`
	Longitude float64       `gorm:"column:longitude;not null"`
	Timezone  string        `gorm:"column:timezone;size:50"`
	CreatedAt time.Time     `gorm:"column:created_at"`
	UpdatedAt time.Time     `gorm:"column:updated_at"`
}

// TableName specifies the table name for GORM
func (Airport) TableName() string {
	return "airports"
}
