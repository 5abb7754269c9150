package models

import "time"

type Station struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name" binding:"required"`
	Frequency   string    `db:"frequency" json:"frequency"`
	City        string    `db:"city" json:"city"`
	StreamURL   string    `db:"stream_url" json:"stream_url"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ScheduleEntry is one program slot on a station's weekly grid.
// Weekday follows time.Weekday (0 = Sunday).
type ScheduleEntry struct {
	ID        int64     `db:"id" json:"id"`
	StationID int64     `db:"station_id" json:"station_id" binding:"required"`
	Program   string    `db:"program" json:"program" binding:"required"`
	Host      string    `db:"host" json:"host"`
	Weekday   int       `db:"weekday" json:"weekday"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
