package repositories

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"wavemedia/internal/models"
)

type StationRepository struct {
	DB *sqlx.DB
}

func NewStationRepository(db *sqlx.DB) *StationRepository {
	return &StationRepository{DB: db}
}

func (r *StationRepository) Create(s *models.Station) (int64, error) {
	var id int64
	err := r.DB.QueryRow(`
		INSERT INTO stations (name, frequency, city, stream_url, description)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, s.Name, s.Frequency, s.City, s.StreamURL, s.Description).Scan(&id)
	return id, err
}

func (r *StationRepository) GetByID(id int64) (*models.Station, error) {
	s := &models.Station{}
	if err := r.DB.Get(s, `SELECT * FROM stations WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *StationRepository) Update(id int64, s *models.Station) error {
	_, err := r.DB.Exec(`
		UPDATE stations
		SET name=$1, frequency=$2, city=$3, stream_url=$4, description=$5, updated_at=NOW()
		WHERE id=$6
	`, s.Name, s.Frequency, s.City, s.StreamURL, s.Description, id)
	return err
}

func (r *StationRepository) Delete(id int64) error {
	_, err := r.DB.Exec(`DELETE FROM stations WHERE id = $1`, id)
	return err
}

func (r *StationRepository) List(limit, offset int) ([]models.Station, error) {
	var out []models.Station
	err := r.DB.Select(&out, `SELECT * FROM stations ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	return out, err
}

type ScheduleRepository struct {
	DB *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{DB: db}
}

func (r *ScheduleRepository) Create(e *models.ScheduleEntry) (int64, error) {
	var id int64
	err := r.DB.QueryRow(`
		INSERT INTO schedule_entries (station_id, program, host, weekday, start_time, end_time)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, e.StationID, e.Program, e.Host, e.Weekday, e.StartTime, e.EndTime).Scan(&id)
	return id, err
}

func (r *ScheduleRepository) GetByID(id int64) (*models.ScheduleEntry, error) {
	e := &models.ScheduleEntry{}
	if err := r.DB.Get(e, `SELECT * FROM schedule_entries WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *ScheduleRepository) Update(id int64, e *models.ScheduleEntry) error {
	_, err := r.DB.Exec(`
		UPDATE schedule_entries
		SET station_id=$1, program=$2, host=$3, weekday=$4, start_time=$5, end_time=$6, updated_at=NOW()
		WHERE id=$7
	`, e.StationID, e.Program, e.Host, e.Weekday, e.StartTime, e.EndTime, id)
	return err
}

func (r *ScheduleRepository) Delete(id int64) error {
	_, err := r.DB.Exec(`DELETE FROM schedule_entries WHERE id = $1`, id)
	return err
}

func (r *ScheduleRepository) List(limit, offset int) ([]models.ScheduleEntry, error) {
	var out []models.ScheduleEntry
	err := r.DB.Select(&out, `
		SELECT * FROM schedule_entries
		ORDER BY station_id, weekday, start_time
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return out, err
}

func (r *ScheduleRepository) ListByStation(stationID int64) ([]models.ScheduleEntry, error) {
	var out []models.ScheduleEntry
	err := r.DB.Select(&out, `
		SELECT * FROM schedule_entries
		WHERE station_id = $1
		ORDER BY weekday, start_time
	`, stationID)
	return out, err
}
