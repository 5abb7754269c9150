package repositories

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"wavemedia/internal/models"
)

type PodcastRepository struct {
	DB *sqlx.DB
}

func NewPodcastRepository(db *sqlx.DB) *PodcastRepository {
	return &PodcastRepository{DB: db}
}

func (r *PodcastRepository) Create(p *models.Podcast) (int64, error) {
	var id int64
	err := r.DB.QueryRow(`
		INSERT INTO podcasts (title, description, author, cover_url)
		VALUES ($1,$2,$3,$4)
		RETURNING id
	`, p.Title, p.Description, p.Author, p.CoverURL).Scan(&id)
	return id, err
}

func (r *PodcastRepository) GetByID(id int64) (*models.Podcast, error) {
	p := &models.Podcast{}
	if err := r.DB.Get(p, `SELECT * FROM podcasts WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PodcastRepository) Update(id int64, p *models.Podcast) error {
	_, err := r.DB.Exec(`
		UPDATE podcasts
		SET title=$1, description=$2, author=$3, cover_url=$4, updated_at=NOW()
		WHERE id=$5
	`, p.Title, p.Description, p.Author, p.CoverURL, id)
	return err
}

func (r *PodcastRepository) Delete(id int64) error {
	_, err := r.DB.Exec(`DELETE FROM podcasts WHERE id = $1`, id)
	return err
}

func (r *PodcastRepository) List(limit, offset int) ([]models.Podcast, error) {
	var out []models.Podcast
	err := r.DB.Select(&out, `SELECT * FROM podcasts ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	return out, err
}

type EpisodeRepository struct {
	DB *sqlx.DB
}

func NewEpisodeRepository(db *sqlx.DB) *EpisodeRepository {
	return &EpisodeRepository{DB: db}
}

func (r *EpisodeRepository) Create(e *models.Episode) (int64, error) {
	var id int64
	err := r.DB.QueryRow(`
		INSERT INTO episodes (podcast_id, title, description, audio_url, duration_seconds, published_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, e.PodcastID, e.Title, e.Description, e.AudioURL, e.Duration, e.PublishedAt).Scan(&id)
	return id, err
}

func (r *EpisodeRepository) GetByID(id int64) (*models.Episode, error) {
	e := &models.Episode{}
	if err := r.DB.Get(e, `SELECT * FROM episodes WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *EpisodeRepository) Update(id int64, e *models.Episode) error {
	_, err := r.DB.Exec(`
		UPDATE episodes
		SET podcast_id=$1, title=$2, description=$3, audio_url=$4,
		    duration_seconds=$5, published_at=$6, updated_at=NOW()
		WHERE id=$7
	`, e.PodcastID, e.Title, e.Description, e.AudioURL, e.Duration, e.PublishedAt, id)
	return err
}

func (r *EpisodeRepository) Delete(id int64) error {
	_, err := r.DB.Exec(`DELETE FROM episodes WHERE id = $1`, id)
	return err
}

func (r *EpisodeRepository) List(limit, offset int) ([]models.Episode, error) {
	var out []models.Episode
	err := r.DB.Select(&out, `SELECT * FROM episodes ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	return out, err
}

func (r *EpisodeRepository) ListByPodcast(podcastID int64) ([]models.Episode, error) {
	var out []models.Episode
	err := r.DB.Select(&out, `
		SELECT * FROM episodes
		WHERE podcast_id = $1
		ORDER BY published_at DESC NULLS LAST, id DESC
	`, podcastID)
	return out, err
}
