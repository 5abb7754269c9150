package repositories

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"wavemedia/internal/models"
)

type NewsRepository struct {
	DB *sqlx.DB
}

func NewNewsRepository(db *sqlx.DB) *NewsRepository {
	return &NewsRepository{DB: db}
}

func (r *NewsRepository) Create(n *models.News) (int64, error) {
	const q = `
		INSERT INTO news (title, body, category, author, image_url, published, published_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`
	var id int64
	err := r.DB.QueryRow(q, n.Title, n.Body, n.Category, n.Author, n.ImageURL, n.Published, n.PublishedAt).Scan(&id)
	return id, err
}

func (r *NewsRepository) GetByID(id int64) (*models.News, error) {
	n := &models.News{}
	if err := r.DB.Get(n, `SELECT * FROM news WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return n, nil
}

func (r *NewsRepository) Update(id int64, n *models.News) error {
	const q = `
		UPDATE news
		SET title=$1, body=$2, category=$3, author=$4, image_url=$5,
		    published=$6, published_at=$7, updated_at=NOW()
		WHERE id=$8
	`
	_, err := r.DB.Exec(q, n.Title, n.Body, n.Category, n.Author, n.ImageURL, n.Published, n.PublishedAt, id)
	return err
}

func (r *NewsRepository) Delete(id int64) error {
	_, err := r.DB.Exec(`DELETE FROM news WHERE id = $1`, id)
	return err
}

func (r *NewsRepository) List(limit, offset int) ([]models.News, error) {
	var out []models.News
	err := r.DB.Select(&out, `SELECT * FROM news ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	return out, err
}

func (r *NewsRepository) ListPublished(limit, offset int) ([]models.News, error) {
	var out []models.News
	err := r.DB.Select(&out, `
		SELECT * FROM news
		WHERE published = TRUE
		ORDER BY published_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return out, err
}

func (r *NewsRepository) Count() (int, error) {
	var c int
	err := r.DB.Get(&c, `SELECT COUNT(*) FROM news`)
	return c, err
}
