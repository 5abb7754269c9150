package models

import "time"

type News struct {
	ID          int64      `db:"id" json:"id"`
	Title       string     `db:"title" json:"title" binding:"required"`
	Body        string     `db:"body" json:"body" binding:"required"`
	Category    string     `db:"category" json:"category"`
	Author      string     `db:"author" json:"author"`
	ImageURL    string     `db:"image_url" json:"image_url"`
	Published   bool       `db:"published" json:"published"`
	PublishedAt *time.Time `db:"published_at" json:"published_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
