package models

import "time"

type Podcast struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title" binding:"required"`
	Description string    `db:"description" json:"description"`
	Author      string    `db:"author" json:"author"`
	CoverURL    string    `db:"cover_url" json:"cover_url"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type Episode struct {
	ID          int64      `db:"id" json:"id"`
	PodcastID   int64      `db:"podcast_id" json:"podcast_id" binding:"required"`
	Title       string     `db:"title" json:"title" binding:"required"`
	Description string     `db:"description" json:"description"`
	AudioURL    string     `db:"audio_url" json:"audio_url"`
	Duration    int        `db:"duration_seconds" json:"duration_seconds"`
	PublishedAt *time.Time `db:"published_at" json:"published_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
