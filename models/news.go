package models

import "time"

type News struct {
	ID            int64       `json:"id" db:"id"`
	Title         string      `json:"title" db:"title"`
	Content       string      `json:"content" db:"content"`
	Category      string      `json:"category" db:"category"`
	AuthorID      string      `json:"authorId" db:"author_id"`
	Author        *Member     `json:"author,omitempty" db:"-"`
	Images        []NewsImage `json:"images" db:"-"`
	Likes         int         `json:"likes" db:"likes"`
	CommentsCount int         `json:"commentsCount" db:"comments_count"`
	DateCreated   time.Time   `json:"createdAt" db:"date_created"`
	DateModified  time.Time   `json:"updatedAt" db:"date_modified"`
}

type NewsImage struct {
	ID           int64     `json:"id" db:"id"`
	NewsID       int64     `json:"-" db:"news_id"`
	URL          string    `json:"url" db:"url"`
	Alt          string    `json:"alt" db:"alt"`
	Caption      string    `json:"caption" db:"caption"`
	IsMain       bool      `json:"isMain" db:"is_main"`
	DateCreated  time.Time `json:"createdAt" db:"date_created"`
	DateModified time.Time `json:"-" db:"date_modified"`
}
