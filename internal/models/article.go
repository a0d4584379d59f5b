package models

import "time"

type Article struct {
	ID        int       `db:"id"`
	URL       string    `db:"url"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"`
}
