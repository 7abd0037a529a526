package postgres

import "time"

type favoriteTableModel struct {
	UserID     string    `db:"user_id"`
	Kind       string    `db:"kind"`
	FavoriteID string    `db:"favorite_id"`
	CreatedAt  time.Time `db:"created_at"`
}
