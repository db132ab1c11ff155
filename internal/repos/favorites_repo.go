package repos

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type FavoritesRepo struct{ db *sqlx.DB }

func NewFavoritesRepo(db *sqlx.DB) *FavoritesRepo { return &FavoritesRepo{db: db} }

func (r *FavoritesRepo) Ensure(sessionID string) (string, error) {
	var id string
	if err := r.db.Get(&id, `SELECT id FROM favorites WHERE session_id=?`, sessionID); err == nil {
		return id, nil
	}
	_, err := r.db.Exec(`INSERT INTO favorites(id,session_id,updated_at) VALUES(?,?,?)`,
		sessionID, sessionID, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

func (r *FavoritesRepo) Add(favoritesID, productID string) error {
	_, err := r.db.Exec(`
	  INSERT INTO favorite_items(favorites_id, product_id, created_at)
	  VALUES(?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(favorites_id, product_id) DO NOTHING
	`, favoritesID, productID)
	return err
}

func (r *FavoritesRepo) Remove(favoritesID, productID string) error {
	_, err := r.db.Exec(`DELETE FROM favorite_items WHERE favorites_id=? AND product_id=?`, favoritesID, productID)
	return err
}

type FavoriteRow struct {
	ProductID string          `db:"product_id" json:"productId"`
	Nombre    string          `db:"nombre" json:"nombre"`
	Categoria string          `db:"categoria" json:"categoria"`
	Precio    decimal.Decimal `db:"precio" json:"precio"`
	Stock     int             `db:"stock" json:"stock"`
}

func (r *FavoritesRepo) List(favoritesID string) ([]FavoriteRow, error) {
	out := []FavoriteRow{}
	err := r.db.Select(&out, `
	  SELECT p.id AS product_id, p.nombre, p.categoria, p.precio, p.stock
	  FROM favorite_items fi
	  JOIN products p ON p.id = fi.product_id
	  WHERE fi.favorites_id = ? AND p.borrado = 0
	  ORDER BY p.nombre
	`, favoritesID)
	return out, err
}
