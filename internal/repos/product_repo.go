package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"patitas/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, nombre, COALESCE(descripcion,'') AS descripcion, COALESCE(imagen,'') AS imagen,
  categoria, COALESCE(subcategoria,'') AS subcategoria, COALESCE(marca,'') AS marca,
  COALESCE(color,'') AS color, precio, stock, destacado, borrado,
  COALESCE(peso,'') AS peso, COALESCE(edad,'') AS edad,
  created_at, COALESCE(updated_at,'') AS updated_at`

// Get returns a product visible to customers. Soft-deleted rows are
// treated as missing.
func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ? AND borrado = 0`, id)
	return p, err
}

// GetAny returns a product regardless of the borrado flag (admin views,
// historical order lines).
func (r *ProductRepo) GetAny(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) ListDestacados(limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 8
	}
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+` FROM products
	  WHERE borrado = 0 AND destacado = 1
	  ORDER BY created_at DESC
	  LIMIT ?`, limit)
	return out, err
}

func (r *ProductRepo) ListByCategory(categoria string, limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+` FROM products
	  WHERE borrado = 0 AND categoria = ?
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`, categoria, limit, offset)
	return out, err
}

func (r *ProductRepo) Categories() ([]string, error) {
	var out []string
	err := r.db.Select(&out, `SELECT DISTINCT categoria FROM products WHERE borrado = 0 ORDER BY categoria`)
	return out, err
}

type SearchFilter struct {
	Q         string
	Categoria string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    string // precio_asc | precio_desc | nombre | reciente
	Limit     int
	Offset    int
}

func (r *ProductRepo) Search(f SearchFilter) ([]domain.Product, error) {
	where := `borrado = 0`
	args := []any{}
	if f.Q != "" {
		where += ` AND (LOWER(nombre) LIKE ? OR LOWER(descripcion) LIKE ? OR LOWER(marca) LIKE ?)`
		pat := "%" + f.Q + "%"
		args = append(args, pat, pat, pat)
	}
	if f.Categoria != "" {
		where += ` AND categoria = ?`
		args = append(args, f.Categoria)
	}
	if f.MinPrice != nil {
		where += ` AND precio >= ?`
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where += ` AND precio <= ?`
		args = append(args, *f.MaxPrice)
	}

	order := `created_at DESC`
	switch f.SortBy {
	case "precio_asc":
		order = `precio ASC`
	case "precio_desc":
		order = `precio DESC`
	case "nombre":
		order = `LOWER(nombre) ASC`
	case "reciente", "":
	}

	limit := f.Limit
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	q := `SELECT ` + productCols + ` FROM products WHERE ` + where +
		` ORDER BY ` + order + ` LIMIT ? OFFSET ?`
	args = append(args, limit, f.Offset)

	var out []domain.Product
	err := r.db.Select(&out, q, args...)
	return out, err
}

// Stock returns the live stock for a customer-visible product.
func (r *ProductRepo) Stock(id string) (int, error) {
	var stock int
	err := r.db.Get(&stock, `SELECT stock FROM products WHERE id = ? AND borrado = 0`, id)
	return stock, err
}

// DecrementStock atomically subtracts "by" units if enough stock exists.
// It accepts any sqlx executor so checkout can run it inside the order
// transaction. Returns an error when stock would go negative.
func (r *ProductRepo) DecrementStock(e sqlx.Execer, id string, by int) error {
	res, err := e.Exec(`
		UPDATE products
		SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND borrado = 0 AND stock >= ?
	`, by, id, by)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("insufficient stock for %s", id)
	}
	return nil
}

// SetStock sets the absolute stock level (admin).
func (r *ProductRepo) SetStock(id string, stock int) error {
	_, err := r.db.Exec(`UPDATE products SET stock = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, stock, id)
	return err
}

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id,nombre,descripcion,imagen,categoria,subcategoria,marca,color,precio,stock,destacado,peso,edad,created_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, p.ID, p.Nombre, p.Descripcion, p.Imagen, p.Categoria, p.Subcategoria, p.Marca, p.Color,
		p.Precio, p.Stock, p.Destacado, p.Peso, p.Edad)
	return err
}

func (r *ProductRepo) Update(p domain.Product) error {
	_, err := r.db.Exec(`
	  UPDATE products
	  SET nombre=?, descripcion=?, imagen=?, categoria=?, subcategoria=?, marca=?, color=?,
	      precio=?, destacado=?, peso=?, edad=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=?
	`, p.Nombre, p.Descripcion, p.Imagen, p.Categoria, p.Subcategoria, p.Marca, p.Color,
		p.Precio, p.Destacado, p.Peso, p.Edad, p.ID)
	return err
}

// SoftDelete hides a product from customer queries while keeping the row
// for order history integrity.
func (r *ProductRepo) SoftDelete(id string) error {
	_, err := r.db.Exec(`UPDATE products SET borrado = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}

// ListAll returns every non-deleted product (admin listing).
func (r *ProductRepo) ListAll() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products WHERE borrado = 0 ORDER BY categoria, nombre`)
	return out, err
}
