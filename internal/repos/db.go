package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline catalog if the DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure demo users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Products (soft-deleted via borrado; stock never below zero)
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  nombre TEXT NOT NULL,
  descripcion TEXT,
  imagen TEXT,
  categoria TEXT NOT NULL,
  subcategoria TEXT,
  marca TEXT,
  color TEXT,
  precio NUMERIC NOT NULL CHECK (precio >= 0),
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  destacado INTEGER NOT NULL DEFAULT 0,
  borrado INTEGER NOT NULL DEFAULT 0,
  peso TEXT,
  edad TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_categoria  ON products(categoria);
CREATE INDEX IF NOT EXISTS idx_products_nombre     ON products(LOWER(nombre));
CREATE INDEX IF NOT EXISTS idx_products_destacado  ON products(destacado);
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  nombre TEXT NOT NULL,
  apellido TEXT,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('cliente','admin')),
  activo INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Carts (one per session; lines snapshot the product at add time)
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  session_id TEXT UNIQUE NOT NULL,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS cart_items(
  cart_id    TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  qty INTEGER NOT NULL CHECK (qty >= 1 AND qty <= 10),
  nombre_at_add TEXT NOT NULL,
  precio_at_add NUMERIC NOT NULL,
  imagen_at_add TEXT,
  categoria_at_add TEXT,
  created_at TEXT,
  updated_at TEXT,
  PRIMARY KEY (cart_id, product_id)
);

-- Orders (immutable financial snapshot at checkout)
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  order_number TEXT NOT NULL UNIQUE,
  status TEXT NOT NULL DEFAULT 'pendiente'
    CHECK (status IN ('pendiente','procesando','enviado','entregado','cancelado')),
  payment_method TEXT NOT NULL,
  payment_status TEXT NOT NULL DEFAULT 'pendiente'
    CHECK (payment_status IN ('pendiente','pagado','fallido','reembolsado')),
  shipping_address TEXT NOT NULL,
  shipping_city TEXT NOT NULL,
  shipping_postal_code TEXT NOT NULL,
  shipping_state TEXT NOT NULL,
  subtotal NUMERIC NOT NULL,
  shipping_cost NUMERIC NOT NULL,
  tax NUMERIC NOT NULL,
  total NUMERIC NOT NULL,
  notes TEXT,
  estimated_delivery TEXT,
  idempotency_key TEXT UNIQUE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_user       ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  order_id  TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id),
  qty INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  total_price NUMERIC NOT NULL,
  product_name TEXT NOT NULL,
  product_image TEXT,
  PRIMARY KEY (order_id, product_id)
);

-- Favorites (session-scoped saved products)
CREATE TABLE IF NOT EXISTS favorites(
  id TEXT PRIMARY KEY,
  session_id TEXT UNIQUE NOT NULL,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS favorite_items(
  favorites_id TEXT NOT NULL REFERENCES favorites(id) ON DELETE CASCADE,
  product_id   TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  created_at   TEXT,
  PRIMARY KEY (favorites_id, product_id)
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo catalog")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(id,nombre,descripcion,imagen,categoria,subcategoria,marca,color,precio,stock,destacado,peso,edad) VALUES
	  ('alim-perro-001','Alimento Premium Adulto 15kg','Alimento balanceado para perros adultos de razas medianas y grandes','products/alim-perro-001.jpg','perros','alimento','Patitas','',18500,24,1,'15kg','adulto'),
	  ('alim-perro-002','Alimento Cachorro 3kg','Croquetas para cachorros hasta 12 meses','products/alim-perro-002.jpg','perros','alimento','Patitas','',7200,40,0,'3kg','cachorro'),
	  ('alim-gato-001','Alimento Gato Esterilizado 7.5kg','Formula para gatos esterilizados','products/alim-gato-001.jpg','gatos','alimento','Michi','',16900,18,1,'7.5kg','adulto'),
	  ('jug-perro-001','Pelota Mordillo Resistente','Pelota de caucho natural para perros','products/jug-perro-001.jpg','perros','juguetes','PlayPet','rojo',3500,60,0,'',''),
	  ('acc-gato-001','Rascador Torre 90cm','Torre rascadora con plataformas','products/acc-gato-001.jpg','gatos','accesorios','Michi','gris',42000,6,1,'',''),
	  ('hig-perro-001','Shampoo Hipoalergenico 500ml','Shampoo para pieles sensibles','products/hig-perro-001.jpg','perros','higiene','CleanPet','',4800,35,0,'500ml','')`)

	return tx.Commit()
}

// seedUsers ensures one cliente and one admin exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Nombre, Apellido, Email, Role, Hash string
	}
	mk := func(id, nombre, apellido, email, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Nombre: nombre, Apellido: apellido, Email: email, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-ana", "Ana", "Gomez", "ana@patitas.test", "cliente", "Passw0rd!"),
		mk("u-bruno", "Bruno", "Diaz", "bruno@patitas.test", "cliente", "Passw0rd!"),
		mk("u-admin", "Admin", "", "admin@patitas.test", "admin", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,nombre,apellido,email,password_hash,role)
			VALUES(?,?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Nombre, x.Apellido, x.Email, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
