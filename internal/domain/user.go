package domain

const (
	RoleCliente = "cliente"
	RoleAdmin   = "admin"
)

type User struct {
	ID       string `db:"id" json:"id"`
	Nombre   string `db:"nombre" json:"nombre"`
	Apellido string `db:"apellido" json:"apellido"`
	Email    string `db:"email" json:"email"`
	Hash     string `db:"password_hash" json:"-"`
	Role     string `db:"role" json:"role"`
	Activo   bool   `db:"activo" json:"activo"`
}
