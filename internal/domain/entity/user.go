package entity

// Roles válidos para User.
const (
	RoleUsuario   = "usuario"
	RoleEncargado = "encargado"
)

// User usuario del sistema. PasswordHash vacío = usuario sin contraseña (solo lectura).
type User struct {
	ID           string // alias único
	Role         string
	PasswordHash string // bcrypt hash
}

// HasPassword indica si el usuario requiere contraseña para iniciar sesión.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
