package dto

// LoginRequest entrada para login por alias. Los usuarios sin contraseña envían password vacío.
type LoginRequest struct {
	Alias    string `json:"alias"`
	Password string `json:"password"`
}

// UserResponse salida de un usuario (sin hash).
type UserResponse struct {
	Alias string `json:"alias"`
	Role  string `json:"role"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
