package entity

import "time"

// Papéis válidos para User.
const (
	RoleAdmin      = "admin"
	RoleConferente = "conferente"
	RoleOperador   = "operador"
)

// User usuário do sistema (operador de coletor, conferente ou admin).
type User struct {
	ID           string
	Login        string
	PasswordHash string // hash bcrypt, nunca em claro no domínio após persistir
	Name         string
	Role         string // admin, conferente, operador
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
