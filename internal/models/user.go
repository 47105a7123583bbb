package models

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           string `json:"id" db:"user_id"`
	Email        string `json:"email" db:"email"`
	Name         string `json:"name" db:"name"`
	Description  string `json:"description" db:"description"`
	Role         string `json:"role" db:"role"`
	PasswordHash string `json:"-" db:"password_hash"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
}
