// internal/models/user.go
package models

import (
	"fmt"
	"strings"
	"time"

	dbgen "github.com/codr1/Courtside/internal/db/generated"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func ParseRole(value string) (Role, error) {
	switch role := Role(strings.ToLower(strings.TrimSpace(value))); role {
	case RoleUser, RoleAdmin:
		return role, nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func UserFromDB(row dbgen.User) User {
	return User{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email.String,
		Phone:     row.Phone.String,
		Role:      Role(row.Role),
		CreatedAt: row.CreatedAt,
	}
}
