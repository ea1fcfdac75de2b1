package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"is_active"`    //nolint:tagliatelle
	Staff        bool      `json:"is_staff"`     //nolint:tagliatelle
	Superuser    bool      `json:"is_superuser"` //nolint:tagliatelle
	CreatedAt    time.Time `json:"created_at"`   //nolint:tagliatelle
}
