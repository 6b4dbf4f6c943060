package models

import "errors"

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

type User struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
}
