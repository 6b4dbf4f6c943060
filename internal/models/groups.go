package models

import "errors"

var (
	ErrGroupExists   = errors.New("group already exists")
	ErrGroupNotFound = errors.New("group not found")
)

type Group struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
