package entity

import "time"

// Client representa un cliente del negocio.
type Client struct {
	ID        string
	Name      string
	Address   string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
