package entity

import "time"

// Client representa un cliente del punto de venta. El motor solo lo lee.
type Client struct {
	ID        string
	Name      string
	Phone     string
	CreatedAt time.Time
}
