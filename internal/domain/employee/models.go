package employee

import "time"

type Employee struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Barcode   string    `json:"barcode"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}
