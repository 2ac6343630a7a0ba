package entity

// OrderEvent is the payload published for order lifecycle changes.
type OrderEvent struct {
	Type  string `json:"type"` // created, updated, cancelled
	Order Order  `json:"order"`
}
