package moradias

import "time"

// Moradia is a housing listing. Field names keep the original schema's
// Portuguese column names on the wire.
type Moradia struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	OwnerName string    `json:"owner_name,omitempty"`
	Titulo    string    `json:"titulo"`
	Descricao string    `json:"descricao"`
	Fotos     []string  `json:"fotos"`
	Quartos   int       `json:"quartos"`
	Banheiros int       `json:"banheiros"`
	Vagas     int       `json:"vagas"`
	Valor     float64   `json:"valor"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateRequest is the body for POST /moradias. Photos are uploaded
// separately after creation.
type CreateRequest struct {
	Titulo    string  `json:"titulo"`
	Descricao string  `json:"descricao"`
	Quartos   int     `json:"quartos"`
	Banheiros int     `json:"banheiros"`
	Vagas     int     `json:"vagas"`
	Valor     float64 `json:"valor"`
}
