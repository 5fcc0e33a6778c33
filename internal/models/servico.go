package models

import "time"

// States a servico moves through after being sent to another user.
const (
	ServicoPendente  = "PENDENTE"
	ServicoAceite    = "ACEITE"
	ServicoConcluido = "CONCLUIDO"
	ServicoCancelado = "CANCELADO"
)

// Servico is a service request exchanged between two users.
type Servico struct {
	ID             string
	Titulo         string
	Descricao      string
	RemetenteID    string // user who sent the request
	DestinatarioID string // user who received it
	Estado         string
	Preco          *float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidServicoEstado reports whether estado is one of the enumerated states.
func ValidServicoEstado(estado string) bool {
	switch estado {
	case ServicoPendente, ServicoAceite, ServicoConcluido, ServicoCancelado:
		return true
	}
	return false
}
