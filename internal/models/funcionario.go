package models

import "time"

// Funcionario is the employment sub-record attached to a user that works
// on the platform. At most one per user.
type Funcionario struct {
	ID           string
	UsuarioID    string
	Cargo        string
	DataAdmissao time.Time
	CreatedAt    time.Time
}
