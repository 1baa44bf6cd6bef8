package model

import (
	"time"

	"github.com/google/uuid"
)

// Pessoa is the single identity record behind both the staff view
// (Funcionario) and the purchasing view (Cliente). Identity fields live only
// here, so updating a name or CPF never requires a dual write.
type Pessoa struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NomeCompleto string    `gorm:"index;not null"`
	CPF          *string   `gorm:"type:varchar(14);uniqueIndex;column:cpf"`
	Email        *string
	Telefone     *string
	Login        *string `gorm:"uniqueIndex"`
	SenhaHash    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Pessoa) TableName() string { return "pessoas" }
