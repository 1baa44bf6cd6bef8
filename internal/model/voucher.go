package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	VoucherPercentual = "PERCENTUAL"
	VoucherFixo       = "FIXO"
)

// Voucher is a promotional discount code. Codigo is stored upper-cased and is
// unique among active vouchers; QuantidadeDisponivel is decremented once per
// redemption through a guarded update.
type Voucher struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo               string          `gorm:"index;not null"`
	Tipo                 string          `gorm:"type:varchar(10);not null"`
	Valor                decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	QuantidadeDisponivel int             `gorm:"not null"`
	ValidadeInicio       *time.Time
	ValidadeFim          *time.Time
	Ativo                bool `gorm:"not null;default:true"`
	// Acumulativo marks vouchers that may be combined with other promotions.
	Acumulativo bool `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Voucher) TableName() string { return "vouchers" }
