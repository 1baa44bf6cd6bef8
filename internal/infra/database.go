package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"varejopos/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that
// GORM cannot express (partial indexes, extensions).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates the schema. Also used by integration tests.
func RunMigrations(db *gorm.DB) error {
	// gen_random_uuid() defaults need pgcrypto on PG < 13 installs.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Pessoa{},
		&model.Unidade{},
		&model.Funcionario{},
		&model.Cliente{},
		&model.ProdutoPai{},
		&model.ProdutoVariacao{},
		&model.EstoqueSaldo{},
		&model.Caixa{},
		&model.CaixaMovimentacao{},
		&model.Venda{},
		&model.VendaItem{},
		&model.VendaDesconto{},
		&model.VendaPagamento{},
		&model.VendaEvidencia{},
		&model.Voucher{},
		&model.ContaReceber{},
		&model.Parcela{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one ABERTO caixa per funcionario; the open race is settled
		// by this index, not by application locks.
		{"partial unique index caixas aberto", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_caixas_funcionario_aberto') THEN
    CREATE UNIQUE INDEX idx_caixas_funcionario_aberto
        ON caixas (funcionario_id)
        WHERE status = 'ABERTO';
  END IF;
END $$`},
		// One active voucher per code.
		{"partial unique index vouchers ativos", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_vouchers_codigo_ativo') THEN
    CREATE UNIQUE INDEX idx_vouchers_codigo_ativo
        ON vouchers (codigo)
        WHERE ativo = true;
  END IF;
END $$`},
		// The sweep query: PENDENTE installments by due date.
		{"partial index parcelas pendentes", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_parcelas_pendentes_vencimento') THEN
    CREATE INDEX idx_parcelas_pendentes_vencimento
        ON parcelas (data_vencimento)
        WHERE status = 'PENDENTE';
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
