package worker

// Background goroutine that periodically persists the overdue transition
// (PENDENTE -> ATRASADA) for installments past their due date. The sweep
// itself lives in the receivable service; this file only owns the ticking.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// VarredorVencidas is implemented by the receivable service.
type VarredorVencidas interface {
	VarrerVencidas(ctx context.Context) (int, error)
}

// StartVencimentoCron ticks every interval and runs one sweep per tick.
// It respects the context for graceful shutdown, and runs one sweep right
// away so a restart never leaves overdue installments unmarked for a full
// interval.
func StartVencimentoCron(ctx context.Context, varredor VarredorVencidas, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("vencimento_cron: started")
		executarVarredura(ctx, varredor)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("vencimento_cron: shutting down")
				return
			case <-ticker.C:
				executarVarredura(ctx, varredor)
			}
		}
	}()
}

func executarVarredura(ctx context.Context, varredor VarredorVencidas) {
	if _, err := varredor.VarrerVencidas(ctx); err != nil {
		log.Error().Err(err).Msg("vencimento_cron: sweep failed")
	}
}
