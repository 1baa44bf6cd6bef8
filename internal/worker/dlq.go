package worker

// Jobs that exhaust their retries land in a dead letter list so one broken
// notification never wedges the queue. One Redis list per source queue,
// keyed dlq:{fila}; entries are inspected and replayed by hand.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const dlqPrefix = "dlq:"

// Descarte records why a job left the retry loop.
type Descarte struct {
	Fila         string                 `json:"fila"`
	Tipo         string                 `json:"tipo"`
	Payload      map[string]interface{} `json:"payload"`
	Motivo       string                 `json:"motivo"`
	Tentativas   int                    `json:"tentativas"`
	DescartadoEm string                 `json:"descartado_em"` // RFC 3339, UTC
}

func descartar(ctx context.Context, rdb *redis.Client, fila string, job Job, motivo string) {
	entrada := Descarte{
		Fila:         fila,
		Tipo:         job.Tipo,
		Payload:      job.Payload,
		Motivo:       motivo,
		Tentativas:   job.Attempts,
		DescartadoEm: time.Now().UTC().Format(time.RFC3339),
	}

	data, err := json.Marshal(entrada)
	if err != nil {
		log.Error().Err(err).Str("fila", fila).Msg("dlq: falha ao serializar descarte")
		return
	}
	if err := rdb.LPush(ctx, dlqPrefix+fila, data).Err(); err != nil {
		log.Error().Err(err).Str("fila", fila).Msg("dlq: falha ao gravar descarte")
		return
	}

	log.Warn().
		Str("fila", fila).
		Str("tipo", job.Tipo).
		Str("motivo", motivo).
		Int("tentativas", job.Attempts).
		Msg("dlq: job descartado após esgotar tentativas")
}

// TamanhoDLQ reports how many entries wait in a dead letter list.
func TamanhoDLQ(ctx context.Context, rdb *redis.Client, fila string) (int64, error) {
	return rdb.LLen(ctx, dlqPrefix+fila).Result()
}
