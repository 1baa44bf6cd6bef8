package service

import "time"

// Relogio abstracts "now" so services and tests share one time source.
// Business days follow the store timezone, not the server's.
type Relogio interface {
	Agora() time.Time
}

type relogioSistema struct{ loc *time.Location }

// NewRelogio loads tz (falls back to UTC when the zone is unknown).
func NewRelogio(tz string) Relogio {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	return &relogioSistema{loc: loc}
}

func (r *relogioSistema) Agora() time.Time { return time.Now().In(r.loc) }

// RelogioFixo is the test double: always returns the instant it was built
// with.
type RelogioFixo struct{ Instante time.Time }

func (r RelogioFixo) Agora() time.Time { return r.Instante }

// InicioDoDia truncates t to local midnight.
func InicioDoDia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
