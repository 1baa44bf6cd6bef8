package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"varejopos/internal/apierror"
)

// janelaLimiter is a per-IP fixed-window counter. Entries for IPs that went
// quiet are purged in the background so the map stays bounded.
type janelaLimiter struct {
	limite int
	janela time.Duration
	msg    string
	mu     sync.Mutex
	porIP  map[string]*contadorIP
}

type contadorIP struct {
	contagem int
	expiraEm time.Time
}

func novoJanelaLimiter(limite int, janela time.Duration, msg string) *janelaLimiter {
	l := &janelaLimiter{
		limite: limite,
		janela: janela,
		msg:    msg,
		porIP:  make(map[string]*contadorIP),
	}
	go l.limpar()
	return l
}

// permitir counts one hit for ip; returns false once the window is full.
func (l *janelaLimiter) permitir(ip string) (bool, time.Time) {
	agora := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.porIP[ip]
	if !ok || agora.After(c.expiraEm) {
		c = &contadorIP{expiraEm: agora.Add(l.janela)}
		l.porIP[ip] = c
	}
	c.contagem++
	return c.contagem <= l.limite, c.expiraEm
}

func (l *janelaLimiter) limpar() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		agora := time.Now()
		l.mu.Lock()
		removidos := 0
		for ip, c := range l.porIP {
			if agora.After(c.expiraEm) {
				delete(l.porIP, ip)
				removidos++
			}
		}
		l.mu.Unlock()
		if removidos > 0 {
			log.Debug().Int("removidos", removidos).Msg("rate limiter: janelas expiradas removidas")
		}
	}
}

func (l *janelaLimiter) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, expiraEm := l.permitir(c.ClientIP())
		if !ok {
			c.Header("Retry-After", expiraEm.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				apierror.New(apierror.CodeValidation, l.msg))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter holds brute-force attempts at 20 logins/min per IP.
func LoginRateLimiter() gin.HandlerFunc {
	l := novoJanelaLimiter(20, time.Minute,
		"Muitas tentativas de login. Tente em 1 minuto.")
	return l.handler()
}

// RateLimiter is the general API throttle applied to every route.
func RateLimiter(limite int, janela time.Duration) gin.HandlerFunc {
	l := novoJanelaLimiter(limite, janela,
		"Muitas solicitações. Tente novamente em instantes.")
	return l.handler()
}
