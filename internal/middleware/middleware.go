package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"taskStore/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

type contextKey string

const RequestIDKey contextKey = "request_id"

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		r = r.WithContext(ctx)

		next.ServeHTTP(w, r)
	})
}

type loggingWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (lw *loggingWriter) WriteHeader(code int) {
	if !lw.wroteHeader {
		lw.status = code
		lw.wroteHeader = true
		lw.ResponseWriter.WriteHeader(code)
	}
}

func (lw *loggingWriter) Write(b []byte) (int, error) {
	if !lw.wroteHeader {
		lw.WriteHeader(http.StatusOK)
	}

	n, err := lw.ResponseWriter.Write(b)
	lw.size += n
	return n, err
}

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := GetRequestID(r.Context())

		logger.Info(
			"HTTP_IN: Начало запроса",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.String("client_ip", r.RemoteAddr),
		)

		lw := &loggingWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(lw, r)

		var logLevel zapcore.Level
		switch {
		case lw.status >= 500:
			logLevel = zap.ErrorLevel
		case lw.status >= 400:
			logLevel = zap.WarnLevel
		default:
			logLevel = zap.InfoLevel
		}
		logger.Log(
			logLevel,
			"HTTP_OUT: Завершение запроса",
			zap.String("request_id", requestID),
			zap.Int("status", lw.status),
			zap.Int("bytes_written", lw.size),
			zap.Duration("ms", time.Since(start)),
		)

	})
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

type client struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// limiter держит по корзине токенов на IP. Клиент, молчавший дольше idleTTL,
// удаляется при очередной чистке: его корзина к этому моменту всё равно полная.
type limiter struct {
	mtx       sync.Mutex
	rpm       int
	idleTTL   time.Duration
	lastSweep time.Time
	clients   map[string]*client
}

func newLimiter(rpm int, window time.Duration) *limiter {
	return &limiter{
		rpm:     rpm,
		idleTTL: window,
		clients: make(map[string]*client),
	}
}

// allow списывает токен клиента. Возвращает остаток, время полного восстановления
// и, при отказе, через сколько появится следующий токен.
func (l *limiter) allow(ip string, now time.Time) (int, time.Time, time.Duration, bool) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.sweep(now)
	}

	c, exists := l.clients[ip]
	if !exists {
		perToken := l.idleTTL / time.Duration(l.rpm)
		c = &client{bucket: rate.NewLimiter(rate.Every(perToken), l.rpm)}
		l.clients[ip] = c
	}
	c.lastSeen = now

	ok := c.bucket.AllowN(now, 1)
	tokens := c.bucket.TokensAt(now)
	perSecond := float64(c.bucket.Limit())

	resetAt := now.Add(time.Duration((float64(l.rpm) - tokens) / perSecond * float64(time.Second)))
	var retryAfter time.Duration
	if !ok {
		retryAfter = time.Duration((1 - tokens) / perSecond * float64(time.Second))
	}
	return max(int(tokens), 0), resetAt, retryAfter, ok
}

func (l *limiter) sweep(now time.Time) {
	for ip, c := range l.clients {
		if now.Sub(c.lastSeen) >= l.idleTTL {
			delete(l.clients, ip)
		}
	}
	l.lastSweep = now
}

func (l *limiter) size() int {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return len(l.clients)
}

// RateLimit ограничивает число запросов с одного IP за минуту. rpm <= 0 отключает лимит.
func RateLimit(rpm int) func(http.Handler) http.Handler {
	if rpm <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	l := newLimiter(rpm, time.Minute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remaining, resetAt, retryAfter, ok := l.allow(clientIP(r), time.Now())

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rpm))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

			if !ok {
				logger.Warn("HTTP: Превышен лимит запросов",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("client_ip", r.RemoteAddr))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				err := json.NewEncoder(w).Encode(map[string]any{
					"error":       "rate_limit_exceeded",
					"message":     "Слишком много запросов. Попробуйте позже.",
					"retry_after": int(retryAfter.Round(time.Second).Seconds()),
					"request_id":  GetRequestID(r.Context()),
				})
				if err != nil {
					logger.Debug("HTTP: Не удалось записать ответ", zap.Error(err))
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
