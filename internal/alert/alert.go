// Package alert records low-stock events and periodically reports them,
// optionally by email.
package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// LowStockLogKey is the Redis list holding pending low-stock events.
const LowStockLogKey = "low_stock:events"

// Event is a single low-stock occurrence.
type Event struct {
	ProductID int       `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Threshold int       `json:"threshold"`
	At        time.Time `json:"at"`
}

// Notifier receives low-stock events. Notify must not block the adjustment
// path on failure; delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, e Event)
}

// Nop discards all events. Used when Redis is not configured.
type Nop struct{}

func (Nop) Notify(context.Context, Event) {}

// SMTPConfig configures the optional summary email.
type SMTPConfig struct {
	From     string
	To       string
	Server   string
	Port     string
	User     string
	Password string
}

// RedisLog appends low-stock events to a Redis list and drains it on a
// schedule, logging a summary and emailing it when SMTP is configured.
type RedisLog struct {
	rdb  *redis.Client
	smtp SMTPConfig
	log  zerolog.Logger
}

func NewRedisLog(rdb *redis.Client, smtpCfg SMTPConfig, log zerolog.Logger) *RedisLog {
	return &RedisLog{rdb: rdb, smtp: smtpCfg, log: log}
}

func (l *RedisLog) Notify(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := l.rdb.RPush(ctx, LowStockLogKey, data).Err(); err != nil {
		l.log.Error().Err(err).Msg("failed to record low-stock event")
	}
}

// StartSummaryLoop drains the event log every interval until ctx is done.
func (l *RedisLog) StartSummaryLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.summarize(ctx)
		}
	}
}

func (l *RedisLog) summarize(ctx context.Context) {
	entries, err := l.rdb.LRange(ctx, LowStockLogKey, 0, -1).Result()
	if err != nil {
		l.log.Error().Err(err).Msg("failed to read low-stock event log")
		return
	}
	if len(entries) == 0 {
		return
	}
	_ = l.rdb.Del(ctx, LowStockLogKey).Err() // clear after reading

	var lines []string
	for _, entry := range entries {
		var e Event
		if err := json.Unmarshal([]byte(entry), &e); err != nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s (id=%d): qty %d, threshold %d at %s",
			e.Name, e.ProductID, e.Quantity, e.Threshold, e.At.Format(time.RFC3339)))
	}

	l.log.Warn().Int("events", len(lines)).Msg("low-stock summary:\n" + strings.Join(lines, "\n"))

	if l.smtp.Server != "" {
		l.sendSummaryEmail(lines)
	}
}

func (l *RedisLog) sendSummaryEmail(lines []string) {
	subject := fmt.Sprintf("Low-stock summary: %d event(s)", len(lines))
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		l.smtp.From, l.smtp.To, subject, strings.Join(lines, "\n"))

	addr := fmt.Sprintf("%s:%s", l.smtp.Server, l.smtp.Port)
	var auth smtp.Auth
	if l.smtp.User != "" {
		auth = smtp.PlainAuth("", l.smtp.User, l.smtp.Password, l.smtp.Server)
	}

	go func() {
		if err := smtp.SendMail(addr, auth, l.smtp.From, []string{l.smtp.To}, []byte(msg)); err != nil {
			l.log.Error().Err(err).Msg("failed to send low-stock summary email")
		}
	}()
}
