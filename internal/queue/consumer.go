package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/vehicle-configurator/internal/logger"
)

// LeadConsumer appends every ConfigurationFinishedEvent on its queue to
// <Dir>/leads.log, one line per event.
type LeadConsumer struct {
	URL   string
	Queue string
	Dir   string
	Log   *logger.Logger
}

// Run consumes until ctx is cancelled, redialing the broker with
// exponential backoff whenever the connection drops.
func (c *LeadConsumer) Run(ctx context.Context) {
	log := c.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("component", "queue.LeadConsumer", "queue", c.Queue)

	backoff := time.Second
	for ctx.Err() == nil {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			log.Warn("broker dial failed", "error", err, "retry_in", backoff.String())
			if !sleep(ctx, backoff) {
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		log.Warn("consume loop ended, reconnecting", "error", err)
		if !sleep(ctx, 2*time.Second) {
			return
		}
	}
}

func (c *LeadConsumer) consume(ctx context.Context, conn *amqp.Connection, log *logger.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("set qos failed", "error", err)
	}
	if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := c.handle(d.Body); err != nil {
			log.Error("lead message rejected", "error", err)
			// no requeue, a poison message would loop forever
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func (c *LeadConsumer) handle(body []byte) error {
	var ev ConfigurationFinishedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return AppendLeadLine(c.Dir, ev)
}

// AppendLeadLine writes ev to <dir>/leads.log, creating both as needed.
func AppendLeadLine(dir string, ev ConfigurationFinishedEvent) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "leads.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open lead log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLeadLine(ev)); err != nil {
		return fmt.Errorf("write lead log: %w", err)
	}
	return nil
}

// FormatLeadLine renders ev as a single newline-terminated log line.
func FormatLeadLine(ev ConfigurationFinishedEvent) string {
	user := "guest"
	if ev.UserID != nil {
		user = fmt.Sprint(*ev.UserID)
	}
	return fmt.Sprintf("[%s] Configuration finished | lead_id=%s | session_id=%s | user=%s | variant=%q | color=%q | wheel=%s | seat=%s | accessories=[%s] | total=%s\n",
		ev.FinishedAt, ev.LeadID, ev.SessionID, user, ev.VariantName, ev.Color, orDash(ev.WheelID),
		orDash(ev.SeatID), strings.Join(ev.AccessoryIDs, ","), ev.TotalPrice)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
