package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// StartAuditConsumer connects to RabbitMQ, declares the audit queue
// (durable) and consumes events, appending each to logs/audit.log in a
// single-line format. It runs a reconnect loop with capped backoff and never
// returns under normal operation; processing errors are logged and the
// offending message rejected without requeue so the loop cannot spin.
func StartAuditConsumer(queueName string, log zerolog.Logger) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("audit consumer: dial failed")
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, queueName, log); err != nil {
			log.Warn().Err(err).Msg("audit consumer: loop ended, reconnecting")
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, queueName string, log zerolog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn().Err(err).Msg("audit consumer: set QoS failed")
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := appendAuditLine(d.Body); err != nil {
			log.Error().Err(err).Msg("audit consumer: handle message failed")
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func appendAuditLine(body []byte) error {
	var ev AuditEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", "audit.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s | actor=%s:%d | entity=%s:%d | detail=%q | event_id=%s\n",
		ev.OccurredAt.Format(time.RFC3339), ev.Action, ev.ActorVariant, ev.ActorID,
		ev.Entity, ev.EntityID, ev.Detail, ev.EventID)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
