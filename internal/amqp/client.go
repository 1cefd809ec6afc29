package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"stromkosten/internal/core"
)

// Client is the notification channel: daily summaries are published to the
// summary queue, and on-demand ingestion triggers are consumed from the
// trigger queue. Both queues hang off the same direct exchange.
type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	summaryQueue string
	triggerQueue string
}

func NewClient(url, exchangeName, summaryQueue string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		summaryQueue: summaryQueue,
		triggerQueue: summaryQueue + "_triggers",
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queues: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	// Declare exchange
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	for _, queue := range []string{c.summaryQueue, c.triggerQueue} {
		// Declare queue
		_, err = c.channel.QueueDeclare(
			queue, // name
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}

		// Bind queue to exchange, routing key same as queue name
		err = c.channel.QueueBind(queue, queue, c.exchangeName, false, nil)
		if err != nil {
			return fmt.Errorf("bind queue %s: %w", queue, err)
		}
	}

	return nil
}

func (c *Client) publish(ctx context.Context, routingKey string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

// PublishDailySummary publishes a rendered summary for the given date.
func (c *Client) PublishDailySummary(ctx context.Context, date core.Date, text string) error {
	msg := NewDailySummaryMessage(date.String(), text)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal summary message: %w", err)
	}

	if err := c.publish(ctx, c.summaryQueue, body); err != nil {
		return fmt.Errorf("publish summary message: %w", err)
	}

	slog.InfoContext(ctx, "Published daily summary",
		"date", date.String(),
		"exchange", c.exchangeName,
		"queue", c.summaryQueue)
	return nil
}

// PublishIngestTrigger requests an on-demand ingestion run.
func (c *Client) PublishIngestTrigger(ctx context.Context) error {
	msg := NewIngestTriggerMessage()
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal trigger message: %w", err)
	}

	if err := c.publish(ctx, c.triggerQueue, body); err != nil {
		return fmt.Errorf("publish trigger message: %w", err)
	}

	slog.InfoContext(ctx, "Published ingest trigger",
		"exchange", c.exchangeName,
		"queue", c.triggerQueue)
	return nil
}

// ConsumeIngestTriggers delivers on-demand trigger messages to the handler
// until the context is cancelled. Handler failures are requeued.
func (c *Client) ConsumeIngestTriggers(ctx context.Context, handler func(context.Context, *IngestTriggerMessage) error) error {
	msgs, err := c.channel.Consume(
		c.triggerQueue, // queue
		"",             // consumer
		false,          // auto-ack (we want manual ack)
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,            // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming ingest triggers", "queue", c.triggerQueue)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping trigger consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			msg, err := IngestTriggerMessageFromJSON(delivery.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to unmarshal trigger", "error", err)
				delivery.Nack(false, false) // reject and don't requeue
				continue
			}

			if err := handler(ctx, msg); err != nil {
				slog.ErrorContext(ctx, "Failed to handle trigger",
					"error", err,
					"requested_at", msg.RequestedAt)
				delivery.Nack(false, true) // reject and requeue
				continue
			}

			delivery.Ack(false)
		}
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// DialWithRetry keeps dialing the broker with exponential backoff until a
// connection succeeds, the error stops looking transient, or the context is
// cancelled.
func DialWithRetry(ctx context.Context, url, exchangeName, summaryQueue string, maxAttempts int) (*Client, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		client, err := NewClient(url, exchangeName, summaryQueue)
		if err == nil {
			return client, nil
		}
		lastErr = err

		if !isConnectionError(err) {
			return nil, err
		}

		delay := exponentialBackoff(attempt)
		slog.WarnContext(ctx, "AMQP dial failed, retrying",
			"attempt", attempt+1,
			"delay", delay,
			"error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("dial AMQP after %d attempts: %w", maxAttempts, lastErr)
}

// exponentialBackoff returns the reconnect delay for the given attempt,
// capped at 30 seconds.
func exponentialBackoff(attempt int) time.Duration {
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}

// isConnectionError reports whether the error looks like a lost broker
// connection worth a reconnect rather than a permanent failure.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{
		"connection refused",
		"connection closed",
		"unexpected EOF",
		"broken pipe",
		"use of closed network connection",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
