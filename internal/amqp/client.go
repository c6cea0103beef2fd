// Package amqp connects settlement approval to a RabbitMQ counterparty:
// requests are published when a goal deletion starts and approvals are
// consumed to finish it.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/mmynk/sharedgoals/internal/ledger"
	"github.com/mmynk/sharedgoals/internal/models"
)

const (
	RoutingKeyRequested = "settlement.requested"
	RoutingKeyApproved  = "settlement.approved"

	publishTimeout = 5 * time.Second
)

var errMissingGoalID = errors.New("message has no goal id")

// Approver resolves a pending settlement.
type Approver interface {
	ApproveSettlement(ctx context.Context, goalID string) (*models.Settlement, error)
}

// Client publishes settlement requests and consumes approvals over one channel.
type Client struct {
	conn          *amqp091.Connection
	channel       *amqp091.Channel
	exchangeName  string
	requestQueue  string
	approvalQueue string
	logger        *slog.Logger
}

// NewClient dials url and declares the exchange and both queues. Queue names
// are derived from the exchange name and routing keys.
func NewClient(url, exchangeName string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

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
		conn:          conn,
		channel:       channel,
		exchangeName:  exchangeName,
		requestQueue:  exchangeName + "." + RoutingKeyRequested,
		approvalQueue: exchangeName + "." + RoutingKeyApproved,
		logger:        logger,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queues: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
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

	bindings := []struct{ queue, key string }{
		{c.requestQueue, RoutingKeyRequested},
		{c.approvalQueue, RoutingKeyApproved},
	}
	for _, b := range bindings {
		_, err = c.channel.QueueDeclare(
			b.queue, // name
			true,    // durable
			false,   // delete when unused
			false,   // exclusive
			false,   // no-wait
			nil,     // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", b.queue, err)
		}

		if err := c.channel.QueueBind(b.queue, b.key, c.exchangeName, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", b.queue, err)
		}
	}

	return nil
}

// PublishSettlementRequested announces a pending settlement to the counterparty.
func (c *Client) PublishSettlementRequested(ctx context.Context, s *models.Settlement) error {
	body, err := NewSettlementRequestedMessage(s).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := c.publish(ctx, RoutingKeyRequested, body); err != nil {
		return err
	}

	c.logger.InfoContext(ctx, "Published settlement request",
		"goal_id", s.GoalID,
		"total", s.Total(),
		"exchange", c.exchangeName)
	return nil
}

func (c *Client) publish(ctx context.Context, routingKey string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := c.channel.PublishWithContext(
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
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

// HandleEvent is a ledger.Handler that publishes every settlement request.
func (c *Client) HandleEvent(ctx context.Context, ev ledger.Event) {
	if ev.Type != ledger.EventSettlementRequested || ev.Settlement == nil {
		return
	}
	if err := c.PublishSettlementRequested(context.WithoutCancel(ctx), ev.Settlement); err != nil {
		c.logger.ErrorContext(ctx, "Failed to publish settlement request", "goal_id", ev.GoalID, "error", err)
	}
}

// ConsumeApprovals feeds approval messages to approver until ctx is done.
func (c *Client) ConsumeApprovals(ctx context.Context, approver Approver) error {
	msgs, err := c.channel.Consume(
		c.approvalQueue, // queue
		"",              // consumer
		false,           // auto-ack
		false,           // exclusive
		false,           // no-local
		false,           // no-wait
		nil,             // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	c.logger.InfoContext(ctx, "Started consuming settlement approvals", "queue", c.approvalQueue)

	for {
		select {
		case <-ctx.Done():
			c.logger.InfoContext(ctx, "Stopping approval consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			c.handleApproval(ctx, delivery, approver)
		}
	}
}

// handleApproval acks, drops or requeues one delivery. Approvals for goals
// that are already settled or unknown are acked so they are not redelivered.
func (c *Client) handleApproval(ctx context.Context, delivery amqp091.Delivery, approver Approver) {
	msg, err := SettlementApprovedMessageFromJSON(delivery.Body)
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to unmarshal approval", "error", err)
		delivery.Nack(false, false)
		return
	}

	_, err = approver.ApproveSettlement(ctx, msg.GoalID)
	switch {
	case err == nil:
		delivery.Ack(false)
		c.logger.InfoContext(ctx, "Settlement approved", "goal_id", msg.GoalID, "channel", "amqp", "approved_by", msg.ApprovedBy)
	case errors.Is(err, ledger.ErrNotPending), errors.Is(err, ledger.ErrNotFound):
		delivery.Ack(false)
		c.logger.WarnContext(ctx, "Dropping approval", "goal_id", msg.GoalID, "error", err)
	default:
		delivery.Nack(false, true)
		c.logger.ErrorContext(ctx, "Failed to approve settlement", "goal_id", msg.GoalID, "error", err)
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
