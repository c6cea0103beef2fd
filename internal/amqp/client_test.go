package amqp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/mmynk/sharedgoals/internal/ledger"
	"github.com/mmynk/sharedgoals/internal/models"
	"github.com/mmynk/sharedgoals/internal/storage/memory"
)

type ackRecorder struct {
	acked   int
	nacked  int
	requeue bool
}

func (a *ackRecorder) Ack(tag uint64, multiple bool) error {
	a.acked++
	return nil
}

func (a *ackRecorder) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *ackRecorder) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

type failingApprover struct{ err error }

func (f failingApprover) ApproveSettlement(context.Context, string) (*models.Settlement, error) {
	return nil, f.err
}

func testClient() *Client {
	return &Client{
		exchangeName: "sharedgoals",
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func delivery(ack *ackRecorder, body string) amqp091.Delivery {
	return amqp091.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(body)}
}

func TestHandleApproval(t *testing.T) {
	ctx := context.Background()
	l := ledger.New(memory.New(), ledger.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err := l.SeedDemo(ctx); err != nil {
		t.Fatalf("SeedDemo failed: %v", err)
	}
	if _, err := l.RequestDeletion(ctx, "g1"); err != nil {
		t.Fatalf("RequestDeletion failed: %v", err)
	}

	tests := []struct {
		name        string
		body        string
		approver    Approver
		wantAck     bool
		wantRequeue bool
	}{
		{
			name:     "pending goal is approved",
			body:     `{"goal_id":"g1","approved_by":"bank"}`,
			approver: l,
			wantAck:  true,
		},
		{
			name:     "already settled goal is dropped",
			body:     `{"goal_id":"g1"}`,
			approver: l,
			wantAck:  true,
		},
		{
			name:     "goal not pending is dropped",
			body:     `{"goal_id":"g2"}`,
			approver: l,
			wantAck:  true,
		},
		{
			name:     "malformed body is rejected",
			body:     `{"goal_id":42}`,
			approver: l,
		},
		{
			name:     "missing goal id is rejected",
			body:     `{}`,
			approver: l,
		},
		{
			name:        "store failure is requeued",
			body:        `{"goal_id":"g2"}`,
			approver:    failingApprover{err: errors.New("disk full")},
			wantRequeue: true,
		},
	}

	c := testClient()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &ackRecorder{}
			c.handleApproval(ctx, delivery(ack, tt.body), tt.approver)

			if tt.wantAck {
				if ack.acked != 1 || ack.nacked != 0 {
					t.Errorf("expected ack, got acked=%d nacked=%d", ack.acked, ack.nacked)
				}
				return
			}
			if ack.nacked != 1 || ack.acked != 0 {
				t.Fatalf("expected nack, got acked=%d nacked=%d", ack.acked, ack.nacked)
			}
			if ack.requeue != tt.wantRequeue {
				t.Errorf("requeue: expected %v, got %v", tt.wantRequeue, ack.requeue)
			}
		})
	}

	if _, err := l.Goal(ctx, "g1"); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("expected g1 settled, got %v", err)
	}
}

func TestNewSettlementRequestedMessage(t *testing.T) {
	requested := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := &models.Settlement{
		GoalID:      "g1",
		GoalName:    "Overseas Trip 2025",
		Status:      models.SettlementPending,
		RequestedAt: requested,
		Payouts: []models.Payout{
			{MemberID: "m1", MemberName: "Jaeden", Amount: 18400},
			{MemberID: "m2", MemberName: "Shanice", Amount: 14000},
		},
	}

	body, err := NewSettlementRequestedMessage(s).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	msg, err := SettlementRequestedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("SettlementRequestedMessageFromJSON() error = %v", err)
	}

	if msg.GoalID != "g1" || msg.GoalName != "Overseas Trip 2025" {
		t.Errorf("unexpected goal fields: %+v", msg)
	}
	if msg.Total != 32400 {
		t.Errorf("Total = %d, want 32400", msg.Total)
	}
	if len(msg.Payouts) != 2 || msg.Payouts[1].MemberName != "Shanice" {
		t.Errorf("unexpected payouts: %+v", msg.Payouts)
	}
	if !msg.RequestedAt.Equal(requested) {
		t.Errorf("RequestedAt = %v, want %v", msg.RequestedAt, requested)
	}
}

func TestHandleEvent_IgnoresOtherEvents(t *testing.T) {
	c := testClient()

	// A nil channel would panic if anything were published.
	c.HandleEvent(context.Background(), ledger.Event{Type: ledger.EventContributed, GoalID: "g1"})
	c.HandleEvent(context.Background(), ledger.Event{Type: ledger.EventSettlementResolved, GoalID: "g1"})
}
