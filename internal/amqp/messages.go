package amqp

import (
	"encoding/json"
	"time"

	"github.com/mmynk/sharedgoals/internal/models"
)

// PayoutMessage is one member's projected refund.
type PayoutMessage struct {
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name"`
	Amount     int64  `json:"amount"`
}

// SettlementRequestedMessage asks the counterparty to approve a goal's close-out.
type SettlementRequestedMessage struct {
	GoalID      string          `json:"goal_id"`
	GoalName    string          `json:"goal_name"`
	Payouts     []PayoutMessage `json:"payouts"`
	Total       int64           `json:"total"`
	RequestedAt time.Time       `json:"requested_at"`
}

// NewSettlementRequestedMessage builds the message for a pending settlement.
func NewSettlementRequestedMessage(s *models.Settlement) *SettlementRequestedMessage {
	msg := &SettlementRequestedMessage{
		GoalID:      s.GoalID,
		GoalName:    s.GoalName,
		Payouts:     make([]PayoutMessage, 0, len(s.Payouts)),
		Total:       s.Total(),
		RequestedAt: s.RequestedAt,
	}
	for _, p := range s.Payouts {
		msg.Payouts = append(msg.Payouts, PayoutMessage{MemberID: p.MemberID, MemberName: p.MemberName, Amount: p.Amount})
	}
	return msg
}

// ToJSON converts the message to JSON bytes
func (m *SettlementRequestedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SettlementRequestedMessageFromJSON parses a requested message.
func SettlementRequestedMessageFromJSON(data []byte) (*SettlementRequestedMessage, error) {
	var msg SettlementRequestedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// SettlementApprovedMessage is the counterparty's go-ahead for a settlement.
type SettlementApprovedMessage struct {
	GoalID     string    `json:"goal_id"`
	ApprovedBy string    `json:"approved_by,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// SettlementApprovedMessageFromJSON parses an approval. A message without a
// goal id is rejected.
func SettlementApprovedMessageFromJSON(data []byte) (*SettlementApprovedMessage, error) {
	var msg SettlementApprovedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.GoalID == "" {
		return nil, errMissingGoalID
	}
	return &msg, nil
}
