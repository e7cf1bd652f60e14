package ws

import (
	"encoding/json"
	"time"

	"hydroguide/internal/domain/hydration"

	"github.com/google/uuid"
)

const EventIntakeUpdated = "intake_updated"

type IntakeUpdatedEvent struct {
	Type      string  `json:"type"`
	Date      string  `json:"date"`
	TotalOz   float64 `json:"total_oz"`
	GoalOz    int     `json:"goal_oz"`
	Timestamp string  `json:"timestamp"`
}

// Notifier pushes committed ledger changes to the user's open sessions.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

func (n *Notifier) NotifyIntakeUpdated(userID uuid.UUID, day hydration.Day, totalOz float64, goalOz int) {
	if n == nil || n.hub == nil || userID == uuid.Nil {
		return
	}

	b, err := json.Marshal(IntakeUpdatedEvent{
		Type:      EventIntakeUpdated,
		Date:      day.String(),
		TotalOz:   totalOz,
		GoalOz:    goalOz,
		Timestamp: n.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	n.hub.Send(userID, b)
}
