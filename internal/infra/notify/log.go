package notify

import (
	"context"
	"log/slog"

	"campus-booking/internal/usecase/shared"
)

// LogNotifier writes events to the application log. It is the default when
// no broker is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Publish(ctx context.Context, event shared.ReservationEvent) error {
	n.logger.InfoContext(ctx, "reservation event",
		"type", string(event.Type),
		"reservation_id", event.ReservationID,
		"requester_id", event.RequesterID,
		"actor_id", event.ActorID,
		"status", event.Status,
	)
	return nil
}
