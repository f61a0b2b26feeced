package notify

import (
	"context"
	"log/slog"

	"github.com/PuntoEntrega/PDE-sub002/internal/review/models"
)

const defaultQueueDepth = 256

// Queue decouples the status workflow from notification delivery. Enqueueing
// never blocks: when the buffer is full the event is dropped with a warning,
// keeping the transition commit path independent of delivery throughput.
type Queue struct {
	dispatcher *Dispatcher
	inbox      chan models.TransitionEvent
	logger     *slog.Logger
}

func NewQueue(dispatcher *Dispatcher, depth int, logger *slog.Logger) *Queue {
	if depth <= 0 {
		depth = defaultQueueDepth
	}
	return &Queue{
		dispatcher: dispatcher,
		inbox:      make(chan models.TransitionEvent, depth),
		logger:     logger,
	}
}

// StatusChanged enqueues a committed transition for delivery.
func (q *Queue) StatusChanged(evt models.TransitionEvent) {
	select {
	case q.inbox <- evt:
	default:
		q.logger.Warn("notification queue full, dropping event",
			"entity_kind", evt.EntityKind,
			"entity_id", evt.EntityID.String(),
			"new_status", evt.NewStatus,
		)
	}
}

// Run drains the queue until ctx is cancelled.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt := <-q.inbox:
			q.dispatcher.Dispatch(ctx, evt)
		}
	}
}
