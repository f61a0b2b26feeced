package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	reviewmetrics "github.com/PuntoEntrega/PDE-sub002/internal/review/metrics"
	"github.com/PuntoEntrega/PDE-sub002/internal/review/models"
	dErrors "github.com/PuntoEntrega/PDE-sub002/pkg/domain-errors"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/sentinel"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/tx"
	"github.com/PuntoEntrega/PDE-sub002/pkg/requestcontext"
)

// EntityStore reads reviewable entities and applies status updates.
//
// Error contract: ErrNotFound when the entity does not exist; ErrConflict
// from UpdateStatus when the version check fails (lost update detected).
type EntityStore interface {
	Find(ctx context.Context, kind models.Kind, entityID uuid.UUID) (*models.Entity, error)
	UpdateStatus(ctx context.Context, kind models.Kind, entityID uuid.UUID, to models.Status, expectedVersion int64, now time.Time) error
}

// HistoryStore appends and lists immutable status change records. Discard
// removes a record whose transition failed to commit: a real transaction
// makes it redundant, but the in-memory stores rely on it to keep the
// chain free of records for transitions that never happened.
type HistoryStore interface {
	Append(ctx context.Context, change models.StatusChange) error
	Discard(ctx context.Context, change models.StatusChange) error
	ListByEntity(ctx context.Context, kind models.Kind, entityID uuid.UUID) ([]models.StatusChange, error)
}

// Notifier receives transition events after commit. Implementations must
// be best-effort and non-blocking; the workflow never waits on delivery.
type Notifier interface {
	StatusChanged(evt models.TransitionEvent)
}

// Result reports the outcome of a workflow operation.
type Result struct {
	Entity    *models.Entity
	Unchanged bool
	Message   string
}

// Service is the status transition workflow. All status writes for
// reviewable entities go through here so the entity row and its history
// record always land in one transaction.
type Service struct {
	entities    EntityStore
	history     HistoryStore
	notifier    Notifier
	tx          tx.Runner
	transitions models.TransitionTable
	metrics     *reviewmetrics.Metrics
	logger      *slog.Logger
}

type serviceConfig struct {
	notifier    Notifier
	tx          tx.Runner
	transitions models.TransitionTable
	metrics     *reviewmetrics.Metrics
	logger      *slog.Logger
}

// Option configures optional service dependencies.
type Option func(*serviceConfig)

// WithNotifier sets the post-commit notification sink.
func WithNotifier(n Notifier) Option {
	return func(c *serviceConfig) { c.notifier = n }
}

// WithTx sets the transaction runner (SQL in production).
func WithTx(r tx.Runner) Option {
	return func(c *serviceConfig) { c.tx = r }
}

// WithTransitions overrides the legal-transition graph.
func WithTransitions(t models.TransitionTable) Option {
	return func(c *serviceConfig) { c.transitions = t }
}

// WithMetrics sets the workflow metrics.
func WithMetrics(m *reviewmetrics.Metrics) Option {
	return func(c *serviceConfig) { c.metrics = m }
}

// WithLogger sets the workflow logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *serviceConfig) { c.logger = l }
}

// New constructs the workflow service.
func New(entities EntityStore, history HistoryStore, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.tx == nil {
		cfg.tx = tx.NopRunner{}
	}
	if cfg.transitions == nil {
		cfg.transitions = models.DefaultTransitions()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &Service{
		entities:    entities,
		history:     history,
		notifier:    cfg.notifier,
		tx:          cfg.tx,
		transitions: cfg.transitions,
		metrics:     cfg.metrics,
		logger:      cfg.logger,
	}
}

// ChangeStatus validates and applies a status transition. The entity row
// update and the history append are one transaction: if either fails,
// neither is visible. Notification happens after commit and never rolls
// the transition back.
func (s *Service) ChangeStatus(ctx context.Context, kind models.Kind, entityID uuid.UUID, rawStatus, reason string) (*Result, error) {
	start := time.Now()

	requested, err := models.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	result, err := s.transition(ctx, kind, entityID, requested, reason, false)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ObserveTransition(start)
	}
	return result, nil
}

// SubmitForReview moves an entity into under_review. Submitting an entity
// already under review is a success with no new history record.
func (s *Service) SubmitForReview(ctx context.Context, kind models.Kind, entityID uuid.UUID, reason string) (*Result, error) {
	return s.transition(ctx, kind, entityID, models.StatusUnderReview, reason, true)
}

// GetHistory returns the entity's status change chain, oldest first.
func (s *Service) GetHistory(ctx context.Context, kind models.Kind, entityID uuid.UUID) ([]models.StatusChange, error) {
	if !kind.IsValid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "unknown entity kind")
	}
	if _, err := s.entities.Find(ctx, kind, entityID); err != nil {
		return nil, translateStoreErr(err, kind)
	}
	changes, err := s.history.ListByEntity(ctx, kind, entityID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load status history")
	}
	return changes, nil
}

func (s *Service) transition(ctx context.Context, kind models.Kind, entityID uuid.UUID, requested models.Status, reason string, idempotent bool) (*Result, error) {
	if !kind.IsValid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "unknown entity kind")
	}
	if entityID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "entity id is required")
	}

	actor, ok := requestcontext.ActorFrom(ctx)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	entity, err := s.entities.Find(ctx, kind, entityID)
	if err != nil {
		return nil, translateStoreErr(err, kind)
	}

	if entity.Status == requested {
		if idempotent && requested == models.StatusUnderReview {
			if s.metrics != nil {
				s.metrics.IncrementIdempotentSubmit()
			}
			return &Result{Entity: entity, Unchanged: true, Message: "already under review"}, nil
		}
		return nil, dErrors.New(dErrors.CodeConflict, "entity is already "+string(requested))
	}

	if !s.transitions.CanTransition(entity.Status, requested) {
		return nil, dErrors.New(dErrors.CodeConflict,
			"cannot transition from "+string(entity.Status)+" to "+string(requested))
	}

	now := requestcontext.Now(ctx)
	change := models.StatusChange{
		EntityKind:     kind,
		EntityID:       entityID,
		PreviousStatus: entity.Status,
		NewStatus:      requested,
		Reason:         reason,
		ActorID:        actor.AccountID,
		ActorDevice:    requestcontext.DeviceSummary(ctx),
		ChangedAt:      now,
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.history.Append(txCtx, change); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append status history")
		}
		if err := s.entities.UpdateStatus(txCtx, kind, entityID, requested, entity.Version, now); err != nil {
			if discardErr := s.history.Discard(txCtx, change); discardErr != nil {
				s.logger.ErrorContext(ctx, "failed to discard history for failed transition",
					"request_id", requestcontext.RequestID(ctx),
					"entity_kind", kind,
					"entity_id", entityID.String(),
					"error", discardErr,
				)
			}
			return translateStoreErr(err, kind)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated := *entity
	updated.Status = requested
	updated.Version = entity.Version + 1
	updated.UpdatedAt = now

	if s.metrics != nil {
		s.metrics.IncrementTransition(string(kind), string(requested))
	}

	s.logger.InfoContext(ctx, "status transition committed",
		"request_id", requestcontext.RequestID(ctx),
		"entity_kind", kind,
		"entity_id", entityID.String(),
		"previous_status", change.PreviousStatus,
		"new_status", change.NewStatus,
		"actor_id", actor.AccountID.String(),
	)

	if s.notifier != nil {
		s.notifier.StatusChanged(models.TransitionEvent{
			EntityKind:     kind,
			EntityID:       entityID,
			EntityName:     entity.DisplayName,
			PreviousStatus: change.PreviousStatus,
			NewStatus:      requested,
			Reason:         reason,
			Contact:        entity.Contact,
		})
	}

	return &Result{Entity: &updated, Message: "status updated to " + string(requested)}, nil
}

func translateStoreErr(err error, kind models.Kind) error {
	switch {
	case dErrors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, string(kind)+" not found")
	case dErrors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "status changed concurrently, retry")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "persistence failure")
	}
}
