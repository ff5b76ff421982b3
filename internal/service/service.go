// Package service implements the application rules on top of a pluggable
// storage backend: content constraints, idempotent graph and engagement
// mutations, counter maintenance, notification emission, and timeline
// assembly. Behavior is identical regardless of which backend is used.
package service

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/plantlife/plantlife-backend/internal/models"
	"github.com/plantlife/plantlife-backend/internal/moderation"
	"github.com/plantlife/plantlife-backend/internal/storage"
)

// Broadcaster is the push collaborator. Delivery is best-effort; Broadcast
// must never block on slow consumers.
type Broadcaster interface {
	Broadcast(eventType string, payload any)
}

// Options bound the configurable limits.
type Options struct {
	MaxPostLength        int
	TimelinePageSize     int
	NotificationPageSize int
	SearchPageSize       int
}

const (
	defaultMaxPostLength        = 500
	defaultTimelinePageSize     = 50
	maxTimelinePageSize         = 100
	defaultNotificationPageSize = 50
	defaultSearchPageSize       = 20
)

func (o Options) withDefaults() Options {
	if o.MaxPostLength <= 0 {
		o.MaxPostLength = defaultMaxPostLength
	}
	if o.TimelinePageSize <= 0 {
		o.TimelinePageSize = defaultTimelinePageSize
	}
	if o.TimelinePageSize > maxTimelinePageSize {
		o.TimelinePageSize = maxTimelinePageSize
	}
	if o.NotificationPageSize <= 0 {
		o.NotificationPageSize = defaultNotificationPageSize
	}
	if o.SearchPageSize <= 0 {
		o.SearchPageSize = defaultSearchPageSize
	}
	return o
}

// Service orchestrates the stores. The moderator is nil when the product
// skin runs without content moderation.
type Service struct {
	store         storage.Storage
	moderator     *moderation.Classifier
	broadcaster   Broadcaster
	log           *logrus.Logger
	opts          Options
	notifications prometheus.Counter
}

// New wires a service. broadcaster may be nil (no push channel).
func New(store storage.Storage, moderator *moderation.Classifier, broadcaster Broadcaster, log *logrus.Logger, opts Options) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{
		store:       store,
		moderator:   moderator,
		broadcaster: broadcaster,
		log:         log,
		opts:        opts.withDefaults(),
	}
}

// Store exposes the underlying storage for the auth handler's OTP bookkeeping.
func (s *Service) Store() storage.Storage { return s.store }

// SetNotificationCounter attaches a counter incremented for every
// notification written.
func (s *Service) SetNotificationCounter(c prometheus.Counter) { s.notifications = c }

// broadcast pushes an event if a push channel is attached.
func (s *Service) broadcast(eventType string, payload any) {
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(eventType, payload)
	}
}

// emitNotification writes a notification record. Emission is fire-and-forget:
// a failure is logged and swallowed, never propagated to the mutation that
// triggered it.
func (s *Service) emitNotification(ctx context.Context, n *models.Notification) {
	if err := s.store.CreateNotification(ctx, n); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"type":      n.Type,
			"recipient": n.UserID,
		}).Warn("Failed to write notification")
		return
	}
	if s.notifications != nil {
		s.notifications.Inc()
	}
}

// recomputeCounters re-derives a user's counters, logging instead of failing
// since the counters are recomputable on the next mutation anyway.
func (s *Service) recomputeCounters(ctx context.Context, userID string) {
	if err := s.store.RecomputeUserCounters(ctx, userID); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("Failed to recompute user counters")
	}
}
