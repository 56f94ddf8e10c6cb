package event

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/clinicore/backend/pkg/kafka"
	"github.com/clinicore/backend/pkg/logger"
)

// Kafka topics published by the clinic backend.
const (
	TopicUserRegistered  = "clinic.user.registered"
	TopicPasswordChanged = "clinic.user.password_changed"
	TopicPatientAdmitted = "clinic.patient.admitted"
)

const source = "clinic-backend"

// UserRegisteredPayload is the body of a user registration event.
type UserRegisteredPayload struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Provider string `json:"provider,omitempty"`
}

// PasswordChangedPayload is the body of a password change event. Downstream
// consumers use it to invalidate cached sessions.
type PasswordChangedPayload struct {
	UserID int64 `json:"user_id"`
}

// PatientAdmittedPayload is the body of a patient admission event.
type PatientAdmittedPayload struct {
	PatientID int64  `json:"patient_id"`
	Name      string `json:"patient_name"`
	CreatedBy int64  `json:"created_by"`
}

// Publisher emits domain events. Publishing is best effort: a broker outage
// must never fail the request that triggered the event.
type Publisher interface {
	UserRegistered(ctx context.Context, p UserRegisteredPayload)
	PasswordChanged(ctx context.Context, p PasswordChangedPayload)
	PatientAdmitted(ctx context.Context, p PatientAdmittedPayload)
}

// KafkaPublisher publishes domain events to Kafka.
type KafkaPublisher struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

// NewKafkaPublisher creates a Kafka-backed event publisher.
func NewKafkaPublisher(producer *kafka.Producer, l *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, logger: l}
}

func (p *KafkaPublisher) UserRegistered(ctx context.Context, payload UserRegisteredPayload) {
	p.publish(ctx, TopicUserRegistered, "user.registered", strconv.FormatInt(payload.UserID, 10), "user", payload)
}

func (p *KafkaPublisher) PasswordChanged(ctx context.Context, payload PasswordChangedPayload) {
	p.publish(ctx, TopicPasswordChanged, "user.password_changed", strconv.FormatInt(payload.UserID, 10), "user", payload)
}

func (p *KafkaPublisher) PatientAdmitted(ctx context.Context, payload PatientAdmittedPayload) {
	p.publish(ctx, TopicPatientAdmitted, "patient.admitted", strconv.FormatInt(payload.PatientID, 10), "patient", payload)
}

func (p *KafkaPublisher) publish(ctx context.Context, topic, eventType, aggregateID, aggregateType string, payload any) {
	evt, err := kafka.NewEvent(eventType, aggregateID, aggregateType, source, payload)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}

	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt.WithCorrelationID(cid)
	}

	// Errors are already logged by the producer; the request must not fail
	// because the broker is down.
	_ = p.producer.Publish(ctx, topic, evt)
}

// NoopPublisher drops all events. Used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) UserRegistered(context.Context, UserRegisteredPayload)   {}
func (NoopPublisher) PasswordChanged(context.Context, PasswordChangedPayload) {}
func (NoopPublisher) PatientAdmitted(context.Context, PatientAdmittedPayload) {}
