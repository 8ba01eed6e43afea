package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/galib9690/camels-attrs/internal/attrs"
)

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	job              *ExtractionJob
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	Job              *ExtractionJob
	Logger           zerolog.Logger
}

// ExtractionMessage represents an extraction job message.
type ExtractionMessage struct {
	JobType      string   `json:"job_type"`
	GaugeIDs     []string `json:"gauge_ids,omitempty"`
	ClimateStart string   `json:"climate_start,omitempty"`
	ClimateEnd   string   `json:"climate_end,omitempty"`
	HydroStart   string   `json:"hydro_start,omitempty"`
	HydroEnd     string   `json:"hydro_end,omitempty"`
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// A batch of gauges can take a while against the slower upstream
	// services, so hold leases long and process few messages at once.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 2
	subscriber.ReceiveSettings.MaxExtension = 30 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		job:              cfg.Job,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	if err := h.process(ctx, logger, msg.Data); err != nil {
		logger.Error().Err(err).Msg("job failed")
		msg.Nack()
		return
	}

	logger.Info().
		Dur("duration", time.Since(startTime)).
		Msg("message handled")

	msg.Ack()
}

// process runs a message body through the job dispatch. A nil return means
// the message is done (succeeded or permanently unprocessable) and should be
// acked; an error means it should be nacked for redelivery.
func (h *PubSubHandler) process(ctx context.Context, logger zerolog.Logger, data []byte) error {
	var extractMsg ExtractionMessage
	if err := json.Unmarshal(data, &extractMsg); err != nil {
		// A body that never parsed won't parse on redelivery either.
		logger.Error().Err(err).Msg("failed to parse message, dropping")
		return nil
	}

	switch extractMsg.JobType {
	case "extract":
		return h.handleExtract(ctx, logger, extractMsg)
	default:
		logger.Warn().Str("job_type", extractMsg.JobType).Msg("unknown job type, dropping")
		return nil
	}
}

func (h *PubSubHandler) handleExtract(ctx context.Context, logger zerolog.Logger, msg ExtractionMessage) error {
	climate, err := messagePeriod(msg.ClimateStart, msg.ClimateEnd)
	if err != nil {
		// Malformed periods can never succeed on redelivery.
		logger.Error().Err(err).Msg("invalid climate period, dropping job")
		return nil
	}
	hydro, err := messagePeriod(msg.HydroStart, msg.HydroEnd)
	if err != nil {
		logger.Error().Err(err).Msg("invalid hydro period, dropping job")
		return nil
	}

	logger.Info().
		Int("gauges", len(msg.GaugeIDs)).
		Msg("starting extraction batch")

	result, err := h.job.Run(ctx, msg.GaugeIDs, climate, hydro)
	if err != nil {
		return err
	}

	logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("extraction batch completed")

	return nil
}

func messagePeriod(start, end string) (attrs.Period, error) {
	if start == "" && end == "" {
		return attrs.Period{}, nil
	}
	return attrs.ParsePeriod(start, end)
}
