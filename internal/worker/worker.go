package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aescanero/dago-node-render/internal/config"
	"github.com/aescanero/dago-node-render/internal/problem"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Renderer renders inline sources and located templates
type Renderer interface {
	Render(templateStr string, data interface{}) (string, error)
	RenderTemplate(id string, data interface{}) (string, error)
}

// Worker represents the render worker
type Worker struct {
	id            string
	config        *config.Config
	redisClient   *redis.Client
	renderer      Renderer
	logger        *zap.Logger
	ctx           context.Context
	cancel        context.CancelFunc
	done          chan struct{}
	streamKey     string
	consumerGroup string
	resultStream  string
}

// NewWorker creates a new worker
func NewWorker(
	cfg *config.Config,
	redisClient *redis.Client,
	renderer Renderer,
	logger *zap.Logger,
) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		id:            cfg.WorkerID,
		config:        cfg,
		redisClient:   redisClient,
		renderer:      renderer,
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
		streamKey:     cfg.StreamKey,
		consumerGroup: cfg.ConsumerGroup,
		resultStream:  cfg.ResultStream,
	}
}

// Start starts the worker
func (w *Worker) Start() error {
	w.logger.Info("starting render worker",
		zap.String("worker_id", w.id),
		zap.String("stream_key", w.streamKey),
		zap.String("consumer_group", w.consumerGroup),
	)

	// Create consumer group if it doesn't exist
	if err := w.ensureConsumerGroup(); err != nil {
		return fmt.Errorf("failed to ensure consumer group: %w", err)
	}

	// Start processing work
	go w.processWork()

	w.logger.Info("render worker started", zap.String("worker_id", w.id))
	return nil
}

// Stop stops the worker gracefully
func (w *Worker) Stop() error {
	w.logger.Info("stopping render worker", zap.String("worker_id", w.id))

	// Cancel context to stop work processing
	w.cancel()

	// Wait for the in-flight request to complete
	select {
	case <-w.done:
	case <-time.After(5 * time.Second):
		w.logger.Warn("render worker did not stop in time", zap.String("worker_id", w.id))
	}

	w.logger.Info("render worker stopped", zap.String("worker_id", w.id))
	return nil
}

// ensureConsumerGroup creates the consumer group if it doesn't exist
func (w *Worker) ensureConsumerGroup() error {
	// Try to create the group
	err := w.redisClient.XGroupCreateMkStream(w.ctx, w.streamKey, w.consumerGroup, "0").Err()
	if err != nil {
		// BUSYGROUP error means the group already exists, which is fine
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			w.logger.Debug("consumer group already exists",
				zap.String("group", w.consumerGroup),
			)
			return nil
		}
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	w.logger.Info("created consumer group",
		zap.String("group", w.consumerGroup),
		zap.String("stream", w.streamKey),
	)
	return nil
}

// processWork processes work from the Redis stream
func (w *Worker) processWork() {
	defer close(w.done)
	w.logger.Info("starting work processing loop")

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Info("work processing loop stopped")
			return
		default:
			// Read from stream
			streams, err := w.redisClient.XReadGroup(w.ctx, &redis.XReadGroupArgs{
				Group:    w.consumerGroup,
				Consumer: w.id,
				Streams:  []string{w.streamKey, ">"},
				Count:    1,
				Block:    w.config.BlockTime,
			}).Result()

			if err != nil {
				if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
					// No messages available, continue
					continue
				}
				w.logger.Error("failed to read from stream",
					zap.Error(err),
				)
				time.Sleep(time.Second)
				continue
			}

			// Process each message
			for _, stream := range streams {
				for _, message := range stream.Messages {
					w.handleMessage(message)
				}
			}
		}
	}
}

// handleMessage handles a single render request message
func (w *Worker) handleMessage(message redis.XMessage) {
	messageID := message.ID
	w.logger.Info("processing render request",
		zap.String("message_id", messageID),
	)

	// Parse the render request
	request, err := ParseRenderRequest(message.Values)
	if err != nil {
		w.logger.Error("failed to parse render request",
			zap.String("message_id", messageID),
			zap.Error(err),
		)
		w.acknowledgeMessage(messageID)
		return
	}

	// Render and publish
	result, err := w.render(request)
	if err == nil {
		err = w.publish(w.resultStream, result)
	}
	if err != nil {
		w.logger.Error("failed to process render request",
			zap.String("message_id", messageID),
			zap.String("request_id", request.RequestID),
			zap.String("code", string(problem.CodeOf(err))),
			zap.Error(err),
		)
		// Publish error event
		if pubErr := w.publish(w.resultStream+".errors", NewErrorEvent(request, err)); pubErr != nil {
			w.logger.Error("failed to publish error event", zap.Error(pubErr))
		}
	}

	// Acknowledge the message
	w.acknowledgeMessage(messageID)
}

// RenderRequest represents a render work request. Exactly one of Template
// and Source is set.
type RenderRequest struct {
	RequestID string                 `json:"request_id"`
	Template  string                 `json:"template,omitempty"`
	Source    string                 `json:"source,omitempty"`
	Data      map[string]interface{} `json:"data"`
}

// RenderResult is published for every rendered request
type RenderResult struct {
	RequestID string    `json:"request_id"`
	Template  string    `json:"template,omitempty"`
	Output    string    `json:"output"`
	WorkerID  string    `json:"worker_id"`
	Duration  int64     `json:"duration_ms"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorEvent is published for every failed request
type ErrorEvent struct {
	RequestID string    `json:"request_id"`
	Template  string    `json:"template,omitempty"`
	Code      string    `json:"code,omitempty"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// ParseRenderRequest parses a render request from a Redis message
func ParseRenderRequest(values map[string]interface{}) (*RenderRequest, error) {
	dataStr, ok := values["data"].(string)
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'data' field")
	}

	var request RenderRequest
	if err := json.Unmarshal([]byte(dataStr), &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal render request: %w", err)
	}

	if (request.Template == "") == (request.Source == "") {
		return nil, fmt.Errorf("exactly one of 'template' and 'source' is required")
	}

	if request.RequestID == "" {
		request.RequestID = uuid.NewString()
	}

	return &request, nil
}

// NewErrorEvent describes a failed request
func NewErrorEvent(request *RenderRequest, err error) *ErrorEvent {
	return &ErrorEvent{
		RequestID: request.RequestID,
		Template:  request.Template,
		Code:      string(problem.CodeOf(err)),
		Error:     err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

// render renders a request
func (w *Worker) render(request *RenderRequest) (*RenderResult, error) {
	return Render(w.renderer, w.id, request)
}

// Render renders request with renderer
func Render(renderer Renderer, workerID string, request *RenderRequest) (*RenderResult, error) {
	start := time.Now()

	var (
		output string
		err    error
	)
	if request.Template != "" {
		output, err = renderer.RenderTemplate(request.Template, request.Data)
	} else {
		output, err = renderer.Render(request.Source, request.Data)
	}
	if err != nil {
		return nil, fmt.Errorf("render failed: %w", err)
	}

	return &RenderResult{
		RequestID: request.RequestID,
		Template:  request.Template,
		Output:    output,
		WorkerID:  workerID,
		Duration:  time.Since(start).Milliseconds(),
		Timestamp: time.Now().UTC(),
	}, nil
}

// publish publishes an event to stream
func (w *Worker) publish(stream string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = w.redisClient.XAdd(w.ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()

	if err != nil {
		return fmt.Errorf("failed to publish to stream: %w", err)
	}

	w.logger.Debug("published event", zap.String("stream", stream))
	return nil
}

// acknowledgeMessage acknowledges a message from the stream
func (w *Worker) acknowledgeMessage(messageID string) {
	err := w.redisClient.XAck(w.ctx, w.streamKey, w.consumerGroup, messageID).Err()
	if err != nil {
		w.logger.Error("failed to acknowledge message",
			zap.String("message_id", messageID),
			zap.Error(err),
		)
	}
}
