package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/hibiken/asynq"

	"github.com/tapedeck/api/internal/codec"
	"github.com/tapedeck/api/internal/dsp"
	"github.com/tapedeck/api/internal/model"
	"github.com/tapedeck/api/internal/service"
	"github.com/tapedeck/api/internal/websocket"
)

// StyleWorker renders one style variant per task. Each invocation is
// independent: a failure here never touches sibling style jobs of the
// same task.
type StyleWorker struct {
	service *service.ProcessService
	hub     *websocket.Hub
}

// NewStyleWorker creates a new style worker
func NewStyleWorker(svc *service.ProcessService, hub *websocket.Hub) *StyleWorker {
	return &StyleWorker{
		service: svc,
		hub:     hub,
	}
}

// ProcessTask handles one (taskId, style) job: fetch the shared
// decoded buffer, run the effect chain, encode and store the result.
func (w *StyleWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.StyleJobPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %v: %w", err, asynq.SkipRetry)
	}

	taskID, style := payload.TaskID, payload.Style
	log.Printf("Starting style job: %s/%s", taskID, style)

	if err := w.service.StartJob(ctx, taskID, style); err != nil {
		// Already terminal (e.g. a retry of a job another attempt
		// finished) or the record expired. Nothing left to do.
		return fmt.Errorf("start job: %v: %w", err, asynq.SkipRetry)
	}
	w.hub.BroadcastStatus(taskID, style, model.JobStatusProcessing)

	buf, err := w.service.SourceBuffer(ctx, taskID)
	if err != nil {
		return w.fail(ctx, taskID, style, "source audio unavailable", err)
	}

	preset, err := w.service.PresetFor(style)
	if err != nil {
		return w.fail(ctx, taskID, style, "no preset for style", err)
	}

	// Cancellation is cooperative and only checked between stages,
	// never inside a sample loop.
	if err := ctx.Err(); err != nil {
		log.Printf("Style job %s/%s cancelled", taskID, style)
		return err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	out, err := dsp.ApplyStyle(buf, preset, rng)
	if err != nil {
		return w.fail(ctx, taskID, style, err.Error(), err)
	}

	if err := ctx.Err(); err != nil {
		log.Printf("Style job %s/%s cancelled", taskID, style)
		return err
	}

	encoded, err := codec.EncodeWAV(out)
	if err != nil {
		return w.fail(ctx, taskID, style, "failed to encode result", err)
	}

	if err := w.service.CompleteJob(ctx, taskID, style, encoded); err != nil {
		return w.fail(ctx, taskID, style, "failed to store result", err)
	}

	w.hub.BroadcastComplete(taskID, style, fmt.Sprintf("/api/process/result/%s/%s", taskID, style))
	log.Printf("Style job %s/%s completed (%d samples in, %d bytes out)", taskID, style, buf.Len(), len(encoded))
	return nil
}

func (w *StyleWorker) fail(ctx context.Context, taskID string, style model.Style, msg string, cause error) error {
	if err := w.service.FailJob(ctx, taskID, style, msg); err != nil {
		log.Printf("Failed to mark job %s/%s as failed: %v", taskID, style, err)
	}
	w.hub.BroadcastError(taskID, style, msg)
	return fmt.Errorf("%s: %v: %w", msg, cause, asynq.SkipRetry)
}
