package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/tapedeck/api/internal/client"
	"github.com/tapedeck/api/internal/codec"
	"github.com/tapedeck/api/internal/config"
	"github.com/tapedeck/api/internal/dsp"
	"github.com/tapedeck/api/internal/model"
	"github.com/tapedeck/api/internal/store"
)

const TaskTypeStyle = "style:process"

// TaskEnqueuer is the slice of asynq.Client the service needs. Tests
// substitute an inline executor.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ProcessService owns the task/job lifecycle: one upload fans out into
// one job per known style, each processed independently.
type ProcessService struct {
	store    store.JobStore
	enqueuer TaskEnqueuer
	buffers  *BufferCache
	storage  client.StorageClient // nil means results are served from the job store
	cfg      *config.Config
}

func NewProcessService(jobStore store.JobStore, enqueuer TaskEnqueuer, buffers *BufferCache, storage client.StorageClient, cfg *config.Config) *ProcessService {
	return &ProcessService{
		store:    jobStore,
		enqueuer: enqueuer,
		buffers:  buffers,
		storage:  storage,
		cfg:      cfg,
	}
}

// SubmitTask decodes the upload once and creates one pending job per
// known style. Decode failure aborts before any job exists and is the
// caller's single top-level error. Returns immediately; processing is
// asynchronous.
func (s *ProcessService) SubmitTask(ctx context.Context, data []byte) (*model.ProcessSubmitResponse, error) {
	buf, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if max := s.cfg.Audio.MaxDurationSeconds; max > 0 && buf.Duration() > float64(max) {
		return nil, fmt.Errorf("%w: clip longer than %ds", ErrDecode, max)
	}

	taskID := uuid.New().String()
	now := time.Now()

	if err := s.store.SaveSource(ctx, taskID, data); err != nil {
		return nil, fmt.Errorf("failed to save source: %w", err)
	}
	s.buffers.Put(taskID, buf)

	// Create every job record before the first enqueue so a poller can
	// never observe a partially created task.
	for _, style := range model.ValidStyles {
		job := &model.Job{
			TaskID:     taskID,
			Style:      style,
			Status:     model.JobStatusPending,
			SampleRate: buf.SampleRate,
			CreatedAt:  now,
		}
		if err := s.store.SaveJob(ctx, job); err != nil {
			return nil, fmt.Errorf("failed to save job: %w", err)
		}
	}

	for _, style := range model.ValidStyles {
		task, err := newStyleTask(taskID, style)
		if err != nil {
			s.markFailed(ctx, taskID, style, "failed to build task payload")
			continue
		}
		_, err = s.enqueuer.Enqueue(task,
			asynq.Queue("style"),
			asynq.MaxRetry(3),
			asynq.Retention(s.retention()),
		)
		if err != nil {
			// Sibling styles keep going; only this job fails.
			log.Printf("enqueue %s/%s failed: %v", taskID, style, err)
			s.markFailed(ctx, taskID, style, "failed to enqueue job")
		}
	}

	return &model.ProcessSubmitResponse{
		TaskID:    taskID,
		Styles:    model.ValidStyles,
		Status:    model.JobStatusPending,
		CreatedAt: now,
	}, nil
}

// GetStatus is a pure read of one (taskId, style) job. Unknown style
// names fail with ErrNotFound before the store is consulted.
func (s *ProcessService) GetStatus(ctx context.Context, taskID, styleName string) (*model.ProcessStatusResponse, error) {
	style, ok := model.ParseStyle(styleName)
	if !ok {
		return nil, ErrNotFound
	}

	job, err := s.store.GetJob(ctx, taskID, style)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	resp := &model.ProcessStatusResponse{
		TaskID:      job.TaskID,
		Style:       job.Style,
		Status:      job.Status,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		CompletedAt: job.CompletedAt,
	}
	if job.Status == model.JobStatusComplete {
		resp.ResultURL = s.resultURL(job)
	}
	return resp, nil
}

// FetchResult returns the encoded output bytes of a complete job.
func (s *ProcessService) FetchResult(ctx context.Context, taskID, styleName string) ([]byte, error) {
	style, ok := model.ParseStyle(styleName)
	if !ok {
		return nil, ErrNotFound
	}

	job, err := s.store.GetJob(ctx, taskID, style)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	switch job.Status {
	case model.JobStatusComplete:
		data, err := s.store.GetResult(ctx, taskID, style)
		if err != nil {
			if err == store.ErrNotFound {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return data, nil
	case model.JobStatusFailed:
		if job.Error != nil {
			return nil, fmt.Errorf("%w: %s", ErrJobFailed, *job.Error)
		}
		return nil, ErrJobFailed
	default:
		return nil, ErrNotReady
	}
}

// StyleInfos lists the known styles with their preset parameters.
func (s *ProcessService) StyleInfos() []model.StyleInfo {
	infos := make([]model.StyleInfo, 0, len(model.ValidStyles))
	for _, style := range model.ValidStyles {
		preset := s.cfg.Styles[style]
		infos = append(infos, model.StyleInfo{
			Name:              style,
			TimeStretchFactor: preset.TimeStretchFactor,
			LofiAmount:        preset.LofiAmount,
			SwingAmount:       preset.SwingAmount,
		})
	}
	return infos
}

// Worker-side lifecycle. Status transitions are monotonic: once a job
// is terminal no call below moves it again.

// StartJob moves pending -> processing.
func (s *ProcessService) StartJob(ctx context.Context, taskID string, style model.Style) error {
	job, err := s.store.GetJob(ctx, taskID, style)
	if err != nil {
		return err
	}
	if job.Status.Terminal() {
		return fmt.Errorf("job %s already %s", job.Key(), job.Status)
	}
	now := time.Now()
	job.Status = model.JobStatusProcessing
	job.StartedAt = &now
	return s.store.SaveJob(ctx, job)
}

// CompleteJob stores the encoded result and moves the job to complete.
// When object storage is configured the bytes are also uploaded there
// and the job carries the public URL as its result locator.
func (s *ProcessService) CompleteJob(ctx context.Context, taskID string, style model.Style, encoded []byte) error {
	job, err := s.store.GetJob(ctx, taskID, style)
	if err != nil {
		return err
	}
	if job.Status.Terminal() {
		return fmt.Errorf("job %s already %s", job.Key(), job.Status)
	}

	if err := s.store.SaveResult(ctx, taskID, style, encoded); err != nil {
		return err
	}

	job.ResultKey = fmt.Sprintf("results/%s/%s.wav", taskID, style)
	if s.storage != nil {
		url, err := s.storage.Upload(ctx, job.ResultKey, bytes.NewReader(encoded), "audio/wav")
		if err != nil {
			return fmt.Errorf("result upload: %w", err)
		}
		job.ResultURL = url
	}

	now := time.Now()
	job.Status = model.JobStatusComplete
	job.CompletedAt = &now
	return s.store.SaveJob(ctx, job)
}

// FailJob records a diagnostic and moves the job to failed. A job that
// already reached a terminal state is left untouched.
func (s *ProcessService) FailJob(ctx context.Context, taskID string, style model.Style, msg string) error {
	job, err := s.store.GetJob(ctx, taskID, style)
	if err != nil {
		return err
	}
	if job.Status.Terminal() {
		return nil
	}
	now := time.Now()
	job.Status = model.JobStatusFailed
	job.Error = &msg
	job.CompletedAt = &now
	return s.store.SaveJob(ctx, job)
}

// SourceBuffer returns the shared decoded input for a task. The cached
// buffer is read-only; on a cache miss (typically after a restart) the
// stored upload bytes are decoded again.
func (s *ProcessService) SourceBuffer(ctx context.Context, taskID string) (*dsp.SampleBuffer, error) {
	if buf, ok := s.buffers.Get(taskID); ok {
		return buf, nil
	}

	data, err := s.store.GetSource(ctx, taskID)
	if err != nil {
		return nil, err
	}
	buf, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	s.buffers.Put(taskID, buf)
	return buf, nil
}

// PresetFor resolves the configured preset for a style.
func (s *ProcessService) PresetFor(style model.Style) (dsp.StylePreset, error) {
	return s.cfg.PresetFor(style)
}

func (s *ProcessService) retention() time.Duration {
	return time.Duration(s.cfg.Audio.RetentionSeconds) * time.Second
}

func (s *ProcessService) resultURL(job *model.Job) string {
	if job.ResultURL != "" {
		return job.ResultURL
	}
	return fmt.Sprintf("/api/process/result/%s/%s", job.TaskID, job.Style)
}

func (s *ProcessService) markFailed(ctx context.Context, taskID string, style model.Style, msg string) {
	if err := s.FailJob(ctx, taskID, style, msg); err != nil {
		log.Printf("failed to mark job %s:%s as failed: %v", taskID, style, err)
	}
}

func newStyleTask(taskID string, style model.Style) (*asynq.Task, error) {
	payload, err := json.Marshal(model.StyleJobPayload{
		TaskID: taskID,
		Style:  style,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeStyle, payload), nil
}
