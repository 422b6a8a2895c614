package handler

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tapedeck/api/internal/model"
	"github.com/tapedeck/api/internal/service"
	"github.com/tapedeck/api/pkg/response"
)

type ProcessHandler struct {
	service        *service.ProcessService
	validator      *validator.Validate
	maxUploadBytes int64
}

func NewProcessHandler(svc *service.ProcessService, v *validator.Validate, maxUploadMB int) *ProcessHandler {
	return &ProcessHandler{
		service:        svc,
		validator:      v,
		maxUploadBytes: int64(maxUploadMB) * 1024 * 1024,
	}
}

// Submit handles POST /api/process
func (h *ProcessHandler) Submit(c *fiber.Ctx) error {
	file, err := c.FormFile("audio")
	if err != nil {
		return response.ValidationError(c, "Audio file is required", nil)
	}

	if file.Size > h.maxUploadBytes {
		return response.ValidationError(c, "File size exceeds upload limit", map[string]interface{}{
			"maxSize":  h.maxUploadBytes,
			"fileSize": file.Size,
		})
	}

	upload := model.ProcessSubmitUpload{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
	}
	if err := h.validator.Struct(upload); err != nil {
		return response.ValidationError(c, "Invalid upload. Supported types: WAV, MP3, OGG", map[string]interface{}{
			"contentType": upload.ContentType,
		})
	}

	f, err := file.Open()
	if err != nil {
		return response.ServiceError(c, "Failed to open file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return response.ServiceError(c, "Failed to read file")
	}

	result, err := h.service.SubmitTask(c.Context(), data)
	if err != nil {
		if errors.Is(err, service.ErrDecode) {
			return response.ValidationError(c, err.Error(), nil)
		}
		return response.ServiceError(c, err.Error())
	}

	return response.Accepted(c, result)
}

// Status handles GET /api/process/status/:taskId/:style
func (h *ProcessHandler) Status(c *fiber.Ctx) error {
	q := model.JobQuery{TaskID: c.Params("taskId"), Style: c.Params("style")}
	if err := h.validator.Struct(q); err != nil {
		return response.ValidationError(c, "Task ID and style are required", nil)
	}

	result, err := h.service.GetStatus(c.Context(), q.TaskID, q.Style)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return response.NotFound(c, "Job not found")
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, result)
}

// Result handles GET /api/process/result/:taskId/:style
func (h *ProcessHandler) Result(c *fiber.Ctx) error {
	q := model.JobQuery{TaskID: c.Params("taskId"), Style: c.Params("style")}
	if err := h.validator.Struct(q); err != nil {
		return response.ValidationError(c, "Task ID and style are required", nil)
	}

	data, err := h.service.FetchResult(c.Context(), q.TaskID, q.Style)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return response.NotFound(c, "Job not found")
		case errors.Is(err, service.ErrNotReady):
			return response.NotReady(c, "Job not completed yet")
		case errors.Is(err, service.ErrJobFailed):
			return response.JobFailed(c, err.Error())
		default:
			return response.ServiceError(c, err.Error())
		}
	}

	c.Set(fiber.HeaderContentType, "audio/wav")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%s_%s.wav`, q.TaskID, q.Style))
	return c.Send(data)
}

// Styles handles GET /api/styles
func (h *ProcessHandler) Styles(c *fiber.Ctx) error {
	return response.OK(c, model.StylesResponse{Styles: h.service.StyleInfos()})
}
