package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/services"
)

const analyzeFailedMessage = "Failed to analyze the resumes. Please try again."

type AnalyzeHandler struct {
	matcher     services.MatcherService
	renderer    *services.ResultRenderer
	maxFileSize int64
	logger      *zap.Logger
}

func NewAnalyzeHandler(
	matcher services.MatcherService,
	renderer *services.ResultRenderer,
	maxFileSize int64,
	logger *zap.Logger,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		matcher:     matcher,
		renderer:    renderer,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// HandleForm handles GET /
func (h *AnalyzeHandler) HandleForm(c *fiber.Ctx) error {
	return renderPage(c, fiber.StatusOK, pageData{})
}

// HandleAnalyze handles POST /analyze/
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	prompt := c.FormValue("prompt")
	if strings.TrimSpace(prompt) == "" {
		return h.fail(c, fiber.StatusBadRequest, prompt, "prompt is required")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return h.fail(c, fiber.StatusBadRequest, prompt, "failed to parse multipart form")
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return h.fail(c, fiber.StatusBadRequest, prompt, "at least one resume file is required")
	}

	uploads := make([]models.UploadedFile, 0, len(headers))
	for _, header := range headers {
		if header.Size > h.maxFileSize {
			return h.fail(c, fiber.StatusBadRequest, prompt,
				fmt.Sprintf("File %q too large. Max size: %d bytes", header.Filename, h.maxFileSize))
		}

		content, err := readUpload(header)
		if err != nil {
			h.logger.Error("failed to read upload", zap.String("filename", header.Filename), zap.Error(err))
			return h.fail(c, fiber.StatusBadRequest, prompt, "failed to read uploaded file")
		}

		uploads = append(uploads, models.UploadedFile{
			Filename: header.Filename,
			Content:  content,
		})
	}

	analysis, err := h.matcher.Analyze(c.UserContext(), prompt, uploads)
	if err != nil {
		// Details are logged by the matcher; the caller only learns that the batch failed.
		return h.fail(c, fiber.StatusInternalServerError, prompt, analyzeFailedMessage)
	}

	if wantsJSON(c) {
		resp := models.AnalyzeResponse{
			TaskID:  analysis.TaskID.String(),
			Results: make([]models.CandidateResult, 0, len(analysis.Results)),
		}
		for _, r := range analysis.Results {
			resp.Results = append(resp.Results, models.CandidateResult{Candidate: r.Ordinal, Result: r.Text})
		}
		return c.JSON(resp)
	}

	rendered, err := h.renderer.Render(analysis.Results)
	if err != nil {
		return err
	}

	return renderPage(c, fiber.StatusOK, pageData{Prompt: prompt, Results: rendered})
}

func (h *AnalyzeHandler) fail(c *fiber.Ctx, status int, prompt, message string) error {
	if wantsJSON(c) {
		return c.Status(status).JSON(models.ErrorResponse{Detail: message})
	}
	return renderPage(c, status, pageData{Prompt: prompt, Error: message})
}

func wantsJSON(c *fiber.Ctx) bool {
	return c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	return io.ReadAll(src)
}
