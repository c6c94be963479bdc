package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/services"
)

type stubMatcher struct {
	analysis *services.Analysis
	err      error
	panicMsg string

	jobDescription string
	files          []models.UploadedFile
}

func (s *stubMatcher) Analyze(_ context.Context, jobDescription string, files []models.UploadedFile) (*services.Analysis, error) {
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	s.jobDescription = jobDescription
	s.files = files
	return s.analysis, s.err
}

func newTestApp(matcher services.MatcherService, maxFileSize int64) *fiber.App {
	handler := NewAnalyzeHandler(matcher, services.NewResultRenderer(), maxFileSize, zap.NewNop())
	return NewApp(AppConfig{}, handler, zap.NewNop())
}

type formFile struct {
	name    string
	content string
}

func multipartRequest(t *testing.T, prompt string, files ...formFile) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if prompt != "" {
		if err := w.WriteField("prompt", prompt); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile("files", f.name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write([]byte(f.content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/analyze/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestHandleAnalyzeRendersResults(t *testing.T) {
	matcher := &stubMatcher{analysis: &services.Analysis{
		TaskID: uuid.New(),
		Results: []models.ScoringResult{
			{Ordinal: 1, Text: "**Score: 8/10** strong backend match"},
			{Ordinal: 2, Text: "Score: 4/10"},
		},
	}}
	app := newTestApp(matcher, 1<<20)

	req := multipartRequest(t, "Backend engineer",
		formFile{name: "a.pdf", content: "pdf bytes"},
		formFile{name: "b.docx", content: "docx bytes"},
	)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}

	body := readBody(t, resp)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	for _, want := range []string{
		"Candidate Rankings",
		"Candidate 1",
		"<strong>Score: 8/10</strong>",
		"Candidate 2",
		">Backend engineer</textarea>",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body:\n%s", want, body)
		}
	}
	if strings.Index(body, "Candidate 1") > strings.Index(body, "Candidate 2") {
		t.Fatalf("candidates rendered out of order")
	}

	if matcher.jobDescription != "Backend engineer" {
		t.Fatalf("unexpected job description: %q", matcher.jobDescription)
	}
	gotFiles := make([]string, 0, len(matcher.files))
	for _, f := range matcher.files {
		gotFiles = append(gotFiles, f.Filename+"="+string(f.Content))
	}
	if diff := cmp.Diff([]string{"a.pdf=pdf bytes", "b.docx=docx bytes"}, gotFiles); diff != "" {
		t.Fatalf("uploads mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleAnalyzeJSON(t *testing.T) {
	taskID := uuid.New()
	matcher := &stubMatcher{analysis: &services.Analysis{
		TaskID:  taskID,
		Results: []models.ScoringResult{{Ordinal: 1, Text: "Score: 8/10, strong backend match"}},
	}}
	app := newTestApp(matcher, 1<<20)

	req := multipartRequest(t, "jd", formFile{name: "a.pdf", content: "x"})
	req.Header.Set("Accept", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var got models.AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}

	want := models.AnalyzeResponse{
		TaskID:  taskID.String(),
		Results: []models.CandidateResult{{Candidate: 1, Result: "Score: 8/10, strong backend match"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleAnalyzeHidesFailureDetails(t *testing.T) {
	matcher := &stubMatcher{err: &services.ExtractionError{
		Filename: "secret.pdf",
		Err:      errors.New("xref table at offset 1234 is corrupt"),
	}}
	app := newTestApp(matcher, 1<<20)

	for _, accept := range []string{"", fiber.MIMEApplicationJSON} {
		req := multipartRequest(t, "jd", formFile{name: "secret.pdf", content: "x"})
		if accept != "" {
			req.Header.Set("Accept", accept)
		}

		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		body := readBody(t, resp)

		if resp.StatusCode != fiber.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", resp.StatusCode)
		}
		if !strings.Contains(body, analyzeFailedMessage) {
			t.Fatalf("expected generic message, got %s", body)
		}
		if strings.Contains(body, "xref") || strings.Contains(body, "secret.pdf") {
			t.Fatalf("internal details leaked: %s", body)
		}
	}
}

func TestHandleAnalyzeValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   func(t *testing.T) *http.Request
		wants string
	}{
		{
			name: "missing prompt",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "", formFile{name: "a.pdf", content: "x"})
			},
			wants: "prompt is required",
		},
		{
			name: "blank prompt",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "   ", formFile{name: "a.pdf", content: "x"})
			},
			wants: "prompt is required",
		},
		{
			name: "no files",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "jd")
			},
			wants: "at least one resume file is required",
		},
		{
			name: "file too large",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "jd", formFile{name: "big.pdf", content: strings.Repeat("x", 64)})
			},
			wants: "too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matcher := &stubMatcher{}
			app := newTestApp(matcher, 32)

			resp, err := app.Test(tt.req(t), -1)
			if err != nil {
				t.Fatal(err)
			}
			body := readBody(t, resp)

			if resp.StatusCode != fiber.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", resp.StatusCode, body)
			}
			if !strings.Contains(body, tt.wants) {
				t.Fatalf("expected %q in body: %s", tt.wants, body)
			}
			if matcher.files != nil {
				t.Fatalf("matcher should not be called on invalid input")
			}
		})
	}
}

func TestPanicReturnsGenericError(t *testing.T) {
	app := newTestApp(&stubMatcher{panicMsg: "nil pointer in parser"}, 1<<20)

	resp, err := app.Test(multipartRequest(t, "jd", formFile{name: "a.pdf", content: "x"}), -1)
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)

	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}

	var got models.ErrorResponse
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("expected JSON error body, got %s", body)
	}
	if got.Detail != GenericErrorMessage {
		t.Fatalf("unexpected detail: %q", got.Detail)
	}
}

func TestFormAndHealthRoutes(t *testing.T) {
	app := newTestApp(&stubMatcher{}, 1<<20)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != fiber.StatusOK || !strings.Contains(body, `name="files"`) {
		t.Fatalf("unexpected form response %d: %s", resp.StatusCode, body)
	}
	if strings.Contains(body, "Candidate Rankings") {
		t.Fatalf("empty form should not render results")
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected healthy, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected metrics endpoint, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
