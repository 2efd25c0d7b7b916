package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/profile-analyzer/internal/config"
	"alfredoptarigan/profile-analyzer/internal/metrics"
	"alfredoptarigan/profile-analyzer/internal/models"
	"alfredoptarigan/profile-analyzer/internal/pdftest"
	"alfredoptarigan/profile-analyzer/internal/resilience"
	"alfredoptarigan/profile-analyzer/internal/services"
)

const analysisJSON = `{
  "matchScore": 64,
  "matchExplanation": "Solid engineering depth, thin on management.",
  "strengths": ["Go"],
  "skillGaps": ["People management"],
  "profileUpdates": [{"section": "About", "suggestion": "Lead with platform impact"}],
  "interviewPrep": [{"question": "How do you mentor?", "howToAnswer": "Give two concrete examples"}],
  "additionalTips": []
}`

type countingCompleter struct {
	calls   atomic.Int32
	content string
	err     error
}

func (c *countingCompleter) Complete(ctx context.Context, req services.CompletionRequest) (string, error) {
	c.calls.Add(1)
	return c.content, c.err
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Env: "test", BodyLimit: 10 * 1024 * 1024},
		LLM:    config.LLMConfig{Provider: config.ProviderOpenAI, Temperature: 0.7, Timeout: time.Second},
	}
}

func newTestApp(t *testing.T, completer services.Completer) (*fiber.App, *metrics.Metrics) {
	t.Helper()
	return newTestAppWithContext(t, context.Background(), completer)
}

func newTestAppWithContext(t *testing.T, ctx context.Context, completer services.Completer) (*fiber.App, *metrics.Metrics) {
	t.Helper()

	m := metrics.New("test")
	breaker := resilience.NewBreaker(resilience.Config{Timeout: time.Second}, nil)
	deps := &Dependencies{
		PDFParser: services.NewPDFParserService(nil, m),
		Validator: services.NewRequestValidator(),
		Gateway:   services.NewAnalysisGateway(completer, breaker, services.MustNewResponseDecoder(), services.WithMetrics(m)),
		Metrics:   m,
	}
	return NewApp(ctx, testConfig(), deps), m
}

func uploadRequest(t *testing.T, field, contentType string, data []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename="profile.pdf"`, field))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/parse-pdf", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func analyzeRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestParsePDF(t *testing.T) {
	app, _ := newTestApp(t, &countingCompleter{})

	tests := []struct {
		name       string
		req        func(t *testing.T) *http.Request
		wantStatus int
		wantError  string
	}{
		{
			name: "no file field",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "attachment", "application/pdf", pdftest.Build("hello"))
			},
			wantStatus: fiber.StatusBadRequest,
			wantError:  "No file provided",
		},
		{
			name: "png upload",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "file", "image/png", []byte("\x89PNG\r\n\x1a\n"))
			},
			wantStatus: fiber.StatusBadRequest,
			wantError:  "Only PDF files are accepted",
		},
		{
			name: "six mebibyte pdf",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "file", "application/pdf", bytes.Repeat([]byte{'A'}, 6*1024*1024))
			},
			wantStatus: fiber.StatusBadRequest,
			wantError:  "File size must be under 5MB",
		},
		{
			name: "blank pdf",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "file", "application/pdf", pdftest.Build(""))
			},
			wantStatus: fiber.StatusUnprocessableEntity,
			wantError:  "Could not extract text from PDF",
		},
		{
			name: "corrupt pdf",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "file", "application/pdf", []byte("%PDF-1.4 garbage"))
			},
			wantStatus: fiber.StatusInternalServerError,
			wantError:  "Failed to parse PDF file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(tt.req(t), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body models.ErrorResponse
			decodeBody(t, resp, &body)
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}

func TestParsePDFReturnsText(t *testing.T) {
	app, _ := newTestApp(t, &countingCompleter{})

	resp, err := app.Test(uploadRequest(t, "file", "application/pdf", pdftest.Build("Jane Doe", "Staff Engineer")), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body models.ParsePDFResponse
	decodeBody(t, resp, &body)
	assert.Contains(t, body.Text, "Jane Doe")
	assert.Contains(t, body.Text, "Staff Engineer")
	assert.Equal(t, strings.TrimSpace(body.Text), body.Text)
}

func TestAnalyzeValidationNeverCallsCompleter(t *testing.T) {
	completer := &countingCompleter{content: analysisJSON}
	app, _ := newTestApp(t, completer)

	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{"invalid json", `{"profileText": `, "Invalid request payload"},
		{"empty profile", `{"profileText": "", "jobDescription": "Staff Engineer"}`, "Profile text is required"},
		{"whitespace profile", `{"profileText": "  \n ", "jobDescription": "Staff Engineer"}`, "Profile text is required"},
		{"missing job description", `{"profileText": "Go engineer"}`, "Job description is required"},
		{"both blank", `{"profileText": " ", "jobDescription": " "}`, "Profile text is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(analyzeRequest(tt.body), -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			var body models.ErrorResponse
			decodeBody(t, resp, &body)
			assert.Equal(t, tt.wantError, body.Error)
		})
	}

	assert.Equal(t, int32(0), completer.calls.Load())
}

func TestAnalyzeGatewayFailuresAreGeneric500(t *testing.T) {
	tests := map[string]*countingCompleter{
		"completion error": {err: fmt.Errorf("401 unauthorized")},
		"empty response":   {content: ""},
		"malformed":        {content: "not json at all"},
	}

	for name, completer := range tests {
		t.Run(name, func(t *testing.T) {
			app, _ := newTestApp(t, completer)

			resp, err := app.Test(analyzeRequest(`{"profileText": "Go engineer", "jobDescription": "Staff Engineer"}`), -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

			var body models.ErrorResponse
			decodeBody(t, resp, &body)
			assert.Equal(t, "Failed to analyze profile. Please check your OpenAI API key.", body.Error)
			assert.Equal(t, int32(1), completer.calls.Load())
		})
	}
}

func TestAnalyzeReturnsResult(t *testing.T) {
	completer := &countingCompleter{content: analysisJSON}
	app, _ := newTestApp(t, completer)

	resp, err := app.Test(analyzeRequest(`{"profileText": "Go engineer", "jobDescription": "Staff Engineer"}`), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body models.AnalyzeResponse
	decodeBody(t, resp, &body)
	require.NotNil(t, body.Result)
	assert.Equal(t, 64, body.Result.MatchScore)
	assert.Equal(t, []string{"People management"}, body.Result.SkillGaps)
	assert.Nil(t, body.Result.CompanyAnalysis)
	assert.Equal(t, int32(1), completer.calls.Load())
}

// contextCompleter reports the error of the context it was called with.
type contextCompleter struct {
	seen error
}

func (c *contextCompleter) Complete(ctx context.Context, req services.CompletionRequest) (string, error) {
	c.seen = ctx.Err()
	return "", ctx.Err()
}

func TestAnalyzeCallsAreCancelledOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	completer := &contextCompleter{}
	app, _ := newTestAppWithContext(t, ctx, completer)

	cancel()

	resp, err := app.Test(analyzeRequest(`{"profileText": "Go engineer", "jobDescription": "Staff Engineer"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.ErrorIs(t, completer.seen, context.Canceled)
}

func TestParsePDFWithoutMultipartBody(t *testing.T) {
	app, _ := newTestApp(t, &countingCompleter{})

	req := httptest.NewRequest(http.MethodPost, "/api/parse-pdf", strings.NewReader(`{"file": "profile.pdf"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body models.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "No file provided", body.Error)
}

func TestHealthAndInfo(t *testing.T) {
	app, _ := newTestApp(t, &countingCompleter{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	var health map[string]any
	decodeBody(t, resp, &health)
	assert.Equal(t, "healthy", health["status"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	var info map[string]any
	decodeBody(t, resp, &info)
	assert.Equal(t, AppName, info["message"])
}

func TestMetricsEndpointExposesRequestCounters(t *testing.T) {
	app, _ := newTestApp(t, &countingCompleter{})

	_, err := app.Test(uploadRequest(t, "file", "image/png", []byte("png")), -1)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "profile_analyzer_http_requests_total")
	assert.Contains(t, string(raw), `outcome="unsupported_media_type"`)
}

func TestUnknownRouteUsesErrorHandler(t *testing.T) {
	app, _ := newTestApp(t, &countingCompleter{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/unknown", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Equal(t, float64(fiber.StatusNotFound), body["code"])
	assert.NotEmpty(t, body["error"])
}
