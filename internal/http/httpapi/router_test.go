package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"visualizer/internal/http/handlers"
	"visualizer/internal/imagegen"
	"visualizer/internal/providers/replicate"
	"visualizer/internal/storage"
	"visualizer/internal/visualizer"
)

// fakeUpstream mimics the prediction and file endpoints. Vision jobs are
// created by version, edit jobs by model.
type fakeUpstream struct {
	t *testing.T

	mu          sync.Mutex
	editInput   map[string]any
	visionCalls int
	uploads     int
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/predictions":
		var req struct {
			Model   string         `json:"model"`
			Version string         `json:"version"`
			Input   map[string]any `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			f.t.Errorf("decode create: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		if req.Version != "" {
			f.visionCalls++
			_, _ = io.WriteString(w, `{"id":"vision1","status":"starting"}`)
			return
		}
		f.editInput = req.Input
		_, _ = io.WriteString(w, `{"id":"edit1","status":"starting"}`)
	case r.Method == http.MethodGet && r.URL.Path == "/predictions/vision1":
		_, _ = io.WriteString(w, `{"id":"vision1","status":"succeeded","output":"An angled kitchen with warm lighting and missing drawer fronts"}`)
	case r.Method == http.MethodGet && r.URL.Path == "/predictions/edit1":
		_, _ = io.WriteString(w, `{"id":"edit1","status":"succeeded","output":["http://x/after.jpg"]}`)
	case r.Method == http.MethodPost && r.URL.Path == "/files":
		f.mu.Lock()
		f.uploads++
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"urls":{"get":"https://files.example/kitchen.jpg"}}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestRouter(t *testing.T, token string) (http.Handler, *fakeUpstream) {
	t.Helper()
	return newTestRouterWith(t, token, RouterOptions{Logger: zerolog.Nop(), CORSAllowedOrigins: []string{"*"}, RateLimitPerMinute: 100})
}

func newTestRouterWith(t *testing.T, token string, opts RouterOptions) (http.Handler, *fakeUpstream) {
	t.Helper()
	fake := &fakeUpstream{t: t}
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)

	rep := replicate.NewClient(replicate.Options{APIToken: token, BaseURL: ts.URL})
	svc := visualizer.NewService(visualizer.Options{
		Analyzer:    imagegen.NewAnalyzer(imagegen.AnalyzerOptions{Client: rep, ModelVersion: "blip", PollInterval: time.Millisecond}),
		Transformer: imagegen.NewTransformer(imagegen.TransformerOptions{Client: rep, PollInterval: time.Millisecond, MaxAttempts: 5}),
		Uploader:    storage.NewRemoteUploader(rep, nil),
	})
	app := handlers.NewApp(svc, nil, nil)
	return NewRouter(app, opts), fake
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return out
}

func TestHealthAndRoot(t *testing.T) {
	router, _ := newTestRouter(t, "tok")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"status":"healthy","version":"1.0.0"}` {
		t.Fatalf("health = %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	body := decodeBody(t, rec)
	if body["status"] != "ok" || body["endpoints"] == nil {
		t.Fatalf("unexpected root payload: %v", body)
	}
}

func TestVisualizeEndToEnd(t *testing.T) {
	router, fake := newTestRouter(t, "tok")
	payload := `{"image_url":"http://src/kitchen.jpg","door_style":"shaker","color_hex":"#FFFFFF","color_name":"Classic White","hardware_style":"loft","hardware_finish":"satinnickel","name":"Dana","phone":"602"}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/visualize", strings.NewReader(payload)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true || body["final_url"] != "http://x/after.jpg" || body["original_url"] != "http://src/kitchen.jpg" {
		t.Fatalf("unexpected body: %v", body)
	}
	if body["analysis_source"] != "vision" {
		t.Fatalf("analysis_source = %v", body["analysis_source"])
	}
	analysis := body["analysis"].(map[string]any)
	if analysis["is_angled_photo"] != true || analysis["drawers_missing"] != true || analysis["lighting"] != "warm" {
		t.Fatalf("unexpected analysis: %v", analysis)
	}
	prompt, _ := body["prompt_used"].(string)
	if !strings.Contains(prompt, "Classic White (#FFFFFF)") {
		t.Fatalf("prompt missing color: %s", prompt)
	}
	if fake.editInput["prompt"] != prompt {
		t.Fatalf("edit model got a different prompt")
	}
	if imgs, _ := fake.editInput["image_input"].([]any); len(imgs) != 1 || imgs[0] != "http://src/kitchen.jpg" {
		t.Fatalf("unexpected image_input: %v", fake.editInput["image_input"])
	}
}

func TestVisualizeSkipAnalysis(t *testing.T) {
	router, fake := newTestRouter(t, "tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/visualize", strings.NewReader(`{"image_url":"http://src/k.jpg","skip_analysis":true}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if fake.visionCalls != 0 {
		t.Fatalf("vision model should not be called")
	}
	if body := decodeBody(t, rec); body["analysis_source"] != "skipped" {
		t.Fatalf("analysis_source = %v", body["analysis_source"])
	}
}

func TestVisualizeMissingTokenFailsFast(t *testing.T) {
	router, fake := newTestRouter(t, "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/visualize", strings.NewReader(`{"image_url":"http://src/k.jpg"}`)))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	errBody := decodeBody(t, rec)["error"].(map[string]any)
	if errBody["code"] != "not_configured" {
		t.Fatalf("unexpected error: %v", errBody)
	}
	if fake.visionCalls != 0 || fake.editInput != nil {
		t.Fatalf("no upstream call expected")
	}
}

func TestVisualizeRequiresImageURL(t *testing.T) {
	router, _ := newTestRouter(t, "tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/visualize", strings.NewReader(`{"door_style":"slab"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestVisualizeUpload(t *testing.T) {
	router, fake := newTestRouter(t, "tok")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "kitchen.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write([]byte("fake-jpeg"))
	for k, v := range map[string]string{
		"door_style":      "slab",
		"color_hex":       "#000000",
		"color_name":      "Black",
		"hardware_style":  "bar",
		"hardware_finish": "chrome",
		"name":            "Dana",
		"phone":           "602-555-0100",
		"skip_analysis":   "true",
	} {
		_ = mw.WriteField(k, v)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/visualize/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["original_url"] != "https://files.example/kitchen.jpg" {
		t.Fatalf("original_url = %v", body["original_url"])
	}
	lead := body["lead"].(map[string]any)
	if lead["name"] != "Dana" || lead["phone"] != "602-555-0100" {
		t.Fatalf("unexpected lead: %v", lead)
	}
	if fake.uploads != 1 {
		t.Fatalf("uploads = %d", fake.uploads)
	}
}

func TestPromptGenerate(t *testing.T) {
	router, fake := newTestRouter(t, "tok")
	payload := `{"image_description":"L-shaped kitchen","door_style":"shaker","color_hex":"#FFFFFF","color_name":"Classic White","hardware_style":"loft","hardware_finish":"satinnickel","is_angled_photo":true,"has_arched_doors":true,"lighting":"warm"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/prompt/generate", strings.NewReader(payload)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	prompt, _ := decodeBody(t, rec)["prompt"].(string)
	if !strings.HasSuffix(prompt, "L-shaped kitchen") || !strings.Contains(prompt, "Classic White (#FFFFFF)") {
		t.Fatalf("unexpected prompt: %s", prompt)
	}
	if fake.visionCalls != 0 || fake.editInput != nil {
		t.Fatalf("prompt generation must not call upstream")
	}
}

func TestAnalyzeFormAndJSON(t *testing.T) {
	router, _ := newTestRouter(t, "tok")

	form := url.Values{"image_url": {"http://src/k.jpg"}}
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("form status = %d: %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["analysis_source"] != "vision" {
		t.Fatalf("unexpected body: %v", body)
	}

	req = httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"image_url":"http://src/k.jpg"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("json status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyze", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing url status = %d", rec.Code)
	}
}

func TestAnalyzeWithoutTokenDefaults(t *testing.T) {
	router, _ := newTestRouter(t, "")
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"image_url":"http://src/k.jpg"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	body := decodeBody(t, rec)
	if body["analysis_source"] != "default_missing_credential" {
		t.Fatalf("unexpected body: %v", body)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	sources := decodeBody(t, rec)["analysis_sources"].(map[string]any)
	if sources["default_missing_credential"] != float64(1) {
		t.Fatalf("unexpected metrics: %v", sources)
	}
}

func TestOptionsAndCodeNotConfigured(t *testing.T) {
	router, _ := newTestRouter(t, "tok")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/options", nil))
	if doors, _ := decodeBody(t, rec)["door_styles"].([]any); len(doors) != 5 {
		t.Fatalf("unexpected door styles: %v", doors)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/code", strings.NewReader(`{"prompt":"hi"}`)))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code status = %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t, "tok")
	req := httptest.NewRequest(http.MethodOptions, "/visualize", nil)
	req.Header.Set("Origin", "https://site.example")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || rec.Header().Get("Access-Control-Allow-Origin") != "https://site.example" {
		t.Fatalf("preflight = %d %v", rec.Code, rec.Header())
	}
}

func TestPromptResponseIsCompressed(t *testing.T) {
	router, _ := newTestRouter(t, "tok")
	payload := `{"image_description":"galley kitchen with tape on the cabinets","door_style":"slab","hardware_style":"bar","hardware_finish":"black","needs_cleanup":true}`
	req := httptest.NewRequest(http.MethodPost, "/prompt/generate", strings.NewReader(payload))
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip encoding, headers: %v", rec.Header())
	}
}

func countRateLimited(router http.Handler, n int) int {
	limited := 0
	for i := 0; i < n; i++ {
		req := httptest.NewRequest(http.MethodPost, "/visualize", strings.NewReader(`{"image_url":"http://src/k.jpg","skip_analysis":true}`))
		req.RemoteAddr = "203.0.113.7:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	return limited
}

func TestVisualizeRateLimitUsesPeerAddress(t *testing.T) {
	router, _ := newTestRouterWith(t, "tok", RouterOptions{Logger: zerolog.Nop(), RateLimitPerMinute: 2})
	if limited := countRateLimited(router, 20); limited != 18 {
		t.Fatalf("rotated X-Forwarded-For: %d of 20 limited, want 18", limited)
	}
}

func TestVisualizeRateLimitTrustsProxyWhenEnabled(t *testing.T) {
	router, _ := newTestRouterWith(t, "tok", RouterOptions{Logger: zerolog.Nop(), RateLimitPerMinute: 2, TrustProxy: true})
	if limited := countRateLimited(router, 5); limited != 0 {
		t.Fatalf("distinct forwarded clients behind a trusted proxy: %d limited, want 0", limited)
	}
}
