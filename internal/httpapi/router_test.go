package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bakaevs/cs-gpt/internal/ai"
	"github.com/bakaevs/cs-gpt/internal/chat"
	"github.com/bakaevs/cs-gpt/internal/httpapi/handlers"
	"github.com/bakaevs/cs-gpt/internal/index"
	"github.com/bakaevs/cs-gpt/internal/ingest"
	"github.com/gin-gonic/gin"
	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	_ = ctx
	_ = text
	return []float32{1, 0}, nil
}

type stubProvider struct{}

func (stubProvider) Chat(ctx context.Context, messages []ai.Message) (string, error) {
	_ = ctx
	_ = messages
	return "stub answer", nil
}

func (stubProvider) ChatWithTools(ctx context.Context, messages []ai.Message, tools []ai.ToolDefinition) (*ai.Completion, error) {
	_ = ctx
	_ = messages
	_ = tools
	return &ai.Completion{Content: "stub answer"}, nil
}

type stubDispatcher struct{}

func (stubDispatcher) Dispatch(ctx context.Context, userID string, call ai.ToolCall) string {
	_ = ctx
	_ = userID
	_ = call
	return "dispatched"
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&chat.Thread{}, &chat.Message{}, &index.Record{}, &ingest.Job{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	idx := index.New(index.NewStore(db))
	chatSvc := chat.NewService(chat.NewRepo(db), stubEmbedder{}, stubProvider{}, stubDispatcher{}, idx, nil, 5)
	ingestSvc := ingest.NewService(db, stubEmbedder{}, idx, 10)

	return NewRouter(handlers.NewHandler(chatSvc, ingestSvc, nil))
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPing(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/ping", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, "/ping", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", w.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/ping", nil)
	if w.Header().Get("X-Request-Id") == "" {
		t.Fatalf("missing request id header")
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "given-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-Id"); got != "given-id" {
		t.Fatalf("request id = %q, want given-id", got)
	}
}

func TestSendMessage(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/assistant/message", map[string]any{
		"user_id": "acme-1-jane",
		"message": "how is cow 12?",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Answer   string `json:"answer"`
			ThreadID uint64 `json:"thread_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Answer != "stub answer" {
		t.Fatalf("answer = %q", resp.Data.Answer)
	}
	if resp.Data.ThreadID == 0 {
		t.Fatalf("missing thread id")
	}
}

func TestSendMessageValidation(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/assistant/message", map[string]any{"user_id": "acme-1-jane"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestThreadRoutes(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/assistant/threads", map[string]any{
		"user_id": "acme-1-jane",
		"name":    "herd health",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", w.Code, w.Body.String())
	}
	var created struct {
		Data struct {
			ThreadID uint64 `json:"thread_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	id := created.Data.ThreadID

	w = doJSON(t, r, http.MethodGet, "/assistant/threads?user_id=acme-1-jane", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/assistant/threads/%d/name", id), map[string]any{
		"user_id": "acme-1-jane",
		"name":    "renamed",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("rename status = %d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/assistant/threads/%d/messages?user_id=acme-1-jane", id), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("messages status = %d", w.Code)
	}

	// another user cannot see or touch the thread
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/assistant/threads/%d/messages?user_id=acme-2-john", id), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("foreign messages status = %d, want 404", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/assistant/threads/%d?user_id=acme-1-jane", id), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/assistant/threads/%d/messages?user_id=acme-1-jane", id), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("deleted thread status = %d, want 404", w.Code)
	}
}

func TestReset(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/assistant/message", map[string]any{
		"user_id": "acme-1-jane",
		"message": "hello",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("message status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/assistant/reset", map[string]any{"user_id": "acme-1-jane"})
	if w.Code != http.StatusOK {
		t.Fatalf("reset status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/assistant/threads?user_id=acme-1-jane", nil)
	var resp struct {
		Data []chat.Thread `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 0 {
		t.Fatalf("threads after reset = %+v", resp.Data)
	}
}

func TestDocumentJobInline(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/documents", map[string]any{
		"source": "herd-notes",
		"text":   "cow 12 was seen limping near the east fence on monday morning",
	})
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			JobID string `json:"job_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.JobID == "" {
		t.Fatalf("missing job id")
	}

	// the inline runner is asynchronous; poll briefly for completion
	deadline := time.Now().Add(2 * time.Second)
	for {
		w = doJSON(t, r, http.MethodGet, "/documents/jobs/"+resp.Data.JobID, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("job status = %d", w.Code)
		}
		var job struct {
			Data ingest.Job `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &job); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if job.Data.Status == ingest.JobSucceeded {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job never finished: %+v", job.Data)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestJobNotFound(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/documents/jobs/unknown", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
