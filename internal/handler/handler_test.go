package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/fizipop/uni-ai-app/internal/advisor"
	"github.com/fizipop/uni-ai-app/internal/chat"
	"github.com/fizipop/uni-ai-app/internal/handler"
	"github.com/fizipop/uni-ai-app/internal/llm"
	"github.com/fizipop/uni-ai-app/internal/storage"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(_ context.Context, _ []llm.Message, _ llm.Options) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

const validReply = `{"universities":[
	{"name":"University of Toronto","reason":"Strong engineering."},
	{"name":"UBC","reason":"Great research."},
	{"name":"McGill","reason":"Top reputation."},
	{"name":"Waterloo","reason":"Co-op program."}
]}`

func newTestRouter(t *testing.T, stub *stubCompleter) *gin.Engine {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	advisorSvc := advisor.NewService(store, stub, advisor.ModeStructured, "test-model")
	chatSvc := chat.NewService(stub, "test-model", 0)
	return handler.NewRouter(handler.New(store, advisorSvc, chatSvc))
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/login", "", gin.H{"username": username, "password": password})
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("login returned no token: %s", w.Body.String())
	}
	return resp.Token
}

func TestSignupLoginRecommendFlow(t *testing.T) {
	router := newTestRouter(t, &stubCompleter{reply: validReply})

	if w := doJSON(router, http.MethodPost, "/signup", "", gin.H{"username": "alice", "password": "pw1"}); w.Code != http.StatusOK {
		t.Fatalf("signup returned %d: %s", w.Code, w.Body.String())
	}
	token := login(t, router, "alice", "pw1")

	w := doJSON(router, http.MethodPost, "/api/user-data", token, gin.H{"percentage": 92, "interest": "Engineering"})
	if w.Code != http.StatusOK {
		t.Fatalf("user-data returned %d: %s", w.Code, w.Body.String())
	}

	// Empty request body: percentage and interest come from the profile.
	w = doJSON(router, http.MethodPost, "/api/ai", token, gin.H{})
	if w.Code != http.StatusOK {
		t.Fatalf("ai returned %d: %s", w.Code, w.Body.String())
	}
	var rec advisor.Recommendation
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("ai response not parseable: %v", err)
	}
	if len(rec.Universities) != 4 {
		t.Fatalf("expected 4 universities, got %d", len(rec.Universities))
	}
	if rec.Universities[3].Name != "Waterloo" || rec.Universities[3].Reason != "Co-op program." {
		t.Errorf("entries not returned verbatim: %+v", rec.Universities)
	}
}

func TestSignupDuplicateAndBadLogin(t *testing.T) {
	router := newTestRouter(t, &stubCompleter{reply: validReply})

	if w := doJSON(router, http.MethodPost, "/signup", "", gin.H{"username": "alice", "password": "pw1"}); w.Code != http.StatusOK {
		t.Fatalf("signup returned %d", w.Code)
	}
	if w := doJSON(router, http.MethodPost, "/signup", "", gin.H{"username": "alice", "password": "other"}); w.Code != http.StatusBadRequest {
		t.Errorf("duplicate signup: expected 400, got %d", w.Code)
	}
	if w := doJSON(router, http.MethodPost, "/signup", "", gin.H{"username": "", "password": "pw"}); w.Code != http.StatusBadRequest {
		t.Errorf("empty username: expected 400, got %d", w.Code)
	}
	if w := doJSON(router, http.MethodPost, "/login", "", gin.H{"username": "alice", "password": "wrong"}); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: expected 401, got %d", w.Code)
	}
	if w := doJSON(router, http.MethodPost, "/login", "", gin.H{"username": "nobody", "password": "pw1"}); w.Code != http.StatusUnauthorized {
		t.Errorf("unknown user: expected 401, got %d", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t, &stubCompleter{reply: validReply})

	if w := doJSON(router, http.MethodGet, "/api/profile", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: expected 401, got %d", w.Code)
	}
}

func TestRecommendErrorMapping(t *testing.T) {
	stub := &stubCompleter{reply: validReply}
	router := newTestRouter(t, stub)

	doJSON(router, http.MethodPost, "/signup", "", gin.H{"username": "alice", "password": "pw1"})
	token := login(t, router, "alice", "pw1")

	// No percentage anywhere yet.
	if w := doJSON(router, http.MethodPost, "/api/ai", token, gin.H{}); w.Code != http.StatusBadRequest {
		t.Errorf("missing percentage: expected 400, got %d: %s", w.Code, w.Body.String())
	}

	stub.reply = "not json at all"
	if w := doJSON(router, http.MethodPost, "/api/ai", token, gin.H{"percentage": 90}); w.Code != http.StatusBadGateway {
		t.Errorf("malformed reply: expected 502, got %d", w.Code)
	}

	stub.reply = `{"universities":[{"name":"A","reason":"a"}]}`
	if w := doJSON(router, http.MethodPost, "/api/ai", token, gin.H{"percentage": 90}); w.Code != http.StatusBadGateway {
		t.Errorf("invalid structure: expected 502, got %d", w.Code)
	}

	stub.reply = ""
	stub.err = &llm.ProviderError{Message: "connection refused"}
	if w := doJSON(router, http.MethodPost, "/api/ai", token, gin.H{"percentage": 90}); w.Code != http.StatusBadGateway {
		t.Errorf("provider failure: expected 502, got %d", w.Code)
	}
}

func TestCatAIFlow(t *testing.T) {
	router := newTestRouter(t, &stubCompleter{reply: "Aim for 90%+ 🐱"})

	doJSON(router, http.MethodPost, "/signup", "", gin.H{"username": "alice", "password": "pw1"})
	token := login(t, router, "alice", "pw1")

	w := doJSON(router, http.MethodPost, "/api/cat-ai", token, gin.H{"question": "What's a good GPA for UofT Engineering?"})
	if w.Code != http.StatusOK {
		t.Fatalf("cat-ai returned %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Answer == "" {
		t.Fatalf("cat-ai returned no answer: %s", w.Body.String())
	}

	history := func() []llm.Message {
		w := doJSON(router, http.MethodGet, "/api/cat-ai/history", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("history returned %d", w.Code)
		}
		var resp struct {
			History []llm.Message `json:"history"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("history not parseable: %v", err)
		}
		return resp.History
	}

	if got := history(); len(got) != 3 {
		t.Fatalf("after one turn: expected transcript length 3, got %d", len(got))
	}

	doJSON(router, http.MethodPost, "/api/cat-ai", token, gin.H{"question": "And scholarships?"})
	got := history()
	if len(got) != 5 {
		t.Fatalf("after two turns: expected transcript length 5, got %d", len(got))
	}
	if got[0].Role != llm.RoleSystem {
		t.Errorf("system entry must stay first, got %q", got[0].Role)
	}
}

func TestLogoutIsAcknowledged(t *testing.T) {
	router := newTestRouter(t, &stubCompleter{reply: validReply})

	doJSON(router, http.MethodPost, "/signup", "", gin.H{"username": "alice", "password": "pw1"})
	token := login(t, router, "alice", "pw1")

	if w := doJSON(router, http.MethodPost, "/api/logout", token, nil); w.Code != http.StatusOK {
		t.Errorf("logout: expected 200, got %d", w.Code)
	}

	// Tokens are stateless: the token still works after logout.
	if w := doJSON(router, http.MethodGet, "/api/profile", token, nil); w.Code != http.StatusOK {
		t.Errorf("profile after logout: expected 200, got %d", w.Code)
	}
}
