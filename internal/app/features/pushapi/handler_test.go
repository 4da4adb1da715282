package pushapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/larabeck/atelier/internal/app/store/pushsub"
	"github.com/larabeck/atelier/internal/app/system/auth"
	"github.com/larabeck/atelier/internal/testutil"
)

const testSessionKey = "0123456789abcdef0123456789abcdef"

type testEnv struct {
	router  http.Handler
	subs    *pushsub.Store
	cookies []*http.Cookie
	token   string
}

func newTestEnv(t *testing.T, vapidKey string) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	sm, err := auth.NewSessionManager(testSessionKey, "", "", 0, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}

	subs := pushsub.New(db)
	router := Routes(NewHandler(subs, sm, vapidKey, 0, zap.NewNop()))

	rec := httptest.NewRecorder()
	token, err := sm.Issue(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	return &testEnv{
		router:  router,
		subs:    subs,
		cookies: rec.Result().Cookies(),
		token:   token,
	}
}

func (e *testEnv) do(method, target string, body any, withSession, withToken bool) *httptest.ResponseRecorder {
	var raw []byte
	if body != nil {
		raw, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if withSession {
		for _, c := range e.cookies {
			req.AddCookie(c)
		}
	}
	if withToken {
		req.Header.Set(auth.TokenHeader, e.token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func subscriptionBody(endpoint string) map[string]any {
	return map[string]any{
		"endpoint": endpoint,
		"keys": map[string]string{
			"p256dh": "BNcRd-key-material",
			"auth":   "auth-secret",
		},
	}
}

func TestKeyHandler(t *testing.T) {
	t.Run("configured", func(t *testing.T) {
		env := newTestEnv(t, "BPublicKey123")
		rec := env.do(http.MethodGet, "/key", nil, false, false)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var resp map[string]string
		json.NewDecoder(rec.Body).Decode(&resp)
		if resp["key"] != "BPublicKey123" {
			t.Errorf("key = %q, want %q", resp["key"], "BPublicKey123")
		}
	})

	t.Run("unconfigured", func(t *testing.T) {
		env := newTestEnv(t, "")
		rec := env.do(http.MethodGet, "/key", nil, false, false)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}

func TestSubscribeHandler_Authorization(t *testing.T) {
	env := newTestEnv(t, "key")
	body := subscriptionBody("https://push.example.com/ep-1")

	t.Run("no session", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/subscribe", body, false, true)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("session without token header", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/subscribe", body, true, false)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("session with token", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/subscribe", body, true, true)
		if rec.Code != http.StatusCreated {
			t.Errorf("status = %d, want %d; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
	})
}

func TestSubscribeHandler_UpsertsByEndpoint(t *testing.T) {
	env := newTestEnv(t, "key")
	body := subscriptionBody("https://push.example.com/ep-dup")

	for i := 0; i < 2; i++ {
		rec := env.do(http.MethodPost, "/subscribe", body, true, true)
		if rec.Code != http.StatusCreated {
			t.Fatalf("attempt %d status = %d", i+1, rec.Code)
		}
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	records, err := env.subs.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("stored %d records, want 1", len(records))
	}
}

func TestSubscribeHandler_Validation(t *testing.T) {
	env := newTestEnv(t, "key")

	rec := env.do(http.MethodPost, "/subscribe", map[string]any{
		"endpoint": "https://push.example.com/ep",
	}, true, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing keys status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestUnsubscribeHandler(t *testing.T) {
	env := newTestEnv(t, "key")

	if rec := env.do(http.MethodPost, "/subscribe", subscriptionBody("https://push.example.com/ep-del"), true, true); rec.Code != http.StatusCreated {
		t.Fatalf("subscribe status = %d", rec.Code)
	}

	rec := env.do(http.MethodDelete, "/subscribe", map[string]string{
		"endpoint": "https://push.example.com/ep-del",
	}, true, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("unsubscribe status = %d", rec.Code)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	records, err := env.subs.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("stored %d records after unsubscribe, want 0", len(records))
	}

	// Unknown endpoints are not an error.
	rec = env.do(http.MethodDelete, "/subscribe", map[string]string{
		"endpoint": "https://push.example.com/never-seen",
	}, true, true)
	if rec.Code != http.StatusOK {
		t.Errorf("unknown endpoint status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestCleanupHandler(t *testing.T) {
	env := newTestEnv(t, "key")

	t.Run("requires admin", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/cleanup", nil, false, false)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("reports removed count", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/cleanup", nil, true, false)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var resp map[string]int64
		json.NewDecoder(rec.Body).Decode(&resp)
		if resp["removed"] != 0 {
			t.Errorf("removed = %d, want 0", resp["removed"])
		}
	})
}
