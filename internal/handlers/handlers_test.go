package handlers

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mcc-event-hub/web-gateway/internal/clients"
	"github.com/mcc-event-hub/web-gateway/internal/models"
	"github.com/mcc-event-hub/web-gateway/internal/session"
)

var testLoc = time.FixedZone("PST", -8*3600)

// testEnv wires the full route table against a fake hub, with stub
// templates standing in for the real pages.
type testEnv struct {
	router *gin.Engine
	store  *session.MemoryStore
	codec  *session.CookieCodec
}

func newTestEnv(t *testing.T, hub http.Handler) *testEnv {
	t.Helper()
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	logger := zap.NewNop()
	client := clients.NewHubClient(srv.URL, logger)
	store := session.NewMemoryStore()
	codec := session.NewCookieCodec("test-secret", time.Hour)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("t").Parse(`
{{define "login.html"}}login error={{.Error}}{{end}}
{{define "index.html"}}index error={{.FormError}} modal={{.ShowCreate}}{{end}}
{{define "dashboard.html"}}dashboard email={{.Email}} admins={{len .Admins}}{{end}}
{{define "edit_event.html"}}edit error={{.Error}}{{end}}
{{define "event_detail.html"}}detail{{end}}
{{define "agenda.html"}}agenda{{end}}
`)))

	pageHandler := NewPageHandler(client, logger)
	authHandler := NewAuthHandler(client, store, codec, logger)
	eventHandler := NewEventHandler(client, store, testLoc, logger)
	adminHandler := NewAdminHandler(client, store, logger)
	agendaHandler := NewAgendaHandler(client, logger)
	icalHandler := NewICalHandler(client, logger)

	r.GET("/", pageHandler.Index)
	r.POST("/events", eventHandler.CreateEvent)
	r.GET("/events.ics", icalHandler.Feed)
	r.GET("/api/calendar-feed", eventHandler.CalendarFeed)
	r.POST("/api/agenda", agendaHandler.Chat)
	r.GET("/admin", authHandler.ShowLogin)
	r.POST("/admin/login", authHandler.Login)
	r.POST("/admin/logout", authHandler.Logout)

	admin := r.Group("/admin", RequireSession(store, codec))
	{
		admin.GET("/dashboard", adminHandler.Dashboard)
		admin.POST("/events/:id", eventHandler.UpdateEvent)
		admin.POST("/events/:id/delete", eventHandler.DeleteEvent)
		admin.POST("/admins", adminHandler.AddAdmin)
		admin.POST("/admins/delete", adminHandler.RemoveAdmin)
	}

	return &testEnv{router: r, store: store, codec: codec}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func formPost(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// login performs the login flow and returns the session cookie.
func (e *testEnv) login(t *testing.T, email string) *http.Cookie {
	t.Helper()
	w := e.do(formPost("/admin/login", url.Values{"email": {email}}))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestLoginStoresSessionAndSendsBearerOnAdminCalls(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(clients.LoginResponse{Token: "abc", Email: "admin@uoregon.edu"})
	})
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Event{})
	})
	mux.HandleFunc("/auth/admins", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]models.Admin{{Email: "admin@uoregon.edu"}})
	})

	env := newTestEnv(t, mux)
	cookie := env.login(t, "admin@uoregon.edu")

	// The stored session carries the hub token and the submitted email.
	sid, err := env.codec.Parse(cookie.Value)
	if err != nil {
		t.Fatalf("Parse cookie: %v", err)
	}
	if tok, _ := env.store.Token(context.Background(), sid); tok != "abc" {
		t.Errorf("stored token = %q, want abc", tok)
	}
	if email, _ := env.store.Email(context.Background(), sid); email != "admin@uoregon.edu" {
		t.Errorf("stored email = %q", email)
	}

	// The dashboard's admins fetch presents the bearer header.
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(cookie)
	w := env.do(req)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", w.Code)
	}
	if gotAuth != "Bearer abc" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer abc")
	}
	if !strings.Contains(w.Body.String(), "admins=1") {
		t.Errorf("dashboard body = %q", w.Body.String())
	}
}

func TestLoginUnauthorizedEmailShowsDistinctMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	env := newTestEnv(t, mux)
	w := env.do(formPost("/admin/login", url.Values{"email": {"stranger@example.com"}}))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Email not authorized") {
		t.Errorf("body = %q, want the not-authorized message", w.Body.String())
	}
}

func TestUnauthorizedDeleteClearsSessionAndRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(clients.LoginResponse{Token: "stale"})
	})
	mux.HandleFunc("/events/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	env := newTestEnv(t, mux)
	cookie := env.login(t, "admin@uoregon.edu")
	sid, _ := env.codec.Parse(cookie.Value)

	req := formPost("/admin/events/e1/delete", url.Values{})
	req.AddCookie(cookie)
	w := env.do(req)

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/admin" {
		t.Errorf("expected redirect to /admin, got %d %q", w.Code, w.Header().Get("Location"))
	}
	if session.IsAuthenticated(context.Background(), env.store, sid) {
		t.Error("session survived a 401")
	}

	// With the session gone, the dashboard is no longer reachable: no
	// privileged data renders.
	req = httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(cookie)
	w = env.do(req)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/admin" {
		t.Errorf("dashboard still reachable: %d", w.Code)
	}
}

func TestRemoveAdminSelfIsBlockedBeforeTheHub(t *testing.T) {
	hubCalled := false
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(clients.LoginResponse{Token: "abc"})
	})
	mux.HandleFunc("/auth/admins/", func(w http.ResponseWriter, r *http.Request) {
		hubCalled = true
	})

	env := newTestEnv(t, mux)
	cookie := env.login(t, "admin@uoregon.edu")

	req := formPost("/admin/admins/delete", url.Values{"email": {"admin@uoregon.edu"}})
	req.AddCookie(cookie)
	w := env.do(req)

	if hubCalled {
		t.Error("self-deletion reached the hub")
	}
	if w.Code != http.StatusSeeOther || !strings.Contains(w.Header().Get("Location"), "admin_error=") {
		t.Errorf("expected redirect with error, got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestRemoveOtherAdminSucceeds(t *testing.T) {
	var deletedPath string
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(clients.LoginResponse{Token: "abc"})
	})
	mux.HandleFunc("/auth/admins/", func(w http.ResponseWriter, r *http.Request) {
		deletedPath = r.URL.Path
	})

	env := newTestEnv(t, mux)
	cookie := env.login(t, "admin@uoregon.edu")

	req := formPost("/admin/admins/delete", url.Values{"email": {"other@uoregon.edu"}})
	req.AddCookie(cookie)
	w := env.do(req)

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/admin/dashboard" {
		t.Errorf("got %d %q", w.Code, w.Header().Get("Location"))
	}
	if deletedPath != "/auth/admins/other@uoregon.edu" {
		t.Errorf("deleted path = %q", deletedPath)
	}
}

func TestDashboardRequiresSession(t *testing.T) {
	env := newTestEnv(t, http.NewServeMux())

	w := env.do(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/admin" {
		t.Errorf("got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestCreateEventFailureKeepsModalOpen(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"detail": "end_time must be after start_time"})
			return
		}
		json.NewEncoder(w).Encode([]models.Event{})
	})

	env := newTestEnv(t, mux)
	w := env.do(formPost("/events", url.Values{
		"title":        {"Meeting"},
		"organization": {"BSU"},
		"start_time":   {"2026-02-01T10:00"},
		"end_time":     {"2026-02-01T09:00"},
	}))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "end_time must be after start_time") {
		t.Errorf("validation message not shown verbatim: %q", body)
	}
	if !strings.Contains(body, "modal=true") {
		t.Errorf("modal not re-opened: %q", body)
	}
}

func TestCreateEventSuccessRedirectsForRefetch(t *testing.T) {
	created := false
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			created = true
			w.WriteHeader(http.StatusCreated)
			return
		}
		json.NewEncoder(w).Encode([]models.Event{})
	})

	env := newTestEnv(t, mux)
	w := env.do(formPost("/events", url.Values{
		"title":        {"Meeting"},
		"organization": {"BSU"},
		"start_time":   {"2026-02-01T09:00"},
		"end_time":     {"2026-02-01T10:00"},
	}))

	if !created {
		t.Error("create never reached the hub")
	}
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
		t.Errorf("got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func twoOrgHub(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Event{
			{
				ID: "e1", Title: "BSU Meeting", Organization: "BSU",
				StartTime: time.Date(2026, 2, 1, 17, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2026, 2, 1, 18, 0, 0, 0, time.UTC),
			},
			{
				ID: "e2", Title: "NASU Social", Organization: "NASU",
				StartTime: time.Date(2026, 2, 2, 17, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2026, 2, 2, 18, 0, 0, 0, time.UTC),
			},
		})
	})
	return mux
}

func TestCalendarFeedHonorsOrgSelection(t *testing.T) {
	env := newTestEnv(t, twoOrgHub(t))

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/calendar-feed?org=BSU", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var entries []models.CalendarEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "e1" {
		t.Fatalf("entries = %+v, want only the BSU event", entries)
	}

	// No selection still yields the full set.
	w = env.do(httptest.NewRequest(http.MethodGet, "/api/calendar-feed", nil))
	entries = nil
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries unfiltered, want 2", len(entries))
	}
}

func TestICSFeedHonorsOrgSelection(t *testing.T) {
	env := newTestEnv(t, twoOrgHub(t))

	w := env.do(httptest.NewRequest(http.MethodGet, "/events.ics?org=NASU", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "NASU Social") {
		t.Errorf("feed missing selected org's event: %q", body)
	}
	if strings.Contains(body, "BSU Meeting") {
		t.Errorf("feed leaked the other org's event: %q", body)
	}
}

func TestAgendaChatFallsBackOnNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // unreachable hub

	logger := zap.NewNop()
	client := clients.NewHubClient(srv.URL, logger)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/agenda", NewAgendaHandler(client, logger).Chat)

	body := `{"message":"Budget approval","history":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/agenda", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["response"] != fallbackReply {
		t.Errorf("response = %q, want canned fallback", resp["response"])
	}
}
