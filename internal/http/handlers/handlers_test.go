package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cardlet/cardlet-invites/internal/domain"
	"github.com/cardlet/cardlet-invites/internal/http/handlers"
	"github.com/cardlet/cardlet-invites/internal/http/middleware"
	"github.com/cardlet/cardlet-invites/internal/http/response"
	"github.com/cardlet/cardlet-invites/pkg/auth"
)

const testSecret = "test-secret"

// ---------- Mocks ----------

type mockUserService struct{}

func (m *mockUserService) Signup(_ context.Context, req *domain.SignupRequest) (*domain.UserResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Username == "taken" {
		return nil, domain.BadRequest("username is already taken")
	}
	return &domain.UserResponse{ID: 1, Username: req.Username, Name: req.Name, Provider: domain.ProviderGeneral}, nil
}

func (m *mockUserService) Login(_ context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Password != "correct-horse" {
		return nil, domain.Unauthorized("invalid credentials")
	}
	return &domain.LoginResponse{
		AccessToken: "token",
		TokenType:   "Bearer",
		ExpiresIn:   3600,
		User:        domain.UserResponse{ID: 1, Username: req.Username},
	}, nil
}

func (m *mockUserService) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	switch username {
	case "alice":
		return &domain.User{ID: 1, Username: "alice", Name: "Alice Park"}, nil
	case "bob":
		return &domain.User{ID: 2, Username: "bob", Name: "Bob Lee"}, nil
	}
	return nil, nil
}

type mockEventService struct {
	lastUsername string
}

var fixedEvent = domain.EventResponse{
	ID:        7,
	Title:     "Housewarming",
	EventDate: "2026-09-12",
	EventTime: "18:30",
	ShareLink: "abc12345",
	ViewCount: 3,
}

func (m *mockEventService) CreateEvent(_ context.Context, username string, req *domain.EventCreateRequest) (*domain.EventResponse, error) {
	m.lastUsername = username
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	e := fixedEvent
	e.Title = req.Title
	return &e, nil
}

func (m *mockEventService) GetMyEvents(context.Context, string) ([]domain.EventListItem, error) {
	return nil, nil
}

func (m *mockEventService) GetEvent(_ context.Context, username string, eventID int64) (*domain.EventResponse, error) {
	if eventID != fixedEvent.ID {
		return nil, domain.BadRequest("invitation not found")
	}
	if username != "alice" {
		return nil, domain.Forbidden("access denied")
	}
	e := fixedEvent
	return &e, nil
}

func (m *mockEventService) GetEventByShareLink(_ context.Context, shareLink string) (*domain.EventResponse, error) {
	if shareLink != fixedEvent.ShareLink {
		return nil, domain.BadRequest("invitation not found")
	}
	e := fixedEvent
	e.ViewCount++
	return &e, nil
}

func (m *mockEventService) UpdateEvent(_ context.Context, username string, eventID int64, req *domain.EventUpdateRequest) (*domain.EventResponse, error) {
	return m.GetEvent(context.Background(), username, eventID)
}

func (m *mockEventService) DeleteEvent(_ context.Context, username string, eventID int64) error {
	_, err := m.GetEvent(context.Background(), username, eventID)
	return err
}

func (m *mockEventService) GetTrashedEvents(context.Context, string) ([]domain.EventListItem, error) {
	return nil, nil
}

func (m *mockEventService) RestoreEvent(_ context.Context, username string, eventID int64) (*domain.EventResponse, error) {
	return m.GetEvent(context.Background(), username, eventID)
}

func (m *mockEventService) PermanentDeleteEvent(_ context.Context, username string, eventID int64) error {
	_, err := m.GetEvent(context.Background(), username, eventID)
	return err
}

type mockRSVPService struct {
	lastMeta domain.RequestMeta
}

func (m *mockRSVPService) CreateRSVP(_ context.Context, shareLink string, req *domain.RSVPCreateRequest, meta domain.RequestMeta) (*domain.RSVPResponse, error) {
	m.lastMeta = meta
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if shareLink != fixedEvent.ShareLink {
		return nil, domain.BadRequest("invitation not found")
	}
	return &domain.RSVPResponse{ID: 11, GuestName: req.GuestName, Attendance: req.Attendance, CreatedAt: time.Now()}, nil
}

func (m *mockRSVPService) GetRSVPList(context.Context, string, int64) ([]domain.RSVPResponse, error) {
	return []domain.RSVPResponse{{ID: 11, GuestName: "Dana"}}, nil
}

func (m *mockRSVPService) UpdateRSVP(_ context.Context, rsvpID int64, req *domain.RSVPCreateRequest) (*domain.RSVPResponse, error) {
	if rsvpID != 11 {
		return nil, domain.BadRequest("rsvp not found")
	}
	return &domain.RSVPResponse{ID: 11, GuestName: "Dana", Attendance: req.Attendance}, nil
}

func (m *mockRSVPService) DeleteRSVP(_ context.Context, rsvpID int64) error {
	if rsvpID != 11 {
		return domain.BadRequest("rsvp not found")
	}
	return nil
}

// ---------- Router fixture ----------

func newServer(t *testing.T) (http.Handler, *mockEventService, *mockRSVPService) {
	t.Helper()
	users := &mockUserService{}
	eventSvc := &mockEventService{}
	rsvpSvc := &mockRSVPService{}

	share := handlers.NewShareHandler(eventSvc, rsvpSvc)

	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testSecret, users))
	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", handlers.NewAuthHandler(users).Routes())
		r.Route("/events/share/{shareLink}", func(r chi.Router) {
			r.Get("/", share.View)
			r.Post("/rsvp", share.CreateRSVP)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Mount("/users", handlers.NewUserHandler().Routes())
			r.Mount("/events", handlers.NewEventHandler(eventSvc, rsvpSvc).Routes())
			r.Mount("/rsvp", handlers.NewRSVPHandler(rsvpSvc).Routes())
		})
	})
	return r, eventSvc, rsvpSvc
}

func bearer(t *testing.T, username string) string {
	t.Helper()
	token, err := auth.NewAccessToken(username, username, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	return "Bearer " + token
}

func doJSON(t *testing.T, srv http.Handler, method, path, authz string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

// ---------- Tests ----------

func TestSignupEndpoint(t *testing.T) {
	srv, _, _ := newServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": "alice", "password": "correct-horse", "name": "Alice Park",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestSignupValidationBody(t *testing.T) {
	srv, _, _ := newServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": "alice", "password": "short", "name": "Alice Park",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", rec.Code)
	}

	var body response.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Status != http.StatusBadRequest || body.Error != "Bad Request" {
		t.Errorf("envelope = %+v", body)
	}
	if body.Errors["password"] == "" {
		t.Errorf("missing field error for password: %+v", body.Errors)
	}
	if body.Timestamp.IsZero() {
		t.Error("timestamp missing")
	}
}

func TestLoginEndpoint(t *testing.T) {
	srv, _, _ := newServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice", "password": "correct-horse",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice", "password": "nope",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: code = %d", rec.Code)
	}
}

func TestEventRoutesRequireAuth(t *testing.T) {
	srv, _, _ := newServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/events", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", rec.Code)
	}
}

func TestCreateEventEndpoint(t *testing.T) {
	srv, eventSvc, _ := newServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/events", bearer(t, "alice"), map[string]string{
		"title": "Housewarming", "event_date": "2026-09-12", "event_time": "18:30",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body.String())
	}
	if eventSvc.lastUsername != "alice" {
		t.Errorf("service called with username %q", eventSvc.lastUsername)
	}
}

func TestGetEventForbidden(t *testing.T) {
	srv, _, _ := newServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/events/7", bearer(t, "bob"), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner: code = %d, want 403", rec.Code)
	}

	// A token for an account the lookup does not know stays anonymous and is
	// rejected before reaching the service.
	rec = doJSON(t, srv, http.MethodGet, "/api/events/7", bearer(t, "mallory"), nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown account: code = %d, want 401", rec.Code)
	}
}

func TestGetEventInvalidID(t *testing.T) {
	srv, _, _ := newServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/events/not-a-number", bearer(t, "alice"), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
}

func TestMeEndpoint(t *testing.T) {
	srv, _, _ := newServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/users/me", bearer(t, "alice"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body.String())
	}
	var user domain.UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("username = %q", user.Username)
	}
}

func TestShareViewEndpoint(t *testing.T) {
	srv, _, _ := newServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/events/share/abc12345", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/events/share/nope0000", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown link: code = %d, want 400", rec.Code)
	}
}

func TestShareRSVPEndpoint(t *testing.T) {
	srv, _, rsvpSvc := newServer(t)

	companions := 1
	body := domain.RSVPCreateRequest{
		GuestName:      "Dana",
		Attendance:     domain.Attending,
		CompanionCount: &companions,
	}
	req := httptest.NewRequest(http.MethodPost, "/api/events/share/abc12345/rsvp", encode(t, body))
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.RemoteAddr = "192.0.2.1:4444"
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body.String())
	}
	if got := rsvpSvc.lastMeta.ClientIP(); got != "203.0.113.7" {
		t.Errorf("meta ip = %q, want 203.0.113.7", got)
	}
}

func TestRSVPMutationEndpoints(t *testing.T) {
	srv, _, _ := newServer(t)

	companions := 0
	body := domain.RSVPCreateRequest{
		GuestName:      "Dana",
		Attendance:     domain.NotAttending,
		CompanionCount: &companions,
	}

	// Mutations require a logged-in caller.
	rec := doJSON(t, srv, http.MethodPut, "/api/rsvp/11", "", body)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous update: code = %d, want 401", rec.Code)
	}

	// Any authenticated account may mutate by id, owner or not.
	rec = doJSON(t, srv, http.MethodPut, "/api/rsvp/11", bearer(t, "bob"), body)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: code = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/rsvp/11", bearer(t, "bob"), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: code = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/rsvp/999", bearer(t, "bob"), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("delete missing: code = %d, want 400", rec.Code)
	}
}

func encode(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return &buf
}
