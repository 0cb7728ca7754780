package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"court-booking-api/internal/audit"
	"court-booking-api/internal/handler"
	"court-booking-api/internal/model"
	"court-booking-api/internal/schedule"
	"court-booking-api/internal/store"
)

func setup(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	secret := os.Getenv("JWT_SECRET")
	if dbURL == "" || secret == "" {
		t.Skip("DATABASE_URL or JWT_SECRET not set")
	}
	gin.SetMode(gin.TestMode)

	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(pool.Close)

	if migration, err := os.ReadFile("../../db/migrations/001_init.sql"); err == nil {
		pool.Exec(context.Background(), string(migration))
	}

	st := store.New(pool)
	h := handler.New(st, audit.NewRecorder(st), secret, 15*time.Minute)
	return h.Router(), st
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func registerUser(t *testing.T, r *gin.Engine, role string) string {
	t.Helper()
	email := fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8])
	rec := doJSON(t, r, "POST", "/api/auth/register", "", map[string]string{
		"name": "Test User", "email": email, "password": "testpass123", "role": role,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("register: %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	json.NewDecoder(rec.Body).Decode(&out)
	if out.Token == "" {
		t.Fatal("empty token")
	}
	return out.Token
}

func createCourt(t *testing.T, r *gin.Engine, adminTok string) model.Court {
	t.Helper()
	rec := doJSON(t, r, "POST", "/api/courts", adminTok, map[string]any{
		"name":  fmt.Sprintf("Court %s", uuid.New().String()[:8]),
		"color": "#00ff00",
		"pricing": map[string]float64{
			"sixAM": 100, "sevenToFifteen": 150, "sixteenToTwentyOne": 200,
			"twentyTwo": 250, "twentyThree": 300,
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create court: %d: %s", rec.Code, rec.Body.String())
	}
	var court model.Court
	json.NewDecoder(rec.Body).Decode(&court)
	return court
}

func tomorrow() string {
	return time.Now().In(schedule.Zone).AddDate(0, 0, 1).Format("2006-01-02")
}

// ----- auth -----

func TestRegisterAndLogin(t *testing.T) {
	r, _ := setup(t)

	email := fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8])
	rec := doJSON(t, r, "POST", "/api/auth/register", "", map[string]string{
		"name": "Login User", "email": email, "password": "testpass123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("register: %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, "POST", "/api/auth/login", "", map[string]string{
		"email": email, "password": "testpass123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	json.NewDecoder(rec.Body).Decode(&out)
	if out.Token == "" {
		t.Fatal("empty token")
	}

	rec = doJSON(t, r, "POST", "/api/auth/login", "", map[string]string{
		"email": email, "password": "wrongpassword",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("wrong password: expected 400, got %d", rec.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	r, _ := setup(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"empty name", map[string]string{"email": "a@b.com", "password": "testpass123"}},
		{"bad email", map[string]string{"name": "X", "email": "not-an-email", "password": "testpass123"}},
		{"short password", map[string]string{"name": "X", "email": "a@b.com", "password": "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, r, "POST", "/api/auth/register", "", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _ := setup(t)

	email := fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8])
	body := map[string]string{"name": "First", "email": email, "password": "testpass123"}
	if rec := doJSON(t, r, "POST", "/api/auth/register", "", body); rec.Code != http.StatusOK {
		t.Fatalf("first register: %d", rec.Code)
	}

	rec := doJSON(t, r, "POST", "/api/auth/register", "", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Field string `json:"field"`
	}
	json.NewDecoder(rec.Body).Decode(&out)
	if out.Field != "email" {
		t.Errorf("expected field email, got %q", out.Field)
	}
}

func TestAuthRequired(t *testing.T) {
	r, _ := setup(t)

	rec := doJSON(t, r, "GET", "/api/clients", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", rec.Code)
	}
	rec = doJSON(t, r, "GET", "/api/clients", "not.a.token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: expected 401, got %d", rec.Code)
	}
}

func TestRoleEnforcement(t *testing.T) {
	r, _ := setup(t)
	userTok := registerUser(t, r, "user")

	rec := doJSON(t, r, "POST", "/api/clients", userTok, map[string]string{
		"name": "Nope", "phone": "000",
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, r, "GET", "/api/logs", userTok, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("logs: expected 403, got %d", rec.Code)
	}
}

// ----- courts -----

func TestCourtCRUD(t *testing.T) {
	r, _ := setup(t)
	adminTok := registerUser(t, r, "admin")

	court := createCourt(t, r, adminTok)
	if court.ID == "" {
		t.Fatal("empty court id")
	}
	if court.Pricing.SixteenToTwentyOne != 200 {
		t.Errorf("pricing: %+v", court.Pricing)
	}

	rec := doJSON(t, r, "GET", "/api/courts", adminTok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: %d", rec.Code)
	}
	var courts []model.Court
	json.NewDecoder(rec.Body).Decode(&courts)
	found := false
	for _, c := range courts {
		if c.ID == court.ID {
			found = true
		}
		if c.IsOriginal {
			t.Errorf("original court %s leaked into the working list", c.ID)
		}
	}
	if !found {
		t.Error("created court missing from list")
	}

	rec = doJSON(t, r, "PUT", "/api/courts/"+court.ID, adminTok, map[string]any{
		"pricing": map[string]float64{"sixAM": -50},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d: %s", rec.Code, rec.Body.String())
	}
	var updated model.Court
	json.NewDecoder(rec.Body).Decode(&updated)
	if updated.Pricing.SixAM != 0 {
		t.Errorf("negative rate not clamped: %v", updated.Pricing.SixAM)
	}

	rec = doJSON(t, r, "DELETE", "/api/courts/"+court.ID, adminTok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: %d", rec.Code)
	}
	rec = doJSON(t, r, "DELETE", "/api/courts/"+court.ID, adminTok, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", rec.Code)
	}
}

// ----- bookings -----

func TestCreateBookingPast(t *testing.T) {
	r, _ := setup(t)
	adminTok := registerUser(t, r, "admin")
	userTok := registerUser(t, r, "user")
	court := createCourt(t, r, adminTok)

	yesterday := time.Now().In(schedule.Zone).AddDate(0, 0, -1).Format("2006-01-02")
	body := map[string]any{
		"court": court.ID, "date": yesterday, "timeSlot": "18:00", "clientName": "Walk In",
	}

	rec := doJSON(t, r, "POST", "/api/bookings", userTok, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("user past booking: expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	// admins backfill history
	rec = doJSON(t, r, "POST", "/api/bookings", adminTok, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin past booking: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateBookingBadSlot(t *testing.T) {
	r, _ := setup(t)
	adminTok := registerUser(t, r, "admin")
	court := createCourt(t, r, adminTok)

	for _, slot := range []string{"05:00", "24:00", "garbage"} {
		rec := doJSON(t, r, "POST", "/api/bookings", adminTok, map[string]any{
			"court": court.ID, "date": tomorrow(), "timeSlot": slot, "clientName": "X",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("slot %q: expected 400, got %d", slot, rec.Code)
		}
	}
}

func TestBookingsByCourtRange(t *testing.T) {
	r, _ := setup(t)
	adminTok := registerUser(t, r, "admin")
	court := createCourt(t, r, adminTok)

	inside := time.Now().In(schedule.Zone).AddDate(0, 0, 2)
	outside := inside.AddDate(0, 0, 10)
	for _, d := range []time.Time{inside, outside} {
		rec := doJSON(t, r, "POST", "/api/bookings", adminTok, map[string]any{
			"court": court.ID, "date": d.Format("2006-01-02"), "timeSlot": "10:00", "clientName": "Range",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("create: %d: %s", rec.Code, rec.Body.String())
		}
	}

	path := fmt.Sprintf("/api/bookings/court/%s/range?startDate=%s&endDate=%s",
		court.ID, inside.Format("2006-01-02"), inside.AddDate(0, 0, 1).Format("2006-01-02"))
	rec := doJSON(t, r, "GET", path, adminTok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("range: %d: %s", rec.Code, rec.Body.String())
	}
	var bookings []model.Booking
	json.NewDecoder(rec.Body).Decode(&bookings)
	if len(bookings) != 1 {
		t.Errorf("expected 1 booking in range, got %d", len(bookings))
	}
}

func TestClientBackReference(t *testing.T) {
	r, st := setup(t)
	adminTok := registerUser(t, r, "admin")
	court := createCourt(t, r, adminTok)

	clientName := fmt.Sprintf("Client %s", uuid.New().String()[:8])
	rec := doJSON(t, r, "POST", "/api/clients", adminTok, map[string]string{
		"name": clientName, "phone": uuid.New().String()[:12],
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create client: %d: %s", rec.Code, rec.Body.String())
	}
	var client model.Client
	json.NewDecoder(rec.Body).Decode(&client)

	// booking referencing the client by name only
	rec = doJSON(t, r, "POST", "/api/bookings", adminTok, map[string]any{
		"court": court.ID, "date": tomorrow(), "timeSlot": "20:00", "clientName": clientName,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create booking: %d: %s", rec.Code, rec.Body.String())
	}
	var b model.Booking
	json.NewDecoder(rec.Body).Decode(&b)
	if b.ClientID != client.ID {
		t.Errorf("name lookup did not resolve the client: %q", b.ClientID)
	}

	// the client's booking set holds the new id
	stored, err := st.ClientByID(context.Background(), client.ID)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	found := false
	for _, id := range stored.Bookings {
		if id == b.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("booking %s missing from client set %v", b.ID, stored.Bookings)
	}

	// and the listing endpoint agrees
	rec = doJSON(t, r, "GET", "/api/clients/"+client.ID+"/bookings", adminTok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("client bookings: %d", rec.Code)
	}
	var list []model.Booking
	json.NewDecoder(rec.Body).Decode(&list)
	if len(list) == 0 || list[0].ID != b.ID {
		t.Errorf("client bookings listing: %v", list)
	}
}

func TestDuplicateClient(t *testing.T) {
	r, _ := setup(t)
	adminTok := registerUser(t, r, "admin")

	name := fmt.Sprintf("Dup %s", uuid.New().String()[:8])
	rec := doJSON(t, r, "POST", "/api/clients", adminTok, map[string]string{
		"name": name, "phone": uuid.New().String()[:12],
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("first create: %d", rec.Code)
	}

	rec = doJSON(t, r, "POST", "/api/clients", adminTok, map[string]string{
		"name": name, "phone": uuid.New().String()[:12],
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Field string `json:"field"`
	}
	json.NewDecoder(rec.Body).Decode(&out)
	if out.Field != "name" {
		t.Errorf("expected field name, got %q", out.Field)
	}
}

// ----- permanence -----

func TestPermanenceToggle(t *testing.T) {
	r, _ := setup(t)
	adminTok := registerUser(t, r, "admin")
	court := createCourt(t, r, adminTok)

	rec := doJSON(t, r, "POST", "/api/bookings", adminTok, map[string]any{
		"court": court.ID, "date": tomorrow(), "timeSlot": "19:00",
		"clientName": fmt.Sprintf("Perm %s", uuid.New().String()[:8]),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create: %d: %s", rec.Code, rec.Body.String())
	}
	var b model.Booking
	json.NewDecoder(rec.Body).Decode(&b)

	rec = doJSON(t, r, "PUT", "/api/bookings/"+b.ID+"/permanent", adminTok, map[string]bool{
		"isPermanent": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("activate: %d: %s", rec.Code, rec.Body.String())
	}
	var act struct {
		Created int `json:"created"`
	}
	json.NewDecoder(rec.Body).Decode(&act)
	if act.Created != schedule.SeriesWeeks {
		t.Errorf("expected %d created occurrences, got %d", schedule.SeriesWeeks, act.Created)
	}

	// toggling again must not duplicate the series
	rec = doJSON(t, r, "PUT", "/api/bookings/"+b.ID+"/permanent", adminTok, map[string]bool{
		"isPermanent": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("re-activate: %d: %s", rec.Code, rec.Body.String())
	}
	json.NewDecoder(rec.Body).Decode(&act)
	if act.Created != 0 {
		t.Errorf("re-activation created %d duplicates", act.Created)
	}

	rec = doJSON(t, r, "PUT", "/api/bookings/"+b.ID+"/permanent", adminTok, map[string]bool{
		"isPermanent": false,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("deactivate: %d: %s", rec.Code, rec.Body.String())
	}
	var deact struct {
		Demoted int `json:"demoted"`
		Deleted int `json:"deleted"`
	}
	json.NewDecoder(rec.Body).Decode(&deact)
	if deact.Demoted != 1 {
		t.Errorf("expected the anchor demoted, got %d", deact.Demoted)
	}
	if deact.Deleted != schedule.SeriesWeeks {
		t.Errorf("expected %d future occurrences deleted, got %d", schedule.SeriesWeeks, deact.Deleted)
	}
}

// ----- stats -----

func TestStatsEndpoints(t *testing.T) {
	r, _ := setup(t)
	adminTok := registerUser(t, r, "admin")

	rec := doJSON(t, r, "GET", "/api/stats/clients?type=week", adminTok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("client stats: %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, "GET", "/api/stats/financial?type=month", adminTok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("financial stats: %d: %s", rec.Code, rec.Body.String())
	}
	var fin struct {
		TotalIncome *float64 `json:"totalIncome"`
		ByPeriod    []any    `json:"byPeriod"`
	}
	json.NewDecoder(rec.Body).Decode(&fin)
	if fin.TotalIncome == nil {
		t.Error("financial response missing totalIncome")
	}
	if fin.ByPeriod == nil {
		t.Error("byPeriod should be an array, got null")
	}
}

func TestStatsExport(t *testing.T) {
	r, _ := setup(t)
	adminTok := registerUser(t, r, "admin")

	for _, path := range []string{"/api/stats/clients/export", "/api/stats/financial/export?type=year"} {
		rec := doJSON(t, r, "GET", path, adminTok, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: %d: %s", path, rec.Code, rec.Body.String())
		}
		ct := rec.Header().Get("Content-Type")
		if ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
			t.Errorf("%s: content type %q", path, ct)
		}
		if rec.Header().Get("Content-Disposition") == "" {
			t.Errorf("%s: missing Content-Disposition", path)
		}
		if rec.Body.Len() == 0 {
			t.Errorf("%s: empty workbook", path)
		}
	}
}

// ----- logs -----

func TestAuditLog(t *testing.T) {
	r, _ := setup(t)
	adminTok := registerUser(t, r, "admin")

	name := fmt.Sprintf("Audited %s", uuid.New().String()[:8])
	doJSON(t, r, "POST", "/api/clients", adminTok, map[string]string{
		"name": name, "phone": uuid.New().String()[:12],
	})

	rec := doJSON(t, r, "GET", "/api/logs", adminTok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logs: %d: %s", rec.Code, rec.Body.String())
	}
	var logs []model.LogEntry
	json.NewDecoder(rec.Body).Decode(&logs)
	found := false
	for _, l := range logs {
		if l.Action == "created client "+name {
			found = true
		}
	}
	if !found {
		t.Error("client creation missing from the audit log")
	}
}
