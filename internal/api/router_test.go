package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/sharebnb/sharebnb-api/internal/api/handler"
	"github.com/sharebnb/sharebnb-api/internal/core/auth"
	"github.com/sharebnb/sharebnb-api/internal/core/domain"
	"github.com/sharebnb/sharebnb-api/internal/core/service"
)

const testSecret = "router-test-secret"

type testEnv struct {
	e     *echo.Echo
	store *memStore
	blobs *memBlobs
}

func newTestEnv(t *testing.T, health map[string]handler.Pinger) *testEnv {
	t.Helper()
	log := zerolog.Nop()
	store := newMemStore("u1", "u2")
	store.addListing(domain.Listing{
		ID: 1, Title: "Backyard", Type: "yard", Price: 100,
		Description: "Sunny", Location: "SF", OwnerUsername: "u1",
	})
	blobs := newMemBlobs()

	ledger := service.NewBookingLedger(bookingStore{store}, log)
	listings := service.NewListingService(store, ledger, blobs, nopReleaser{}, nil, log)
	registry := prometheus.NewRegistry()

	e := NewRouter(Deps{
		Log:        log,
		Resolver:   auth.NewResolver(testSecret),
		Auth:       stubAuth{},
		Listings:   listings,
		Owners:     store,
		Users:      stubUsers{},
		Messages:   stubMessages{},
		Photos:     service.NewPhotoService(blobs),
		Health:     health,
		Registerer: registry,
		Gatherer:   registry,
	})
	return &testEnv{e: e, store: store, blobs: blobs}
}

func token(t *testing.T, username string) string {
	t.Helper()
	tok, err := auth.NewIssuer(testSecret, time.Hour).Issue(username)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func (env *testEnv) do(t *testing.T, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if user != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, user))
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return out
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	envelope, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("missing error envelope: %v", body)
	}
	if envelope["status"] != float64(status) {
		t.Errorf("envelope status: got %v", envelope["status"])
	}
	if msg, _ := envelope["message"].(string); msg == "" {
		t.Errorf("envelope message empty: %v", envelope)
	}
}

func TestPatchListing_OwnershipScenario(t *testing.T) {
	env := newTestEnv(t, nil)

	assertError(t, env.do(t, http.MethodPatch, "/listings/1", "", `{"price":150}`), http.StatusUnauthorized)
	assertError(t, env.do(t, http.MethodPatch, "/listings/1", "u2", `{"price":150}`), http.StatusUnauthorized)

	l, _ := env.store.FindByID(context.Background(), 1)
	if l.Price != 100 {
		t.Fatalf("rejected patch changed the listing: price %d", l.Price)
	}

	before := env.store.finds
	rec := env.do(t, http.MethodPatch, "/listings/1", "u1", `{"price":150,"ownerUsername":"u2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if lookups := env.store.finds - before; lookups != 1 {
		t.Errorf("listing looked up %d times, want 1", lookups)
	}

	listing := decode(t, rec)["listing"].(map[string]any)
	if listing["price"] != float64(150) || listing["title"] != "Backyard" || listing["ownerUsername"] != "u1" {
		t.Errorf("unexpected listing %v", listing)
	}
}

func TestOwnerGate_AnonymousNeverLearnsExistence(t *testing.T) {
	env := newTestEnv(t, nil)

	assertError(t, env.do(t, http.MethodPatch, "/listings/999", "", `{"price":1}`), http.StatusUnauthorized)
	assertError(t, env.do(t, http.MethodDelete, "/listings/999", "", ""), http.StatusUnauthorized)
	assertError(t, env.do(t, http.MethodPatch, "/listings/999", "u1", `{"price":1}`), http.StatusNotFound)
}

func TestPatchListing_RejectsInvalidFields(t *testing.T) {
	env := newTestEnv(t, nil)

	assertError(t, env.do(t, http.MethodPatch, "/listings/1", "u1", `{"price":-5}`), http.StatusBadRequest)
	assertError(t, env.do(t, http.MethodPatch, "/listings/1", "u1", `{"title":""}`), http.StatusBadRequest)
	assertError(t, env.do(t, http.MethodPatch, "/listings/1", "u1", `{"price":"cheap"}`), http.StatusBadRequest)
	assertError(t, env.do(t, http.MethodPatch, "/listings/1", "u1", `{"price":3000000000}`), http.StatusBadRequest)

	if l, _ := env.store.FindByID(context.Background(), 1); l.Price != 100 {
		t.Errorf("rejected patch changed the price to %d", l.Price)
	}
}

func TestDeleteListing(t *testing.T) {
	env := newTestEnv(t, nil)

	assertError(t, env.do(t, http.MethodDelete, "/listings/1", "u2", ""), http.StatusUnauthorized)

	rec := env.do(t, http.MethodDelete, "/listings/1", "u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decode(t, rec)["deleted"]; got != float64(1) {
		t.Errorf("deleted: got %v", got)
	}
	assertError(t, env.do(t, http.MethodGet, "/listings/1", "", ""), http.StatusNotFound)
}

func TestBookingScenario(t *testing.T) {
	env := newTestEnv(t, nil)

	assertError(t, env.do(t, http.MethodPost, "/listings/1/book", "", ""), http.StatusUnauthorized)

	rec := env.do(t, http.MethodPost, "/listings/1/book", "u2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	booking := decode(t, rec)
	if booking["username"] != "u2" || booking["listingId"] != float64(1) {
		t.Errorf("unexpected booking %v", booking)
	}

	rec = env.do(t, http.MethodPost, "/listings/1/book", "u2", "")
	assertError(t, rec, http.StatusBadRequest)
	if msg := decode(t, rec)["error"].(map[string]any)["message"]; msg != "already booked" {
		t.Errorf("message: got %v", msg)
	}

	rec = env.do(t, http.MethodPost, "/listings/1/book", "u1", "")
	assertError(t, rec, http.StatusBadRequest)
	if msg := decode(t, rec)["error"].(map[string]any)["message"]; msg != "cannot book own listing" {
		t.Errorf("message: got %v", msg)
	}

	assertError(t, env.do(t, http.MethodPost, "/listings/42/book", "u2", ""), http.StatusNotFound)
	assertError(t, env.do(t, http.MethodPost, "/listings/1/book", "ghost", ""), http.StatusNotFound)

	rec = env.do(t, http.MethodDelete, "/listings/1/book", "u2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decode(t, rec)["cancelled"]; got != float64(1) {
		t.Errorf("cancelled: got %v", got)
	}
	assertError(t, env.do(t, http.MethodDelete, "/listings/1/book", "u2", ""), http.StatusNotFound)
}

func TestCreateListing_Multipart(t *testing.T) {
	env := newTestEnv(t, nil)

	build := func(withPhoto bool, price string) (*bytes.Buffer, string) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for k, v := range map[string]string{
			"title": "Garage", "type": "garage", "price": price, "location": "Oakland",
		} {
			_ = w.WriteField(k, v)
		}
		if withPhoto {
			part, _ := w.CreateFormFile("photo", "garage.png")
			_, _ = part.Write([]byte("\x89PNG\r\n\x1a\n0000"))
		}
		_ = w.Close()
		return &buf, w.FormDataContentType()
	}

	send := func(user string, withPhoto bool, price string) *httptest.ResponseRecorder {
		body, contentType := build(withPhoto, price)
		req := httptest.NewRequest(http.MethodPost, "/listings", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		if user != "" {
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, user))
		}
		rec := httptest.NewRecorder()
		env.e.ServeHTTP(rec, req)
		return rec
	}

	assertError(t, send("", true, "40"), http.StatusUnauthorized)
	assertError(t, send("u2", false, "40"), http.StatusBadRequest)
	assertError(t, send("u2", true, "3000000000"), http.StatusBadRequest)

	rec := send("u2", true, "40")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	listing := decode(t, rec)["listing"].(map[string]any)
	if listing["ownerUsername"] != "u2" || listing["price"] != float64(40) {
		t.Errorf("unexpected listing %v", listing)
	}
	url, _ := listing["photoUrl"].(string)
	if !strings.HasPrefix(url, "http://test/photos/") {
		t.Fatalf("photoUrl: got %q", url)
	}

	photo := env.do(t, http.MethodGet, "/photos/"+strings.TrimPrefix(url, "http://test/photos/"), "", "")
	if photo.Code != http.StatusOK || photo.Header().Get(echo.HeaderContentType) != "image/png" {
		t.Errorf("photo: status %d type %q", photo.Code, photo.Header().Get(echo.HeaderContentType))
	}
}

func TestListListings_TitleFilter(t *testing.T) {
	env := newTestEnv(t, nil)
	env.store.addListing(domain.Listing{ID: 2, Title: "Garage", OwnerUsername: "u2"})

	rec := env.do(t, http.MethodGet, "/listings?title=back", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	listings := decode(t, rec)["listings"].([]any)
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}

	all := decode(t, env.do(t, http.MethodGet, "/listings", "", ""))["listings"].([]any)
	if len(all) != 2 {
		t.Errorf("expected 2 listings, got %d", len(all))
	}
}

func TestSubjectGate(t *testing.T) {
	env := newTestEnv(t, nil)

	assertError(t, env.do(t, http.MethodGet, "/users/u1/inbox", "", ""), http.StatusUnauthorized)
	assertError(t, env.do(t, http.MethodGet, "/users/u1/inbox", "u2", ""), http.StatusUnauthorized)
	assertError(t, env.do(t, http.MethodPatch, "/users/u1", "u2", `{"firstName":"X"}`), http.StatusUnauthorized)

	if rec := env.do(t, http.MethodGet, "/users/u1/inbox", "u1", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	assertError(t, env.do(t, http.MethodPost, "/messages", "", `{"recipient":"u2","body":"hi"}`), http.StatusUnauthorized)
}

func TestErrorEnvelope(t *testing.T) {
	env := newTestEnv(t, nil)

	assertError(t, env.do(t, http.MethodGet, "/listings/abc", "", ""), http.StatusBadRequest)
	assertError(t, env.do(t, http.MethodGet, "/nowhere", "", ""), http.StatusNotFound)
	assertError(t, env.do(t, http.MethodPost, "/auth/token", "", `{"username":"u1"}`), http.StatusBadRequest)
	assertError(t, env.do(t, http.MethodPost, "/auth/token", "", `{"username":"u1","password":"nope"}`), http.StatusUnauthorized)
}

func TestReadiness(t *testing.T) {
	env := newTestEnv(t, map[string]handler.Pinger{
		"postgres": handler.PingFunc(func(context.Context) error { return nil }),
		"redis":    handler.PingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})

	rec := env.do(t, http.MethodGet, "/health/ready", "", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	deps := decode(t, rec)["dependencies"].(map[string]any)
	if deps["postgres"].(map[string]any)["status"] != "ok" || deps["redis"].(map[string]any)["status"] != "unhealthy" {
		t.Errorf("unexpected dependencies %v", deps)
	}

	if rec := env.do(t, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Errorf("liveness: got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	env.do(t, http.MethodGet, "/listings", "", "")

	rec := env.do(t, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "sharebnb_http_") {
		t.Errorf("request metrics missing from /metrics output")
	}
}
