package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kataras/iris/v12"

	"github.com/marouan1337/oussaaaa/services"
)

type stubDirectory struct {
	adminNumber    string
	adminErr       error
	earliestNumber string
}

func (s *stubDirectory) AdminWhatsappNumber(ctx context.Context) (string, error) {
	return s.adminNumber, s.adminErr
}

func (s *stubDirectory) EarliestWhatsappNumber(ctx context.Context) (string, error) {
	return s.earliestNumber, nil
}

func buildContactTestApp() *iris.Application {
	app := iris.New()
	app.Get("/api/contact-info", GetContactInfo)
	app.Build()
	return app
}

func getContactNumber(t *testing.T, app *iris.Application) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/contact-info", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	var body struct {
		WhatsappNumber string `json:"whatsappNumber"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body %q: %v", resp.Body.String(), err)
	}
	return resp.Code, body.WhatsappNumber
}

func TestGetContactInfoAdminNumber(t *testing.T) {
	contactDirectory = &stubDirectory{adminNumber: "212611111111"}
	defer func() { contactDirectory = nil }()

	app := buildContactTestApp()
	code, number := getContactNumber(t, app)
	if code != http.StatusOK || number != "212611111111" {
		t.Fatalf("got %d %q, want 200 with the admin's number", code, number)
	}
}

func TestGetContactInfoFallsBackToEarliestUser(t *testing.T) {
	contactDirectory = &stubDirectory{earliestNumber: "212622222222"}
	defer func() { contactDirectory = nil }()

	app := buildContactTestApp()
	code, number := getContactNumber(t, app)
	if code != http.StatusOK || number != "212622222222" {
		t.Fatalf("got %d %q, want 200 with the earliest user's number", code, number)
	}
}

func TestGetContactInfoEmptyDatabaseUsesDefault(t *testing.T) {
	contactDirectory = &stubDirectory{}
	defer func() { contactDirectory = nil }()

	app := buildContactTestApp()
	code, number := getContactNumber(t, app)
	if code != http.StatusOK || number != services.DefaultWhatsappNumber() {
		t.Fatalf("got %d %q, want 200 with the default number", code, number)
	}
}

func TestGetContactInfoStoreErrorStillReturnsNumber(t *testing.T) {
	contactDirectory = &stubDirectory{adminErr: errors.New("connection reset")}
	defer func() { contactDirectory = nil }()

	app := buildContactTestApp()
	code, number := getContactNumber(t, app)
	if code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 on store error", code)
	}
	// The contact button must keep working regardless.
	if number != services.DefaultWhatsappNumber() {
		t.Fatalf("number = %q, want the default", number)
	}
}
