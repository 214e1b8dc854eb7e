package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Leiracamera/clarityPMDD/internal/db"
	"github.com/Leiracamera/clarityPMDD/internal/models"
	"github.com/Leiracamera/clarityPMDD/internal/services"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "StrongPass1"

type testApp struct {
	app      *fiber.App
	database *gorm.DB
	handler  *Handler
}

type googleProviderStub struct {
	profile services.GoogleProfile
	err     error
	codes   []string
}

func (stub *googleProviderStub) AuthCodeURL(state string) string {
	return "https://accounts.example.test/auth?state=" + url.QueryEscape(state)
}

func (stub *googleProviderStub) Exchange(_ context.Context, code string) (services.GoogleProfile, error) {
	stub.codes = append(stub.codes, code)
	return stub.profile, stub.err
}

func newTestApp(t *testing.T, mode services.AccessMode) *testApp {
	t.Helper()
	return newTestAppWithGoogle(t, mode, nil)
}

func newTestAppWithGoogle(t *testing.T, mode services.AccessMode, google GoogleProvider) *testApp {
	t.Helper()
	return buildTestApp(t, mode, google, time.UTC)
}

func newTestAppInLocation(t *testing.T, mode services.AccessMode, location *time.Location) *testApp {
	t.Helper()
	return buildTestApp(t, mode, nil, location)
}

func buildTestApp(t *testing.T, mode services.AccessMode, google GoogleProvider, location *time.Location) *testApp {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "clarity-api-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	repositories := db.NewRepositories(database)
	handler, err := NewHandler(Options{
		Entries:   services.NewEntryService(repositories.Entries, location),
		Auth:      services.NewAuthService(repositories.Users),
		Policy:    services.NewAccessPolicy(mode),
		Google:    google,
		SecretKey: "test-secret-key",
		Location:  location,
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return &testApp{app: app, database: database, handler: handler}
}

func createTestUser(t *testing.T, database *gorm.DB, email string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	passwordHash := string(hash)
	user := models.User{
		Email:        email,
		PasswordHash: &passwordHash,
		Username:     strings.Split(email, "@")[0],
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.NewUserRepository(database).Create(context.Background(), &user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// loginTestUser returns the Cookie header value of a fresh session.
func loginTestUser(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	form := url.Values{"email": {email}, "password": {testPassword}}
	response := testRequest(t, app, http.MethodPost, "/login", form, "", "")
	defer response.Body.Close()

	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected login status 303, got %d", response.StatusCode)
	}
	cookie := responseCookie(response.Cookies(), authCookieName)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected auth cookie after login")
	}
	return authCookieName + "=" + cookie.Value
}

func testRequest(t *testing.T, app *fiber.App, method string, target string, form url.Values, cookie string, accept string) *http.Response {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	request := httptest.NewRequest(method, target, body)
	if form != nil {
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != "" {
		request.Header.Set("Cookie", cookie)
	}
	if accept != "" {
		request.Header.Set("Accept", accept)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, target, err)
	}
	return response
}

func readBody(t *testing.T, response *http.Response) string {
	t.Helper()

	bytes, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return string(bytes)
}

func decodeJSON(t *testing.T, response *http.Response, target any) {
	t.Helper()

	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func readAPIError(t *testing.T, response *http.Response) string {
	t.Helper()

	payload := map[string]string{}
	decodeJSON(t, response, &payload)
	return payload["error"]
}

func insertTestEntry(t *testing.T, database *gorm.DB, fields models.EntryFields, scope models.EntryScope) models.Entry {
	t.Helper()

	entry, err := db.NewEntryRepository(database).Insert(context.Background(), fields, scope)
	if err != nil {
		t.Fatalf("insert entry: %v", err)
	}
	return entry
}

func loadTestEntry(t *testing.T, database *gorm.DB, entryID uint) (models.Entry, bool) {
	t.Helper()

	entry, found, err := db.NewEntryRepository(database).FindByID(context.Background(), models.UnscopedEntries(), entryID)
	if err != nil {
		t.Fatalf("load entry: %v", err)
	}
	return entry, found
}

func testDate(value string) *time.Time {
	day, err := time.ParseInLocation(services.DateLayout, value, time.UTC)
	if err != nil {
		panic(err)
	}
	return &day
}

func textValue(value string) *string {
	return &value
}
