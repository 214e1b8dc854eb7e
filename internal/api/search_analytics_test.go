package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Leiracamera/clarityPMDD/internal/models"
	"github.com/Leiracamera/clarityPMDD/internal/services"
)

func TestSearchWithoutDateRendersInitialState(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, services.AccessModeOwner)
	user := createTestUser(t, app.database, "search@example.com")
	cookie := loginTestUser(t, app.app, user.Email)

	response := testRequest(t, app.app, http.MethodGet, "/search", nil, cookie, "")
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}
	body := readBody(t, response)
	if strings.Contains(body, searchNoMatch) {
		t.Fatalf("expected no search message before a date is submitted")
	}
	if !strings.Contains(body, `name="date"`) {
		t.Fatalf("expected search form")
	}
}

func TestSearchByDate(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, services.AccessModeOwner)
	user := createTestUser(t, app.database, "search@example.com")
	other := createTestUser(t, app.database, "other@example.com")
	cookie := loginTestUser(t, app.app, user.Email)
	insertTestEntry(t, app.database, models.EntryFields{Date: testDate("2024-05-01"), Notes: textValue("found-note")}, models.EntriesOwnedBy(user.ID))
	insertTestEntry(t, app.database, models.EntryFields{Date: testDate("2024-05-02"), Notes: textValue("foreign-note")}, models.EntriesOwnedBy(other.ID))

	matchResponse := testRequest(t, app.app, http.MethodGet, "/search?date=2024-05-01", nil, cookie, "")
	defer matchResponse.Body.Close()
	if matchResponse.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", matchResponse.StatusCode)
	}
	if body := readBody(t, matchResponse); !strings.Contains(body, "found-note") {
		t.Fatalf("expected matching entry in search result")
	}

	missResponse := testRequest(t, app.app, http.MethodGet, "/search?date=2024-06-01", nil, cookie, "")
	defer missResponse.Body.Close()
	if missResponse.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for no match, got %d", missResponse.StatusCode)
	}
	if body := readBody(t, missResponse); !strings.Contains(body, searchNoMatch) {
		t.Fatalf("expected no-match message")
	}

	foreignResponse := testRequest(t, app.app, http.MethodGet, "/search?date=2024-05-02", nil, cookie, "application/json")
	defer foreignResponse.Body.Close()
	payload := map[string]any{}
	decodeJSON(t, foreignResponse, &payload)
	if payload["found"] != false {
		t.Fatalf("expected other user's entry to be invisible to search, got %#v", payload)
	}

	invalidResponse := testRequest(t, app.app, http.MethodGet, "/search?date=yesterday", nil, cookie, "application/json")
	defer invalidResponse.Body.Close()
	if invalidResponse.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid date, got %d", invalidResponse.StatusCode)
	}
}

func TestAnalyticsReturnsLastMonthOfMoods(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, services.AccessModeOwner)
	app.handler.now = func() time.Time { return time.Date(2024, time.May, 25, 15, 0, 0, 0, time.UTC) }
	user := createTestUser(t, app.database, "analytics@example.com")
	other := createTestUser(t, app.database, "other@example.com")
	cookie := loginTestUser(t, app.app, user.Email)

	insertTestEntry(t, app.database, models.EntryFields{Date: testDate("2024-03-01"), Mood: textValue("1")}, models.EntriesOwnedBy(user.ID))
	insertTestEntry(t, app.database, models.EntryFields{Date: testDate("2024-05-20"), Mood: textValue("4")}, models.EntriesOwnedBy(user.ID))
	insertTestEntry(t, app.database, models.EntryFields{Date: testDate("2024-05-01"), Mood: textValue("3")}, models.EntriesOwnedBy(user.ID))
	insertTestEntry(t, app.database, models.EntryFields{Date: testDate("2024-05-10"), Mood: textValue("9")}, models.EntriesOwnedBy(other.ID))

	response := testRequest(t, app.app, http.MethodGet, "/analytics", nil, cookie, "application/json")
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}

	trend := services.MoodTrend{}
	decodeJSON(t, response, &trend)
	if strings.Join(trend.Dates, ",") != "2024-05-01,2024-05-20" {
		t.Fatalf("unexpected dates %v", trend.Dates)
	}
	if strings.Join(trend.Moods, ",") != "3,4" {
		t.Fatalf("unexpected moods %v", trend.Moods)
	}

	pageResponse := testRequest(t, app.app, http.MethodGet, "/analytics", nil, cookie, "")
	defer pageResponse.Body.Close()
	body := readBody(t, pageResponse)
	if !strings.Contains(body, `["2024-05-01","2024-05-20"]`) || !strings.Contains(body, `["3","4"]`) {
		t.Fatalf("expected chart arrays embedded as JSON")
	}
}
