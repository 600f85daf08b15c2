package server

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/squadcast/internal/models"
	"github.com/desertthunder/squadcast/internal/repositories"
	"github.com/desertthunder/squadcast/internal/services"
	"github.com/desertthunder/squadcast/internal/shared"
	"github.com/desertthunder/squadcast/internal/tasks"
	tu "github.com/desertthunder/squadcast/internal/testing"
	"github.com/desertthunder/squadcast/internal/video"
)

const testSecret = "server-secret"

type testApp struct {
	handler    http.Handler
	db         *sql.DB
	fake       *tu.FakeSquadCast
	users      *repositories.UserRepository
	sessions   *repositories.SessionRepository
	creds      *repositories.CredentialRepository
	eventTypes *repositories.EventTypeRepository
	user       *models.User
	token      string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db := tu.MigratedDB(t)

	logger := shared.NewLogger(io.Discard)
	app := &testApp{
		db:         db,
		fake:       tu.NewFakeSquadCast(t),
		users:      repositories.NewUserRepository(db),
		sessions:   repositories.NewSessionRepository(db),
		creds:      repositories.NewCredentialRepository(db),
		eventTypes: repositories.NewEventTypeRepository(db),
	}

	app.user = app.createUser(t, "host@example.com")
	app.token = app.issueToken(t, app.user)

	srv := services.NewSquadCastService(services.SquadCastOpts{BaseURL: app.fake.URL, RateLimit: 1000, Logger: logger})
	adapters := video.AdapterOpts{
		Service:    srv,
		EventTypes: app.eventTypes,
		Secret:     testSecret,
		StudioURL:  "https://studio.test",
		Logger:     logger,
	}
	refs := repositories.NewBookingReferenceRepository(db)

	app.handler = New(Deps{
		Users:       app.users,
		Sessions:    app.sessions,
		Credentials: app.creds,
		EventTypes:  app.eventTypes,
		Shows:       srv,
		Lifecycle:   tasks.NewManager(app.creds, refs, adapters, logger),
		Secret:      testSecret,
		Logger:      logger,
	})
	return app
}

func (a *testApp) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := models.NewUser(0, email, "Test User")
	if err := a.users.Create(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func (a *testApp) issueToken(t *testing.T, user *models.User) string {
	t.Helper()
	session, err := a.sessions.Issue(user.ID(), time.Hour)
	if err != nil {
		t.Fatalf("failed to issue session: %v", err)
	}
	return session.Token()
}

func (a *testApp) install(t *testing.T) *models.Credential {
	t.Helper()
	return a.installKey(t, a.user, "api-key")
}

func (a *testApp) installKey(t *testing.T, user *models.User, apiKey string) *models.Credential {
	t.Helper()
	cred := tu.SquadCastCredential(t, user.ID(), apiKey, testSecret)
	if err := a.creds.Create(cred); err != nil {
		t.Fatalf("failed to create credential: %v", err)
	}
	return cred
}

// do sends a request, authenticated with token when it is non-empty
func (a *testApp) do(method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode body %q: %v", rec.Body.String(), err)
	}
	return v
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if rec.Code != status {
		t.Errorf("expected status %d, got %d (%s)", status, rec.Code, rec.Body.String())
	}
	if got := decodeBody[ErrorBody](t, rec).Message; got != message {
		t.Errorf("expected message %q, got %q", message, got)
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %s", ct)
	}
	if got := decodeBody[map[string]string](t, rec)["status"]; got != "ok" {
		t.Errorf("expected status ok, got %s", got)
	}

	if rec := app.do(http.MethodPost, "/health", "", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for POST /health, got %d", rec.Code)
	}
}

func TestAddHandler(t *testing.T) {
	const path = "/api/integrations/squadcast/add"

	t.Run("GET Returns Setup URL", func(t *testing.T) {
		app := newTestApp(t)

		rec := app.do(http.MethodGet, path, "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := decodeBody[URLBody](t, rec).URL; got != "/apps/squadcast/setup" {
			t.Errorf("expected setup URL, got %s", got)
		}
	})

	t.Run("POST Stores Encrypted Key", func(t *testing.T) {
		app := newTestApp(t)

		rec := app.do(http.MethodPost, path, `{"apiKey":"sk_live_123"}`, app.token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
		}
		if got := decodeBody[URLBody](t, rec).URL; got != "/apps/installed/conferencing?hl=squadcast" {
			t.Errorf("expected installed app URL, got %s", got)
		}

		cred, err := app.creds.FindByUserAndType(app.user.ID(), "squadcast_video")
		if err != nil {
			t.Fatalf("expected credential, got %v", err)
		}
		if cred.AppID() != "squadcast" || cred.TeamID() != nil || cred.Invalid() {
			t.Errorf("unexpected credential fields: %s %v %v", cred.AppID(), cred.TeamID(), cred.Invalid())
		}

		encrypted, err := cred.EncryptedAPIKey()
		if err != nil {
			t.Fatalf("failed to read key: %v", err)
		}
		if encrypted == "sk_live_123" {
			t.Error("expected key to be stored encrypted")
		}
		plain, err := shared.SymmetricDecrypt(encrypted, testSecret)
		if err != nil || plain != "sk_live_123" {
			t.Errorf("SymmetricDecrypt() = %q, %v", plain, err)
		}
	})

	t.Run("POST Requires Session", func(t *testing.T) {
		app := newTestApp(t)

		rec := app.do(http.MethodPost, path, `{"apiKey":"k"}`, "")
		assertError(t, rec, http.StatusUnauthorized, "You must be logged in to do this")
	})

	t.Run("POST With Deleted User", func(t *testing.T) {
		app := newTestApp(t)
		if err := app.users.Delete(app.user.ID()); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}

		rec := app.do(http.MethodPost, path, `{"apiKey":"k"}`, app.token)
		assertError(t, rec, http.StatusUnauthorized, "You must be logged in to do this")
	})

	t.Run("POST Without Key", func(t *testing.T) {
		app := newTestApp(t)

		for _, body := range []string{`{}`, `{"apiKey":""}`, `not json`} {
			if rec := app.do(http.MethodPost, path, body, app.token); rec.Code != http.StatusBadRequest {
				t.Errorf("body %s: expected 400, got %d", body, rec.Code)
			}
		}
	})

	t.Run("POST Store Failure", func(t *testing.T) {
		app := newTestApp(t)
		if _, err := app.db.Exec(`DROP TABLE booking_references`); err != nil {
			t.Fatalf("failed to drop table: %v", err)
		}
		if _, err := app.db.Exec(`DROP TABLE credentials`); err != nil {
			t.Fatalf("failed to drop table: %v", err)
		}

		rec := app.do(http.MethodPost, path, `{"apiKey":"k"}`, app.token)
		assertError(t, rec, http.StatusInternalServerError, "Could not add this SquadCast account")
	})

	t.Run("Other Methods", func(t *testing.T) {
		app := newTestApp(t)

		rec := app.do(http.MethodDelete, path, "", app.token)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}

func TestCaptureHandler(t *testing.T) {
	const path = "/api/integrations/squadcast/capture"

	t.Run("Non-GET", func(t *testing.T) {
		app := newTestApp(t)

		rec := app.do(http.MethodPost, path, "", app.token)
		assertError(t, rec, http.StatusInternalServerError, "Something went wrong")
	})

	t.Run("No Session", func(t *testing.T) {
		app := newTestApp(t)

		rec := app.do(http.MethodGet, path, "", "")
		assertError(t, rec, http.StatusUnauthorized, "You must be logged in to do this")
	})

	t.Run("Not Installed", func(t *testing.T) {
		app := newTestApp(t)

		rec := app.do(http.MethodGet, path, "", app.token)
		assertError(t, rec, http.StatusForbidden, "You must install the app first")
	})

	t.Run("Lists Shows", func(t *testing.T) {
		app := newTestApp(t)
		app.install(t)
		app.fake.ShowsJSON = `[
			{"showID":"a","showDetails":{"showName":"Alpha"}},
			{"showID":"b","showDetails":{"showName":"Beta"}},
			{"showID":"a","showDetails":{"showName":"Alpha Two"}}
		]`

		rec := app.do(http.MethodGet, path, "", app.token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
		}

		want := `{"shows":[["a","Alpha Two"],["b","Beta"]]}`
		if got := strings.TrimSpace(rec.Body.String()); got != want {
			t.Errorf("expected %s, got %s", want, got)
		}

		req := app.fake.Last()
		if req.Path != "/v2/shows" || req.Authorization != "Bearer api-key" {
			t.Errorf("unexpected provider request %s %s", req.Path, req.Authorization)
		}
	})

	t.Run("Empty Show List", func(t *testing.T) {
		app := newTestApp(t)
		app.install(t)

		rec := app.do(http.MethodGet, path, "", app.token)
		if got := strings.TrimSpace(rec.Body.String()); got != `{"shows":[]}` {
			t.Errorf("expected empty shows, got %s", got)
		}
	})

	t.Run("Provider Failure", func(t *testing.T) {
		app := newTestApp(t)
		app.install(t)
		app.fake.ShowsStatus = http.StatusBadGateway

		rec := app.do(http.MethodGet, path, "", app.token)
		assertError(t, rec, http.StatusInternalServerError, "Could not fetch data from Squadcast")
	})

	t.Run("Rejected Key Marks Credential Invalid", func(t *testing.T) {
		app := newTestApp(t)
		cred := app.install(t)
		app.fake.ShowsStatus = http.StatusUnauthorized

		rec := app.do(http.MethodGet, path, "", app.token)
		assertError(t, rec, http.StatusInternalServerError, "Could not fetch data from Squadcast")

		stored, err := app.creds.Get(cred.ID())
		if err != nil {
			t.Fatalf("failed to reload credential: %v", err)
		}
		if !stored.Invalid() {
			t.Error("expected credential to be marked invalid")
		}
	})

	t.Run("Malformed Provider Body", func(t *testing.T) {
		for _, body := range []string{`{"shows":"nope"}`, `null`, `[{"id":"x"}]`, `[{"showID":"s1"}]`} {
			app := newTestApp(t)
			app.install(t)
			app.fake.ShowsJSON = body

			rec := app.do(http.MethodGet, path, "", app.token)
			assertError(t, rec, http.StatusInternalServerError, "Something went wrong")
		}
	})

	t.Run("Reinstall After Rejected Key", func(t *testing.T) {
		app := newTestApp(t)
		app.install(t)
		app.fake.ShowsStatus = http.StatusUnauthorized

		app.do(http.MethodGet, path, "", app.token)

		rec := app.do(http.MethodPost, "/api/integrations/squadcast/add", `{"apiKey":"new-key"}`, app.token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected reinstall to succeed, got %d (%s)", rec.Code, rec.Body.String())
		}

		app.fake.ShowsStatus = http.StatusOK
		rec = app.do(http.MethodGet, path, "", app.token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 after reinstall, got %d (%s)", rec.Code, rec.Body.String())
		}
		if got := app.fake.Last().Authorization; got != "Bearer new-key" {
			t.Errorf("expected the reinstalled key, got %q", got)
		}
	})
}

func TestEventTypeAppHandler(t *testing.T) {
	setup := func(t *testing.T) (*testApp, *models.EventType, string) {
		t.Helper()
		app := newTestApp(t)
		et := models.NewEventType(0, app.user.ID(), "Podcast Interview", 60)
		if err := app.eventTypes.Create(et); err != nil {
			t.Fatalf("failed to create event type: %v", err)
		}
		return app, et, "/api/event-types/" + et.ID() + "/apps/squadcast"
	}

	t.Run("GET Defaults", func(t *testing.T) {
		app, _, path := setup(t)

		rec := app.do(http.MethodGet, path, "", app.token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := decodeBody[AppCardBody](t, rec); got != (AppCardBody{}) {
			t.Errorf("expected empty card, got %+v", got)
		}
	})

	t.Run("PUT Associates Show", func(t *testing.T) {
		app, et, path := setup(t)

		rec := app.do(http.MethodPut, path, `{"enabled":true,"showID":"show-9"}`, app.token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
		}

		stored, err := app.eventTypes.Get(et.ID())
		if err != nil {
			t.Fatalf("failed to reload event type: %v", err)
		}
		if showID, _ := stored.SquadCastShowID(); showID != "show-9" {
			t.Errorf("expected show-9, got %s", showID)
		}

		rec = app.do(http.MethodPut, path, `{"enabled":false}`, app.token)
		if got := decodeBody[AppCardBody](t, rec); got != (AppCardBody{Enabled: false, ShowID: "show-9"}) {
			t.Errorf("expected partial update to keep show, got %+v", got)
		}
	})

	t.Run("Disabled App Sends No Show", func(t *testing.T) {
		app, et, path := setup(t)
		app.install(t)

		app.do(http.MethodPut, path, `{"enabled":true,"showID":"show-9"}`, app.token)
		app.do(http.MethodPut, path, `{"enabled":false}`, app.token)

		booking := `{"trigger":"BOOKING_CREATED","booking":{
			"uid":"booking-1",
			"title":"Interview",
			"startTime":"2024-05-01T15:00:00Z",
			"endTime":"2024-05-01T16:00:00Z",
			"organizer":{"timeZone":"UTC"},
			"attendees":[],
			"eventTypeId":"` + et.ID() + `"
		}}`
		rec := app.do(http.MethodPost, "/api/bookings/events", booking, app.token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
		}
		if body := app.fake.Last().Body; strings.Contains(body, "showID=") {
			t.Errorf("expected no showID for a disabled app, got %s", body)
		}
	})

	t.Run("Other Owner", func(t *testing.T) {
		app, _, path := setup(t)
		other := app.createUser(t, "other@example.com")

		rec := app.do(http.MethodPut, path, `{"showID":"x"}`, app.issueToken(t, other))
		assertError(t, rec, http.StatusNotFound, "Not found")
	})

	t.Run("No Session", func(t *testing.T) {
		app, _, path := setup(t)

		rec := app.do(http.MethodGet, path, "", "")
		assertError(t, rec, http.StatusUnauthorized, "You must be logged in to do this")
	})
}

func TestBookingsHandler(t *testing.T) {
	const path = "/api/bookings/events"

	booking := func(trigger string) string {
		return `{"trigger":"` + trigger + `","booking":{
			"uid":"booking-1",
			"title":"Interview",
			"startTime":"2024-05-01T15:00:00Z",
			"endTime":"2024-05-01T16:00:00Z",
			"organizer":{"email":"host@example.com","timeZone":"Europe/London"},
			"attendees":[{"email":"guest@example.com","timeZone":"UTC"}]
		}}`
	}

	t.Run("Created Then Cancelled", func(t *testing.T) {
		app := newTestApp(t)
		app.install(t)

		rec := app.do(http.MethodPost, path, booking("BOOKING_CREATED"), app.token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
		}

		resp := decodeBody[BookingEventResponse](t, rec)
		if resp.Reference == nil || resp.Reference.MeetingURL != "https://studio.test/studio/show-1/session/sess-1" {
			t.Errorf("unexpected reference %+v", resp.Reference)
		}
		if form := app.fake.Last().Form; form.Get("startTime") != "04:00 PM" || form.Get("timeZone") != "Europe/London" {
			t.Errorf("expected organizer local time, got %v", form)
		}

		rec = app.do(http.MethodPost, path, booking("BOOKING_CANCELLED"), app.token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
		}
		if app.fake.Last().Method != http.MethodDelete {
			t.Errorf("expected delete request, got %s", app.fake.Last().Method)
		}
	})

	t.Run("Another User's Booking", func(t *testing.T) {
		app := newTestApp(t)
		app.install(t)
		if rec := app.do(http.MethodPost, path, booking("BOOKING_CREATED"), app.token); rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
		}
		other := app.issueToken(t, app.createUser(t, "other@example.com"))

		rec := app.do(http.MethodPost, path, booking("BOOKING_CANCELLED"), other)
		if rec.Code != http.StatusOK {
			t.Errorf("expected cancel of an unknown booking to be a no-op, got %d", rec.Code)
		}
		rec = app.do(http.MethodPost, path, booking("BOOKING_RESCHEDULED"), other)
		assertError(t, rec, http.StatusForbidden, "You must install the app first")

		for _, req := range app.fake.Requests() {
			if req.Method != http.MethodPost {
				t.Errorf("expected only the owner's create, got %s %s auth=%s", req.Method, req.Path, req.Authorization)
			}
		}

		rec = app.do(http.MethodPost, path, booking("BOOKING_CANCELLED"), app.token)
		if rec.Code != http.StatusOK || app.fake.Last().Method != http.MethodDelete {
			t.Errorf("expected the owner to still cancel, got %d %s", rec.Code, app.fake.Last().Method)
		}
	})

	t.Run("Repeated Create", func(t *testing.T) {
		app := newTestApp(t)
		app.install(t)

		app.do(http.MethodPost, path, booking("BOOKING_CREATED"), app.token)
		rec := app.do(http.MethodPost, path, booking("BOOKING_CREATED"), app.token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
		}
		if resp := decodeBody[BookingEventResponse](t, rec); !resp.Existing || resp.VideoCallData.ID != "sess-1" {
			t.Errorf("expected existing session, got %+v", resp)
		}
		if got := len(app.fake.Requests()); got != 1 {
			t.Errorf("expected one create request, got %d", got)
		}
	})

	t.Run("Reinstall After Rejected Key", func(t *testing.T) {
		app := newTestApp(t)
		cred := app.install(t)
		if err := app.creds.MarkInvalid(cred.ID()); err != nil {
			t.Fatalf("failed to mark credential invalid: %v", err)
		}

		rec := app.do(http.MethodPost, path, booking("BOOKING_CREATED"), app.token)
		assertError(t, rec, http.StatusForbidden, "Your SquadCast API key was rejected, reinstall the app")

		app.installKey(t, app.user, "new-key")

		rec = app.do(http.MethodPost, path, booking("BOOKING_CREATED"), app.token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 after reinstall, got %d (%s)", rec.Code, rec.Body.String())
		}
		if got := app.fake.Last().Authorization; got != "Bearer new-key" {
			t.Errorf("expected the reinstalled key, got %q", got)
		}
	})

	t.Run("Malformed Session Response", func(t *testing.T) {
		app := newTestApp(t)
		app.install(t)
		app.fake.SessionJSON = `{"showID":"show-1"}`

		rec := app.do(http.MethodPost, path, booking("BOOKING_CREATED"), app.token)
		assertError(t, rec, http.StatusInternalServerError, "Something went wrong")
	})

	t.Run("Unknown Trigger", func(t *testing.T) {
		app := newTestApp(t)

		rec := app.do(http.MethodPost, path, booking("BOOKING_PAID"), app.token)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("Not Installed", func(t *testing.T) {
		app := newTestApp(t)

		rec := app.do(http.MethodPost, path, booking("BOOKING_CREATED"), app.token)
		assertError(t, rec, http.StatusForbidden, "You must install the app first")
	})

	t.Run("No Session", func(t *testing.T) {
		app := newTestApp(t)

		rec := app.do(http.MethodPost, path, booking("BOOKING_CREATED"), "")
		assertError(t, rec, http.StatusUnauthorized, "You must be logged in to do this")
	})
}
