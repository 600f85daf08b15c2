package video

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/squadcast/internal/models"
	"github.com/desertthunder/squadcast/internal/services"
	"github.com/desertthunder/squadcast/internal/shared"
	tu "github.com/desertthunder/squadcast/internal/testing"
)

const testSecret = "test-secret"

type stubEventTypes struct {
	et    *models.EventType
	err   error
	calls int
}

func (s *stubEventTypes) GetForUser(id, userID string) (*models.EventType, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.et, nil
}

func newTestAdapter(t *testing.T, fake *tu.FakeSquadCast, eventTypes EventTypeFinder) *SquadCastAdapter {
	t.Helper()

	cred := tu.SquadCastCredential(t, "user-1", "api-key", testSecret)

	logger := shared.NewLogger(io.Discard)
	srv := services.NewSquadCastService(services.SquadCastOpts{BaseURL: fake.URL, RateLimit: 1000, Logger: logger})

	return NewSquadCastAdapter(cred, AdapterOpts{
		Service:    srv,
		EventTypes: eventTypes,
		Secret:     testSecret,
		StudioURL:  "https://studio.test",
		Logger:     logger,
	})
}

func showEventTypes(t *testing.T, showID string) *stubEventTypes {
	t.Helper()
	et := models.NewEventType(0, "user-1", "Interview", 45)
	data := models.SquadCastAppData{AppData: models.AppData{Enabled: true}, ShowID: showID}
	if err := et.SetAppData(models.SquadCast.Slug, data); err != nil {
		t.Fatalf("failed to set app data: %v", err)
	}
	return &stubEventTypes{et: et}
}

func disabledEventTypes(t *testing.T, showID string) *stubEventTypes {
	t.Helper()
	et := models.NewEventType(0, "user-1", "Interview", 45)
	data := models.SquadCastAppData{AppData: models.AppData{Enabled: false}, ShowID: showID}
	if err := et.SetAppData(models.SquadCast.Slug, data); err != nil {
		t.Fatalf("failed to set app data: %v", err)
	}
	return &stubEventTypes{et: et}
}

func testEvent() models.CalendarEvent {
	return models.CalendarEvent{
		UID:       "booking-1",
		Title:     "Interview",
		StartTime: time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 5, 1, 16, 15, 0, 0, time.UTC),
		Organizer: models.Person{ID: "user-1", Email: "host@example.com", TimeZone: "America/New_York"},
		Attendees: []models.Person{
			{Email: "a@example.com", TimeZone: "UTC"},
			{Email: "b@example.com", TimeZone: "UTC"},
		},
		EventTypeID: "et-1",
	}
}

// lateEvent starts at 02:00 UTC, which is still the previous day in New York.
func lateEvent() models.CalendarEvent {
	event := testEvent()
	event.StartTime = time.Date(2024, 5, 1, 2, 0, 0, 0, time.UTC)
	event.EndTime = time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)
	return event
}

func TestSquadCastAdapter(t *testing.T) {
	ctx := context.Background()

	t.Run("GetAvailability", func(t *testing.T) {
		adapter := newTestAdapter(t, tu.NewFakeSquadCast(t), nil)

		slots, err := adapter.GetAvailability(ctx, time.Now(), time.Now().Add(time.Hour))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if slots == nil || len(slots) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", slots)
		}
	})

	t.Run("CreateMeeting", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			fake := tu.NewFakeSquadCast(t)
			fake.SessionJSON = `{"sessionID":"sess-42","showID":"show-9"}`
			adapter := newTestAdapter(t, fake, showEventTypes(t, "show-9"))

			call, err := adapter.CreateMeeting(ctx, testEvent())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			want := models.VideoCallData{
				Type: "squadcast_video",
				ID:   "sess-42",
				URL:  "https://studio.test/studio/show-9/session/sess-42",
			}
			if call != want {
				t.Errorf("expected %+v, got %+v", want, call)
			}

			req := fake.Last()
			if req.Method != http.MethodPost || req.Path != "/v2/sessions" {
				t.Errorf("unexpected request %s %s", req.Method, req.Path)
			}
			if req.Authorization != "Bearer api-key" {
				t.Errorf("expected decrypted bearer key, got %q", req.Authorization)
			}
			if req.ContentType != "application/x-www-form-urlencoded; charset=utf-8" {
				t.Errorf("unexpected content type %q", req.ContentType)
			}

			wantBody := "sessionTitle=Interview&date=2024-05-01&startTime=11%3A30+AM&endTime=12%3A15+PM" +
				"&timeZone=America%2FNew_York&showID=show-9&stage=a%40example.com&stage=b%40example.com"
			if req.Body != wantBody {
				t.Errorf("unexpected form body\n got: %s\nwant: %s", req.Body, wantBody)
			}
		})

		t.Run("Date Is UTC While Times Are Local", func(t *testing.T) {
			fake := tu.NewFakeSquadCast(t)
			adapter := newTestAdapter(t, fake, nil)

			if _, err := adapter.CreateMeeting(ctx, lateEvent()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			form := fake.Last().Form
			if form.Get("date") != "2024-05-01" {
				t.Errorf("expected UTC date 2024-05-01, got %s", form.Get("date"))
			}
			if form.Get("startTime") != "10:00 PM" || form.Get("endTime") != "11:00 PM" {
				t.Errorf("expected organizer local times, got %s - %s", form.Get("startTime"), form.Get("endTime"))
			}
			if form.Get("timeZone") != "America/New_York" {
				t.Errorf("expected organizer zone, got %s", form.Get("timeZone"))
			}
		})

		t.Run("Rejected Returns Empty Data", func(t *testing.T) {
			fake := tu.NewFakeSquadCast(t)
			fake.CreateStatus = http.StatusBadRequest
			adapter := newTestAdapter(t, fake, nil)

			call, err := adapter.CreateMeeting(ctx, testEvent())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !call.Empty() {
				t.Errorf("expected empty call data, got %+v", call)
			}
		})

		t.Run("Show Lookup Skipped", func(t *testing.T) {
			tests := []struct {
				name   string
				mutate func(*models.CalendarEvent)
				finder *stubEventTypes
				calls  int
			}{
				{
					name:   "no event type",
					mutate: func(e *models.CalendarEvent) { e.EventTypeID = "" },
					finder: &stubEventTypes{},
					calls:  0,
				},
				{
					name:   "no organizer id",
					mutate: func(e *models.CalendarEvent) { e.Organizer.ID = "" },
					finder: &stubEventTypes{},
					calls:  0,
				},
				{
					name:   "event type not found",
					mutate: func(e *models.CalendarEvent) {},
					finder: &stubEventTypes{err: shared.ErrNotFound},
					calls:  1,
				},
				{
					name:   "app disabled",
					mutate: func(e *models.CalendarEvent) {},
					finder: disabledEventTypes(t, "show-9"),
					calls:  1,
				},
				{
					name:   "no show configured",
					mutate: func(e *models.CalendarEvent) {},
					finder: &stubEventTypes{et: models.NewEventType(0, "user-1", "Interview", 45)},
					calls:  1,
				},
			}

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					fake := tu.NewFakeSquadCast(t)
					adapter := newTestAdapter(t, fake, tt.finder)

					event := testEvent()
					tt.mutate(&event)

					if _, err := adapter.CreateMeeting(ctx, event); err != nil {
						t.Fatalf("expected no error, got %v", err)
					}
					if strings.Contains(fake.Last().Body, "showID=") {
						t.Errorf("expected no showID, got %s", fake.Last().Body)
					}
					if tt.finder.calls != tt.calls {
						t.Errorf("expected %d lookups, got %d", tt.calls, tt.finder.calls)
					}
				})
			}
		})

		t.Run("Wrong Secret", func(t *testing.T) {
			fake := tu.NewFakeSquadCast(t)
			adapter := newTestAdapter(t, fake, nil)
			adapter.secret = "other-secret"

			if _, err := adapter.CreateMeeting(ctx, testEvent()); err == nil {
				t.Fatal("expected decrypt error")
			}
			if len(fake.Requests()) != 0 {
				t.Error("expected no request to be sent")
			}
		})
	})

	t.Run("UpdateMeeting", func(t *testing.T) {
		ref := models.PartialReference{
			MeetingID:  "sess-1",
			MeetingURL: "https://studio.test/studio/show-1/session/sess-1",
		}

		t.Run("Echoes Reference", func(t *testing.T) {
			fake := tu.NewFakeSquadCast(t)
			adapter := newTestAdapter(t, fake, nil)

			call, err := adapter.UpdateMeeting(ctx, ref, testEvent())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if call.ID != "sess-1" || call.URL != ref.MeetingURL || call.Type != "squadcast_video" {
				t.Errorf("unexpected call data %+v", call)
			}

			req := fake.Last()
			if req.Method != http.MethodPut || req.Path != "/v2/sessions/sess-1" {
				t.Errorf("unexpected request %s %s", req.Method, req.Path)
			}
			if req.Form.Get("sessionTitle") != "Interview" {
				t.Errorf("expected form to be sent, got %s", req.Body)
			}
		})

		t.Run("Times Are UTC", func(t *testing.T) {
			fake := tu.NewFakeSquadCast(t)
			adapter := newTestAdapter(t, fake, nil)

			if _, err := adapter.UpdateMeeting(ctx, ref, lateEvent()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			form := fake.Last().Form
			if form.Get("date") != "2024-05-01" {
				t.Errorf("expected UTC date 2024-05-01, got %s", form.Get("date"))
			}
			if form.Get("startTime") != "02:00 AM" || form.Get("endTime") != "03:00 AM" {
				t.Errorf("expected UTC times, got %s - %s", form.Get("startTime"), form.Get("endTime"))
			}
			if form.Get("timeZone") != "America/New_York" {
				t.Errorf("expected organizer zone, got %s", form.Get("timeZone"))
			}
		})

		t.Run("Ignores Provider Status", func(t *testing.T) {
			fake := tu.NewFakeSquadCast(t)
			fake.UpdateStatus = http.StatusInternalServerError
			adapter := newTestAdapter(t, fake, nil)

			call, err := adapter.UpdateMeeting(ctx, ref, testEvent())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if call.ID != "sess-1" {
				t.Errorf("expected reference echoed, got %+v", call)
			}
		})

		t.Run("Missing Meeting ID", func(t *testing.T) {
			fake := tu.NewFakeSquadCast(t)
			adapter := newTestAdapter(t, fake, nil)

			call, err := adapter.UpdateMeeting(ctx, models.PartialReference{}, testEvent())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !call.Empty() {
				t.Errorf("expected empty call data, got %+v", call)
			}
			if len(fake.Requests()) != 0 {
				t.Error("expected no request to be sent")
			}
		})
	})

	t.Run("DeleteMeeting", func(t *testing.T) {
		tests := []struct {
			name    string
			status  int
			wantErr bool
		}{
			{name: "ok", status: http.StatusOK},
			{name: "no content", status: http.StatusNoContent},
			{name: "already deleted", status: http.StatusNotFound},
			{name: "server error", status: http.StatusInternalServerError, wantErr: true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				fake := tu.NewFakeSquadCast(t)
				fake.DeleteStatus = tt.status
				adapter := newTestAdapter(t, fake, nil)

				err := adapter.DeleteMeeting(ctx, "sess-1")
				if (err != nil) != tt.wantErr {
					t.Fatalf("DeleteMeeting() error = %v, wantErr %v", err, tt.wantErr)
				}

				req := fake.Last()
				if req.Method != http.MethodDelete || req.Path != "/v2/sessions/sess-1" {
					t.Errorf("unexpected request %s %s", req.Method, req.Path)
				}
			})
		}
	})
}

func TestAdapterOpts(t *testing.T) {
	cred := models.NewCredential(0, "squadcast_video", "squadcast", "user-1", nil)

	adapter, ok := AdapterOpts{Logger: shared.NewLogger(io.Discard)}.For(cred).(*SquadCastAdapter)
	if !ok {
		t.Fatal("expected *SquadCastAdapter")
	}
	if adapter.studioURL != DefaultStudioURL {
		t.Errorf("expected default studio URL, got %s", adapter.studioURL)
	}
	if got := adapter.SessionURL("s", "x"); got != DefaultStudioURL+"/studio/s/session/x" {
		t.Errorf("unexpected session URL %s", got)
	}
}
