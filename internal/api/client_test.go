package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AdrienBoutique/LeRegardDeManon-sub001/pkg/logging"
)

type staticToken string

func (s staticToken) Token(_ context.Context) (string, error) { return string(s), nil }

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient(ts.URL, logging.New("error"), opts...)
}

func TestClient_ListAppointments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/api/admin/appointments" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("from") == "" || r.URL.Query().Get("to") == "" {
			t.Fatal("expected from/to query parameters")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"apt-1","practitionerId":"stf-1","start":"2026-09-07T10:00:00Z","duration":60,"status":"confirmed"}]`))
	}, WithTokenSource(staticToken("tok-1")))

	from := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	appts, err := client.ListAppointments(context.Background(), from, from.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("ListAppointments() error = %v", err)
	}
	if len(appts) != 1 {
		t.Fatalf("len(appts) = %d, want 1", len(appts))
	}
	if appts[0].End() != appts[0].Start.Add(time.Hour) {
		t.Fatalf("End() = %v", appts[0].End())
	}
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}, WithTokenSource(staticToken("tok-abc")))

	if _, err := client.ListStaff(context.Background()); err != nil {
		t.Fatalf("ListStaff() error = %v", err)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}

func TestClient_CheckConflict(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/appointments/conflicts" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("practitionerId") != "stf-1" {
			t.Fatalf("practitionerId = %s", r.URL.Query().Get("practitionerId"))
		}
		if r.URL.Query().Get("duration") != "45" {
			t.Fatalf("duration = %s", r.URL.Query().Get("duration"))
		}
		if r.URL.Query().Get("exclude") != "apt-9" {
			t.Fatalf("exclude = %s", r.URL.Query().Get("exclude"))
		}
		_, _ = w.Write([]byte(`{"conflict":true}`))
	})

	start := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	conflict, err := client.CheckConflict(context.Background(), "stf-1", start, 45, "apt-9")
	if err != nil {
		t.Fatalf("CheckConflict() error = %v", err)
	}
	if !conflict {
		t.Fatal("expected conflict = true")
	}
}

func TestClient_CreatePublicAppointment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/appointments" {
			t.Fatalf("%s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"apt-2","practitionerId":"stf-1","start":"2026-09-07T10:00:00Z","duration":30,"status":"pending"}`))
	})

	appt, err := client.CreatePublicAppointment(context.Background(), AppointmentPayload{
		PractitionerID: "stf-1",
		Start:          "2026-09-07T10:00:00Z",
		DurationMin:    30,
		ServiceIDs:     []string{"svc-1"},
	})
	if err != nil {
		t.Fatalf("CreatePublicAppointment() error = %v", err)
	}
	if appt.Status != StatusPending {
		t.Fatalf("status = %s, want pending", appt.Status)
	}
}

func TestClient_NonOKStatusReturnsAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"slot already booked"}`))
	})

	_, err := client.CreateAppointment(context.Background(), AppointmentPayload{})
	if err == nil {
		t.Fatal("expected error")
	}
	if IsTransport(err) {
		t.Fatal("a 409 is not a transport failure")
	}
	if got := LocalizedMessage(err); got != MsgSlotTaken {
		t.Fatalf("LocalizedMessage() = %q, want %q", got, MsgSlotTaken)
	}
}

func TestClient_TransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // closed server: every request fails at the dial

	client := NewClient(ts.URL, logging.New("error"))
	_, err := client.ListServices(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsTransport(err) {
		t.Fatalf("expected transport failure, got %v", err)
	}
	if got := LocalizedMessage(err); got != MsgNetworkError {
		t.Fatalf("LocalizedMessage() = %q", got)
	}
}

func TestClient_GetPublicPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/public/page-content/accueil" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"slug":"accueil","blocks":{"hero":"Bienvenue"}}`))
	})

	page, err := client.GetPublicPage(context.Background(), "accueil")
	if err != nil {
		t.Fatalf("GetPublicPage() error = %v", err)
	}
	if page.Blocks["hero"] != "Bienvenue" {
		t.Fatalf("blocks = %v", page.Blocks)
	}
}

func TestClient_FreeStarts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/free-starts" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("date") != "2026-09-07" {
			t.Fatalf("date = %s", r.URL.Query().Get("date"))
		}
		if r.URL.Query().Get("services") != "svc-1,svc-2" {
			t.Fatalf("services = %s", r.URL.Query().Get("services"))
		}
		_, _ = w.Write([]byte(`[{"start":"2026-09-07T10:00:00Z","maxFreeMinutes":90}]`))
	})

	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	starts, err := client.FreeStarts(context.Background(), day, []string{"svc-1", "svc-2"}, "")
	if err != nil {
		t.Fatalf("FreeStarts() error = %v", err)
	}
	if len(starts) != 1 || starts[0].MaxFreeMin != 90 {
		t.Fatalf("starts = %+v", starts)
	}
}
