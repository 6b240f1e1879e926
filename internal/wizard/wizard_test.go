package wizard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/api"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/draft"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/pkg/logging"
)

var (
	soinVisage = api.ServiceItem{ID: "svc-1", Name: "Soin visage", DurationMin: 60, Price: 55}
	modelage   = api.ServiceItem{ID: "svc-2", Name: "Modelage corps", DurationMin: 45, Price: 70}
)

// futureStart returns a deterministic wall-clock start two days out.
func futureStart() time.Time {
	day := time.Now().AddDate(0, 0, 2)
	return time.Date(day.Year(), day.Month(), day.Day(), 10, 0, 0, 0, time.UTC)
}

type mockSchedule struct {
	staffRules     []api.AvailabilityRule
	instituteRules []api.AvailabilityRule
	appointments   []api.Appointment
}

func (m *mockSchedule) StaffRules(_ context.Context, _ string) ([]api.AvailabilityRule, error) {
	return m.staffRules, nil
}
func (m *mockSchedule) InstituteRules(_ context.Context) ([]api.AvailabilityRule, error) {
	return m.instituteRules, nil
}
func (m *mockSchedule) DayAppointments(_ context.Context, _ time.Time) ([]api.Appointment, error) {
	return m.appointments, nil
}

type mockAppointments struct {
	mu          sync.Mutex
	created     []api.AppointmentPayload
	updated     map[string]api.AppointmentPayload
	public      []api.AppointmentPayload
	failWith    error
	nextID      string
}

func newMockAppointments() *mockAppointments {
	return &mockAppointments{updated: map[string]api.AppointmentPayload{}, nextID: "apt-new"}
}

func (m *mockAppointments) result(payload api.AppointmentPayload, id string) *api.Appointment {
	start, _ := time.Parse(time.RFC3339, payload.Start)
	return &api.Appointment{
		ID:             id,
		PractitionerID: payload.PractitionerID,
		Start:          start,
		DurationMin:    payload.DurationMin,
		Status:         payload.Status,
	}
}

func (m *mockAppointments) CreateAppointment(_ context.Context, payload api.AppointmentPayload) (*api.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.created = append(m.created, payload)
	return m.result(payload, m.nextID), nil
}

func (m *mockAppointments) UpdateAppointment(_ context.Context, id string, payload api.AppointmentPayload) (*api.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.updated[id] = payload
	return m.result(payload, id), nil
}

func (m *mockAppointments) CreatePublicAppointment(_ context.Context, payload api.AppointmentPayload) (*api.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.public = append(m.public, payload)
	return m.result(payload, m.nextID), nil
}

type mockConflicts struct {
	mu       sync.Mutex
	conflict bool
	err      error
}

func (m *mockConflicts) CheckConflict(_ context.Context, _ string, _ time.Time, _ int, _ string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conflict, m.err
}

type fixture struct {
	wizard       *Wizard
	drafts       *draft.Store
	schedule     *mockSchedule
	appointments *mockAppointments
	conflicts    *mockConflicts
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		drafts:       draft.NewStore(),
		schedule:     &mockSchedule{},
		appointments: newMockAppointments(),
		conflicts:    &mockConflicts{},
	}
	f.wizard = New(Config{
		Draft:        f.drafts,
		Schedule:     f.schedule,
		Appointments: f.appointments,
		ConflictAPI:  f.conflicts,
		Debounce:     time.Millisecond,
		Logger:       logging.New("error"),
	})
	t.Cleanup(f.wizard.Close)
	return f
}

// settle waits for the debounced conflict check to resolve.
func (f *fixture) settle(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !f.wizard.Checking() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("conflict check never settled")
}

func (f *fixture) fillSlot() {
	f.drafts.OpenCreate()
	f.drafts.SetPractitioner("stf-1", false)
	f.drafts.SetStart(futureStart())
}

func TestNavigation_ForwardGatedBackwardFree(t *testing.T) {
	f := newFixture(t)
	f.drafts.OpenCreate()

	assert.Equal(t, StepSlot, f.wizard.Step())
	assert.False(t, f.wizard.Next(), "empty draft cannot advance")

	f.drafts.SetPractitioner("stf-1", false)
	f.drafts.SetStart(futureStart())
	f.settle(t)

	require.True(t, f.wizard.Next())
	assert.Equal(t, StepServices, f.wizard.Step())

	// Cannot jump two steps ahead past an unsatisfied gate.
	assert.False(t, f.wizard.GoTo(StepReview))

	f.wizard.Back()
	assert.Equal(t, StepSlot, f.wizard.Step())
	f.wizard.Back()
	assert.Equal(t, StepSlot, f.wizard.Step(), "backward stops at step 1")
}

func TestStep1Gate_BlockedByConflict(t *testing.T) {
	f := newFixture(t)
	f.conflicts.conflict = true
	f.fillSlot()
	f.settle(t)

	assert.False(t, f.wizard.StepComplete(StepSlot))
	assert.False(t, f.wizard.Next())
}

func TestStep2Gate_DurationCappedByEstimate(t *testing.T) {
	f := newFixture(t)
	start := futureStart()
	f.schedule.staffRules = []api.AvailabilityRule{{
		StaffID: "stf-1",
		Weekday: int(start.Weekday()),
		Start:   "09:00",
		End:     "11:30", // only 90 minutes from 10:00
	}}
	f.fillSlot()
	f.settle(t)
	require.NoError(t, f.wizard.RefreshAvailability(context.Background()))

	estimate := f.wizard.Estimate()
	require.NotNil(t, estimate)
	assert.Equal(t, 90, *estimate)

	f.drafts.AddService(soinVisage) // 60 min
	f.settle(t)
	assert.True(t, f.wizard.StepComplete(StepServices))
	assert.True(t, f.wizard.CanAddService(api.ServiceItem{ID: "svc-3", DurationMin: 30}))
	assert.False(t, f.wizard.CanAddService(modelage), "45 more minutes would exceed the window")

	f.drafts.AddService(modelage) // 105 min total, over the 90 min estimate
	f.settle(t)
	assert.False(t, f.wizard.StepComplete(StepServices), "over-long selection must not mark step 2 complete")
}

func TestStep3Gate_IdentityAndContactRequired(t *testing.T) {
	f := newFixture(t)
	f.fillSlot()
	f.drafts.AddService(soinVisage)
	f.settle(t)

	assert.False(t, f.wizard.StepComplete(StepClient))

	// Identity without contact channel is not enough.
	f.drafts.SetClientFields("Julie", "Petit", "", "")
	assert.False(t, f.wizard.StepComplete(StepClient))

	f.drafts.SetClientFields("Julie", "Petit", "0601020304", "")
	assert.True(t, f.wizard.StepComplete(StepClient))

	// An existing client reference plus a contact channel also passes.
	f.drafts.SetClientRef("cli-1")
	assert.True(t, f.wizard.StepComplete(StepClient))

	f.settle(t)
	assert.True(t, f.wizard.StepComplete(StepReview))
}

func TestSubmit_MissingPractitionerAlwaysBlocks(t *testing.T) {
	f := newFixture(t)
	f.drafts.OpenCreate()
	f.drafts.SetStart(futureStart())
	f.drafts.AddService(soinVisage)
	f.drafts.SetClientFields("Julie", "Petit", "0601020304", "julie@exemple.fr")
	f.settle(t)

	_, err := f.wizard.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, MsgSelectPractitioner, Localize(err))
	assert.Empty(t, f.appointments.created, "no request may be issued on validation failure")
}

func TestSubmit_StartInPast(t *testing.T) {
	f := newFixture(t)
	f.drafts.OpenCreate()
	f.drafts.SetPractitioner("stf-1", false)
	f.drafts.SetStart(time.Now().Add(-time.Hour))
	f.drafts.AddService(soinVisage)
	f.drafts.SetClientFields("Julie", "Petit", "0601020304", "")
	f.settle(t)

	_, err := f.wizard.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, MsgStartInPast, Localize(err))
}

func TestSubmit_CreateSuccessNotifiesAndCloses(t *testing.T) {
	f := newFixture(t)
	var saved []api.Appointment
	f.wizard.OnSaved(func(a api.Appointment) { saved = append(saved, a) })

	f.fillSlot()
	f.drafts.AddService(soinVisage)
	f.drafts.SetClientFields(" Julie ", " Petit ", "0601020304", "")
	f.settle(t)

	appt, err := f.wizard.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "apt-new", appt.ID)

	require.Len(t, f.appointments.created, 1)
	payload := f.appointments.created[0]
	assert.Equal(t, "Julie", payload.FirstName, "client fields are trimmed")
	assert.Equal(t, "Petit", payload.LastName)
	assert.Equal(t, []string{"svc-1"}, payload.ServiceIDs)
	assert.Equal(t, 60, payload.DurationMin)

	require.Len(t, saved, 1)
	assert.False(t, f.drafts.Open(), "draft closes after a successful save")
	assert.Equal(t, StepSlot, f.wizard.Step())
}

func TestSubmit_EditModeUpdates(t *testing.T) {
	f := newFixture(t)
	start := futureStart()
	source := api.Appointment{
		ID:             "apt-7",
		PractitionerID: "stf-2",
		Start:          start,
		DurationMin:    60,
		Services:       []api.ServiceItem{soinVisage},
		ClientName:     "Julie Petit",
		Status:         api.StatusConfirmed,
	}
	f.drafts.OpenEdit(source)
	f.drafts.SetClientFields("Julie", "Petit", "0601020304", "")
	f.settle(t)

	_, err := f.wizard.Submit(context.Background())
	require.NoError(t, err)

	payload, ok := f.appointments.updated["apt-7"]
	require.True(t, ok, "edit mode must go through the update endpoint")
	// Round-trip: the payload reproduces the source appointment.
	assert.Equal(t, source.PractitionerID, payload.PractitionerID)
	assert.Equal(t, source.Start.Format(time.RFC3339), payload.Start)
	assert.Equal(t, source.DurationMin, payload.DurationMin)
	assert.Equal(t, []string{"svc-1"}, payload.ServiceIDs)
	assert.Equal(t, source.Status, payload.Status)
}

func TestSubmit_PublicModeUsesPublicEndpoint(t *testing.T) {
	f := newFixture(t)
	public := New(Config{
		Draft:        f.drafts,
		Schedule:     f.schedule,
		Appointments: f.appointments,
		ConflictAPI:  f.conflicts,
		Debounce:     time.Millisecond,
		Logger:       logging.New("error"),
		Public:       true,
	})
	t.Cleanup(public.Close)

	f.fillSlot()
	f.drafts.AddService(soinVisage)
	f.drafts.SetClientFields("Julie", "Petit", "", "julie@exemple.fr")
	f.settle(t)

	_, err := public.Submit(context.Background())
	require.NoError(t, err)
	assert.Len(t, f.appointments.public, 1)
	assert.Empty(t, f.appointments.created)
}

func TestSubmit_ConflictAppearingLateBlocks(t *testing.T) {
	f := newFixture(t)
	f.fillSlot()
	f.drafts.AddService(soinVisage)
	f.drafts.SetClientFields("Julie", "Petit", "0601020304", "")
	f.settle(t)

	// The slot gets taken between gate evaluation and submit.
	f.conflicts.mu.Lock()
	f.conflicts.conflict = true
	f.conflicts.mu.Unlock()

	_, err := f.wizard.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, api.MsgSlotTaken, Localize(err))
	assert.Empty(t, f.appointments.created)
}

func TestSubmit_BackendRejectionIsLocalized(t *testing.T) {
	f := newFixture(t)
	f.appointments.failWith = &api.Error{StatusCode: 409, Body: `{"error":"busy"}`}
	f.fillSlot()
	f.drafts.AddService(soinVisage)
	f.drafts.SetClientFields("Julie", "Petit", "0601020304", "")
	f.settle(t)

	_, err := f.wizard.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, api.MsgSlotTaken, Localize(err))
}

func TestBuildPayload_RoundTripFromOpenEdit(t *testing.T) {
	start := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	source := api.Appointment{
		ID:             "apt-1",
		PractitionerID: "stf-1",
		Start:          start,
		DurationMin:    105,
		Services:       []api.ServiceItem{soinVisage, modelage},
		ClientName:     "Marie Anne Durand",
		Status:         api.StatusPending,
		Notes:          "premiere visite",
	}
	s := draft.NewStore()
	s.OpenEdit(source)

	payload := BuildPayload(s.Current())
	assert.Equal(t, "stf-1", payload.PractitionerID)
	assert.Equal(t, start.Format(time.RFC3339), payload.Start)
	assert.Equal(t, 105, payload.DurationMin)
	assert.Equal(t, []string{"svc-1", "svc-2"}, payload.ServiceIDs)
	assert.Equal(t, api.StatusPending, payload.Status)
	// The lossy exception: client identity derives from the name split.
	assert.Equal(t, "Marie", payload.FirstName)
	assert.Equal(t, "Anne Durand", payload.LastName)
}

func TestLocalize(t *testing.T) {
	assert.Equal(t, "", Localize(nil))
	assert.Equal(t, MsgSelectStart, Localize(&ValidationError{Message: MsgSelectStart}))
	assert.Equal(t, api.MsgServerError, Localize(&api.Error{StatusCode: 503}))
	assert.Equal(t, api.MsgNetworkError, Localize(context.DeadlineExceeded))
}
