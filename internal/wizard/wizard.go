// Package wizard implements the four-step booking flow: slot, services,
// client, review. Each step has an admission gate; forward navigation is
// blocked until every gate up to the target holds, backward navigation is
// always allowed.
package wizard

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/api"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/availability"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/draft"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/observability/metrics"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/pkg/logging"
)

var wizardTracer = otel.Tracer("leregard.internal.wizard")

// Step identifies one wizard step.
type Step int

const (
	StepSlot Step = iota + 1
	StepServices
	StepClient
	StepReview
)

// AppointmentsAPI covers the create/update calls the wizard issues on
// submit.
type AppointmentsAPI interface {
	CreateAppointment(ctx context.Context, payload api.AppointmentPayload) (*api.Appointment, error)
	UpdateAppointment(ctx context.Context, id string, payload api.AppointmentPayload) (*api.Appointment, error)
	CreatePublicAppointment(ctx context.Context, payload api.AppointmentPayload) (*api.Appointment, error)
}

// ScheduleSource feeds the local availability estimate.
type ScheduleSource interface {
	StaffRules(ctx context.Context, staffID string) ([]api.AvailabilityRule, error)
	InstituteRules(ctx context.Context) ([]api.AvailabilityRule, error)
	DayAppointments(ctx context.Context, day time.Time) ([]api.Appointment, error)
}

// Config wires a Wizard.
type Config struct {
	Draft        *draft.Store
	Schedule     ScheduleSource
	Appointments AppointmentsAPI
	ConflictAPI  availability.ConflictAPI
	Snapshot     *availability.SnapshotCache
	Debounce     time.Duration
	Metrics      *metrics.ConflictMetrics
	Logger       *logging.Logger
	// Public routes the submit through the public create endpoint instead
	// of the admin one.
	Public bool
}

// Wizard drives the booking flow over the draft store. Draft changes
// retrigger the debounced conflict check; the availability estimate is
// refreshed on demand via RefreshAvailability.
type Wizard struct {
	drafts       *draft.Store
	schedule     ScheduleSource
	appointments AppointmentsAPI
	checker      *availability.Checker
	logger       *logging.Logger
	public       bool

	mu          sync.Mutex
	step        Step
	estimate    *int
	conflict    bool
	degraded    bool
	submitting  bool
	unsubscribe func()
	onSaved     []func(api.Appointment)
}

// New constructs a wizard bound to a draft store.
func New(cfg Config) *Wizard {
	if cfg.Draft == nil {
		panic("wizard: draft store required")
	}
	if cfg.Appointments == nil {
		panic("wizard: appointments API required")
	}
	if cfg.ConflictAPI == nil {
		panic("wizard: conflict API required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	w := &Wizard{
		drafts:       cfg.Draft,
		schedule:     cfg.Schedule,
		appointments: cfg.Appointments,
		logger:       logger.Component("wizard"),
		public:       cfg.Public,
		step:         StepSlot,
	}
	w.checker = availability.NewChecker(availability.CheckerConfig{
		API:      cfg.ConflictAPI,
		Snapshot: cfg.Snapshot,
		Debounce: cfg.Debounce,
		Metrics:  cfg.Metrics,
		Logger:   logger,
		OnResult: w.applyConflictResult,
	})
	w.unsubscribe = cfg.Draft.Subscribe(w.onDraftChange)
	return w
}

// Close detaches the wizard from the draft store and cancels any pending
// conflict check.
func (w *Wizard) Close() {
	if w.unsubscribe != nil {
		w.unsubscribe()
	}
	w.checker.Stop()
}

// OnSaved registers a listener notified after a successful submit.
func (w *Wizard) OnSaved(fn func(api.Appointment)) {
	w.mu.Lock()
	w.onSaved = append(w.onSaved, fn)
	w.mu.Unlock()
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Estimate returns the latest max-free-minutes estimate, nil when
// unconstrained or not yet computed.
func (w *Wizard) Estimate() *int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.estimate == nil {
		return nil
	}
	v := *w.estimate
	return &v
}

// ConflictDetected reports the latest settled conflict answer and whether it
// came from the degraded fallback.
func (w *Wizard) ConflictDetected() (conflict, degraded bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conflict, w.degraded
}

// Checking reports whether a conflict check is pending or in flight.
func (w *Wizard) Checking() bool {
	return w.checker.InFlight()
}

func (w *Wizard) onDraftChange(d draft.Draft) {
	readyForCheck := (d.PractitionerID != "" || d.AnyPractitioner) && d.Start != nil
	if !readyForCheck {
		w.mu.Lock()
		w.conflict = false
		w.degraded = false
		w.mu.Unlock()
		return
	}
	w.checker.Trigger(context.Background(), availability.ConflictQuery{
		PractitionerID: d.PractitionerID,
		Start:          *d.Start,
		DurationMin:    d.TotalDurationMin(),
		ExcludeID:      d.AppointmentID,
	})
}

func (w *Wizard) applyConflictResult(res availability.ConflictResult) {
	w.mu.Lock()
	w.conflict = res.Conflict
	w.degraded = res.Degraded
	w.mu.Unlock()
	if res.Err != nil {
		w.logger.Warn("conflict check unresolved", "error", res.Err)
	}
}

// RefreshAvailability recomputes the local max-free-minutes estimate from
// the schedule source. Safe to call with an incomplete draft: the estimate
// clears until a practitioner and start time are chosen.
func (w *Wizard) RefreshAvailability(ctx context.Context) error {
	d := w.drafts.Current()
	if w.schedule == nil || d.PractitionerID == "" || d.Start == nil {
		w.mu.Lock()
		w.estimate = nil
		w.mu.Unlock()
		return nil
	}

	staffRules, err := w.schedule.StaffRules(ctx, d.PractitionerID)
	if err != nil {
		return err
	}
	instituteRules, err := w.schedule.InstituteRules(ctx)
	if err != nil {
		return err
	}
	existing, err := w.schedule.DayAppointments(ctx, *d.Start)
	if err != nil {
		return err
	}

	estimate := availability.EstimateMaxFreeMinutes(d.PractitionerID, *d.Start, staffRules, instituteRules, existing, d.AppointmentID)
	w.mu.Lock()
	w.estimate = estimate
	w.mu.Unlock()
	return nil
}

// CanAddService reports whether adding item would keep the total duration
// within the estimated free window. With no estimate, anything goes.
func (w *Wizard) CanAddService(item api.ServiceItem) bool {
	estimate := w.Estimate()
	if estimate == nil {
		return true
	}
	return w.drafts.Current().TotalDurationMin()+item.DurationMin <= *estimate
}

// StepComplete evaluates the admission gate guarding the step after s.
func (w *Wizard) StepComplete(s Step) bool {
	d := w.drafts.Current()
	switch s {
	case StepSlot:
		w.mu.Lock()
		conflict := w.conflict
		w.mu.Unlock()
		return (d.PractitionerID != "" || d.AnyPractitioner) && d.Start != nil && !conflict && !w.checker.InFlight()
	case StepServices:
		if len(d.Services) == 0 {
			return false
		}
		estimate := w.Estimate()
		return estimate == nil || d.TotalDurationMin() <= *estimate
	case StepClient:
		hasIdentity := d.ClientID != "" || (strings.TrimSpace(d.FirstName) != "" && strings.TrimSpace(d.LastName) != "")
		hasContact := strings.TrimSpace(d.Phone) != "" || strings.TrimSpace(d.Email) != ""
		return hasIdentity && hasContact
	case StepReview:
		return w.StepComplete(StepSlot) && w.StepComplete(StepServices) && w.StepComplete(StepClient)
	default:
		return false
	}
}

// CanGoTo reports whether navigation to target is allowed: backward always,
// forward only when every gate between the current step and target holds.
func (w *Wizard) CanGoTo(target Step) bool {
	if target < StepSlot || target > StepReview {
		return false
	}
	current := w.Step()
	if target <= current {
		return true
	}
	for s := current; s < target; s++ {
		if !w.StepComplete(s) {
			return false
		}
	}
	return true
}

// GoTo navigates to target when allowed.
func (w *Wizard) GoTo(target Step) bool {
	if !w.CanGoTo(target) {
		return false
	}
	w.mu.Lock()
	w.step = target
	w.mu.Unlock()
	return true
}

// Next advances one step.
func (w *Wizard) Next() bool {
	return w.GoTo(w.Step() + 1)
}

// Back returns one step; unconditional.
func (w *Wizard) Back() {
	w.mu.Lock()
	if w.step > StepSlot {
		w.step--
	}
	w.mu.Unlock()
}

// Submit re-validates every gate, re-checks the conflict synchronously, and
// creates or updates the appointment. On success listeners are notified and
// the draft closes. Returned errors carry a user-facing message via
// Localize.
func (w *Wizard) Submit(ctx context.Context) (*api.Appointment, error) {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return nil, &ValidationError{Message: MsgSaveInProgress}
	}
	w.submitting = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.submitting = false
		w.mu.Unlock()
	}()

	ctx, span := wizardTracer.Start(ctx, "wizard.submit", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	d := w.drafts.Current()
	if err := validateDraft(d, w.Estimate()); err != nil {
		return nil, err
	}

	// Submit-time conflict re-check: state may have changed since the
	// gates were last evaluated.
	res := w.checker.CheckNow(ctx, availability.ConflictQuery{
		PractitionerID: d.PractitionerID,
		Start:          *d.Start,
		DurationMin:    d.TotalDurationMin(),
		ExcludeID:      d.AppointmentID,
	})
	if res.Conflict {
		return nil, &ValidationError{Message: api.MsgSlotTaken}
	}

	payload := BuildPayload(d)
	span.SetAttributes(
		attribute.String("leregard.practitioner_id", payload.PractitionerID),
		attribute.Int("leregard.duration_min", payload.DurationMin),
		attribute.Bool("leregard.edit", d.Mode == draft.ModeEdit),
	)

	var (
		saved *api.Appointment
		err   error
	)
	switch {
	case d.Mode == draft.ModeEdit:
		saved, err = w.appointments.UpdateAppointment(ctx, d.AppointmentID, payload)
	case w.public:
		saved, err = w.appointments.CreatePublicAppointment(ctx, payload)
	default:
		saved, err = w.appointments.CreateAppointment(ctx, payload)
	}
	if err != nil {
		span.RecordError(err)
		w.logger.Warn("appointment save rejected", "error", err, "mode", d.Mode)
		return nil, err
	}

	w.logger.Info("appointment saved",
		"appointment_id", saved.ID,
		"practitioner_id", saved.PractitionerID,
		"duration_min", saved.DurationMin,
		"mode", d.Mode,
	)

	w.mu.Lock()
	listeners := append([]func(api.Appointment){}, w.onSaved...)
	w.mu.Unlock()
	for _, fn := range listeners {
		fn(*saved)
	}

	w.drafts.Close()
	w.mu.Lock()
	w.step = StepSlot
	w.estimate = nil
	w.conflict = false
	w.degraded = false
	w.mu.Unlock()
	return saved, nil
}

// BuildPayload normalizes a draft into the create/update request body:
// RFC 3339 start, trimmed client fields, resolved service list.
func BuildPayload(d draft.Draft) api.AppointmentPayload {
	payload := api.AppointmentPayload{
		PractitionerID: d.PractitionerID,
		DurationMin:    d.TotalDurationMin(),
		ClientID:       d.ClientID,
		FirstName:      strings.TrimSpace(d.FirstName),
		LastName:       strings.TrimSpace(d.LastName),
		Phone:          strings.TrimSpace(d.Phone),
		Email:          strings.TrimSpace(d.Email),
		Notes:          strings.TrimSpace(d.Notes),
		Status:         d.Status,
	}
	if d.Start != nil {
		payload.Start = d.Start.Format(time.RFC3339)
	}
	payload.ServiceIDs = make([]string, 0, len(d.Services))
	for _, svc := range d.Services {
		payload.ServiceIDs = append(payload.ServiceIDs, svc.ID)
	}
	return payload
}

func validateDraft(d draft.Draft, estimate *int) error {
	if !d.AnyPractitioner && d.PractitionerID == "" {
		return &ValidationError{Message: MsgSelectPractitioner}
	}
	if d.Start == nil {
		return &ValidationError{Message: MsgSelectStart}
	}
	if d.Start.Before(time.Now()) {
		return &ValidationError{Message: MsgStartInPast}
	}
	if len(d.Services) == 0 {
		return &ValidationError{Message: MsgSelectService}
	}
	if estimate != nil && d.TotalDurationMin() > *estimate {
		return &ValidationError{Message: MsgDurationTooLong}
	}
	if d.ClientID == "" && (strings.TrimSpace(d.FirstName) == "" || strings.TrimSpace(d.LastName) == "") {
		return &ValidationError{Message: MsgClientRequired}
	}
	if strings.TrimSpace(d.Phone) == "" && strings.TrimSpace(d.Email) == "" {
		return &ValidationError{Message: MsgContactRequired}
	}
	return nil
}
