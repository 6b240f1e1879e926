// Package draft holds the in-progress appointment being composed in the
// booking wizard. The store is an explicit state container with a
// subscribe/notify contract: every mutation publishes a fresh copy of the
// draft to all subscribers.
package draft

import (
	"strings"
	"sync"
	"time"

	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/api"
)

// Mode distinguishes a fresh draft from an edit of an existing appointment.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Draft is the appointment being composed. Total duration and price are
// always derived from the selected services and are not settable.
type Draft struct {
	Mode          Mode
	AppointmentID string // set in edit mode

	PractitionerID  string
	AnyPractitioner bool
	Start           *time.Time
	Services        []api.ServiceItem

	ClientID  string
	FirstName string
	LastName  string
	Phone     string
	Email     string

	Notes  string
	Status api.AppointmentStatus
}

// TotalDurationMin is the sum of the selected services' durations.
func (d Draft) TotalDurationMin() int {
	total := 0
	for _, s := range d.Services {
		total += s.DurationMin
	}
	return total
}

// TotalPrice is the sum of the selected services' prices.
func (d Draft) TotalPrice() float64 {
	total := 0.0
	for _, s := range d.Services {
		total += s.Price
	}
	return total
}

// HasService reports whether a service is already selected.
func (d Draft) HasService(id string) bool {
	for _, s := range d.Services {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Store holds the current draft and notifies subscribers on every change.
// Mutations are serialized; subscribers run synchronously on the mutating
// goroutine with a copy of the draft.
type Store struct {
	mu      sync.RWMutex
	draft   Draft
	open    bool
	subs    map[int]func(Draft)
	nextSub int
}

// NewStore returns an empty, closed store.
func NewStore() *Store {
	return &Store{subs: make(map[int]func(Draft))}
}

// Subscribe registers fn for draft changes and returns an unsubscribe
// function.
func (s *Store) Subscribe(fn func(Draft)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Open reports whether a draft is being composed.
func (s *Store) Open() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}

// Current returns a copy of the draft.
func (s *Store) Current() Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyDraft(s.draft)
}

// OpenCreate starts an empty draft.
func (s *Store) OpenCreate() {
	s.update(func(d *Draft) {
		*d = Draft{Mode: ModeCreate, Status: api.StatusConfirmed}
		s.open = true
	})
}

// OpenEdit populates the draft from an existing appointment. The client
// name splits on the first whitespace: first token becomes the first name,
// the remainder the last name. The split is lossy for multi-part first
// names; it is kept as-is for compatibility with existing data.
func (s *Store) OpenEdit(appt api.Appointment) {
	first, last := SplitFullName(appt.ClientName)
	start := appt.Start
	s.update(func(d *Draft) {
		*d = Draft{
			Mode:           ModeEdit,
			AppointmentID:  appt.ID,
			PractitionerID: appt.PractitionerID,
			Start:          &start,
			Services:       append([]api.ServiceItem(nil), appt.Services...),
			ClientID:       appt.ClientID,
			FirstName:      first,
			LastName:       last,
			Notes:          appt.Notes,
			Status:         appt.Status,
		}
		s.open = true
	})
}

// Close discards the draft.
func (s *Store) Close() {
	s.update(func(d *Draft) {
		*d = Draft{}
		s.open = false
	})
}

// SetPractitioner selects a practitioner; any=true means "no preference".
func (s *Store) SetPractitioner(id string, any bool) {
	s.update(func(d *Draft) {
		d.PractitionerID = id
		d.AnyPractitioner = any
	})
}

// SetStart selects the candidate start time.
func (s *Store) SetStart(t time.Time) {
	s.update(func(d *Draft) {
		start := t
		d.Start = &start
	})
}

// ClearStart unselects the start time.
func (s *Store) ClearStart() {
	s.update(func(d *Draft) { d.Start = nil })
}

// AddService appends a service to the selection; duplicates are ignored.
func (s *Store) AddService(item api.ServiceItem) {
	s.update(func(d *Draft) {
		if d.HasService(item.ID) {
			return
		}
		d.Services = append(d.Services, item)
	})
}

// RemoveService drops a service from the selection.
func (s *Store) RemoveService(id string) {
	s.update(func(d *Draft) {
		kept := d.Services[:0]
		for _, svc := range d.Services {
			if svc.ID != id {
				kept = append(kept, svc)
			}
		}
		d.Services = kept
	})
}

// SetClientRef references an existing client, clearing inline fields.
func (s *Store) SetClientRef(clientID string) {
	s.update(func(d *Draft) {
		d.ClientID = clientID
		d.FirstName = ""
		d.LastName = ""
	})
}

// SetClientFields fills the inline client identity, clearing any reference.
func (s *Store) SetClientFields(firstName, lastName, phone, email string) {
	s.update(func(d *Draft) {
		d.ClientID = ""
		d.FirstName = firstName
		d.LastName = lastName
		d.Phone = phone
		d.Email = email
	})
}

// SetNotes replaces the free-text notes.
func (s *Store) SetNotes(notes string) {
	s.update(func(d *Draft) { d.Notes = notes })
}

// SetStatus sets the appointment status.
func (s *Store) SetStatus(status api.AppointmentStatus) {
	s.update(func(d *Draft) { d.Status = status })
}

func (s *Store) update(mutate func(*Draft)) {
	s.mu.Lock()
	mutate(&s.draft)
	snapshot := copyDraft(s.draft)
	subs := make([]func(Draft), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

func copyDraft(d Draft) Draft {
	out := d
	out.Services = append([]api.ServiceItem(nil), d.Services...)
	if d.Start != nil {
		start := *d.Start
		out.Start = &start
	}
	return out
}

// SplitFullName splits a display name on the first whitespace run: first
// token vs. remainder. "Marie Anne Durand" becomes ("Marie", "Anne Durand").
func SplitFullName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	parts := strings.Fields(full)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
