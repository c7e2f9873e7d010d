package adminflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"carelink-server/internal/client"
	"carelink-server/internal/models"
	"carelink-server/pkg/logging"
)

// State is the admin appointment page's modal state. The old implementation
// tracked this with a pile of independent booleans; here every transition is
// explicit, so the coupled behavior (opening the time picker always exposes
// the doctor picker too) is a single named state instead of an accident.
type State int

const (
	// StateIdle: no modal open.
	StateIdle State = iota
	// StateDetailsOpen: details modal shown for a selected appointment.
	StateDetailsOpen
	// StateSelecting: time-slot picker and doctor picker are both visible.
	// This is one state on purpose: there is no way to change only the
	// doctor without also exposing the slot picker.
	StateSelecting
	// StateSubmitting: update request in flight.
	StateSubmitting
	// StateError: a failed submit's message is on screen until the timer
	// returns the page to idle.
	StateError
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDetailsOpen:
		return "details-open"
	case StateSelecting:
		return "selecting"
	case StateSubmitting:
		return "submitting"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// API is the slice of the REST client the workflow drives.
type API interface {
	ListAppointments(ctx context.Context) ([]models.Appointment, error)
	UpdateAppointment(ctx context.Context, id string, update client.AppointmentUpdate) (*models.Appointment, error)
	CreateNotification(ctx context.Context, req client.NotificationCreate) error
}

// Draft holds the pending reschedule selections.
type Draft struct {
	NewDate     *time.Time
	NewTime     string // HH:MM
	NewDoctorID string
}

// ErrInvalidTransition is returned when an action is not legal in the
// current state.
var ErrInvalidTransition = errors.New("adminflow: invalid transition")

// ErrNothingChanged is returned when a reschedule is confirmed without a new
// time slot or a different doctor; no network call is made.
var ErrNothingChanged = errors.New("adminflow: select a new time slot and date, or a different doctor")

// Workflow drives the admin reschedule/status-change flow. All mutation of
// the local appointment list happens through a full refetch after each
// successful update, with one exception: when the server's success response
// omits the data field, the local copy is patched with the submitted date.
type Workflow struct {
	mu     sync.Mutex
	api    API
	logger *logging.Logger

	successTTL time.Duration
	errorTTL   time.Duration

	state        State
	appointments []models.Appointment
	selected     *models.Appointment
	draft        Draft
	message      string
	msgTimer     *time.Timer
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithMessageTTLs overrides how long success and error banners stay visible.
func WithMessageTTLs(success, errTTL time.Duration) Option {
	return func(w *Workflow) {
		w.successTTL = success
		w.errorTTL = errTTL
	}
}

// NewWorkflow creates an idle workflow over the given API.
func NewWorkflow(api API, logger *logging.Logger, opts ...Option) *Workflow {
	if logger == nil {
		logger = logging.Default()
	}
	w := &Workflow{
		api:        api,
		logger:     logger,
		successTTL: 3 * time.Second,
		errorTTL:   5 * time.Second,
		state:      StateIdle,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns the current modal state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Message returns the currently displayed banner text, if any.
func (w *Workflow) Message() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.message
}

// Appointments returns the last fetched appointment list.
func (w *Workflow) Appointments() []models.Appointment {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.appointments
}

// Selected returns the appointment the details modal is showing.
func (w *Workflow) Selected() *models.Appointment {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selected
}

// LoadAppointments fetches the full appointment list.
func (w *Workflow) LoadAppointments(ctx context.Context) error {
	appointments, err := w.api.ListAppointments(ctx)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.appointments = appointments
	w.mu.Unlock()
	return nil
}

// OpenDetails transitions Idle -> DetailsOpen for the given appointment.
func (w *Workflow) OpenDetails(appointmentID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateIdle {
		return fmt.Errorf("%w: open details from %s", ErrInvalidTransition, w.state)
	}
	for i := range w.appointments {
		if w.appointments[i].ID == appointmentID {
			selected := w.appointments[i]
			w.selected = &selected
			w.state = StateDetailsOpen
			w.draft = Draft{}
			return nil
		}
	}
	return fmt.Errorf("adminflow: appointment %s not in list", appointmentID)
}

// StartReschedule transitions DetailsOpen -> Selecting. One toggle shows
// both the slot picker and the doctor picker.
func (w *Workflow) StartReschedule() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateDetailsOpen {
		return fmt.Errorf("%w: start reschedule from %s", ErrInvalidTransition, w.state)
	}
	w.state = StateSelecting
	return nil
}

// SetNewDate records a new date selection.
func (w *Workflow) SetNewDate(date time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateSelecting {
		return fmt.Errorf("%w: set date from %s", ErrInvalidTransition, w.state)
	}
	w.draft.NewDate = &date
	return nil
}

// SetNewTime records a new time-slot selection (HH:MM).
func (w *Workflow) SetNewTime(hhmm string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateSelecting {
		return fmt.Errorf("%w: set time from %s", ErrInvalidTransition, w.state)
	}
	w.draft.NewTime = hhmm
	return nil
}

// SetNewDoctor records a new doctor selection.
func (w *Workflow) SetNewDoctor(doctorID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateSelecting {
		return fmt.Errorf("%w: set doctor from %s", ErrInvalidTransition, w.state)
	}
	w.draft.NewDoctorID = doctorID
	return nil
}

// Close abandons the modal flow and returns to idle. Legal from any state
// except mid-submit.
func (w *Workflow) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateSubmitting {
		return fmt.Errorf("%w: close while submitting", ErrInvalidTransition)
	}
	w.reset()
	return nil
}

// ConfirmReschedule validates the draft and submits the update. The one real
// business rule lives here: at least one of {new time slot + new date, new
// doctor different from the current one} must be set, otherwise no network
// call is made and a local warning is shown.
func (w *Workflow) ConfirmReschedule(ctx context.Context) error {
	w.mu.Lock()
	if w.state != StateSelecting {
		w.mu.Unlock()
		return fmt.Errorf("%w: confirm reschedule from %s", ErrInvalidTransition, w.state)
	}

	selected := *w.selected
	draft := w.draft

	hasNewSlot := draft.NewDate != nil && draft.NewTime != ""
	hasNewDoctor := draft.NewDoctorID != "" && draft.NewDoctorID != selected.DoctorID
	if !hasNewSlot && !hasNewDoctor {
		w.setMessageLocked("Select a new time slot and date, or a different doctor, before confirming.", w.errorTTL)
		w.mu.Unlock()
		return ErrNothingChanged
	}

	w.state = StateSubmitting
	w.mu.Unlock()

	dateTime := submittedDateTime(draft)

	update := client.AppointmentUpdate{
		Status:        models.StatusConfirmed,
		IsRescheduled: boolPtr(true),
		OriginalDate:  originalDate(selected),
	}
	count := selected.RescheduleCount + 1
	update.RescheduleCount = &count
	if dateTime != nil {
		update.Date = dateTime
		update.Time = draft.NewTime
	}
	if hasNewDoctor {
		update.Doctor = draft.NewDoctorID
	}

	updated, err := w.api.UpdateAppointment(ctx, selected.ID, update)
	if err != nil {
		w.mu.Lock()
		w.state = StateError
		w.setMessageLocked(client.DisplayMessage(err), w.errorTTL)
		w.mu.Unlock()
		return err
	}

	if updated == nil {
		// Success response without a data field: patch the local copy with
		// the submitted date and keep everything else as it was.
		w.mu.Lock()
		patched := selected
		if dateTime != nil {
			patched.Date = *dateTime
			if draft.NewTime != "" {
				patched.Time = draft.NewTime
			}
		}
		w.replaceLocked(patched)
		w.mu.Unlock()
	} else {
		w.mu.Lock()
		w.replaceLocked(*updated)
		w.mu.Unlock()
	}

	// Best-effort notification, sequenced after the update commit and never
	// allowed to affect the success path.
	w.notifyPatient(ctx, selected, hasNewSlot, hasNewDoctor)

	// Unconditional full refetch; a failure here keeps the local list.
	if err := w.LoadAppointments(ctx); err != nil {
		w.logger.Error("adminflow: list refetch after reschedule failed", "error", err)
	}

	w.mu.Lock()
	w.state = StateIdle
	w.selected = nil
	w.draft = Draft{}
	w.setMessageLocked(successMessage(hasNewSlot, hasNewDoctor), w.successTTL)
	w.mu.Unlock()
	return nil
}

// ChangeStatus is the inline status-only transition: no modal, just
// PUT {status} followed by the same refetch-then-transient-message cycle.
func (w *Workflow) ChangeStatus(ctx context.Context, appointmentID, status string) error {
	_, err := w.api.UpdateAppointment(ctx, appointmentID, client.AppointmentUpdate{Status: status})
	if err != nil {
		w.mu.Lock()
		w.setMessageLocked(client.DisplayMessage(err), w.errorTTL)
		w.mu.Unlock()
		return err
	}

	if err := w.LoadAppointments(ctx); err != nil {
		w.logger.Error("adminflow: list refetch after status change failed", "error", err)
	}

	w.mu.Lock()
	w.setMessageLocked("Appointment status updated to "+status+".", w.successTTL)
	w.mu.Unlock()
	return nil
}

func (w *Workflow) notifyPatient(ctx context.Context, appointment models.Appointment, slotChanged, doctorChanged bool) {
	req := client.NotificationCreate{
		PatientID:     appointment.PatientID,
		AppointmentID: appointment.ID,
		Type:          models.NotificationReschedule,
		Message:       "Your appointment has been rescheduled. " + successMessage(slotChanged, doctorChanged),
	}
	if err := w.api.CreateNotification(ctx, req); err != nil {
		w.logger.Error("adminflow: patient notification failed", "error", err,
			"appointment_id", appointment.ID)
	}
}

// reset clears all transient state. Caller holds the lock.
func (w *Workflow) reset() {
	w.state = StateIdle
	w.selected = nil
	w.draft = Draft{}
	w.message = ""
	if w.msgTimer != nil {
		w.msgTimer.Stop()
		w.msgTimer = nil
	}
}

// setMessageLocked shows a banner and arms the timer that clears it (and
// returns an error state to idle). Caller holds the lock.
func (w *Workflow) setMessageLocked(message string, ttl time.Duration) {
	w.message = message
	if w.msgTimer != nil {
		w.msgTimer.Stop()
	}
	w.msgTimer = time.AfterFunc(ttl, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.message = ""
		if w.state == StateError {
			w.state = StateIdle
			w.selected = nil
			w.draft = Draft{}
		}
	})
}

// replaceLocked swaps one appointment in the local list. Caller holds the lock.
func (w *Workflow) replaceLocked(appointment models.Appointment) {
	for i := range w.appointments {
		if w.appointments[i].ID == appointment.ID {
			w.appointments[i] = appointment
			return
		}
	}
}

// submittedDateTime combines the draft's date and HH:MM time into the
// datetime sent to the server. Nil when no new date was picked.
func submittedDateTime(draft Draft) *time.Time {
	if draft.NewDate == nil {
		return nil
	}
	dt := *draft.NewDate
	if draft.NewTime != "" {
		if parsed, err := time.Parse("15:04", draft.NewTime); err == nil {
			dt = time.Date(dt.Year(), dt.Month(), dt.Day(),
				parsed.Hour(), parsed.Minute(), 0, 0, dt.Location())
		}
	}
	return &dt
}

// originalDate preserves the first booked date across repeated reschedules.
func originalDate(appointment models.Appointment) *time.Time {
	if appointment.OriginalDate != nil {
		return appointment.OriginalDate
	}
	d := appointment.Date
	return &d
}

func successMessage(slotChanged, doctorChanged bool) string {
	var parts []string
	if slotChanged {
		parts = append(parts, "time/date changed")
	}
	if doctorChanged {
		parts = append(parts, "doctor changed")
	}
	return "Appointment rescheduled (" + strings.Join(parts, " and ") + ") and patient notified."
}

func boolPtr(b bool) *bool {
	return &b
}
