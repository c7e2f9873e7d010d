package adminflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carelink-server/internal/client"
	"carelink-server/internal/models"
)

type recordedUpdate struct {
	id     string
	update client.AppointmentUpdate
}

// stubAPI implements API for workflow tests.
type stubAPI struct {
	mu sync.Mutex

	appointments []models.Appointment
	listCalls    int
	listErrAfter int // calls after which List fails; 0 means never

	updates      []recordedUpdate
	updateResult *models.Appointment
	updateErr    error

	notifyCalls []client.NotificationCreate
	notifyErr   error
}

func (s *stubAPI) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErrAfter > 0 && s.listCalls > s.listErrAfter {
		return nil, &client.APIError{Err: errors.New("connection refused")}
	}
	out := make([]models.Appointment, len(s.appointments))
	copy(out, s.appointments)
	return out, nil
}

func (s *stubAPI) UpdateAppointment(ctx context.Context, id string, update client.AppointmentUpdate) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, recordedUpdate{id: id, update: update})
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.updateResult, nil
}

func (s *stubAPI) CreateNotification(ctx context.Context, req client.NotificationCreate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifyCalls = append(s.notifyCalls, req)
	return s.notifyErr
}

func baseAppointment() models.Appointment {
	appointment := models.Appointment{
		PatientID: "patient-1",
		DoctorID:  "doctor-1",
		Date:      time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC),
		Time:      "09:00",
		Reason:    "Annual checkup",
		Status:    models.StatusScheduled,
	}
	appointment.ID = "appt-1"
	return appointment
}

func newTestWorkflow(t *testing.T, api *stubAPI) *Workflow {
	t.Helper()
	return NewWorkflow(api, nil, WithMessageTTLs(30*time.Millisecond, 30*time.Millisecond))
}

func openSelecting(t *testing.T, w *Workflow) {
	t.Helper()
	require.NoError(t, w.LoadAppointments(context.Background()))
	require.NoError(t, w.OpenDetails("appt-1"))
	require.NoError(t, w.StartReschedule())
}

func TestConfirmRescheduleRejectsUnchangedDraft(t *testing.T) {
	api := &stubAPI{appointments: []models.Appointment{baseAppointment()}}
	w := newTestWorkflow(t, api)
	openSelecting(t, w)

	err := w.ConfirmReschedule(context.Background())
	require.ErrorIs(t, err, ErrNothingChanged)

	// No network call, a local warning, and the pickers stay open.
	assert.Empty(t, api.updates)
	assert.Empty(t, api.notifyCalls)
	assert.NotEmpty(t, w.Message())
	assert.Equal(t, StateSelecting, w.State())
}

func TestConfirmRescheduleSameDoctorOnlyIsRejected(t *testing.T) {
	api := &stubAPI{appointments: []models.Appointment{baseAppointment()}}
	w := newTestWorkflow(t, api)
	openSelecting(t, w)

	// Picking the doctor already assigned is not a change.
	require.NoError(t, w.SetNewDoctor("doctor-1"))

	err := w.ConfirmReschedule(context.Background())
	require.ErrorIs(t, err, ErrNothingChanged)
	assert.Empty(t, api.updates)
}

func TestConfirmRescheduleSubmitsAuditTrail(t *testing.T) {
	appointment := baseAppointment()
	updated := appointment
	updated.Status = models.StatusConfirmed
	updated.IsRescheduled = true
	updated.RescheduleCount = 1

	api := &stubAPI{
		appointments: []models.Appointment{appointment},
		updateResult: &updated,
	}
	w := newTestWorkflow(t, api)
	openSelecting(t, w)

	newDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, w.SetNewDate(newDate))
	require.NoError(t, w.SetNewTime("14:30"))
	require.NoError(t, w.SetNewDoctor("doctor-2"))

	require.NoError(t, w.ConfirmReschedule(context.Background()))

	require.Len(t, api.updates, 1)
	update := api.updates[0].update
	assert.Equal(t, "appt-1", api.updates[0].id)
	assert.Equal(t, models.StatusConfirmed, update.Status)
	require.NotNil(t, update.IsRescheduled)
	assert.True(t, *update.IsRescheduled)
	require.NotNil(t, update.OriginalDate)
	assert.True(t, update.OriginalDate.Equal(appointment.Date))
	require.NotNil(t, update.RescheduleCount)
	assert.Equal(t, 1, *update.RescheduleCount)
	require.NotNil(t, update.Date)
	assert.Equal(t, 14, update.Date.Hour())
	assert.Equal(t, 30, update.Date.Minute())
	assert.Equal(t, "doctor-2", update.Doctor)

	// Notification sequenced after update, then a full refetch.
	require.Len(t, api.notifyCalls, 1)
	assert.Equal(t, "patient-1", api.notifyCalls[0].PatientID)
	assert.Equal(t, 2, api.listCalls) // initial load + refetch

	assert.Equal(t, StateIdle, w.State())
	assert.Contains(t, w.Message(), "patient notified")
	assert.Nil(t, w.Selected())
}

func TestConfirmReschedulePreservesOriginalDateOnRepeat(t *testing.T) {
	appointment := baseAppointment()
	first := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	appointment.OriginalDate = &first
	appointment.RescheduleCount = 2
	appointment.IsRescheduled = true

	api := &stubAPI{
		appointments: []models.Appointment{appointment},
		updateResult: &appointment,
	}
	w := newTestWorkflow(t, api)
	openSelecting(t, w)

	require.NoError(t, w.SetNewDoctor("doctor-9"))
	require.NoError(t, w.ConfirmReschedule(context.Background()))

	update := api.updates[0].update
	require.NotNil(t, update.OriginalDate)
	assert.True(t, update.OriginalDate.Equal(first), "first booked date must survive repeated reschedules")
	require.NotNil(t, update.RescheduleCount)
	assert.Equal(t, 3, *update.RescheduleCount)
}

func TestRescheduleFallbackMergeWhenResponseOmitsData(t *testing.T) {
	appointment := baseAppointment()
	api := &stubAPI{
		appointments: []models.Appointment{appointment},
		updateResult: nil, // 2xx without a data field
		listErrAfter: 1,   // refetch fails, so the patched local list survives
	}
	w := newTestWorkflow(t, api)
	openSelecting(t, w)

	newDate := time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, w.SetNewDate(newDate))
	require.NoError(t, w.SetNewTime("11:15"))

	require.NoError(t, w.ConfirmReschedule(context.Background()))

	list := w.Appointments()
	require.Len(t, list, 1)
	patched := list[0]
	assert.Equal(t, 2026, patched.Date.Year())
	assert.Equal(t, time.October, patched.Date.Month())
	assert.Equal(t, 11, patched.Date.Hour())
	assert.Equal(t, "11:15", patched.Time)
	// Everything else keeps the prior local values.
	assert.Equal(t, "Annual checkup", patched.Reason)
	assert.Equal(t, "doctor-1", patched.DoctorID)
	assert.Equal(t, models.StatusScheduled, patched.Status)
}

func TestNotificationFailureDoesNotBlockSuccess(t *testing.T) {
	appointment := baseAppointment()
	api := &stubAPI{
		appointments: []models.Appointment{appointment},
		updateResult: &appointment,
		notifyErr:    errors.New("smtp down"),
	}
	w := newTestWorkflow(t, api)
	openSelecting(t, w)

	require.NoError(t, w.SetNewDoctor("doctor-2"))
	require.NoError(t, w.ConfirmReschedule(context.Background()))

	assert.Equal(t, StateIdle, w.State())
	assert.Contains(t, w.Message(), "patient notified")
	assert.Equal(t, 2, api.listCalls, "refetch still runs after a failed notification")
}

func TestSubmitErrorIsMappedAndTimedOut(t *testing.T) {
	api := &stubAPI{
		appointments: []models.Appointment{baseAppointment()},
		updateErr:    &client.APIError{StatusCode: 500},
	}
	w := newTestWorkflow(t, api)
	openSelecting(t, w)

	require.NoError(t, w.SetNewDoctor("doctor-2"))
	err := w.ConfirmReschedule(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateError, w.State())
	assert.Equal(t, "Server error", w.Message())
	assert.Empty(t, api.notifyCalls, "no notification on a failed update")

	// The banner timer clears the message and returns the page to idle.
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, w.Message())
	assert.Equal(t, StateIdle, w.State())
}

func TestChangeStatusInlineCycle(t *testing.T) {
	api := &stubAPI{appointments: []models.Appointment{baseAppointment()}}
	w := newTestWorkflow(t, api)
	require.NoError(t, w.LoadAppointments(context.Background()))

	require.NoError(t, w.ChangeStatus(context.Background(), "appt-1", models.StatusCancelled))

	// Exactly {status} on the wire, nothing else.
	require.Len(t, api.updates, 1)
	update := api.updates[0].update
	assert.Equal(t, models.StatusCancelled, update.Status)
	assert.Nil(t, update.Date)
	assert.Empty(t, update.Doctor)
	assert.Nil(t, update.IsRescheduled)
	assert.Nil(t, update.RescheduleCount)

	assert.Equal(t, 2, api.listCalls, "status change triggers a full refetch")
	assert.Contains(t, w.Message(), "cancelled")

	// Transient: the message clears after the TTL.
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, w.Message())
}

func TestTransitionGuards(t *testing.T) {
	api := &stubAPI{appointments: []models.Appointment{baseAppointment()}}
	w := newTestWorkflow(t, api)

	// Selection actions are illegal before the pickers are shown.
	assert.ErrorIs(t, w.StartReschedule(), ErrInvalidTransition)
	assert.ErrorIs(t, w.SetNewTime("10:00"), ErrInvalidTransition)
	assert.ErrorIs(t, w.SetNewDoctor("doctor-2"), ErrInvalidTransition)
	assert.ErrorIs(t, w.ConfirmReschedule(context.Background()), ErrInvalidTransition)

	require.NoError(t, w.LoadAppointments(context.Background()))
	require.NoError(t, w.OpenDetails("appt-1"))
	assert.ErrorIs(t, w.OpenDetails("appt-1"), ErrInvalidTransition)

	// Close clears everything.
	require.NoError(t, w.Close())
	assert.Equal(t, StateIdle, w.State())
	assert.Nil(t, w.Selected())
}

func TestOpenDetailsUnknownAppointment(t *testing.T) {
	api := &stubAPI{appointments: []models.Appointment{baseAppointment()}}
	w := newTestWorkflow(t, api)
	require.NoError(t, w.LoadAppointments(context.Background()))

	err := w.OpenDetails("missing")
	require.Error(t, err)
	assert.Equal(t, StateIdle, w.State())
}
