package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"carelink-server/internal/models"
)

const (
	testAppointmentID = "11111111-1111-1111-1111-111111111111"
	testDoctorID      = "22222222-2222-2222-2222-222222222222"
	testNewDoctorID   = "33333333-3333-3333-3333-333333333333"
	testPatientID     = "44444444-4444-4444-4444-444444444444"
	testAdminUserID   = "55555555-5555-5555-5555-555555555555"
)

// newMockDB opens a gorm connection backed by sqlmock.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

// newRouter wires the appointment routes behind a stub auth middleware that
// injects the given identity into the request context.
func newRouter(db *gorm.DB, userID string, role models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("userRole", role)
	})
	h := NewAppointmentHandler(db)
	router.PUT("/appointments/:id", h.UpdateAppointment)
	router.PUT("/appointments/:id/cancel", h.CancelAppointment)
	router.POST("/appointments/book", h.BookAppointment)
	return router
}

func appointmentColumns() []string {
	return []string{
		"id", "created_at", "updated_at",
		"patient_id", "doctor_id", "date", "time", "reason", "status",
		"is_rescheduled", "original_date", "reschedule_count", "notes",
	}
}

func appointmentRow(date time.Time, status string, originalDate *time.Time, count int) *sqlmock.Rows {
	isRescheduled := count > 0
	return sqlmock.NewRows(appointmentColumns()).AddRow(
		testAppointmentID, time.Now(), time.Now(),
		testPatientID, testDoctorID, date, "09:00", "Annual checkup", status,
		isRescheduled, originalDate, count, "",
	)
}

type appointmentEnvelope struct {
	Status  int                 `json:"status"`
	Message string              `json:"message"`
	Data    *models.Appointment `json:"data"`
	Error   string              `json:"error"`
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, appointmentEnvelope) {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(encoded)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope appointmentEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func TestUpdateAppointmentRescheduleRecordsAuditTrail(t *testing.T) {
	db, mock := newMockDB(t)
	router := newRouter(db, testAdminUserID, models.RoleAdmin)

	bookedDate := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT \\* FROM `appointments` WHERE id = \\?").
		WillReturnRows(appointmentRow(bookedDate, models.StatusScheduled, nil, 0))
	mock.ExpectQuery("SELECT \\* FROM `doctors` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_active"}).AddRow(testNewDoctorID, true))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `appointments` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	newDate := time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC)
	rec, envelope := doRequest(t, router, http.MethodPut, "/appointments/"+testAppointmentID, map[string]any{
		"status": models.StatusConfirmed,
		"date":   newDate,
		"time":   "14:30",
		"doctor": testNewDoctorID,
	})

	require.Equal(t, http.StatusOK, rec.Code, envelope.Error)
	require.NotNil(t, envelope.Data)
	appointment := envelope.Data
	assert.Equal(t, models.StatusConfirmed, appointment.Status)
	assert.True(t, appointment.IsRescheduled)
	assert.Equal(t, 1, appointment.RescheduleCount)
	require.NotNil(t, appointment.OriginalDate)
	assert.True(t, appointment.OriginalDate.Equal(bookedDate),
		"originalDate must capture the date being replaced")
	assert.True(t, appointment.Date.Equal(newDate))
	assert.Equal(t, "14:30", appointment.Time)
	assert.Equal(t, testNewDoctorID, appointment.DoctorID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAppointmentKeepsOriginalDateOnRepeatReschedule(t *testing.T) {
	db, mock := newMockDB(t)
	router := newRouter(db, testAdminUserID, models.RoleAdmin)

	firstDate := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	currentDate := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT \\* FROM `appointments` WHERE id = \\?").
		WillReturnRows(appointmentRow(currentDate, models.StatusConfirmed, &firstDate, 2))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `appointments` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	newDate := time.Date(2026, 9, 20, 10, 0, 0, 0, time.UTC)
	rec, envelope := doRequest(t, router, http.MethodPut, "/appointments/"+testAppointmentID, map[string]any{
		"date": newDate,
		"time": "10:00",
	})

	require.Equal(t, http.StatusOK, rec.Code, envelope.Error)
	appointment := envelope.Data
	require.NotNil(t, appointment.OriginalDate)
	assert.True(t, appointment.OriginalDate.Equal(firstDate),
		"originalDate is set once and never overwritten")
	assert.Equal(t, 3, appointment.RescheduleCount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAppointmentStatusOnlyLeavesAuditTrailUntouched(t *testing.T) {
	db, mock := newMockDB(t)
	router := newRouter(db, testAdminUserID, models.RoleAdmin)

	bookedDate := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT \\* FROM `appointments` WHERE id = \\?").
		WillReturnRows(appointmentRow(bookedDate, models.StatusScheduled, nil, 0))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `appointments` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec, envelope := doRequest(t, router, http.MethodPut, "/appointments/"+testAppointmentID, map[string]any{
		"status": models.StatusCancelled,
	})

	require.Equal(t, http.StatusOK, rec.Code, envelope.Error)
	appointment := envelope.Data
	assert.Equal(t, models.StatusCancelled, appointment.Status)
	assert.False(t, appointment.IsRescheduled)
	assert.Equal(t, 0, appointment.RescheduleCount)
	assert.Nil(t, appointment.OriginalDate)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAppointmentAcceptsUnknownStatusValues(t *testing.T) {
	db, mock := newMockDB(t)
	router := newRouter(db, testAdminUserID, models.RoleAdmin)

	bookedDate := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT \\* FROM `appointments` WHERE id = \\?").
		WillReturnRows(appointmentRow(bookedDate, models.StatusScheduled, nil, 0))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `appointments` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec, envelope := doRequest(t, router, http.MethodPut, "/appointments/"+testAppointmentID, map[string]any{
		"status": "awaiting-insurance",
	})

	require.Equal(t, http.StatusOK, rec.Code, envelope.Error)
	assert.Equal(t, "awaiting-insurance", envelope.Data.Status)
}

func TestUpdateAppointmentForbiddenForPatients(t *testing.T) {
	db, mock := newMockDB(t)
	router := newRouter(db, "some-patient-user", models.RolePatient)

	bookedDate := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT \\* FROM `appointments` WHERE id = \\?").
		WillReturnRows(appointmentRow(bookedDate, models.StatusScheduled, nil, 0))

	rec, _ := doRequest(t, router, http.MethodPut, "/appointments/"+testAppointmentID, map[string]any{
		"status": models.StatusConfirmed,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateAppointmentNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	router := newRouter(db, testAdminUserID, models.RoleAdmin)

	mock.ExpectQuery("SELECT \\* FROM `appointments` WHERE id = \\?").
		WillReturnError(gorm.ErrRecordNotFound)

	rec, _ := doRequest(t, router, http.MethodPut, "/appointments/"+testAppointmentID, map[string]any{
		"status": models.StatusConfirmed,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateAppointmentRejectsMalformedID(t *testing.T) {
	db, _ := newMockDB(t)
	router := newRouter(db, testAdminUserID, models.RoleAdmin)

	rec, _ := doRequest(t, router, http.MethodPut, "/appointments/not-a-uuid", map[string]any{
		"status": models.StatusConfirmed,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelAppointmentAdmin(t *testing.T) {
	db, mock := newMockDB(t)
	router := newRouter(db, testAdminUserID, models.RoleAdmin)

	bookedDate := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT \\* FROM `appointments` WHERE id = \\?").
		WillReturnRows(appointmentRow(bookedDate, models.StatusPending, nil, 0))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `appointments` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec, envelope := doRequest(t, router, http.MethodPut, "/appointments/"+testAppointmentID+"/cancel", nil)

	require.Equal(t, http.StatusOK, rec.Code, envelope.Error)
	assert.Equal(t, models.StatusCancelled, envelope.Data.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelAppointmentCompletedIsRejected(t *testing.T) {
	db, mock := newMockDB(t)
	router := newRouter(db, testAdminUserID, models.RoleAdmin)

	bookedDate := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT \\* FROM `appointments` WHERE id = \\?").
		WillReturnRows(appointmentRow(bookedDate, models.StatusCompleted, nil, 0))

	rec, envelope := doRequest(t, router, http.MethodPut, "/appointments/"+testAppointmentID+"/cancel", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, envelope.Error, "no longer be cancelled")
}

func TestBookAppointmentRejectsPastDate(t *testing.T) {
	db, mock := newMockDB(t)
	router := newRouter(db, testAdminUserID, models.RoleAdmin)

	mock.ExpectQuery("SELECT \\* FROM `doctors` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_active"}).AddRow(testDoctorID, true))

	rec, envelope := doRequest(t, router, http.MethodPost, "/appointments/book", map[string]any{
		"doctorId":  testDoctorID,
		"patientId": testPatientID,
		"date":      time.Now().Add(-24 * time.Hour),
		"reason":    "Annual checkup",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, envelope.Error, "future")
}

func TestBookAppointmentRejectsInactiveDoctor(t *testing.T) {
	db, mock := newMockDB(t)
	router := newRouter(db, testAdminUserID, models.RoleAdmin)

	mock.ExpectQuery("SELECT \\* FROM `doctors` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_active"}).AddRow(testDoctorID, false))

	rec, envelope := doRequest(t, router, http.MethodPost, "/appointments/book", map[string]any{
		"doctorId":  testDoctorID,
		"patientId": testPatientID,
		"date":      time.Now().Add(48 * time.Hour),
		"reason":    "Annual checkup",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, envelope.Error, "not currently accepting")
}

func TestBookAppointmentAdminRequiresPatientID(t *testing.T) {
	db, _ := newMockDB(t)
	router := newRouter(db, testAdminUserID, models.RoleAdmin)

	rec, envelope := doRequest(t, router, http.MethodPost, "/appointments/book", map[string]any{
		"doctorId": testDoctorID,
		"date":     time.Now().Add(48 * time.Hour),
		"reason":   "Annual checkup",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, envelope.Error, "patientId")
}
