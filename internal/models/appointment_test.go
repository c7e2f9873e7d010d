package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkRescheduledSetsAuditTrailOnce(t *testing.T) {
	booked := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	a := Appointment{Date: booked, Status: StatusScheduled}

	a.MarkRescheduled()
	require.NotNil(t, a.OriginalDate)
	assert.True(t, a.OriginalDate.Equal(booked))
	assert.True(t, a.IsRescheduled)
	assert.Equal(t, 1, a.RescheduleCount)

	// A second reschedule moves the date but never the original.
	a.Date = time.Date(2026, 9, 20, 10, 0, 0, 0, time.UTC)
	a.MarkRescheduled()
	assert.True(t, a.OriginalDate.Equal(booked))
	assert.Equal(t, 2, a.RescheduleCount)
}

func TestIsCancellable(t *testing.T) {
	cancellable := []string{StatusPending, StatusScheduled, StatusConfirmed}
	for _, status := range cancellable {
		a := Appointment{Status: status}
		assert.True(t, a.IsCancellable(), "status %q", status)
	}

	final := []string{StatusCompleted, StatusCancelled, StatusNoShow, StatusInProgress, "awaiting-insurance"}
	for _, status := range final {
		a := Appointment{Status: status}
		assert.False(t, a.IsCancellable(), "status %q", status)
	}
}
