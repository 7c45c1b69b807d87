package schedule

import (
	"context"
	"testing"
	"time"

	"salonbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("StaffEntryOverridesSalon", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.salonHours["salon-1"] = []models.WorkingWindow{openWindow(9*60, 19*60)}
		dir.staffHours["staff-x"] = []models.WorkingWindow{{Day: time.Monday, Start: 10 * 60, End: 14 * 60}}
		r := &DefaultHoursResolver{Repo: dir}

		w, err := r.Resolve(ctx, Scope{SalonID: "salon-1", StaffID: "staff-x"}, testDate)
		require.NoError(t, err)
		assert.Equal(t, 10*60, w.Start)
		assert.Equal(t, 14*60, w.End)
		assert.False(t, w.Closed)
	})

	t.Run("FallsBackToSalonWhenStaffHasNoEntry", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.salonHours["salon-1"] = []models.WorkingWindow{openWindow(9*60, 19*60)}
		dir.staffHours["staff-x"] = []models.WorkingWindow{{Day: time.Tuesday, Start: 10 * 60, End: 14 * 60}}
		r := &DefaultHoursResolver{Repo: dir}

		w, err := r.Resolve(ctx, Scope{SalonID: "salon-1", StaffID: "staff-x"}, testDate)
		require.NoError(t, err)
		assert.Equal(t, 9*60, w.Start)
		assert.Equal(t, 19*60, w.End)
	})

	t.Run("StaffClosedEntryWins", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.salonHours["salon-1"] = []models.WorkingWindow{openWindow(9*60, 19*60)}
		dir.staffHours["staff-x"] = []models.WorkingWindow{models.ClosedWindow(time.Monday)}
		r := &DefaultHoursResolver{Repo: dir}

		w, err := r.Resolve(ctx, Scope{SalonID: "salon-1", StaffID: "staff-x"}, testDate)
		require.NoError(t, err)
		assert.True(t, w.Closed)
	})

	t.Run("AbsentWeekdayResolvesClosed", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.salonHours["salon-1"] = []models.WorkingWindow{{Day: time.Tuesday, Start: 9 * 60, End: 19 * 60}}
		r := &DefaultHoursResolver{Repo: dir}

		w, err := r.Resolve(ctx, Scope{SalonID: "salon-1"}, testDate)
		require.NoError(t, err)
		assert.True(t, w.Closed)
		assert.Equal(t, time.Monday, w.Day)
	})

	t.Run("AnyStaffUsesSalonHours", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.salonHours["salon-1"] = []models.WorkingWindow{openWindow(9*60, 19*60)}
		dir.staffHours["staff-x"] = []models.WorkingWindow{{Day: time.Monday, Start: 10 * 60, End: 14 * 60}}
		r := &DefaultHoursResolver{Repo: dir}

		w, err := r.Resolve(ctx, Scope{SalonID: "salon-1", StaffID: models.AnyStaff}, testDate)
		require.NoError(t, err)
		assert.Equal(t, 9*60, w.Start)
	})

	t.Run("MalformedDate", func(t *testing.T) {
		r := &DefaultHoursResolver{Repo: newFakeDirectory()}
		_, err := r.Resolve(ctx, Scope{SalonID: "salon-1"}, "not-a-date")
		assert.ErrorAs(t, err, &ValidationError{})
	})
}
