package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontdesk/frontdesk-api/pkg/errors"
)

func newTestSchedule(t *testing.T) *Schedule {
	t.Helper()
	day := time.Date(2021, 1, 1, 0, 0, 0, 0, eastern)
	schedule, err := NewSchedule(uuid.New(), mustRange(t, day, day.AddDate(0, 0, 1)), testClinicID)
	require.NoError(t, err)
	return schedule
}

func newScheduleAppointment(t *testing.T, schedule *Schedule, timeRange TimeRange, doctorID, patientID, roomID int) *Appointment {
	t.Helper()
	appointment, err := NewAppointment(
		uuid.New(),
		testAppointmentTypeID,
		schedule.ID,
		schedule.ClinicID,
		doctorID,
		patientID,
		roomID,
		timeRange,
		"Checkup",
	)
	require.NoError(t, err)
	return appointment
}

func TestNewScheduleValidation(t *testing.T) {
	day := time.Date(2021, 1, 1, 0, 0, 0, 0, eastern)
	dateRange := mustRange(t, day, day.AddDate(0, 0, 1))

	_, err := NewSchedule(uuid.Nil, dateRange, 1)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = NewSchedule(uuid.New(), dateRange, 0)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestAddNewAppointmentRejectsNilAndZeroID(t *testing.T) {
	schedule := newTestSchedule(t)

	assert.True(t, errors.IsInvalidArgument(schedule.AddNewAppointment(nil)))

	appointment := newScheduleAppointment(t, schedule,
		mustRange(t, time.Date(2021, 1, 1, 10, 0, 0, 0, eastern), time.Date(2021, 1, 1, 11, 0, 0, 0, eastern)),
		testDoctorID, testPatientID, testRoomID)
	appointment.ID = uuid.Nil
	assert.True(t, errors.IsInvalidArgument(schedule.AddNewAppointment(appointment)))

	assert.Empty(t, schedule.Appointments())
	assert.Empty(t, schedule.Events())
}

func TestAddNewAppointmentRejectsDuplicateID(t *testing.T) {
	schedule := newTestSchedule(t)
	timeRange := mustRange(t,
		time.Date(2021, 1, 1, 10, 0, 0, 0, eastern),
		time.Date(2021, 1, 1, 11, 0, 0, 0, eastern))

	first := newScheduleAppointment(t, schedule, timeRange, testDoctorID, testPatientID, testRoomID)
	require.NoError(t, schedule.AddNewAppointment(first))

	duplicate := newScheduleAppointment(t, schedule, timeRange, testDoctorID+1, testPatientID+1, testRoomID+1)
	duplicate.ID = first.ID

	err := schedule.AddNewAppointment(duplicate)
	assert.True(t, errors.IsDuplicate(err))
	assert.Len(t, schedule.Appointments(), 1)
}

func TestAddNonOverlappingAppointmentsAreNotConflicting(t *testing.T) {
	schedule := newTestSchedule(t)

	lisa := newScheduleAppointment(t, schedule,
		mustRange(t, time.Date(2021, 1, 1, 10, 0, 0, 0, eastern), time.Date(2021, 1, 1, 11, 0, 0, 0, eastern)),
		2, 3, 4)
	require.NoError(t, schedule.AddNewAppointment(lisa))

	mimi := newScheduleAppointment(t, schedule,
		mustRange(t, time.Date(2021, 1, 1, 12, 0, 0, 0, eastern), time.Date(2021, 1, 1, 14, 0, 0, 0, eastern)),
		5, 7, 6)
	require.NoError(t, schedule.AddNewAppointment(mimi))

	assert.Len(t, schedule.Appointments(), 2)
	assert.False(t, lisa.IsPotentiallyConflicting)
	assert.False(t, mimi.IsPotentiallyConflicting)
}

func TestShiftedStartTimeMarksBothAppointmentsConflicting(t *testing.T) {
	schedule := newTestSchedule(t)
	appointmentType := &AppointmentType{ID: testAppointmentTypeID, Name: "Exam", Code: "EX", DurationMinutes: 60}

	// same room, non-overlapping times
	first := newScheduleAppointment(t, schedule,
		mustRange(t, time.Date(2021, 1, 1, 10, 0, 0, 0, eastern), time.Date(2021, 1, 1, 11, 0, 0, 0, eastern)),
		2, 3, testRoomID)
	second := newScheduleAppointment(t, schedule,
		mustRange(t, time.Date(2021, 1, 1, 13, 0, 0, 0, eastern), time.Date(2021, 1, 1, 14, 0, 0, 0, eastern)),
		5, 7, testRoomID)
	require.NoError(t, schedule.AddNewAppointment(first))
	require.NoError(t, schedule.AddNewAppointment(second))
	require.False(t, first.IsPotentiallyConflicting)
	require.False(t, second.IsPotentiallyConflicting)

	// shift the first appointment onto the second
	_, err := schedule.UpdateAppointment(first.ID, appointmentType,
		time.Date(2021, 1, 1, 13, 30, 0, 0, eastern), first.RoomID, first.DoctorID, first.Title)
	require.NoError(t, err)

	assert.True(t, first.IsPotentiallyConflicting)
	assert.True(t, second.IsPotentiallyConflicting)
}

func TestRoomChangeMarksBothAppointmentsConflicting(t *testing.T) {
	schedule := newTestSchedule(t)
	appointmentType := &AppointmentType{ID: testAppointmentTypeID, Name: "Exam", Code: "EX", DurationMinutes: 60}
	timeRange := mustRange(t,
		time.Date(2021, 1, 1, 10, 0, 0, 0, eastern),
		time.Date(2021, 1, 1, 11, 0, 0, 0, eastern))

	first := newScheduleAppointment(t, schedule, timeRange, 2, 3, 4)
	second := newScheduleAppointment(t, schedule, timeRange, 5, 7, 6)
	require.NoError(t, schedule.AddNewAppointment(first))
	require.NoError(t, schedule.AddNewAppointment(second))
	require.False(t, first.IsPotentiallyConflicting)
	require.False(t, second.IsPotentiallyConflicting)

	_, err := schedule.UpdateAppointment(first.ID, appointmentType,
		timeRange.Start(), second.RoomID, first.DoctorID, first.Title)
	require.NoError(t, err)

	assert.True(t, first.IsPotentiallyConflicting)
	assert.True(t, second.IsPotentiallyConflicting)
}

func TestDoctorChangeMarksBothAppointmentsConflicting(t *testing.T) {
	schedule := newTestSchedule(t)
	appointmentType := &AppointmentType{ID: testAppointmentTypeID, Name: "Exam", Code: "EX", DurationMinutes: 60}
	timeRange := mustRange(t,
		time.Date(2021, 1, 1, 10, 0, 0, 0, eastern),
		time.Date(2021, 1, 1, 11, 0, 0, 0, eastern))

	first := newScheduleAppointment(t, schedule, timeRange, 2, 3, 4)
	second := newScheduleAppointment(t, schedule, timeRange, 5, 7, 6)
	require.NoError(t, schedule.AddNewAppointment(first))
	require.NoError(t, schedule.AddNewAppointment(second))

	_, err := schedule.UpdateAppointment(first.ID, appointmentType,
		timeRange.Start(), first.RoomID, second.DoctorID, first.Title)
	require.NoError(t, err)

	assert.True(t, first.IsPotentiallyConflicting)
	assert.True(t, second.IsPotentiallyConflicting)
}

func TestLongerAppointmentTypeCreatesOverlap(t *testing.T) {
	schedule := newTestSchedule(t)
	start := time.Date(2021, 1, 1, 11, 0, 0, 0, eastern)

	first := newScheduleAppointment(t, schedule,
		mustRange(t, start, start.Add(45*time.Minute)), 2, 3, 4)
	second := newScheduleAppointment(t, schedule,
		mustRange(t, start.Add(time.Hour), start.Add(2*time.Hour)), 5, 7, 4)
	require.NoError(t, schedule.AddNewAppointment(first))
	require.NoError(t, schedule.AddNewAppointment(second))
	require.False(t, first.IsPotentiallyConflicting)

	// stretching the first appointment to 90 minutes runs it into the second
	longer := &AppointmentType{ID: 103, Name: "Surgery", Code: "SU", DurationMinutes: 90}
	_, err := schedule.UpdateAppointment(first.ID, longer, start, first.RoomID, first.DoctorID, first.Title)
	require.NoError(t, err)

	assert.True(t, first.IsPotentiallyConflicting)
	assert.True(t, second.IsPotentiallyConflicting)
}

func TestUpdateAppointmentRejectsZeroID(t *testing.T) {
	schedule := newTestSchedule(t)
	appointmentType := &AppointmentType{ID: 1, DurationMinutes: 30}

	_, err := schedule.UpdateAppointment(uuid.Nil, appointmentType,
		time.Date(2021, 1, 1, 10, 0, 0, 0, eastern), 1, 1, "title")

	assert.True(t, errors.IsInvalidArgument(err))
	assert.Empty(t, schedule.Events())
}

func TestUpdateAppointmentRejectsUnknownID(t *testing.T) {
	schedule := newTestSchedule(t)
	appointmentType := &AppointmentType{ID: 1, DurationMinutes: 30}

	_, err := schedule.UpdateAppointment(uuid.New(), appointmentType,
		time.Date(2021, 1, 1, 10, 0, 0, 0, eastern), 1, 1, "title")

	assert.True(t, errors.IsNotFound(err))
}

func TestUpdateAppointmentLeavesStateUntouchedOnInvalidArgs(t *testing.T) {
	schedule := newTestSchedule(t)
	start := time.Date(2021, 1, 1, 10, 0, 0, 0, eastern)
	appointment := newScheduleAppointment(t, schedule, mustRange(t, start, start.Add(time.Hour)), 2, 3, 4)
	require.NoError(t, schedule.AddNewAppointment(appointment))
	schedule.ClearEvents()

	_, err := schedule.UpdateAppointment(appointment.ID, nil, start, 5, 6, "new")
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = schedule.UpdateAppointment(appointment.ID, &AppointmentType{ID: 1, DurationMinutes: 30}, start, 0, 6, "new")
	assert.True(t, errors.IsInvalidArgument(err))

	assert.Equal(t, 4, appointment.RoomID)
	assert.Equal(t, 2, appointment.DoctorID)
	assert.Equal(t, start, appointment.TimeRange.Start())
	assert.Empty(t, schedule.Events())
}

func TestUpdateAppointmentAppliesAllFieldsAndReturnsSameInstance(t *testing.T) {
	schedule := newTestSchedule(t)
	start := time.Date(2021, 1, 1, 10, 0, 0, 0, eastern)
	appointment := newScheduleAppointment(t, schedule, mustRange(t, start, start.Add(time.Hour)), 2, 3, 4)
	require.NoError(t, schedule.AddNewAppointment(appointment))

	appointmentType := &AppointmentType{ID: 102, Name: "Wellness Exam", Code: "WE", DurationMinutes: 45}
	newStart := time.Date(2021, 1, 1, 11, 0, 0, 0, eastern)

	updated, err := schedule.UpdateAppointment(appointment.ID, appointmentType, newStart, 100, 101, "test title")
	require.NoError(t, err)

	assert.Same(t, appointment, updated)
	assert.Equal(t, 102, updated.AppointmentTypeID)
	assert.Equal(t, 100, updated.RoomID)
	assert.Equal(t, 101, updated.DoctorID)
	assert.Equal(t, "test title", updated.Title)
	assert.Equal(t, newStart, updated.TimeRange.Start())
	assert.Equal(t, newStart.Add(45*time.Minute), updated.TimeRange.End())
}

func TestDeleteAppointmentRemovesAndClearsCounterpartFlag(t *testing.T) {
	schedule := newTestSchedule(t)
	timeRange := mustRange(t,
		time.Date(2021, 1, 1, 10, 0, 0, 0, eastern),
		time.Date(2021, 1, 1, 11, 0, 0, 0, eastern))

	first := newScheduleAppointment(t, schedule, timeRange, 2, 3, 4)
	second := newScheduleAppointment(t, schedule, timeRange, 2, 7, 6)
	require.NoError(t, schedule.AddNewAppointment(first))
	require.NoError(t, schedule.AddNewAppointment(second))
	require.True(t, first.IsPotentiallyConflicting)
	require.True(t, second.IsPotentiallyConflicting)

	require.NoError(t, schedule.DeleteAppointment(first))

	assert.Len(t, schedule.Appointments(), 1)
	assert.False(t, second.IsPotentiallyConflicting)
}

func TestDeleteMissingAppointmentIsIdempotentButStillEmits(t *testing.T) {
	schedule := newTestSchedule(t)
	start := time.Date(2021, 1, 1, 10, 0, 0, 0, eastern)
	present := newScheduleAppointment(t, schedule, mustRange(t, start, start.Add(time.Hour)), 2, 3, 4)
	require.NoError(t, schedule.AddNewAppointment(present))
	schedule.ClearEvents()

	missing := newScheduleAppointment(t, schedule, mustRange(t, start, start.Add(time.Hour)), 5, 6, 7)
	require.NoError(t, schedule.DeleteAppointment(missing))

	assert.Len(t, schedule.Appointments(), 1)

	events := schedule.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeAppointmentDeleted, events[0].EventType())
}

func TestDeleteAppointmentRejectsNil(t *testing.T) {
	schedule := newTestSchedule(t)
	assert.True(t, errors.IsInvalidArgument(schedule.DeleteAppointment(nil)))
	assert.Empty(t, schedule.Events())
}

func TestEventsDrainInInsertionOrder(t *testing.T) {
	schedule := newTestSchedule(t)
	start := time.Date(2021, 1, 1, 10, 0, 0, 0, eastern)
	appointment := newScheduleAppointment(t, schedule, mustRange(t, start, start.Add(time.Hour)), 2, 3, 4)

	require.NoError(t, schedule.AddNewAppointment(appointment))
	_, err := schedule.UpdateAppointment(appointment.ID, &AppointmentType{ID: 1, DurationMinutes: 60},
		start.Add(time.Hour), 4, 2, "moved")
	require.NoError(t, err)

	events := schedule.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, EventTypeAppointmentScheduled, events[0].EventType())
	for _, event := range events[1:] {
		assert.Equal(t, EventTypeAppointmentUpdated, event.EventType())
	}

	schedule.ClearEvents()
	assert.Empty(t, schedule.Events())
	assert.Empty(t, appointment.Events())
}

// conflictOracle recomputes the expected flag for every appointment by brute
// force, independent of the production marking pass.
func conflictOracle(appointments []*Appointment) map[uuid.UUID]bool {
	expected := make(map[uuid.UUID]bool, len(appointments))
	for _, a := range appointments {
		for _, b := range appointments {
			if a == b {
				continue
			}
			sameResource := a.PatientID == b.PatientID || a.RoomID == b.RoomID || a.DoctorID == b.DoctorID
			if sameResource && a.TimeRange.Overlaps(b.TimeRange) {
				expected[a.ID] = true
			}
		}
	}
	return expected
}

func TestConflictFlagsMatchBruteForceOracle(t *testing.T) {
	schedule := newTestSchedule(t)
	day := time.Date(2021, 1, 1, 8, 0, 0, 0, eastern)

	// a mixed bag: overlapping and disjoint slots across a few doctors,
	// patients and rooms
	specs := []struct {
		offset            time.Duration
		duration          time.Duration
		doctor, pat, room int
	}{
		{0, time.Hour, 1, 10, 20},
		{30 * time.Minute, time.Hour, 2, 11, 20},
		{2 * time.Hour, 30 * time.Minute, 1, 12, 21},
		{2 * time.Hour, time.Hour, 3, 13, 22},
		{150 * time.Minute, time.Hour, 3, 10, 23},
		{5 * time.Hour, time.Hour, 2, 11, 20},
	}

	for _, spec := range specs {
		start := day.Add(spec.offset)
		appointment := newScheduleAppointment(t, schedule,
			mustRange(t, start, start.Add(spec.duration)), spec.doctor, spec.pat, spec.room)
		require.NoError(t, schedule.AddNewAppointment(appointment))
	}

	expected := conflictOracle(schedule.Appointments())
	for _, appointment := range schedule.Appointments() {
		assert.Equal(t, expected[appointment.ID], appointment.IsPotentiallyConflicting,
			"appointment %s", appointment.ID)
	}

	// deleting one appointment must refresh every remaining flag
	require.NoError(t, schedule.DeleteAppointment(schedule.Appointments()[1]))
	expected = conflictOracle(schedule.Appointments())
	for _, appointment := range schedule.Appointments() {
		assert.Equal(t, expected[appointment.ID], appointment.IsPotentiallyConflicting,
			"appointment %s after delete", appointment.ID)
	}
}

func TestRehydrateRecomputesConflictFlags(t *testing.T) {
	day := time.Date(2021, 1, 1, 0, 0, 0, 0, eastern)
	scheduleID := uuid.New()
	timeRange := mustRange(t,
		time.Date(2021, 1, 1, 10, 0, 0, 0, eastern),
		time.Date(2021, 1, 1, 11, 0, 0, 0, eastern))

	first, err := NewAppointment(uuid.New(), 1, scheduleID, 1, 2, 3, 4, timeRange, "a")
	require.NoError(t, err)
	second, err := NewAppointment(uuid.New(), 1, scheduleID, 1, 2, 7, 6, timeRange, "b")
	require.NoError(t, err)

	schedule := RehydrateSchedule(scheduleID, 1, mustRange(t, day, day.AddDate(0, 0, 1)),
		[]*Appointment{first, second})

	assert.True(t, first.IsPotentiallyConflicting)
	assert.True(t, second.IsPotentiallyConflicting)
	assert.Empty(t, schedule.Events())
}
