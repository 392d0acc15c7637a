package model

// AppointmentType is a read-only value owned outside the schedule aggregate.
// Schedules only consult its duration when re-deriving an appointment's end
// time.
type AppointmentType struct {
	ID              int    `db:"id" json:"id"`
	Name            string `db:"name" json:"name"`
	Code            string `db:"code" json:"code"`
	DurationMinutes int    `db:"duration_minutes" json:"duration_minutes"`
}
