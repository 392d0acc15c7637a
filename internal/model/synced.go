package model

// Read models synced from the clinic management context. The scheduling core
// never mutates these; they back the lookup endpoints the front desk UI uses
// to populate booking forms.

type Client struct {
	ID                int    `db:"id" json:"id"`
	FullName          string `db:"full_name" json:"full_name"`
	EmailAddress      string `db:"email_address" json:"email_address"`
	PreferredDoctorID int    `db:"preferred_doctor_id" json:"preferred_doctor_id"`
}

type Patient struct {
	ID                int    `db:"id" json:"id"`
	ClientID          int    `db:"client_id" json:"client_id"`
	Name              string `db:"name" json:"name"`
	Sex               string `db:"sex" json:"sex"`
	PreferredDoctorID int    `db:"preferred_doctor_id" json:"preferred_doctor_id"`
}

type Doctor struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type Room struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
