package handler

import (
	"time"

	"portal/internal/attendance"
	"portal/internal/user"
)

type userPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

func newUserPayload(u *user.User) *userPayload {
	if u == nil {
		return nil
	}
	return &userPayload{ID: u.ID, Name: u.Name(), Role: u.Role(), Email: u.Email}
}

type recordPayload struct {
	Date     string     `json:"date"`
	CheckIn  *time.Time `json:"checkIn"`
	CheckOut *time.Time `json:"checkOut"`
}

func newRecordPayloads(recs []attendance.Record) []recordPayload {
	out := make([]recordPayload, 0, len(recs))
	for _, r := range recs {
		out = append(out, recordPayload{
			Date:     r.Day.UTC().Format(time.DateOnly),
			CheckIn:  utc(r.CheckIn),
			CheckOut: utc(r.CheckOut),
		})
	}
	return out
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
