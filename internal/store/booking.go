package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"clinic-appointment-api/internal/model"
)

// BookSlot claims a slot and records the appointment as one unit of work.
// The conditional UPDATE is the commit point: under concurrent attempts on
// the same slot the row lock serializes them at the store, the second
// writer re-evaluates booked = false after the first commits and matches
// zero rows. The unique index on appointments(doctor_id, slot_index)
// backstops the same invariant.
func (s *Postgres) BookSlot(ctx context.Context, b Booking) (*model.Appointment, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var slotTime time.Time
	err = tx.QueryRow(ctx,
		`UPDATE time_slots SET booked = true
		 WHERE doctor_id = $1 AND slot_index = $2 AND booked = false
		 RETURNING start_time`,
		b.DoctorID, b.SlotIndex,
	).Scan(&slotTime)
	if errors.Is(err, pgx.ErrNoRows) {
		// no open slot matched: gone, or never existed
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM time_slots WHERE doctor_id = $1 AND slot_index = $2)`,
			b.DoctorID, b.SlotIndex,
		).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrNotFound
		}
		return nil, ErrSlotTaken
	}
	if err != nil {
		return nil, err
	}

	apt := &model.Appointment{
		ID:           uuid.New().String(),
		DoctorID:     b.DoctorID,
		DepartmentID: b.DepartmentID,
		UserID:       b.UserID,
		SlotIndex:    b.SlotIndex,
		SlotTime:     slotTime,
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO appointments (id, doctor_id, department_id, user_id, slot_index, slot_time)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		apt.ID, apt.DoctorID, apt.DepartmentID, apt.UserID, apt.SlotIndex, apt.SlotTime,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		// unknown department or user referenced by a well-formed id
		if isForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return apt, nil
}

// AppointmentsByUser joins each appointment to its doctor's display name
// and photo. Zero appointments is reported as ErrNotFound; callers treat
// it as "no data", not a fault.
func (s *Postgres) AppointmentsByUser(ctx context.Context, userID string) ([]model.AppointmentWithDoctor, error) {
	rows, err := s.db.Query(ctx,
		`SELECT a.id, a.doctor_id, a.department_id, a.user_id, a.slot_index, a.slot_time,
		        a.created_at, d.name, d.profile_photo
		 FROM appointments a
		 JOIN doctors d ON d.id = a.doctor_id
		 WHERE a.user_id = $1
		 ORDER BY a.slot_time`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AppointmentWithDoctor
	for rows.Next() {
		var a model.AppointmentWithDoctor
		if err := rows.Scan(&a.ID, &a.DoctorID, &a.DepartmentID, &a.UserID, &a.SlotIndex,
			&a.SlotTime, &a.CreatedAt, &a.DoctorName, &a.DoctorPhoto); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}
