package store

import (
	"context"

	"clinic-appointment-api/internal/model"
)

// CreateDoctor inserts the doctor and its slot ledger in one transaction;
// slot indexes are assigned in the order the slots were given.
func (s *Postgres) CreateDoctor(ctx context.Context, d *model.Doctor) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO doctors (id, name, email, phone, consultation_charge, profile_photo,
		                      department_id, short_description, long_description)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		d.ID, d.Name, d.Email, d.Phone, d.ConsultationCharge, d.ProfilePhoto,
		d.DepartmentID, d.ShortDescription, d.LongDescription,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}

	for i, slot := range d.Slots {
		_, err = tx.Exec(ctx,
			`INSERT INTO time_slots (doctor_id, slot_index, start_time, end_time, booked)
			 VALUES ($1,$2,$3,$4,false)`,
			d.ID, i, slot.StartTime, slot.EndTime,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *Postgres) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, email, phone, consultation_charge, profile_photo,
		        department_id, short_description, long_description, created_at
		 FROM doctors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Doctor
	byID := map[string]int{}
	for rows.Next() {
		var d model.Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Email, &d.Phone, &d.ConsultationCharge,
			&d.ProfilePhoto, &d.DepartmentID, &d.ShortDescription, &d.LongDescription,
			&d.CreatedAt); err != nil {
			return nil, err
		}
		byID[d.ID] = len(out)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}

	slotRows, err := s.db.Query(ctx,
		`SELECT doctor_id, slot_index, start_time, end_time, booked
		 FROM time_slots ORDER BY doctor_id, slot_index`)
	if err != nil {
		return nil, err
	}
	defer slotRows.Close()

	for slotRows.Next() {
		var t model.TimeSlot
		if err := slotRows.Scan(&t.DoctorID, &t.Index, &t.StartTime, &t.EndTime, &t.Booked); err != nil {
			return nil, err
		}
		if i, ok := byID[t.DoctorID]; ok {
			out[i].Slots = append(out[i].Slots, t)
		}
	}
	return out, slotRows.Err()
}

// SlotsByDoctor returns the doctor's full ledger, booked and open alike.
// A doctor with no slots at all reports ErrNotFound.
func (s *Postgres) SlotsByDoctor(ctx context.Context, doctorID string) ([]model.TimeSlot, error) {
	rows, err := s.db.Query(ctx,
		`SELECT doctor_id, slot_index, start_time, end_time, booked
		 FROM time_slots WHERE doctor_id = $1 ORDER BY slot_index`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TimeSlot
	for rows.Next() {
		var t model.TimeSlot
		if err := rows.Scan(&t.DoctorID, &t.Index, &t.StartTime, &t.EndTime, &t.Booked); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}
