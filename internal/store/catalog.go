package store

import (
	"context"

	"clinic-appointment-api/internal/model"
)

func (s *Postgres) CreateDepartment(ctx context.Context, d *model.Department) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO departments (id, name) VALUES ($1,$2)`, d.ID, d.Name)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *Postgres) ListDepartments(ctx context.Context) ([]model.Department, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, created_at FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Department
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

func (s *Postgres) CreateMedicineCategory(ctx context.Context, c *model.MedicineCategory) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO med_categories (id, category) VALUES ($1,$2)`, c.ID, c.Category)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *Postgres) ListMedicineCategories(ctx context.Context) ([]model.MedicineCategory, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, category FROM med_categories ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MedicineCategory
	for rows.Next() {
		var c model.MedicineCategory
		if err := rows.Scan(&c.ID, &c.Category); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

func (s *Postgres) CreateMedicine(ctx context.Context, m *model.Medicine) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO medicines (id, name, category_id, mfg, exp, prescription_required, price, image_url)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		m.ID, m.Name, m.CategoryID, m.Mfg, m.Exp, m.PrescriptionRequired, m.Price, m.ImageURL)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}
