// Package memory is a mutex-guarded Store used in tests and local runs
// without postgres. Booking serializes on the store mutex, which preserves
// the same one-winner-per-slot guarantee the SQL transaction provides.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"clinic-appointment-api/internal/model"
	"clinic-appointment-api/internal/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu           sync.Mutex
	users        map[string]*model.User
	admins       map[string]*model.Admin
	doctors      map[string]*model.Doctor
	slots        map[string][]model.TimeSlot // keyed by doctor id, ordered by index
	appointments []model.Appointment
	departments  []model.Department
	categories   []model.MedicineCategory
	medicines    []model.Medicine
}

func New() *Store {
	return &Store{
		users:   make(map[string]*model.User),
		admins:  make(map[string]*model.Admin),
		doctors: make(map[string]*model.Doctor),
		slots:   make(map[string][]model.TimeSlot),
	}
}

func (s *Store) CreateUser(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return store.ErrDuplicate
		}
	}
	cp := *u
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	s.users[u.ID] = &cp
	return nil
}

func (s *Store) UserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) CreateAdmin(_ context.Context, a *model.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.admins {
		if existing.AdminID == a.AdminID {
			return store.ErrDuplicate
		}
	}
	cp := *a
	cp.CreatedAt = time.Now()
	s.admins[a.ID] = &cp
	return nil
}

func (s *Store) AdminByHandle(_ context.Context, adminID string) (*model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.admins {
		if a.AdminID == adminID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) PrincipalByID(_ context.Context, role model.Role, id string) (*model.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if role == model.RoleAdmin {
		if a, ok := s.admins[id]; ok {
			return a.Principal(), nil
		}
		return nil, nil
	}
	if u, ok := s.users[id]; ok {
		return u.Principal(), nil
	}
	return nil, nil
}

func (s *Store) SetRefreshToken(_ context.Context, role model.Role, id, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if role == model.RoleAdmin {
		a, ok := s.admins[id]
		if !ok {
			return store.ErrNotFound
		}
		a.RefreshToken = token
		a.RefreshExpiresAt = expiresAt
		return nil
	}
	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.RefreshToken = token
	u.RefreshExpiresAt = expiresAt
	return nil
}

func (s *Store) UpdatePassword(_ context.Context, role model.Role, id, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if role == model.RoleAdmin {
		a, ok := s.admins[id]
		if !ok {
			return store.ErrNotFound
		}
		a.PasswordHash = hash
		return nil
	}
	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (s *Store) UpdateEmail(_ context.Context, id, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Email = email
	u.UpdatedAt = time.Now()
	return nil
}

func (s *Store) UpdateProfilePhoto(_ context.Context, id, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.ProfilePhoto = url
	u.UpdatedAt = time.Now()
	return nil
}

func (s *Store) ClearExpiredRefreshTokens(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, u := range s.users {
		if u.RefreshToken != "" && u.RefreshExpiresAt.Before(now) {
			u.RefreshToken = ""
			n++
		}
	}
	for _, a := range s.admins {
		if a.RefreshToken != "" && a.RefreshExpiresAt.Before(now) {
			a.RefreshToken = ""
			n++
		}
	}
	return n, nil
}

func (s *Store) CreateDoctor(_ context.Context, d *model.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doctors[d.ID]; ok {
		return store.ErrDuplicate
	}
	cp := *d
	cp.CreatedAt = time.Now()
	cp.Slots = nil
	s.doctors[d.ID] = &cp
	ledger := make([]model.TimeSlot, len(d.Slots))
	for i, slot := range d.Slots {
		ledger[i] = model.TimeSlot{
			DoctorID:  d.ID,
			Index:     i,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		}
	}
	s.slots[d.ID] = ledger
	return nil
}

func (s *Store) ListDoctors(_ context.Context) ([]model.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Doctor
	for id, d := range s.doctors {
		cp := *d
		cp.Slots = append([]model.TimeSlot(nil), s.slots[id]...)
		out = append(out, cp)
	}
	if len(out) == 0 {
		return nil, store.ErrNotFound
	}
	return out, nil
}

func (s *Store) SlotsByDoctor(_ context.Context, doctorID string) ([]model.TimeSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ledger := s.slots[doctorID]
	if len(ledger) == 0 {
		return nil, store.ErrNotFound
	}
	return append([]model.TimeSlot(nil), ledger...), nil
}

func (s *Store) BookSlot(_ context.Context, b store.Booking) (*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ledger, ok := s.slots[b.DoctorID]
	if !ok || b.SlotIndex < 0 || b.SlotIndex >= len(ledger) {
		return nil, store.ErrNotFound
	}
	if ledger[b.SlotIndex].Booked {
		return nil, store.ErrSlotTaken
	}
	ledger[b.SlotIndex].Booked = true
	apt := model.Appointment{
		ID:           uuid.New().String(),
		DoctorID:     b.DoctorID,
		DepartmentID: b.DepartmentID,
		UserID:       b.UserID,
		SlotIndex:    b.SlotIndex,
		SlotTime:     ledger[b.SlotIndex].StartTime,
		CreatedAt:    time.Now(),
	}
	s.appointments = append(s.appointments, apt)
	return &apt, nil
}

func (s *Store) AppointmentsByUser(_ context.Context, userID string) ([]model.AppointmentWithDoctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.AppointmentWithDoctor
	for _, a := range s.appointments {
		if a.UserID != userID {
			continue
		}
		joined := model.AppointmentWithDoctor{Appointment: a}
		if d, ok := s.doctors[a.DoctorID]; ok {
			joined.DoctorName = d.Name
			joined.DoctorPhoto = d.ProfilePhoto
		}
		out = append(out, joined)
	}
	if len(out) == 0 {
		return nil, store.ErrNotFound
	}
	return out, nil
}

func (s *Store) CreateDepartment(_ context.Context, d *model.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.departments {
		if existing.Name == d.Name {
			return store.ErrDuplicate
		}
	}
	cp := *d
	cp.CreatedAt = time.Now()
	s.departments = append(s.departments, cp)
	return nil
}

func (s *Store) ListDepartments(_ context.Context) ([]model.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.departments) == 0 {
		return nil, store.ErrNotFound
	}
	return append([]model.Department(nil), s.departments...), nil
}

func (s *Store) CreateMedicineCategory(_ context.Context, c *model.MedicineCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if existing.Category == c.Category {
			return store.ErrDuplicate
		}
	}
	s.categories = append(s.categories, *c)
	return nil
}

func (s *Store) ListMedicineCategories(_ context.Context) ([]model.MedicineCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.categories) == 0 {
		return nil, store.ErrNotFound
	}
	return append([]model.MedicineCategory(nil), s.categories...), nil
}

func (s *Store) CreateMedicine(_ context.Context, m *model.Medicine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.medicines = append(s.medicines, *m)
	return nil
}
