package store

import (
	"context"
	"errors"
	"time"

	"clinic-appointment-api/internal/model"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrSlotTaken = errors.New("slot already booked")
	ErrDuplicate = errors.New("already exists")
)

// Booking is one attempt to claim a slot for a patient.
type Booking struct {
	UserID       string
	DoctorID     string
	DepartmentID string
	SlotIndex    int
}

// Store is the persistence boundary. The postgres implementation backs the
// server; the memory implementation backs tests.
type Store interface {
	// principals
	CreateUser(ctx context.Context, u *model.User) error
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByID(ctx context.Context, id string) (*model.User, error)
	CreateAdmin(ctx context.Context, a *model.Admin) error
	AdminByHandle(ctx context.Context, adminID string) (*model.Admin, error)
	PrincipalByID(ctx context.Context, role model.Role, id string) (*model.Principal, error)
	SetRefreshToken(ctx context.Context, role model.Role, id, token string, expiresAt time.Time) error
	UpdatePassword(ctx context.Context, role model.Role, id, hash string) error
	UpdateEmail(ctx context.Context, id, email string) error
	UpdateProfilePhoto(ctx context.Context, id, url string) error
	ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)

	// doctors and their slot ledger
	CreateDoctor(ctx context.Context, d *model.Doctor) error
	ListDoctors(ctx context.Context) ([]model.Doctor, error)
	SlotsByDoctor(ctx context.Context, doctorID string) ([]model.TimeSlot, error)

	// booking
	BookSlot(ctx context.Context, b Booking) (*model.Appointment, error)
	AppointmentsByUser(ctx context.Context, userID string) ([]model.AppointmentWithDoctor, error)

	// catalog
	CreateDepartment(ctx context.Context, d *model.Department) error
	ListDepartments(ctx context.Context) ([]model.Department, error)
	CreateMedicineCategory(ctx context.Context, c *model.MedicineCategory) error
	ListMedicineCategories(ctx context.Context) ([]model.MedicineCategory, error)
	CreateMedicine(ctx context.Context, m *model.Medicine) error
}
