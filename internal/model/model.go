package model

import "time"

type Role string

const (
	RolePatient Role = "patient"
	RoleAdmin   Role = "admin"
)

type User struct {
	ID               string
	Username         string
	Email            string
	PasswordHash     string
	ProfilePhoto     string
	RefreshToken     string
	RefreshExpiresAt time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Admin struct {
	ID               string
	AdminID          string
	Email            string
	PasswordHash     string
	RefreshToken     string
	RefreshExpiresAt time.Time
	CreatedAt        time.Time
}

// Principal is the role-agnostic view of a User or Admin used by the
// token lifecycle.
type Principal struct {
	ID           string
	Role         Role
	Handle       string
	Email        string
	ProfilePhoto string
	RefreshToken string
}

func (u *User) Principal() *Principal {
	return &Principal{
		ID:           u.ID,
		Role:         RolePatient,
		Handle:       u.Username,
		Email:        u.Email,
		ProfilePhoto: u.ProfilePhoto,
		RefreshToken: u.RefreshToken,
	}
}

func (a *Admin) Principal() *Principal {
	return &Principal{
		ID:           a.ID,
		Role:         RoleAdmin,
		Handle:       a.AdminID,
		Email:        a.Email,
		RefreshToken: a.RefreshToken,
	}
}

type Doctor struct {
	ID                 string
	Name               string
	Email              string
	Phone              string
	ConsultationCharge int
	ProfilePhoto       string
	DepartmentID       string
	ShortDescription   string
	LongDescription    string
	Slots              []TimeSlot
	CreatedAt          time.Time
}

// TimeSlot is one bookable window. A doctor owns its slots; Index is
// unique per doctor. Booked goes false->true exactly once and never back.
type TimeSlot struct {
	DoctorID  string
	Index     int
	StartTime time.Time
	EndTime   time.Time
	Booked    bool
}

type Appointment struct {
	ID           string
	DoctorID     string
	DepartmentID string
	UserID       string
	SlotIndex    int
	SlotTime     time.Time
	CreatedAt    time.Time
}

// AppointmentWithDoctor joins an appointment to its doctor's display data.
type AppointmentWithDoctor struct {
	Appointment
	DoctorName  string
	DoctorPhoto string
}

type Department struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type MedicineCategory struct {
	ID       string
	Category string
}

type Medicine struct {
	ID                   string
	Name                 string
	CategoryID           string
	Mfg                  time.Time
	Exp                  time.Time
	PrescriptionRequired bool
	Price                int
	ImageURL             string
}
