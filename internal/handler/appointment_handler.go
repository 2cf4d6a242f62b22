package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"clinic-appointment-api/internal/middleware"
	"clinic-appointment-api/internal/model"
	"clinic-appointment-api/internal/store"
)

type doctorResponse struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Email              string         `json:"email"`
	Phone              string         `json:"phone"`
	ConsultationCharge int            `json:"consultationCharge"`
	ProfilePhoto       string         `json:"profilePhoto,omitempty"`
	DepartmentID       string         `json:"departmentId"`
	ShortDescription   string         `json:"shortDescription"`
	LongDescription    string         `json:"longDescription"`
	Slots              []slotResponse `json:"slots,omitempty"`
}

type slotResponse struct {
	Index     int       `json:"slotIndex"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Booked    bool      `json:"booked"`
}

func toDoctorResponse(d model.Doctor) doctorResponse {
	resp := doctorResponse{
		ID:                 d.ID,
		Name:               d.Name,
		Email:              d.Email,
		Phone:              d.Phone,
		ConsultationCharge: d.ConsultationCharge,
		ProfilePhoto:       d.ProfilePhoto,
		DepartmentID:       d.DepartmentID,
		ShortDescription:   d.ShortDescription,
		LongDescription:    d.LongDescription,
	}
	for _, s := range d.Slots {
		resp.Slots = append(resp.Slots, slotResponse{
			Index:     s.Index,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Booked:    s.Booked,
		})
	}
	return resp
}

func (h *Handler) GetDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.store.ListDoctors(r.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no doctors found")
			return
		}
		h.fail(w, err)
		return
	}
	out := make([]doctorResponse, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, toDoctorResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetSlots returns the slot ledger for one doctor, ordered by slot index.
func (h *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	doctorID := r.URL.Query().Get("doctor_id")
	if doctorID == "" {
		writeError(w, http.StatusBadRequest, "doctor_id is required")
		return
	}
	slots, err := h.store.SlotsByDoctor(r.Context(), doctorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no time slot found")
			return
		}
		h.fail(w, err)
		return
	}
	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotResponse{
			Index:     s.Index,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Booked:    s.Booked,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type bookRequest struct {
	DoctorID     string `json:"doctorId"`
	SlotIndex    *int   `json:"slotIndex"`
	DepartmentID string `json:"departmentId"`
	PatientID    string `json:"patientId"`
	ChosenTime   string `json:"chosenTime"`
}

// BookAppointment claims one slot for the calling patient. The actual
// check-and-flip happens in the store inside a single transaction; losing
// a race surfaces as a conflict, never as a second confirmation.
func (h *Handler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised request")
		return
	}

	var req bookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DoctorID == "" || req.DepartmentID == "" || req.PatientID == "" || req.SlotIndex == nil {
		writeError(w, http.StatusBadRequest, "doctorId, departmentId, patientId and slotIndex are required")
		return
	}
	if _, err := uuid.Parse(req.DoctorID); err != nil {
		writeError(w, http.StatusBadRequest, "invalid doctorId")
		return
	}
	if _, err := uuid.Parse(req.PatientID); err != nil {
		writeError(w, http.StatusBadRequest, "invalid patientId")
		return
	}
	if _, err := uuid.Parse(req.DepartmentID); err != nil {
		writeError(w, http.StatusBadRequest, "invalid departmentId")
		return
	}
	if *req.SlotIndex < 0 {
		writeError(w, http.StatusBadRequest, "invalid slotIndex")
		return
	}
	// a patient books for themselves only
	if req.PatientID != id.ID {
		writeError(w, http.StatusBadRequest, "patientId does not match the authenticated user")
		return
	}

	appt, err := h.store.BookSlot(r.Context(), store.Booking{
		UserID:       id.ID,
		DoctorID:     req.DoctorID,
		DepartmentID: req.DepartmentID,
		SlotIndex:    *req.SlotIndex,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrSlotTaken):
			h.metrics.ObserveBooking("conflict")
		case errors.Is(err, store.ErrNotFound):
			h.metrics.ObserveBooking("not_found")
		default:
			h.metrics.ObserveBooking("error")
		}
		h.fail(w, err)
		return
	}
	h.metrics.ObserveBooking("ok")
	writeJSON(w, http.StatusOK, map[string]string{"appointmentId": appt.ID})
}

type appointmentResponse struct {
	ID          string    `json:"id"`
	DoctorID    string    `json:"doctorId"`
	DoctorName  string    `json:"doctorName"`
	DoctorPhoto string    `json:"doctorPhoto,omitempty"`
	SlotIndex   int       `json:"slotIndex"`
	SlotTime    time.Time `json:"slotTime"`
}

func (h *Handler) GetAppointments(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised request")
		return
	}
	appts, err := h.store.AppointmentsByUser(r.Context(), id.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no upcoming appointments")
			return
		}
		h.fail(w, err)
		return
	}
	out := make([]appointmentResponse, 0, len(appts))
	for _, a := range appts {
		out = append(out, appointmentResponse{
			ID:          a.ID,
			DoctorID:    a.DoctorID,
			DoctorName:  a.DoctorName,
			DoctorPhoto: a.DoctorPhoto,
			SlotIndex:   a.SlotIndex,
			SlotTime:    a.SlotTime,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
