package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"clinic-appointment-api/internal/auth"
	"clinic-appointment-api/internal/model"
	"clinic-appointment-api/internal/store"
)

// AdminSignup onboards a staff account. The adminID is the login handle.
func (h *Handler) AdminSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		AdminID  string `json:"adminID"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.AdminID == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email, adminID and password are required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.fail(w, err)
		return
	}
	a := &model.Admin{
		ID:           uuid.NewString(),
		AdminID:      req.AdminID,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
	}
	if err := h.store.CreateAdmin(r.Context(), a); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":      a.ID,
		"adminID": a.AdminID,
		"email":   a.Email,
	})
}

func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AdminID  string `json:"adminID"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AdminID == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "adminID and password are required")
		return
	}

	a, err := h.store.AdminByHandle(r.Context(), req.AdminID)
	if err != nil {
		h.metrics.ObserveAuth("admin_login", "denied")
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !auth.CheckPassword(a.PasswordHash, req.Password) {
		h.metrics.ObserveAuth("admin_login", "denied")
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	pair, err := h.tokens.Issue(r.Context(), a.Principal())
	if err != nil {
		h.metrics.ObserveAuth("admin_login", "error")
		h.fail(w, err)
		return
	}
	h.metrics.ObserveAuth("admin_login", "ok")
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
	})
}

type slotWindow struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// AddDoctor creates a doctor and seeds its slot ledger from the submitted
// availability windows. The profile image is uploaded before any store
// write so an upload failure leaves no half-created doctor.
func (h *Handler) AddDoctor(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	name := r.FormValue("name")
	email := r.FormValue("email")
	phone := r.FormValue("phone")
	departmentID := r.FormValue("department")
	short := r.FormValue("shortDescription")
	long := r.FormValue("longDescription")
	if name == "" || email == "" || departmentID == "" {
		writeError(w, http.StatusBadRequest, "name, email and department are required")
		return
	}
	charge, err := strconv.Atoi(r.FormValue("consultationCharge"))
	if err != nil || charge < 0 {
		writeError(w, http.StatusBadRequest, "invalid consultation charge")
		return
	}

	var windows []slotWindow
	if raw := r.FormValue("availability"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &windows); err != nil {
			writeError(w, http.StatusBadRequest, "invalid availability")
			return
		}
	}
	if len(windows) == 0 {
		writeError(w, http.StatusBadRequest, "at least one availability window is required")
		return
	}
	for _, win := range windows {
		if !win.EndTime.After(win.StartTime) {
			writeError(w, http.StatusBadRequest, "availability window must end after it starts")
			return
		}
	}

	photo := ""
	if file, header, err := r.FormFile("profile"); err == nil {
		defer file.Close()
		key := fmt.Sprintf("doctors/%s%s", uuid.NewString(), filepath.Ext(header.Filename))
		photo, err = h.uploader.Upload(r.Context(), key, header.Header.Get("Content-Type"), file)
		if err != nil {
			h.fail(w, err)
			return
		}
	}

	d := &model.Doctor{
		ID:                 uuid.NewString(),
		Name:               name,
		Email:              strings.ToLower(email),
		Phone:              phone,
		ConsultationCharge: charge,
		ProfilePhoto:       photo,
		DepartmentID:       departmentID,
		ShortDescription:   short,
		LongDescription:    long,
	}
	for i, win := range windows {
		d.Slots = append(d.Slots, model.TimeSlot{
			DoctorID:  d.ID,
			Index:     i,
			StartTime: win.StartTime,
			EndTime:   win.EndTime,
		})
	}

	if err := h.store.CreateDoctor(r.Context(), d); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": d.ID})
}

func (h *Handler) AddDepartment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "department name is required")
		return
	}
	d := &model.Department{ID: uuid.NewString(), Name: req.Name}
	if err := h.store.CreateDepartment(r.Context(), d); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, departmentResponse{ID: d.ID, Name: d.Name})
}

func (h *Handler) AddMedicineCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category string `json:"category"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Category == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}
	c := &model.MedicineCategory{ID: uuid.NewString(), Category: req.Category}
	if err := h.store.CreateMedicineCategory(r.Context(), c); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": c.ID, "category": c.Category})
}

func (h *Handler) GetMedicineCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.store.ListMedicineCategories(r.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no medicine categories found")
			return
		}
		h.fail(w, err)
		return
	}
	out := make([]map[string]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, map[string]string{"id": c.ID, "category": c.Category})
	}
	writeJSON(w, http.StatusOK, out)
}

// AddMedicine accepts multipart form data because the medicine image rides
// along with the fields.
func (h *Handler) AddMedicine(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	name := r.FormValue("name")
	categoryID := r.FormValue("category")
	if name == "" || categoryID == "" {
		writeError(w, http.StatusBadRequest, "name and category are required")
		return
	}
	price, err := strconv.Atoi(r.FormValue("price"))
	if err != nil || price < 0 {
		writeError(w, http.StatusBadRequest, "invalid price")
		return
	}
	mfg, err := time.Parse(time.RFC3339, r.FormValue("mfg"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid mfg date")
		return
	}
	exp, err := time.Parse(time.RFC3339, r.FormValue("exp"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid exp date")
		return
	}
	if exp.Before(mfg) {
		writeError(w, http.StatusBadRequest, "expiry date must not precede manufacture date")
		return
	}
	prescription := r.FormValue("prescriptionRequired") == "true"

	imageURL := ""
	if file, header, err := r.FormFile("medImage"); err == nil {
		defer file.Close()
		key := fmt.Sprintf("medicines/%s%s", uuid.NewString(), filepath.Ext(header.Filename))
		imageURL, err = h.uploader.Upload(r.Context(), key, header.Header.Get("Content-Type"), file)
		if err != nil {
			h.fail(w, err)
			return
		}
	}

	m := &model.Medicine{
		ID:                   uuid.NewString(),
		Name:                 name,
		CategoryID:           categoryID,
		Mfg:                  mfg,
		Exp:                  exp,
		PrescriptionRequired: prescription,
		Price:                price,
		ImageURL:             imageURL,
	}
	if err := h.store.CreateMedicine(r.Context(), m); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": m.ID})
}
