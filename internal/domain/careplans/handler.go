package careplans

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"granja-care/internal/domain/animals"
	"granja-care/internal/platform/calendar"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, animalsSvc *animals.Service) {
	r.Route("/animals/{animalID}/care-schedules", func(cr chi.Router) {
		cr.Post("/", createScheduleHandler(svc, animalsSvc))
		cr.Get("/", listSchedulesHandler(svc, animalsSvc))
		cr.Put("/{scheduleID}", updateScheduleHandler(svc, animalsSvc))
		cr.Delete("/{scheduleID}", deleteScheduleHandler(svc, animalsSvc))

		cr.Post("/{scheduleID}/complete", completeScheduleHandler(svc, animalsSvc))
		cr.Post("/{scheduleID}/clear-due-date", clearDueDateHandler(svc, animalsSvc))
	})

	// Creación masiva: un template aplicado a varios animales.
	r.Post("/care-schedules/bulk", bulkSchedulesHandler(svc, animalsSvc))
}

// scheduleRequest es el cuerpo para crear o editar un ítem de cuidado.
// Las fechas viajan como "YYYY-MM-DD"; vacío significa ausente.
type scheduleRequest struct {
	Name           string `json:"name"`
	FrequencyDays  *int   `json:"frequency_days"`
	LastPerformed  string `json:"last_performed"`
	ManualDueDate  string `json:"manual_due_date"`
	DueTime        string `json:"due_time"` // HH:MM
	Notes          string `json:"notes"`
	ReminderAlerts []int  `json:"reminder_alerts"`
}

// bulkRequest es el template de creación masiva.
type bulkRequest struct {
	scheduleRequest
	IsOneTime bool     `json:"is_one_time"`
	AnimalIDs []string `json:"animal_ids"`
}

type completeRequest struct {
	PerformedOn string `json:"performed_on"` // YYYY-MM-DD, opcional (default hoy)
	Note        string `json:"note"`
}

// scheduleResponse representa un schedule con su estado derivado ya resuelto.
type scheduleResponse struct {
	ID             string  `json:"id"`
	AnimalID       string  `json:"animal_id"`
	Name           string  `json:"name"`
	FrequencyDays  *int    `json:"frequency_days,omitempty"`
	LastPerformed  *string `json:"last_performed,omitempty"`
	ManualDueDate  *string `json:"manual_due_date,omitempty"`
	DueTime        string  `json:"due_time,omitempty"`
	Notes          string  `json:"notes,omitempty"`
	ReminderAlerts []int   `json:"reminder_alerts,omitempty"`

	DueDate      *string `json:"due_date"`
	DaysUntilDue *int    `json:"days_until_due"`
	Urgency      Urgency `json:"urgency"`
	IsOverdue    bool    `json:"is_overdue"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// errorResponse es el cuerpo de un fallo de validación.
type errorResponse struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func parseScheduleRequest(req scheduleRequest) (CreateInput, error) {
	in := CreateInput{
		Name:           req.Name,
		FrequencyDays:  req.FrequencyDays,
		DueTime:        req.DueTime,
		Notes:          req.Notes,
		ReminderAlerts: req.ReminderAlerts,
	}

	if req.LastPerformed != "" {
		d, err := calendar.Parse(req.LastPerformed)
		if err != nil {
			return CreateInput{}, ValidationError{Field: "last_performed", Reason: "must be YYYY-MM-DD"}
		}
		in.LastPerformed = &d
	}
	if req.ManualDueDate != "" {
		d, err := calendar.Parse(req.ManualDueDate)
		if err != nil {
			return CreateInput{}, ValidationError{Field: "manual_due_date", Reason: "must be YYYY-MM-DD"}
		}
		in.ManualDueDate = &d
	}

	return in, nil
}

// createScheduleHandler godoc
// @Summary Crear ítem de cuidado
// @Description Crea un ítem de cuidado recurrente o puntual para el animal.
// @Tags care-schedules
// @Accept json
// @Produce json
// @Param animalID path string true "ID del animal"
// @Param payload body scheduleRequest true "Datos del ítem; fechas YYYY-MM-DD"
// @Success 201 {object} scheduleResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID}/care-schedules [post]
func createScheduleHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		animalID := chi.URLParam(r, "animalID")
		if _, err := animalsSvc.GetByID(r.Context(), animalID); err != nil {
			http.Error(w, "animal not found", http.StatusNotFound)
			return
		}

		var req scheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in, err := parseScheduleRequest(req)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		sched, err := svc.Create(r.Context(), animalID, in)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toScheduleResponse(sched, svc.ResolveNow(sched)))
	}
}

// listSchedulesHandler godoc
// @Summary Listar ítems de cuidado de un animal
// @Description Cada fila viene con su estado derivado: fecha de vencimiento,
// días restantes y urgencia (overdue / due_soon / upcoming / normal /
// unscheduled).
// @Tags care-schedules
// @Produce json
// @Param animalID path string true "ID del animal"
// @Success 200 {array} scheduleResponse
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID}/care-schedules [get]
func listSchedulesHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		animalID := chi.URLParam(r, "animalID")
		if _, err := animalsSvc.GetByID(r.Context(), animalID); err != nil {
			http.Error(w, "animal not found", http.StatusNotFound)
			return
		}

		items, err := svc.ListByAnimal(r.Context(), animalID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]scheduleResponse, 0, len(items))
		for _, sched := range items {
			out = append(out, toScheduleResponse(sched, svc.ResolveNow(sched)))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// updateScheduleHandler godoc
// @Summary Editar ítem de cuidado
// @Tags care-schedules
// @Accept json
// @Produce json
// @Param animalID path string true "ID del animal"
// @Param scheduleID path string true "ID del ítem"
// @Param payload body scheduleRequest true "Datos nuevos del ítem"
// @Success 200 {object} scheduleResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {string} string "schedule not found"
// @Router /animals/{animalID}/care-schedules/{scheduleID} [put]
func updateScheduleHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sched, ok := scheduleForAnimal(w, r, svc, animalsSvc)
		if !ok {
			return
		}

		var req scheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in, err := parseScheduleRequest(req)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		updated, err := svc.Update(r.Context(), sched.ID, in)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toScheduleResponse(updated, svc.ResolveNow(updated)))
	}
}

// deleteScheduleHandler godoc
// @Summary Borrar ítem de cuidado
// @Tags care-schedules
// @Param animalID path string true "ID del animal"
// @Param scheduleID path string true "ID del ítem"
// @Success 204 {string} string ""
// @Failure 404 {string} string "schedule not found"
// @Router /animals/{animalID}/care-schedules/{scheduleID} [delete]
func deleteScheduleHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sched, ok := scheduleForAnimal(w, r, svc, animalsSvc)
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), sched.ID); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// completeScheduleHandler godoc
// @Summary Completar ítem de cuidado
// @Description Registra la realización del cuidado. Con frecuencia presente,
// el override manual se limpia y la cadencia recurrente vuelve a mandar.
// @Tags care-schedules
// @Accept json
// @Produce json
// @Param animalID path string true "ID del animal"
// @Param scheduleID path string true "ID del ítem"
// @Param payload body completeRequest false "Fecha de realización (default hoy) y nota opcional"
// @Success 200 {object} scheduleResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {string} string "schedule not found"
// @Router /animals/{animalID}/care-schedules/{scheduleID}/complete [post]
func completeScheduleHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sched, ok := scheduleForAnimal(w, r, svc, animalsSvc)
		if !ok {
			return
		}

		var req completeRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		var performedOn *calendar.Date
		if req.PerformedOn != "" {
			d, err := calendar.Parse(req.PerformedOn)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Field: "performed_on", Reason: "must be YYYY-MM-DD"})
				return
			}
			performedOn = &d
		}

		updated, err := svc.Complete(r.Context(), sched.ID, performedOn, req.Note)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toScheduleResponse(updated, svc.ResolveNow(updated)))
	}
}

// clearDueDateHandler godoc
// @Summary Quitar fecha manual
// @Description Quita el override manual. En ítems sin frecuencia equivale a
// "hecho y sin próxima fecha": el schedule queda unscheduled.
// @Tags care-schedules
// @Produce json
// @Param animalID path string true "ID del animal"
// @Param scheduleID path string true "ID del ítem"
// @Success 200 {object} scheduleResponse
// @Failure 404 {string} string "schedule not found"
// @Router /animals/{animalID}/care-schedules/{scheduleID}/clear-due-date [post]
func clearDueDateHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sched, ok := scheduleForAnimal(w, r, svc, animalsSvc)
		if !ok {
			return
		}
		updated, err := svc.ClearManualDueDate(r.Context(), sched.ID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toScheduleResponse(updated, svc.ResolveNow(updated)))
	}
}

// bulkSchedulesHandler godoc
// @Summary Crear ítem de cuidado para varios animales
// @Description Instancia el template una vez por animal. Los schedules
// emitidos son independientes entre sí. Con is_one_time el template sale sin
// frecuencia aunque traiga una.
// @Tags care-schedules
// @Accept json
// @Produce json
// @Param payload body bulkRequest true "Template + animal_ids"
// @Success 201 {array} scheduleResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {string} string "animal not found"
// @Router /care-schedules/bulk [post]
func bulkSchedulesHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		base, err := parseScheduleRequest(req.scheduleRequest)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		// Todos los animales deben existir antes de instanciar nada.
		for _, id := range req.AnimalIDs {
			if _, err := animalsSvc.GetByID(r.Context(), id); err != nil {
				http.Error(w, "animal not found: "+id, http.StatusNotFound)
				return
			}
		}

		created, err := svc.Expand(r.Context(), ExpandInput{
			Name:           base.Name,
			FrequencyDays:  base.FrequencyDays,
			LastPerformed:  base.LastPerformed,
			ManualDueDate:  base.ManualDueDate,
			DueTime:        base.DueTime,
			Notes:          base.Notes,
			ReminderAlerts: base.ReminderAlerts,
			IsOneTime:      req.IsOneTime,
		}, req.AnimalIDs)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := make([]scheduleResponse, 0, len(created))
		for _, sched := range created {
			out = append(out, toScheduleResponse(sched, svc.ResolveNow(sched)))
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

// scheduleForAnimal resuelve el schedule del path y valida que el animal
// exista y que el schedule le pertenezca.
func scheduleForAnimal(w http.ResponseWriter, r *http.Request, svc *Service, animalsSvc *animals.Service) (CareSchedule, bool) {
	animalID := chi.URLParam(r, "animalID")
	if _, err := animalsSvc.GetByID(r.Context(), animalID); err != nil {
		http.Error(w, "animal not found", http.StatusNotFound)
		return CareSchedule{}, false
	}

	sched, err := svc.GetByID(r.Context(), chi.URLParam(r, "scheduleID"))
	if err != nil || sched.AnimalID != animalID {
		http.Error(w, "schedule not found", http.StatusNotFound)
		return CareSchedule{}, false
	}
	return sched, true
}

func toScheduleResponse(s CareSchedule, res Resolution) scheduleResponse {
	resp := scheduleResponse{
		ID:             s.ID,
		AnimalID:       s.AnimalID,
		Name:           s.Name,
		FrequencyDays:  s.FrequencyDays,
		DueTime:        s.DueTime,
		Notes:          s.Notes,
		ReminderAlerts: s.ReminderAlerts,
		Urgency:        res.Urgency,
		IsOverdue:      res.Overdue,
		DaysUntilDue:   res.DaysUntilDue,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	if s.LastPerformed != nil {
		v := s.LastPerformed.String()
		resp.LastPerformed = &v
	}
	if s.ManualDueDate != nil {
		v := s.ManualDueDate.String()
		resp.ManualDueDate = &v
	}
	if res.DueDate != nil {
		v := res.DueDate.String()
		resp.DueDate = &v
	}
	return resp
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDomainError(w http.ResponseWriter, err error) {
	var nf NotFoundError
	if errors.As(err, &nf) {
		http.Error(w, nf.Error(), http.StatusNotFound)
		return
	}
	var ve ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Field: ve.Field, Reason: ve.Reason})
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}
