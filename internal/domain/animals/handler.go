package animals

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"granja-care/internal/platform/calendar"
	"granja-care/internal/platform/money"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// ExpenseTotaller expone el agregado de gastos de un animal.
// Se define acá (y no se importa el módulo de expenses) para evitar
// ciclos de imports entre módulos (animals <-> expenses).
type ExpenseTotaller interface {
	TotalForAnimal(ctx context.Context, animalID string) (decimal.Decimal, error)
}

func RegisterRoutes(r chi.Router, svc *Service, totals ExpenseTotaller) {
	r.Route("/animals", func(ar chi.Router) {
		ar.Post("/", createAnimalHandler(svc))
		ar.Get("/", listAnimalsHandler(svc))
		ar.Get("/{animalID}", getAnimalHandler(svc))
		ar.Put("/{animalID}", updateAnimalHandler(svc))
		ar.Delete("/{animalID}", deleteAnimalHandler(svc))

		ar.Get("/{animalID}/metrics", metricsHandler(svc, totals))
	})
}

// animalRequest es el cuerpo para crear o editar un animal.
// Los montos viajan como string decimal, nunca como float binario.
type animalRequest struct {
	Name      string `json:"name"`
	Category  string `json:"category" enums:"pet,livestock"`
	Species   string `json:"species"`
	Breed     string `json:"breed"`
	BirthDate string `json:"birth_date"` // YYYY-MM-DD, opcional
	TagNumber string `json:"tag_number"`

	ProcessingCost string `json:"processing_cost"`  // opcional
	FinalWeightLbs string `json:"final_weight_lbs"` // opcional

	Notes string `json:"notes"`
}

// animalResponse representa un animal devuelto por la API.
type animalResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Category  Category   `json:"category"`
	Species   string     `json:"species"`
	Breed     string     `json:"breed"`
	BirthDate *string    `json:"birth_date,omitempty"`
	TagNumber string     `json:"tag_number"`

	ProcessingCost string  `json:"processing_cost"`
	FinalWeightLbs *string `json:"final_weight_lbs,omitempty"`

	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// metricsResponse son las métricas derivadas del animal.
// cost_per_pound viene nulo cuando no hay peso final registrado.
type metricsResponse struct {
	AnimalID       string  `json:"animal_id"`
	TotalExpenses  string  `json:"total_expenses"`
	ProcessingCost string  `json:"processing_cost"`
	FinalWeightLbs *string `json:"final_weight_lbs,omitempty"`
	CostPerPound   *string `json:"cost_per_pound,omitempty"`
}

// errorResponse es el cuerpo de un fallo de validación.
type errorResponse struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func parseAnimalRequest(req animalRequest) (CreateInput, error) {
	in := CreateInput{
		Name:      req.Name,
		Category:  req.Category,
		Species:   req.Species,
		Breed:     req.Breed,
		TagNumber: req.TagNumber,
		Notes:     req.Notes,
	}

	if req.BirthDate != "" {
		d, err := calendar.Parse(req.BirthDate)
		if err != nil {
			return CreateInput{}, ValidationError{Field: "birth_date", Reason: "must be YYYY-MM-DD"}
		}
		t := d.Time()
		in.BirthDate = &t
	}

	in.ProcessingCost = decimal.Zero
	if req.ProcessingCost != "" {
		v, err := money.ParseAmount(req.ProcessingCost)
		if err != nil {
			return CreateInput{}, ValidationError{Field: "processing_cost", Reason: "invalid amount"}
		}
		in.ProcessingCost = v
	}

	if req.FinalWeightLbs != "" {
		v, err := money.ParseAmount(req.FinalWeightLbs)
		if err != nil {
			return CreateInput{}, ValidationError{Field: "final_weight_lbs", Reason: "invalid number"}
		}
		in.FinalWeightLbs = &v
	}

	return in, nil
}

// createAnimalHandler godoc
// @Summary Registrar animal
// @Description Crea un animal (pet o livestock) en la granja.
// @Tags animals
// @Accept json
// @Produce json
// @Param payload body animalRequest true "Datos del animal; montos como string decimal"
// @Success 201 {object} animalResponse
// @Failure 400 {object} errorResponse
// @Router /animals [post]
func createAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req animalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in, err := parseAnimalRequest(req)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		a, err := svc.Create(r.Context(), in)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAnimalResponse(a))
	}
}

// listAnimalsHandler godoc
// @Summary Listar animales
// @Tags animals
// @Produce json
// @Success 200 {array} animalResponse
// @Router /animals [get]
func listAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]animalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getAnimalHandler godoc
// @Summary Obtener animal
// @Tags animals
// @Produce json
// @Param animalID path string true "ID del animal"
// @Success 200 {object} animalResponse
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID} [get]
func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// updateAnimalHandler godoc
// @Summary Editar animal
// @Tags animals
// @Accept json
// @Produce json
// @Param animalID path string true "ID del animal"
// @Param payload body animalRequest true "Datos nuevos del animal"
// @Success 200 {object} animalResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID} [put]
func updateAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req animalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in, err := parseAnimalRequest(req)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		a, err := svc.Update(r.Context(), chi.URLParam(r, "animalID"), in)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// deleteAnimalHandler godoc
// @Summary Borrar animal
// @Tags animals
// @Param animalID path string true "ID del animal"
// @Success 204 {string} string ""
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID} [delete]
func deleteAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "animalID")); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// metricsHandler godoc
// @Summary Métricas derivadas del animal
// @Description Devuelve el total de gastos y el costo por libra estimado.
// El costo por libra viene nulo si no hay peso final: es una estimación
// de display, no un valor obligatorio.
// @Tags animals
// @Produce json
// @Param animalID path string true "ID del animal"
// @Success 200 {object} metricsResponse
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID}/metrics [get]
func metricsHandler(svc *Service, totals ExpenseTotaller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		total, err := totals.TotalForAnimal(r.Context(), a.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := metricsResponse{
			AnimalID:       a.ID,
			TotalExpenses:  total.StringFixed(2),
			ProcessingCost: a.ProcessingCost.StringFixed(2),
		}
		if a.FinalWeightLbs != nil {
			s := a.FinalWeightLbs.String()
			resp.FinalWeightLbs = &s
		}
		if cpp := CostPerPound(total, a.ProcessingCost, a.FinalWeightLbs); cpp != nil {
			s := cpp.StringFixed(2)
			resp.CostPerPound = &s
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func toAnimalResponse(a Animal) animalResponse {
	resp := animalResponse{
		ID:             a.ID,
		Name:           a.Name,
		Category:       a.Category,
		Species:        a.Species,
		Breed:          a.Breed,
		TagNumber:      a.TagNumber,
		ProcessingCost: a.ProcessingCost.StringFixed(2),
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
	if a.BirthDate != nil {
		s := calendar.FromTime(*a.BirthDate).String()
		resp.BirthDate = &s
	}
	if a.FinalWeightLbs != nil {
		s := a.FinalWeightLbs.String()
		resp.FinalWeightLbs = &s
	}
	return resp
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

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
