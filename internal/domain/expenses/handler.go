package expenses

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"granja-care/internal/domain/animals"
	"granja-care/internal/platform/calendar"
	"granja-care/internal/platform/money"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, animalsSvc *animals.Service) {
	r.Route("/animals/{animalID}/expenses", func(er chi.Router) {
		er.Post("/", createExpenseHandler(svc, animalsSvc))
		er.Get("/", listExpensesHandler(svc, animalsSvc))
		er.Put("/{expenseID}", updateExpenseHandler(svc, animalsSvc))
		er.Delete("/{expenseID}", deleteExpenseHandler(svc, animalsSvc))

		er.Post("/{expenseID}/duplicate", duplicateExpenseHandler(svc, animalsSvc))
	})

	// Split de un gasto compartido entre varios animales.
	r.Post("/expenses/split", splitExpenseHandler(svc, animalsSvc))
}

// expenseRequest es el cuerpo para crear o editar un gasto.
// El monto viaja como string decimal, nunca como float binario.
type expenseRequest struct {
	Type        string `json:"expense_type" enums:"purchase,feed,medicine,vet,equipment,farrier,other"`
	Amount      string `json:"amount"`
	Date        string `json:"expense_date"` // YYYY-MM-DD
	Vendor      string `json:"vendor"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
}

// splitEntry es la participación de un animal en un split.
// unit solo aplica en modo remainder (dollars o percent por entrada).
type splitEntry struct {
	AnimalID string `json:"animal_id"`
	Value    string `json:"value"`
	Unit     string `json:"unit,omitempty" enums:"dollars,percent"`
}

// splitRequest es el cuerpo del split. Modos:
//   - "remainder": primary_animal_id absorbe lo que queda tras las entradas.
//   - "equal": el total se divide en partes iguales entre las entradas.
//   - "custom": cada entrada trae su valor, en la unidad indicada por unit.
type splitRequest struct {
	TotalAmount     string       `json:"total_amount"`
	Mode            string       `json:"mode" enums:"remainder,equal,custom"`
	Unit            string       `json:"unit,omitempty" enums:"dollars,percent"`
	PrimaryAnimalID string       `json:"primary_animal_id,omitempty"`
	Entries         []splitEntry `json:"entries"`

	Type        string `json:"expense_type"`
	Date        string `json:"expense_date"` // YYYY-MM-DD
	Vendor      string `json:"vendor"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
}

// expenseResponse representa un gasto devuelto por la API.
type expenseResponse struct {
	ID           string      `json:"id"`
	AnimalID     string      `json:"animal_id"`
	Type         ExpenseType `json:"expense_type"`
	Amount       string      `json:"amount"`
	Date         string      `json:"expense_date"`
	Vendor       string      `json:"vendor,omitempty"`
	Description  string      `json:"description,omitempty"`
	Notes        string      `json:"notes,omitempty"`
	SplitGroupID string      `json:"split_group_id,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// errorResponse es el cuerpo de un fallo de validación.
type errorResponse struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func parseExpenseRequest(req expenseRequest) (CreateInput, error) {
	amount, err := money.ParseAmount(req.Amount)
	if err != nil {
		return CreateInput{}, ValidationError{Field: "amount", Reason: "invalid amount"}
	}
	date, err := calendar.Parse(req.Date)
	if err != nil {
		return CreateInput{}, ValidationError{Field: "expense_date", Reason: "must be YYYY-MM-DD"}
	}
	return CreateInput{
		Type:        req.Type,
		Amount:      amount,
		Date:        date,
		Vendor:      req.Vendor,
		Description: req.Description,
		Notes:       req.Notes,
	}, nil
}

// createExpenseHandler godoc
// @Summary Registrar gasto
// @Tags expenses
// @Accept json
// @Produce json
// @Param animalID path string true "ID del animal"
// @Param payload body expenseRequest true "Datos del gasto; monto como string decimal"
// @Success 201 {object} expenseResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID}/expenses [post]
func createExpenseHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		animalID := chi.URLParam(r, "animalID")
		if _, err := animalsSvc.GetByID(r.Context(), animalID); err != nil {
			http.Error(w, "animal not found", http.StatusNotFound)
			return
		}

		var req expenseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in, err := parseExpenseRequest(req)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		e, err := svc.Create(r.Context(), animalID, in)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toExpenseResponse(e))
	}
}

// listExpensesHandler godoc
// @Summary Listar gastos de un animal
// @Tags expenses
// @Produce json
// @Param animalID path string true "ID del animal"
// @Success 200 {array} expenseResponse
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID}/expenses [get]
func listExpensesHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
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

		out := make([]expenseResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toExpenseResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// updateExpenseHandler godoc
// @Summary Editar gasto
// @Tags expenses
// @Accept json
// @Produce json
// @Param animalID path string true "ID del animal"
// @Param expenseID path string true "ID del gasto"
// @Param payload body expenseRequest true "Datos nuevos del gasto"
// @Success 200 {object} expenseResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {string} string "expense not found"
// @Router /animals/{animalID}/expenses/{expenseID} [put]
func updateExpenseHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := expenseForAnimal(w, r, svc, animalsSvc)
		if !ok {
			return
		}

		var req expenseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in, err := parseExpenseRequest(req)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		updated, err := svc.Update(r.Context(), e.ID, in)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toExpenseResponse(updated))
	}
}

// deleteExpenseHandler godoc
// @Summary Borrar gasto
// @Description Borra una fila individual. Las hermanas de un split no se
// tocan: cada fila tiene ciclo de vida propio.
// @Tags expenses
// @Param animalID path string true "ID del animal"
// @Param expenseID path string true "ID del gasto"
// @Success 204 {string} string ""
// @Failure 404 {string} string "expense not found"
// @Router /animals/{animalID}/expenses/{expenseID} [delete]
func deleteExpenseHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := expenseForAnimal(w, r, svc, animalsSvc)
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), e.ID); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type duplicateRequest struct {
	Date string `json:"expense_date"` // YYYY-MM-DD
}

// duplicateExpenseHandler godoc
// @Summary Duplicar gasto
// @Description Crea una copia del gasto con fecha nueva. La copia no hereda
// el linaje de split.
// @Tags expenses
// @Accept json
// @Produce json
// @Param animalID path string true "ID del animal"
// @Param expenseID path string true "ID del gasto"
// @Param payload body duplicateRequest true "Fecha de la copia"
// @Success 201 {object} expenseResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {string} string "expense not found"
// @Router /animals/{animalID}/expenses/{expenseID}/duplicate [post]
func duplicateExpenseHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := expenseForAnimal(w, r, svc, animalsSvc)
		if !ok {
			return
		}

		var req duplicateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		date, err := calendar.Parse(req.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Field: "expense_date", Reason: "must be YYYY-MM-DD"})
			return
		}

		dup, err := svc.Duplicate(r.Context(), e.ID, date)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toExpenseResponse(dup))
	}
}

// splitExpenseHandler godoc
// @Summary Repartir un gasto entre varios animales
// @Description Valida la asignación (remainder, equal o custom) y crea una
// fila de gasto por animal con monto no nulo. Todas las filas comparten un
// split_group_id nuevo pero son independientes entre sí. Si la suma no
// cierra dentro de la tolerancia (±0.01 dólares / ±0.1 puntos), se rechaza
// entero: no hay renormalización implícita.
// @Tags expenses
// @Accept json
// @Produce json
// @Param payload body splitRequest true "Asignación + metadata compartida"
// @Success 201 {array} expenseResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {string} string "animal not found"
// @Router /expenses/split [post]
func splitExpenseHandler(svc *Service, animalsSvc *animals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req splitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		total, err := money.ParseAmount(req.TotalAmount)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Field: "total_amount", Reason: "invalid amount"})
			return
		}
		date, err := calendar.Parse(req.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Field: "expense_date", Reason: "must be YYYY-MM-DD"})
			return
		}

		// Todos los animales referenciados deben existir antes de computar.
		ids := make([]string, 0, len(req.Entries)+1)
		if strings.TrimSpace(req.PrimaryAnimalID) != "" {
			ids = append(ids, req.PrimaryAnimalID)
		}
		for _, e := range req.Entries {
			ids = append(ids, e.AnimalID)
		}
		for _, id := range ids {
			if _, err := animalsSvc.GetByID(r.Context(), id); err != nil {
				http.Error(w, "animal not found: "+id, http.StatusNotFound)
				return
			}
		}

		meta := SplitMeta{
			Type:        req.Type,
			Date:        date,
			Vendor:      req.Vendor,
			Description: req.Description,
			Notes:       req.Notes,
		}

		var created []Expense
		switch strings.TrimSpace(req.Mode) {
		case "remainder":
			rr := RemainderRequest{Total: total, PrimaryAnimalID: req.PrimaryAnimalID}
			for _, e := range req.Entries {
				v, err := money.ParseAmount(e.Value)
				if err != nil {
					writeJSON(w, http.StatusBadRequest, errorResponse{Field: "value", Reason: "invalid value for " + e.AnimalID})
					return
				}
				rr.Secondaries = append(rr.Secondaries, RemainderEntry{
					AnimalID: e.AnimalID,
					Value:    v,
					Unit:     SplitUnit(e.Unit),
				})
			}
			created, err = svc.SplitRemainder(r.Context(), rr, meta)

		case "equal", "custom":
			er := ExplicitRequest{
				Total: total,
				Mode:  SplitMode(req.Mode),
				Unit:  SplitUnit(req.Unit),
			}
			for _, e := range req.Entries {
				entry := ExplicitEntry{AnimalID: e.AnimalID}
				if strings.TrimSpace(e.Value) != "" {
					v, err := money.ParseAmount(e.Value)
					if err != nil {
						writeJSON(w, http.StatusBadRequest, errorResponse{Field: "value", Reason: "invalid value for " + e.AnimalID})
						return
					}
					entry.Value = v
				}
				er.Entries = append(er.Entries, entry)
			}
			created, err = svc.SplitExplicit(r.Context(), er, meta)

		default:
			writeJSON(w, http.StatusBadRequest, errorResponse{Field: "mode", Reason: "must be remainder, equal or custom"})
			return
		}

		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := make([]expenseResponse, 0, len(created))
		for _, e := range created {
			out = append(out, toExpenseResponse(e))
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

// expenseForAnimal resuelve el gasto del path y valida que el animal exista
// y que el gasto le pertenezca.
func expenseForAnimal(w http.ResponseWriter, r *http.Request, svc *Service, animalsSvc *animals.Service) (Expense, bool) {
	animalID := chi.URLParam(r, "animalID")
	if _, err := animalsSvc.GetByID(r.Context(), animalID); err != nil {
		http.Error(w, "animal not found", http.StatusNotFound)
		return Expense{}, false
	}

	e, err := svc.GetByID(r.Context(), chi.URLParam(r, "expenseID"))
	if err != nil || e.AnimalID != animalID {
		http.Error(w, "expense not found", http.StatusNotFound)
		return Expense{}, false
	}
	return e, true
}

func toExpenseResponse(e Expense) expenseResponse {
	return expenseResponse{
		ID:           e.ID,
		AnimalID:     e.AnimalID,
		Type:         e.Type,
		Amount:       e.Amount.StringFixed(2),
		Date:         e.Date.String(),
		Vendor:       e.Vendor,
		Description:  e.Description,
		Notes:        e.Notes,
		SplitGroupID: e.SplitGroupID,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
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
	var te ToleranceError
	if errors.As(err, &te) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Field: te.Field, Reason: te.Reason})
		return
	}
	var ve ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Field: ve.Field, Reason: ve.Reason})
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}
