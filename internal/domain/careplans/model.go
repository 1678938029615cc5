package careplans

import (
	"time"

	"granja-care/internal/platform/calendar"
)

// CareSchedule representa una obligación de cuidado recurrente o puntual
// de un animal (ej: desparasitar cada 60 días, recorte de cascos).
type CareSchedule struct {
	ID       string
	AnimalID string

	Name string

	// FrequencyDays ausente significa ítem manual / de una sola vez.
	FrequencyDays *int

	LastPerformed *calendar.Date

	// ManualDueDate es un override explícito.
	// Invariante: cuando está presente siempre gana sobre la recurrencia.
	ManualDueDate *calendar.Date

	// DueTime es la hora del día sugerida, "HH:MM" (opcional).
	DueTime string

	Notes string

	// ReminderAlerts son offsets en minutos antes del vencimiento,
	// cada uno >= 0, guardados en orden descendente.
	ReminderAlerts []int

	CreatedAt time.Time
	UpdatedAt time.Time
}
