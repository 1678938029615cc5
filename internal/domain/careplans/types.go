package careplans

// Urgency clasifica qué tan cerca está el vencimiento de un schedule.
type Urgency string

const (
	// UrgencyUnscheduled indica que no hay fecha de vencimiento computable.
	UrgencyUnscheduled Urgency = "unscheduled"
	// UrgencyOverdue indica vencido: hoy o en el pasado.
	UrgencyOverdue Urgency = "overdue"
	// UrgencyDueSoon indica vencimiento en 1 a 7 días.
	UrgencyDueSoon Urgency = "due_soon"
	// UrgencyUpcoming indica vencimiento en 8 a 14 días.
	UrgencyUpcoming Urgency = "upcoming"
	// UrgencyNormal indica vencimiento a más de 14 días.
	UrgencyNormal Urgency = "normal"
)
