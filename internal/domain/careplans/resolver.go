package careplans

import "granja-care/internal/platform/calendar"

// Resolution es el estado derivado de un schedule respecto a "hoy".
type Resolution struct {
	DueDate      *calendar.Date
	DaysUntilDue *int
	Urgency      Urgency
	Overdue      bool
}

// Resolve computa la fecha de vencimiento y la urgencia de un schedule.
// Reglas, en orden:
//  1. ManualDueDate presente -> esa fecha manda, aunque también haya
//     frecuencia y última realización.
//  2. FrequencyDays y LastPerformed presentes -> last + frequency días.
//  3. Nada de lo anterior -> sin fecha (unscheduled).
//
// Vencido es days_until_due <= 0: un schedule que vence hoy ya está overdue.
// Función pura: mismo schedule + mismo today, mismo resultado.
func Resolve(s CareSchedule, today calendar.Date) Resolution {
	var due *calendar.Date

	switch {
	case s.ManualDueDate != nil:
		d := *s.ManualDueDate
		due = &d
	case s.FrequencyDays != nil && s.LastPerformed != nil:
		d := s.LastPerformed.AddDays(*s.FrequencyDays)
		due = &d
	}

	if due == nil {
		return Resolution{Urgency: UrgencyUnscheduled}
	}

	days := calendar.DaysBetween(today, *due)

	res := Resolution{
		DueDate:      due,
		DaysUntilDue: &days,
	}

	switch {
	case days <= 0:
		res.Urgency = UrgencyOverdue
		res.Overdue = true
	case days <= 7:
		res.Urgency = UrgencyDueSoon
	case days <= 14:
		res.Urgency = UrgencyUpcoming
	default:
		res.Urgency = UrgencyNormal
	}

	return res
}
