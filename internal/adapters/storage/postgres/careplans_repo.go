package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"granja-care/internal/domain/careplans"
	"granja-care/internal/platform/calendar"
)

type CarePlansRepo struct {
	db *sql.DB
}

func NewCarePlansRepo(db *sql.DB) *CarePlansRepo {
	return &CarePlansRepo{db: db}
}

const scheduleColumns = `
	id, animal_id, name,
	frequency_days, last_performed, manual_due_date,
	due_time, notes, reminder_alerts,
	created_at, updated_at
`

func scheduleArgs(s careplans.CareSchedule) []any {
	var freq *int64
	if s.FrequencyDays != nil {
		v := int64(*s.FrequencyDays)
		freq = &v
	}
	return []any{
		s.ID,
		s.AnimalID,
		s.Name,
		freq,
		nullDate(s.LastPerformed),
		nullDate(s.ManualDueDate),
		s.DueTime,
		s.Notes,
		joinInts(s.ReminderAlerts),
		s.CreatedAt,
		s.UpdatedAt,
	}
}

func (r *CarePlansRepo) Create(ctx context.Context, s careplans.CareSchedule) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO care_schedules (`+scheduleColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, scheduleArgs(s)...)
	return err
}

// CreateBatch inserta todas las filas de una expansión masiva dentro de una
// transacción: o entran todas o ninguna.
func (r *CarePlansRepo) CreateBatch(ctx context.Context, ss []careplans.CareSchedule) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, s := range ss {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO care_schedules (`+scheduleColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		`, scheduleArgs(s)...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *CarePlansRepo) Update(ctx context.Context, s careplans.CareSchedule) error {
	var freq *int64
	if s.FrequencyDays != nil {
		v := int64(*s.FrequencyDays)
		freq = &v
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE care_schedules
		SET name = $2, frequency_days = $3,
			last_performed = $4, manual_due_date = $5,
			due_time = $6, notes = $7, reminder_alerts = $8,
			updated_at = $9
		WHERE id = $1
	`,
		s.ID,
		s.Name,
		freq,
		nullDate(s.LastPerformed),
		nullDate(s.ManualDueDate),
		s.DueTime,
		s.Notes,
		joinInts(s.ReminderAlerts),
		s.UpdatedAt,
	)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return careplans.ErrNotFound
	}
	return nil
}

func scanSchedule(row interface{ Scan(...any) error }) (careplans.CareSchedule, error) {
	var (
		s      careplans.CareSchedule
		freq   sql.NullInt64
		last   sql.NullTime
		manual sql.NullTime
		alerts string
	)

	if err := row.Scan(
		&s.ID,
		&s.AnimalID,
		&s.Name,
		&freq,
		&last,
		&manual,
		&s.DueTime,
		&s.Notes,
		&alerts,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return careplans.CareSchedule{}, err
	}

	if freq.Valid {
		v := int(freq.Int64)
		s.FrequencyDays = &v
	}
	if last.Valid {
		d := calendar.FromTime(last.Time)
		s.LastPerformed = &d
	}
	if manual.Valid {
		d := calendar.FromTime(manual.Time)
		s.ManualDueDate = &d
	}

	parsed, err := splitInts(alerts)
	if err != nil {
		return careplans.CareSchedule{}, err
	}
	s.ReminderAlerts = parsed

	return s, nil
}

func (r *CarePlansRepo) GetByID(ctx context.Context, id string) (careplans.CareSchedule, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return careplans.CareSchedule{}, careplans.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+scheduleColumns+`
		FROM care_schedules
		WHERE id = $1
	`, id)

	s, err := scanSchedule(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return careplans.CareSchedule{}, careplans.ErrNotFound
		}
		return careplans.CareSchedule{}, err
	}
	return s, nil
}

func (r *CarePlansRepo) ListByAnimal(ctx context.Context, animalID string) ([]careplans.CareSchedule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+scheduleColumns+`
		FROM care_schedules
		WHERE animal_id = $1
		ORDER BY name
	`, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]careplans.CareSchedule, 0)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *CarePlansRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM care_schedules WHERE id = $1`, id)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return careplans.ErrNotFound
	}
	return nil
}

func nullDate(d *calendar.Date) any {
	if d == nil {
		return nil
	}
	return d.Time()
}

// Los offsets de recordatorio se guardan como CSV ("1440,60,0") para no
// depender de soporte de arrays en database/sql.
func joinInts(vals []int) string {
	if len(vals) == 0 {
		return ""
	}
	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, ",")
}

func splitInts(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
