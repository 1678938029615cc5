package postgres

import (
	"context"
	"database/sql"
	"strings"

	"granja-care/internal/domain/expenses"
	"granja-care/internal/platform/calendar"

	"github.com/shopspring/decimal"
)

type ExpensesRepo struct {
	db *sql.DB
}

func NewExpensesRepo(db *sql.DB) *ExpensesRepo {
	return &ExpensesRepo{db: db}
}

const expenseColumns = `
	id, animal_id, expense_type, amount, expense_date,
	vendor, description, notes, split_group_id,
	created_at, updated_at
`

func expenseArgs(e expenses.Expense) []any {
	return []any{
		e.ID,
		e.AnimalID,
		string(e.Type),
		e.Amount.String(),
		e.Date.Time(),
		e.Vendor,
		e.Description,
		e.Notes,
		e.SplitGroupID,
		e.CreatedAt,
		e.UpdatedAt,
	}
}

func (r *ExpensesRepo) Create(ctx context.Context, e expenses.Expense) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, expenseArgs(e)...)
	return err
}

// CreateBatch inserta todas las filas de un split dentro de una transacción:
// o entran todas o ninguna. El motor de asignación ya garantizó que el batch
// es consistente antes de llegar acá.
func (r *ExpensesRepo) CreateBatch(ctx context.Context, es []expenses.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, e := range es {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO expenses (`+expenseColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		`, expenseArgs(e)...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *ExpensesRepo) Update(ctx context.Context, e expenses.Expense) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses
		SET expense_type = $2, amount = $3, expense_date = $4,
			vendor = $5, description = $6, notes = $7,
			updated_at = $8
		WHERE id = $1
	`,
		e.ID,
		string(e.Type),
		e.Amount.String(),
		e.Date.Time(),
		e.Vendor,
		e.Description,
		e.Notes,
		e.UpdatedAt,
	)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return expenses.ErrNotFound
	}
	return nil
}

func scanExpense(row interface{ Scan(...any) error }) (expenses.Expense, error) {
	var (
		e      expenses.Expense
		typ    string
		amount string
		date   sql.NullTime
	)

	if err := row.Scan(
		&e.ID,
		&e.AnimalID,
		&typ,
		&amount,
		&date,
		&e.Vendor,
		&e.Description,
		&e.Notes,
		&e.SplitGroupID,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return expenses.Expense{}, err
	}

	e.Type = expenses.ExpenseType(typ)

	a, err := decimal.NewFromString(amount)
	if err != nil {
		return expenses.Expense{}, err
	}
	e.Amount = a

	if date.Valid {
		e.Date = calendar.FromTime(date.Time)
	}

	return e, nil
}

func (r *ExpensesRepo) GetByID(ctx context.Context, id string) (expenses.Expense, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return expenses.Expense{}, expenses.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE id = $1
	`, id)

	e, err := scanExpense(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return expenses.Expense{}, expenses.ErrNotFound
		}
		return expenses.Expense{}, err
	}
	return e, nil
}

func (r *ExpensesRepo) ListByAnimal(ctx context.Context, animalID string) ([]expenses.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE animal_id = $1
		ORDER BY expense_date DESC
	`, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]expenses.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *ExpensesRepo) SumByAnimal(ctx context.Context, animalID string) (decimal.Decimal, error) {
	var sum string
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE animal_id = $1
	`, animalID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(sum)
}

func (r *ExpensesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return expenses.ErrNotFound
	}
	return nil
}
