package postgres

import (
	"context"
	"database/sql"
	"strings"

	"granja-care/internal/domain/animals"

	"github.com/shopspring/decimal"
)

type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) error {
	var weight *string
	if a.FinalWeightLbs != nil {
		s := a.FinalWeightLbs.String()
		weight = &s
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animals (
			id, name, category, species, breed,
			birth_date, tag_number,
			processing_cost, final_weight_lbs,
			notes, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		a.ID,
		a.Name,
		string(a.Category),
		a.Species,
		a.Breed,
		a.BirthDate,
		a.TagNumber,
		a.ProcessingCost.String(),
		weight,
		a.Notes,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *AnimalsRepo) Update(ctx context.Context, a animals.Animal) error {
	var weight *string
	if a.FinalWeightLbs != nil {
		s := a.FinalWeightLbs.String()
		weight = &s
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE animals
		SET name = $2, category = $3, species = $4, breed = $5,
			birth_date = $6, tag_number = $7,
			processing_cost = $8, final_weight_lbs = $9,
			notes = $10, updated_at = $11
		WHERE id = $1
	`,
		a.ID,
		a.Name,
		string(a.Category),
		a.Species,
		a.Breed,
		a.BirthDate,
		a.TagNumber,
		a.ProcessingCost.String(),
		weight,
		a.Notes,
		a.UpdatedAt,
	)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.ErrNotFound
	}
	return nil
}

const animalColumns = `
	id, name, category, species, breed,
	birth_date, tag_number,
	processing_cost, final_weight_lbs,
	notes, created_at, updated_at
`

func scanAnimal(row interface{ Scan(...any) error }) (animals.Animal, error) {
	var (
		a         animals.Animal
		category  string
		birthDate sql.NullTime
		cost      string
		weight    sql.NullString
	)

	if err := row.Scan(
		&a.ID,
		&a.Name,
		&category,
		&a.Species,
		&a.Breed,
		&birthDate,
		&a.TagNumber,
		&cost,
		&weight,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return animals.Animal{}, err
	}

	a.Category = animals.Category(category)
	if birthDate.Valid {
		t := birthDate.Time
		a.BirthDate = &t
	}

	c, err := decimal.NewFromString(cost)
	if err != nil {
		return animals.Animal{}, err
	}
	a.ProcessingCost = c

	if weight.Valid {
		w, err := decimal.NewFromString(weight.String)
		if err != nil {
			return animals.Animal{}, err
		}
		a.FinalWeightLbs = &w
	}

	return a, nil
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return animals.Animal{}, animals.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE id = $1
	`, id)

	a, err := scanAnimal(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return animals.Animal{}, animals.ErrNotFound
		}
		return animals.Animal{}, err
	}
	return a, nil
}

func (r *AnimalsRepo) List(ctx context.Context) ([]animals.Animal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AnimalsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM animals WHERE id = $1`, id)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.ErrNotFound
	}
	return nil
}
