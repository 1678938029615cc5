package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "granja-care/internal/adapters/storage/memory"
	pg "granja-care/internal/adapters/storage/postgres"
	"granja-care/internal/domain/animals"
	"granja-care/internal/domain/careplans"
	"granja-care/internal/domain/expenses"
	"granja-care/internal/middleware"
	"granja-care/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: con logger se emite una línea por request.
	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if opts.Logger != nil {
		r.Use(middleware.RequestLogger(opts.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	var (
		animalsRepo   animals.Repository
		careplansRepo careplans.Repository
		expensesRepo  expenses.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		animalsRepo = pg.NewAnimalsRepo(db)
		careplansRepo = pg.NewCarePlansRepo(db)
		expensesRepo = pg.NewExpensesRepo(db)
	} else {
		animalsRepo = mem.NewAnimalsRepo()
		careplansRepo = mem.NewCarePlansRepo()
		expensesRepo = mem.NewExpensesRepo()
	}

	// Services por módulo
	animalsSvc := animals.NewService(animalsRepo)
	careplansSvc := careplans.NewService(careplansRepo)
	expensesSvc := expenses.NewService(expensesRepo)

	// Rutas por módulo
	animals.RegisterRoutes(r, animalsSvc, expensesSvc)
	careplans.RegisterRoutes(r, careplansSvc, animalsSvc)
	expenses.RegisterRoutes(r, expensesSvc, animalsSvc)

	return r
}
