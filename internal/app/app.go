package app

import (
	"fmt"
	"net/http"
	"time"

	crerr "github.com/cockroachdb/errors"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/teamsched/schedule-manager/internal/config"
	"github.com/teamsched/schedule-manager/internal/domain/grid"
	"github.com/teamsched/schedule-manager/internal/domain/player"
	"github.com/teamsched/schedule-manager/internal/domain/roster"
	"github.com/teamsched/schedule-manager/internal/domain/schedule"
	"github.com/teamsched/schedule-manager/internal/domain/team"
	cacherepo "github.com/teamsched/schedule-manager/internal/infrastructure/repository/cache"
	"github.com/teamsched/schedule-manager/internal/infrastructure/repository/memory"
	"github.com/teamsched/schedule-manager/internal/infrastructure/repository/postgres"
	"github.com/teamsched/schedule-manager/internal/interfaces/httpapi"
	basecache "github.com/teamsched/schedule-manager/internal/platform/cache"
	idgen "github.com/teamsched/schedule-manager/internal/platform/id"
	"github.com/teamsched/schedule-manager/internal/platform/logging"
	"github.com/teamsched/schedule-manager/internal/platform/protection"
	"github.com/teamsched/schedule-manager/internal/usecase"
)

type repositories struct {
	teams   team.Repository
	players player.Repository
	rosters roster.Repository
	grids   grid.Repository
}

func buildRepositories(cfg config.Config) (repositories, error) {
	if cfg.DBURL == "" {
		return repositories{
			teams:   memory.NewTeamRepository(),
			players: memory.NewPlayerRepository(),
			rosters: memory.NewRosterRepository(),
			grids:   memory.NewGridRepository(),
		}, nil
	}

	db, err := otelsqlx.Connect("postgres", cfg.DBURL,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
	)
	if err != nil {
		return repositories{}, crerr.Wrap(err, "connect database")
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return repositories{
		teams:   postgres.NewTeamRepository(db),
		players: postgres.NewPlayerRepository(db),
		rosters: postgres.NewRosterRepository(db),
		grids:   postgres.NewGridRepository(db),
	}, nil
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	repos, err := buildRepositories(cfg)
	if err != nil {
		return nil, err
	}

	store := basecache.NewStore(cfg.CacheTTL)
	if cfg.CacheEnabled {
		repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
		repos.players = cacherepo.NewPlayerRepository(repos.players, store)
		repos.rosters = cacherepo.NewRosterRepository(repos.rosters, store)
	}

	blocks := usecase.NewWeekBlockStore(repos.grids, schedule.DefaultLayout(), loc, logger)
	gate := protection.NewGate(repos.grids, logger)
	scheduleSvc := usecase.NewScheduleService(blocks, repos.grids, gate, store, cfg.ColorCodingEnabled, logger)
	rosterSvc := usecase.NewRosterService(repos.rosters, repos.players, repos.teams, logger)
	teamSvc := usecase.NewTeamService(
		repos.teams,
		repos.players,
		repos.rosters,
		rosterSvc,
		scheduleSvc,
		blocks,
		gate,
		idgen.NewRandomGenerator(),
		cfg.MaxWeeksPerTeam,
		logger,
	)
	playerSvc := usecase.NewPlayerService(repos.players, teamSvc, rosterSvc, scheduleSvc, idgen.NewRandomGenerator(), logger)
	maintenanceSvc := usecase.NewMaintenanceService(repos.teams, blocks, rosterSvc, gate, cfg.MaxWeeksPerTeam, logger)

	handler := httpapi.NewHandler(scheduleSvc, teamSvc, playerSvc, rosterSvc, maintenanceSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, crerr.New("http server addr cannot be empty")
	}

	return server, nil
}
