package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/teamsched/schedule-manager/internal/domain/schedule"
	"github.com/teamsched/schedule-manager/internal/domain/team"
	"github.com/teamsched/schedule-manager/internal/platform/logging"
	"github.com/teamsched/schedule-manager/internal/platform/protection"
)

const maintenancePoolSize = 8

// ExtendReport summarizes a week-block extension run.
type ExtendReport struct {
	TeamsProcessed int `json:"teamsProcessed"`
	BlocksCreated  int `json:"blocksCreated"`
	TeamsFailed    int `json:"teamsFailed"`
}

// MaintenanceService runs the scheduled background jobs: rolling week
// block extension and roster index rebuilds. All jobs are idempotent.
type MaintenanceService struct {
	teams     team.Repository
	blocks    *WeekBlockStore
	rosterSvc *RosterService
	gate      *protection.Gate
	weeks     int
	logger    *logging.Logger
	now       func() time.Time
}

func NewMaintenanceService(
	teams team.Repository,
	blocks *WeekBlockStore,
	rosterSvc *RosterService,
	gate *protection.Gate,
	weeks int,
	logger *logging.Logger,
) *MaintenanceService {
	if logger == nil {
		logger = logging.Default()
	}
	if weeks <= 0 {
		weeks = 4
	}

	return &MaintenanceService{
		teams:     teams,
		blocks:    blocks,
		rosterSvc: rosterSvc,
		gate:      gate,
		weeks:     weeks,
		logger:    logger,
		now:       time.Now,
	}
}

// ExtendWeekBlocks makes sure every active team has blocks covering the
// current week plus the rolling horizon. Teams are processed on a
// bounded worker pool; a failing team does not stop the run.
func (s *MaintenanceService) ExtendWeekBlocks(ctx context.Context) (ExtendReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MaintenanceService.ExtendWeekBlocks")
	defer span.End()

	teams, err := s.teams.List(ctx, false)
	if err != nil {
		return ExtendReport{}, fmt.Errorf("list teams: %w", err)
	}

	pool, err := ants.NewPool(maintenancePoolSize)
	if err != nil {
		return ExtendReport{}, fmt.Errorf("%w: worker pool: %v", ErrDependencyUnavailable, err)
	}
	defer pool.Release()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		report ExtendReport
	)
	report.TeamsProcessed = len(teams)

	for _, t := range teams {
		t := t
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			created, err := s.extendTeam(ctx, t)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.TeamsFailed++
				s.logger.WarnContext(ctx, "week block extension failed",
					"team_id", t.ID,
					"surface", t.SurfaceName,
					"error", err,
				)
				return
			}
			report.BlocksCreated += created
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			report.TeamsFailed++
			mu.Unlock()
		}
	}
	wg.Wait()

	s.logger.InfoContext(ctx, "week block extension finished",
		"teams", report.TeamsProcessed,
		"blocks_created", report.BlocksCreated,
		"failed", report.TeamsFailed,
	)

	return report, nil
}

func (s *MaintenanceService) extendTeam(ctx context.Context, t team.Team) (int, error) {
	year, week := schedule.WeekOfDate(s.now().In(s.blocks.Location()))

	created := 0
	err := s.gate.With(ctx, []string{t.SurfaceName}, func(ctx context.Context) error {
		y, w := year, week
		for i := 0; i < s.weeks; i++ {
			_, added, err := s.blocks.Ensure(ctx, t.SurfaceName, y, w)
			if err != nil {
				return err
			}
			if added {
				created++
			}
			y, w = schedule.NextWeek(y, w, s.blocks.Location())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return created, nil
}

// RebuildRosterIndex regenerates the denormalized roster from the
// player registry and returns the number of indexed entries.
func (s *MaintenanceService) RebuildRosterIndex(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MaintenanceService.RebuildRosterIndex")
	defer span.End()

	return s.rosterSvc.Rebuild(ctx)
}
