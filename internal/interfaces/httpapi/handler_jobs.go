package httpapi

import (
	"fmt"
	"net/http"

	"github.com/teamsched/schedule-manager/internal/usecase"
)

func (h *Handler) RunExtendWeekBlocksJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunExtendWeekBlocksJob")
	defer span.End()

	if h.maintenanceService == nil {
		writeError(ctx, w, fmt.Errorf("%w: maintenance service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	report, err := h.maintenanceService.ExtendWeekBlocks(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "extend week blocks job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) RunRebuildRosterIndexJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRebuildRosterIndexJob")
	defer span.End()

	if h.maintenanceService == nil {
		writeError(ctx, w, fmt.Errorf("%w: maintenance service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	count, err := h.maintenanceService.RebuildRosterIndex(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "rebuild roster index job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"entriesIndexed": count})
}
