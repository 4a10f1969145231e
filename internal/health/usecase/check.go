package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shandysiswandi/safemeet/internal/health/entity"
)

// Check probes the database and the cache concurrently. It never fails:
// an unreachable collaborator is reported, not returned.
func (s *Usecase) Check(ctx context.Context) *entity.Report {
	ctx, span := s.startSpan(ctx, "Check")
	defer span.End()

	probeCtx, cancel := s.probe(ctx)
	defer cancel()

	var dbErr, cacheErr error
	var wg sync.WaitGroup
	wg.Go(func() { dbErr = s.database.Ping(probeCtx) })
	wg.Go(func() { cacheErr = s.cache.Ping(probeCtx) })
	wg.Wait()

	if dbErr != nil {
		slog.WarnContext(ctx, "database ping failed", "error", dbErr)
	}
	if cacheErr != nil {
		slog.WarnContext(ctx, "cache ping failed", "error", cacheErr)
	}

	report := &entity.Report{
		Status:               entity.StatusOK,
		Database:             entity.ConnectivityOf(dbErr),
		Cache:                entity.ConnectivityOf(cacheErr),
		NotificationProvider: entity.AvailabilityOf(s.provider.Enabled()),
		Timestamp:            s.clock.Now(),
	}
	if dbErr != nil || cacheErr != nil {
		report.Status = entity.StatusDegraded
	}

	return report
}
