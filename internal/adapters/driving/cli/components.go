package cli

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/services"
	"github.com/custodia-labs/folio/internal/logger"
)

// newRouteCache fills a route cache once and registers its refresh task.
// A failed first refresh leaves the cache empty until the next run.
func newRouteCache(ctx context.Context, rt *runtime, sched *services.Scheduler) *services.RouteCache {
	routes := services.NewRouteCache(rt.contentSource())
	if n, err := routes.Refresh(ctx); err != nil {
		logger.Warn("routes: initial refresh failed, serving not-found until the next refresh: %v", err)
	} else {
		logger.Info("routes: %d published routes", n)
	}
	sched.Register(domain.TaskIDRouteRefresh, routes.Refresh)
	return routes
}

// newSearchIndex builds the index once and registers its update tasks.
// A failed first build leaves the index empty until the next rebuild.
func newSearchIndex(ctx context.Context, rt *runtime, sched *services.Scheduler) *services.SearchIndex {
	index := services.NewSearchIndex(rt.contentSource())
	if err := index.BuildFullIndex(ctx); err != nil {
		logger.Warn("search: initial build failed, index is empty until the next rebuild: %v", err)
	} else {
		logger.Info("search: indexed %d documents", index.Health().DocumentCount)
	}
	sched.Register(domain.TaskIDSearchIncremental, index.IncrementalUpdate)
	sched.Register(domain.TaskIDSearchFullRebuild, func(ctx context.Context) (int, error) {
		if err := index.BuildFullIndex(ctx); err != nil {
			return 0, err
		}
		return index.Health().DocumentCount, nil
	})
	return index
}

// runWithScheduler runs the scheduler alongside runs. The first run to
// return stops everything else; the first error is returned.
func runWithScheduler(ctx context.Context, sched *services.Scheduler, runs ...func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ignoreCanceled(sched.Start(ctx))
	})
	for _, run := range runs {
		g.Go(func() error {
			defer cancel()
			return ignoreCanceled(run(ctx))
		})
	}

	err := g.Wait()
	if stopErr := sched.Stop(); stopErr != nil && err == nil {
		err = stopErr
	}
	return err
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
