// Package arr probes the Radarr/Sonarr instances a document targets.
// Generation never depends on connectivity; this backs the check command
// so users can spot a bad base_url or api_key before syncing.
package arr

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golift.io/starr"
	"golift.io/starr/radarr"
	"golift.io/starr/sonarr"

	"github.com/recyforge/recyforge/model"
)

const (
	requestTimeout = 30 * time.Second
	maxProbes      = 5
)

// Result is the outcome of probing one instance.
type Result struct {
	App  string
	Name string
	URL  string
	Err  error
}

// Check pings a single Radarr or Sonarr instance.
func Check(ctx context.Context, app, baseURL, apiKey string, logger zerolog.Logger) error {
	cfg := starr.New(apiKey, baseURL, requestTimeout)

	var err error
	switch app {
	case "radarr":
		err = radarr.New(cfg).PingContext(ctx)
	case "sonarr":
		err = sonarr.New(cfg).PingContext(ctx)
	default:
		return fmt.Errorf("unknown application scope: %s", app)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to %s at %s: %w", app, baseURL, err)
	}

	logger.Debug().Str("app", app).Str("url", baseURL).Msg("Instance reachable")
	return nil
}

// CheckAll probes every instance in the document concurrently and
// returns one result per instance, in document order.
func CheckAll(ctx context.Context, doc *model.Document, logger zerolog.Logger) []Result {
	var instances []*model.Instance
	instances = append(instances, doc.Radarr...)
	instances = append(instances, doc.Sonarr...)

	results := make([]Result, len(instances))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxProbes)

	for i, inst := range instances {
		g.Go(func() error {
			err := Check(ctx, inst.App, inst.BaseURL, inst.APIKey, logger)

			mu.Lock()
			results[i] = Result{App: inst.App, Name: inst.Name, URL: inst.BaseURL, Err: err}
			mu.Unlock()

			// Connection failures are reported per instance, not fatal.
			return nil
		})
	}
	g.Wait()

	return results
}
