// Package integrations provides the shared HTTP client for package registry APIs.
//
// # Overview
//
// Registry-specific clients live in subpackages and embed [Client]:
//
//   - [pypi]: Python Package Index release metadata
//
// # Client Pattern
//
//	client := pypi.NewClient(backend, 24*time.Hour)
//	rel, err := client.FetchRelease(ctx, "requests", "2.25.1", false) // false = use cache
//
// [Client] handles:
//   - HTTP requests with retry on transient failures (see [httputil.Policy])
//   - Response caching through any [cache.Cache] backend with a TTL
//   - Status mapping to [ErrNotFound], [ErrNetwork] and [ErrMalformed]
//   - Observability events via the [observability] HTTP and cache hooks
//
// Only successful fetches are cached, so a release that is missing today is
// looked up again on the next run.
//
// [pypi]: github.com/matzehuels/pycompat/pkg/integrations/pypi
// [cache.Cache]: github.com/matzehuels/pycompat/pkg/cache.Cache
// [httputil.Policy]: github.com/matzehuels/pycompat/pkg/httputil.Policy
// [observability]: github.com/matzehuels/pycompat/pkg/observability
package integrations
