// Package pypi provides an HTTP client for the Python Package Index JSON API.
//
// # Overview
//
// This package fetches release metadata from PyPI (https://pypi.org), or any
// mirror serving the same JSON API, one (name, version) pair at a time:
//
//	GET {base}/{name}/{version}/json
//
// # Usage
//
//	client := pypi.NewClient(backend, 24*time.Hour)
//	rel, err := client.FetchRelease(ctx, "requests", "2.25.1", false) // false = use cache
//	if errors.Is(err, integrations.ErrNotFound) {
//	    // no such project or release
//	}
//	fmt.Println(rel.Classifiers)
//
// # Caching
//
// Successful responses are cached per normalized name and version. The cache
// TTL is set when creating the client. Pass refresh=true to [Client.FetchRelease]
// to bypass the cached copy.
//
// Package names are normalized following PEP 503 before they reach the URL.
package pypi
