// Package sizes provides an HTTP client for the sizes disk usage backend.
//
// # Overview
//
// The backend scans directories, keeps per-directory statistics and exposes
// them under a /sizes/ prefix. This package wraps the endpoints the console
// uses and keeps the transport details (base URL, headers, status handling,
// decoding) in one place.
//
// # Endpoints
//
//	GET  api/watches          list watch directories
//	POST api/watches/add      add or update a watch (keyed by path)
//	POST api/watches/delete   remove a watch
//	GET  api/scan?path=       queue a scan, plain text answer
//	GET  api/largest          largest directories (min, limit, offset)
//	GET  api/stat?path=       recursive totals for one path
//
// Watch endpoints decode into WatchDirectoryConfiguration. Result endpoints
// are decoded into jsontable objects so the UI can show them without a Go
// type per payload; FetchObjects does the same for any other GET endpoint.
//
// # Base URL
//
// The base must end in "/" because endpoint paths are resolved relative to
// it. NewClient adds the slash and an http scheme when they are missing:
//
//	client, err := sizes.NewClient("127.0.0.1:8000/sizes")
//	// -> http://127.0.0.1:8000/sizes/
//
// # Errors
//
// Status codes of 400 and above become "api <path> returned status N".
// Bodies that do not decode become "decode response: ...". Every request
// carries a fresh X-Request-ID so backend logs can be matched with ours.
package sizes
