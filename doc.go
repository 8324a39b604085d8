// Package backend provides the curlmap API server.
//
// The server lists curl-specialist salons and stylists on a map and hosts a
// small community forum and blog. Code is organized into subpackages:
//
//   - internal/handlers: HTTP request handlers for all API endpoints
//   - internal/repository: forum, directory, analytics and blog persistence
//   - internal/directory: cached directory aggregate
//   - internal/enrichment: lazy geocoding and Google Places sync
//   - internal/google: Geocoding and Places API clients
//   - internal/spamguard: forum length, keyword, rate and duplicate checks
//   - internal/mentions: stylist mention detection
//   - internal/cache: Redis and in-memory key-value stores
//   - internal/middleware: request ids, logging, metrics, tracing, rate limits
//
// Binaries live under cmd/: server, migrate, seed and the cli.
package backend
