// Package api provides an HTTP client for the songrater REST API.
//
// # Overview
//
// The API exposes one collection endpoint per entity type (see package
// resource for the schemas). The client implements the four operations the
// list views need and nothing else.
//
//   - GET    /api/<type>/       List the whole collection
//   - POST   /api/<type>/       Create an entity (no id in the body)
//   - PUT    /api/<type>/<id>/  Replace an entity
//   - DELETE /api/<type>/<id>/  Remove an entity
//
// # Client Usage
//
//	client, err := api.NewClient("127.0.0.1:8000", api.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//
//	users, err := client.List(ctx, resource.Users)
//	if err != nil {
//		logger.Warn("list failed", "error", err)
//	}
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json and User-Agent: songrater/0.1
//   - Carry a fresh X-Request-ID (UUID) that is also written to the debug log
//   - Have a 5-second timeout unless WithTimeout says otherwise
//
// # Error Handling
//
// Errors are wrapped with the operation and collection name:
//
//   - "list users: execute request: dial tcp: connection refused"
//   - "update artists 4: api PUT /api/artists/4/ returned status 400: {...}"
//   - "list users: decode response: unexpected EOF"
//
// Non-success responses surface as *StatusError. IsTransient classifies
// network failures, 5xx and 429 as transient; Describe produces the short
// text shown in the status line.
//
// # Retry Policy
//
// List retries exactly once, after a short pause, when the first attempt
// failed transiently. Create, Update and Delete never retry: a repeated POST
// could create a duplicate record.
//
// # URL Construction
//
//   - "127.0.0.1:8000" → http://127.0.0.1:8000
//   - "https://songs.example.com/ignored" → https://songs.example.com
//
// Any path on the configured URL is dropped; schema paths are absolute.
//
// # Thread Safety
//
// The Client is safe for concurrent use.
package api
