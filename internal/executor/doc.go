/*
Package executor performs the backend calls of the projects service.

# Overview

The executor package provides:
  - The fixed endpoint table of the service (connectivity, list, search, create,
    update, statistics, PDF and Excel export)
  - Timed data calls with JSON/text classification
  - Timed file downloads streamed to disk
  - Per-purpose cancellation through cancel.Registry
  - TLS/mTLS configuration
  - Human-readable transport error messages

# Calls

A call is started in two steps so that superseding happens at issue time, not at
network completion time:

	call := client.Begin(executor.EndpointSearch, executor.SearchBody(term))
	res := call.Do(ctx)

Begin acquires the cancellation token for the endpoint's purpose, cancelling the
previous search still in flight. Do blocks until the response is read, the token is
cancelled, or the data timeout (15s by default) fires.

# Outcomes

Every call resolves to a Result with one of four outcomes:
  - OutcomeOK: 2xx status
  - OutcomeCancelled: superseded, cancelled, or timed out (TimedOut is set for the latter)
  - OutcomeFailed: non-2xx status; Message holds the body's "error" field, else the
    status text, else a generic message
  - OutcomeNetwork: the connection could not be established or broke mid-response

JSON bodies that fail to parse degrade to an empty object. A Result whose token was
cancelled after completion reports Stale() so callers can drop it.

# Downloads

Download streams the response into a temporary file inside the target directory and
renames it once complete. The temporary file is removed on every failure path, and no
Result holds the payload in memory.

# TLS Configuration

TLS support includes:
  - Custom CA certificates
  - Client certificates (mTLS)
  - InsecureSkipVerify for development

# Observability

Each call is logged through zap with endpoint, purpose, request id, status and duration,
and wrapped in an OpenTelemetry span. The token id is sent as X-Request-ID.
*/
package executor
