/*
Package observability turns engine lifecycle events into a live run picture.

The Collector subscribes to the engine through domain.LifecycleHooks and
aggregates what it sees: node and command counts, the current position,
discovered solutions, progress-store activity and problem reports. Status
endpoints and operator signal dumps read consistent snapshots from it, and
with a Prometheus registerer attached the same event stream feeds a metrics
endpoint.
*/
package observability
