/*
Package observability turns engine lifecycle events into Prometheus metrics.

Metrics live on a dedicated registry so several engines can coexist in one process.
Attach them with runtime.WithLifecycleHooks(m.Hooks()) and read them back with
Write (text exposition) or Handler (HTTP scrape endpoint).
*/
package observability
