/*
Package observability exports tour engine activity as Prometheus metrics.

Metrics are collected through domain.LifecycleHooks, so the store and the
overlay coordinator stay unaware of the metrics backend. Combine the hooks
with application hooks using LifecycleHooks.Merge.
*/
package observability
