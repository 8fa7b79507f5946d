// Package observability provides the structured logger and the Prometheus
// counters of a run. Counters live on a private registry and are written to
// a node-exporter textfile at the end of the run.
package observability
