// Package metrics instruments per-pass layout runs with Prometheus
// counters and histograms, grounded on the cancellation framework's
// promauto-registered metrics in the AleutianLocal pack. It is optional:
// cmd/iongraph-layout only constructs and serves it when --metrics-addr is
// set, keeping the core layout packages free of any metrics dependency
// (spec §5: no I/O inside the core).
package metrics
