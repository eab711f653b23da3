// Package metrics provides Prometheus instrumentation for lazyflow components.
//
// # Overview
//
// Instrumentation is opt-in. Pass a *Registry in a component's Config and it
// updates the matching metrics; leave it nil and nothing is recorded.
//
//	reg := metrics.NewRegistry(prometheus.NewRegistry())
//	p := iterator.OnWithConfig(src, iterator.Config{Name: "orders", Metrics: reg})
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//
// # Available Metrics
//
// Pipelines (label pipeline_name):
//
//   - lazyflow_pipeline_items_pulled_total: source items evaluated against the stage chain
//   - lazyflow_pipeline_items_emitted_total: items that survived every filter
//   - lazyflow_pipeline_items_rejected_total: items rejected by a filter
//   - lazyflow_pipeline_rewinds_total: pipeline rewinds
//
// Refreshers (label refresher_name):
//
//   - lazyflow_refresh_runs_total: scheduled refreshes
//   - lazyflow_refresh_failures_total: refreshes whose sink failed
//   - lazyflow_refresh_duration_seconds: time spent per refresh
//   - lazyflow_refresh_items: items produced by the last refresh
//
// # Configuration
//
//	config := metrics.Config{
//		Enabled:   true,
//		Registry:  prometheus.NewRegistry(),
//		Namespace: "myapp",                             // Override default "lazyflow"
//		Labels:    prometheus.Labels{"version": "1.0"}, // Constant labels
//	}
//	reg := metrics.NewRegistryWithConfig(config)
package metrics
