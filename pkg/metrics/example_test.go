package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

// Example_basicUsage demonstrates creating a registry and binding pipeline counters.
func Example_basicUsage() {
	registry := NewRegistry(prometheus.NewRegistry())

	counters := registry.Pipeline("orders")
	counters.Pulled.Add(11)
	counters.Emitted.Add(2)
	counters.Rejected.Add(9)

	fmt.Println(promtest.ToFloat64(registry.PipelineItemsPulled.WithLabelValues("orders")))
	fmt.Println(promtest.ToFloat64(registry.PipelineItemsEmitted.WithLabelValues("orders")))

	// Output:
	// 11
	// 2
}

// Example_customNamespace demonstrates overriding the namespace and adding constant labels.
func Example_customNamespace() {
	reg := prometheus.NewRegistry()
	registry := NewRegistryWithConfig(Config{
		Enabled:   true,
		Registry:  reg,
		Namespace: "myapp",
		Labels:    prometheus.Labels{"version": "1.0"},
	})

	registry.RefreshRuns.WithLabelValues("nightly").Inc()

	families, _ := reg.Gather()
	for _, mf := range families {
		fmt.Println(mf.GetName())
	}

	// Output:
	// myapp_refresh_runs_total
}
