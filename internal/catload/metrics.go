package catload

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteMetrics exports res in the node exporter textfile format.
func WriteMetrics(path string, res Result) error {
	registry := prometheus.NewRegistry()
	gauges := []struct {
		name  string
		help  string
		value int
	}{
		{"catalogs_all", "Catalogs in the master list.", res.All},
		{"catalogs_loaded", "Catalogs reported committed by loader jobs.", res.Loaded},
		{"catalogs_remaining", "Catalogs still to be loaded.", len(res.Remaining)},
		{"jobs_scanned", "Loader job logs scanned.", len(res.JobIDs)},
		{"cache_reused", "Job logs served from an existing _cats file.", res.CacheReused},
	}
	for _, g := range gauges {
		gauge := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "surveyctl",
			Name:      g.name,
			Help:      g.help,
		})
		gauge.Set(float64(g.value))
		if err := registry.Register(gauge); err != nil {
			return fmt.Errorf("catload: register %s: %w", g.name, err)
		}
	}
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("catload: write metrics: %w", err)
	}
	return nil
}
