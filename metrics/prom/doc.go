// Package prom exports arena metrics to Prometheus.
//
//	obs, err := prom.NewObserver(prometheus.DefaultRegisterer, "myapp")
//	if err != nil { ... }
//	a, _ := arena.New(64<<10, arena.WithMetricsObserver(obs))
//
// One Observer can be shared by any number of arenas.
package prom
