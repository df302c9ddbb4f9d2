// Package telemetry exports propagation activity of a reactive.Runtime.
//
// Both exporters implement reactive.Observer and are installed with
// reactive.WithObserver. Combine them with reactive.Observers:
//
//	metrics := telemetry.Prometheus(telemetry.WithNamespace("myapp"))
//	tracer := telemetry.Tracer(telemetry.WithTracerName("myapp"))
//
//	rt := reactive.NewRuntime(
//	    reactive.WithObserver(reactive.Observers(metrics, tracer)),
//	)
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
package telemetry
