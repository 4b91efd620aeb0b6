// Package metrics collects per-frame telemetry from a running simulation.
//
// A [FrameObserver] receives one [FrameStats] after every rendered frame.
// [Recorder] keeps them all and feeds a set of [Metric] reducers:
//
//	rec := metrics.NewRecorder(metrics.Standard()...)
//	s, _ := sim.Start(host, cfg, sim.WithObserver(rec))
//	...
//	fmt.Println(rec.Summary())
package metrics
