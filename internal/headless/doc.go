// Package headless provides a [dynamo.Host] and [dynamo.Renderer] that run
// without a window or terminal.
//
// Frames run only when the caller pumps them, which makes simulation runs
// reproducible and lets tests drive a [sim.Simulation] frame by frame:
//
//	host := headless.NewHost(dynamo.Viewport{Width: 800, Height: 600})
//	s, _ := sim.Start(host, cfg, sim.WithClock(clock))
//	host.Click(400, 300)
//	host.Pump(60)
package headless
