// Package sim runs the real-time loop: a fixed-step scheduler feeding a
// physics world, a bounded pool of user-spawned spheres and the per-frame
// sync of physics state into the renderer.
//
// [Start] wires a [dynamo.Host] to a physics world and a renderer and
// returns a running [Simulation]. Each frame the scheduler consumes the
// clock's delta in whole fixed steps, the spawned bodies' transforms are
// copied to their meshes and the scene is drawn. [Simulation.Destroy]
// releases everything exactly once.
//
// A Simulation is driven by its host one callback at a time and is not
// safe for concurrent use.
package sim
