// Package physics is a small rigid-body engine for spheres resting on
// static planes.
//
// A [World] steps dynamic bodies under gravity, finds overlapping pairs
// with a sweep-and-prune broadphase and resolves contacts with sequential
// impulses, including Coulomb friction that makes rolling spheres spin.
// Idle bodies fall asleep and wake when something hits them.
//
//	w, err := physics.NewWorld(cfg.Physics, cfg.Scene.Floor.Y)
//	id := w.AddSphere(dynamo.SphereSpec{Position: p, Radius: 0.16, Mass: 0.25})
//	w.Step(1.0 / 60)
//	pos, rot := w.Transform(id)
//
// World implements [dynamo.PhysicsWorld] and [dynamo.EnergyReporter].
package physics
