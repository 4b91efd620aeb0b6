// Package dynamo defines the boundary between the simulation loop and the
// engines it drives.
//
//   - [PhysicsWorld]: rigid-body engine stepped at a fixed timestep
//   - [Renderer]: draws meshes mirroring physics bodies
//   - [Host]: schedules frames and dispatches pointer and resize events
//   - [Camera]: perspective camera math shared by renderers and input
//
// Handles ([BodyID], [MeshID]) are opaque; only the engine that issued one
// can interpret it.
//
// # Thread Safety
//
// Nothing here is safe for concurrent use. Hosts must invoke frame and
// event callbacks one at a time.
package dynamo
