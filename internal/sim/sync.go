package sim

import "github.com/san-kum/spherefall/internal/dynamo"

// SyncVisuals copies each pooled body's position and orientation onto its
// mesh. Meshes show the state after the frame's last step.
func SyncVisuals(pool *Pool, world dynamo.PhysicsWorld, renderer dynamo.Renderer) {
	for _, e := range pool.entries {
		pos, rot := world.Transform(e.Body)
		renderer.SetTransform(e.Mesh, pos, rot)
	}
}
