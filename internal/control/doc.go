// Package control turns user pointer input into world-space targets.
//
// [ResolveSpawnPoint] casts a ray from the camera through the pressed pixel
// and intersects it with a horizontal plane:
//
//	p, ok := control.ResolveSpawnPoint(ev, vp, cam, cfg.SpawnPlaneY())
//	if !ok {
//	    return // viewport not ready or ray misses the plane
//	}
//
// A miss is not an error; callers simply ignore it.
package control
