package physics

// SweepAndPrune keeps sphere bodies sorted by the lower x bound of their
// bounding boxes and reports pairs whose boxes overlap on all three axes.
// The order persists between steps, so insertion sort runs close to linear.
type SweepAndPrune struct {
	bodies []*Body
}

func (s *SweepAndPrune) add(b *Body) {
	s.bodies = append(s.bodies, b)
}

func (s *SweepAndPrune) remove(b *Body) {
	for i, other := range s.bodies {
		if other == b {
			s.bodies = append(s.bodies[:i], s.bodies[i+1:]...)
			return
		}
	}
}

func (s *SweepAndPrune) sort() {
	for i := 1; i < len(s.bodies); i++ {
		b := s.bodies[i]
		key := b.Position.X() - b.Radius
		j := i - 1
		for j >= 0 && s.bodies[j].Position.X()-s.bodies[j].Radius > key {
			s.bodies[j+1] = s.bodies[j]
			j--
		}
		s.bodies[j+1] = b
	}
}

// Pairs calls fn for each overlapping pair where at least one body is
// awake and dynamic.
func (s *SweepAndPrune) Pairs(fn func(a, b *Body)) {
	s.sort()
	for i, a := range s.bodies {
		loA, hiA := a.aabb()
		for _, b := range s.bodies[i+1:] {
			loB, hiB := b.aabb()
			if loB.X() > hiA.X() {
				break
			}
			if !a.active() && !b.active() {
				continue
			}
			if loB.Y() > hiA.Y() || hiB.Y() < loA.Y() || loB.Z() > hiA.Z() || hiB.Z() < loA.Z() {
				continue
			}
			fn(a, b)
		}
	}
}

func (s *SweepAndPrune) Len() int { return len(s.bodies) }
