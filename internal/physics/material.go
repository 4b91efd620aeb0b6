package physics

// Material tags a body for contact material lookup.
type Material struct {
	Name string
}

func NewMaterial(name string) *Material {
	return &Material{Name: name}
}

// ContactMaterial sets the friction and restitution used when bodies of
// materials A and B touch. Order of A and B does not matter.
type ContactMaterial struct {
	A, B        *Material
	Friction    float64
	Restitution float64
}

// DefaultContactMaterial applies to pairs with no registered entry.
var DefaultContactMaterial = ContactMaterial{Friction: 0.3, Restitution: 0}

type materialKey struct{ a, b *Material }

type materialTable map[materialKey]ContactMaterial

func (t materialTable) add(cm ContactMaterial) {
	t[materialKey{cm.A, cm.B}] = cm
	t[materialKey{cm.B, cm.A}] = cm
}

func (t materialTable) lookup(a, b *Material, fallback ContactMaterial) ContactMaterial {
	if a == nil || b == nil {
		return fallback
	}
	if cm, ok := t[materialKey{a, b}]; ok {
		return cm
	}
	return fallback
}
