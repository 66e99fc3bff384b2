package settings

// Change is a set of change classes between two settings snapshots.
type Change uint8

const (
	// Structural changes require regenerating every unit.
	Structural Change = 1 << iota
	// Pose changes recompute poses from baselines in place.
	Pose
	// Groups changes (frequencies or seed) reassign color groups.
	Groups
	// Color changes refresh material parameters only.
	Color
	// Speed changes affect only the next animation sweep.
	Speed
)

// Has reports whether c includes every class in o.
func (c Change) Has(o Change) bool { return c&o == o }

// String lists the classes in c, e.g. "pose|color".
func (c Change) String() string {
	if c == 0 {
		return "none"
	}
	names := []string{"structural", "pose", "groups", "color", "speed"}
	out := ""
	for i, n := range names {
		if c&(1<<i) != 0 {
			if out != "" {
				out += "|"
			}
			out += n
		}
	}
	return out
}

// Diff classifies the differences between two snapshots.
func Diff(prev, next Settings) Change {
	var c Change
	if prev.GridConfig() != next.GridConfig() {
		c |= Structural
	}
	if prev.TransformState() != next.TransformState() {
		c |= Pose
	}
	ps, pok := prev.Seed()
	ns, nok := next.Seed()
	if prev.Frequencies() != next.Frequencies() || ps != ns || pok != nok {
		c |= Groups
	}
	pg, ng := prev.groups(), next.groups()
	for i := range pg {
		a, b := pg[i], ng[i]
		a.frequency, b.frequency = 0, 0
		if a != b {
			c |= Color
			break
		}
	}
	if prev.AnimationSpeed != next.AnimationSpeed {
		c |= Speed
	}
	return c
}
