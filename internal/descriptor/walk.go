package descriptor

// Resolver resolves a fully qualified message name to its descriptor. A
// *typeregistry.Registry satisfies this interface; descriptor itself never
// imports typeregistry, so field-type resolution stays lazy and one-way as
// required by the "cyclic descriptors" design note.
type Resolver interface {
	FindMessage(fqn string) (*MessageDescriptor, bool)
}

// FieldPath is one entry of a comprehensive, dot-notation field walk: the
// full path from the root message (e.g. "user.address.city") alongside the
// field descriptor it resolves to.
type FieldPath struct {
	Path  string
	Field *FieldDescriptor
}

// WalkFields recursively enumerates m's fields and, through resolver, the
// fields of every nested message field, producing dot-path entries the way
// FieldMask paths address them. visited guards against infinite recursion
// through self-referential or mutually-recursive message graphs: a message
// FQN already on the current path is not re-expanded, though its top-level
// field entry is still emitted once.
func WalkFields(m *MessageDescriptor, resolver Resolver, prefix string, visited map[string]bool) []FieldPath {
	if visited == nil {
		visited = make(map[string]bool)
	}
	if visited[m.FullName()] {
		return nil
	}
	visited[m.FullName()] = true
	defer delete(visited, m.FullName())

	var out []FieldPath
	for _, f := range m.Fields() {
		path := f.Name()
		if prefix != "" {
			path = prefix + "." + f.Name()
		}
		out = append(out, FieldPath{Path: path, Field: f})

		if f.Kind() == KindMessage && f.TypeName() != "" {
			if nested, ok := resolver.FindMessage(f.TypeName()); ok {
				out = append(out, WalkFields(nested, resolver, path, visited)...)
			}
		}
	}
	return out
}
