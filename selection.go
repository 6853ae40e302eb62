package stage

import "slices"

// SelectMode decides how a set of hits combines with the current selection.
type SelectMode uint8

const (
	SelectReplace SelectMode = iota // hits become the selection
	SelectAdd                       // union
	SelectToggle                    // symmetric difference
)

// selectModeFor maps held modifiers to a selection mode.
// ctrl/cmd toggles, shift adds; ctrl/cmd wins when both are held.
func selectModeFor(mods KeyModifiers) SelectMode {
	switch {
	case mods&(ModCtrl|ModMeta) != 0:
		return SelectToggle
	case mods&ModShift != 0:
		return SelectAdd
	default:
		return SelectReplace
	}
}

// Selection is an ordered set of object ids with a designated primary.
// The zero value is empty.
type Selection struct {
	ids     []string
	primary string
}

// NewSelection returns a selection of ids with the first as primary.
func NewSelection(ids ...string) Selection {
	var s Selection
	for _, id := range ids {
		if !slices.Contains(s.ids, id) {
			s.ids = append(s.ids, id)
		}
	}
	if len(s.ids) > 0 {
		s.primary = s.ids[0]
	}
	return s
}

// IDs returns a copy of the selected ids in order.
func (s Selection) IDs() []string { return slices.Clone(s.ids) }

// Primary returns the primary id, or "" when empty.
func (s Selection) Primary() string { return s.primary }

// Len returns the number of selected objects.
func (s Selection) Len() int { return len(s.ids) }

// IsGroup reports whether more than one object is selected.
func (s Selection) IsGroup() bool { return len(s.ids) > 1 }

// Contains reports whether id is selected.
func (s Selection) Contains(id string) bool { return slices.Contains(s.ids, id) }

// Equal reports whether both selections hold the same ids in the same order
// with the same primary.
func (s Selection) Equal(o Selection) bool {
	return s.primary == o.primary && slices.Equal(s.ids, o.ids)
}

// Validate drops ids that are not in sceneOrder. The primary moves to the
// first remaining id if it was dropped.
func (s Selection) Validate(sceneOrder []string) Selection {
	out := Selection{}
	for _, id := range s.ids {
		if slices.Contains(sceneOrder, id) {
			out.ids = append(out.ids, id)
		}
	}
	if slices.Contains(out.ids, s.primary) {
		out.primary = s.primary
	} else if len(out.ids) > 0 {
		out.primary = out.ids[0]
	}
	return out
}

// Click applies direct-click semantics for a press on id: replace with no
// modifier, toggle with ctrl/cmd, add with shift.
func (s Selection) Click(id string, mods KeyModifiers) Selection {
	switch selectModeFor(mods) {
	case SelectToggle:
		if s.Contains(id) {
			out := Selection{ids: slices.DeleteFunc(slices.Clone(s.ids), func(v string) bool { return v == id })}
			if s.primary != id {
				out.primary = s.primary
			} else if len(out.ids) > 0 {
				out.primary = out.ids[0]
			}
			return out
		}
		return Selection{ids: append(slices.Clone(s.ids), id), primary: id}
	case SelectAdd:
		if s.Contains(id) {
			return Selection{ids: slices.Clone(s.ids), primary: id}
		}
		return Selection{ids: append(slices.Clone(s.ids), id), primary: id}
	default:
		return NewSelection(id)
	}
}

// Combine merges hits into the selection per mode. The result is ordered by
// sceneOrder. The primary is kept when it survives, otherwise it becomes the
// first id of the result.
func (s Selection) Combine(hits []string, mode SelectMode, sceneOrder []string) Selection {
	want := make(map[string]bool, len(sceneOrder))
	switch mode {
	case SelectReplace:
		for _, id := range hits {
			want[id] = true
		}
	case SelectAdd:
		for _, id := range s.ids {
			want[id] = true
		}
		for _, id := range hits {
			want[id] = true
		}
	case SelectToggle:
		for _, id := range s.ids {
			want[id] = true
		}
		for _, id := range hits {
			want[id] = !want[id]
		}
	}
	out := Selection{}
	for _, id := range sceneOrder {
		if want[id] {
			out.ids = append(out.ids, id)
		}
	}
	if mode != SelectReplace && slices.Contains(out.ids, s.primary) {
		out.primary = s.primary
	} else if len(out.ids) > 0 {
		out.primary = out.ids[0]
	}
	return out
}
