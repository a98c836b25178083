package canon

// ToolTableEntry describes one pocket's tool geometry, per SPEC_FULL.md's
// supplemented SET_TOOL_TABLE_ENTRY / GET_EXTERNAL_TOOL_TABLE pair.  This
// core does not interpret the geometry; it only stores and returns it, the
// same way it threads a ProbeType through a Probe message without acting
// on it.
type ToolTableEntry struct {
	ToolNo  int
	Offset  Pose
	Diameter float64
}

// zeroToolTableEntry is returned, with ToolNo = -1, for an out-of-range
// pocket query, matching the bounds-rejection behavior of
// GET_EXTERNAL_TOOL_TABLE in §7.
var zeroToolTableEntry = ToolTableEntry{ToolNo: -1}

// toolTable is a simple bounds-checked pocket table.  Engine embeds one.
type toolTable struct {
	entries []ToolTableEntry
}

// SetEntry stores entry at pocket, growing the table as needed; a pocket
// outside [0, toolTableCapacity) is ignored.  Pockets are 0-indexed;
// SET_TOOL_TABLE_ENTRY callers are expected to use the same indexing as
// GET_EXTERNAL_TOOL_TABLE.
func (t *toolTable) SetEntry(pocket int, entry ToolTableEntry) {
	if pocket < 0 || pocket >= toolTableCapacity {
		return
	}
	for len(t.entries) <= pocket {
		t.entries = append(t.entries, ToolTableEntry{ToolNo: -1})
	}
	t.entries[pocket] = entry
}

// Entry returns the entry at pocket, or the zero entry (ToolNo = -1) if
// pocket is out of range.
func (t *toolTable) Entry(pocket int) ToolTableEntry {
	if pocket < 0 || pocket >= toolTableCapacity || pocket >= len(t.entries) {
		return zeroToolTableEntry
	}
	return t.entries[pocket]
}
