package memory

// entry is one undoable step: the scene as it was before the step.
type entry struct {
	label  string
	before state
}

// history is a linear undo/redo log. Mutations inside an open group collapse
// into a single entry; mutations outside a group get one entry each.
type history struct {
	undo  []entry
	redo  []entry
	depth int
	open  entry
	dirty bool
}

func (h *history) begin(label string, cur state) {
	if h.depth == 0 {
		h.open = entry{label: label, before: cur.clone()}
		h.dirty = false
	}
	h.depth++
}

func (h *history) end() {
	if h.depth == 0 {
		return
	}
	h.depth--
	if h.depth > 0 {
		return
	}
	if h.dirty {
		h.undo = append(h.undo, h.open)
		h.redo = nil
	}
	h.open = entry{}
	h.dirty = false
}

// record must be called before a mutation is applied to cur.
func (h *history) record(label string, cur state) {
	if h.depth > 0 {
		h.dirty = true
		return
	}
	h.undo = append(h.undo, entry{label: label, before: cur.clone()})
	h.redo = nil
}

// BeginUndoGroup opens a group; nested groups join the outermost one.
func (s *Scene) BeginUndoGroup(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.begin(label, s.st)
}

// EndUndoGroup closes the innermost group. A group without mutations leaves no entry.
func (s *Scene) EndUndoGroup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.end()
}

// Undo reverts the most recent entry and returns its label.
func (s *Scene) Undo() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := &s.history
	if h.depth > 0 || len(h.undo) == 0 {
		return "", false
	}
	e := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, entry{label: e.label, before: s.st.clone()})
	s.st = e.before
	return e.label, true
}

// Redo reapplies the most recently undone entry and returns its label.
func (s *Scene) Redo() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := &s.history
	if h.depth > 0 || len(h.redo) == 0 {
		return "", false
	}
	e := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, entry{label: e.label, before: s.st.clone()})
	s.st = e.before
	return e.label, true
}

// UndoLabels lists the undo log, oldest first.
func (s *Scene) UndoLabels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.history.undo))
	for i, e := range s.history.undo {
		out[i] = e.label
	}
	return out
}
