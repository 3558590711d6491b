package application

// EditSession tracks an ordered log of reversible changes against a baseline
// snapshot of the store. Undo and redo walk the log; discarding the session
// restores the baseline exactly. Commands are snapshots indexed by position,
// not live objects, so replaying is a plain restore.
type EditSession struct {
	store    *AllocationStore
	baseline StoreSnapshot
	log      []changeCommand
	cursor   int
}

type changeCommand struct {
	label  string
	before StoreSnapshot
	after  StoreSnapshot
}

// NewEditSession captures the store's current state as the baseline.
func NewEditSession(store *AllocationStore) *EditSession {
	return &EditSession{
		store:    store,
		baseline: store.Snapshot(),
	}
}

// Apply runs a mutation against the store and records it as a reversible
// command. A failed mutation restores the pre-mutation state and records
// nothing. Applying after undos truncates the redo tail.
func (s *EditSession) Apply(label string, mutate func(*AllocationStore) error) error {
	before := s.store.Snapshot()
	if err := mutate(s.store); err != nil {
		s.store.Restore(before)
		return err
	}

	s.log = s.log[:s.cursor]
	s.log = append(s.log, changeCommand{
		label:  label,
		before: before,
		after:  s.store.Snapshot(),
	})
	s.cursor = len(s.log)
	return nil
}

// CanUndo reports whether an applied change can be rewound.
func (s *EditSession) CanUndo() bool {
	return s != nil && s.cursor > 0
}

// CanRedo reports whether a rewound change can be replayed.
func (s *EditSession) CanRedo() bool {
	return s != nil && s.cursor < len(s.log)
}

// Undo rewinds the most recent change.
func (s *EditSession) Undo() bool {
	if !s.CanUndo() {
		return false
	}
	s.cursor--
	s.store.Restore(s.log[s.cursor].before)
	return true
}

// Redo replays the most recently undone change.
func (s *EditSession) Redo() bool {
	if !s.CanRedo() {
		return false
	}
	s.store.Restore(s.log[s.cursor].after)
	s.cursor++
	return true
}

// Labels returns the labels of the applied changes up to the cursor, oldest
// first.
func (s *EditSession) Labels() []string {
	labels := make([]string, 0, s.cursor)
	for _, cmd := range s.log[:s.cursor] {
		labels = append(labels, cmd.label)
	}
	return labels
}

// Discard abandons every pending change and restores the baseline.
func (s *EditSession) Discard() {
	s.store.Restore(s.baseline)
	s.log = nil
	s.cursor = 0
}
