package ports

import "context"

// UndoRecorder is implemented by hosts that can group mutations into one undoable action.
// The orchestrator opens a group before execution and always closes it afterwards,
// so a failed multi-step workflow is still reverted by a single user undo.
type UndoRecorder interface {
	BeginUndoGroup(label string)
	EndUndoGroup()
}

// Restore reverts an entity to the state captured by a checkpoint.
type Restore func(ctx context.Context) error

// Checkpointer is implemented by hosts that can capture and restore single entities.
// It backs the compensating rollback policy.
type Checkpointer interface {
	Checkpoint(ctx context.Context, name string) (Restore, error)
}

// History is implemented by hosts whose undo stack can be driven directly.
// Undo and Redo return the label of the group they stepped over.
type History interface {
	Undo() (string, bool)
	Redo() (string, bool)
}
