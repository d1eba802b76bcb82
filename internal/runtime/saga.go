package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/modassist/pkg/ports"
)

// RollbackPolicy decides who reverts a workflow that fails after mutating the scene.
type RollbackPolicy string

const (
	// RollbackHost leaves reversal to the host undo group the engine opens around execution.
	RollbackHost RollbackPolicy = "host"
	// RollbackCompensate checkpoints every entity before its first mutation and restores
	// the checkpoints in reverse order when a step fails.
	RollbackCompensate RollbackPolicy = "compensate"
)

// ParseRollbackPolicy converts a configuration string into a policy.
func ParseRollbackPolicy(s string) (RollbackPolicy, error) {
	switch p := RollbackPolicy(s); p {
	case RollbackHost, RollbackCompensate:
		return p, nil
	case "":
		return RollbackHost, nil
	default:
		return "", fmt.Errorf("unknown rollback policy %q (want %q or %q)", s, RollbackHost, RollbackCompensate)
	}
}

type compensation struct {
	entity  string
	restore ports.Restore
}

// journal records compensations for one execution. A journal without a
// checkpointer records nothing and unwinds nothing.
type journal struct {
	cp      ports.Checkpointer
	logger  *slog.Logger
	entries []compensation
	seen    map[string]bool
}

func newJournal(cp ports.Checkpointer, logger *slog.Logger) *journal {
	return &journal{cp: cp, logger: logger, seen: make(map[string]bool)}
}

// touch checkpoints name unless it was already checkpointed in this execution.
func (j *journal) touch(ctx context.Context, name string) error {
	if j.cp == nil || j.seen[name] {
		return nil
	}
	restore, err := j.cp.Checkpoint(ctx, name)
	if err != nil {
		return fmt.Errorf("checkpoint %s: %w", name, err)
	}
	j.seen[name] = true
	j.entries = append(j.entries, compensation{entity: name, restore: restore})
	return nil
}

// Len returns the number of recorded compensations.
func (j *journal) Len() int { return len(j.entries) }

// unwind restores the checkpoints from the most recent to the oldest.
// Every compensation runs even when an earlier one fails.
func (j *journal) unwind(ctx context.Context) error {
	j.logger.InfoContext(ctx, "rolling back", "entries", len(j.entries))

	var errs []error
	for i := len(j.entries) - 1; i >= 0; i-- {
		c := j.entries[i]
		if err := c.restore(ctx); err != nil {
			j.logger.ErrorContext(ctx, "compensation failed", "entity", c.entity, "err", err)
			errs = append(errs, fmt.Errorf("restore %s: %w", c.entity, err))
		}
	}
	j.entries = nil
	return errors.Join(errs...)
}
