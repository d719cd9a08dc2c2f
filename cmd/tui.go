package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/desertthunder/ytsync/internal/tasks"
	"github.com/desertthunder/ytsync/internal/ui"
)

// review shows the plan in the interactive UI and reports the outcome once it exits.
func (r *Runner) review(ctx context.Context, run *syncRun, plan *tasks.Plan) error {
	model := ui.NewModel(ctx, run.engine, plan)
	p := newProgram(ctx, model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if plan.Empty() {
		return r.writePlain("%s\n", ui.Success("✓ Remote library is in sync"))
	}
	if !model.Started() {
		run.logger.Warn("plan declined", "operations", len(plan.Operations))
		return shared.ErrAborted
	}

	result, err := model.Result()
	return r.report(run, result, err)
}

// newProgram runs model on the alternate screen.
func newProgram(ctx context.Context, model tea.Model) *tea.Program {
	return tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
}
