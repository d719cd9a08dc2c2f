package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/ytsync/internal/tasks"
)

var (
	_ list.Item = operationItem{}
)

// operationItem wraps [tasks.Operation] to implement [list.Item].
type operationItem struct {
	step int
	op   tasks.Operation
}

func (i operationItem) FilterValue() string { return i.op.Track + " " + i.op.Tag }
func (i operationItem) Title() string       { return fmt.Sprintf("%d. %s", i.step, Operation(i.op)) }
func (i operationItem) Description() string {
	switch {
	case i.op.Path != "":
		return i.op.Path
	case i.op.PlaylistID != "":
		return fmt.Sprintf("%s • playlist %s", i.op.Kind, i.op.PlaylistID)
	default:
		return i.op.Kind.String()
	}
}

func operationItems(plan *tasks.Plan) []list.Item {
	items := make([]list.Item, len(plan.Operations))
	for i, op := range plan.Operations {
		items[i] = operationItem{step: i + 1, op: op}
	}
	return items
}
