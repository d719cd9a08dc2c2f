package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytsync/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlanView ViewState = iota
	ConfirmView
	ApplyView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       tasks.SyncEngine
	plan         *tasks.Plan
	width        int
	height       int
	opList       list.Model
	progressChan chan tasks.ProgressUpdate
	done         chan applyOutcome
	progress     tasks.ProgressUpdate
	started      bool
	result       *tasks.ApplyResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a review model for plan; the plan is applied through engine once confirmed.
func NewModel(ctx context.Context, engine tasks.SyncEngine, plan *tasks.Plan) *Model {
	opList := list.New(operationItems(plan), list.NewDefaultDelegate(), 80, 24)
	opList.Title = fmt.Sprintf("Sync plan: %s", plan.Summary())

	return &Model{
		ctx:    ctx,
		view:   PlanView,
		engine: engine,
		plan:   plan,
		opList: opList,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Started reports whether the user confirmed the plan.
func (m *Model) Started() bool {
	return m.started
}

// Result returns the outcome of applying the plan; nil until the run completes.
func (m *Model) Result() (*tasks.ApplyResult, error) {
	return m.result, m.err
}

// Init does nothing; the plan is computed before the UI starts.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.opList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlanView:
			return m.handlePlanKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ApplyView:
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.progress = msg.data.(tasks.ProgressUpdate)
			return m, m.waitForProgress()
		case MsgApplyComplete:
			outcome := msg.data.(applyOutcome)
			m.result = outcome.result
			m.err = outcome.err
			m.view = ResultView
			m.progressChan = nil
			m.done = nil
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.view == PlanView {
		m.opList, cmd = m.opList.Update(msg)
	}
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case PlanView:
		return m.renderPlan()
	case ConfirmView:
		return m.renderConfirm()
	case ApplyView:
		return m.renderApply()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePlanKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.opList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.opList, cmd = m.opList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if m.plan.Empty() {
			return m, tea.Quit
		}
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.opList, cmd = m.opList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.no, m.keys.back), msg.String() == "q":
		m.view = PlanView
		return m, nil
	case key.Matches(msg, m.keys.yes):
		m.view = ApplyView
		return m, m.startApply()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "enter", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) startApply() tea.Cmd {
	m.started = true
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.done = make(chan applyOutcome, 1)

	progress, done := m.progressChan, m.done
	go func() {
		result, err := m.engine.Apply(m.ctx, m.plan, progress)
		done <- applyOutcome{result: result, err: err}
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.done
	return func() tea.Msg {
		if update, ok := <-progress; ok {
			return progressUpdateMsg(update)
		}
		outcome := <-done
		return applyCompleteMsg(outcome.result, outcome.err)
	}
}

func (m *Model) renderPlan() string {
	if m.plan.Empty() {
		title := styles.ok.Render("✓ Remote library is in sync")
		return fmt.Sprintf("%s\n\n%s", title, m.help.ShortHelpView([]key.Binding{m.keys.quit}))
	}

	var unresolved string
	if n := len(m.plan.Unresolved); n > 0 {
		unresolved = "\n" + styles.warn.Render(fmt.Sprintf("%d memberships skipped: tracks are not uploaded yet", n))
	}

	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.apply, m.keys.quit}
	return fmt.Sprintf("%s%s\n\n%s", m.opList.View(), unresolved, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Apply %d operations?", len(m.plan.Operations)))

	var b strings.Builder
	b.WriteString(m.plan.Summary())
	if m.plan.Destructive() {
		b.WriteString("\n")
		b.WriteString(styles.warn.Render("This plan deletes tracks, playlists or memberships."))
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.back}
	return fmt.Sprintf("%s\n%s\n\n%s", title, b.String(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderApply() string {
	title := styles.title.Render("Applying plan")

	status := "Starting..."
	if m.progress.Total > 0 {
		status = fmt.Sprintf("%d/%d operations", m.progress.Step, m.progress.Total)
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, status, m.progress.Message)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})

	if m.err != nil {
		applied := 0
		if m.result != nil {
			applied = len(m.result.Applied)
		}
		msg := fmt.Sprintf("Sync stopped after %d of %d operations:\n%v\n\nRun again to finish the remaining work.", applied, len(m.plan.Operations), m.err)
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(msg), helpView)
	}

	if m.result == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No result available"), helpView)
	}

	title := styles.ok.Render("✓ Sync Complete!")
	info := fmt.Sprintf("\nApplied: %d operations\nPlaylists created: %d\nTracks uploaded: %d",
		len(m.result.Applied), len(m.result.Created), len(m.result.Uploaded))

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
