package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/muurk/freightform/internal/i18n"
	"github.com/muurk/freightform/internal/leadform"
	"github.com/muurk/freightform/internal/logging"
	"github.com/muurk/freightform/internal/picker"
	"github.com/muurk/freightform/internal/position"
	"github.com/muurk/freightform/internal/refdata"
	"github.com/muurk/freightform/internal/submit"
)

// Config wires the wizard to the form engine and its data sources
type Config struct {
	Sequencer *leadform.Sequencer
	Reference refdata.Provider
	Names     leadform.Names // Defaults to Reference when it implements Names
	Locales   i18n.Localizer
	Languages []string // Cycled with ctrl+l, in order

	// Transport delivers the finished lead; nil logs it instead of sending
	Transport leadform.Transport

	Debounce      time.Duration // Dropdown search delay
	Suggestions   int           // "Did you mean" entries on no results
	PriorityCodes []string      // Countries listed first, overriding the language default
	SubmitTimeout time.Duration // Zero waits for the transport's own timeout

	// Context bounds submissions; cancelled when the program stops
	Context context.Context
}

// Messages driving the deferred picker work
type searchFlushMsg struct {
	field leadform.FieldName
	token picker.Token
}

type measureMsg struct {
	field leadform.FieldName
	token position.MeasureToken
}

type submitResultMsg struct {
	sub *leadform.Submission
	err error
}

// AppModel is the wizard: one screen per step, backed by the form store.
// Every store mutation happens inside Update; the only work done off the
// event loop is delivering an already built payload.
type AppModel struct {
	cfg   Config
	seq   *leadform.Sequencer
	store *leadform.Store
	tr    i18n.Translator

	// Field editors for the current step
	listeners   *picker.Listeners
	pickers     map[leadform.FieldName]*picker.Select
	portSources map[leadform.FieldName]string
	inputs      map[leadform.FieldName]textinput.Model
	measurer    *screenMeasurer

	// Navigation state
	focus        int
	scroll       int
	reviewCursor int
	blocked      []leadform.FieldName

	// Submission state
	submitting   bool
	cancelSubmit context.CancelFunc
	submitErr    error
	spinner      spinner.Model
	bar          progress.Model

	// UI state
	Width    int
	Height   int
	Help     help.Model
	Keys     keyMaps
	showHelp bool
}

// NewAppModel creates the wizard on the store's current step
func NewAppModel(cfg Config) AppModel {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.Names == nil {
		if names, ok := cfg.Reference.(leadform.Names); ok {
			cfg.Names = names
		}
	}
	if cfg.Transport == nil {
		cfg.Transport = &submit.Dry{}
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	store := cfg.Sequencer.Store()
	tr := i18n.For(cfg.Locales, store.Language())

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 0 {
		width, height = w, h
	}

	m := AppModel{
		cfg:         cfg,
		seq:         cfg.Sequencer,
		store:       store,
		tr:          tr,
		listeners:   picker.NewListeners(),
		pickers:     make(map[leadform.FieldName]*picker.Select),
		portSources: make(map[leadform.FieldName]string),
		inputs:      make(map[leadform.FieldName]textinput.Model),
		measurer:    newScreenMeasurer(),
		spinner:     s,
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage()),
		Width:       width,
		Height:      height,
		Help:        help.New(),
		Keys:        newKeyMaps(tr),
	}
	m.refresh()
	return m
}

// Init initializes the wizard
func (m AppModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles all messages and routes key presses to the current step
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		m.relayout()
		m.listeners.Dispatch(picker.Event{Kind: picker.EventResize})
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case searchFlushMsg:
		if sel, ok := m.pickers[msg.field]; ok && sel.Flush(msg.token) {
			m.relayout()
		}
		return m, nil

	case measureMsg:
		if sel, ok := m.pickers[msg.field]; ok {
			sel.Measure(msg.token)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case submitResultMsg:
		return m.finishSubmit(msg), textinput.Blink

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			if m.cancelSubmit != nil {
				m.cancelSubmit()
			}
			return m, tea.Quit
		}
		if key.Matches(msg, m.Keys.Form.Help) {
			m.showHelp = !m.showHelp
			return m, nil
		}
		if m.showHelp {
			if msg.Type == tea.KeyEsc {
				m.showHelp = false
			}
			return m, nil
		}

		switch m.store.Step() {
		case leadform.StepReview:
			return m.updateReview(msg)
		case leadform.StepConfirmation:
			return m.updateConfirmation(msg)
		default:
			return m.updateForm(msg)
		}
	}

	// Cursor blinks and other input housekeeping go to the focused input
	field := m.focusedField()
	if in, ok := m.inputs[field]; ok {
		in, cmd = in.Update(msg)
		m.inputs[field] = in
	}
	return m, cmd
}

// refresh realigns the editors and the screen geometry with the store
func (m *AppModel) refresh() {
	m.syncFields()
	m.relayout()
}

// updateForm handles keys on the input steps
func (m AppModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if sel := m.openPicker(); sel != nil {
		return m.updateOpenPicker(sel, msg)
	}

	keys := m.Keys.Form
	field := m.focusedField()
	step := m.store.Step()

	switch {
	case key.Matches(msg, keys.Next):
		return m.advance()

	case key.Matches(msg, keys.Back):
		if err := m.seq.Previous(); err == nil {
			m.resetNavigation()
		}

	case key.Matches(msg, keys.Up):
		m.moveFocus(-1)

	case key.Matches(msg, keys.Down):
		m.moveFocus(1)

	case key.Matches(msg, keys.AddLoad) && step == leadform.StepFreight:
		i := m.store.AddLoad()
		m.refresh()
		m.focusOn(leadform.LoadField(i, leadform.FieldShippingType))

	case key.Matches(msg, keys.RemoveLoad) && step == leadform.StepFreight:
		if i, _, ok := leadform.ParseLoadField(field); ok {
			if err := m.store.RemoveLoad(i); err != nil {
				logging.Debug("cargo line not removed", zap.Int("line", i), zap.Error(err))
			}
		}

	case key.Matches(msg, keys.Language):
		m.cycleLanguage()

	case key.Matches(msg, keys.Close):

	default:
		switch kindOf(field) {
		case kindPicker:
			if key.Matches(msg, keys.Open) || msg.Type == tea.KeySpace {
				return m.open(field, "")
			}
			if msg.Type == tea.KeyRunes && pickerKind(field) != position.KindChoice {
				return m.open(field, string(msg.Runes))
			}
		case kindStepper:
			i, _, _ := leadform.ParseLoadField(field)
			switch {
			case key.Matches(msg, keys.Increment):
				_ = m.store.IncrementUnits(i)
			case key.Matches(msg, keys.Decrement):
				_ = m.store.DecrementUnits(i)
			default:
				return m.updateInput(field, msg)
			}
		case kindText:
			if key.Matches(msg, keys.Open) {
				m.moveFocus(1)
				break
			}
			return m.updateInput(field, msg)
		}
	}

	m.refresh()
	return m, nil
}

// updateInput feeds a key to a text input and stores the edited value
func (m AppModel) updateInput(field leadform.FieldName, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	in, ok := m.inputs[field]
	if !ok {
		return m, nil
	}
	var cmd tea.Cmd
	in, cmd = in.Update(msg)
	m.inputs[field] = in

	if in.Value() != m.store.Value(field) {
		if err := m.store.Set(field, in.Value()); err != nil {
			logging.Warn("failed to store input", zap.String("field", string(field)), zap.Error(err))
		}
	}
	m.refresh()
	return m, cmd
}

// updateOpenPicker handles keys while a dropdown panel is open
func (m AppModel) updateOpenPicker(sel *picker.Select, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	field := leadform.FieldName(sel.ID())
	searchable := pickerKind(field) != position.KindChoice

	switch msg.Type {
	case tea.KeyEsc:
		m.store.ClosePickers()

	case tea.KeyUp, tea.KeyShiftTab:
		sel.HighlightPrevious()

	case tea.KeyDown:
		sel.HighlightNext()

	case tea.KeyEnter, tea.KeyTab:
		if _, ok := sel.SelectHighlighted(); !ok {
			// Nothing matches: take the best suggestion rather than nothing
			if sugg := sel.Suggestions(1); len(sugg) > 0 {
				sel.SelectByKey(sugg[0].Key)
			}
		}
		m.refresh()
		if msg.Type == tea.KeyTab {
			m.moveFocus(1)
		}
		return m, nil

	case tea.KeyBackspace:
		if raw := []rune(sel.RawQuery()); searchable && len(raw) > 0 {
			cmd = m.typeQuery(sel, field, string(raw[:len(raw)-1]))
		}

	case tea.KeySpace:
		if searchable {
			cmd = m.typeQuery(sel, field, sel.RawQuery()+" ")
		}

	case tea.KeyRunes:
		if searchable {
			cmd = m.typeQuery(sel, field, sel.RawQuery()+string(msg.Runes))
		}
	}

	m.refresh()
	return m, cmd
}

// open opens the picker of field, optionally seeding its search with the
// key that opened it
func (m AppModel) open(field leadform.FieldName, initial string) (tea.Model, tea.Cmd) {
	if err := m.store.OpenPicker(string(field)); err != nil {
		logging.Warn("failed to open picker", zap.String("field", string(field)), zap.Error(err))
		return m, nil
	}
	sel := m.pickers[field]
	token := sel.MeasureToken()
	cmds := []tea.Cmd{
		tea.Tick(position.MeasureDelay, func(time.Time) tea.Msg {
			return measureMsg{field: field, token: token}
		}),
	}
	if initial != "" {
		cmds = append(cmds, m.typeQuery(sel, field, initial))
	}
	m.relayout()
	return m, tea.Batch(cmds...)
}

// typeQuery records a search keystroke and schedules the debounced flush
func (m *AppModel) typeQuery(sel *picker.Select, field leadform.FieldName, raw string) tea.Cmd {
	pending := sel.Type(raw)
	if pending.Token == 0 {
		return nil
	}
	delay := time.Until(pending.Due)
	if delay < 0 {
		delay = 0
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return searchFlushMsg{field: field, token: pending.Token}
	})
}

// advance tries to leave the current step or goods sub-step
func (m AppModel) advance() (tea.Model, tea.Cmd) {
	if err := m.seq.Next(); err != nil {
		m.blocked = leadform.MissingFields(err)
		m.refresh()
		if len(m.blocked) > 0 {
			m.focusOn(m.blocked[0])
		}
		return m, nil
	}
	m.resetNavigation()
	m.refresh()
	return m, textinput.Blink
}

// resetNavigation puts focus and scroll back to the top of a fresh step
func (m *AppModel) resetNavigation() {
	m.focus = 0
	m.scroll = 0
	m.reviewCursor = 0
	m.blocked = nil
	m.submitErr = nil
}

// moveFocus moves keyboard focus by delta fields, without wrapping
func (m *AppModel) moveFocus(delta int) {
	fields := m.visibleFields()
	if len(fields) == 0 {
		return
	}
	m.focus = max(0, min(len(fields)-1, m.focus+delta))
	m.refresh()
}

// focusOn moves keyboard focus to field when it is visible
func (m *AppModel) focusOn(field leadform.FieldName) {
	if i := lo.IndexOf(m.visibleFields(), field); i >= 0 {
		m.focus = i
		m.refresh()
	}
}

// cycleLanguage switches to the next configured language. Option labels are
// translated, so every picker is rebuilt.
func (m *AppModel) cycleLanguage() {
	langs := m.cfg.Languages
	if len(langs) < 2 {
		return
	}
	next := langs[(lo.IndexOf(langs, m.store.Language())+1)%len(langs)]

	m.store.SetLanguage(next)
	m.tr = i18n.For(m.cfg.Locales, next)
	m.Keys = newKeyMaps(m.tr)
	m.dropAllPickers()
	logging.Info("language switched", zap.String("language", next))
}

// handleMouse turns a left click into the global click events pickers
// listen to, and opens the picker whose closed trigger was clicked
func (m AppModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	target := m.measurer.HandleAt(msg.X, msg.Y)
	wasOpen := m.store.OpenPickerID()

	m.listeners.Dispatch(picker.Event{Kind: picker.EventOutsideClick, Target: target})
	m.listeners.Dispatch(picker.Event{Kind: picker.EventClick, Target: target})

	if target != "" && target != wasOpen && m.store.Step() < leadform.StepReview {
		field := leadform.FieldName(target)
		m.focusOn(field)
		return m.open(field, "")
	}
	m.refresh()
	return m, nil
}

// updateReview handles keys on the review step
func (m AppModel) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.Keys.Review
	if m.submitting {
		if key.Matches(msg, keys.Cancel) && m.cancelSubmit != nil {
			m.cancelSubmit()
		}
		return m, nil
	}

	sections := m.summary()
	items := len(sections) + 1 // sections, then the send button

	switch {
	case key.Matches(msg, keys.Up):
		m.reviewCursor = max(0, m.reviewCursor-1)

	case key.Matches(msg, keys.Down):
		m.reviewCursor = min(items-1, m.reviewCursor+1)

	case key.Matches(msg, keys.Submit):
		return m.startSubmit()

	case key.Matches(msg, keys.Select):
		if m.reviewCursor >= len(sections) {
			return m.startSubmit()
		}
		if err := m.seq.GoTo(sections[m.reviewCursor].Step); err == nil {
			m.resetNavigation()
			m.refresh()
			return m, textinput.Blink
		}

	case key.Matches(msg, keys.Back):
		if err := m.seq.Previous(); err == nil {
			m.resetNavigation()
			m.refresh()
			return m, textinput.Blink
		}

	case key.Matches(msg, m.Keys.Form.Language):
		m.cycleLanguage()
	}
	return m, nil
}

// startSubmit builds the payload and hands it to the transport off the event loop
func (m AppModel) startSubmit() (tea.Model, tea.Cmd) {
	sub, err := m.seq.Prepare()
	if err != nil {
		m.blocked = leadform.MissingFields(err)
		m.submitErr = err
		return m, nil
	}

	var ctx context.Context
	var cancel context.CancelFunc
	if m.cfg.SubmitTimeout > 0 {
		ctx, cancel = context.WithTimeout(m.cfg.Context, m.cfg.SubmitTimeout)
	} else {
		ctx, cancel = context.WithCancel(m.cfg.Context)
	}
	m.submitting = true
	m.submitErr = nil
	m.cancelSubmit = cancel

	transport := m.cfg.Transport
	send := func() tea.Msg {
		defer cancel()
		return submitResultMsg{sub: sub, err: transport.Send(ctx, sub.Payload)}
	}
	return m, tea.Batch(m.spinner.Tick, send)
}

// finishSubmit records the outcome of a delivery attempt
func (m AppModel) finishSubmit(msg submitResultMsg) AppModel {
	m.submitting = false
	m.cancelSubmit = nil
	if msg.err != nil {
		m.submitErr = leadform.NewSubmissionError("failed to send the request", msg.err)
		logging.Warn("lead not delivered", zap.String("submission_id", msg.sub.Meta.SubmissionID), zap.Error(msg.err))
		return m
	}
	m.seq.Complete(msg.sub)
	m.resetNavigation()
	m.refresh()
	return m
}

// updateConfirmation handles keys on the confirmation step
func (m AppModel) updateConfirmation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.Keys.Confirmation
	switch {
	case key.Matches(msg, keys.New):
		m.seq.StartOver()
		m.resetNavigation()
		m.refresh()
		return m, textinput.Blink
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

// summary returns the review sections in the session language
func (m *AppModel) summary() []leadform.SummarySection {
	return leadform.Summarize(m.store.Snapshot(), m.cfg.Names, m.tr)
}

// Receipt returns the receipt of the delivered lead, nil before submission
func (m AppModel) Receipt() *leadform.Receipt {
	return m.seq.Receipt()
}

// View renders the current step inside the application container
func (m AppModel) View() string {
	if m.Width == 0 || m.Height == 0 {
		return ""
	}
	if m.Width < MinTerminalWidth || m.Height < MinTerminalHeight {
		return RenderModal(m.tooSmallView(), m.Width, m.Height)
	}
	if m.showHelp {
		return RenderModal(m.helpView(), m.Width, m.Height)
	}

	var content string
	switch m.store.Step() {
	case leadform.StepReview:
		content = m.reviewView()
	case leadform.StepConfirmation:
		content = m.confirmationView()
	default:
		content = m.formView()
	}
	return RenderApplicationContainer(m.tr("app.title", "Freight quote request"), content, m.Help.View(m.stepKeys()), m.Width, m.Height)
}

// stepKeys returns the bindings of the current step
func (m AppModel) stepKeys() help.KeyMap {
	switch m.store.Step() {
	case leadform.StepReview:
		return m.Keys.Review
	case leadform.StepConfirmation:
		return m.Keys.Confirmation
	default:
		return m.Keys.Form
	}
}

// helpView renders the full key reference of the current step
func (m AppModel) helpView() string {
	h := m.Help
	h.ShowAll = true
	return HelpBoxStyle.Width(SafeModalWidth(72, m.Width)).Render(h.View(m.stepKeys()))
}

// tooSmallView asks for a larger terminal; the form columns do not fit below
// the minimum size
func (m AppModel) tooSmallView() string {
	return NoticeStyle.Render(fmt.Sprintf("%s %dx%d (%dx%d)",
		m.tr("status.tooSmall", "Please enlarge the terminal to at least"),
		MinTerminalWidth, MinTerminalHeight, m.Width, m.Height))
}
