package tui

import (
	"AdStudio/internal/app/studio"
	"AdStudio/internal/catalog"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// stateMsg студия сообщила об изменении состояния.
type stateMsg struct{}

type noticeMsg struct {
	text string
	err  bool
}

// Model экран студии. Всё состояние студии живёт в studio.Studio, модель хранит только снимок.
type Model struct {
	st *studio.Studio

	width  int
	height int

	textarea textarea.Model
	spinner  spinner.Model

	state  studio.State
	slot   studio.Slot
	filter catalog.Gender
	notice noticeMsg
}

func New(st *studio.Studio) Model {
	ta := textarea.New()
	ta.Placeholder = "Entrez votre texte publicitaire ici..."
	ta.CharLimit = 5000
	ta.ShowLineNumbers = false
	ta.SetWidth(80)
	ta.SetHeight(8)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = soloStyle

	state := st.State()
	ta.SetValue(state.Script)

	return Model{st: st, textarea: ta, spinner: sp, state: state, slot: studio.SlotSolo}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick, m.waitForUpdate())
}

func (m Model) waitForUpdate() tea.Cmd {
	ch := m.st.Updates()
	return func() tea.Msg {
		<-ch
		return stateMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textarea.SetWidth(max(20, msg.Width-6))
		m.textarea.SetHeight(max(4, msg.Height-16))

	case stateMsg:
		m.syncState()
		cmds = append(cmds, m.waitForUpdate())

	case noticeMsg:
		m.notice = msg

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if handled, cmd := m.handleKey(msg); handled {
			return m, cmd
		}
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
		if v := m.textarea.Value(); v != m.state.Script {
			m.st.Dispatch(studio.ScriptEdited{Text: v})
			m.state = m.st.State()
		}
	}

	return m, tea.Batch(cmds...)
}

// syncState забирает снимок. Текст редактора заменяется, только если студия его поменяла
// (переписывание, смена режима).
func (m *Model) syncState() {
	next := m.st.State()
	if next.Script != m.textarea.Value() {
		m.textarea.SetValue(next.Script)
	}
	if next.Mode != m.state.Mode {
		m.slot = studio.SlotSolo
		if next.Mode == studio.ModeDialogue {
			m.slot = studio.SlotA
		}
	}
	m.state = next
}

func (m *Model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return true, tea.Quit
	case "esc":
		if m.state.LastError != "" || m.notice.text != "" {
			m.notice = noticeMsg{}
			m.dispatch(studio.ErrorDismissed{})
			return true, nil
		}
		return true, tea.Quit
	case "ctrl+p", "f5":
		m.dispatch(studio.PlayPressed{})
	case "ctrl+x":
		m.dispatch(studio.StopPressed{})
	case "ctrl+r":
		m.dispatch(studio.RewritePressed{})
	case "ctrl+t":
		m.dispatch(studio.ModeSwitched{Dialogue: m.state.Mode == studio.ModeSolo})
	case "tab":
		m.slot = nextSlot(m.state.Mode, m.slot)
	case "ctrl+g":
		m.filter = nextFilter(m.filter)
	case "ctrl+n", "ctrl+b":
		step := 1
		if msg.String() == "ctrl+b" {
			step = -1
		}
		id := catalog.Default().Next(m.slotVoice(), m.filter, step)
		m.dispatch(studio.VoiceSelected{Slot: m.slot, VoiceID: id})
	case "ctrl+s":
		return true, m.export()
	default:
		return false, nil
	}
	return true, nil
}

func (m *Model) dispatch(ev studio.Event) {
	m.st.Dispatch(ev)
	m.syncState()
}

func (m Model) export() tea.Cmd {
	st := m.st
	return func() tea.Msg {
		path, err := st.Export()
		if err != nil {
			return noticeMsg{text: "Export impossible : " + err.Error(), err: true}
		}
		return noticeMsg{text: "Exporté : " + path}
	}
}

func (m Model) slotVoice() string {
	switch m.slot {
	case studio.SlotA:
		return m.state.VoiceA
	case studio.SlotB:
		return m.state.VoiceB
	default:
		return m.state.SoloVoice
	}
}

func nextSlot(mode studio.Mode, cur studio.Slot) studio.Slot {
	if mode == studio.ModeSolo {
		return studio.SlotSolo
	}
	if cur == studio.SlotA {
		return studio.SlotB
	}
	return studio.SlotA
}

func nextFilter(g catalog.Gender) catalog.Gender {
	switch g {
	case "":
		return catalog.Male
	case catalog.Male:
		return catalog.Female
	default:
		return ""
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderVoices())
	b.WriteString("\n\n")
	b.WriteString(m.renderEditor())
	b.WriteString("\n")
	b.WriteString(m.renderTransport())
	b.WriteString("\n")
	if t := m.renderToast(); t != "" {
		b.WriteString("\n")
		b.WriteString(t)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(helpLine))
	return b.String()
}

const helpLine = "ctrl+p lecture/stop · ctrl+r améliorer · ctrl+t solo/duo · tab voix · ctrl+n/b changer · ctrl+g filtre · ctrl+s export · esc quitter"

func (m Model) renderHeader() string {
	mode := soloStyle.Render("SOLO")
	if m.state.Mode == studio.ModeDialogue {
		mode = duoStyle.Render("DUO")
	}
	status := readyStyle.Render("● Production ready")
	if m.state.Exhausted() {
		status = limitStyle.Render("● QUOTA ÉPUISÉ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		logoStyle.Render("AdEasy.io"), "  ",
		titleStyle.Render("STUDIO ADEASY"), "  ",
		mode, "  ", status,
	)
}

func (m Model) renderVoices() string {
	cat := catalog.Default()
	label := func(slot studio.Slot, title, id string) string {
		v, _ := cat.ByID(id)
		text := fmt.Sprintf("%s: %s (%s)", title, cat.DisplayName(id, id), v.Gender)
		if slot == m.slot {
			return activeSlot.Render(text)
		}
		return idleSlot.Render(text)
	}

	var row string
	if m.state.Mode == studio.ModeDialogue {
		row = lipgloss.JoinHorizontal(lipgloss.Top,
			label(studio.SlotA, "Voix 1", m.state.VoiceA), " ",
			label(studio.SlotB, "Voix 2", m.state.VoiceB),
		)
	} else {
		row = label(studio.SlotSolo, "Voix Solo", m.state.SoloVoice)
	}

	filter := "tous"
	if m.filter != "" {
		filter = string(m.filter)
	}
	return row + "  " + mutedStyle.Render("filtre: "+filter)
}

func (m Model) renderEditor() string {
	title := "Éditeur Solo"
	if m.state.Mode == studio.ModeDialogue {
		title = "Scénario Duo"
	}
	improve := "✨ améliorer le texte"
	if m.state.Mode == studio.ModeDialogue {
		improve = "✨ améliorer dialogue"
	}
	if m.state.Rewriting {
		improve = m.spinner.View() + " OPTIMISATION..."
	}
	head := mutedStyle.Render(title) + "  " + dimStyle.Render(improve)
	count := dimStyle.Render(fmt.Sprintf("%d characters", utf8.RuneCountInString(m.state.Script)))
	return head + "\n" + editorStyle.Render(m.textarea.View()) + "\n" + count
}

func (m Model) renderTransport() string {
	var phase string
	switch m.state.Phase() {
	case studio.PhaseRequesting:
		phase = m.spinner.View() + " génération..."
	case studio.PhasePlaying:
		phase = soloStyle.Render("■ lecture")
	default:
		phase = mutedStyle.Render("▶ prêt")
	}
	if m.state.Resolving {
		phase = mutedStyle.Render("… identification")
	}

	quota := fmt.Sprintf("Quota Journalier %d/%d %s", m.state.Used, m.state.Cap, gauge(m.state.Used, m.state.Cap, 10))
	ip := m.state.Identity
	if ip == "" {
		ip = "Scanning..."
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, phase, "   ", quota, "   ", mutedStyle.Render("Your IP: "+ip))
}

func (m Model) renderToast() string {
	if m.state.LastError != "" {
		return toastStyle.Render(m.state.LastError)
	}
	if m.notice.text != "" {
		if m.notice.err {
			return toastStyle.Render(m.notice.text)
		}
		return noticeStyle.Render(m.notice.text)
	}
	return ""
}

// gauge полоса заполнения квоты шириной width.
func gauge(used, limit, width int) string {
	if limit <= 0 || width <= 0 {
		return ""
	}
	filled := min(width, max(0, used*width/limit))
	style := gaugeFull
	if used >= limit {
		style = gaugeLimit
	}
	return style.Render(strings.Repeat("■", filled)) + gaugeEmpty.Render(strings.Repeat("□", width-filled))
}
