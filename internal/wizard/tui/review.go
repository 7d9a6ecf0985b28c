package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/muurk/freightform/internal/leadform"
	"github.com/muurk/freightform/internal/submit"
)

// reviewView renders the summary of every step with an edit entry per
// section and the send button, scrolled so the cursor stays visible
func (m *AppModel) reviewView() string {
	sections := m.summary()

	lines := []string{
		RenderTitle(m.tr("review.title", "Please check your request")),
		SubtitleStyle.Render(m.tr("review.hint", "Select a section to change it")),
		"",
	}
	cursorLine := 0
	for i, s := range sections {
		if i == m.reviewCursor {
			cursorLine = len(lines)
		}
		lines = append(lines, RenderMenuItem(s.Title+"  ("+m.tr("action.edit", "Edit")+")", i == m.reviewCursor))
		if len(s.Lines) == 0 {
			lines = append(lines, "    "+PlaceholderStyle.Render("-"))
		}
		for _, l := range s.Lines {
			lines = append(lines, "    "+LabelStyle.Render(fit(l.Label, labelWidth))+l.Value)
		}
		lines = append(lines, "")
	}

	if m.reviewCursor >= len(sections) {
		cursorLine = len(lines)
	}
	button := ButtonStyle
	if m.reviewCursor >= len(sections) {
		button = FocusedButtonStyle
	}
	lines = append(lines, button.Render(m.tr("action.submit", "Send request")))

	switch {
	case m.submitting:
		lines = append(lines, "", m.spinner.View()+" "+m.tr("status.submitting", "Sending your request..."))
	case m.submitErr != nil:
		lines = append(lines, "", m.submitErrorBox())
	}
	if missing := m.seq.MissingForSubmit(); len(missing) > 0 {
		labels := lo.Map(missing, func(f leadform.FieldName, _ int) string { return m.fieldLabel(f, true) })
		lines = append(lines, "", NoticeStyle.Render(m.tr("status.missing", "Still missing")+": "+strings.Join(labels, ", ")))
	}

	height := max(1, m.Height-containerTopRows-containerBottomRows)
	if len(lines) > height {
		offset := max(0, min(cursorLine-2, len(lines)-height))
		lines = lines[offset : offset+height]
	}
	return strings.Join(lines, "\n")
}

// submitErrorBox explains a failed submission in the user's terms
func (m *AppModel) submitErrorBox() string {
	err := m.submitErr
	if leadform.IsTransitionError(err) {
		return ErrorBoxStyle.Render(m.tr("status.missing", "Still missing"))
	}

	text := m.tr("status.submitFailed", "Your request could not be sent") + "\n" + submit.ShortMessage(err)
	if hint := submit.Hint(err); hint != "" {
		text += "\n" + SubtitleStyle.Render(hint)
	}
	return ErrorBoxStyle.Width(SafeModalWidth(72, m.Width) - 4).Render(text)
}

// confirmationView renders the thank-you screen with the lead reference
func (m *AppModel) confirmationView() string {
	var b strings.Builder
	b.WriteString(RenderTitle("✓ " + m.tr("confirmation.title", "Request received")))
	b.WriteString("\n\n")

	body := m.tr("status.submitted", "Thank you! Your request has been sent.") + "\n" +
		m.tr("confirmation.next", "We will contact you shortly with a quote.")
	if r := m.seq.Receipt(); r != nil {
		body += "\n\n" + m.tr("status.reference", "Reference") + ": " + r.SubmissionID
	}
	b.WriteString(SuccessBoxStyle.Width(SafeModalWidth(72, m.Width) - 4).Render(body))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(SubtleColor).Render(m.tr("action.newQuote", "Start a new request")))
	return b.String()
}
