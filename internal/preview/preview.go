package preview

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobcast/internal/delivery"
	"github.com/amishk599/jobcast/internal/mdsplit"
	"github.com/amishk599/jobcast/internal/model"
)

// DefaultWidth is the width of a rendered message box.
const DefaultWidth = 80

var (
	jobTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // bright blue

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	messageStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	unbalancedStyle = messageStyle.
			BorderForeground(lipgloss.Color("196"))

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("24")).
			Padding(0, 1)

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)
)

// Render shows how jobs would be delivered: every chunk of every message in
// its own box, with the apply button under the last chunk. Chunks are split
// at maxLen exactly as the delivery engine splits them.
func Render(jobs []model.Job, maxLen, width int) string {
	out, _, _ := render(jobs, maxLen, width)
	return out
}

// render also returns the first line of every job and the message count.
func render(jobs []model.Job, maxLen, width int) (string, []int, int) {
	if width <= 0 {
		width = DefaultWidth
	}

	var b strings.Builder
	messages := 0
	starts := make([]int, 0, len(jobs))
	for i, job := range jobs {
		starts = append(starts, strings.Count(b.String(), "\n"))
		chunks := mdsplit.Split(job.Message(), maxLen)
		messages += len(chunks)

		b.WriteString(jobTitleStyle.Render(fmt.Sprintf("%d/%d  %s", i+1, len(jobs), job.Title)))
		b.WriteString("\n")
		for c, text := range chunks {
			style := messageStyle
			note := ""
			if !mdsplit.Balanced(text) {
				style = unbalancedStyle
				note = " · unbalanced"
			}
			b.WriteString(metaStyle.Render(fmt.Sprintf("chunk %d/%d · %d chars%s", c+1, len(chunks), utf8.RuneCountInString(text), note)))
			b.WriteString("\n")
			b.WriteString(style.Width(width).Render(text))
			b.WriteString("\n")
			if c == len(chunks)-1 && job.ApplyLink != "" {
				b.WriteString(buttonStyle.Render(delivery.ApplyButtonText))
				b.WriteString(" " + metaStyle.Render(job.ApplyLink) + "\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(summaryStyle.Render(summary(len(jobs), messages)))
	b.WriteString("\n")
	return b.String(), starts, messages
}

func summary(jobs, messages int) string {
	return fmt.Sprintf("%d jobs · %d messages", jobs, messages)
}
