package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/personad/internal/extraction"
	"github.com/fyrsmithlabs/personad/internal/personality"
)

// demoMessages is a 30 message conversation touching every extraction category.
var demoMessages = []string{
	"I love Python and VSCode for coding.",
	"I'm worried I won't finish the assignment on time.",
	"Contact: alex.smith@example.com",
	"My number is 9876543210",
	"I prefer Colab for quick GPU testing.",
	"I enjoy working on cybersecurity projects.",
	"I'm happy with fast iterations in development.",
	"I'm sad about delays sometimes in my projects.",
	"Living in San Francisco, California.",
	"I use Git and GitHub for version control.",
	"No experience in mobile conversion yet.",
	"I like DenseNet169 for transfer learning.",
	"I use Obsidian to save my research notes.",
	"I worry about dataset size limitations.",
	"I feel excited when experiments succeed.",
	"I don't like noisy labels in my datasets.",
	"I love writing clean, maintainable code.",
	"My mentor is Dr. Sarah Johnson.",
	"I want to deploy models on Hugging Face Spaces.",
	"I prefer concise, direct replies over long explanations.",
	"I enjoy using Tailwind CSS for frontend work.",
	"I worked on the ThreatNet security project last year.",
	"I have intermediate ethical hacking skills.",
	"I want to run models on-device with TFLite optimization.",
	"I use VS Code on Ubuntu for my main development.",
	"I enjoy data analysis tasks and visualization.",
	"I sometimes feel frustrated with environment setup issues.",
	"I prefer technical answers without too much hand-holding.",
	"My name is Alex and I'm a CS graduate student.",
	"I study machine learning at Stanford University.",
}

const demoReply = "Start by collecting a diverse dataset, then preprocess your images using standard augmentation techniques. Consider using transfer learning with a pre-trained model."

// demoPreview is how many entries per category the report lists.
const demoPreview = 3

// Lipgloss styles
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true).
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	generativeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	fallbackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	containerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(1, 2)
)

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run extraction and every style over a sample conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine()
			if err != nil {
				return err
			}
			memory := extraction.Default.Extract(demoMessages)
			comparison := engine.Compare(cmd.Context(), demoReply, memory)

			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderDemo(len(demoMessages), memory, comparison))
			return err
		},
	}
}

// renderDemo formats the extraction summary and the style comparison.
func renderDemo(processed int, memory *extraction.MemoryRecord, comparison personality.ComparisonResult) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("personad demo"))
	b.WriteString(" ")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d messages", processed)))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Memory"))
	b.WriteString("\n")
	writeRow(&b, "Preferences", fmt.Sprintf("%d", len(memory.Preferences)))
	writeRow(&b, "Emotional patterns", fmt.Sprintf("%d", len(memory.EmotionalPatterns)))
	writeRow(&b, "Facts", fmt.Sprintf("%d", len(memory.Facts)))

	b.WriteString(sectionStyle.Render("Preferences"))
	b.WriteString("\n")
	for i, p := range memory.Preferences {
		if i == demoPreview {
			break
		}
		writeRow(&b, string(p.Type), p.Value)
	}
	writeMore(&b, len(memory.Preferences))

	b.WriteString(sectionStyle.Render("Emotional patterns"))
	b.WriteString("\n")
	for i, e := range memory.EmotionalPatterns {
		if i == demoPreview {
			break
		}
		writeRow(&b, string(e.Emotion), e.Trigger)
	}
	writeMore(&b, len(memory.EmotionalPatterns))

	b.WriteString(sectionStyle.Render("Facts"))
	b.WriteString("\n")
	for i, f := range memory.Facts {
		if i == demoPreview {
			break
		}
		writeRow(&b, string(f.Type), f.Value)
	}
	writeMore(&b, len(memory.Facts))

	b.WriteString(sectionStyle.Render("Original reply"))
	b.WriteString("\n")
	b.WriteString(comparison.OriginalReply)
	b.WriteString("\n")

	for _, v := range comparison.PersonalityVariations {
		b.WriteString(sectionStyle.Render(v.PersonalityStyle))
		b.WriteString(" ")
		if v.UsedGenerativeBackend {
			b.WriteString(generativeStyle.Render("● " + v.BackendIdentifier))
		} else {
			b.WriteString(fallbackStyle.Render("○ " + v.BackendIdentifier))
		}
		b.WriteString("\n")
		b.WriteString(v.TransformedReply)
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(v.Reasoning))
		b.WriteString("\n")
	}

	return containerStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func writeRow(b *strings.Builder, label, value string) {
	b.WriteString("  ")
	b.WriteString(labelStyle.Render(label + ":"))
	b.WriteString(" ")
	b.WriteString(valueStyle.Render(value))
	b.WriteString("\n")
}

func writeMore(b *strings.Builder, total int) {
	switch {
	case total == 0:
		b.WriteString(dimStyle.Render("  none"))
		b.WriteString("\n")
	case total > demoPreview:
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ... and %d more", total-demoPreview)))
		b.WriteString("\n")
	}
}
