package a2a

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Terminal renders for CLI output. Kept out of the wire path entirely;
// JSON marshalling never goes through these.

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
)

const bullet = "│ "

func (task *Task) String() string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render("Task") + "\n")
	sb.WriteString(bullet + labelStyle.Render("ID: ") + valueStyle.Render(task.TaskID) + "\n")
	sb.WriteString(bullet + labelStyle.Render("Skill: ") + valueStyle.Render(task.SkillID) + "\n")
	if task.ContextID != "" {
		sb.WriteString(bullet + labelStyle.Render("Context: ") + valueStyle.Render(task.ContextID) + "\n")
	}

	sb.WriteString("\n" + sectionStyle.Render("Status") + "\n")
	sb.WriteString(bullet + labelStyle.Render("State: ") + valueStyle.Render(string(task.Status)) + "\n")
	sb.WriteString(bullet + labelStyle.Render("Created: ") + valueStyle.Render(task.CreatedAt.Format(time.RFC3339)) + "\n")
	sb.WriteString(bullet + labelStyle.Render("Updated: ") + valueStyle.Render(task.UpdatedAt.Format(time.RFC3339)) + "\n")

	if task.Result != nil {
		sb.WriteString("\n" + sectionStyle.Render("Result") + "\n")
		sb.WriteString(bullet + labelStyle.Render("Output: ") + valueStyle.Render(compactJSON(task.Result.Output)) + "\n")
		if task.Result.Model != "" {
			sb.WriteString(bullet + labelStyle.Render("Model: ") + valueStyle.Render(task.Result.Model) + "\n")
		}
	}

	if task.Error != nil {
		sb.WriteString("\n" + sectionStyle.Render("Error") + "\n")
		sb.WriteString(bullet + labelStyle.Render("Code: ") + valueStyle.Render(string(task.Error.Code)) + "\n")
		if task.Error.Message != "" {
			sb.WriteString(bullet + labelStyle.Render("Message: ") + valueStyle.Render(task.Error.Message) + "\n")
		}
	}

	return sb.String()
}

func (card *AgentCard) String() string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render("Agent Card") + "\n")
	sb.WriteString(bullet + labelStyle.Render("Name: ") + valueStyle.Render(card.Name) + "\n")
	if card.Description != "" {
		sb.WriteString(bullet + labelStyle.Render("Description: ") + valueStyle.Render(card.Description) + "\n")
	}
	sb.WriteString(bullet + labelStyle.Render("URL: ") + valueStyle.Render(card.URL) + "\n")
	sb.WriteString(bullet + labelStyle.Render("Version: ") + valueStyle.Render(card.Version) + "\n")
	sb.WriteString(bullet + labelStyle.Render("Streaming: ") + valueStyle.Render(fmt.Sprintf("%v", card.Capabilities.Streaming)) + "\n")

	if len(card.Skills) > 0 {
		sb.WriteString("\n" + sectionStyle.Render("Skills") + "\n")
		for _, skill := range card.Skills {
			sb.WriteString(bullet + labelStyle.Render(skill.ID))
			if skill.Streaming {
				sb.WriteString(valueStyle.Render(" (streaming)"))
			}
			if skill.Description != "" {
				sb.WriteString(valueStyle.Render(": " + skill.Description))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func compactJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}
