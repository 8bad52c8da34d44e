package usecase

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"

	"station-ops-bot/internal/entry"
	"station-ops-bot/pkg/datemath"
	"station-ops-bot/pkg/llmprovider"
)

//go:embed examples.yaml
var examplesYAML string

var examplesTemplate = template.Must(template.New("examples").Option("missingkey=error").Parse(examplesYAML))

type example struct {
	Input  string         `yaml:"input"`
	Output map[string]any `yaml:"output"`
}

type exampleFile struct {
	Examples []example `yaml:"examples"`
}

// promptDates are the reference dates rendered into the prompt and examples.
type promptDates struct {
	Today    string
	Friday   string
	NextWeek string
}

func newPromptDates(today time.Time) promptDates {
	d := promptDates{Today: today.Format(entry.DateLayout)}
	if fri, err := datemath.ResolveMention("friday", today); err == nil {
		d.Friday = fri.Format(entry.DateLayout)
	}
	if nw, err := datemath.ResolveMention("next week", today); err == nil {
		d.NextWeek = nw.Format(entry.DateLayout)
	}
	return d
}

// loadExamples renders the embedded examples for today.
func loadExamples(dates promptDates) ([]example, error) {
	var buf bytes.Buffer
	if err := examplesTemplate.Execute(&buf, dates); err != nil {
		return nil, fmt.Errorf("render examples: %w", err)
	}

	var file exampleFile
	if err := yaml.Unmarshal(buf.Bytes(), &file); err != nil {
		return nil, fmt.Errorf("parse examples: %w", err)
	}
	return file.Examples, nil
}

// systemPrompt is the fixed instruction block for one reference day.
func (uc *implUseCase) systemPrompt(dates promptDates) string {
	var sb strings.Builder
	sb.WriteString("You are a structured logger for a service station operations system.\n\n")
	sb.WriteString("Given a user message, classify it into one of: expense, fuel, task, issue. ")
	sb.WriteString("Extract the fields for that type and output a single JSON object with a \"type\" field.\n\n")

	fmt.Fprintf(&sb, "- expense: date (default today), amount, description, person (default %q), receipt_url (if provided)\n", uc.cfg.DefaultPerson)
	sb.WriteString("- fuel: date (default today), vehicle, driver, liters, odometer_start, odometer_end, purpose\n")
	fmt.Fprintf(&sb, "- task: task_title, details, status (default \"To Do\"), deadline (if mentioned), assigned_to (default %q)\n", uc.cfg.DefaultAssignee)
	fmt.Fprintf(&sb, "- issue: category, description, severity (default \"Low\"), status (default \"Open\"), reported_by (default %q)\n\n", uc.cfg.DefaultReporter)

	sb.WriteString("Vehicles: \"Toyota Hilux\", \"Toyota Prado\" or \"Other\".\n")
	sb.WriteString("Amounts and liters are plain numbers (\"15,000 MWK\" becomes 15000).\n")
	sb.WriteString("Task status: \"To Do\", \"In Progress\", \"Done\".\n")
	sb.WriteString("Issue severity: \"Low\", \"Medium\", \"High\". Issue category: \"Equipment\", \"Supply\", \"Complaint\", \"Other\".\n")
	sb.WriteString("Issue status: \"Open\" or \"Resolved\" (\"To Do\" is only for tasks).\n\n")

	fmt.Fprintf(&sb, "Today is %s (%s). Dates use YYYY-MM-DD.\n", dates.Today, uc.dates.Location().String())
	fmt.Fprintf(&sb, "Always include \"date\"; use %s when none is given.\n", dates.Today)
	fmt.Fprintf(&sb, "Resolve relative deadlines against today: \"Friday\" is %s, \"next week\" is %s.\n", dates.Friday, dates.NextWeek)
	sb.WriteString("Severity keywords: urgent, critical, emergency = High; important, priority = Medium; otherwise Low.\n")
	sb.WriteString("Only include fields that are present or can be reasonably inferred. Reply with JSON only.")
	return sb.String()
}

// buildRequest assembles instructions, worked examples and the segment.
func (uc *implUseCase) buildRequest(segment string, today time.Time) (*llmprovider.Request, error) {
	dates := newPromptDates(today)
	examples, err := loadExamples(dates)
	if err != nil {
		return nil, err
	}

	system := llmprovider.TextMessage(llmprovider.RoleUser, uc.systemPrompt(dates))
	messages := make([]llmprovider.Message, 0, len(examples)*2+1)
	for _, ex := range examples {
		out, err := json.Marshal(ex.Output)
		if err != nil {
			return nil, fmt.Errorf("encode example %q: %w", ex.Input, err)
		}
		messages = append(messages,
			llmprovider.TextMessage(llmprovider.RoleUser, ex.Input),
			llmprovider.TextMessage(llmprovider.RoleAssistant, string(out)),
		)
	}
	messages = append(messages, llmprovider.TextMessage(llmprovider.RoleUser, segment))

	return &llmprovider.Request{
		SystemInstruction: &system,
		Messages:          messages,
		Temperature:       uc.cfg.Temperature,
		MaxTokens:         uc.cfg.MaxTokens,
		JSONMode:          true,
	}, nil
}
