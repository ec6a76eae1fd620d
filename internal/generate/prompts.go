package generate

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/goccy/go-yaml"
)

//go:embed prompts.yaml
var promptsYAML []byte

// Prompt template names in prompts.yaml.
const (
	PromptTemplateContext = "template_context"
	PromptSystemResearch  = "system_research"
	PromptSystemFallback  = "system_fallback"
	PromptResearchSummary = "research_summary"
	PromptResearch        = "research"
	PromptFallback        = "fallback"
	PromptFormattingRules = "formatting_rules"
	PromptStaticFallback  = "static_fallback"
)

var (
	promptsOnce sync.Once
	prompts     map[string]*template.Template
	promptsErr  error
)

var promptFuncs = template.FuncMap{
	"bullets": bullets,
	"clip":    clip,
}

func loadPrompts() {
	var raw map[string]string
	if err := yaml.Unmarshal(promptsYAML, &raw); err != nil {
		promptsErr = fmt.Errorf("parse prompts.yaml: %w", err)
		return
	}
	prompts = make(map[string]*template.Template, len(raw))
	for name, text := range raw {
		tmpl, err := template.New(name).Funcs(promptFuncs).Option("missingkey=error").Parse(text)
		if err != nil {
			promptsErr = fmt.Errorf("parse prompt %q: %w", name, err)
			return
		}
		prompts[name] = tmpl
	}
}

// RenderPrompt executes the named prompt template with data.
func RenderPrompt(name string, data any) (string, error) {
	promptsOnce.Do(loadPrompts)
	if promptsErr != nil {
		return "", promptsErr
	}
	tmpl, ok := prompts[name]
	if !ok {
		return "", fmt.Errorf("prompt %q not found", name)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render prompt %q: %w", name, err)
	}
	return strings.TrimSpace(sb.String()), nil
}

// MustRenderPrompt is RenderPrompt for templates that take no data or whose
// data is known to be complete.
func MustRenderPrompt(name string, data any) string {
	s, err := RenderPrompt(name, data)
	if err != nil {
		panic(err)
	}
	return s
}

// bullets renders items as "- item" lines, or a single "- empty" line.
func bullets(items []string, empty string) string {
	if len(items) == 0 {
		return "- " + empty
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
