package usecase

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"madrasa/internal/domain"
)

//go:embed templates/*.tmpl
var promptTemplates embed.FS

// Prompts renders the generation prompt for each chat mode. Each mode
// has its own embedded template carrying the bilingual system
// instruction and the mode-specific tail.
type Prompts struct {
	templates map[domain.Mode]*template.Template
}

func NewPrompts() (*Prompts, error) {
	files := map[domain.Mode]string{
		domain.ModeAsk:     "templates/ask.tmpl",
		domain.ModeQuiz:    "templates/quiz.tmpl",
		domain.ModeExplain: "templates/explain.tmpl",
	}

	templates := make(map[domain.Mode]*template.Template, len(files))
	for mode, file := range files {
		content, err := promptTemplates.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("load template %s: %w", file, err)
		}
		tmpl, err := template.New(string(mode)).Funcs(promptFuncs()).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", file, err)
		}
		templates[mode] = tmpl
	}
	return &Prompts{templates: templates}, nil
}

type promptData struct {
	Query   string
	History string
	Sources []string
}

// Build renders the prompt for mode from the query, the formatted
// conversation history and the retrieved source texts. Unknown modes
// fall back to the ask template.
func (p *Prompts) Build(mode domain.Mode, query, history string, sources []domain.FusedChunk) (string, error) {
	tmpl, ok := p.templates[mode]
	if !ok {
		tmpl = p.templates[domain.ModeAsk]
	}

	texts := make([]string, len(sources))
	for i, s := range sources {
		texts[i] = s.Chunk.Text
	}

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, promptData{
		Query:   query,
		History: history,
		Sources: texts,
	})
	if err != nil {
		return "", fmt.Errorf("render %s prompt: %w", mode, err)
	}
	return buf.String(), nil
}

func promptFuncs() template.FuncMap {
	return template.FuncMap{
		"numberSources": func(texts []string) string {
			var sb strings.Builder
			for i, t := range texts {
				if i > 0 {
					sb.WriteString("\n\n")
				}
				fmt.Fprintf(&sb, "[مصدر %d]\n%s", i+1, t)
			}
			return sb.String()
		},
	}
}
