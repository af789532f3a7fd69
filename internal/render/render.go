package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"cvbot-backend/internal/resume"
)

// Template identifiers, in menu order.
const (
	TemplateClassic  = "1"
	TemplateSidebar  = "2"
	TemplateCreative = "3"
)

// TemplateName returns the display name for a template ID.
func TemplateName(id string) string {
	switch id {
	case TemplateClassic:
		return "Profissional Clássico"
	case TemplateSidebar:
		return "Moderno com Coluna"
	case TemplateCreative:
		return "Criativo com Banner"
	default:
		return ""
	}
}

// ErrUnknownTemplate indicates an unrecognized template ID.
var ErrUnknownTemplate = errors.New("unknown template")

// Language selects the label set used by the layout. A translated record is
// rendered with LangEN so section headings match the translated content.
type Language string

const (
	LangPT Language = "pt"
	LangEN Language = "en"
)

type labels struct {
	Objetivo     string
	Resumo       string
	Formacao     string
	Habilidades  string
	Cursos       string
	Experiencias string
	NotProvided  string
}

var labelSets = map[Language]labels{
	LangPT: {
		Objetivo:     "Objetivo",
		Resumo:       "Resumo Profissional",
		Formacao:     "Formação",
		Habilidades:  "Habilidades",
		Cursos:       "Cursos e Certificações",
		Experiencias: "Experiência Profissional",
	},
	LangEN: {
		Objetivo:     "Objective",
		Resumo:       "Professional Summary",
		Formacao:     "Education",
		Habilidades:  "Skills",
		Cursos:       "Courses & Certifications",
		Experiencias: "Work Experience",
	},
}

// view is the template input: every optional field already collapsed to an
// empty string when skipped, so layouts only test for emptiness.
type view struct {
	L            labels
	Nome         string
	Cargo        string
	Cidade       string
	Telefone     string
	Email        string
	Resumo       string
	Formacao     string
	Habilidades  []string
	Cursos       []string
	Experiencias []resume.Experience
	Contact      []string
}

// Render produces the document artifact for a record and template. It is a
// pure function: same record, template and language always yield identical
// bytes.
func Render(rec resume.Record, templateID string, lang Language) ([]byte, error) {
	tmpl, ok := layouts[templateID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, templateID)
	}
	ls, ok := labelSets[lang]
	if !ok {
		ls = labelSets[LangPT]
	}

	v := view{
		L:            ls,
		Nome:         rec.Nome.Or(""),
		Cargo:        rec.Cargo.Or(""),
		Cidade:       rec.Cidade.Or(""),
		Telefone:     rec.Telefone.Or(""),
		Email:        rec.Email.Or(""),
		Resumo:       rec.Resumo.Or(""),
		Formacao:     rec.Formacao.Or(""),
		Habilidades:  rec.Habilidades,
		Cursos:       rec.Cursos,
		Experiencias: rec.Experiencias,
	}
	for _, c := range []string{v.Cidade, v.Telefone, v.Email} {
		if strings.TrimSpace(c) != "" {
			v.Contact = append(v.Contact, c)
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", templateID, err)
	}
	return buf.Bytes(), nil
}

var layouts = map[string]*template.Template{
	TemplateClassic:  template.Must(template.New("classic").Parse(classicHTML)),
	TemplateSidebar:  template.Must(template.New("sidebar").Parse(sidebarHTML)),
	TemplateCreative: template.Must(template.New("creative").Parse(creativeHTML)),
}
