package resume

import "strings"

// Field is an optional scalar answer. A skipped question yields a Field with
// Provided == false; renderers omit such fields instead of printing a
// placeholder.
type Field struct {
	Value    string `json:"value"`
	Provided bool   `json:"provided"`
}

// Provide returns a Field carrying a collected value.
func Provide(value string) Field {
	return Field{Value: strings.TrimSpace(value), Provided: true}
}

// Skipped returns the "not provided" Field.
func Skipped() Field {
	return Field{}
}

// Or returns the field value, or def when the field was skipped.
func (f Field) Or(def string) string {
	if !f.Provided || strings.TrimSpace(f.Value) == "" {
		return def
	}
	return f.Value
}

// Experience is one work-experience entry.
type Experience struct {
	Cargo     string `json:"cargo"`
	Empresa   string `json:"empresa"`
	Periodo   string `json:"periodo"`
	Descricao string `json:"descricao"`
}

// Record accumulates everything collected for one conversant.
type Record struct {
	Nome         Field        `json:"nome"`
	Cidade       Field        `json:"cidade"`
	Telefone     Field        `json:"telefone"`
	Email        Field        `json:"email"`
	Resumo       Field        `json:"resumo"`
	Formacao     Field        `json:"formacao"`
	Cargo        Field        `json:"cargo"`
	Habilidades  []string     `json:"habilidades,omitempty"`
	Cursos       []string     `json:"cursos,omitempty"`
	Experiencias []Experience `json:"experiencias,omitempty"`

	// Draft holds the experience entry being collected mid-loop. It travels
	// with the record so a restart mid-entry resumes where it stopped.
	Draft *Experience `json:"draft,omitempty"`
}

// Scalar field keys, also used as the review-menu correction targets.
const (
	KeyNome         = "nome"
	KeyCidade       = "cidade"
	KeyTelefone     = "telefone"
	KeyEmail        = "email"
	KeyResumo       = "resumo"
	KeyFormacao     = "formacao"
	KeyCargo        = "objetivo"
	KeyHabilidades  = "habilidades"
	KeyCursos       = "cursos"
	KeyExperiencias = "experiencias"
)

// AddExperience prepends an entry so the record stays most-recent-first, and
// adopts the entry's role as the headline role if none is set yet.
func (r *Record) AddExperience(e Experience) {
	r.Experiencias = append([]Experience{e}, r.Experiencias...)
	if !r.Cargo.Provided {
		r.Cargo = Provide(e.Cargo)
	}
}

// FirstName returns the conversant's first name for greetings, if known.
func (r Record) FirstName() string {
	name := strings.TrimSpace(r.Nome.Or(""))
	if name == "" {
		return ""
	}
	return strings.Fields(name)[0]
}

// Scalar returns the scalar field stored under key.
func (r Record) Scalar(key string) (Field, bool) {
	switch key {
	case KeyNome:
		return r.Nome, true
	case KeyCidade:
		return r.Cidade, true
	case KeyTelefone:
		return r.Telefone, true
	case KeyEmail:
		return r.Email, true
	case KeyResumo:
		return r.Resumo, true
	case KeyFormacao:
		return r.Formacao, true
	case KeyCargo:
		return r.Cargo, true
	}
	return Field{}, false
}

// SetScalar stores a scalar field under key. Unknown keys are ignored and
// reported via the return value.
func (r *Record) SetScalar(key string, f Field) bool {
	switch key {
	case KeyNome:
		r.Nome = f
	case KeyCidade:
		r.Cidade = f
	case KeyTelefone:
		r.Telefone = f
	case KeyEmail:
		r.Email = f
	case KeyResumo:
		r.Resumo = f
	case KeyFormacao:
		r.Formacao = f
	case KeyCargo:
		r.Cargo = f
	default:
		return false
	}
	return true
}

// AppendList adds comma-separated items to a list field while the question
// is still open.
func (r *Record) AppendList(key, raw string) bool {
	items := splitList(raw)
	switch key {
	case KeyHabilidades:
		r.Habilidades = append(r.Habilidades, items...)
	case KeyCursos:
		r.Cursos = append(r.Cursos, items...)
	default:
		return false
	}
	return true
}

// SetList replaces a list field from a comma-separated correction answer.
func (r *Record) SetList(key, raw string) bool {
	items := splitList(raw)
	switch key {
	case KeyHabilidades:
		r.Habilidades = items
	case KeyCursos:
		r.Cursos = items
	default:
		return false
	}
	return true
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
