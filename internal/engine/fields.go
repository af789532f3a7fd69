package engine

import (
	"strings"

	"cvbot-backend/internal/llm"
	"cvbot-backend/internal/resume"
)

// fieldSpec describes one scalar or list question of the collection cascade.
// The cascade order is the order of collectCascade below; each spec names the
// state that asks it and the state that follows a stored answer.
type fieldSpec struct {
	state     string
	key       string
	question  string
	next      string
	skippable bool
	list      bool
	// validate rejects an answer before it is stored; the question is asked
	// again. Only e-mail uses this today.
	validate func(string) bool
	// normalize cleans the raw answer when the extractor is unavailable.
	normalize func(string) string
}

var collectCascade = []fieldSpec{
	{
		state:     StateCollectNome,
		key:       resume.KeyNome,
		question:  "Pra começar, qual é o seu *nome completo*?",
		next:      StateCollectCidade,
		normalize: llm.NormalizeName,
	},
	{
		state:    StateCollectCidade,
		key:      resume.KeyCidade,
		question: "Em qual *cidade* você mora?",
		next:     StateCollectTelefone,
	},
	{
		state:    StateCollectTelefone,
		key:      resume.KeyTelefone,
		question: "Qual *telefone* deve aparecer no currículo?",
		next:     StateCollectEmail,
	},
	{
		state:    StateCollectEmail,
		key:      resume.KeyEmail,
		question: "Qual é o seu *e-mail*?",
		next:     StateCollectResumo,
		validate: llm.ValidEmail,
	},
	{
		state: StateCollectResumo,
		key:   resume.KeyResumo,
		question: "Me conta um pouco sobre você: um *resumo profissional* de duas ou três frases.\n" +
			"Se preferir, digite *pular*.",
		next:      StateCollectFormacao,
		skippable: true,
	},
	{
		state:    StateCollectFormacao,
		key:      resume.KeyFormacao,
		question: "Qual é a sua *formação*? (curso e instituição)",
		next:     StateCollectHabilidades,
	},
	{
		state: StateCollectHabilidades,
		key:   resume.KeyHabilidades,
		question: "Quais são as suas *habilidades*? Pode mandar várias separadas por vírgula.\n" +
			"Quando terminar, digite *pronto*.",
		next: StateCollectCursos,
		list: true,
	},
	{
		state: StateCollectCursos,
		key:   resume.KeyCursos,
		question: "Você tem *cursos ou certificações*? Manda aí, separados por vírgula.\n" +
			"Quando terminar digite *pronto*, ou *pular* se não tiver.",
		next:      StateExpCargo,
		list:      true,
		skippable: true,
	},
}

var cascadeByState = buildCascadeIndex()

func buildCascadeIndex() map[string]fieldSpec {
	m := make(map[string]fieldSpec, len(collectCascade))
	for _, spec := range collectCascade {
		m[spec.state] = spec
	}
	return m
}

// correctionField maps a review-menu key back to the cascade spec used to
// re-prompt and re-store it.
func correctionField(key string) (fieldSpec, bool) {
	for _, spec := range collectCascade {
		if spec.key == key {
			return spec, true
		}
	}
	return fieldSpec{}, false
}

// questionForState returns the prompt the given state asks, so degraded paths
// can re-send it. Empty when the state asks nothing fixed.
func questionForState(state string) string {
	if spec, ok := cascadeByState[state]; ok {
		return spec.question
	}
	switch state {
	case StatePlanChoice:
		return msgPlanMenu
	case StateTemplateChoice:
		return msgTemplateRetry
	case StateExpCargo:
		return promptExpCargo
	case StateExpEmpresa:
		return promptExpEmpresa
	case StateExpPeriodo:
		return promptExpPeriodo
	case StateExpDescricao:
		return promptExpDescricao
	case StateExpAnother:
		return msgAnotherExperience
	case StateImproveChoice:
		return msgImproveChoice
	case StateAwaitingPaymentProof:
		return msgProofPrompt
	}
	return ""
}

const (
	promptExpCargo = "Agora as *experiências profissionais* 💼\n" +
		"Qual foi o seu *cargo* mais recente?\n" +
		"Se nunca trabalhou formalmente, digite *pular*."
	promptExpEmpresa   = "Em qual *empresa* foi?"
	promptExpPeriodo   = "Qual foi o *período*? (ex.: jan/2022 a dez/2024)"
	promptExpDescricao = "Descreve rapidinho o que você fazia nesse cargo."
)

func trimAnswer(raw string) string {
	return strings.TrimSpace(raw)
}
