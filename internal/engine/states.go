package engine

import "errors"

// Engine states. Persisted as text on the session row; anything not present
// in the dispatch table is a protocol error, handled via ErrNoHandler rather
// than a crash.
const (
	StateWelcome        = "welcome"
	StatePlanChoice     = "plan_choice"
	StateTemplateChoice = "template_choice"

	StateCollectNome        = "collect_nome"
	StateCollectCidade      = "collect_cidade"
	StateCollectTelefone    = "collect_telefone"
	StateCollectEmail       = "collect_email"
	StateCollectResumo      = "collect_resumo"
	StateCollectFormacao    = "collect_formacao"
	StateCollectHabilidades = "collect_habilidades"
	StateCollectCursos      = "collect_cursos"

	StateExpCargo     = "exp_cargo"
	StateExpEmpresa   = "exp_empresa"
	StateExpPeriodo   = "exp_periodo"
	StateExpDescricao = "exp_descricao"
	StateExpAnother   = "exp_another"

	StateImproveChoice   = "improve_choice"
	StateReviewMenu      = "review_menu"
	StateCorrectionInput = "correction_input"

	StateAwaitingPaymentProof = "awaiting_payment_proof"
	StateDelivering           = "delivering"
	StateInterviewPrepChoice  = "interview_prep_choice"
	StateCompleted            = "completed"
)

// ErrNoHandler marks an inbound event for a state the dispatch table does not
// know. The caller logs it and re-sends a fallback prompt; the session is
// left unchanged.
var ErrNoHandler = errors.New("no handler for state")
