package engine

import (
	"fmt"
	"strings"

	"cvbot-backend/internal/entitlement"
	"cvbot-backend/internal/render"
	"cvbot-backend/internal/resume"
)

const (
	msgWelcome = "Olá! 👋 Eu sou o Cadu, seu assistente de currículos.\n" +
		"Vou te guiar passo a passo para montar um currículo profissional direto aqui pelo WhatsApp.\n\n" +
		"A qualquer momento você pode digitar *reiniciar* para começar de novo."

	msgPlanMenu = "Para começar, escolha um dos planos:\n\n" +
		"*1* - Básico (R$ 5,99): um currículo em PDF\n" +
		"*2* - Premium (R$ 10,99): currículo em PDF + versão em inglês + carta de apresentação + revisão\n" +
		"*3* - Ilimitado (R$ 29,90): currículos ilimitados por 30 dias\n\n" +
		"Responda com *1*, *2* ou *3*."

	msgPlanRetry = "Não entendi 🤔 Responda com *1* (Básico), *2* (Premium) ou *3* (Ilimitado)."

	msgTemplateMenu = "Ótima escolha! 🎨 Agora escolha o modelo do seu currículo.\n" +
		"Vou te mandar uma imagem de cada um. Responda com *1*, *2* ou *3*."

	msgTemplateRetry = "Responda com *1*, *2* ou *3* para escolher o modelo do currículo."

	msgAnotherExperience = "Experiência registrada! ✅\n" +
		"Quer adicionar mais uma experiência profissional? Responda *sim* ou *não*."

	msgImproveChoice = "Quer que eu dê uma melhorada profissional nas descrições das suas experiências? Responda *sim* ou *não*."

	msgImproveDone = "Prontinho! ✨ Dei uma polida nas descrições."

	msgCorrectionPrompt = "Certo! Envie o novo valor para *%s*."

	msgProofPrompt = "Assim que fizer o pagamento, envie aqui a *foto do comprovante* 📸."

	msgProofNotImage = "Preciso da *foto* do comprovante para confirmar o pagamento 📸. Pode enviar a imagem?"

	msgProofRejected = "Não consegui confirmar esse comprovante 😕 Confere se a foto está legível e tenta enviar de novo, por favor."

	msgProofRetry = "Tive um problema para analisar o comprovante agora. Pode enviar a foto novamente em instantes?"

	msgDeliveryStarted = "Pagamento confirmado! 🎉 Já estou preparando seus documentos, me dá só um minutinho..."

	msgInterviewDeclined = "Combinado! Boa sorte na busca 🍀 Se precisar de outro currículo, é só me chamar."

	msgInterviewUnavailable = "Não consegui montar as perguntas de entrevista agora 😕 Mas seu currículo já está com você!\n" +
		"Boa sorte na busca 🍀"

	msgCompletedFarewell = "Foi um prazer te ajudar! 🚀 Quando quiser montar um novo currículo, é só mandar uma mensagem."

	msgSubscriptionRestart = "Seu plano Ilimitado ainda está ativo! 🙌 Vamos montar mais um currículo.\n" +
		"Escolha o modelo respondendo *1*, *2* ou *3*."

	msgReset = "Sem problemas! Vamos começar do zero 🔄 Pode mandar qualquer mensagem para recomeçar."

	msgFallback = "Opa, me perdi aqui 😅 Pode repetir sua última mensagem, por favor?"

	msgListAck = "Anotado! ✍️ Pode mandar mais, ou digite *pronto* quando terminar."

	msgEmailInvalid = "Hmm, esse e-mail não parece válido 🤔 Pode conferir e mandar de novo?"

	msgImproveFailed = "Não consegui melhorar as descrições agora 😕 Mas seguimos com o que você escreveu!"

	msgPixFailed = "Tive um problema para gerar o código de pagamento agora. Digite *finalizar* de novo em instantes, por favor."

	msgExperienceRedo = "Vamos refazer suas experiências profissionais 💼"
)

// reviewFields is the menu ordering for the review step: the number the user
// replies with is the 1-based index into this slice.
var reviewFields = []string{
	resume.KeyNome,
	resume.KeyCidade,
	resume.KeyTelefone,
	resume.KeyEmail,
	resume.KeyResumo,
	resume.KeyFormacao,
	resume.KeyHabilidades,
	resume.KeyCursos,
	resume.KeyExperiencias,
}

var reviewLabels = map[string]string{
	resume.KeyNome:         "Nome",
	resume.KeyCidade:       "Cidade",
	resume.KeyTelefone:     "Telefone",
	resume.KeyEmail:        "E-mail",
	resume.KeyResumo:       "Resumo",
	resume.KeyFormacao:     "Formação",
	resume.KeyHabilidades:  "Habilidades",
	resume.KeyCursos:       "Cursos",
	resume.KeyExperiencias: "Experiências",
}

func reviewMenu(rec resume.Record) string {
	var b strings.Builder
	b.WriteString("Aqui está o que eu anotei 📋\n\n")
	for i, key := range reviewFields {
		b.WriteString(fmt.Sprintf("*%d* - %s: %s\n", i+1, reviewLabels[key], reviewValue(rec, key)))
	}
	b.WriteString("\nPara corrigir algo, responda com o *número* do campo.\n")
	b.WriteString("Se estiver tudo certo, responda *finalizar*.")
	return b.String()
}

func reviewValue(rec resume.Record, key string) string {
	switch key {
	case resume.KeyHabilidades:
		return listOrDash(rec.Habilidades)
	case resume.KeyCursos:
		return listOrDash(rec.Cursos)
	case resume.KeyExperiencias:
		if len(rec.Experiencias) == 0 {
			return "nenhuma"
		}
		parts := make([]string, 0, len(rec.Experiencias))
		for _, exp := range rec.Experiencias {
			parts = append(parts, fmt.Sprintf("%s (%s)", exp.Cargo, exp.Empresa))
		}
		return strings.Join(parts, "; ")
	default:
		f, _ := rec.Scalar(key)
		if !f.Provided || f.Value == "" {
			return "—"
		}
		return f.Value
	}
}

func listOrDash(items []string) string {
	if len(items) == 0 {
		return "—"
	}
	return strings.Join(items, ", ")
}

func planConfirmation(plan entitlement.Plan) string {
	if plan.Unlimited() {
		return fmt.Sprintf("Plano *%s* escolhido! 🙌 Você poderá montar quantos currículos quiser por 30 dias.", plan.Name)
	}
	return fmt.Sprintf("Plano *%s* escolhido! 🙌", plan.Name)
}

func templateConfirmation(templateID string) string {
	return fmt.Sprintf("Modelo *%s* escolhido! 📄 Agora vamos preencher seu currículo.", render.TemplateName(templateID))
}

func paymentInstructions(plan entitlement.Plan, pixCode string) string {
	return fmt.Sprintf("Tudo pronto! 🎯 Para receber seu currículo, faça o pagamento de *R$ %s* via Pix.\n\n"+
		"Copie o código abaixo e cole no app do seu banco (Pix copia e cola):\n\n%s\n\n%s",
		formatPrice(plan.Price), pixCode, msgProofPrompt)
}

func formatPrice(v float64) string {
	return strings.ReplaceAll(fmt.Sprintf("%.2f", v), ".", ",")
}
