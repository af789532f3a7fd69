package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"cvbot-backend/internal/resume"
)

// Gemini implements every collaborator contract on Google Gemini.
type Gemini struct {
	client     *genai.Client
	model      string
	timeout    time.Duration
	httpClient *http.Client
}

// NewGemini constructs a Gemini collaborator client. Every call is bounded by
// the given timeout; a timeout is the collaborator's failure mode, never
// silent success.
func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = "gemini-1.5-flash"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{
		client:     client,
		model:      model,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.2)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return textFromResponse(resp)
}

// Extract normalizes a free-form answer for the given question.
func (g *Gemini) Extract(ctx context.Context, question, rawAnswer string) (string, error) {
	prompt := fmt.Sprintf(
		"A pergunta feita ao candidato foi: %q. Extraia da resposta abaixo apenas o valor pedido, "+
			"corrigindo gramática, ortografia e capitalização para um padrão profissional. "+
			"Responda somente com o valor extraído, sem nenhuma outra palavra.\n\nResposta: %q",
		question, rawAnswer,
	)
	out, err := g.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrUnavailable
	}
	return out, nil
}

// Rewrite turns an experience description into professional register.
func (g *Gemini) Rewrite(ctx context.Context, description string) (string, error) {
	prompt := fmt.Sprintf(
		"Aja como um especialista em RH. Reescreva a descrição de atividades abaixo para um currículo "+
			"de forma profissional e impactante, usando verbos de ação no início das frases. "+
			"Mantenha o texto conciso. Responda apenas com o texto reescrito.\n\nDescrição original: %q",
		description,
	)
	out, err := g.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrUnavailable
	}
	return out, nil
}

// Translate produces an English-content copy of the record.
func (g *Gemini) Translate(ctx context.Context, rec resume.Record) (resume.Record, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return resume.Record{}, fmt.Errorf("marshal record: %w", err)
	}
	prompt := fmt.Sprintf(
		"Traduza para inglês profissional todos os valores textuais do currículo em JSON abaixo. "+
			"Preserve exatamente a estrutura e as chaves do JSON; traduza apenas os valores. "+
			"Responda APENAS com o JSON traduzido.\n\n%s",
		payload,
	)
	out, err := g.generate(ctx, prompt)
	if err != nil {
		return resume.Record{}, err
	}
	var translated resume.Record
	if err := json.Unmarshal([]byte(cleanJSONBlock(out)), &translated); err != nil {
		return resume.Record{}, fmt.Errorf("%w: malformed translation: %v", ErrUnavailable, err)
	}
	return translated, nil
}

// CoverLetter writes a three-paragraph cover letter from the record.
func (g *Gemini) CoverLetter(ctx context.Context, rec resume.Record) (string, error) {
	payload, _ := json.Marshal(rec)
	prompt := fmt.Sprintf(
		"Aja como um consultor de carreira. Com base nos dados de currículo abaixo, escreva uma carta "+
			"de apresentação profissional e calorosa com 3 parágrafos, destacando as experiências e "+
			"habilidades mais relevantes para o cargo desejado e personalizada com o nome do candidato. "+
			"Responda apenas com a carta.\n\nDados do currículo: %s",
		payload,
	)
	out, err := g.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// InterviewQuestions produces likely interview questions with suggested answers.
func (g *Gemini) InterviewQuestions(ctx context.Context, rec resume.Record) (string, error) {
	payload, _ := json.Marshal(rec)
	prompt := fmt.Sprintf(
		"Aja como um recrutador experiente. Com base no currículo abaixo, liste 5 perguntas prováveis "+
			"de entrevista para o cargo desejado, cada uma com uma sugestão curta de resposta. "+
			"Responda apenas com a lista.\n\nCurrículo: %s",
		payload,
	)
	out, err := g.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// VerifyReceipt downloads the payment-proof image and asks the model for a
// yes/no verdict.
func (g *Gemini) VerifyReceipt(ctx context.Context, imageURL string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	mimeType, data, err := g.fetchImage(ctx, imageURL)
	if err != nil {
		return false, fmt.Errorf("%w: fetch receipt image: %v", ErrUnavailable, err)
	}

	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx,
		genai.Text("Analise a imagem. É um comprovante de pagamento PIX válido? Responda apenas 'SIM' ou 'NAO'."),
		genai.ImageData(subtypeOf(mimeType), data),
	)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	text, err := textFromResponse(resp)
	if err != nil {
		return false, err
	}
	return strings.Contains(strings.ToUpper(text), "SIM"), nil
}

func (g *Gemini) fetchImage(ctx context.Context, imageURL string) (string, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", nil, err
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", nil, err
	}
	return resp.Header.Get("Content-Type"), data, nil
}

func textFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrUnavailable
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", ErrUnavailable
	}
	return b.String(), nil
}

// subtypeOf maps a Content-Type header to the format genai.ImageData expects
// ("jpeg", "png", ...).
func subtypeOf(mimeType string) string {
	mimeType = strings.TrimSpace(strings.ToLower(mimeType))
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = mimeType[:idx]
	}
	if idx := strings.Index(mimeType, "/"); idx >= 0 {
		return mimeType[idx+1:]
	}
	return "jpeg"
}

// cleanJSONBlock strips markdown code fences models wrap JSON in.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}
	return strings.TrimSpace(text)
}
