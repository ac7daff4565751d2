package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/justsurfingit/jobtrack-ai/internal/apperror"
	"github.com/justsurfingit/jobtrack-ai/internal/metrics"
	"github.com/justsurfingit/jobtrack-ai/internal/pdf"
	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// NoJDAnalysisMessage is returned by TailorResume when there is nothing to
// tailor against. The model is not called in that case.
const NoJDAnalysisMessage = "No JD analysis available. Paste the full JD first for better tailoring."

// Completion is the outcome of one model call. When Err is set, Text is a
// readable diagnostic that can be shown to the user in place of the answer.
type Completion struct {
	Text string
	Err  error
}

func (c Completion) Degraded() bool { return c.Err != nil }

type LLMService struct {
	Client llms.Model
	Log    logrus.FieldLogger
}

// NewGeminiClient builds the production model client.
func NewGeminiClient(ctx context.Context, apiKey, model string) (llms.Model, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("llm: GEMINI_API_KEY is empty")
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
		googleai.WithDefaultTemperature(0.7),
	)
	if err != nil {
		return nil, fmt.Errorf("llm: creating Gemini client: %w", err)
	}
	return llm, nil
}

func NewLLMService(client llms.Model, log logrus.FieldLogger) *LLMService {
	return &LLMService{
		Client: client,
		Log:    log,
	}
}

// AnalyzeJobDescription extracts skills, seniority, salary hints and culture
// signals from a job posting as bullet points.
func (s *LLMService) AnalyzeJobDescription(ctx context.Context, jobDesc string) Completion {
	return s.generate(ctx, promptAnalyzeJD, map[string]any{"job_description": jobDesc})
}

// TailorResume suggests resume rewrites and a short cover letter for the
// analysed job. With an empty analysis it answers NoJDAnalysisMessage.
func (s *LLMService) TailorResume(ctx context.Context, resume, jdAnalysis string) Completion {
	if jdAnalysis == "" {
		return Completion{Text: NoJDAnalysisMessage}
	}
	return s.generate(ctx, promptTailorResume, map[string]any{
		"jd_analysis": jdAnalysis,
		"resume":      resume,
	})
}

func (s *LLMService) AnalyzeRejection(ctx context.Context, email string) Completion {
	return s.generate(ctx, promptAnalyzeRejection, map[string]any{"email": email})
}

func (s *LLMService) SuggestJobs(ctx context.Context, skills string) Completion {
	return s.generate(ctx, promptSuggestJobs, map[string]any{"skills": skills})
}

// RenderPDF lays content out as a PDF and returns it base64 encoded.
func (s *LLMService) RenderPDF(content, filename string) (*pdf.Document, error) {
	doc, err := pdf.Render(content, filename)
	if err != nil {
		return nil, fmt.Errorf("llm: rendering pdf: %w", err)
	}
	return doc, nil
}

func (s *LLMService) generate(ctx context.Context, name string, values map[string]any) Completion {
	start := time.Now()
	log := s.Log.WithField("operation", name)

	text, err := s.complete(ctx, name, values)
	if err != nil {
		metrics.ObserveAICall(name, metrics.OutcomeError, time.Since(start))
		log.WithError(err).Error("AI call failed")
		return Completion{
			Text: fmt.Sprintf("AI Error: %v. Check the model name and API key, or try again later.", err),
			Err:  apperror.Upstream("language model", err),
		}
	}

	metrics.ObserveAICall(name, metrics.OutcomeOK, time.Since(start))
	log.WithField("duration", time.Since(start)).Debug("AI call completed")
	return Completion{Text: strings.TrimSpace(text)}
}

func (s *LLMService) complete(ctx context.Context, name string, values map[string]any) (string, error) {
	tmpl, ok := promptCatalog[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	prompt, err := tmpl.Format(values)
	if err != nil {
		return "", fmt.Errorf("formatting prompt %q: %w", name, err)
	}
	return llms.GenerateFromSinglePrompt(ctx, s.Client, prompt)
}
