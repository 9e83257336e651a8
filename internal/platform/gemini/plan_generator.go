// Package gemini implements generation.PlanGenerator using Google's Gemini
// API. It renders a prompt from the user's state snapshot, asks the model
// for a JSON plan proposal, and maps the response onto domain planned tasks.
// All failures map onto the generation package's sentinel errors so the
// planner core can fall back without inspecting Gemini specifics.
package gemini

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-api/internal/config"
	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/generation"
	"google.golang.org/genai"
)

//go:embed prompt.tmpl
var promptTemplateText string

// maxAttempts bounds calls to the model for one plan request. Transient
// failures get one retry; permanent failures return immediately.
const maxAttempts = 2

// retryDelay is the pause before the single retry attempt.
const retryDelay = 2 * time.Second

// GeminiPlanGenerator implements the generation.PlanGenerator interface
// using Google's Gemini API.
type GeminiPlanGenerator struct {
	logger         *slog.Logger
	promptTemplate *template.Template
	client         *genai.Client
	model          string
}

// NewGeminiPlanGenerator creates a new GeminiPlanGenerator with the provided
// configuration. Returns an error wrapping generation.ErrInvalidConfig if
// the API key or model name is missing or the client cannot be constructed.
func NewGeminiPlanGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (*GeminiPlanGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("plan").Parse(promptTemplateText)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &GeminiPlanGenerator{
		logger:         logger.With(slog.String("component", "gemini_plan_generator")),
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// Ensure GeminiPlanGenerator implements generation.PlanGenerator
var _ generation.PlanGenerator = (*GeminiPlanGenerator)(nil)

// responseSchema is the JSON structure the model is instructed to return.
type responseSchema struct {
	Reasoning string           `json:"reasoning"`
	Tasks     []responseTask   `json:"tasks"`
}

type responseTask struct {
	TopicID          string `json:"topic_id"`
	GoalID           string `json:"goal_id"`
	Type             string `json:"type"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	Priority         int    `json:"priority"`
	Reasoning        string `json:"reasoning"`
}

// promptData is the input to the prompt template.
type promptData struct {
	Date     string
	Snapshot string
}

// GeneratePlan implements generation.PlanGenerator.GeneratePlan.
func (g *GeminiPlanGenerator) GeneratePlan(
	ctx context.Context,
	state *domain.UserState,
	date string,
) (*generation.GeneratedPlan, error) {
	prompt, err := g.createPrompt(state, date)
	if err != nil {
		return nil, err
	}

	parsed, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return g.toGeneratedPlan(parsed)
}

// createPrompt renders the prompt template with the target date and a
// compact JSON snapshot of the user's goals and topics.
func (g *GeminiPlanGenerator) createPrompt(state *domain.UserState, date string) (string, error) {
	snapshot, err := json.Marshal(state.Goals)
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode state snapshot: %v",
			generation.ErrGenerationFailed, err)
	}

	var buf bytes.Buffer
	if err := g.promptTemplate.Execute(&buf, promptData{
		Date:     date,
		Snapshot: string(snapshot),
	}); err != nil {
		return "", fmt.Errorf("%w: failed to execute prompt template: %v",
			generation.ErrGenerationFailed, err)
	}

	return buf.String(), nil
}

// callWithRetry calls the model, retrying once on transient failure.
// Permanent failures (blocked content, unparseable output) return
// immediately; retrying would not change them.
func (g *GeminiPlanGenerator) callWithRetry(ctx context.Context, prompt string) (*responseSchema, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		parsed, err := g.callModel(ctx, prompt)
		if err == nil {
			return parsed, nil
		}
		lastErr = err

		if errors.Is(err, generation.ErrContentBlocked) || errors.Is(err, generation.ErrInvalidResponse) {
			return nil, err
		}

		g.logger.Warn("Gemini API call failed",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))

		if attempt < maxAttempts {
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
			}
		}
	}

	return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, lastErr)
}

// callModel makes a single generation request and parses the JSON body.
func (g *GeminiPlanGenerator) callModel(ctx context.Context, prompt string) (*responseSchema, error) {
	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: finish reason safety", generation.ErrContentBlocked)
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		text += part.Text
	}

	var parsed responseSchema
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}

	return &parsed, nil
}

// toGeneratedPlan maps the parsed response onto domain planned tasks,
// dropping entries with malformed IDs. Referential validation against the
// user's state is the planner core's job, not the generator's.
func (g *GeminiPlanGenerator) toGeneratedPlan(parsed *responseSchema) (*generation.GeneratedPlan, error) {
	tasks := make([]domain.PlannedTask, 0, len(parsed.Tasks))
	for _, t := range parsed.Tasks {
		topicID, err := uuid.Parse(t.TopicID)
		if err != nil {
			g.logger.Warn("dropping task with malformed topic ID",
				slog.String("topic_id", t.TopicID))
			continue
		}
		goalID, err := uuid.Parse(t.GoalID)
		if err != nil {
			g.logger.Warn("dropping task with malformed goal ID",
				slog.String("goal_id", t.GoalID))
			continue
		}

		tasks = append(tasks, domain.PlannedTask{
			TopicID:          topicID,
			GoalID:           goalID,
			Type:             domain.TaskType(t.Type),
			EstimatedMinutes: t.EstimatedMinutes,
			Priority:         t.Priority,
			Reasoning:        t.Reasoning,
		})
	}

	if len(parsed.Tasks) > 0 && len(tasks) == 0 {
		return nil, fmt.Errorf("%w: every task had malformed IDs", generation.ErrInvalidResponse)
	}

	return &generation.GeneratedPlan{
		Reasoning: parsed.Reasoning,
		Tasks:     tasks,
	}, nil
}
