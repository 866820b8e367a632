package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/setucred/setucred/internal/config"
	"github.com/setucred/setucred/internal/observability/metrics"
	"github.com/setucred/setucred/internal/scoring/domain"
	"go.uber.org/zap"
)

const systemMessage = "You are a credit scoring expert for a small-business lending platform. Provide concise, professional explanations."

// Fallback narratives. The score and band are authoritative and must always
// succeed; the explanation is advisory, so every failure of the external call
// degrades to one of these fixed pairs instead of surfacing an error. The two
// variants are distinct on purpose: a reply that parsed but was missing fields
// gets the first, any harder failure gets the second.
var (
	partialFallback = domain.Explanation{
		Explanation: "Score calculated based on repayment history and consumption data.",
		Recommendations: []string{
			"Maintain regular repayments",
			"Update consumption data",
			"Build credit history",
		},
	}
	failureFallback = domain.Explanation{
		Explanation: "Score calculated based on repayment history, consumption patterns, and loan utilization.",
		Recommendations: []string{
			"Maintain timely repayments",
			"Provide complete consumption data",
			"Build longer credit history",
		},
	}
)

// PartialFallback returns the narrative used when the collaborator reply
// parsed but was missing fields.
func PartialFallback() domain.Explanation { return partialFallback }

// FailureFallback returns the narrative used when the collaborator call
// failed outright.
func FailureFallback() domain.Explanation { return failureFallback }

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type explanationReply struct {
	Explanation     string   `json:"explanation"`
	Recommendations []string `json:"recommendations"`
}

// OpenAIExplainer asks an OpenAI-compatible chat endpoint for a score
// rationale. A single attempt with a hard timeout; no retries.
type OpenAIExplainer struct {
	cfg        config.OpenAIConfig
	log        *zap.Logger
	obsMetrics *metrics.Metrics
	httpClient *http.Client
}

func NewOpenAI(cfg config.Config, log *zap.Logger, obsMetrics *metrics.Metrics) domain.Explainer {
	return &OpenAIExplainer{
		cfg:        cfg.OpenAI,
		log:        log.Named("scoring.explain"),
		obsMetrics: obsMetrics,
		httpClient: &http.Client{
			Timeout: cfg.OpenAI.Timeout,
		},
	}
}

func (e *OpenAIExplainer) Explain(ctx context.Context, req domain.ExplainRequest) domain.Explanation {
	if !e.cfg.Enabled() {
		return e.fallback(ctx, "disabled", nil)
	}

	content, err := e.callChat(ctx, buildPrompt(req))
	if err != nil {
		return e.fallback(ctx, "call_failed", err)
	}

	var reply explanationReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return e.fallback(ctx, "unparsable_reply", err)
	}

	// Parsed but incomplete replies substitute the missing field only, per
	// field, keeping whatever the collaborator did return.
	result := domain.Explanation{
		Explanation:     strings.TrimSpace(reply.Explanation),
		Recommendations: reply.Recommendations,
	}
	if result.Explanation == "" {
		result.Explanation = partialFallback.Explanation
		e.recordFallback(ctx, "missing_explanation")
	}
	if len(result.Recommendations) == 0 {
		result.Recommendations = partialFallback.Recommendations
		e.recordFallback(ctx, "missing_recommendations")
	}
	return result
}

func (e *OpenAIExplainer) callChat(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: e.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemMessage},
			{Role: "user", Content: prompt},
		},
		MaxTokens: 300,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(e.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("chat completion status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", err
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}

func (e *OpenAIExplainer) fallback(ctx context.Context, reason string, err error) domain.Explanation {
	e.recordFallback(ctx, reason)
	if err != nil {
		e.log.Warn("explanation degraded to fallback",
			zap.String("reason", reason),
			zap.Error(err),
		)
	}
	return failureFallback
}

func (e *OpenAIExplainer) recordFallback(ctx context.Context, reason string) {
	if e.obsMetrics != nil {
		e.obsMetrics.RecordExplainFallback(ctx, reason)
	}
}

func buildPrompt(req domain.ExplainRequest) string {
	return fmt.Sprintf(`Analyze this beneficiary's credit profile:
- Name: %s
- Credit Score: %.2f/100
- Risk Band: %s
- Loan Amount: %.2f
- Repayment History: %d records
- Business Type: %s

Provide:
1. A brief explanation (2-3 sentences) of why they received this score
2. Three specific recommendations to improve their creditworthiness

Format as JSON: {"explanation": "...", "recommendations": ["...", "...", "..."]}`,
		req.Name,
		req.CreditScore,
		req.RiskBand,
		req.LoanAmount,
		req.RepaymentCount,
		req.BusinessType,
	)
}
