// Package advisor provides optional free-text research guidance from a
// local LLM endpoint. The advisor is strictly best effort: any failure
// or timeout yields empty text and the report is composed without a
// research section.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/codenav/codenav/pkg/types"
)

// Advisor generates free-text guidance for research-flavored queries
type Advisor struct {
	endpoint string
	model    string
	client   *http.Client
}

// New creates an advisor for an Ollama-compatible generate endpoint
func New(endpoint, model string, timeout time.Duration) *Advisor {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Advisor{
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    model,
		client:   &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate returns guidance text for a prompt. Never retried; a slow or
// failing advisor must not delay the report.
func (a *Advisor) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  a.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal advisor request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create advisor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("advisor request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("advisor returned status %d: %s", resp.StatusCode, string(raw))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode advisor response: %w", err)
	}
	return strings.TrimSpace(out.Response), nil
}

// BuildPrompt assembles the research prompt from the query and the
// findings collected so far
func BuildPrompt(q types.Query, findings []*types.Finding) string {
	var b strings.Builder
	b.WriteString("You are a code navigation assistant. Suggest where to look next.\n\n")
	fmt.Fprintf(&b, "Query: %s\n", q.Text)
	if len(findings) > 0 {
		b.WriteString("Findings so far:\n")
		for _, f := range findings {
			fmt.Fprintf(&b, "- %s: %s\n", f.Component, f.Summary)
		}
	}
	b.WriteString("\nReply with two or three short suggestions.")
	return b.String()
}
