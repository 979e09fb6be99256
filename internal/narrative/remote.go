package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Remote calls an external text-generation endpoint. The request is a plain
// {"prompt": "..."} POST with a bearer key; the response may be JSON with an
// output, text or result field, or raw text.
type Remote struct {
	url     string
	key     string
	client  *http.Client
	timeout time.Duration
}

func NewRemote(url, key string, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Remote{
		url:     url,
		key:     key,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

func (r *Remote) PlanNarrative(ctx context.Context, plan PlanContext) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{"prompt": buildPrompt(plan)})
	if err != nil {
		return "", fmt.Errorf("marshal prompt: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.key != "" {
		req.Header.Set("Authorization", "Bearer "+r.key)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("narrative request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read narrative response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("narrative request failed: status=%d body=%s", resp.StatusCode, raw)
	}

	text := extractText(raw)
	if text == "" {
		return "", fmt.Errorf("narrative response empty")
	}

	slog.DebugContext(ctx, "Narrative generated remotely", "trip", plan.TripName, "bytes", len(text))
	return text, nil
}

func buildPrompt(plan PlanContext) string {
	var lines []string
	lines = append(lines, "Trip: "+plan.TripName)
	lines = append(lines, "Total budget: "+formatAmount(plan.Budget))
	if plan.Days > 0 {
		lines = append(lines, fmt.Sprintf("Duration: %d days", plan.Days))
	}
	if len(plan.Categories) > 0 {
		lines = append(lines, "Categories:")
		for _, c := range plan.Categories {
			lines = append(lines, "- "+c.Name+": "+formatAmount(c.Amount))
		}
	}
	lines = append(lines, "Provide a concise per-day budget, recommended daily limits per category, and mention over/under budget alerts if any. Output as plain text.")
	return strings.Join(lines, "\n")
}

// extractText accepts either {"output":...}, {"text":...}, {"result":...}
// or a bare text body.
func extractText(raw []byte) string {
	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err == nil {
		for _, field := range []string{"output", "text", "result"} {
			if s, ok := parsed[field].(string); ok && s != "" {
				return s
			}
		}
		return ""
	}
	return strings.TrimSpace(string(raw))
}
