package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"hunter-system/models"
)

const defaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

const questSystemPrompt = `You are a game designer and personal development coach building a Solo Leveling inspired stat-based self-improvement system. Design an RPG-style quest system tailored to the hunter profile below.

Rules:
- Quests must be practical, real-world applicable and measurable.
- Balance mental, emotional and physical effort; scale difficulty with the stats given.
- Favor the stats the hunter has recently chosen to focus on.
- Do not repeat quests the hunter has already completed.

Respond ONLY with a JSON object of this shape:
{
  "questlines": [{"stat": "...", "quests": [{"title": "...", "description": "...", "xp": 100, "statGains": [{"stat": "...", "amount": 1}], "rewards": [{"type": "XP", "value": "100"}]}]}],
  "passives": ["..."],
  "metrics": ["..."],
  "reportTemplate": "...",
  "xpSystem": "...",
  "titles": ["..."]
}`

const scoreSystemPrompt = `You are an RPG character assessment AI. Analyze the user's questionnaire answers and assign realistic initial stat scores from 1 to 10 for strength, vitality, agility, intelligence and perception. Score strictly: 1-2 means well below average, 5-6 average, 9-10 exceptional with concrete evidence.

Respond ONLY with a JSON object of integer scores, e.g. {"strength": 5, "vitality": 6, "agility": 4, "intelligence": 7, "perception": 5}`

// GeminiClient implements QuestGenerator and AssessmentScorer against the
// Gemini REST API. Both prompts demand structured JSON so no free-text
// parsing leaks into the core.
type GeminiClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewGeminiClient() *GeminiClient {
	url := os.Getenv("GEMINI_API_URL")
	if url == "" {
		url = defaultGeminiURL
	}
	return &GeminiClient{
		apiKey:  os.Getenv("GEMINI_API_KEY"),
		baseURL: url,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Configured reports whether an API credential is present. Setup scoring
// falls back to randomized defaults when it is not.
func (g *GeminiClient) Configured() bool {
	return g.apiKey != ""
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate builds a generation prompt from the user's stats, focus history,
// completion history and profile, and returns the structured quest payload.
func (g *GeminiClient) Generate(ctx context.Context, stats models.Stats, focusLogs []models.FocusLog,
	completed []models.CompletedQuest, profile models.Profile) (json.RawMessage, error) {

	var b strings.Builder
	b.WriteString(questSystemPrompt)
	b.WriteString("\n\nHunter stats:\n")
	for _, stat := range models.CanonicalStats {
		v, _ := stats.Value(stat)
		fmt.Fprintf(&b, "- %s: %d\n", stat, v)
	}
	if profile.DisplayName != "" || profile.Bio != "" || profile.Goals != "" {
		b.WriteString("\nHunter profile:\n")
		if profile.DisplayName != "" {
			fmt.Fprintf(&b, "- name: %s\n", profile.DisplayName)
		}
		if profile.Bio != "" {
			fmt.Fprintf(&b, "- bio: %s\n", profile.Bio)
		}
		if profile.Goals != "" {
			fmt.Fprintf(&b, "- goals: %s\n", profile.Goals)
		}
	}
	if len(focusLogs) > 0 {
		b.WriteString("\nRecently focused stats (newest last):\n")
		for _, f := range tailFocus(focusLogs, 10) {
			fmt.Fprintf(&b, "- %s (after %q)\n", f.Stat, f.QuestTitle)
		}
	}
	if len(completed) > 0 {
		b.WriteString("\nAlready completed quests (do not repeat):\n")
		for i, q := range completed {
			if i >= 20 {
				break
			}
			fmt.Fprintf(&b, "- %s\n", q.QuestTitle)
		}
	}

	text, err := g.call(ctx, b.String(), generationConfig{
		Temperature:      0.8,
		MaxOutputTokens:  4096,
		ResponseMimeType: "application/json",
	})
	if err != nil {
		return nil, err
	}

	payload := json.RawMessage(text)
	if !json.Valid(payload) {
		return nil, fmt.Errorf("gemini returned invalid JSON quest content")
	}
	return payload, nil
}

// Score parses questionnaire answers into per-stat integer scores. Range
// enforcement is the caller's job; this only guarantees well-formed numbers.
func (g *GeminiClient) Score(ctx context.Context, responses map[string]models.SetupAnswer) (map[string]int, error) {
	var b strings.Builder
	b.WriteString(scoreSystemPrompt)
	b.WriteString("\n\nUser answers:\n")
	for _, stat := range models.CanonicalStats {
		if r, ok := responses[stat]; ok {
			fmt.Fprintf(&b, "%s: %q\n", strings.ToUpper(stat), r.Answer)
		}
	}

	text, err := g.call(ctx, b.String(), generationConfig{
		Temperature:      0.3,
		MaxOutputTokens:  200,
		ResponseMimeType: "application/json",
	})
	if err != nil {
		return nil, err
	}

	var raw map[string]float64
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("gemini returned malformed scores: %w", err)
	}
	scores := make(map[string]int, len(raw))
	for stat, v := range raw {
		scores[strings.ToLower(stat)] = int(v)
	}
	return scores, nil
}

func (g *GeminiClient) call(ctx context.Context, prompt string, cfg generationConfig) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not set")
	}

	body, err := json.Marshal(geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: cfg,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"?key="+g.apiKey, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("gemini API error: %s - %s", resp.Status, string(data))
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("gemini API error: %s", parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func tailFocus(logs []models.FocusLog, n int) []models.FocusLog {
	if len(logs) <= n {
		return logs
	}
	return logs[len(logs)-n:]
}
