package assistant

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

	"grana/internal/core"
)

// Client talks to an OpenAI-compatible chat completions endpoint and turns a
// free-text sentence like "gastei 50 reais no mercado" into a transaction
// proposal. The proposal is never posted automatically; the caller decides.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// Proposal is the assistant's structured reading of the user's sentence.
type Proposal struct {
	Description string      `json:"description"`
	AmountCents int64       `json:"amount_cents"`
	Kind        core.TxKind `json:"kind"`
	CategoryID  int64       `json:"category_id"`
	AccountID   int64       `json:"account_id"`
	Date        string      `json:"date"`
}

func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

const systemPrompt = `Você transforma frases sobre gastos e receitas em JSON.
Responda somente com um objeto JSON com as chaves: description (string),
amount_cents (inteiro, centavos), kind ("income" ou "expense"),
category_id (inteiro, escolha da lista ou 0), account_id (inteiro, escolha
da lista ou 0), date (YYYY-MM-DD ou vazio para hoje).`

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
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

// Propose asks the model to read the message against the user's categories
// and accounts. Fields the model leaves out or gets wrong fall back to safe
// defaults: the first category or account, amount zero, today.
func (c *Client) Propose(ctx context.Context, message string, categories []core.Category, accounts []core.Account) (*Proposal, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("message: %w", core.ErrEmptyDescription)
	}

	prompt := buildPrompt(message, categories, accounts)
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call assistant: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("assistant returned %d: %s", resp.StatusCode, payload)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("assistant returned no choices")
	}

	proposal, err := parseProposal(chat.Choices[0].Message.Content)
	if err != nil {
		slog.WarnContext(ctx, "Assistant returned unparseable proposal",
			"content", chat.Choices[0].Message.Content, "error", err)
		return nil, fmt.Errorf("parse proposal: %w", err)
	}

	applyFallbacks(proposal, message, categories, accounts)
	return proposal, nil
}

func buildPrompt(message string, categories []core.Category, accounts []core.Account) string {
	var b strings.Builder
	b.WriteString("Categorias disponíveis:\n")
	for _, c := range categories {
		fmt.Fprintf(&b, "- id=%d nome=%s tipo=%s\n", c.ID, c.Name, c.Kind)
	}
	b.WriteString("Contas disponíveis:\n")
	for _, a := range accounts {
		fmt.Fprintf(&b, "- id=%d nome=%s\n", a.ID, a.Name)
	}
	b.WriteString("Frase: ")
	b.WriteString(message)
	return b.String()
}

// parseProposal tolerates models that wrap the JSON in markdown fences or
// surrounding prose.
func parseProposal(content string) (*Proposal, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in %q", content)
	}

	var p Proposal
	if err := json.Unmarshal([]byte(content[start:end+1]), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func applyFallbacks(p *Proposal, message string, categories []core.Category, accounts []core.Account) {
	if p.Description == "" {
		p.Description = message
	}
	if p.AmountCents < 0 {
		p.AmountCents = 0
	}
	if p.Kind != core.Income && p.Kind != core.Expense {
		p.Kind = core.Expense
	}

	if !categoryExists(p.CategoryID, p.Kind, categories) {
		p.CategoryID = firstCategory(p.Kind, categories)
	}
	if !accountExists(p.AccountID, accounts) {
		p.AccountID = 0
		if len(accounts) > 0 {
			p.AccountID = accounts[0].ID
		}
	}

	if _, err := core.ParseDate(p.Date); err != nil {
		p.Date = ""
	}
}

func categoryExists(id int64, kind core.TxKind, categories []core.Category) bool {
	for _, c := range categories {
		if c.ID == id && c.Kind == kind {
			return true
		}
	}
	return false
}

func firstCategory(kind core.TxKind, categories []core.Category) int64 {
	for _, c := range categories {
		if c.Kind == kind {
			return c.ID
		}
	}
	return 0
}

func accountExists(id int64, accounts []core.Account) bool {
	for _, a := range accounts {
		if a.ID == id {
			return true
		}
	}
	return false
}
