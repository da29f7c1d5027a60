package flavor

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

//go:embed prompts/describe_item.txt
var describeItemPrompt string

//go:embed prompts/boss_taunt.txt
var bossTauntPrompt string

const geminiModel = "gemini-2.5-flash"

// maxLineLength truncates runaway generations; the HUD has one line of room.
const maxLineLength = 160

// Gemini generates flavor text with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
	tmpl   *template.Template
}

// NewGemini dials the API. Callers should only construct one when an API key
// is configured; without a key the static source serves everything.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("dial gemini: %w", err)
	}
	tmpl, err := template.New("describe_item").Parse(describeItemPrompt)
	if err != nil {
		client.Close()
		return nil, err
	}
	return &Gemini{
		client: client,
		model:  client.GenerativeModel(geminiModel),
		tmpl:   tmpl,
	}, nil
}

func (g *Gemini) Close() {
	g.client.Close()
}

func (g *Gemini) DescribeItem(ctx context.Context, prompt ItemPrompt) (string, error) {
	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, prompt); err != nil {
		return "", err
	}
	return g.generate(ctx, buf.String())
}

func (g *Gemini) BossTaunt(ctx context.Context) (string, error) {
	return g.generate(ctx, bossTauntPrompt)
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response part type %T", resp.Candidates[0].Content.Parts[0])
	}
	return sanitizeLine(string(text))
}

// sanitizeLine flattens whatever the model returned into one clean line.
func sanitizeLine(raw string) (string, error) {
	line := strings.TrimSpace(raw)
	line = strings.TrimPrefix(line, "```")
	line = strings.TrimSuffix(line, "```")
	line = strings.Trim(line, `"'`)
	line = strings.Join(strings.Fields(line), " ")
	if line == "" {
		return "", fmt.Errorf("empty generation")
	}
	if len(line) > maxLineLength {
		line = line[:maxLineLength]
		if cut := strings.LastIndexByte(line, ' '); cut > 0 {
			line = line[:cut]
		}
	}
	return line, nil
}
