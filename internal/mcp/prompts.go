// ABOUTME: MCP prompts that generate Twitter strategy guides as markdown.
// ABOUTME: Prompt bodies are embedded templates filled from the prompt arguments.
package mcp

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"text/template"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

//go:embed prompts/*.md
var promptFS embed.FS

type promptArg struct {
	name        string
	description string
	required    bool
	fallback    string
}

type prompt struct {
	name        string
	description string
	args        []promptArg
}

var prompts = []prompt{
	{
		name:        "compose-tweet",
		description: "Guide for composing effective tweets with hashtags, mentions, and engagement strategies",
		args: []promptArg{
			{name: "topic", description: "The main topic or subject of the tweet", required: true},
			{name: "tone", description: "The desired tone (professional, casual, humorous, informative)", fallback: "professional"},
			{name: "audience", description: "Target audience for the tweet", fallback: "general"},
		},
	},
	{
		name:        "analytics-report",
		description: "Generate comprehensive Twitter analytics and engagement reports",
		args: []promptArg{
			{name: "username", description: "Twitter username to analyze", required: true},
			{name: "period", description: "Time period for analysis (recent, week, month)", fallback: "recent"},
		},
	},
	{
		name:        "content-strategy",
		description: "Develop a Twitter content strategy with scheduling and engagement recommendations",
		args: []promptArg{
			{name: "business_type", description: "Type of business or personal brand", required: true},
			{name: "goals", description: "Primary goals (growth, engagement, sales, awareness)", required: true},
		},
	},
	{
		name:        "community-management",
		description: "Best practices for managing Twitter community interactions and responses",
		args: []promptArg{
			{name: "scenario", description: "Type of interaction (customer service, crisis management, general engagement)", required: true},
			{name: "details", description: "Specific details about the situation"},
		},
	},
	{
		name:        "hashtag-research",
		description: "Research and recommend relevant hashtags for better tweet discoverability",
		args: []promptArg{
			{name: "industry", description: "Industry or niche for hashtag research", required: true},
			{name: "campaign_type", description: "Type of campaign or content", fallback: "general"},
		},
	},
	{
		name:        "twitter-help",
		description: "Get help with Twitter MCP server tools and usage",
	},
}

var toneGuidelines = map[string]string{
	"professional": "- Use formal language and industry terminology\n- Share expertise and insights\n- Maintain authoritative voice\n- Include relevant statistics or data",
	"casual":       "- Use conversational language\n- Include personal anecdotes\n- Use contractions and informal phrases\n- Be relatable and approachable",
	"humorous":     "- Use appropriate humor for your audience\n- Include relevant memes or jokes\n- Keep it lighthearted but on-brand\n- Avoid controversial or offensive content",
	"informative":  "- Focus on providing value and education\n- Use clear, concise language\n- Include facts and actionable tips\n- Structure information logically",
	"":             "- Maintain consistency with your brand voice\n- Consider your audience expectations\n- Be authentic and genuine",
}

var scenarioGuidelines = map[string]string{
	"customer service": "- Acknowledge the issue promptly\n- Ask clarifying questions if needed\n- Provide helpful solutions or next steps\n- Follow up to ensure resolution\n- Thank customers for their feedback",
	"crisis management": "- Respond quickly and transparently\n- Take responsibility when appropriate\n- Provide factual information only\n- Direct to official statements or updates\n- Monitor sentiment and adjust messaging",
	"general engagement": "- Show genuine interest in user content\n- Ask thoughtful follow-up questions\n- Share relevant experiences or insights\n- Express appreciation for shares and mentions\n- Encourage continued conversation",
	"": "- Listen actively to user concerns\n- Respond with empathy and understanding\n- Provide value in every interaction\n- Build relationships, not just respond to issues",
}

// lookupGuideline matches key case-insensitively, falling back to the "" entry.
func lookupGuideline(table map[string]string) func(string) string {
	return func(key string) string {
		if g, ok := table[strings.ToLower(key)]; ok {
			return g
		}
		return table[""]
	}
}

var promptTemplates = template.Must(template.New("prompts").
	Option("missingkey=zero").
	Funcs(template.FuncMap{
		"title":              capitalize,
		"toneGuidelines":     lookupGuideline(toneGuidelines),
		"scenarioGuidelines": lookupGuideline(scenarioGuidelines),
	}).
	ParseFS(promptFS, "prompts/*.md"))

func findPrompt(name string) (prompt, bool) {
	for _, p := range prompts {
		if p.name == name {
			return p, true
		}
	}
	return prompt{}, false
}

// Prompt renders the named prompt with args. Absent optional arguments take
// their defaults.
func (s *Server) Prompt(name string, args map[string]string) (*gomcp.GetPromptResult, error) {
	p, ok := findPrompt(name)
	if !ok {
		return nil, fmt.Errorf("Unknown prompt: %s", name)
	}

	data := make(map[string]string, len(p.args))
	for _, a := range p.args {
		v := args[a.name]
		if v == "" {
			if a.required {
				return nil, fmt.Errorf("Missing required argument: %s", a.name)
			}
			v = a.fallback
		}
		data[a.name] = v
	}

	var b strings.Builder
	if err := promptTemplates.ExecuteTemplate(&b, p.name+".md", data); err != nil {
		return nil, fmt.Errorf("render prompt %s: %w", name, err)
	}

	return &gomcp.GetPromptResult{
		Description: p.description,
		Messages: []*gomcp.PromptMessage{{
			Role:    "user",
			Content: &gomcp.TextContent{Text: strings.TrimRight(b.String(), "\n")},
		}},
	}, nil
}

func (s *Server) registerPrompts() {
	for _, p := range prompts {
		def := &gomcp.Prompt{Name: p.name, Description: p.description}
		for _, a := range p.args {
			def.Arguments = append(def.Arguments, &gomcp.PromptArgument{
				Name:        a.name,
				Description: a.description,
				Required:    a.required,
			})
		}
		s.mcp.AddPrompt(def, func(_ context.Context, req *gomcp.GetPromptRequest) (*gomcp.GetPromptResult, error) {
			return s.Prompt(req.Params.Name, req.Params.Arguments)
		})
	}
}
