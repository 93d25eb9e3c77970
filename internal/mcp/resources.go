// ABOUTME: MCP resources: embedded API guides and templates plus live user profiles.
// ABOUTME: JSON documents are stamped with last_updated when read.
package mcp

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/twitter-mcp/internal/twitter"
)

//go:embed resources/*
var resourceFS embed.FS

const (
	mimeJSON     = "application/json"
	mimeMarkdown = "text/markdown"

	userResourcePrefix = "twitter://user/"
)

type staticResource struct {
	uri         string
	name        string
	description string
	mimeType    string
	file        string
}

var staticResources = []staticResource{
	{"twitter://api/rate-limits", "Twitter API Rate Limits", "Current rate limits and usage information for Twitter API endpoints", mimeJSON, "rate-limits.json"},
	{"twitter://api/access-level", "API Access Level Information", "Information about current Twitter API access level and capabilities", mimeMarkdown, "access-level.md"},
	{"twitter://tools/working-status", "Tool Status Report", "Current status of all Twitter MCP tools and their functionality", mimeJSON, "working-status.json"},
	{"twitter://guides/quick-start", "Quick Start Guide", "Getting started with Twitter MCP server tools and workflows", mimeMarkdown, "quick-start.md"},
	{"twitter://templates/common-workflows", "Common Workflow Templates", "Pre-built templates for common Twitter automation workflows", mimeJSON, "common-workflows.json"},
	{"twitter://trends/current", "Current Trending Topics", "Current trending topics and hashtags with engagement insights", mimeJSON, "trends.json"},
	{"twitter://templates/thread-starters", "Thread Opening Templates", "Pre-built templates for starting engaging Twitter threads", mimeJSON, "thread-starters.json"},
	{"twitter://compliance/guidelines", "Twitter Policy & Compliance Guidelines", "Twitter platform rules, policies, and compliance information", mimeMarkdown, "compliance.md"},
	{"twitter://help", "Twitter MCP Server Help", "Documentation for Twitter MCP Server tools and usage", mimeMarkdown, "help.md"},
}

// ResourceInfo describes a registered resource for listings.
type ResourceInfo struct {
	URI         string
	Name        string
	Description string
	MIMEType    string
}

// Resources lists the static resources followed by the user profile template.
func (s *Server) Resources() []ResourceInfo {
	infos := make([]ResourceInfo, 0, len(staticResources)+1)
	for _, r := range staticResources {
		infos = append(infos, ResourceInfo{URI: r.uri, Name: r.name, Description: r.description, MIMEType: r.mimeType})
	}
	return append(infos, ResourceInfo{
		URI:         userResourcePrefix + "{username}",
		Name:        "User Profile Data",
		Description: "Dynamic user profile information and recent activity",
		MIMEType:    mimeJSON,
	})
}

// stamp adds the read time to a document. JSON objects gain a last_updated
// member after their existing ones, replacing any earlier value; markdown
// replaces its {{last_updated}} marker. Text that is not a JSON object is
// returned unchanged.
func stamp(text, mimeType, ts string) string {
	if mimeType != mimeJSON {
		return strings.ReplaceAll(text, "{{last_updated}}", ts)
	}

	dec := json.NewDecoder(strings.NewReader(text))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return text
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return text
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return text
		}
		if key == "last_updated" {
			continue
		}
		name, _ := json.Marshal(key)
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
		buf.WriteByte(',')
	}
	if _, err := dec.Token(); err != nil {
		return text
	}
	if _, err := dec.Token(); err != io.EOF {
		return text
	}
	stampValue, _ := json.Marshal(ts)
	buf.WriteString(`"last_updated":`)
	buf.Write(stampValue)
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return text
	}
	return out.String()
}

// ReadResource returns the contents of uri.
func (s *Server) ReadResource(ctx context.Context, uri string) (*gomcp.ReadResourceResult, error) {
	ts := now().UTC().Format(isoMillis)

	for _, r := range staticResources {
		if r.uri != uri {
			continue
		}
		data, err := resourceFS.ReadFile("resources/" + r.file)
		if err != nil {
			return nil, fmt.Errorf("read resource %s: %w", uri, err)
		}
		return resourceResult(uri, r.mimeType, stamp(string(data), r.mimeType, ts)), nil
	}

	if username, ok := strings.CutPrefix(uri, userResourcePrefix); ok && username != "" {
		return resourceResult(uri, mimeJSON, s.userProfileDocument(ctx, username, ts)), nil
	}

	return nil, fmt.Errorf("Unknown resource: %s", uri)
}

func (s *Server) userProfileDocument(ctx context.Context, username, ts string) string {
	failure := func(msg string) string {
		return indent(map[string]any{
			"error":     "Failed to fetch user data: " + msg,
			"username":  username,
			"timestamp": ts,
		})
	}
	if s.twitter == nil {
		return failure("Twitter API credentials are not configured")
	}

	user, err := s.twitter.UserByUsername(ctx, username, twitter.Fields{
		User: []string{"description", "public_metrics", "profile_image_url", "verified", "created_at"},
	})
	if err != nil {
		return failure(err.Error())
	}
	return indent(map[string]any{
		"user":        user,
		"lastUpdated": ts,
		"source":      "Twitter API v2",
	})
}

func resourceResult(uri, mimeType, text string) *gomcp.ReadResourceResult {
	return &gomcp.ReadResourceResult{
		Contents: []*gomcp.ResourceContents{{URI: uri, MIMEType: mimeType, Text: text}},
	}
}

func (s *Server) registerResources() {
	read := func(ctx context.Context, req *gomcp.ReadResourceRequest) (*gomcp.ReadResourceResult, error) {
		return s.ReadResource(ctx, req.Params.URI)
	}

	for _, r := range staticResources {
		s.mcp.AddResource(&gomcp.Resource{
			URI:         r.uri,
			Name:        r.name,
			Description: r.description,
			MIMEType:    r.mimeType,
		}, read)
	}

	s.mcp.AddResourceTemplate(&gomcp.ResourceTemplate{
		URITemplate: userResourcePrefix + "{username}",
		Name:        "User Profile Data",
		Description: "Dynamic user profile information and recent activity",
		MIMEType:    mimeJSON,
	}, read)
}
