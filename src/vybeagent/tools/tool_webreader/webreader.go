package tool_webreader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/vybelabs/vybe/src/agent"
	"github.com/vybelabs/vybe/src/vybeagent/toolsutil"
)

// Tool name constant
const Name = "readWebPage"

const webReaderPrompt = `Convert any web page into a clean, readable text format that can be easily understood by AI models. Returns markdown for HTML pages and raw text otherwise.`

const maxResponseSize = 5 * 1024 * 1024

// WebReaderInput represents the parameters for readWebPage
type WebReaderInput struct {
	URL string `json:"url" required:"true" description:"The URL of the web page to read and convert to text"`
}

// WebReaderOutput represents the response from readWebPage
type WebReaderOutput struct {
	Content string `json:"content" description:"The page content as readable text"`
	URL     string `json:"url" description:"The final URL after any redirects"`
}

// Config holds the tool's dependencies.
type Config struct {
	HTTPClient *http.Client
}

// Tool returns the readWebPage tool definition.
func Tool(cfg Config) (agent.Tool, error) {
	return agent.NewGenericTool(Name, webReaderPrompt, func(ctx context.Context, input WebReaderInput) (WebReaderOutput, error) {
		if !strings.HasPrefix(input.URL, "http://") && !strings.HasPrefix(input.URL, "https://") {
			return WebReaderOutput{}, fmt.Errorf("URL must start with http:// or https://")
		}

		client := cfg.HTTPClient
		if client == nil {
			client = toolsutil.DefaultHTTPClient
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, input.URL, nil)
		if err != nil {
			return WebReaderOutput{}, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

		resp, err := client.Do(req)
		if err != nil {
			return WebReaderOutput{}, fmt.Errorf("failed to read web page: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return WebReaderOutput{}, fmt.Errorf("failed to read web page: status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return WebReaderOutput{}, fmt.Errorf("failed to read response: %w", err)
		}

		content := string(body)
		if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
			markdown, err := htmlToMarkdown(content)
			if err != nil {
				toolsutil.GetLogger().Warn("failed to convert page to markdown, extracting text", "error", err)
				if text, textErr := extractText(content); textErr == nil {
					content = text
				}
			} else {
				content = markdown
			}
		}

		return WebReaderOutput{
			Content: content,
			URL:     resp.Request.URL.String(),
		}, nil
	})
}

// htmlToMarkdown converts an HTML document to markdown.
func htmlToMarkdown(html string) (string, error) {
	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(html)
	if err != nil {
		return "", err
	}
	markdown = strings.TrimSpace(markdown)
	return strings.ReplaceAll(markdown, "\n\n\n", "\n\n"), nil
}

// extractText pulls the visible text out of an HTML document.
func extractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	doc.Find("script, style").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	var cleaned []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, "\n"), nil
}
