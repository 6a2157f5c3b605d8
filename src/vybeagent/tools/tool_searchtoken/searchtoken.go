package tool_searchtoken

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vybelabs/vybe/src/agent"
	"github.com/vybelabs/vybe/src/vybeagent/toolsutil"
)

// Tool name constant
const Name = "searchToken"

const searchTokenPrompt = `Search for any Solana token by name or symbol to get its contract address (mint), along with detailed information like volume and logo. Useful for getting token addresses for further operations.`

const defaultBaseURL = "https://tokens.jup.ag"

// listCacheTTL matches the upstream verified-list refresh interval.
const listCacheTTL = 5 * time.Minute

// Token is one entry of the verified token list.
type Token struct {
	Address string  `json:"address"`
	Name    string  `json:"name"`
	Symbol  string  `json:"symbol"`
	LogoURI *string `json:"logoURI"`
}

// SearchTokenInput represents the parameters for searchToken
type SearchTokenInput struct {
	Query string `json:"query" required:"true" description:"Token name or symbol to search for"`
}

// SearchTokenOutput represents the response from searchToken
type SearchTokenOutput struct {
	Tokens []Token `json:"tokens" description:"Best matching tokens, exact matches first"`
}

// Config holds the tool's dependencies.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Tool returns the searchToken tool definition.
func Tool(cfg Config) (agent.Tool, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	lister := &tokenLister{cfg: cfg}
	return agent.NewGenericTool(Name, searchTokenPrompt, func(ctx context.Context, input SearchTokenInput) (SearchTokenOutput, error) {
		return lister.search(ctx, input)
	})
}

// tokenLister caches the verified token list between calls.
type tokenLister struct {
	cfg Config

	mu        sync.Mutex
	tokens    []Token
	fetchedAt time.Time
}

func (l *tokenLister) list(ctx context.Context) ([]Token, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.tokens != nil && time.Since(l.fetchedAt) < listCacheTTL {
		return l.tokens, nil
	}

	var tokens []Token
	url := l.cfg.BaseURL + "/tokens?tags=verified"
	if err := toolsutil.GetJSON(ctx, l.cfg.HTTPClient, url, &tokens); err != nil {
		return nil, fmt.Errorf("failed to fetch token list: %w", err)
	}

	l.tokens = tokens
	l.fetchedAt = time.Now()
	return tokens, nil
}

func (l *tokenLister) search(ctx context.Context, input SearchTokenInput) (SearchTokenOutput, error) {
	tokens, err := l.list(ctx)
	if err != nil {
		return SearchTokenOutput{}, err
	}

	query := strings.ToLower(input.Query)
	var matches []Token
	for _, token := range tokens {
		if strings.Contains(strings.ToLower(token.Name), query) ||
			strings.Contains(strings.ToLower(token.Symbol), query) ||
			strings.EqualFold(token.Address, input.Query) {
			matches = append(matches, token)
		}
	}

	// Exact symbol or name matches rank first.
	sort.SliceStable(matches, func(i, j int) bool {
		return isExactMatch(matches[i], query) && !isExactMatch(matches[j], query)
	})

	if len(matches) > 1 {
		matches = matches[:1]
	}
	return SearchTokenOutput{Tokens: matches}, nil
}

func isExactMatch(token Token, query string) bool {
	return strings.EqualFold(token.Symbol, query) || strings.EqualFold(token.Name, query)
}
