package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dunglas/httpsfv"
)

// ANSI color codes
var (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

func init() {
	if os.Getenv("NO_COLOR") != "" {
		colorReset, colorRed, colorGreen, colorYellow = "", "", "", ""
		colorCyan, colorGray, colorBold = "", "", ""
	}
}

// apiClient talks to the storefront REST API.
type apiClient struct {
	baseURL string
	session string
	http    *http.Client
	out     io.Writer
	quiet   bool
	verbose bool
}

func newAPIClient(baseURL, session string, timeout time.Duration, out io.Writer, quiet, verbose bool) *apiClient {
	return &apiClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		session: session,
		http:    &http.Client{Timeout: timeout},
		out:     out,
		quiet:   quiet,
		verbose: verbose,
	}
}

// sessionHeader renders the Storefront-Session dictionary for the cart id.
func sessionHeader(id string) (string, error) {
	dict := httpsfv.NewDictionary()
	dict.Add("cart", httpsfv.NewItem(id))
	return httpsfv.Marshal(dict)
}

// do sends a JSON request and decodes the response into v when non-nil.
func (c *apiClient) do(method, path string, body, v any) error {
	var reqBody io.Reader
	var reqJSON []byte

	if body != nil {
		var err error
		reqJSON, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(reqJSON)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != "" {
		header, err := sessionHeader(c.session)
		if err != nil {
			return fmt.Errorf("encoding session: %w", err)
		}
		req.Header.Set("Storefront-Session", header)
	}

	if c.verbose {
		c.printRequest(method, path, reqJSON)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if c.verbose {
		c.printResponse(resp.StatusCode, respBody, duration)
	}

	if resp.StatusCode >= 400 {
		return apiError(resp.StatusCode, respBody)
	}

	if v == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, v); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// apiError renders the server's error envelope.
func apiError(status int, body []byte) error {
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil || env.Error.Code == "" {
		return fmt.Errorf("HTTP %d: %s", status, strings.TrimSpace(string(body)))
	}
	return fmt.Errorf("HTTP %d %s: %s", status, env.Error.Code, env.Error.Message)
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

func (c *apiClient) printRequest(method, path string, body []byte) {
	fmt.Fprintf(c.out, "\n%s▶ REQUEST%s %s%s %s%s\n", colorYellow, colorReset, colorBold, method, path, colorReset)
	if body != nil {
		c.printJSON(body, "  ")
	}
}

func (c *apiClient) printResponse(status int, body []byte, duration time.Duration) {
	statusColor := colorGreen
	if status >= 400 {
		statusColor = colorRed
	}
	fmt.Fprintf(c.out, "\n%s◀ RESPONSE%s %s%d%s (%v)\n", colorCyan, colorReset, statusColor, status, colorReset, duration)
	c.printJSON(body, "  ")
}

func (c *apiClient) printJSON(data []byte, prefix string) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, prefix, "  "); err != nil {
		fmt.Fprintf(c.out, "%s%s\n", prefix, string(data))
		return
	}
	fmt.Fprintln(c.out, pretty.String())
}

func (c *apiClient) printSuccess(format string, args ...any) {
	if !c.quiet {
		fmt.Fprintf(c.out, "%s✓ %s%s\n", colorGreen, fmt.Sprintf(format, args...), colorReset)
	}
}

func (c *apiClient) printInfo(format string, args ...any) {
	if !c.quiet {
		fmt.Fprintf(c.out, "%s→ %s%s\n", colorGray, fmt.Sprintf(format, args...), colorReset)
	}
}
