package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"axm-storefront/internal/cart"
	"axm-storefront/internal/checkout"
)

// jsonrpcRequest is a JSON-RPC 2.0 request structure for testing.
type jsonrpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// jsonrpcResponse is a JSON-RPC 2.0 response structure for testing.
type jsonrpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *jsonrpcError   `json:"error,omitempty"`
}

type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// toolCallParams represents the params for tools/call method.
type toolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// callToolResult is the expected result structure from a tool call.
type callToolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text,omitempty"`
	} `json:"content"`
	IsError bool `json:"isError,omitempty"`
}

// callTool invokes a tool over the streamable HTTP transport.
func callTool(t *testing.T, mux http.Handler, sessionID, name string, args any) callToolResult {
	t.Helper()

	raw, _ := json.Marshal(args)
	callReq := jsonrpcRequest{
		JSONRPC: "2.0",
		ID:      2,
		Method:  "tools/call",
		Params:  toolCallParams{Name: name, Arguments: raw},
	}

	body, _ := json.Marshal(callReq)
	httpReq := httptest.NewRequest("POST", "/mcp", bytes.NewReader(body))
	setMCPHeaders(httpReq, sessionID)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, httpReq)

	// MCP returns 200 OK even for tool errors, error is in the result
	if w.Code != http.StatusOK {
		t.Fatalf("%s: Status = %d, want %d\nBody: %s", name, w.Code, http.StatusOK, w.Body.String())
	}

	jsonData, err := parseSSEResponse(w.Body.String())
	if err != nil {
		t.Fatalf("Failed to parse SSE response: %v", err)
	}

	var resp jsonrpcResponse
	if err := json.Unmarshal(jsonData, &resp); err != nil {
		t.Fatalf("Failed to decode response: %v\nBody: %s", err, string(jsonData))
	}
	if resp.Error != nil {
		t.Fatalf("%s: unexpected JSON-RPC error: %+v", name, resp.Error)
	}

	var result callToolResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("Failed to parse tool result: %v", err)
	}
	return result
}

// decodeToolOutput unmarshals the JSON text content of a successful call.
func decodeToolOutput(t *testing.T, result callToolResult, v any) {
	t.Helper()
	if result.IsError {
		t.Fatalf("tool returned error: %+v", result.Content)
	}
	if len(result.Content) == 0 {
		t.Fatal("tool returned no content")
	}
	if err := json.Unmarshal([]byte(result.Content[0].Text), v); err != nil {
		t.Fatalf("decode tool output: %v\nText: %s", err, result.Content[0].Text)
	}
}

func TestMCPServerCreation(t *testing.T) {
	h, _ := testHandler(testProducts()...)

	if h.NewMCPServer() == nil {
		t.Fatal("NewMCPServer returned nil")
	}
	if h.NewMCPHandler() == nil {
		t.Fatal("NewMCPHandler returned nil")
	}
}

func TestMCPInitialize(t *testing.T) {
	_, mux := testHandler(testProducts()...)

	// MCP initialization request
	req := jsonrpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
		Params: map[string]interface{}{
			"protocolVersion": "2025-06-18",
			"clientInfo": map[string]string{
				"name":    "test-client",
				"version": "1.0.0",
			},
			"capabilities": map[string]interface{}{},
		},
	}

	body, _ := json.Marshal(req)
	httpReq := httptest.NewRequest("POST", "/mcp", bytes.NewReader(body))
	setMCPHeaders(httpReq, "")
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, httpReq)

	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d\nBody: %s", w.Code, http.StatusOK, w.Body.String())
	}

	jsonData, err := parseSSEResponse(w.Body.String())
	if err != nil {
		t.Fatalf("Failed to parse SSE response: %v", err)
	}

	var resp jsonrpcResponse
	if err := json.Unmarshal(jsonData, &resp); err != nil {
		t.Fatalf("Failed to decode response: %v\nBody: %s", err, string(jsonData))
	}
	if resp.Error != nil {
		t.Errorf("Unexpected error: %+v", resp.Error)
	}
	if !strings.Contains(string(resp.Result), "axm-storefront") {
		t.Errorf("Result = %s, want server name axm-storefront", resp.Result)
	}
}

func TestMCPToolsList(t *testing.T) {
	_, mux := testHandler(testProducts()...)
	sessionID := initMCPSession(t, mux)

	listReq := jsonrpcRequest{
		JSONRPC: "2.0",
		ID:      2,
		Method:  "tools/list",
	}

	listBody, _ := json.Marshal(listReq)
	listHttpReq := httptest.NewRequest("POST", "/mcp", bytes.NewReader(listBody))
	setMCPHeaders(listHttpReq, sessionID)
	listW := httptest.NewRecorder()

	mux.ServeHTTP(listW, listHttpReq)

	jsonData, err := parseSSEResponse(listW.Body.String())
	if err != nil {
		t.Fatalf("Failed to parse SSE response: %v", err)
	}

	var resp jsonrpcResponse
	if err := json.Unmarshal(jsonData, &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	var toolsResult struct {
		Tools []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"tools"`
	}
	if err := json.Unmarshal(resp.Result, &toolsResult); err != nil {
		t.Fatalf("Failed to parse tools result: %v", err)
	}

	expectedTools := map[string]bool{
		"list_products":    false,
		"get_product":      false,
		"list_categories":  false,
		"view_cart":        false,
		"add_to_cart":      false,
		"update_cart_item": false,
		"remove_cart_item": false,
		"replace_cart":     false,
		"clear_cart":       false,
		"checkout_links":   false,
	}

	for _, tool := range toolsResult.Tools {
		if _, ok := expectedTools[tool.Name]; ok {
			expectedTools[tool.Name] = true
		}
	}

	for name, found := range expectedTools {
		if !found {
			t.Errorf("Expected tool %q not found in tools list", name)
		}
	}
}

func TestMCPListProducts(t *testing.T) {
	_, mux := testHandler(testProducts()...)
	sessionID := initMCPSession(t, mux)

	var out ProductList
	result := callTool(t, mux, sessionID, "list_products", map[string]any{"category": "accessories"})
	decodeToolOutput(t, result, &out)

	if out.Count != 1 || out.Products[0].ID != "3" {
		t.Errorf("Products = %+v, want only the snapback", out.Products)
	}

	result = callTool(t, mux, sessionID, "list_products", map[string]any{"max_price": "free"})
	if !result.IsError {
		t.Error("expected error for invalid max_price")
	}
}

func TestMCPGetProduct(t *testing.T) {
	_, mux := testHandler(testProducts()...)
	sessionID := initMCPSession(t, mux)

	result := callTool(t, mux, sessionID, "get_product", map[string]any{"id": "snapback"})
	var p struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	decodeToolOutput(t, result, &p)
	if p.ID != "3" {
		t.Errorf("ID = %q, want 3", p.ID)
	}

	result = callTool(t, mux, sessionID, "get_product", map[string]any{"id": "nonexistent"})
	if !result.IsError {
		t.Fatal("expected error result for missing product")
	}
	if len(result.Content) == 0 || !strings.Contains(result.Content[0].Text, "NOT_FOUND") {
		t.Errorf("Content = %+v, want NOT_FOUND", result.Content)
	}
}

func TestMCPCartTools(t *testing.T) {
	_, mux := testHandler(testProducts()...)
	sessionID := initMCPSession(t, mux)
	session := "agent-1"

	var view cart.View
	decodeToolOutput(t, callTool(t, mux, sessionID, "add_to_cart", map[string]any{
		"session": session, "product_id": "1", "size": "M", "color": "Black", "quantity": 2,
	}), &view)
	if len(view.Items) != 1 || view.Items[0].Quantity != 2 {
		t.Fatalf("after add: %+v", view.Items)
	}
	line := view.Items[0].ID

	decodeToolOutput(t, callTool(t, mux, sessionID, "update_cart_item", map[string]any{
		"session": session, "line_id": line, "quantity": 4,
	}), &view)
	if view.Items[0].Quantity != 4 || view.Totals.Subtotal != 34000 {
		t.Errorf("after update: %+v", view)
	}

	// the default cart is a different cart
	decodeToolOutput(t, callTool(t, mux, sessionID, "view_cart", map[string]any{}), &view)
	if len(view.Items) != 0 {
		t.Errorf("default cart = %+v, want empty", view.Items)
	}

	decodeToolOutput(t, callTool(t, mux, sessionID, "remove_cart_item", map[string]any{
		"session": session, "line_id": line,
	}), &view)
	if len(view.Items) != 0 {
		t.Errorf("after remove: %+v", view.Items)
	}

	decodeToolOutput(t, callTool(t, mux, sessionID, "add_to_cart", map[string]any{
		"session": session, "product_id": "2",
	}), &view)
	decodeToolOutput(t, callTool(t, mux, sessionID, "clear_cart", map[string]any{"session": session}), &view)
	if len(view.Items) != 0 {
		t.Errorf("after clear: %+v", view.Items)
	}
}

func TestMCPReplaceCart(t *testing.T) {
	_, mux := testHandler(testProducts()...)
	sessionID := initMCPSession(t, mux)

	callTool(t, mux, sessionID, "add_to_cart", map[string]any{"product_id": "2"})

	var view cart.View
	decodeToolOutput(t, callTool(t, mux, sessionID, "replace_cart", map[string]any{
		"items": []map[string]any{
			{"product_id": "3", "quantity": 2},
			{"product_id": "1", "size": "M", "color": "White"},
		},
	}), &view)

	if len(view.Items) != 2 || view.Items[0].ID != "3-default-default" || view.Items[1].ID != "1-M-White" {
		t.Errorf("Items = %+v, want snapback then tee", view.Items)
	}
}

func TestMCPInvalidSession(t *testing.T) {
	_, mux := testHandler(testProducts()...)
	sessionID := initMCPSession(t, mux)

	result := callTool(t, mux, sessionID, "view_cart", map[string]any{"session": "no spaces"})
	if !result.IsError {
		t.Fatal("expected error for invalid session")
	}
	if !strings.Contains(result.Content[0].Text, "INVALID_SESSION") {
		t.Errorf("Content = %q, want INVALID_SESSION", result.Content[0].Text)
	}
}

func TestMCPCheckoutLinks(t *testing.T) {
	_, mux := testHandler(testProducts()...)
	sessionID := initMCPSession(t, mux)

	result := callTool(t, mux, sessionID, "checkout_links", map[string]any{})
	if !result.IsError {
		t.Error("expected error for empty cart")
	}

	callTool(t, mux, sessionID, "add_to_cart", map[string]any{"product_id": "2"})

	var links checkout.Links
	decodeToolOutput(t, callTool(t, mux, sessionID, "checkout_links", map[string]any{}), &links)
	if links.OrderID != "AXM-TEST" {
		t.Errorf("OrderID = %q, want AXM-TEST", links.OrderID)
	}
	// 150000 is over the free shipping threshold
	if links.Totals.Shipping != 0 || links.Totals.Total != 177000 {
		t.Errorf("Totals = %+v, want free shipping and total 177000", links.Totals)
	}
	if links.WhatsAppURL == "" || links.UPIURL == "" {
		t.Errorf("links = %+v, want both URLs", links)
	}
}

func TestMCPMissingRequiredField(t *testing.T) {
	_, mux := testHandler(testProducts()...)
	sessionID := initMCPSession(t, mux)

	// update_cart_item without line_id
	raw, _ := json.Marshal(map[string]any{"quantity": 1})
	callReq := jsonrpcRequest{
		JSONRPC: "2.0",
		ID:      2,
		Method:  "tools/call",
		Params:  toolCallParams{Name: "update_cart_item", Arguments: raw},
	}

	body, _ := json.Marshal(callReq)
	httpReq := httptest.NewRequest("POST", "/mcp", bytes.NewReader(body))
	setMCPHeaders(httpReq, sessionID)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, httpReq)

	// Should still return 200, with error in the result
	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d\nBody: %s", w.Code, http.StatusOK, w.Body.String())
	}
}

// setMCPHeaders sets the required headers for MCP Streamable HTTP requests.
func setMCPHeaders(req *http.Request, sessionID string) {
	req.Header.Set("Content-Type", "application/json")
	// MCP Streamable HTTP requires Accept header with both json and event-stream
	req.Header.Set("Accept", "application/json, text/event-stream")
	if sessionID != "" {
		req.Header.Set("Mcp-Session-Id", sessionID)
	}
}

// parseSSEResponse extracts JSON data from SSE formatted response.
// SSE format: "event: message\ndata: {json}\n\n"
func parseSSEResponse(body string) ([]byte, error) {
	lines := strings.Split(body, "\n")
	for _, line := range lines {
		if strings.HasPrefix(line, "data: ") {
			return []byte(strings.TrimPrefix(line, "data: ")), nil
		}
	}
	// If no SSE format found, assume plain JSON
	return []byte(body), nil
}

// initMCPSession initializes an MCP session and returns the session ID.
func initMCPSession(t *testing.T, mux http.Handler) string {
	t.Helper()

	initReq := jsonrpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
		Params: map[string]interface{}{
			"protocolVersion": "2025-06-18",
			"clientInfo":      map[string]string{"name": "test", "version": "1.0"},
			"capabilities":    map[string]interface{}{},
		},
	}

	body, _ := json.Marshal(initReq)
	httpReq := httptest.NewRequest("POST", "/mcp", bytes.NewReader(body))
	setMCPHeaders(httpReq, "")
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, httpReq)

	if w.Code != http.StatusOK {
		t.Fatalf("Failed to initialize MCP session: %s", w.Body.String())
	}

	return w.Header().Get("Mcp-Session-Id")
}
