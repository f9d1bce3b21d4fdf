package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cogstack/cogstack-api/internal/mcp"
	"github.com/cogstack/cogstack-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMCPRouter() *gin.Engine {
	server := mcp.NewServer(services.NewStackService(), services.NewContactService(nil, nil, nil, nil, nil), "test")
	router := gin.New()
	router.POST("/mcp", NewMCPHandler(server).HandleMCP)
	return router
}

func postMCP(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestMCPHandler_ToolCall(t *testing.T) {
	w := postMCP(newMCPRouter(),
		`{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"get_stack_layer","arguments":{"id":"edge"}}}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		ID     int `json:"id"`
		Result struct {
			Content []mcp.Content `json:"content"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.ID)
	require.Len(t, resp.Result.Content, 1)
	assert.Contains(t, resp.Result.Content[0].Text, "Cloudflare")
}

func TestMCPHandler_ErrorStatuses(t *testing.T) {
	router := newMCPRouter()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed", `{"jsonrpc":`, http.StatusBadRequest},
		{"unknown method", `{"jsonrpc":"2.0","id":1,"method":"prompts/list"}`, http.StatusBadRequest},
		{"unknown layer", `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_stack_layer","arguments":{"id":"nope"}}}`, http.StatusNotFound},
		{"notification", `{"jsonrpc":"2.0","method":"notifications/initialized"}`, http.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, postMCP(router, tt.body).Code)
		})
	}
}
