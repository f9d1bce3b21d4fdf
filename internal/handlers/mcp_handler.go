package handlers

import (
	"net/http"
	"strings"

	"github.com/cogstack/cogstack-api/internal/mcp"
	"github.com/cogstack/cogstack-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MCPHandler exposes the MCP server over HTTP
type MCPHandler struct {
	server *mcp.Server
}

func NewMCPHandler(server *mcp.Server) *MCPHandler {
	return &MCPHandler{server: server}
}

// HandleMCP handles POST /api/v1/mcp
func (h *MCPHandler) HandleMCP(c *gin.Context) {
	var req mcp.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		attachError(c, err)
		c.JSON(http.StatusBadRequest, mcp.Response{
			JSONRPC: "2.0",
			Error:   &mcp.RPCError{Code: mcp.ParseError, Message: "Failed to parse JSON-RPC request"},
		})
		return
	}

	// Notifications carry no id and get no response body
	if req.ID == nil && strings.HasPrefix(req.Method, "notifications/") {
		c.Status(http.StatusAccepted)
		return
	}

	response := h.server.HandleRequest(c.Request.Context(), req)
	if response.Error == nil {
		c.JSON(http.StatusOK, response)
		return
	}

	status := http.StatusInternalServerError
	switch response.Error.Code {
	case mcp.NotFoundError:
		status = http.StatusNotFound
	case mcp.InvalidRequest, mcp.InvalidParams, mcp.MethodNotFound:
		status = http.StatusBadRequest
	}
	logger.Warn("MCP request error",
		zap.String("method", req.Method),
		zap.Int("error_code", response.Error.Code),
		zap.String("error_message", response.Error.Message),
		zap.String("request_id", c.GetString("request_id")),
	)
	c.JSON(status, response)
}
