package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cogstack/cogstack-api/internal/models"
	"github.com/cogstack/cogstack-api/internal/services"
	apperrors "github.com/cogstack/cogstack-api/pkg/errors"
	"github.com/cogstack/cogstack-api/pkg/logger"
	"github.com/cogstack/cogstack-api/pkg/metrics"
	"go.uber.org/zap"
)

const (
	toolListLayers      = "list_stack_layers"
	toolGetLayer        = "get_stack_layer"
	toolValidateContact = "validate_contact"
)

// Server answers MCP requests with read-only tools over the stack catalog
// and the contact form rules. It never delivers a submission.
type Server struct {
	stackService   services.StackServiceInterface
	contactService services.ContactServiceInterface
	version        string
}

// NewServer creates a new MCP server
func NewServer(stackService services.StackServiceInterface, contactService services.ContactServiceInterface, version string) *Server {
	return &Server{
		stackService:   stackService,
		contactService: contactService,
		version:        version,
	}
}

// HandleRequest processes an MCP JSON-RPC request
func (s *Server) HandleRequest(ctx context.Context, req Request) Response {
	if req.JSONRPC != "2.0" {
		metrics.MCPErrors.WithLabelValues("invalid_request").Inc()
		return errorResponse(req.ID, InvalidRequest, "Invalid JSON-RPC version")
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolCall(ctx, req)
	default:
		metrics.MCPErrors.WithLabelValues("method_not_found").Inc()
		return errorResponse(req.ID, MethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}
}

func (s *Server) handleInitialize(req Request) Response {
	return Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: InitializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities:    Capabilities{Tools: map[string]any{}},
			ServerInfo:      ServerInfo{Name: "cogstack-mcp-server", Version: s.version},
		},
	}
}

func (s *Server) handleToolsList(req Request) Response {
	tools := []Tool{
		{
			Name:        toolListLayers,
			Description: "List the layers of the CogStack cognitive stack in display order, each with its technologies and description.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"active": {Type: "string", Description: "Optional layer id to mark as active"},
				},
			},
		},
		{
			Name:        toolGetLayer,
			Description: "Get a single stack layer by id.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"id": {Type: "string", Description: "Layer id, e.g. cognitive"},
				},
				Required: []string{"id"},
			},
		},
		{
			Name:        toolValidateContact,
			Description: "Check a contact form submission against the form rules without sending it. Returns per-field errors.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"name":    {Type: "string"},
					"email":   {Type: "string"},
					"company": {Type: "string"},
					"message": {Type: "string"},
					"field": {
						Type:        "string",
						Description: "Validate only this field",
						Enum:        []string{models.FieldName, models.FieldEmail, models.FieldCompany, models.FieldMessage},
					},
				},
			},
		},
	}

	return Response{JSONRPC: "2.0", ID: req.ID, Result: ToolsListResult{Tools: tools}}
}

func (s *Server) handleToolCall(ctx context.Context, req Request) Response {
	start := time.Now()

	var params ToolCallParams
	if err := decodeInto(req.Params, &params); err != nil {
		metrics.MCPErrors.WithLabelValues("invalid_params").Inc()
		return errorResponse(req.ID, InvalidParams, "Invalid params structure")
	}

	logger.Info("MCP tool call", zap.String("tool", params.Name))

	var result any
	var err error
	switch params.Name {
	case toolListLayers:
		var args ListLayersArgs
		if err = decodeInto(params.Arguments, &args); err == nil {
			result, err = s.stackService.GetLayers(ctx, args.Active)
		}
	case toolGetLayer:
		var args GetLayerArgs
		if err = decodeInto(params.Arguments, &args); err == nil {
			if args.ID == "" {
				err = apperrors.InvalidInputError("id", "id is required")
			} else {
				result, err = s.stackService.GetLayer(ctx, args.ID)
			}
		}
	case toolValidateContact:
		var args ValidateContactArgs
		if err = decodeInto(params.Arguments, &args); err == nil {
			result, err = s.contactService.ValidateContactForm(ctx, models.ContactSubmission{
				Name:    args.Name,
				Email:   args.Email,
				Company: args.Company,
				Message: args.Message,
			}, args.Field)
		}
	default:
		metrics.MCPErrors.WithLabelValues("tool_not_found").Inc()
		return errorResponse(req.ID, MethodNotFound, fmt.Sprintf("Tool not found: %s", params.Name))
	}
	metrics.MCPToolDuration.WithLabelValues(params.Name).Observe(metrics.MeasureDuration(start))

	if err != nil {
		code, errorType := InternalError, "internal_error"
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			code, errorType = NotFoundError, "not_found"
		case errors.Is(err, apperrors.ErrInvalidInput):
			code, errorType = InvalidParams, "invalid_params"
		}
		logger.Warn("MCP tool execution failed", zap.String("tool", params.Name), zap.Error(err))
		metrics.MCPToolInvocations.WithLabelValues(params.Name, "error").Inc()
		metrics.MCPErrors.WithLabelValues(errorType).Inc()
		return errorResponse(req.ID, code, err.Error())
	}

	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		metrics.MCPErrors.WithLabelValues("internal_error").Inc()
		return errorResponse(req.ID, InternalError, "failed to format result")
	}

	metrics.MCPToolInvocations.WithLabelValues(params.Name, "success").Inc()
	return Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  ToolCallResult{Content: []Content{{Type: "text", Text: string(text)}}},
	}
}

// decodeInto re-decodes a loosely typed JSON value into dst
func decodeInto(src, dst any) error {
	if src == nil {
		return nil
	}
	raw, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func errorResponse(id any, code int, message string) Response {
	return Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &RPCError{Code: code, Message: message},
	}
}
