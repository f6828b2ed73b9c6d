package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/waitlist/pkg/record"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerJoinTool(srv, svc)
	registerListTool(srv, svc)
}

func registerJoinTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"join_waitlist",
		mcp.WithDescription("Add a person to the waitlist."),
		mcp.WithString("full_name",
			mcp.Required(),
			mcp.Description("Full name of the person joining."),
		),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("Email address to notify at launch."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			FullName string `json:"full_name"`
			Email    string `json:"email"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		res, err := svc.Join(ctx, args.FullName, args.Email)
		if err != nil {
			var verr *record.ValidationError
			if errors.As(err, &verr) {
				return mcp.NewToolResultError(verr.Error()), nil
			}
			return mcp.NewToolResultError(err.Error()), nil
		}
		if res.Status == "failed" {
			if res.Error != "" {
				return mcp.NewToolResultError(fmt.Sprintf("%s: %s", res.Message, res.Error)), nil
			}
			return mcp.NewToolResultError(res.Message), nil
		}
		return toJSONResult(res)
	})
}

func registerListTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_waitlist",
		mcp.WithDescription("List everyone on the waitlist."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		signups, err := svc.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(recordsPayload(svc, signups))
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
