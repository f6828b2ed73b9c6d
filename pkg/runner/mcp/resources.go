package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const recordsURI = "waitlist://records"

func registerResources(srv *server.MCPServer, svc *Service) {
	registerRecordsResource(srv, svc)
}

func registerRecordsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		recordsURI,
		"Waitlist",
		mcp.WithResourceDescription("Every signup on the waitlist with a count."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		signups, err := svc.List(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, recordsPayload(svc, signups))
	})
}

func recordsPayload(svc *Service, signups []SignupDTO) map[string]any {
	return map[string]any{
		"collection": svc.Collection,
		"signups":    signups,
		"count":      len(signups),
	}
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
