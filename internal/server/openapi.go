//-------------------------------------------------------------------------
//
// TourChat Server
//
// Copyright (c) 2025 - 2026, the TourChat authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package server

import (
	"net/http"
)

// OpenAPISpec represents the OpenAPI v3 specification.
type OpenAPISpec struct {
	OpenAPI    string                 `json:"openapi"`
	Info       OpenAPIInfo            `json:"info"`
	Servers    []OpenAPIServer        `json:"servers"`
	Paths      map[string]OpenAPIPath `json:"paths"`
	Components OpenAPIComponents      `json:"components"`
}

// OpenAPIInfo contains API metadata.
type OpenAPIInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// OpenAPIServer describes a server.
type OpenAPIServer struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// OpenAPIPath contains operations for a path.
type OpenAPIPath struct {
	Get  *OpenAPIOperation `json:"get,omitempty"`
	Post *OpenAPIOperation `json:"post,omitempty"`
}

// OpenAPIOperation describes an API operation.
type OpenAPIOperation struct {
	Summary     string                     `json:"summary"`
	Description string                     `json:"description,omitempty"`
	OperationID string                     `json:"operationId"`
	Tags        []string                   `json:"tags,omitempty"`
	Parameters  []OpenAPIParameter         `json:"parameters,omitempty"`
	RequestBody *OpenAPIRequestBody        `json:"requestBody,omitempty"`
	Responses   map[string]OpenAPIResponse `json:"responses"`
}

// OpenAPIParameter describes a parameter.
type OpenAPIParameter struct {
	Name        string        `json:"name"`
	In          string        `json:"in"`
	Description string        `json:"description,omitempty"`
	Required    bool          `json:"required"`
	Schema      OpenAPISchema `json:"schema"`
}

// OpenAPIRequestBody describes a request body.
type OpenAPIRequestBody struct {
	Description string                      `json:"description,omitempty"`
	Required    bool                        `json:"required"`
	Content     map[string]OpenAPIMediaType `json:"content"`
}

// OpenAPIResponse describes a response.
type OpenAPIResponse struct {
	Description string                      `json:"description"`
	Content     map[string]OpenAPIMediaType `json:"content,omitempty"`
}

// OpenAPIMediaType describes a media type.
type OpenAPIMediaType struct {
	Schema OpenAPISchema `json:"schema"`
}

// OpenAPISchema describes a schema.
type OpenAPISchema struct {
	Type        string                   `json:"type,omitempty"`
	Format      string                   `json:"format,omitempty"`
	Description string                   `json:"description,omitempty"`
	Properties  map[string]OpenAPISchema `json:"properties,omitempty"`
	Items       *OpenAPISchema           `json:"items,omitempty"`
	Required    []string                 `json:"required,omitempty"`
	Ref         string                   `json:"$ref,omitempty"`
}

// OpenAPIComponents contains reusable components.
type OpenAPIComponents struct {
	Schemas map[string]OpenAPISchema `json:"schemas"`
}

// handleOpenAPI handles the GET /v1/openapi.json endpoint.
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	spec := BuildOpenAPISpec()
	s.respondJSON(w, http.StatusOK, spec)
}

// BuildOpenAPISpec constructs the OpenAPI v3 specification.
// This is exported so it can be used to generate static documentation.
func BuildOpenAPISpec() OpenAPISpec {
	sessionIDParam := OpenAPIParameter{
		Name:        "session_id",
		In:          "query",
		Description: "Chat session identifier",
		Required:    true,
		Schema:      OpenAPISchema{Type: "string"},
	}

	errorContent := map[string]OpenAPIMediaType{
		"application/json": {
			Schema: OpenAPISchema{Ref: "#/components/schemas/Error"},
		},
	}

	chatResponses := map[string]OpenAPIResponse{
		"200": {
			Description: "Generated answer with supporting tours",
			Content: map[string]OpenAPIMediaType{
				"application/json": {
					Schema: OpenAPISchema{Ref: "#/components/schemas/ChatResponse"},
				},
			},
		},
		"400": {Description: "Missing or invalid query", Content: errorContent},
		"500": {Description: "Pipeline execution failed", Content: errorContent},
	}

	return OpenAPISpec{
		OpenAPI: "3.0.3",
		Info: OpenAPIInfo{
			Title:       "TourChat Server API",
			Description: "REST API for the conversational travel tour assistant",
			Version:     "1.0.0",
		},
		Servers: []OpenAPIServer{
			{
				URL:         "/v1",
				Description: "API v1",
			},
		},
		Paths: map[string]OpenAPIPath{
			"/health": {
				Get: &OpenAPIOperation{
					Summary:     "Health check",
					Description: "Check if the server is running and healthy",
					OperationID: "getHealth",
					Tags:        []string{"System"},
					Responses: map[string]OpenAPIResponse{
						"200": {
							Description: "Server is healthy",
							Content: map[string]OpenAPIMediaType{
								"application/json": {
									Schema: OpenAPISchema{
										Type: "object",
										Properties: map[string]OpenAPISchema{
											"status": {Type: "string"},
										},
									},
								},
							},
						},
					},
				},
			},
			"/chat": {
				Get: &OpenAPIOperation{
					Summary:     "Chat with the tour assistant",
					Description: "Ask a question via URL parameters",
					OperationID: "getChat",
					Tags:        []string{"Chat"},
					Parameters: []OpenAPIParameter{
						{
							Name:        "query",
							In:          "query",
							Description: "The user's question",
							Required:    true,
							Schema:      OpenAPISchema{Type: "string"},
						},
						{
							Name:        "session_id",
							In:          "query",
							Description: "Chat session identifier; generated when omitted",
							Required:    false,
							Schema:      OpenAPISchema{Type: "string"},
						},
					},
					Responses: chatResponses,
				},
				Post: &OpenAPIOperation{
					Summary:     "Chat with the tour assistant",
					Description: "Ask a question via JSON body",
					OperationID: "postChat",
					Tags:        []string{"Chat"},
					RequestBody: &OpenAPIRequestBody{
						Required: true,
						Content: map[string]OpenAPIMediaType{
							"application/json": {
								Schema: OpenAPISchema{Ref: "#/components/schemas/ChatRequest"},
							},
						},
					},
					Responses: chatResponses,
				},
			},
			"/chat/history": {
				Get: &OpenAPIOperation{
					Summary:     "Get chat history",
					Description: "Return the transcript of a chat session",
					OperationID: "getChatHistory",
					Tags:        []string{"Chat"},
					Parameters:  []OpenAPIParameter{sessionIDParam},
					Responses: map[string]OpenAPIResponse{
						"200": {
							Description: "Session transcript, oldest turn first",
							Content: map[string]OpenAPIMediaType{
								"application/json": {
									Schema: OpenAPISchema{Ref: "#/components/schemas/HistoryResponse"},
								},
							},
						},
						"400": {Description: "Missing session_id", Content: errorContent},
					},
				},
			},
			"/chat/clear": {
				Post: &OpenAPIOperation{
					Summary:     "Clear chat history",
					Description: "Delete the transcript of a chat session",
					OperationID: "postChatClear",
					Tags:        []string{"Chat"},
					RequestBody: &OpenAPIRequestBody{
						Required: true,
						Content: map[string]OpenAPIMediaType{
							"application/json": {
								Schema: OpenAPISchema{
									Type: "object",
									Properties: map[string]OpenAPISchema{
										"session_id": {Type: "string"},
									},
									Required: []string{"session_id"},
								},
							},
						},
					},
					Responses: map[string]OpenAPIResponse{
						"200": {
							Description: "Session cleared",
							Content: map[string]OpenAPIMediaType{
								"application/json": {
									Schema: OpenAPISchema{
										Type: "object",
										Properties: map[string]OpenAPISchema{
											"session_id": {Type: "string"},
											"cleared":    {Type: "boolean"},
										},
									},
								},
							},
						},
						"400": {Description: "Missing session_id", Content: errorContent},
						"404": {Description: "Session not found", Content: errorContent},
					},
				},
			},
		},
		Components: OpenAPIComponents{
			Schemas: map[string]OpenAPISchema{
				"ChatRequest": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"query":      {Type: "string", Description: "The user's question"},
						"session_id": {Type: "string", Description: "Session identifier; generated when omitted"},
					},
					Required: []string{"query"},
				},
				"ChatResponse": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"query":           {Type: "string"},
						"rewritten_query": {Type: "string"},
						"answer":          {Type: "string"},
						"session_id":      {Type: "string"},
						"tours": {
							Type:  "array",
							Items: &OpenAPISchema{Ref: "#/components/schemas/Tour"},
						},
					},
				},
				"HistoryResponse": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"session_id": {Type: "string"},
						"history": {
							Type:  "array",
							Items: &OpenAPISchema{Ref: "#/components/schemas/Turn"},
						},
					},
				},
				"Turn": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"role": {Type: "string", Description: "user or assistant"},
						"text": {Type: "string"},
					},
				},
				"Tour": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"name":     {Type: "string"},
						"location": {Type: "string"},
						"time":     {Type: "string"},
						"price":    {Type: "integer"},
						"guest":    {Type: "integer"},
						"schedule": {Type: "string"},
						"service": {
							Type:  "array",
							Items: &OpenAPISchema{Type: "string"},
						},
						"images": {
							Type:  "array",
							Items: &OpenAPISchema{Type: "string"},
						},
						"score": {Type: "number", Format: "double"},
					},
				},
				"Error": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"error": {
							Type: "object",
							Properties: map[string]OpenAPISchema{
								"code":    {Type: "string"},
								"message": {Type: "string"},
							},
						},
					},
				},
			},
		},
	}
}
