// Package docs registers the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/server/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/series": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["series"], "summary": "List numbering series", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["series"], "summary": "Create a numbering series", "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid configuration"}, "403": {"description": "Admin role required"}}}
        },
        "/series/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["series"], "summary": "Get a numbering series", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Series not found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["series"], "summary": "Update a numbering series", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Series already issued numbers"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["series"], "summary": "Delete a numbering series", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/series/{id}/default": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["series"], "summary": "Make a series the default for its document type and branch", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Series is inactive"}}}
        },
        "/series/{id}/preview": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["series"], "summary": "Preview the next document number", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/series/{id}/history": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["series"], "summary": "List numbers issued by a series", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "integer", "name": "offset", "in": "query"}, {"type": "integer", "name": "limit", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/series/{id}/history/export": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["series"], "summary": "Export the issued numbers of a series", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "string", "name": "format", "in": "query"}], "responses": {"200": {"description": "File"}}}
        },
        "/documents": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "List documents", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Create a document", "responses": {"201": {"description": "Created"}, "404": {"description": "No numbering series"}, "409": {"description": "Series inactive or exhausted"}, "422": {"description": "Number violates compliance rules"}}}
        },
        "/documents/totals": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Compute document totals", "responses": {"200": {"description": "OK"}}}
        },
        "/documents/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Get a document", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Document not found"}}}
        },
        "/documents/{id}/items": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Replace the line items of a draft", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Document is not a draft"}}}
        },
        "/documents/{id}/entries": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Replace the ledger entries of a draft", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Document is not a draft"}}}
        },
        "/documents/{id}/number": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Allocate a number for an unnumbered draft", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/documents/{id}/post": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Post a document", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "422": {"description": "Unbalanced or unnumbered"}}}
        },
        "/documents/{id}/cancel": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Cancel a draft", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Invalid status transition"}}}
        },
        "/allocations": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["allocations"], "summary": "Allocate the next document number", "responses": {"201": {"description": "Created"}}}
        },
        "/jurisdictions": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["jurisdictions"], "summary": "List taxing regions", "responses": {"200": {"description": "OK"}}}
        },
        "/jurisdictions/reload": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["jurisdictions"], "summary": "Rebuild the jurisdiction alias table after the directory changes", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Khata API",
	Description:      "Voucher numbering and tax split engine.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
