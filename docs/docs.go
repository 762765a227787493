// Package docs registers the OpenAPI description served under /swagger/.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/signup": {
            "post": {
                "tags": ["auth"], "summary": "Register a donor",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/SignupRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/AuthResponse"}}, "400": {"description": "Missing fields"}, "409": {"description": "User already exists"}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"], "summary": "Log in",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthResponse"}}, "400": {"description": "Missing fields"}, "401": {"description": "Invalid credentials"}}
            }
        },
        "/auth/admin/signup": {
            "post": {
                "tags": ["auth"], "summary": "Register an admin with the registration code",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/SignupRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Missing fields"}, "403": {"description": "Invalid admin code"}, "409": {"description": "User already exists"}}
            }
        },
        "/auth/admin/login": {
            "post": {
                "tags": ["auth"], "summary": "Log in as admin",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}, "403": {"description": "Not an admin"}}
            }
        },
        "/projects": {
            "get": {"tags": ["projects"], "summary": "List projects", "responses": {"200": {"description": "OK"}}},
            "post": {
                "tags": ["projects"], "summary": "Create a project", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateProjectRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid input"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
            }
        },
        "/projects/{id}": {
            "get": {
                "tags": ["projects"], "summary": "Get a project",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Project not found"}}
            },
            "put": {
                "tags": ["projects"], "summary": "Patch a project", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "integer"}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProjectRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "No updates provided"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}, "404": {"description": "Project not found"}}
            },
            "delete": {
                "tags": ["projects"], "summary": "Delete a project and its donations", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}, "404": {"description": "Project not found"}}
            }
        },
        "/donations/history": {
            "get": {
                "tags": ["donations"], "summary": "Donation history of the caller, newest first", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}, "404": {"description": "No donations found"}}
            }
        },
        "/donations/make-donation": {
            "post": {
                "tags": ["donations"], "summary": "Donate to an active project", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/MakeDonationRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid amount or inactive project"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}, "404": {"description": "Project not found"}}
            }
        }
    },
    "definitions": {
        "SignupRequest": {"type": "object", "required": ["name", "email", "password"], "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}, "adminCode": {"type": "string"}}},
        "LoginRequest": {"type": "object", "required": ["email", "password"], "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "AuthResponse": {"type": "object", "properties": {"message": {"type": "string"}, "token": {"type": "string"}, "user": {"type": "object"}}},
        "CreateProjectRequest": {"type": "object", "required": ["name", "goalAmount"], "properties": {"name": {"type": "string"}, "description": {"type": "string"}, "goalAmount": {"type": "number"}}},
        "UpdateProjectRequest": {"type": "object", "properties": {"name": {"type": "string"}, "description": {"type": "string"}, "goalAmount": {"type": "number"}, "status": {"type": "string", "enum": ["active", "completed", "cancelled"]}}},
        "MakeDonationRequest": {"type": "object", "required": ["projectId", "amount", "paymentMethod"], "properties": {"projectId": {"type": "integer"}, "amount": {"type": "number"}, "paymentMethod": {"type": "string"}, "notes": {"type": "string"}}}
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Donation Management API",
	Description:      "Projects, donations and donor history for the donation management service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
