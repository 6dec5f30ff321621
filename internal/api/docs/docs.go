// Package docs registers the console's OpenAPI description with swag so that
// echo-swagger can serve it under /swagger/. Keep it in step with the
// @-annotations on the handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "paths": {
        "/login": {
            "get": {
                "tags": ["session"],
                "summary": "Login entry point",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Signed out", "schema": {"$ref": "#/definitions/loginPage"}},
                    "303": {"description": "Already signed in; see /dashboard"},
                    "503": {"description": "Session still initializing", "schema": {"$ref": "#/definitions/loading"}}
                }
            },
            "post": {
                "tags": ["session"],
                "summary": "Sign in",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/loginRequest"}}],
                "responses": {
                    "200": {"description": "Signed in", "schema": {"$ref": "#/definitions/loginResponse"}},
                    "400": {"description": "Missing fields", "schema": {"$ref": "#/definitions/error"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/error"}},
                    "502": {"description": "Remote API failure", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/logout": {
            "post": {
                "tags": ["session"],
                "summary": "Sign out",
                "responses": {"303": {"description": "See /login"}}
            }
        },
        "/session": {
            "get": {
                "tags": ["session"],
                "summary": "Session status",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/session"}}}
            }
        },
        "/session/refresh": {
            "post": {
                "tags": ["session"],
                "summary": "Refresh session token",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Token replaced", "schema": {"$ref": "#/definitions/session"}},
                    "303": {"description": "Signed out; see /login"},
                    "401": {"description": "Token rejected, session ended", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/account/password": {
            "post": {
                "tags": ["session"],
                "summary": "Change own password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/changePasswordRequest"}}],
                "responses": {
                    "200": {"description": "Changed", "schema": {"$ref": "#/definitions/message"}},
                    "400": {"description": "Invalid input or wrong current password", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/password/forgot": {
            "post": {
                "tags": ["password"],
                "summary": "Request password reset",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/forgotPasswordRequest"}}],
                "responses": {
                    "200": {"description": "Accepted", "schema": {"$ref": "#/definitions/message"}},
                    "400": {"description": "Invalid email", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/password/reset": {
            "post": {
                "tags": ["password"],
                "summary": "Reset password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/completeResetRequest"}}],
                "responses": {
                    "200": {"description": "Reset", "schema": {"$ref": "#/definitions/message"}},
                    "400": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["customers"],
                "summary": "Dashboard",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK"},
                    "303": {"description": "Not signed in; see /login"},
                    "503": {"description": "Session still initializing", "schema": {"$ref": "#/definitions/loading"}}
                }
            }
        },
        "/customers": {
            "get": {
                "tags": ["customers"],
                "summary": "List customers",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "limit", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["customers"],
                "summary": "Create a customer",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/customerInput"}}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/customers/{id}": {
            "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
            "get": {"tags": ["customers"], "summary": "Get a customer", "responses": {"200": {"description": "OK"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/error"}}}},
            "put": {
                "tags": ["customers"],
                "summary": "Update a customer",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/customerInput"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/error"}}}
            },
            "delete": {"tags": ["customers"], "summary": "Delete a customer", "responses": {"204": {"description": "Deleted"}}}
        },
        "/users": {
            "get": {
                "tags": ["users"],
                "summary": "List users (admin)",
                "parameters": [
                    {"in": "query", "name": "role", "type": "string", "enum": ["admin", "viewer"]},
                    {"in": "query", "name": "isActive", "type": "boolean"},
                    {"in": "query", "name": "search", "type": "string"},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "limit", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Not an admin", "schema": {"$ref": "#/definitions/error"}}}
            },
            "post": {"tags": ["users"], "summary": "Create a user (admin)", "responses": {"201": {"description": "Created"}}}
        },
        "/users/{id}": {
            "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
            "get": {"tags": ["users"], "summary": "Get a user (admin)", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["users"], "summary": "Update a user (admin)", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["users"], "summary": "Delete a user (admin)", "responses": {"200": {"description": "Deleted"}, "400": {"description": "Own account", "schema": {"$ref": "#/definitions/error"}}}}
        },
        "/users/{id}/status": {
            "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
            "patch": {"tags": ["users"], "summary": "Activate or deactivate a user (admin)", "responses": {"200": {"description": "OK"}}}
        },
        "/users/{id}/reset-password": {
            "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
            "post": {"tags": ["users"], "summary": "Reset a user's password (admin)", "responses": {"200": {"description": "OK"}}}
        },
        "/users/{id}/activity": {
            "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
            "get": {"tags": ["users"], "summary": "User activity log (admin)", "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "error": {"type": "object", "properties": {"error": {"type": "string"}}},
        "message": {"type": "object", "properties": {"message": {"type": "string"}}},
        "changePasswordRequest": {
            "type": "object",
            "required": ["oldPassword", "newPassword"],
            "properties": {"oldPassword": {"type": "string"}, "newPassword": {"type": "string", "minLength": 8}}
        },
        "forgotPasswordRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {"email": {"type": "string", "format": "email"}}
        },
        "completeResetRequest": {
            "type": "object",
            "required": ["token", "newPassword"],
            "properties": {"token": {"type": "string"}, "newPassword": {"type": "string", "minLength": 8}}
        },
        "loading": {"type": "object", "properties": {"state": {"type": "string", "example": "loading"}}},
        "loginPage": {"type": "object", "properties": {"authenticated": {"type": "boolean"}, "message": {"type": "string"}}},
        "loginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "loginResponse": {"type": "object", "properties": {"user": {"$ref": "#/definitions/identity"}, "redirect": {"type": "string"}}},
        "identity": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "viewer"]},
                "email": {"type": "string"}
            }
        },
        "session": {
            "type": "object",
            "properties": {
                "authenticated": {"type": "boolean"},
                "initializing": {"type": "boolean"},
                "verified": {"type": "boolean"},
                "user": {"$ref": "#/definitions/identity"}
            }
        },
        "customerInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "company": {"type": "string"},
                "address": {"type": "string"},
                "notes": {"type": "string"},
                "status": {"type": "string", "enum": ["active", "inactive", "prospect"]}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Admin Console",
	Description:      "Operator console over the remote customer and user API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
