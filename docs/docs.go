// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "Registration data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/service.Session"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login user",
                "parameters": [
                    {"description": "Login credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Session"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/auth/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user's profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Update current user's profile",
                "parameters": [
                    {"description": "Changed fields", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Session"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/articles": {
            "get": {
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "List articles",
                "parameters": [
                    {"enum": ["upcoming", "in-progress", "completed", "archived"], "type": "string", "description": "Lifecycle status", "name": "status", "in": "query"},
                    {"type": "boolean", "description": "Publication flag", "name": "published", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Article"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "Create article",
                "parameters": [
                    {"description": "Article", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ArticleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Article"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/articles/cards": {
            "get": {
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "Article summaries for listing pages",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.ArticleCard"}}}
                }
            }
        },
        "/articles/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "Get article by id",
                "parameters": [{"type": "string", "description": "Article ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Article"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "Update article",
                "parameters": [
                    {"type": "string", "description": "Article ID", "name": "id", "in": "path", "required": true},
                    {"description": "Changed fields", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ArticleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Article"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["articles"],
                "summary": "Delete article",
                "parameters": [{"type": "string", "description": "Article ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Deleted"}}
                }
            }
        },
        "/partners": {
            "get": {
                "produces": ["application/json"],
                "tags": ["partners"],
                "summary": "List partners",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Partner"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["partners"],
                "summary": "Create partner",
                "parameters": [
                    {"description": "Partner", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.PartnerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Partner"}}
                }
            }
        },
        "/partners/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["partners"],
                "summary": "Get partner by id",
                "parameters": [{"type": "string", "description": "Partner ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Partner"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["partners"],
                "summary": "Update partner",
                "parameters": [
                    {"type": "string", "description": "Partner ID", "name": "id", "in": "path", "required": true},
                    {"description": "Changed fields", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.PartnerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Partner"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["partners"],
                "summary": "Delete partner",
                "parameters": [{"type": "string", "description": "Partner ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Deleted"}}
                }
            }
        },
        "/volunteers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["volunteers"],
                "summary": "List volunteers",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Volunteer"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["volunteers"],
                "summary": "Sign up as a volunteer",
                "parameters": [
                    {"description": "Volunteer", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.VolunteerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Volunteer"}}
                }
            }
        },
        "/volunteers/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["volunteers"],
                "summary": "Get volunteer by id",
                "parameters": [{"type": "string", "description": "Volunteer ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Volunteer"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["volunteers"],
                "summary": "Update volunteer",
                "parameters": [
                    {"type": "string", "description": "Volunteer ID", "name": "id", "in": "path", "required": true},
                    {"description": "Changed fields", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.VolunteerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Volunteer"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["volunteers"],
                "summary": "Delete volunteer",
                "parameters": [{"type": "string", "description": "Volunteer ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/enquiries": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["enquiries"],
                "summary": "List enquiries",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Enquiry"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["enquiries"],
                "summary": "Submit an enquiry",
                "parameters": [
                    {"description": "Enquiry", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.EnquiryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.SubmissionResponse"}}
                }
            }
        },
        "/enquiries/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["enquiries"],
                "summary": "Get enquiry by id",
                "parameters": [{"type": "string", "description": "Enquiry ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Enquiry"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["enquiries"],
                "summary": "Update or reply to an enquiry",
                "parameters": [
                    {"type": "string", "description": "Enquiry ID", "name": "id", "in": "path", "required": true},
                    {"description": "Changed fields", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.EnquiryUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Enquiry"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["enquiries"],
                "summary": "Delete enquiry",
                "parameters": [{"type": "string", "description": "Enquiry ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Deleted"}}
                }
            }
        },
        "/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.User"}}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get user by id",
                "parameters": [{"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.User"}}
                }
            }
        },
        "/users/{id}/role": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Change a user's role",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"description": "Role", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.RoleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.User"}}
                }
            }
        }
    },
    "definitions": {
        "errors.ErrorResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "code": {"type": "string"},
                "fields": {"type": "array", "items": {"type": "string"}},
                "stack": {"type": "string"}
            }
        },
        "handler.RegisterRequest": {
            "type": "object",
            "required": ["name", "email", "password"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "handler.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.ProfileRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.RoleRequest": {
            "type": "object",
            "required": ["role"],
            "properties": {
                "role": {"type": "string", "enum": ["standard", "administrator"]}
            }
        },
        "handler.ArticleRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "image": {"type": "string"},
                "published": {"type": "boolean"},
                "status": {"type": "string"},
                "background": {"type": "string"},
                "methodology": {"type": "string"},
                "results": {"type": "string"},
                "conclusions": {"type": "string"},
                "recommendations": {"type": "string"},
                "application": {"type": "string"},
                "contributors": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.PartnerRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "link": {"type": "string"},
                "logo": {"type": "string"}
            }
        },
        "handler.VolunteerRequest": {
            "type": "object",
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "handler.EnquiryRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.EnquiryUpdateRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "string", "enum": ["new", "read", "responded", "archived"]},
                "reply": {"type": "string"}
            }
        },
        "handler.SubmissionResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "status": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "model.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["standard", "administrator"]},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "model.Article": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "image": {"type": "string"},
                "author": {"type": "string"},
                "published": {"type": "boolean"},
                "status": {"type": "string", "enum": ["upcoming", "in-progress", "completed", "archived"]},
                "background": {"type": "string"},
                "methodology": {"type": "string"},
                "results": {"type": "string"},
                "conclusions": {"type": "string"},
                "recommendations": {"type": "string"},
                "application": {"type": "string"},
                "contributors": {"type": "array", "items": {"type": "string"}},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "model.ArticleCard": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "image": {"type": "string"},
                "contributors": {"type": "array", "items": {"type": "string"}},
                "status": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "model.Partner": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "logo": {"type": "string"},
                "description": {"type": "string"},
                "link": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "model.Volunteer": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "model.Enquiry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "string", "enum": ["new", "read", "responded", "archived"]},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "service.Session": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/model.User"}
            }
        },
        "service.Deleted": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "AgriDynamic Content API",
	Description:      "Articles, partners, volunteers and enquiries for the AgriDynamic site.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
