// Package docs holds the OpenAPI document served under /swagger.
// Regenerate with `swag init -g cmd/server/main.go -o docs`.
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
        "/health": {
            "get": {
                "tags": ["ops"],
                "summary": "Liveness and storage health",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.HealthResponse"}},
                    "503": {"description": "Degraded", "schema": {"$ref": "#/definitions/types.HealthResponse"}}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["ops"],
                "summary": "Request and submission metrics",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/questions": {
            "get": {
                "tags": ["quiz"],
                "summary": "Question bank",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.QuestionsResponse"}}}
            }
        },
        "/api/v1/quiz/score": {
            "post": {
                "tags": ["quiz"],
                "summary": "Score answers without storing them",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/types.ScoreRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ScoreResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/v1/quiz/submissions": {
            "post": {
                "tags": ["quiz"],
                "summary": "Submit a completed quiz",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/types.SubmissionRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/survey.Result"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/v1/results/{id}": {
            "get": {
                "tags": ["quiz"],
                "summary": "Stored quiz result",
                "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/survey.Result"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/v1/privacy/policy": {
            "get": {
                "tags": ["privacy"],
                "summary": "Data retention policy",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/admin/login": {
            "post": {
                "tags": ["admin"],
                "summary": "Admin login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/types.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.LoginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/v1/admin/responses": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Stored responses, newest first",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "limit", "type": "integer"},
                    {"in": "query", "name": "offset", "type": "integer"},
                    {"in": "query", "name": "since", "type": "string"},
                    {"in": "query", "name": "type", "type": "string"},
                    {"in": "query", "name": "pattern", "type": "string", "enum": ["consistent", "inconsistent", "random"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ResponseList"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/v1/admin/responses/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "One stored response including raw answers",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Erase a stored response",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/admin/analytics/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Type distribution and reliability overview",
                "parameters": [{"in": "query", "name": "since", "type": "string"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/v1/admin/export.csv": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "CSV export of stored responses",
                "produces": ["text/csv"],
                "parameters": [
                    {"in": "query", "name": "since", "type": "string"},
                    {"in": "query", "name": "type", "type": "string"},
                    {"in": "query", "name": "pattern", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/admin/retention/purge": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Delete responses older than the retention window",
                "parameters": [{"in": "query", "name": "days", "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PurgeResponse"}}}
            }
        },
        "/api/v1/admin/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Operational counters for the dashboard",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        }
    },
    "definitions": {
        "types.AnswerInput": {
            "type": "object",
            "properties": {
                "questionId": {"type": "integer", "example": 3},
                "score": {"type": "integer", "minimum": 1, "maximum": 5, "example": 4},
                "timeSpent": {"type": "integer", "minimum": 0, "example": 4200}
            }
        },
        "types.ScoreRequest": {
            "type": "object",
            "required": ["answers"],
            "properties": {
                "answers": {"type": "array", "maxItems": 200, "minItems": 1, "items": {"$ref": "#/definitions/types.AnswerInput"}}
            }
        },
        "types.SubmissionRequest": {
            "type": "object",
            "required": ["answers"],
            "properties": {
                "answers": {"type": "array", "maxItems": 200, "minItems": 1, "items": {"$ref": "#/definitions/types.AnswerInput"}},
                "email": {"type": "string", "example": "parent@example.com"},
                "source": {"type": "string", "example": "facebook"}
            }
        },
        "scoring.ReliabilityReport": {
            "type": "object",
            "properties": {
                "score": {"type": "integer"},
                "pattern": {"type": "string", "enum": ["consistent", "inconsistent", "random"]},
                "details": {
                    "type": "object",
                    "properties": {
                        "reverseItemConsistency": {"type": "integer"},
                        "responseVariability": {"type": "integer"},
                        "speedConsistency": {"type": "integer"}
                    }
                }
            }
        },
        "types.ScoreResponse": {
            "type": "object",
            "properties": {
                "typeCode": {"type": "string", "example": "ASC"},
                "axisScores": {"type": "object", "additionalProperties": {"type": "integer"}},
                "droppedAnswers": {"type": "integer"},
                "reliability": {"$ref": "#/definitions/scoring.ReliabilityReport"}
            }
        },
        "survey.Result": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "typeCode": {"type": "string"},
                "axisScores": {"type": "object", "additionalProperties": {"type": "integer"}},
                "droppedAnswers": {"type": "integer"},
                "reliability": {"$ref": "#/definitions/scoring.ReliabilityReport"},
                "createdAt": {"type": "string"}
            }
        },
        "types.QuestionsResponse": {"type": "object"},
        "types.LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "types.LoginResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "expiresAt": {"type": "string"}}
        },
        "types.ResponseList": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"type": "object"}},
                "total": {"type": "integer"},
                "limit": {"type": "integer"},
                "offset": {"type": "integer"}
            }
        },
        "types.PurgeResponse": {
            "type": "object",
            "properties": {"deleted": {"type": "integer"}, "retentionDays": {"type": "integer"}}
        },
        "types.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "timestamp": {"type": "string"},
                "version": {"type": "string"},
                "bankSize": {"type": "integer"},
                "database": {"type": "object"},
                "rateLimit": {"type": "object"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"},
                "category": {"type": "string"},
                "http_status": {"type": "integer"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Family Travel Type Quiz API",
	Description:      "Scores the family travel type quiz and serves the admin dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
