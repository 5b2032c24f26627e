// Package docs registers the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o cmd/api/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/evaluate-answer": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ai"],
                "summary": "Judge a short answer",
                "parameters": [
                    {"description": "Answer pair", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.EvaluateAnswerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.EvaluateAnswerResponse"}},
                    "405": {"description": "Method Not Allowed", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/generate-quiz": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ai"],
                "summary": "Generate quiz questions",
                "parameters": [
                    {"description": "Source and count", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.GenerateQuizRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.QuestionDraft"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "405": {"description": "Method Not Allowed", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/quizzes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["quizzes"],
                "summary": "List quizzes",
                "parameters": [
                    {"type": "string", "description": "Subject, or All", "name": "subject", "in": "query"},
                    {"type": "string", "description": "All, MCQ, Short Questions or Mixed", "name": "type", "in": "query"},
                    {"type": "string", "description": "Newest First, Oldest First or Most Popular", "name": "sort", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["authoring"],
                "summary": "Save a new quiz",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/quizzes/{id}": {
            "get": {"tags": ["quizzes"], "summary": "Get a quiz", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["authoring"], "summary": "Save changes to an owned quiz", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["authoring"], "summary": "Delete an owned quiz", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}}}
        },
        "/quizzes/{id}/draft": {
            "get": {"tags": ["authoring"], "summary": "Open a quiz for editing", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/quizzes/{id}/sessions": {
            "post": {"tags": ["sessions"], "summary": "Open a session for a quiz", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "404": {"description": "Not Found"}}}
        },
        "/subjects": {"get": {"tags": ["quizzes"], "summary": "List subjects", "responses": {"200": {"description": "OK"}}}},
        "/identity": {"get": {"tags": ["authoring"], "summary": "Creator identity", "responses": {"200": {"description": "OK"}}}},
        "/leaderboard": {"get": {"tags": ["leaderboard"], "summary": "Global leaderboard", "responses": {"200": {"description": "OK"}}}},
        "/drafts/operations": {"post": {"tags": ["authoring"], "summary": "Edit a draft", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/drafts/questions/generate": {"post": {"tags": ["authoring"], "summary": "Generate questions into a draft", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/sessions/{id}": {
            "get": {"tags": ["sessions"], "summary": "Current session state", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["sessions"], "summary": "Leave a session without scoring", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "409": {"description": "Conflict"}}}
        },
        "/sessions/{id}/start": {"post": {"tags": ["sessions"], "summary": "Enter the participant name and start", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/sessions/{id}/answers": {"post": {"tags": ["sessions"], "summary": "Answer the current question", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/sessions/{id}/submit": {"post": {"tags": ["sessions"], "summary": "Submit early", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/sessions/{id}/result": {"get": {"tags": ["sessions"], "summary": "Scored result of a finished session", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}}
    },
    "definitions": {
        "dto.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "dto.EvaluateAnswerRequest": {"type": "object", "properties": {"userAnswer": {"type": "string"}, "correctAnswer": {"type": "string"}}},
        "dto.EvaluateAnswerResponse": {"type": "object", "properties": {"isCorrect": {"type": "boolean"}}},
        "dto.SourceRequest": {"type": "object", "properties": {"base64Data": {"type": "string"}, "mimeType": {"type": "string"}, "text": {"type": "string"}}},
        "dto.GenerateQuizRequest": {"type": "object", "properties": {"source": {"$ref": "#/definitions/dto.SourceRequest"}, "numQuestions": {"type": "integer"}}},
        "domain.QuestionDraft": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["MCQ", "Short Answer"]},
                "text": {"type": "string"},
                "options": {"type": "array", "items": {"type": "string"}},
                "correctAnswerIndex": {"type": "integer"},
                "correctAnswer": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8090",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "QuizFlare API",
	Description:      "Quiz authoring, timed quiz sessions, AI-assisted grading and question generation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
