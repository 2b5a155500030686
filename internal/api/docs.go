// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package api

import "github.com/swaggo/swag"

// SwaggerInfo describes the API for the /swagger UI. The route list below is
// kept by hand next to NewRouter.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Reelpick API",
	Description:      "Two-phase movie recommendation: genetic search, then rerank with likes and dislikes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}",
        "license": {"name": "AGPL-3.0-or-later"}
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "consumes": ["application/json"],
    "produces": ["application/json"],
    "paths": {
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Service health, catalog size and progress breaker state",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/movies/{index}": {
            "get": {
                "tags": ["catalog"],
                "summary": "Decoded catalog movie",
                "parameters": [{"name": "index", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad index"}, "404": {"description": "No such movie"}}
            }
        },
        "/search": {
            "post": {
                "tags": ["search"],
                "summary": "Start a phase-one genetic search",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SearchRequest"}}],
                "responses": {"202": {"description": "Search started"}, "400": {"description": "Validation error"}, "409": {"description": "A search is already running"}}
            }
        },
        "/search/{id}": {
            "get": {
                "tags": ["search"],
                "summary": "Search state, progress and final population",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Unknown search"}}
            }
        },
        "/search/{id}/sample": {
            "get": {
                "tags": ["search"],
                "summary": "Movies of the best individual, offered for rating",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Unknown search"}, "409": {"description": "Search not finished"}}
            }
        },
        "/search/{id}/stream": {
            "get": {
                "tags": ["search"],
                "summary": "Websocket stream of per-generation progress",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"101": {"description": "Switching protocols"}, "404": {"description": "Unknown search"}}
            }
        },
        "/search/{id}/rerank": {
            "post": {
                "tags": ["search"],
                "summary": "Phase-two rerank with liked and disliked movies",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RerankRequest"}}
                ],
                "responses": {"200": {"description": "Recommendation"}, "400": {"description": "Validation error"}, "409": {"description": "Search not finished or failed"}}
            }
        },
        "/reports": {
            "get": {
                "tags": ["reports"],
                "summary": "Stored recommendations, newest first",
                "parameters": [{"name": "limit", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Report store disabled"}}
            }
        },
        "/reports/{id}": {
            "get": {
                "tags": ["reports"],
                "summary": "One stored recommendation",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Unknown report"}, "503": {"description": "Report store disabled"}}
            }
        },
        "/tuning": {
            "get": {
                "tags": ["reports"],
                "summary": "Stored tuning records",
                "parameters": [{"name": "sweep", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Report store disabled"}}
            }
        }
    },
    "definitions": {
        "SearchRequest": {
            "type": "object",
            "required": ["period_start", "period_end", "length", "genres"],
            "properties": {
                "period_start": {"type": "integer", "minimum": 0, "maximum": 9999},
                "period_end": {"type": "integer", "minimum": 0, "maximum": 9999},
                "length": {"type": "integer", "minimum": 40, "maximum": 240, "multipleOf": 5},
                "genres": {"type": "array", "items": {"type": "string"}},
                "search": {
                    "type": "object",
                    "properties": {
                        "pop_size": {"type": "integer"},
                        "genes": {"type": "integer"},
                        "cxpb": {"type": "number"},
                        "mutpb": {"type": "number"},
                        "min_iter": {"type": "integer"},
                        "max_iter": {"type": "integer"},
                        "seed": {"type": "integer"}
                    }
                }
            }
        },
        "RerankRequest": {
            "type": "object",
            "properties": {
                "like": {"type": "array", "items": {"type": "integer"}},
                "dislike": {"type": "array", "items": {"type": "integer"}}
            }
        }
    }
}`
