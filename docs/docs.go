// Package docs holds the generated swagger spec. Code generated by swag init; DO NOT EDIT.
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
        "/auth": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Log in",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/messages": {
            "get": {
                "produces": ["application/json"],
                "summary": "List messages, long-polling while empty",
                "parameters": [
                    {"type": "integer", "name": "from", "in": "query"},
                    {"type": "integer", "name": "chatroom", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/updates": {
            "get": {
                "produces": ["application/json"],
                "summary": "Long-poll the next updates for the current user",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "summary": "Discard pending updates",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/users": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Register a new user",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "ChaaAt API",
	Description:      "HTTP API for the ChaaAt chat backend: accounts, friendships, chatrooms, messages, and long-poll update notifications.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
