// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
                "tags": ["auth"],
                "summary": "Register a new user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.tokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/auth/token": {
            "post": {
                "tags": ["auth"],
                "summary": "Get a token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.tokenRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.tokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/listings": {
            "get": {
                "tags": ["listings"],
                "summary": "List listings",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Case-insensitive title substring", "name": "title", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.listingsResponse"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["listings"],
                "summary": "Create a listing",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "name": "type", "in": "formData", "required": true},
                    {"type": "integer", "name": "price", "in": "formData", "required": true},
                    {"type": "string", "name": "description", "in": "formData"},
                    {"type": "string", "name": "location", "in": "formData", "required": true},
                    {"type": "file", "name": "photo", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.listingResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/listings/{id}": {
            "get": {
                "tags": ["listings"],
                "summary": "Get a listing",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.listingResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["listings"],
                "summary": "Update a listing",
                "consumes": ["application/json", "multipart/form-data"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "schema": {"$ref": "#/definitions/handler.updateListingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.listingResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["listings"],
                "summary": "Delete a listing",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.deletedListingResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/listings/{id}/book": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["bookings"],
                "summary": "Book a listing",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Booking"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["bookings"],
                "summary": "Cancel a booking",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.cancelledResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["users"],
                "summary": "List users",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.usersResponse"}}}
            },
            "post": {
                "tags": ["users"],
                "summary": "Create a user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.createdUserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/users/{username}": {
            "get": {
                "tags": ["users"],
                "summary": "Get a user",
                "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Update a user",
                "parameters": [
                    {"type": "string", "name": "username", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Delete a user",
                "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.deletedUserResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/users/{username}/inbox": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["messages"],
                "summary": "Inbox",
                "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messagesResponse"}}}
            }
        },
        "/users/{username}/sent": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["messages"],
                "summary": "Sent messages",
                "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messagesResponse"}}}
            }
        },
        "/messages": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["messages"],
                "summary": "Send a message",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.sendMessageRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/messages/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["messages"],
                "summary": "Get a message",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/photos/{id}": {
            "get": {
                "tags": ["photos"],
                "summary": "Get a photo",
                "produces": ["image/jpeg", "image/png"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}}
            }
        },
        "/health": {
            "get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        },
        "/health/ready": {
            "get": {"tags": ["health"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        }
    },
    "definitions": {
        "domain.Booking": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "listingId": {"type": "integer"}}
        },
        "domain.Listing": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "type": {"type": "string"},
                "photoUrl": {"type": "string"},
                "price": {"type": "integer"},
                "description": {"type": "string"},
                "location": {"type": "string"},
                "ownerUsername": {"type": "string"}
            }
        },
        "domain.Message": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "sender": {"type": "string"},
                "recipient": {"type": "string"},
                "body": {"type": "string"},
                "sentAt": {"type": "string", "format": "date-time"}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {"message": {"type": "string"}, "status": {"type": "integer"}}
                }
            }
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["username", "password", "firstName", "lastName", "email"],
            "properties": {
                "username": {"type": "string", "maxLength": 25},
                "password": {"type": "string", "minLength": 5, "maxLength": 72},
                "firstName": {"type": "string", "maxLength": 30},
                "lastName": {"type": "string", "maxLength": 30},
                "email": {"type": "string", "maxLength": 60}
            }
        },
        "handler.tokenRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.createdUserResponse": {
            "type": "object",
            "properties": {"user": {"$ref": "#/definitions/domain.User"}, "token": {"type": "string"}}
        },
        "handler.tokenResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}}
        },
        "handler.updateListingRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "type": {"type": "string"},
                "photoUrl": {"type": "string"},
                "price": {"type": "integer", "minimum": 0},
                "description": {"type": "string"},
                "location": {"type": "string"}
            }
        },
        "handler.updateUserRequest": {
            "type": "object",
            "properties": {"firstName": {"type": "string"}, "lastName": {"type": "string"}, "email": {"type": "string"}}
        },
        "handler.sendMessageRequest": {
            "type": "object",
            "required": ["recipient", "body"],
            "properties": {"recipient": {"type": "string"}, "body": {"type": "string"}}
        },
        "handler.listingResponse": {
            "type": "object",
            "properties": {"listing": {"$ref": "#/definitions/domain.Listing"}}
        },
        "handler.listingsResponse": {
            "type": "object",
            "properties": {"listings": {"type": "array", "items": {"$ref": "#/definitions/domain.Listing"}}}
        },
        "handler.userResponse": {
            "type": "object",
            "properties": {"user": {"$ref": "#/definitions/domain.User"}}
        },
        "handler.usersResponse": {
            "type": "object",
            "properties": {"users": {"type": "array", "items": {"$ref": "#/definitions/domain.User"}}}
        },
        "handler.messageResponse": {
            "type": "object",
            "properties": {"message": {"$ref": "#/definitions/domain.Message"}}
        },
        "handler.messagesResponse": {
            "type": "object",
            "properties": {"messages": {"type": "array", "items": {"$ref": "#/definitions/domain.Message"}}}
        },
        "handler.cancelledResponse": {
            "type": "object",
            "properties": {"cancelled": {"type": "integer"}}
        },
        "handler.deletedListingResponse": {
            "type": "object",
            "properties": {"deleted": {"type": "integer"}}
        },
        "handler.deletedUserResponse": {
            "type": "object",
            "properties": {"deleted": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the JWT.",
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "ShareBnB API",
	Description:      "Peer-to-peer space rental marketplace: listings, bookings and direct messages.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
