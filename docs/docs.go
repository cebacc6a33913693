// Package docs registers the OpenAPI document served at /swagger/doc.json.
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
                "summary": "User Registration",
                "parameters": [
                    {
                        "description": "User registration details",
                        "name": "registerBody",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/auth.RegisterRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "User created", "schema": {"$ref": "#/definitions/auth.RegisterResponse"}},
                    "400": {"description": "Validation failure or credentials already in use", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "User Login",
                "parameters": [
                    {
                        "description": "User login credentials",
                        "name": "loginBody",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/auth.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Login successful", "schema": {"$ref": "#/definitions/auth.LoginResponse"}},
                    "400": {"description": "Missing fields", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Refresh Access Token",
                "responses": {
                    "200": {"description": "Token refreshed", "schema": {"$ref": "#/definitions/auth.RefreshResponse"}},
                    "401": {"description": "Missing or invalid refresh token", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "User Logout",
                "responses": {
                    "200": {"description": "Logged out", "schema": {"$ref": "#/definitions/auth.MessageResponse"}}
                }
            }
        },
        "/posts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "List posts",
                "responses": {
                    "200": {"description": "Posts", "schema": {"type": "array", "items": {"$ref": "#/definitions/posts.PostWithAuthor"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Create a post",
                "parameters": [
                    {
                        "description": "Post contents",
                        "name": "postBody",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/posts.CreatePostRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Post created", "schema": {"$ref": "#/definitions/posts.Post"}},
                    "400": {"description": "Validation failure", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "401": {"description": "Not authenticated", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/posts/{postID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Get a post",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "postID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Post", "schema": {"$ref": "#/definitions/posts.PostWithAuthor"}},
                    "400": {"description": "Invalid ID", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "404": {"description": "Post not found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Edit a post",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "postID", "in": "path", "required": true},
                    {
                        "description": "New body",
                        "name": "postBody",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/posts.EditPostRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Post updated", "schema": {"$ref": "#/definitions/posts.Post"}},
                    "403": {"description": "Not the author and not an admin", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "404": {"description": "Post not found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Delete a post",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "postID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Post deleted", "schema": {"$ref": "#/definitions/posts.Post"}},
                    "403": {"description": "Not the author and not an admin", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "404": {"description": "Post not found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/posts/author/{authorID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "List posts by author",
                "parameters": [
                    {"type": "integer", "description": "Author ID", "name": "authorID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Posts", "schema": {"type": "array", "items": {"$ref": "#/definitions/posts.PostWithAuthor"}}},
                    "404": {"description": "No posts found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/users": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update own account",
                "parameters": [
                    {
                        "description": "Fields to change",
                        "name": "userBody",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/users.UpdateUserRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Updated user", "schema": {"$ref": "#/definitions/users.UserEnvelope"}},
                    "400": {"description": "Validation failure or taken username/email", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "401": {"description": "Not authenticated", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Delete own account",
                "responses": {
                    "200": {"description": "Deleted user ID", "schema": {"$ref": "#/definitions/users.DeleteEnvelope"}},
                    "401": {"description": "Not authenticated", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "apperror.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "auth.RegisterRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string", "example": "newuser"},
                "email": {"type": "string", "example": "user@example.com"},
                "password": {"type": "string", "example": "strongpass1"}
            }
        },
        "auth.LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string", "example": "newuser"},
                "password": {"type": "string", "example": "strongpass1"}
            }
        },
        "auth.UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "auth.RegisterResponse": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/auth.UserResponse"}
            }
        },
        "auth.LoginResponse": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/auth.UserResponse"},
                "access_token": {"type": "string"}
            }
        },
        "auth.RefreshResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"}
            }
        },
        "auth.MessageResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "success"},
                "message": {"type": "string", "example": "Logged out successfully"}
            }
        },
        "posts.CreatePostRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string", "example": "Hello world"},
                "body": {"type": "string", "example": "First post."}
            }
        },
        "posts.EditPostRequest": {
            "type": "object",
            "properties": {
                "body": {"type": "string", "example": "Updated body."}
            }
        },
        "posts.Post": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "body": {"type": "string"},
                "author_id": {"type": "integer"},
                "created_at": {"type": "string"}
            }
        },
        "posts.AuthorSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"}
            }
        },
        "posts.PostWithAuthor": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "body": {"type": "string"},
                "created_at": {"type": "string"},
                "author": {"$ref": "#/definitions/posts.AuthorSummary"}
            }
        },
        "users.UpdateUserRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string", "example": "newname"},
                "email": {"type": "string", "example": "new@example.com"},
                "password": {"type": "string", "example": "newstrongpass1"}
            }
        },
        "users.UserEnvelope": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/auth.UserResponse"}
            }
        },
        "users.DeleteEnvelope": {
            "type": "object",
            "properties": {
                "user": {
                    "type": "object",
                    "properties": {"id": {"type": "integer"}}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type 'Bearer YOUR_JWT_TOKEN' to authorize"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Postboard API",
	Description:      "REST API for user accounts, sessions and posts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
