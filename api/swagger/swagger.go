package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Platform API",
        "description": "Admin, auth and public analytics endpoints for the learning platform",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Public", "description": "Aggregate platform analytics"},
        {"name": "Auth", "description": "Session tokens"},
        {"name": "Admin", "description": "Course and agent administration"},
        {"name": "Root", "description": "Audit trail"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unavailable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/public/metrics": {
            "get": {
                "tags": ["Public"],
                "summary": "Aggregate platform metrics",
                "description": "Accepts no query parameters. Rate limited per client address.",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/PublicMetricsResponse"}},
                    "400": {"description": "Query parameters are not accepted"},
                    "403": {"description": "Response blocked by the privacy guard"},
                    "405": {"description": "Method not allowed"},
                    "429": {"description": "Rate limit exceeded", "schema": {"$ref": "#/definitions/RateLimitExceeded"}},
                    "500": {"description": "Failed to fetch public metrics"}
                }
            }
        },
        "/api/auth/login.php": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log in with username or email",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Username and password required"},
                    "401": {"description": "Invalid credentials"},
                    "403": {"description": "This account requires Google Sign-In"}
                }
            }
        },
        "/api/auth/validate.php": {
            "get": {
                "tags": ["Auth"],
                "summary": "Validate the current session token",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Authentication required"}
                }
            }
        },
        "/api/admin/list_courses.php": {
            "get": {
                "tags": ["Admin"],
                "summary": "List active courses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Authentication required"},
                    "403": {"description": "Insufficient permissions"}
                }
            }
        },
        "/api/admin/delete_course.php": {
            "post": {
                "tags": ["Admin"],
                "summary": "Delete or deactivate a course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DeleteCourseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"},
                    "404": {"description": "Course not found"}
                }
            }
        },
        "/api/admin/list_agents.php": {
            "get": {
                "tags": ["Admin"],
                "summary": "List student advisor agents",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/root/audit/logs": {
            "get": {
                "tags": ["Root"],
                "summary": "Recent analytics audit entries",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Insufficient permissions"}
                }
            }
        },
        "/api/root/audit/export": {
            "get": {
                "tags": ["Root"],
                "summary": "Export audit log entries for compliance review",
                "produces": ["application/json", "text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["json", "csv", "pdf"]},
                    {"name": "startDate", "in": "query", "type": "string", "format": "date"},
                    {"name": "endDate", "in": "query", "type": "string", "format": "date"},
                    {"name": "reason", "in": "query", "type": "string"},
                    {"name": "confirmed", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Export file, or a confirmation request for large exports"},
                    "400": {"description": "Export validation failed"},
                    "403": {"description": "Insufficient permissions"},
                    "429": {"description": "Rate limit exceeded", "schema": {"$ref": "#/definitions/RateLimitExceeded"}}
                }
            }
        }
    },
    "definitions": {
        "PublicMetric": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "value": {"type": "number"},
                "type": {"type": "string"},
                "label": {"type": "string"},
                "lastUpdated": {"type": "string"}
            }
        },
        "PublicMetricsResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "metrics": {"type": "array", "items": {"$ref": "#/definitions/PublicMetric"}},
                "recentActivity": {
                    "type": "object",
                    "properties": {
                        "users24h": {"type": "integer"},
                        "lessons24h": {"type": "integer"}
                    }
                },
                "weeklyTrend": {"type": "array", "items": {"type": "object"}},
                "popularSubjects": {"type": "array", "items": {"type": "object"}},
                "lastUpdated": {"type": "string"},
                "privacyNotice": {"type": "string"}
            }
        },
        "RateLimitExceeded": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "string"},
                "message": {"type": "string"},
                "limit": {"type": "integer"},
                "reset_time": {"type": "integer"},
                "retry_after": {"type": "integer"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "DeleteCourseRequest": {
            "type": "object",
            "required": ["courseId"],
            "properties": {
                "courseId": {"type": "integer"},
                "soft": {"type": "boolean"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
