package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Appointment API",
        "description": "Appointment slot generation, availability and booking service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Operator login"},
        {"name": "Appointment Types", "description": "Appointment type configuration"},
        {"name": "Slots", "description": "Availability grid"},
        {"name": "Bookings", "description": "Slot booking"},
        {"name": "Staff", "description": "Staff roster, working hours and agenda"}
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
                    "200": {"description": "Ready"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Get current user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/appointment-types": {
            "get": {
                "tags": ["Appointment Types"],
                "summary": "List appointment types",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "category", "in": "query", "type": "string", "enum": ["website", "custom", "work_hours"]},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "staff_id", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Appointment Types"],
                "summary": "Create appointment type",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAppointmentTypeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/appointment-types/{id}": {
            "get": {
                "tags": ["Appointment Types"],
                "summary": "Get appointment type",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Appointment Types"],
                "summary": "Update appointment type",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateAppointmentTypeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Appointment Types"],
                "summary": "Delete appointment type",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/appointment-types/custom": {
            "post": {
                "tags": ["Appointment Types"],
                "summary": "Create custom appointment type",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCustomRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/appointment-types/work-hours": {
            "post": {
                "tags": ["Appointment Types"],
                "summary": "Get or create a work hours appointment type",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "schema": {"type": "object", "properties": {"staff_id": {"type": "string"}}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/appointment-types/{id}/slots": {
            "get": {
                "tags": ["Slots"],
                "summary": "Get available slots",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "timezone", "in": "query", "type": "string"},
                    {"name": "staff_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown timezone"},
                    "404": {"description": "Appointment type not found"}
                }
            }
        },
        "/bookings": {
            "post": {
                "tags": ["Bookings"],
                "summary": "Book a slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BookSlotRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Slot no longer available"}
                }
            }
        },
        "/staff": {
            "get": {
                "tags": ["Staff"],
                "summary": "List staff members",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Staff"],
                "summary": "Create staff member",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStaffRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/staff/{id}": {
            "get": {
                "tags": ["Staff"],
                "summary": "Get staff member",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Staff"],
                "summary": "Update staff member",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStaffRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/staff/{id}/working-hours": {
            "get": {
                "tags": ["Staff"],
                "summary": "Get working hours",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Staff"],
                "summary": "Replace working hours",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/WorkingHoursRequest"}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/staff/{id}/agenda/export": {
            "get": {
                "tags": ["Staff"],
                "summary": "Export staff agenda",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        }
    },
    "definitions": {
        "AppointmentType": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "category": {"type": "string", "enum": ["website", "custom", "work_hours"]},
                "duration_hours": {"type": "number"},
                "min_schedule_hours": {"type": "number"},
                "max_schedule_days": {"type": "integer"},
                "timezone": {"type": "string"},
                "active": {"type": "boolean"},
                "slot_templates": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/SlotTemplate"}
                },
                "staff_ids": {
                    "type": "array",
                    "items": {"type": "string"}
                },
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "SlotTemplate": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "slot_type": {"type": "string", "enum": ["recurring", "unique"]},
                "weekday": {"type": "integer", "minimum": 1, "maximum": 7},
                "start_hour": {"type": "number"},
                "end_hour": {"type": "number"},
                "start_at": {"type": "string"},
                "end_at": {"type": "string"},
                "all_day": {"type": "boolean"}
            }
        },
        "CreateAppointmentTypeRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "category": {"type": "string", "enum": ["website", "custom", "work_hours"]},
                "duration_hours": {"type": "number"},
                "min_schedule_hours": {"type": "number"},
                "max_schedule_days": {"type": "integer"},
                "timezone": {"type": "string"},
                "staff_ids": {"type": "array", "items": {"type": "string"}},
                "slot_templates": {"type": "array", "items": {"$ref": "#/definitions/SlotTemplate"}}
            },
            "required": ["name", "category", "duration_hours", "max_schedule_days", "timezone"]
        },
        "UpdateAppointmentTypeRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "duration_hours": {"type": "number"},
                "min_schedule_hours": {"type": "number"},
                "max_schedule_days": {"type": "integer"},
                "timezone": {"type": "string"},
                "staff_ids": {"type": "array", "items": {"type": "string"}},
                "slot_templates": {"type": "array", "items": {"$ref": "#/definitions/SlotTemplate"}},
                "active": {"type": "boolean"}
            },
            "required": ["name", "duration_hours", "max_schedule_days", "timezone"]
        },
        "CreateCustomRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "staff_id": {"type": "string"},
                "slots": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "start_at": {"type": "string"},
                            "end_at": {"type": "string"},
                            "all_day": {"type": "boolean"}
                        }
                    }
                }
            },
            "required": ["slots"]
        },
        "BookSlotRequest": {
            "type": "object",
            "properties": {
                "appointment_type_id": {"type": "string"},
                "staff_id": {"type": "string"},
                "customer_name": {"type": "string"},
                "customer_email": {"type": "string"},
                "start_at": {"type": "string"}
            },
            "required": ["appointment_type_id", "customer_name", "customer_email", "start_at"]
        },
        "CreateStaffRequest": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "timezone": {"type": "string"}
            },
            "required": ["full_name", "email", "timezone"]
        },
        "UpdateStaffRequest": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "timezone": {"type": "string"},
                "active": {"type": "boolean"}
            },
            "required": ["full_name", "email", "timezone"]
        },
        "WorkingHoursRequest": {
            "type": "object",
            "properties": {
                "weekday": {"type": "integer", "minimum": 1, "maximum": 7},
                "start_hour": {"type": "number"},
                "end_hour": {"type": "number"}
            },
            "required": ["weekday"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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
