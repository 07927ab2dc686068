package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "EdPlan API",
        "description": "Course catalog lookups and education plan editing with prerequisite and co-requisite checks",
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
        {"name": "Catalog", "description": "Programs and their course catalogs"},
        {"name": "Plans", "description": "Plan editing, saving and export"}
    ],
    "paths": {
        "/programs": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List catalog programs",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "university", "in": "query", "type": "string"},
                    {"name": "distinct", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/programs/courses": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List the courses of a program, or every catalog course when no program is given",
                "parameters": [
                    {"name": "university", "in": "query", "type": "string"},
                    {"name": "program", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Program not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/programs/default-plan": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get the default plan of a program",
                "parameters": [
                    {"name": "university", "in": "query", "type": "string", "required": true},
                    {"name": "program", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Program not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/programs/reload": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Re-read the catalog file and drop cached catalog entries",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/validate": {
            "post": {
                "tags": ["Plans"],
                "summary": "Report prerequisite and co-requisite issues of a plan",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PlanPayload"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/courses": {
            "post": {
                "tags": ["Plans"],
                "summary": "Add a course to a plan",
                "description": "Answers 409 with the co-requisite prompt when confirm_corequisites is not set and co-requisites are missing.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddCourseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Co-requisite confirmation required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Plan rule violated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/courses/remove": {
            "post": {
                "tags": ["Plans"],
                "summary": "Remove a course from a plan",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RemoveCourseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Course is required by another course", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/reset": {
            "post": {
                "tags": ["Plans"],
                "summary": "Reset a plan to the program default",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProgramSelection"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans": {
            "get": {
                "tags": ["Plans"],
                "summary": "List saved plans",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Plans"],
                "summary": "Save a plan",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SavePlanRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Plan cannot be saved yet", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Plans"],
                "summary": "Delete the saved plan of a program",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "university", "in": "query", "type": "string", "required": true},
                    {"name": "program", "in": "query", "type": "string", "required": true},
                    {"name": "degree", "in": "query", "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Plan not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/detail": {
            "get": {
                "tags": ["Plans"],
                "summary": "Get the saved plan of a program",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "university", "in": "query", "type": "string", "required": true},
                    {"name": "program", "in": "query", "type": "string", "required": true},
                    {"name": "degree", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Plan not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/plans/export": {
            "get": {
                "tags": ["Plans"],
                "summary": "Download a saved plan as PDF or CSV",
                "produces": ["application/pdf", "text/csv"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "university", "in": "query", "type": "string", "required": true},
                    {"name": "program", "in": "query", "type": "string", "required": true},
                    {"name": "degree", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv"]}
                ],
                "responses": {
                    "200": {"description": "Plan file", "schema": {"type": "file"}},
                    "404": {"description": "Plan not found or exports disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Schedule": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "time": {"type": "string"}
            }
        },
        "PlanCourse": {
            "type": "object",
            "required": ["code"],
            "properties": {
                "program": {"type": "string"},
                "university": {"type": "string"},
                "year": {"type": "string"},
                "semester": {"type": "string"},
                "code": {"type": "string"},
                "courseName": {"type": "string"},
                "credits": {"type": "number"},
                "prerequisite": {"type": "string"},
                "corequisite": {"type": "string"},
                "schedule": {"$ref": "#/definitions/Schedule"}
            }
        },
        "PlanPayload": {
            "type": "object",
            "properties": {
                "university": {"type": "string"},
                "program": {"type": "string"},
                "courses": {"type": "array", "items": {"$ref": "#/definitions/PlanCourse"}}
            }
        },
        "AddCourseRequest": {
            "type": "object",
            "properties": {
                "university": {"type": "string"},
                "program": {"type": "string"},
                "courses": {"type": "array", "items": {"$ref": "#/definitions/PlanCourse"}},
                "course": {"$ref": "#/definitions/PlanCourse"},
                "confirm_corequisites": {"type": "boolean"}
            }
        },
        "RemoveCourseRequest": {
            "type": "object",
            "required": ["code"],
            "properties": {
                "university": {"type": "string"},
                "program": {"type": "string"},
                "courses": {"type": "array", "items": {"$ref": "#/definitions/PlanCourse"}},
                "code": {"type": "string"}
            }
        },
        "ProgramSelection": {
            "type": "object",
            "required": ["university", "program"],
            "properties": {
                "university": {"type": "string"},
                "program": {"type": "string"}
            }
        },
        "SavePlanRequest": {
            "type": "object",
            "required": ["university", "program", "courses"],
            "properties": {
                "university": {"type": "string"},
                "program": {"type": "string"},
                "degree": {"type": "string"},
                "courses": {"type": "array", "items": {"$ref": "#/definitions/PlanCourse"}}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "message": {"type": "string"},
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
