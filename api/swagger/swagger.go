package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Substitute API",
        "description": "Substitute teacher assignment service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Availability", "description": "Substitute candidate ranking"},
        {"name": "State", "description": "Bulk state hydration and reload"},
        {"name": "Leaves", "description": "Leave request lifecycle"},
        {"name": "Substitutes", "description": "Substitute assignment lifecycle"},
        {"name": "Schedules", "description": "Weekly timetable"},
        {"name": "Teachers", "description": "Teacher roster"},
        {"name": "Subjects", "description": "Subject roster"},
        {"name": "Classes", "description": "Class roster"},
        {"name": "TimeSlots", "description": "Period definitions"}
    ],
    "paths": {
        "/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "Find available substitute teachers",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string", "required": true},
                    {"name": "period", "in": "query", "type": "integer", "required": true},
                    {"name": "subject", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Ranked candidates", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid query"},
                    "503": {"description": "State not loaded"}
                }
            }
        },
        "/state": {
            "get": {
                "tags": ["State"],
                "summary": "Get the full application state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "State not loaded"}
                }
            }
        },
        "/state/reload": {
            "post": {
                "tags": ["State"],
                "summary": "Re-fetch state from the remote store",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Remote store unreachable"}
                }
            }
        },
        "/leaves": {
            "post": {
                "tags": ["Leaves"],
                "summary": "File a leave request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateLeaveRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/leaves/{id}": {
            "put": {
                "tags": ["Leaves"],
                "summary": "Update a leave request",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateLeaveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Leaves"],
                "summary": "Delete a leave request and its substitute assignments",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/leaves/{id}/approve": {
            "post": {
                "tags": ["Leaves"],
                "summary": "Approve a leave request",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Approved"}
                }
            }
        },
        "/leaves/{id}/reject": {
            "post": {
                "tags": ["Leaves"],
                "summary": "Reject a leave request",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Rejected"}
                }
            }
        },
        "/subs": {
            "post": {
                "tags": ["Substitutes"],
                "summary": "Assign a substitute to a period",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignSubstituteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subs/{id}": {
            "put": {
                "tags": ["Substitutes"],
                "summary": "Reassign a period to a different substitute",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignSubstituteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Substitutes"],
                "summary": "Withdraw a substitute assignment",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/subs/{id}/respond": {
            "post": {
                "tags": ["Substitutes"],
                "summary": "Record the substitute's acceptance or rejection",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RespondRequest"}}
                ],
                "responses": {
                    "204": {"description": "Recorded"}
                }
            }
        },
        "/schedules": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Create or overwrite a timetable entry",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}": {
            "delete": {
                "tags": ["Schedules"],
                "summary": "Delete a timetable entry",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/teachers": {
            "post": {
                "tags": ["Teachers"],
                "summary": "Create teacher",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TeacherRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/{id}": {
            "put": {
                "tags": ["Teachers"],
                "summary": "Update teacher",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TeacherRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Teachers"],
                "summary": "Delete teacher",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/subjects": {
            "post": {
                "tags": ["Subjects"],
                "summary": "Create subject",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{id}": {
            "put": {
                "tags": ["Subjects"],
                "summary": "Update subject",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubjectRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Subjects"],
                "summary": "Delete subject",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/classes": {
            "post": {
                "tags": ["Classes"],
                "summary": "Create class",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClassRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classes/{id}": {
            "put": {
                "tags": ["Classes"],
                "summary": "Update class",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClassRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Classes"],
                "summary": "Delete class",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/time-slots": {
            "post": {
                "tags": ["TimeSlots"],
                "summary": "Create time slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TimeSlotRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/time-slots/{id}": {
            "put": {
                "tags": ["TimeSlots"],
                "summary": "Update time slot",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TimeSlotRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["TimeSlots"],
                "summary": "Delete time slot",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        }
    },
    "definitions": {
        "CreateLeaveRequest": {
            "type": "object",
            "required": ["teacherId", "date", "periodNumbers"],
            "properties": {
                "teacherId": {"type": "string"},
                "date": {"type": "string"},
                "periodNumbers": {"type": "array", "items": {"type": "integer"}},
                "reason": {"type": "string"}
            }
        },
        "UpdateLeaveRequest": {
            "type": "object",
            "required": ["teacherId", "date", "periodNumbers", "status"],
            "properties": {
                "teacherId": {"type": "string"},
                "date": {"type": "string"},
                "periodNumbers": {"type": "array", "items": {"type": "integer"}},
                "reason": {"type": "string"},
                "status": {"type": "string", "enum": ["PENDING", "APPROVED", "REJECTED"]}
            }
        },
        "AssignSubstituteRequest": {
            "type": "object",
            "required": ["leaveRequestId", "originalTeacherId", "subTeacherId", "date", "periodNumber", "classId", "subjectId"],
            "properties": {
                "leaveRequestId": {"type": "string"},
                "originalTeacherId": {"type": "string"},
                "subTeacherId": {"type": "string"},
                "date": {"type": "string"},
                "periodNumber": {"type": "integer"},
                "classId": {"type": "string"},
                "subjectId": {"type": "string"}
            }
        },
        "RespondRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["ACCEPTED", "REJECTED"]},
                "reason": {"type": "string"}
            }
        },
        "UpsertScheduleRequest": {
            "type": "object",
            "required": ["classId", "timeSlotId", "dayOfWeek", "subjectId", "teacherId"],
            "properties": {
                "id": {"type": "string"},
                "classId": {"type": "string"},
                "timeSlotId": {"type": "string"},
                "dayOfWeek": {"type": "integer", "minimum": 1, "maximum": 5},
                "subjectId": {"type": "string"},
                "teacherId": {"type": "string"}
            }
        },
        "TeacherRequest": {
            "type": "object",
            "required": ["name", "username", "role"],
            "properties": {
                "name": {"type": "string"},
                "username": {"type": "string"},
                "role": {"type": "string", "enum": ["ADMIN", "TEACHER"]},
                "expertise": {"type": "array", "items": {"type": "string"}},
                "phone": {"type": "string"},
                "lineId": {"type": "string"}
            }
        },
        "SubjectRequest": {
            "type": "object",
            "required": ["code", "name"],
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "ClassRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "studentCount": {"type": "integer"},
                "advisorId": {"type": "string"}
            }
        },
        "TimeSlotRequest": {
            "type": "object",
            "required": ["periodNumber", "startTime", "endTime", "type"],
            "properties": {
                "periodNumber": {"type": "integer"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "type": {"type": "string", "enum": ["LEARNING", "BREAK"]}
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
