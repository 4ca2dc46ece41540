// Package docs publica la especificación OpenAPI que sirve /swagger.
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
        "/appointments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["appointments"],
                "summary": "Listar citas",
                "parameters": [
                    {"type": "integer", "description": "Filtra por veterinario", "name": "vetId", "in": "query"},
                    {"type": "integer", "description": "Filtra por mascota", "name": "petId", "in": "query"},
                    {"type": "string", "description": "Fecha YYYY-MM-DD", "name": "date", "in": "query"},
                    {"type": "string", "description": "programada, confirmada, completada, cancelada, no_asistio", "name": "status", "in": "query"},
                    {"type": "boolean", "description": "Incluye citas dadas de baja", "name": "includeInactive", "in": "query"},
                    {"type": "integer", "description": "1-200. Por defecto 50", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Desplazamiento", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/scheduling.AppointmentResponse"}}},
                    "400": {"description": "filtros inválidos", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "post": {
                "description": "Calcula el turno, verifica que ni el veterinario ni la mascota tengan otra cita bloqueante solapada y la persiste.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["appointments"],
                "summary": "Reservar cita",
                "parameters": [
                    {"description": "Datos de la cita", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/appointments.bookRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/scheduling.AppointmentResponse"}},
                    "400": {"description": "validación", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "conflicto de agenda", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/appointments/{appointmentID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["appointments"],
                "summary": "Obtener cita",
                "parameters": [
                    {"type": "integer", "description": "ID de la cita", "name": "appointmentID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/scheduling.AppointmentResponse"}},
                    "404": {"description": "appointment not found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "patch": {
                "description": "Cambia fecha, hora, duración, veterinario, mascota o estado. Vuelve a verificar conflictos excluyendo la propia cita.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["appointments"],
                "summary": "Reprogramar / actualizar cita",
                "parameters": [
                    {"type": "integer", "description": "ID de la cita", "name": "appointmentID", "in": "path", "required": true},
                    {"description": "Campos a cambiar", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/appointments.rescheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/scheduling.AppointmentResponse"}},
                    "400": {"description": "validación", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "appointment not found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "conflicto de agenda", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/appointments/{appointmentID}/cancel": {
            "post": {
                "description": "Baja lógica: isActive=false y status=cancelada. Libera el turno.",
                "produces": ["application/json"],
                "tags": ["appointments"],
                "summary": "Cancelar cita",
                "parameters": [
                    {"type": "integer", "description": "ID de la cita", "name": "appointmentID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/scheduling.AppointmentResponse"}},
                    "404": {"description": "appointment not found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/availability": {
            "get": {
                "description": "Genera la grilla de turnos del día entre apertura y cierre, marcando cada turno como disponible o no según las citas bloqueantes (programada, completada) del veterinario.",
                "produces": ["application/json"],
                "tags": ["availability"],
                "summary": "Turnos disponibles de un veterinario",
                "parameters": [
                    {"type": "integer", "description": "ID del veterinario", "name": "vetId", "in": "query", "required": true},
                    {"type": "string", "description": "Fecha YYYY-MM-DD", "name": "date", "in": "query", "required": true},
                    {"type": "integer", "description": "Duración de cada turno (5-480). Por defecto 30", "name": "durationMinutes", "in": "query"},
                    {"type": "integer", "description": "Paso entre turnos (5-240). Por defecto la duración", "name": "stepMinutes", "in": "query"},
                    {"type": "string", "description": "Apertura HH:MM. Por defecto 09:00", "name": "openingTime", "in": "query"},
                    {"type": "string", "description": "Cierre HH:MM. Por defecto 18:00", "name": "closingTime", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/scheduling.availabilityResponse"}},
                    "400": {"description": "parámetros inválidos", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/public/appointments/{publicID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["appointments"],
                "summary": "Consultar cita desde el portal",
                "parameters": [
                    {"type": "string", "description": "publicId (uuid) de la cita", "name": "publicID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/scheduling.AppointmentResponse"}},
                    "404": {"description": "appointment not found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "appointments.bookRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "durationMinutes": {"type": "number"},
                "notes": {"type": "string"},
                "petId": {"type": "integer"},
                "reason": {"type": "string"},
                "status": {"type": "string"},
                "time": {"type": "string"},
                "vetId": {"type": "integer"}
            }
        },
        "appointments.rescheduleRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "durationMinutes": {"type": "number"},
                "notes": {"type": "string"},
                "petId": {"type": "integer"},
                "reason": {"type": "string"},
                "status": {"type": "string"},
                "time": {"type": "string"},
                "vetId": {"type": "integer"}
            }
        },
        "scheduling.AppointmentResponse": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "date": {"type": "string"},
                "durationMinutes": {"type": "integer"},
                "endDateTime": {"type": "string"},
                "endTime": {"type": "string"},
                "id": {"type": "integer"},
                "isActive": {"type": "boolean"},
                "notes": {"type": "string"},
                "petId": {"type": "integer"},
                "publicId": {"type": "string"},
                "reason": {"type": "string"},
                "startDateTime": {"type": "string"},
                "status": {"type": "string"},
                "time": {"type": "string"},
                "updatedAt": {"type": "string"},
                "vetId": {"type": "integer"}
            }
        },
        "scheduling.availabilityResponse": {
            "type": "object",
            "properties": {
                "appointments": {"type": "array", "items": {"$ref": "#/definitions/scheduling.AppointmentResponse"}},
                "closingTime": {"type": "string"},
                "date": {"type": "string"},
                "durationMinutes": {"type": "integer"},
                "openingTime": {"type": "string"},
                "slots": {"type": "array", "items": {"$ref": "#/definitions/scheduling.gridSlotResponse"}},
                "stepMinutes": {"type": "integer"},
                "vetId": {"type": "integer"}
            }
        },
        "scheduling.gridSlotResponse": {
            "type": "object",
            "properties": {
                "available": {"type": "boolean"},
                "end": {"type": "string"},
                "start": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Vet Clinic Scheduling API",
	Description:      "Agenda de citas de la clínica: cálculo de turnos, detección de conflictos y grilla de disponibilidad.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
