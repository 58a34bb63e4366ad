// Package docs registers the formantd OpenAPI description with swag so the
// HTTP transport can serve it under /swagger/.
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
        "/synthesize": {
            "post": {
                "description": "Accepts a JSON message or a plain-text body and returns synthesized speech. With \"Accept: audio/wav\" the response body is the WAV file itself; otherwise a JSON result carries the audio base64-encoded alongside the phoneme transcription.",
                "consumes": ["application/json", "text/plain"],
                "produces": ["application/json", "audio/wav"],
                "tags": ["speech"],
                "summary": "Synthesize speech",
                "parameters": [
                    {
                        "description": "Speech request (JSON). For plain text, POST the text directly.",
                        "name": "message",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/message.Message"}
                    },
                    {"type": "string", "description": "Sender identifier (plain-text uploads)", "name": "X-Formantd-Source", "in": "header"},
                    {"type": "string", "description": "Voice name (plain-text uploads)", "name": "X-Formantd-Voice", "in": "header"},
                    {"type": "string", "description": "JSON-encoded Instruction (plain-text uploads)", "name": "X-Formantd-Instruction", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "Synthesis result", "schema": {"$ref": "#/definitions/message.DispatchResult"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/message.DispatchResult"}},
                    "413": {"description": "Input too long", "schema": {"$ref": "#/definitions/message.DispatchResult"}},
                    "429": {"description": "Rate limit exceeded", "schema": {"type": "string"}},
                    "500": {"description": "Internal processing error", "schema": {"$ref": "#/definitions/message.DispatchResult"}}
                }
            }
        },
        "/phonemes": {
            "post": {
                "description": "Runs only the letter-to-sound stage and returns the phoneme string that would be spoken.",
                "consumes": ["application/json", "text/plain"],
                "produces": ["application/json"],
                "tags": ["speech"],
                "summary": "Transcribe text to phonemes",
                "parameters": [
                    {
                        "description": "Transcription request",
                        "name": "message",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/message.Message"}
                    }
                ],
                "responses": {
                    "200": {"description": "Transcription", "schema": {"$ref": "#/definitions/message.DispatchResult"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/message.DispatchResult"}},
                    "413": {"description": "Input too long", "schema": {"$ref": "#/definitions/message.DispatchResult"}},
                    "429": {"description": "Rate limit exceeded", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "message.Message": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "source": {"type": "string"},
                "text": {"type": "string"},
                "phonemes": {"type": "string"},
                "voice": {"type": "string"},
                "instruction": {"$ref": "#/definitions/message.Instruction"},
                "timestamp": {"type": "string"}
            }
        },
        "message.Instruction": {
            "type": "object",
            "properties": {
                "targets": {"type": "array", "items": {"$ref": "#/definitions/message.Target"}},
                "response_mode": {"type": "string", "enum": ["audio", "phonemes", "audio+phonemes"]},
                "reply_to": {"type": "string"}
            }
        },
        "message.Target": {
            "type": "object",
            "properties": {
                "service_name": {"type": "string"},
                "endpoint": {"type": "string"},
                "protocol": {"type": "string"}
            }
        },
        "message.DispatchResult": {
            "type": "object",
            "properties": {
                "message_id": {"type": "string"},
                "text": {"type": "string"},
                "phonemes": {"type": "string"},
                "audio": {"type": "string"},
                "content_type": {"type": "string"},
                "sample_rate": {"type": "integer"},
                "channels": {"type": "integer"},
                "duration_ms": {"type": "integer"},
                "cached": {"type": "boolean"},
                "routed_to": {"type": "array", "items": {"type": "string"}},
                "error": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "formantd API",
	Description:      "Rule-based text-to-speech daemon.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
