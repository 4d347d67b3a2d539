// Package docs registers the Swagger document served under /swagger. Keep it in
// step with the @Router annotations in internal/app/api/handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://example.com/terms/",
        "contact": {
            "name": "API Support",
            "url": "http://www.example.com/support",
            "email": "support@example.com"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/admin/get_publication_statistic": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Subscriber counts, revenue and daily sign-ups for one publication.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Get Publication Statistics (Admin)",
                "parameters": [
                    {
                        "description": "Statistic request parameters",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/statistics.PublicationStatisticRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RespPublicationStatistic"}}
                }
            }
        },
        "/api/v1/admin/list_subscribers": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Retrieves a paginated and filterable list of subscribers.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "List Subscribers (Admin)",
                "parameters": [
                    {
                        "description": "Filters, pagination and sorting",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.ScanRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RespListSubscribers"}}
                }
            }
        },
        "/api/v1/admin/list_webhook_events": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Retrieves a paginated and filterable list of received webhook deliveries.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "List Webhook Events (Admin)",
                "parameters": [
                    {
                        "description": "Filters, pagination and sorting",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.ScanRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RespListWebhookEvents"}}
                }
            }
        },
        "/api/v1/admin/resync_subscriber": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Rebuilds the Kit tags of a subscriber from its stored status.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Resync Subscriber Tags (Admin)",
                "parameters": [
                    {
                        "description": "Subscriber to resync",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.ResyncSubscriberRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RespResyncSubscriber"}}
                }
            }
        },
        "/api/v1/admin/set_kit_integration": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Seals and stores a publication's Kit API key together with its tag ids.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Set Kit Integration (Admin)",
                "parameters": [
                    {
                        "description": "Kit credentials and tags",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.SetKitIntegrationRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RespOK"}}
                }
            }
        },
        "/api/v1/admin/subscribers/{code}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns a subscriber with its plan and recent change log.",
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Get Subscriber (Admin)",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Paystack subscription code",
                        "name": "code",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RespSubscriberDetail"}}
                }
            }
        },
        "/api/v1/webhook/paystack": {
            "post": {
                "description": "Receives Paystack subscription and invoice events. The raw body is authenticated with the HMAC-SHA512 signature in x-paystack-signature. Responds with plain text; any non-2xx status makes Paystack retry.",
                "consumes": ["application/json"],
                "produces": ["text/plain"],
                "tags": ["Webhook"],
                "summary": "Paystack Webhook",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Hex HMAC-SHA512 of the raw body",
                        "name": "x-paystack-signature",
                        "in": "header",
                        "required": true
                    },
                    {
                        "description": "Paystack event envelope",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"type": "string"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "string"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"type": "string"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "string"}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "string"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Reports whether the database is reachable",
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Readiness check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/healthz": {
            "get": {
                "description": "Returns service status",
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        }
    },
    "definitions": {
        "handlers.KitTags": {
            "type": "object",
            "properties": {
                "active": {"type": "integer"},
                "annually": {"type": "integer"},
                "attention": {"type": "integer"},
                "cancelled": {"type": "integer"},
                "completed": {"type": "integer"},
                "daily": {"type": "integer"},
                "hourly": {"type": "integer"},
                "monthly": {"type": "integer"},
                "non_renewing": {"type": "integer"},
                "publication": {"type": "integer"}
            }
        },
        "handlers.RespListSubscribers": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {
                    "type": "object",
                    "properties": {
                        "items": {"type": "array", "items": {"$ref": "#/definitions/models.Subscriber"}},
                        "total": {"type": "integer"}
                    }
                },
                "message": {"type": "string"}
            }
        },
        "handlers.RespListWebhookEvents": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {
                    "type": "object",
                    "properties": {
                        "items": {"type": "array", "items": {"type": "object"}},
                        "total": {"type": "integer"}
                    }
                },
                "message": {"type": "string"}
            }
        },
        "handlers.RespOK": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "message": {"type": "string"}
            }
        },
        "handlers.RespPublicationStatistic": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {
                    "type": "object",
                    "properties": {
                        "data_items": {
                            "type": "object",
                            "additionalProperties": {"type": "array", "items": {"$ref": "#/definitions/statistics.StatisticResponseDataItem"}}
                        }
                    }
                },
                "message": {"type": "string"}
            }
        },
        "handlers.RespResyncSubscriber": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {
                    "type": "object",
                    "properties": {
                        "error": {"type": "string"},
                        "kit_subscriber_id": {"type": "integer"},
                        "outcome": {"type": "string"},
                        "reason": {"type": "string"},
                        "steps": {"type": "array", "items": {"type": "string"}}
                    }
                },
                "message": {"type": "string"}
            }
        },
        "handlers.RespSubscriberDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {
                    "type": "object",
                    "properties": {
                        "logs": {"type": "array", "items": {"type": "object"}},
                        "plan": {"type": "object"},
                        "subscriber": {"$ref": "#/definitions/models.Subscriber"}
                    }
                },
                "message": {"type": "string"}
            }
        },
        "handlers.ResyncSubscriberRequest": {
            "type": "object",
            "required": ["subscription_code"],
            "properties": {
                "subscription_code": {"type": "string"}
            }
        },
        "handlers.SetKitIntegrationRequest": {
            "type": "object",
            "required": ["api_key", "publication_id"],
            "properties": {
                "api_key": {"type": "string"},
                "publication_id": {"type": "string"},
                "tags": {"$ref": "#/definitions/handlers.KitTags"}
            }
        },
        "models.Subscriber": {
            "type": "object",
            "properties": {
                "completed": {"type": "boolean"},
                "created_at": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "kit_subscriber_id": {"type": "integer"},
                "name": {"type": "string"},
                "next_payment_date": {"type": "string"},
                "plan_id": {"type": "string"},
                "status": {"type": "string", "enum": ["active", "non-renewing", "attention", "cancelled"]},
                "subscription_code": {"type": "string"},
                "total_revenue": {"type": "integer"},
                "updated_at": {"type": "string"}
            }
        },
        "statistics.PublicationStatisticRequest": {
            "type": "object",
            "required": ["publication_id"],
            "properties": {
                "data_items": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "id": {"type": "string", "enum": ["status_count", "plan_subscriber_count", "total_revenue", "daily_new_subscriber_count"]}
                        }
                    }
                },
                "publication_id": {"type": "string"},
                "since": {"type": "string"}
            }
        },
        "statistics.StatisticResponseDataItem": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "label": {"type": "string"},
                "value": {"type": "integer"}
            }
        },
        "types.ScanRequest": {
            "type": "object",
            "properties": {
                "filters": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "field": {"type": "string"},
                            "operator": {"type": "string", "enum": ["eq", "not_eq", "lt", "lte", "gt", "gte", "date_range", "range", "in"]},
                            "values": {"type": "array", "items": {}}
                        }
                    }
                },
                "from": {"type": "integer"},
                "size": {"type": "integer"},
                "sort_by": {"type": "string"},
                "sort_order": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8888",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Paylist Backend API",
	Description:      "Paystack webhook processing and subscriber lifecycle backend with Kit tag sync.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
