// Package docs registers the OpenAPI description of the matching API with swag. It follows
// the annotations on pkg/http/router and its controllers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Lintang Birda Saputra",
            "email": "lintang.birda.saputra@mail.ugm.ac.id"
        },
        "license": {
            "name": "BSD License",
            "url": "https://opensource.org/license/bsd-2-clause"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/match": {
            "post": {
                "description": "Builds the feasible driver/rider pairs, scores them with the requested weighting scheme and returns the optimal one-to-one matching. Malformed trips are listed under rejected and left out of the matching.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "matching"
                ],
                "summary": "Match drivers to riders",
                "parameters": [
                    {
                        "description": "drivers, riders and solver settings",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/controllers.matchRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "matching result under data",
                        "headers": {
                            "X-Run-Id": {
                                "type": "string",
                                "description": "id of the matching run"
                            }
                        },
                        "schema": {
                            "$ref": "#/definitions/controllers.matchingResultResponse"
                        }
                    },
                    "400": {
                        "description": "malformed body, unknown scheme or too many participants",
                        "schema": {
                            "$ref": "#/definitions/controllers.errorBody"
                        }
                    },
                    "415": {
                        "description": "body is not JSON",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "429": {
                        "description": "rate limit exceeded",
                        "schema": {
                            "$ref": "#/definitions/controllers.errorBody"
                        }
                    },
                    "500": {
                        "description": "solver failure",
                        "schema": {
                            "$ref": "#/definitions/controllers.errorBody"
                        }
                    },
                    "503": {
                        "description": "run aborted or no free solver",
                        "schema": {
                            "$ref": "#/definitions/controllers.errorBody"
                        }
                    }
                }
            }
        },
        "/schemes": {
            "get": {
                "description": "Lists the accepted weighting scheme names and the configured default.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "matching"
                ],
                "summary": "List weighting schemes",
                "responses": {
                    "200": {
                        "description": "scheme names under data",
                        "schema": {
                            "$ref": "#/definitions/controllers.schemesResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "controllers.errorBody": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "controllers.matchRequest": {
            "type": "object",
            "properties": {
                "drivers": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/controllers.tripRequest"
                    }
                },
                "riders": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/controllers.tripRequest"
                    }
                },
                "scheme": {
                    "type": "string",
                    "enum": [
                        "unweighted",
                        "distance_savings",
                        "distance_proximity",
                        "adjusted_proximity"
                    ]
                },
                "time_limit_seconds": {
                    "type": "number",
                    "minimum": 0
                }
            }
        },
        "controllers.matchResponse": {
            "type": "object",
            "properties": {
                "driver_id": {
                    "type": "integer"
                },
                "rider_id": {
                    "type": "integer"
                },
                "route": {
                    "type": "string",
                    "description": "encoded polyline of driver origin, rider origin, rider destination, driver destination"
                },
                "savings_km": {
                    "type": "number"
                },
                "shared_route_km": {
                    "type": "number"
                },
                "weight": {
                    "type": "number"
                }
            }
        },
        "controllers.matchingResultResponse": {
            "type": "object",
            "properties": {
                "candidates": {
                    "type": "integer"
                },
                "matches": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/controllers.matchResponse"
                    }
                },
                "metrics": {
                    "$ref": "#/definitions/controllers.metricsResponse"
                },
                "rejected": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/controllers.rejectedResponse"
                    }
                },
                "run_id": {
                    "type": "string"
                },
                "scheme": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "OPTIMAL",
                        "TIME_LIMIT_REACHED_WITH_INCUMBENT"
                    ]
                },
                "suboptimal": {
                    "type": "boolean"
                }
            }
        },
        "controllers.metricsResponse": {
            "type": "object",
            "properties": {
                "aks": {
                    "type": "number"
                },
                "matches": {
                    "type": "integer"
                },
                "matching_rate": {
                    "type": "number"
                },
                "max_matches": {
                    "type": "integer"
                },
                "total_savings_km": {
                    "type": "number"
                }
            }
        },
        "controllers.rejectedResponse": {
            "type": "object",
            "properties": {
                "field": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "reason": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                }
            }
        },
        "controllers.schemesResponse": {
            "type": "object",
            "properties": {
                "default": {
                    "type": "string"
                },
                "schemes": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "controllers.tripRequest": {
            "type": "object",
            "required": [
                "destination_lat",
                "destination_lon",
                "id",
                "origin_lat",
                "origin_lon"
            ],
            "properties": {
                "announced": {
                    "type": "number"
                },
                "destination_lat": {
                    "type": "number"
                },
                "destination_lon": {
                    "type": "number"
                },
                "distance_km": {
                    "type": "number"
                },
                "duration_min": {
                    "type": "number"
                },
                "earliest": {
                    "type": "number"
                },
                "id": {
                    "type": "integer"
                },
                "latest": {
                    "type": "number"
                },
                "origin_lat": {
                    "type": "number"
                },
                "origin_lon": {
                    "type": "number"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Ridematch API",
	Description:      "Matches rideshare drivers to riders on announced trips.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
