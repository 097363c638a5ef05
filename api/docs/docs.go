// Package docs is generated by swaggo/swag from the handler annotations.
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
        "/": {
            "get": {
                "description": "Answers even when no model is loaded",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Service status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RootResponse"}}
                }
            }
        },
        "/auth/token": {
            "post": {
                "description": "Exchanges API client credentials for a token accepted by POST /predict",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Issue a bearer token",
                "parameters": [
                    {
                        "description": "Client credentials",
                        "name": "credentials",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.TokenRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Detailed health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        },
        "/health/live": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "description": "Ready once a model is loaded",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        },
        "/model": {
            "get": {
                "description": "Manifest summary of the artifact the service is serving",
                "produces": ["application/json"],
                "tags": ["Model"],
                "summary": "Loaded model",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ModelResponse"}},
                    "503": {"description": "No model loaded", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/predict": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Classifies one patient record. All eight fields are required; zeros in Glucose, BloodPressure, SkinThickness, Insulin and BMI are treated as missing and imputed.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Prediction"],
                "summary": "Predict diabetes risk",
                "parameters": [
                    {
                        "description": "Patient measurements",
                        "name": "record",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.PredictRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PredictionResult"}},
                    "401": {"description": "Missing or invalid token", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "422": {"description": "Missing or mistyped field", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Model not loaded or prediction failed", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/runs": {
            "get": {
                "description": "Training-run history, newest first",
                "produces": ["application/json"],
                "tags": ["Runs"],
                "summary": "Training runs",
                "parameters": [
                    {"type": "integer", "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Rows to skip", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "runs and count", "schema": {"type": "object", "additionalProperties": true}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/runs/{model_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Runs"],
                "summary": "Training run",
                "parameters": [
                    {"type": "string", "description": "Model ID", "name": "model_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.TrainingRun"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"type": "object", "additionalProperties": {"type": "string"}},
                "status": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "handlers.ModelResponse": {
            "type": "object",
            "properties": {
                "candidates": {"type": "array", "items": {"$ref": "#/definitions/models.CandidateScore"}},
                "created_at": {"type": "string"},
                "features": {"type": "array", "items": {"type": "string"}},
                "format_version": {"type": "integer"},
                "kind": {"type": "string"},
                "label": {"type": "string"},
                "medians": {"type": "object", "additionalProperties": {"type": "number"}},
                "metrics": {"$ref": "#/definitions/models.Evaluation"},
                "model_id": {"type": "string"},
                "sentinel_columns": {"type": "array", "items": {"type": "string"}},
                "standardized": {"type": "boolean"},
                "test_size": {"type": "integer"},
                "train_size": {"type": "integer"}
            }
        },
        "handlers.PredictRequest": {
            "type": "object",
            "required": ["Age", "BMI", "BloodPressure", "DiabetesPedigreeFunction", "Glucose", "Insulin", "Pregnancies", "SkinThickness"],
            "properties": {
                "Age": {"type": "integer", "example": 33},
                "BMI": {"type": "number", "example": 28.5},
                "BloodPressure": {"type": "number", "example": 70},
                "DiabetesPedigreeFunction": {"type": "number", "example": 0.35},
                "Glucose": {"type": "number", "example": 130},
                "Insulin": {"type": "number", "example": 100},
                "Pregnancies": {"type": "integer", "example": 2},
                "SkinThickness": {"type": "number", "example": 25}
            }
        },
        "handlers.RootResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "handlers.TokenRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "handlers.TokenResponse": {
            "type": "object",
            "properties": {
                "expires_in": {"type": "integer"},
                "token": {"type": "string"},
                "token_type": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "models.CandidateScore": {
            "type": "object",
            "properties": {
                "accuracy": {"type": "number"},
                "kind": {"type": "string"},
                "label": {"type": "string"},
                "selected": {"type": "boolean"}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "detail": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "models.Evaluation": {
            "type": "object",
            "properties": {
                "accuracy": {"type": "number"},
                "confusion_matrix": {"type": "array", "items": {"type": "array", "items": {"type": "integer"}}},
                "cv_mean": {"type": "number"},
                "f1": {"type": "number"},
                "precision": {"type": "number"},
                "recall": {"type": "number"},
                "roc_auc": {"type": "number"},
                "train_accuracy": {"type": "number"}
            }
        },
        "models.PredictionResult": {
            "type": "object",
            "properties": {
                "feature_importance": {"type": "object", "additionalProperties": {"type": "number"}},
                "prediction": {"type": "integer"},
                "probability": {"type": "number"},
                "risk_level": {"type": "string", "enum": ["High Risk", "Low Risk"]}
            }
        },
        "models.TrainingRun": {
            "type": "object",
            "properties": {
                "artifact_path": {"type": "string"},
                "candidates": {"type": "array", "items": {"$ref": "#/definitions/models.CandidateScore"}},
                "evaluation": {"$ref": "#/definitions/models.Evaluation"},
                "id": {"type": "integer"},
                "model_id": {"type": "string"},
                "model_kind": {"type": "string"},
                "model_label": {"type": "string"},
                "seed": {"type": "integer"},
                "test_size": {"type": "integer"},
                "train_size": {"type": "integer"},
                "trained_at": {"type": "string"}
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
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "DiaPredict API",
	Description:      "Diabetes risk prediction from eight clinical measurements.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
