// Package docs holds the generated OpenAPI document served under /swagger/.
// Regenerate with: swag init -g internal/platform/httpserver/server.go -o internal/platform/httpserver/docs
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
        "/projects": {
            "post": {
                "tags": ["projects"],
                "summary": "Create a voting project (admin only)",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/projects/count": {
            "get": {
                "tags": ["projects"],
                "summary": "Total number of projects",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/projects/{project_id}": {
            "get": {
                "tags": ["projects"],
                "summary": "Fetch a project by id",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/projects/{project_id}/votes": {
            "post": {
                "tags": ["projects"],
                "summary": "Stake tokens on a project inside its voting window",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/projects/{project_id}/finalize": {
            "post": {
                "tags": ["projects"],
                "summary": "Finalize a project after its voting window (admin only)",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/projects/{project_id}/unstake": {
            "post": {
                "tags": ["projects"],
                "summary": "Withdraw staked tokens after finalization",
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/projects/{project_id}/unstakeable-balance": {
            "get": {
                "tags": ["projects"],
                "summary": "Amount a participant could withdraw right now",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/projects/{project_id}/stakes/{participant}": {
            "get": {
                "tags": ["projects"],
                "summary": "Stake record for a participant on a project",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/participants/{participant}/staked-total": {
            "get": {
                "tags": ["projects"],
                "summary": "Cumulative staked total across projects",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ledger/mint": {
            "post": {
                "tags": ["ledger"],
                "summary": "Mint tokens onto an account (admin only)",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/ledger/transfers": {
            "post": {
                "tags": ["ledger"],
                "summary": "Transfer tokens between accounts",
                "responses": {
                    "200": {"description": "OK"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/ledger/approvals": {
            "post": {
                "tags": ["ledger"],
                "summary": "Approve a spender allowance",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ledger/balances/{address}": {
            "get": {
                "tags": ["ledger"],
                "summary": "Balance of an account",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ledger/allowances/{owner}/{spender}": {
            "get": {
                "tags": ["ledger"],
                "summary": "Remaining allowance from owner to spender",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ledger/supply": {
            "get": {
                "tags": ["ledger"],
                "summary": "Total minted supply",
                "responses": {
                    "200": {"description": "OK"}
                }
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
	Title:            "Stakevote API",
	Description:      "Token-weighted project voting with staked-token payouts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
