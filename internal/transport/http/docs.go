// Package classification of Shopping List API
//
// # Documentation for Shopping List API
//
// Schemes: http
// BasePath: /
// Version: 1.0.0
//
// Consumes:
// - application/json
//
// Produces:
// - application/json
//
// swagger:meta
package http

import "github.com/kahvecikaan/shopping-list/internal/domain"

// NOTE: Types defined here are purely for documentation purposes
// These types are not used by any of the handlers

// Generic error message
// swagger:response errorResponse
type errorResponseWrapper struct {
	// Description of the error
	// in: body
	Body ErrorResponse
}

// A list of items
// swagger:response itemsResponse
type itemsResponseWrapper struct {
	// All current items
	// in: body
	Body []domain.Item
}

// Data structure representing a single item
// swagger:response itemResponse
type itemResponseWrapper struct {
	// A single item
	// in: body
	Body domain.Item
}

// No content response for endpoints that return 204
// swagger:response noContentResponse
type noContentResponseWrapper struct{}

// swagger:parameters getItemByID deleteItem updateItem
type itemIDParamsWrapper struct {
	// The ID of the item
	// in: path
	// required: true
	ID int `json:"id"`
}

// swagger:parameters addItem updateItem
type itemBodyParamsWrapper struct {
	// Item to create or replace.
	// in: body
	// required: true
	Body domain.Item
}

// ErrorResponse defines the structure for API error responses
//
// swagger:model
type ErrorResponse struct {
	// The error message
	//
	// required: true
	Message string `json:"message"`

	// Every validation failure, when the request was rejected for its content
	//
	// required: false
	Messages []string `json:"messages,omitempty"`
}
