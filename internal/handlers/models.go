package handlers

import "storefront-service/internal/catalog"

// ProductsResponse is the storefront product listing payload. Products is
// always a non-nil slice so the JSON field marshals as [] rather than null.
type ProductsResponse struct {
	Success    bool               `json:"success"`
	Products   []catalog.Product  `json:"products"`
	Categories []catalog.Category `json:"categories"`
	Error      string             `json:"error,omitempty"`
	Details    string             `json:"details,omitempty"`
}

// HealthResponse reports service liveness and upstream configuration state.
type HealthResponse struct {
	Status           string `json:"status"`
	Timestamp        string `json:"timestamp"`
	CloverConfigured bool   `json:"cloverConfigured"`
}
