package gateway

// ErrorResponse is the JSON envelope returned for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse acknowledges a request that has no payload of its own.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
