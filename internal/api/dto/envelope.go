package dto

// Envelope is the body of every API response.
type Envelope struct {
	Error   bool          `json:"error"`
	Message string        `json:"message"`
	Data    any           `json:"data,omitempty"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}
