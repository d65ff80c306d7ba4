package httputil

import (
	"encoding/json"

	"github.com/valyala/fasthttp"
)

// ErrorResponse represents an API error body
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError describes a single invalid request field
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// WriteJSON writes data as a JSON body with the given status
func WriteJSON(ctx *fasthttp.RequestCtx, data interface{}, status int) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)

	body, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBody([]byte(`{"error":"failed to marshal response"}`))
		return
	}

	ctx.SetBody(body)
}

// WriteOK writes a 200 JSON response
func WriteOK(ctx *fasthttp.RequestCtx, data interface{}) {
	WriteJSON(ctx, data, fasthttp.StatusOK)
}

// WriteErrorResponse writes an error JSON response
func WriteErrorResponse(ctx *fasthttp.RequestCtx, message string, status int) {
	WriteJSON(ctx, ErrorResponse{Error: message}, status)
}

// WriteValidationError writes a 400 response carrying field-level details
func WriteValidationError(ctx *fasthttp.RequestCtx, message string, details []FieldError) {
	WriteJSON(ctx, ErrorResponse{Error: message, Details: details}, fasthttp.StatusBadRequest)
}
