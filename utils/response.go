package utils

import "github.com/gin-gonic/gin"

// errorBody is the uniform error envelope: {"error": "<message>"}.
// Success responses carry the record itself, no envelope.
type errorBody struct {
	Error string `json:"error"`
}

// Error writes the uniform error response with the given status code.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, errorBody{Error: message})
}
