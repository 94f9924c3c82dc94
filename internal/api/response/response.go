package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope used by admin endpoints and every error.
type Response struct {
	Success bool `json:"success"`
	Code    int  `json:"code"`
	Extras  any  `json:"extras"`
}

func NewResponse(success bool, code int, extras any) Response {
	return Response{
		Success: success,
		Code:    code,
		Extras:  extras,
	}
}

// SuccessResponse writes a 200 envelope carrying extras
func SuccessResponse(c *gin.Context, extras any) {
	c.JSON(
		http.StatusOK,
		NewResponse(
			true,
			http.StatusOK,
			extras,
		))
}

// Raw writes body as-is with a 200, for endpoints whose clients expect a
// bare payload (token grants, evaluate results).
func Raw(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

// ErrorResponse writes a failed envelope and aborts the handler chain
func ErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(
		code,
		NewResponse(
			false,
			code,
			map[string]any{
				"message": message,
			},
		))
}
