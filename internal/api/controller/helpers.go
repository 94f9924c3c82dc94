package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"ctchen222/Prompt-Benchmark/internal/api/response"
	"ctchen222/Prompt-Benchmark/internal/apperror"
	"ctchen222/Prompt-Benchmark/internal/validator"
)

// ParamID parses a positive integer path parameter.
func ParamID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.InvalidInput("invalid " + name)
	}
	return id, nil
}

// bindFailed reports a request binding error as invalid input.
func bindFailed(c *gin.Context, err error) {
	response.Error(c, apperror.InvalidInput(validator.Describe(err)))
}
