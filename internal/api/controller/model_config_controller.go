package controller

import (
	"github.com/gin-gonic/gin"

	"ctchen222/Prompt-Benchmark/internal/api/models"
	"ctchen222/Prompt-Benchmark/internal/api/response"
	"ctchen222/Prompt-Benchmark/internal/api/service"
)

// ModelConfigController serves the admin model config endpoints.
type ModelConfigController struct {
	modelConfigService service.ModelConfigService
}

func NewModelConfigController(modelConfigService service.ModelConfigService) *ModelConfigController {
	return &ModelConfigController{modelConfigService: modelConfigService}
}

func (mc *ModelConfigController) List(c *gin.Context) {
	configs, err := mc.modelConfigService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessResponse(c, configs)
}

func (mc *ModelConfigController) Get(c *gin.Context) {
	id, err := ParamID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	config, err := mc.modelConfigService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessResponse(c, config)
}

func (mc *ModelConfigController) Create(c *gin.Context) {
	var req models.CreateModelConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	created, err := mc.modelConfigService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessResponse(c, created)
}

func (mc *ModelConfigController) Delete(c *gin.Context) {
	id, err := ParamID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := mc.modelConfigService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessResponse(c, gin.H{"ok": true})
}
