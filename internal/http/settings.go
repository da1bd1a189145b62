package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/gong/internal/entities"
)

type SettingsController struct {
	settings SettingsStore
}

func NewSettingsController(settings SettingsStore) *SettingsController {
	return &SettingsController{settings: settings}
}

// UpdateSettingRequest carries a boolean or an enumeration tag.
type UpdateSettingRequest struct {
	Value *entities.SettingValue `json:"value"`
}

func (controller *SettingsController) GetSettings(c *gin.Context) {
	all, err := controller.settings.GetAll(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "settings")
		return
	}
	c.IndentedJSON(http.StatusOK, all)
}

func (controller *SettingsController) UpdateSetting(c *gin.Context) {
	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Value == nil {
		respondBadRequest(c, "value is required")
		return
	}

	key := entities.SettingKey(c.Param("key"))
	if err := controller.settings.Update(c.Request.Context(), key, *req.Value); err != nil {
		respondStoreError(c, err, "setting")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"key": key, "value": *req.Value})
}
