// Package settingsapi reads and changes the game configuration over HTTP.
package settingsapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/beka-birhanu/snake-duel/game"
	"github.com/beka-birhanu/snake-duel/service"
	"github.com/beka-birhanu/snake-duel/service/i"
	"github.com/gin-gonic/gin"
)

const requestTimeout = 2 * time.Second

// OptionRequest changes one named option.
type OptionRequest struct {
	Name  string `json:"name" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// SettingsController serves the configuration routes. Changes apply from
// the next game reset.
type SettingsController struct {
	config i.ConfigControl
}

// NewSettingsController initializes a SettingsController.
func NewSettingsController(c i.ConfigControl) *SettingsController {
	return &SettingsController{config: c}
}

// RegisterPublic registers public routes.
func (sc *SettingsController) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/config", sc.get)
	route.GET("/config/options", sc.options)
}

// RegisterProtected registers protected routes.
func (sc *SettingsController) RegisterProtected(route *gin.RouterGroup) {
	route.PATCH("/config", sc.setOption)
	route.PUT("/config", sc.replace)
}

func (sc *SettingsController) get(ctx *gin.Context) {
	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	cfg, err := sc.config.Config(timeoutCtx)
	if err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, cfg)
}

func (sc *SettingsController) options(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"options": service.OptionNames()})
}

func (sc *SettingsController) setOption(ctx *gin.Context) {
	var request OptionRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	cfg, err := sc.config.SetOption(timeoutCtx, request.Name, request.Value)
	if err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, cfg)
}

func (sc *SettingsController) replace(ctx *gin.Context) {
	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	// Missing fields keep their current values.
	cfg, err := sc.config.Config(timeoutCtx)
	if err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	if err := ctx.ShouldBindJSON(&cfg); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, err = sc.config.ReplaceConfig(timeoutCtx, cfg)
	if err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, cfg)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrUnknownOption):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrDriverStopped), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
