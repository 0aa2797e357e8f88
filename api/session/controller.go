// Package sessionapi exposes the peer connection over HTTP.
package sessionapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	dmn "github.com/beka-birhanu/snake-duel/domain"
	"github.com/beka-birhanu/snake-duel/service"
	"github.com/beka-birhanu/snake-duel/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestTimeout = 2 * time.Second

// ConnectRequest names the host to connect to.
type ConnectRequest struct {
	PeerID string `json:"peer_id" binding:"required"`
}

// SessionController manages hosting and connecting.
type SessionController struct {
	session i.SessionControl
}

// NewSessionController initializes a SessionController.
func NewSessionController(s i.SessionControl) *SessionController {
	return &SessionController{session: s}
}

// RegisterPublic registers public routes.
func (sc *SessionController) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/session/status", sc.status)
}

// RegisterProtected registers protected routes.
func (sc *SessionController) RegisterProtected(route *gin.RouterGroup) {
	session := route.Group("/session")
	{
		session.POST("/host", sc.host)
		session.POST("/connect", sc.connect)
		session.POST("/disconnect", sc.disconnect)
		session.POST("/ping", sc.ping)
	}
}

func (sc *SessionController) status(ctx *gin.Context) {
	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	st, err := sc.session.Status(timeoutCtx)
	if err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, st)
}

func (sc *SessionController) host(ctx *gin.Context) {
	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	st, err := sc.session.Host(timeoutCtx)
	if err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusAccepted, st)
}

func (sc *SessionController) connect(ctx *gin.Context) {
	var request ConnectRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	peer, err := uuid.Parse(request.PeerID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid peer id"})
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	st, err := sc.session.Connect(timeoutCtx, peer)
	if err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusAccepted, st)
}

func (sc *SessionController) disconnect(ctx *gin.Context) {
	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	if err := sc.session.Disconnect(timeoutCtx); err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (sc *SessionController) ping(ctx *gin.Context) {
	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	if err := sc.session.Ping(timeoutCtx); err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	ctx.Status(http.StatusAccepted)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrSelfConnect):
		return http.StatusBadRequest
	case errors.Is(err, dmn.ErrPeerNotFound):
		return http.StatusNotFound
	case errors.Is(err, dmn.ErrAlreadyConnected), errors.Is(err, service.ErrNotConnected):
		return http.StatusConflict
	case errors.Is(err, service.ErrDriverStopped), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
