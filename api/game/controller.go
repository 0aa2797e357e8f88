package gameapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/beka-birhanu/snake-duel/game"
	"github.com/beka-birhanu/snake-duel/service"
	"github.com/beka-birhanu/snake-duel/service/i"
	"github.com/gin-gonic/gin"
)

const (
	requestTimeout     = 2 * time.Second
	defaultResultLimit = 20
)

// GameController steers the local snake and reads the game.
type GameController struct {
	game    i.GameControl
	results i.ResultRepo
}

// NewGameController initializes a GameController. results may be nil, in
// which case the results route answers with an empty list.
func NewGameController(g i.GameControl, results i.ResultRepo) *GameController {
	return &GameController{game: g, results: results}
}

// RegisterPublic registers public routes.
func (gc *GameController) RegisterPublic(route *gin.RouterGroup) {
	g := route.Group("/game")
	{
		g.GET("/snapshot", gc.snapshot)
		g.GET("/results", gc.recentResults)
	}
}

// RegisterProtected registers protected routes.
func (gc *GameController) RegisterProtected(route *gin.RouterGroup) {
	g := route.Group("/game")
	{
		g.POST("/steer", gc.steer)
		g.POST("/restart", gc.restart)
		g.POST("/rematch", gc.rematch)
	}
}

func (gc *GameController) snapshot(ctx *gin.Context) {
	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	snap, err := gc.game.Snapshot(timeoutCtx)
	if err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, toSnapshotResponse(snap))
}

func (gc *GameController) steer(ctx *gin.Context) {
	var request SteerRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dir, err := game.ParseDirection(request.Direction)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	if err := gc.game.Steer(timeoutCtx, dir); err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	ctx.Status(http.StatusAccepted)
}

func (gc *GameController) restart(ctx *gin.Context) {
	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	if err := gc.game.Restart(timeoutCtx); err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	ctx.Status(http.StatusAccepted)
}

func (gc *GameController) rematch(ctx *gin.Context) {
	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	if err := gc.game.Rematch(timeoutCtx); err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	ctx.Status(http.StatusAccepted)
}

func (gc *GameController) recentResults(ctx *gin.Context) {
	limit := defaultResultLimit
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	if gc.results == nil {
		ctx.JSON(http.StatusOK, []any{})
		return
	}
	results, err := gc.results.Recent(limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while reading results"})
		return
	}
	ctx.JSON(http.StatusOK, results)
}

func toSnapshotResponse(s game.Snapshot) *SnapshotResponse {
	resp := &SnapshotResponse{
		Tick:      s.Tick,
		Width:     s.Width,
		Height:    s.Height,
		Mode:      s.Mode.String(),
		LocalSlot: s.LocalSlot.String(),
		Snakes:    make([]SnakeResponse, 0, len(s.Snakes)),
		Food:      s.Food,
		Over:      s.Over,
		Checksum:  fmt.Sprintf("%016x", s.Checksum),
	}
	for _, sn := range s.Snakes {
		resp.Snakes = append(resp.Snakes, SnakeResponse{
			Slot:      sn.Slot.String(),
			Cells:     sn.Cells,
			Direction: sn.Direction.String(),
			Alive:     sn.Alive,
			Score:     sn.Score,
			Length:    sn.Length,
		})
	}
	if w, ok := s.Winner(); ok {
		resp.Winner = w.String()
	} else if s.Over && s.Mode == game.Duel {
		resp.Winner = "draw"
	}
	return resp
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, game.ErrInvalidDirection):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotHost), errors.Is(err, service.ErrInDuel):
		return http.StatusConflict
	case errors.Is(err, service.ErrDriverStopped), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
