package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"siwarapos/internal/dto"
	"siwarapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	boardCacheKey = "queue:board"
	boardCacheTTL = 3 * time.Second
)

// QueueHandler serves the bar display board. The display polls every few
// seconds from several screens, so the snapshot is cached briefly in Redis
// to keep the poll loop off the database.
type QueueHandler struct {
	svc service.OrderService
	rdb *redis.Client
}

func NewQueueHandler(svc service.OrderService, rdb *redis.Client) *QueueHandler {
	return &QueueHandler{svc: svc, rdb: rdb}
}

// Board godoc
// @Summary Returns the live queue board grouped by column
// @Tags queue
// @Produce json
// @Success 200 {object} dto.QueueBoardResponse
// @Router /v1/queue/board [get]
func (h *QueueHandler) Board(c *gin.Context) {
	ctx := c.Request.Context()

	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, boardCacheKey).Bytes(); err == nil {
			var resp dto.QueueBoardResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	board, err := h.svc.QueueBoard(ctx, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	// Populate cache — best effort, ignore errors
	if h.rdb != nil {
		if b, jsonErr := json.Marshal(board); jsonErr == nil {
			_ = h.rdb.Set(context.Background(), boardCacheKey, b, boardCacheTTL).Err()
		}
	}

	c.JSON(http.StatusOK, board)
}
