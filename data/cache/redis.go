package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/stockswidget/stocks_widget_service/internal/model"
	"github.com/stockswidget/stocks_widget_service/utils"
)

var ErrNotFound = errors.New("error not found")

const boardSnapshotKey = "board:snapshot"

// RedisCache keeps the latest rendered board snapshot so freshly attached
// widgets get the last successful render immediately, including across
// service restarts. Quotes themselves are never cached here.
type RedisCache struct {
	redis *redis.Client
}

func NewRedisCache(redisClient *redis.Client) *RedisCache {
	return &RedisCache{redis: redisClient}
}

func (r *RedisCache) SetBoardSnapshot(ctx context.Context, snapshot model.BoardSnapshot) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("SetBoardSnapshot start", slog.String("rqID", rqID))

	snapshotJson, err := json.Marshal(snapshot)
	if err != nil {
		slog.Error("can't marshal snapshot in SetBoardSnapshot", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	_, err = r.redis.Set(ctx, boardSnapshotKey, snapshotJson, 0).Result()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("SetBoardSnapshot completed", slog.String("rqID", rqID))

	return nil
}

func (r *RedisCache) GetBoardSnapshot(ctx context.Context) (model.BoardSnapshot, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("GetBoardSnapshot start", slog.String("rqID", rqID))

	res, err := r.redis.Get(ctx, boardSnapshotKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.BoardSnapshot{}, ErrNotFound
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return model.BoardSnapshot{}, err
	}

	snapshot := model.BoardSnapshot{}
	if err := json.Unmarshal([]byte(res), &snapshot); err != nil {
		slog.Error("can't unmarshal snapshot in GetBoardSnapshot", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return model.BoardSnapshot{}, err
	}

	slog.Debug("GetBoardSnapshot completed", slog.String("rqID", rqID))

	return snapshot, nil
}
