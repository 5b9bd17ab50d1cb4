package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gobox-app/internal/models"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// 代数 key 只需比一次回源更长
const latestGenerationTTL = 24 * time.Hour

// KEYS[1] 快照 key，KEYS[2] 代数 key；代数未变才写入
var setLatestIfGenerationScript = redis.NewScript(`
local current = redis.call("GET", KEYS[2]) or "0"
if current ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// 先推进代数再删快照，正在回源的读取据此放弃写入
var invalidateLatestScript = redis.NewScript(`
redis.call("INCR", KEYS[2])
redis.call("PEXPIRE", KEYS[2], ARGV[1])
return redis.call("DEL", KEYS[1])
`)

func latestDeliveryKey(userID uint) string {
	return fmt.Sprintf("delivery:latest:%d", userID)
}

func latestGenerationKey(userID uint) string {
	return fmt.Sprintf("delivery:latest:gen:%d", userID)
}

func submitLockKey(userID uint, formToken string) string {
	return fmt.Sprintf("delivery:submit:%d:%s", userID, formToken)
}

// GetLatestDelivery 读取用户最近取件单快照
func GetLatestDelivery(ctx context.Context, userID uint) (*models.DeliveryRequest, bool, error) {
	var request models.DeliveryRequest
	hit, err := GetJSON(ctx, latestDeliveryKey(userID), &request)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &request, true, nil
}

// LatestDeliveryGeneration 读取快照代数，回源查询前调用
func LatestDeliveryGeneration(ctx context.Context, userID uint) (int64, error) {
	if !Enabled() {
		return 0, nil
	}
	gen, err := redisClient.Get(ctx, buildKey(latestGenerationKey(userID))).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "redis get generation")
	}
	return gen, nil
}

// SetLatestDeliveryIfGeneration 仅当代数仍为 generation 时写入快照
// 返回 false 表示期间发生过失效，本次结果已过期
func SetLatestDeliveryIfGeneration(ctx context.Context, request *models.DeliveryRequest, generation int64, ttl time.Duration) (bool, error) {
	if !Enabled() || request == nil || request.UserID == 0 {
		return false, nil
	}
	payload, err := json.Marshal(request)
	if err != nil {
		return false, err
	}
	stored, err := setLatestIfGenerationScript.Run(ctx, redisClient,
		[]string{buildKey(latestDeliveryKey(request.UserID)), buildKey(latestGenerationKey(request.UserID))},
		generation, payload, ttl.Milliseconds()).Int()
	if err != nil {
		return false, errors.Wrap(err, "redis set latest")
	}
	return stored == 1, nil
}

// DelLatestDelivery 失效最近取件单快照（创建或状态变更后调用）
func DelLatestDelivery(ctx context.Context, userID uint) error {
	if userID == 0 || !Enabled() {
		return nil
	}
	err := invalidateLatestScript.Run(ctx, redisClient,
		[]string{buildKey(latestDeliveryKey(userID)), buildKey(latestGenerationKey(userID))},
		latestGenerationTTL.Milliseconds()).Err()
	return errors.Wrap(err, "redis invalidate latest")
}

// AcquireSubmitLock 同一表单实例同一时刻只允许一次提交
func AcquireSubmitLock(ctx context.Context, userID uint, formToken, holder string, ttl time.Duration) (bool, error) {
	return TryLock(ctx, submitLockKey(userID, formToken), holder, ttl)
}

// ReleaseSubmitLock 释放提交锁
func ReleaseSubmitLock(ctx context.Context, userID uint, formToken, holder string) error {
	return Unlock(ctx, submitLockKey(userID, formToken), holder)
}
