package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"go-gatepass/internal/shared/response"
)

// Idempotency mencegah pass ganda saat klien retry POST yang sama.
// Handler yang memakai middleware ini wajib menghapus lock dan mengisi
// cache lewat key yang disimpan di context.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		userID := c.GetString("user_id_validated")

		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock" // Key khusus untuk locking

		// 1. CEK CACHE: replay respons yang sudah pernah sukses
		val, err := rdb.Get(c.Request.Context(), cacheKey).Result()
		if err == nil {
			var cachedRes any
			json.Unmarshal([]byte(val), &cachedRes)
			c.AbortWithStatusJSON(http.StatusOK, response.ApiEnvelope{
				Ok:   true,
				Data: cachedRes,
			})
			return
		}

		// 2. ATOMIC LOCK (SetNX)
		// Jika lock sudah ada, request kembar masih diproses.
		// Expiry pendek supaya lock hilang sendiri kalau server crash.
		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()

		if !isNew {
			c.AbortWithStatusJSON(http.StatusConflict, response.ApiEnvelope{
				Ok: false,
				Error: map[string]any{
					"code":    "PROCESSING",
					"message": "Permintaan Anda sedang diproses, mohon tunggu sebentar.",
				},
			})
			return
		}

		// Handler menghapus lock dan mengisi cache setelah selesai
		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		c.Next()
	}
}
