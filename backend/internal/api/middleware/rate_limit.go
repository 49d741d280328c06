package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/johamwon/mealOrd/backend/pkg/redis"
	"github.com/johamwon/mealOrd/backend/pkg/response"
)

const rateLimitPrefix = "meal:ratelimit:"

// RateLimit 按 客户端 IP + 方法 + 路由 计数的滑动窗口限流
// 同一台报餐终端反复提交时返回 429 并给出 Retry-After
// rdb 为 nil、limit<=0 或 Redis 出错时放行
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(window.Seconds()))

	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		key := rateLimitPrefix + c.ClientIP() + ":" + c.Request.Method + ":" + route

		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil || allowed {
			c.Next()
			return
		}

		c.Header("Retry-After", retryAfter)
		response.Error(c, http.StatusTooManyRequests, 10004, "操作过于频繁，请稍后再试")
		c.Abort()
	}
}
