package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders 报餐 API 安全响应头
// 接口只返回 JSON 与导出文件（CSV/XLSX/ICS），禁止被嵌入和缓存
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cross-Origin-Resource-Policy", "same-site")
		h.Set("Cache-Control", "no-store")

		c.Next()
	}
}
