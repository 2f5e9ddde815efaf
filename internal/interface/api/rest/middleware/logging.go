package middleware

import (
	"bytes"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"expiry-scanner-api/internal/infrastructure/metrics"
)

const maxLogBodySize = 1 << 12 // 4 KB

var passwordRe = regexp.MustCompile(`("password"\s*:\s*)"(?:[^"\\]|\\.)*"`)

func RequestLogGin(logger *zap.Logger, mCounter *prometheus.CounterVec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions ||
			c.Request.URL.Path == "/favicon.ico" ||
			strings.HasSuffix(c.Request.URL.Path, "/metrics") {
			c.Next()
			return
		}

		start := time.Now()

		var body string
		if c.Request.Body != nil && c.Request.Body != http.NoBody {
			var buf bytes.Buffer
			_, _ = io.Copy(&buf, io.LimitReader(c.Request.Body, maxLogBodySize))
			body = maskSecrets(buf.String())
			// the handler still reads the full body
			c.Request.Body = readCloser{
				Reader: io.MultiReader(bytes.NewReader(buf.Bytes()), c.Request.Body),
				Closer: c.Request.Body,
			}
		}

		c.Next()

		if mCounter != nil {
			mCounter.WithLabelValues(metrics.RequestsTotal).Inc()
		}

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("url", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("body", body),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		)
	}
}

type readCloser struct {
	io.Reader
	io.Closer
}

func maskSecrets(body string) string {
	return passwordRe.ReplaceAllString(body, `$1"***"`)
}
