package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rinov1/WorkWave/internal/shared/contextutil"
	"github.com/rinov1/WorkWave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader   = "Idempotency-Key"
	idempotencyLockTTL  = 30 * time.Second
	idempotencyReplayed = "Idempotent-Replayed"
)

type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored 2xx response for a repeated POST with the same
// Idempotency-Key. A concurrent duplicate gets 409 while the first one runs.
func Idempotency(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader(IdempotencyHeader)
		if idempKey == "" || c.Request.Method != http.MethodPost || rdb == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		logger := contextutil.GetLogger(ctx, zap.L())
		cacheKey := fmt.Sprintf("idemp:%s:%d:%s", c.FullPath(), AccountID(c), idempKey)
		lockKey := cacheKey + ":lock"

		if cached, err := rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			if status, body, ok := decodeStoredResponse(cached); ok {
				c.Header(idempotencyReplayed, "true")
				c.Data(status, "application/json; charset=utf-8", body)
				c.Abort()
				return
			}
		}

		acquired, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			logger.Warn("idempotency lock unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !acquired {
			response.Error(c, http.StatusConflict, "PROCESSING", "The same request is still being processed", nil)
			c.Abort()
			return
		}
		defer func() {
			if err := rdb.Del(ctx, lockKey).Err(); err != nil {
				logger.Warn("idempotency lock release failed", zap.Error(err))
			}
		}()

		writer := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		status := writer.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}
		if err := rdb.Set(ctx, cacheKey, encodeStoredResponse(status, writer.body.Bytes()), ttl).Err(); err != nil {
			logger.Warn("idempotency response not stored", zap.Error(err))
		}
	}
}

// Stored responses are "<status>\n<body>".
func encodeStoredResponse(status int, body []byte) []byte {
	out := make([]byte, 0, len(body)+4)
	out = strconv.AppendInt(out, int64(status), 10)
	out = append(out, '\n')
	return append(out, body...)
}

func decodeStoredResponse(raw []byte) (int, []byte, bool) {
	i := bytes.IndexByte(raw, '\n')
	if i <= 0 {
		return 0, nil, false
	}
	status, err := strconv.Atoi(string(raw[:i]))
	if err != nil {
		return 0, nil, false
	}
	return status, raw[i+1:], true
}
