package shared

import (
	"errors"

	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/http/response"
	"github.com/vitrine-next/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get(constants.ContextRequestID); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 按消息 key 返回错误响应，有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	appErr := response.WrapError(code, T(key), err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// MappedError 业务错误到接口响应的映射规则。
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// keyedError 携带消息 key 与参数的错误（如密码策略）
type keyedError interface {
	Key() string
	Args() []interface{}
}

// RespondMappedError 命中规则时按规则响应，否则记录原始错误并返回兜底文案。
func RespondMappedError(c *gin.Context, err error, rules []MappedError, fallbackKey string) {
	var keyed keyedError
	if errors.As(err, &keyed) {
		response.Error(c, response.CodeBadRequest, Sprintf(keyed.Key(), keyed.Args()...))
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, response.CodeInternal, fallbackKey, err)
}

// ConcatMappedErrors 合并多组规则，靠前的优先匹配。
func ConcatMappedErrors(groups ...[]MappedError) []MappedError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]MappedError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}
