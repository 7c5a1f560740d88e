package admin

import "github.com/vitrine-next/internal/provider"

// Handler 平台后台接口处理器入口
// 说明：该处理器仅用于平台管理端 API。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
