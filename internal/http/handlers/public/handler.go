package public

import "github.com/vitrine-next/internal/provider"

// Handler 店铺前台接口处理器入口
// 说明：仅用于顾客侧 API（店铺展示、购物车、结算转交）与店铺注册。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
