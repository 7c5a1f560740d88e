package merchant

import "github.com/vitrine-next/internal/provider"

// Handler 商户后台接口处理器
// 所有接口均以 JWT 中的 store_id 为租户边界，不接受请求体里的店铺标识。
type Handler struct {
	*provider.Container
}

// New 创建商户处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
