package shared

import (
	"fmt"
	"strings"
)

// 对外提示统一使用 pt-BR，未收录的 key 原样返回
var messages = map[string]string{
	"error.bad_request":                "Requisição inválida",
	"error.unauthorized":               "Não autenticado",
	"error.forbidden":                  "Sem permissão para esta operação",
	"error.internal":                   "Erro interno, tente novamente",
	"error.auth_header_missing":        "Cabeçalho Authorization ausente",
	"error.auth_header_invalid":        "Cabeçalho Authorization inválido",
	"error.jwt_secret_missing":         "Chave JWT não configurada",
	"error.token_invalid":              "Sessão inválida ou expirada",
	"error.token_revoked":              "Sessão encerrada, faça login novamente",
	"error.login_too_many":             "Muitas tentativas, aguarde %d segundos",
	"error.rate_limited":               "Muitas requisições, aguarde %d segundos",
	"error.checkout_too_many":          "Muitos pedidos enviados, aguarde %d segundos",
	"error.rate_limit_unavailable":     "Limitador indisponível no momento",
	"error.invalid_credentials":        "E-mail ou senha incorretos",
	"error.account_disabled":           "Conta desativada",
	"error.password_invalid":           "Senha atual incorreta",
	"error.password_weak":              "A senha não atende à política de segurança",
	"error.password_min_length":        "A senha deve ter pelo menos %d caracteres",
	"error.password_max_length":        "A senha deve ter no máximo %d bytes",
	"error.password_contains_identity": "A senha não pode conter o e-mail ou o endereço da loja",
	"error.password_require_upper":     "A senha deve conter uma letra maiúscula",
	"error.password_require_lower":     "A senha deve conter uma letra minúscula",
	"error.password_require_number":    "A senha deve conter um número",
	"error.email_exists":               "E-mail já cadastrado",
	"error.username_exists":            "Usuário já cadastrado",
	"error.captcha_required":           "Informe o código da imagem",
	"error.captcha_invalid":            "Código da imagem incorreto",
	"error.captcha_unavailable":        "Verificação por imagem indisponível",
	"error.store_not_found":            "Loja não encontrada",
	"error.store_suspended":            "Loja suspensa",
	"error.store_status_invalid":       "Status de loja inválido",
	"error.store_status_noop":          "A loja já está neste status",
	"error.store_fetch_failed":         "Falha ao carregar a loja",
	"error.store_update_failed":        "Falha ao atualizar a loja",
	"error.store_register_failed":      "Falha ao cadastrar a loja",
	"error.slug_invalid":               "Slug inválido: use 3 a 60 letras minúsculas, números ou hífen",
	"error.slug_exists":                "Slug já está em uso",
	"error.whatsapp_invalid":           "Número de WhatsApp inválido",
	"error.category_not_found":         "Categoria não encontrada",
	"error.category_in_use":            "A categoria ainda possui produtos",
	"error.product_not_found":          "Produto não encontrado",
	"error.product_inactive":           "Produto indisponível",
	"error.variant_invalid":            "Tamanho ou cor inválidos para este produto",
	"error.stock_unavailable":          "Estoque insuficiente",
	"error.kit_not_found":              "Kit não encontrado",
	"error.kit_price_invalid":          "O preço do kit deve ser maior que zero",
	"error.kit_items_invalid":          "Itens do kit inválidos",
	"error.banner_not_found":           "Banner não encontrado",
	"error.coupon_not_found":           "Cupom não encontrado",
	"error.coupon_unknown":             "Cupom inválido ou expirado",
	"error.coupon_min_amount":          "Valor mínimo do pedido não atingido para este cupom",
	"error.coupon_code_exists":         "Código de cupom já existe",
	"error.coupon_value_invalid":       "Valor do cupom inválido",
	"error.coupon_type_invalid":        "Tipo de cupom inválido",
	"error.coupon_window_invalid":      "Período de validade inválido",
	"error.cart_token_missing":         "Sessão de carrinho ausente",
	"error.cart_item_not_found":        "Item não está no carrinho",
	"error.cart_empty":                 "Carrinho vazio",
	"error.cart_busy":                  "Carrinho em atualização, tente novamente",
	"error.cep_invalid":                "CEP inválido",
	"error.customer_info_required":     "Informe nome, telefone e endereço",
	"error.payment_method_invalid":     "Forma de pagamento inválida",
	"error.order_not_found":            "Pedido não encontrado",
	"error.order_status_invalid":       "Mudança de status não permitida",
	"error.order_status_conflict":      "O pedido foi alterado por outra operação",
	"error.order_stock_insufficient":   "Estoque insuficiente para confirmar o pedido",
	"error.dashboard_range_invalid":    "Período inválido",
	"error.role_invalid":               "Papel não definido",
	"error.admin_not_found":            "Administrador não encontrado",
	"error.id_invalid":                 "Identificador inválido",
	"error.checkout_failed":            "Falha ao finalizar o pedido",
	"error.cart_failed":                "Falha ao atualizar o carrinho",
	"error.catalog_fetch_failed":       "Falha ao carregar o catálogo",
	"error.catalog_save_failed":        "Falha ao salvar",
	"error.order_fetch_failed":         "Falha ao carregar pedidos",
	"error.order_update_failed":        "Falha ao atualizar o pedido",
	"error.dashboard_fetch_failed":     "Falha ao carregar o painel",
	"error.audit_log_fetch_failed":     "Falha ao carregar o registro de auditoria",
	"error.admin_save_failed":          "Falha ao salvar o administrador",
	"error.captcha_generate_failed":    "Falha ao gerar o código da imagem",
	"error.login_failed":               "Falha ao entrar, tente novamente",
	"error.profile_fetch_failed":       "Falha ao carregar o perfil",
	"error.password_change_failed":     "Falha ao alterar a senha",
	"error.merchant_id_invalid":        "Identificador de lojista inválido",
	"error.merchant_id_type_invalid":   "Identificador de lojista com tipo inválido",
	"error.admin_id_invalid":           "Identificador de administrador inválido",
	"error.admin_id_type_invalid":      "Identificador de administrador com tipo inválido",
	"error.store_id_invalid":           "Identificador de loja inválido",
	"error.store_id_type_invalid":      "Identificador de loja com tipo inválido",
	"message.store_registered":         "Loja cadastrada com sucesso",
	"message.order_sent_to_whatsapp":   "Pedido gerado, continue no WhatsApp",
	"message.password_changed":         "Senha alterada, faça login novamente",
	"message.store_status_changed":     "Status da loja atualizado",
	"message.coupon_applied":           "Cupom aplicado",
	"message.cart_cleared":             "Carrinho esvaziado",
}

// T 返回 key 对应的提示文案
func T(key string) string {
	if msg, ok := messages[strings.TrimSpace(key)]; ok {
		return msg
	}
	return key
}

// Sprintf 返回带参数的提示文案
func Sprintf(key string, args ...interface{}) string {
	return fmt.Sprintf(T(key), args...)
}
