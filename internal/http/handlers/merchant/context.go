package merchant

import (
	"github.com/vitrine-next/internal/constants"
	handlershared "github.com/vitrine-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func getMerchantID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, constants.ContextMerchantID, "error.merchant_id_invalid", "error.merchant_id_type_invalid")
}

func getStoreID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, constants.ContextStoreID, "error.store_id_invalid", "error.store_id_type_invalid")
}

func respondCatalogSaveError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, handlershared.CatalogErrorRules, "error.catalog_save_failed")
}

func respondCatalogFetchError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, handlershared.CatalogErrorRules, "error.catalog_fetch_failed")
}
