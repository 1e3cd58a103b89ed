package controller

import (
	"net/http"

	"gitee.com/czyczk/evote-ballot-engine/internal/service"
	"github.com/gin-gonic/gin"
)

// A ReceiptController contains a group name and a `ReceiptService` instance. It also implements the interface `Controller`.
type ReceiptController struct {
	GroupName  string
	ReceiptSvc service.ReceiptServiceInterface
}

// GetGroupName returns the group name.
func (rc *ReceiptController) GetGroupName() string {
	return rc.GroupName
}

// GetEndpointMap implements part of the interface `Controller`. It returns the API endpoints and handlers which are defined and managed by ReceiptController.
func (rc *ReceiptController) GetEndpointMap() EndpointMap {
	return EndpointMap{
		urlMethodPair{"/:receipt", "GET"}: []gin.HandlerFunc{rc.handleVerifyReceipt},
	}
}

func (rc *ReceiptController) handleVerifyReceipt(c *gin.Context) {
	pel := &ParameterErrorList{}
	receipt := pel.AppendIfEmptyOrBlankSpaces(c.Param("receipt"), "回执不能为空。")
	if len(*pel) > 0 {
		abortWithParameterErrors(c, pel)
		return
	}

	result, err := rc.ReceiptSvc.VerifyReceipt(receipt)
	if err == nil {
		c.JSON(http.StatusOK, result)
	} else {
		abortWithServiceError(c, err)
	}
}
