package controller

import (
	"net/http"

	"gitee.com/czyczk/evote-ballot-engine/internal/models/common"
	"gitee.com/czyczk/evote-ballot-engine/internal/service"
	"github.com/gin-gonic/gin"
)

// A TokenController contains a group name, a `TokenService` and a `BridgeService` instance. It also implements the interface `Controller`.
type TokenController struct {
	GroupName string
	TokenSvc  service.TokenServiceInterface
	BridgeSvc service.BridgeServiceInterface
}

// GetGroupName returns the group name.
func (tc *TokenController) GetGroupName() string {
	return tc.GroupName
}

// GetEndpointMap implements part of the interface `Controller`. It returns the API endpoints and handlers which are defined and managed by TokenController.
func (tc *TokenController) GetEndpointMap() EndpointMap {
	return EndpointMap{
		urlMethodPair{"/:token/validate", "GET"}:           []gin.HandlerFunc{tc.handleValidateToken},
		urlMethodPair{"/:token/identity", "POST"}:          []gin.HandlerFunc{tc.handleVerifyIdentity},
		urlMethodPair{"/:token/identity", "GET"}:           []gin.HandlerFunc{tc.handleGetMFAStatus},
		urlMethodPair{"/:token/state", "GET"}:              []gin.HandlerFunc{tc.handleGetTokenState},
		urlMethodPair{"/:token/ballot-credential", "POST"}: []gin.HandlerFunc{tc.handleIssueBallotCredential},
	}
}

func (tc *TokenController) handleValidateToken(c *gin.Context) {
	pel := &ParameterErrorList{}
	token := pel.AppendIfEmptyOrBlankSpaces(c.Param("token"), "令牌不能为空。")
	if len(*pel) > 0 {
		abortWithParameterErrors(c, pel)
		return
	}

	result, err := tc.TokenSvc.ValidateToken(token)
	if err == nil {
		c.JSON(http.StatusOK, result)
	} else {
		abortWithServiceError(c, err)
	}
}

func (tc *TokenController) handleVerifyIdentity(c *gin.Context) {
	pel := &ParameterErrorList{}
	token := pel.AppendIfEmptyOrBlankSpaces(c.Param("token"), "令牌不能为空。")
	dateOfBirth := pel.AppendIfEmptyOrBlankSpaces(c.PostForm("dateOfBirth"), "出生日期不能为空。")
	if dateOfBirth != "" {
		dateOfBirth = pel.AppendIfNotDate(dateOfBirth, service.DateOfBirthLayout, "出生日期格式应为 YYYY-MM-DD。")
	}

	if len(*pel) > 0 {
		abortWithParameterErrors(c, pel)
		return
	}

	result, err := tc.TokenSvc.VerifyIdentity(token, dateOfBirth)
	if err == nil {
		c.JSON(http.StatusOK, result)
	} else {
		abortWithServiceError(c, err)
	}
}

func (tc *TokenController) handleGetMFAStatus(c *gin.Context) {
	pel := &ParameterErrorList{}
	token := pel.AppendIfEmptyOrBlankSpaces(c.Param("token"), "令牌不能为空。")
	if len(*pel) > 0 {
		abortWithParameterErrors(c, pel)
		return
	}

	result, err := tc.TokenSvc.MFAStatus(token)
	if err == nil {
		c.JSON(http.StatusOK, result)
	} else {
		abortWithServiceError(c, err)
	}
}

func (tc *TokenController) handleGetTokenState(c *gin.Context) {
	pel := &ParameterErrorList{}
	token := pel.AppendIfEmptyOrBlankSpaces(c.Param("token"), "令牌不能为空。")
	if len(*pel) > 0 {
		abortWithParameterErrors(c, pel)
		return
	}

	state, err := tc.TokenSvc.TokenState(token)
	if err == nil {
		c.JSON(http.StatusOK, common.TokenStateInfo{State: state})
	} else {
		abortWithServiceError(c, err)
	}
}

func (tc *TokenController) handleIssueBallotCredential(c *gin.Context) {
	pel := &ParameterErrorList{}
	token := pel.AppendIfEmptyOrBlankSpaces(c.Param("token"), "令牌不能为空。")
	if len(*pel) > 0 {
		abortWithParameterErrors(c, pel)
		return
	}

	result, err := tc.BridgeSvc.IssueBallotCredential(token)
	if err == nil {
		// The credential is shown exactly once and must not be cached anywhere on the way.
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusCreated, result)
	} else {
		abortWithServiceError(c, err)
	}
}
