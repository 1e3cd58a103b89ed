package controller

import (
	"net/http"

	"gitee.com/czyczk/evote-ballot-engine/internal/service"
	"github.com/gin-gonic/gin"
)

// An ElectionController contains a group name and the services of the anonymous side. It also implements the interface `Controller`.
type ElectionController struct {
	GroupName  string
	LedgerSvc  service.LedgerServiceInterface
	AuditSvc   service.AuditServiceInterface
	ResultsSvc service.ResultsServiceInterface
}

// GetGroupName returns the group name.
func (ec *ElectionController) GetGroupName() string {
	return ec.GroupName
}

// GetEndpointMap implements part of the interface `Controller`. It returns the API endpoints and handlers which are defined and managed by ElectionController.
func (ec *ElectionController) GetEndpointMap() EndpointMap {
	return EndpointMap{
		urlMethodPair{"/:id/ballot", "GET"}:     []gin.HandlerFunc{ec.handleGetBallot},
		urlMethodPair{"/:id/votes", "POST"}:     []gin.HandlerFunc{ec.handleCastVote},
		urlMethodPair{"/:id/audit", "GET"}:      []gin.HandlerFunc{ec.handleGetAuditTrail},
		urlMethodPair{"/:id/results", "GET"}:    []gin.HandlerFunc{ec.handleGetResults},
		urlMethodPair{"/:id/statistics", "GET"}: []gin.HandlerFunc{ec.handleGetStatistics},
	}
}

func (ec *ElectionController) handleGetBallot(c *gin.Context) {
	pel := &ParameterErrorList{}
	electionID := pel.AppendIfNotID(c.Param("id"), "选举 ID 不合法。")
	if len(*pel) > 0 {
		abortWithParameterErrors(c, pel)
		return
	}

	result, err := ec.LedgerSvc.GetBallot(electionID)
	if err == nil {
		c.JSON(http.StatusOK, result)
	} else {
		abortWithServiceError(c, err)
	}
}

func (ec *ElectionController) handleCastVote(c *gin.Context) {
	pel := &ParameterErrorList{}
	electionID := pel.AppendIfNotID(c.Param("id"), "选举 ID 不合法。")
	ballotCredential := pel.AppendIfEmptyOrBlankSpaces(c.PostForm("ballotCredential"), "选票凭证不能为空。")
	optionID := pel.AppendIfNotID(c.PostForm("optionId"), "选项 ID 不合法。")
	if len(*pel) > 0 {
		abortWithParameterErrors(c, pel)
		return
	}

	result, err := ec.LedgerSvc.CastVote(ballotCredential, optionID, electionID)
	if err == nil {
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusCreated, result)
	} else {
		abortWithServiceError(c, err)
	}
}

func (ec *ElectionController) handleGetAuditTrail(c *gin.Context) {
	pel := &ParameterErrorList{}
	electionID := pel.AppendIfNotID(c.Param("id"), "选举 ID 不合法。")
	if len(*pel) > 0 {
		abortWithParameterErrors(c, pel)
		return
	}

	result, err := ec.AuditSvc.AuditTrail(electionID)
	if err == nil {
		c.JSON(http.StatusOK, result)
	} else {
		abortWithServiceError(c, err)
	}
}

func (ec *ElectionController) handleGetResults(c *gin.Context) {
	pel := &ParameterErrorList{}
	electionID := pel.AppendIfNotID(c.Param("id"), "选举 ID 不合法。")
	if len(*pel) > 0 {
		abortWithParameterErrors(c, pel)
		return
	}

	result, err := ec.ResultsSvc.Tally(electionID)
	if err == nil {
		c.JSON(http.StatusOK, result)
	} else {
		abortWithServiceError(c, err)
	}
}

func (ec *ElectionController) handleGetStatistics(c *gin.Context) {
	pel := &ParameterErrorList{}
	electionID := pel.AppendIfNotID(c.Param("id"), "选举 ID 不合法。")
	if len(*pel) > 0 {
		abortWithParameterErrors(c, pel)
		return
	}

	result, err := ec.ResultsSvc.Statistics(electionID)
	if err == nil {
		c.JSON(http.StatusOK, result)
	} else {
		abortWithServiceError(c, err)
	}
}
