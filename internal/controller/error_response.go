package controller

import (
	"net/http"

	"gitee.com/czyczk/evote-ballot-engine/pkg/errorcode"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var statusCodes = map[error]int{
	errorcode.ErrorNotFound:                     http.StatusNotFound,
	errorcode.ErrorAlreadyUsed:                  http.StatusConflict,
	errorcode.ErrorExpired:                      http.StatusGone,
	errorcode.ErrorElectionNotOpen:              http.StatusConflict,
	errorcode.ErrorAlreadyVoted:                 http.StatusConflict,
	errorcode.ErrorIdentityMismatch:             http.StatusUnauthorized,
	errorcode.ErrorIdentityVerificationRequired: http.StatusForbidden,
	errorcode.ErrorInvalidOption:                http.StatusBadRequest,
	errorcode.ErrorInvalidCredential:            http.StatusForbidden,
	errorcode.ErrorEncryptionNotConfigured:      http.StatusServiceUnavailable,
	errorcode.ErrorAuditNotAvailable:            http.StatusForbidden,
	errorcode.ErrorResultsNotAvailable:          http.StatusForbidden,
}

// abortWithParameterErrors responds 400 with the parameter errors collected.
func abortWithParameterErrors(c *gin.Context, pel *ParameterErrorList) {
	resp := &GeneralResponse{}
	resp.NewFromErrors(pel)
	c.AbortWithStatusJSON(http.StatusBadRequest, resp.ToMap())
}

// abortWithServiceError maps an error returned by a service to a response.
//
// Validation errors are shown with their voter-facing message. Operator and internal errors are logged with the request ID
// and answered with a generic message.
func abortWithServiceError(c *gin.Context, err error) {
	cause := errors.Cause(err)
	logger := log.WithFields(log.Fields{
		"requestId": c.GetString(requestIDKey),
		"path":      c.FullPath(),
	})

	status, ok := statusCodes[cause]
	if !ok {
		status = http.StatusInternalServerError
	}

	if errorcode.IsOperatorError(err) {
		logger.WithField("operatorAttention", true).Errorln(err)
	} else if !errorcode.IsValidationError(err) {
		logger.Errorln(err)
	}

	resp := &GeneralResponse{}
	resp.NewFromMsg(errorcode.UserMessage(err))
	c.AbortWithStatusJSON(status, resp.ToMap())
}
