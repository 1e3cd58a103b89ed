package errorcode

import "github.com/pkg/errors"

var userMessages = map[error]string{
	ErrorNotFound:                     "The token or receipt was not found.",
	ErrorAlreadyUsed:                  "This token has already been used.",
	ErrorExpired:                      "This token has expired.",
	ErrorElectionNotOpen:              "The election is not open.",
	ErrorAlreadyVoted:                 "You have already voted in this election.",
	ErrorIdentityMismatch:             "We could not verify your identity with the details provided.",
	ErrorIdentityVerificationRequired: "Identity verification is required before a ballot can be issued.",
	ErrorInvalidOption:                "The selected option does not belong to this election.",
	ErrorInvalidCredential:            "The ballot credential is not valid for this election.",
	ErrorEncryptionNotConfigured:      "Voting is temporarily unavailable for this election.",
	ErrorAuditNotAvailable:            "The audit trail is only available once the election has closed.",
	ErrorResultsNotAvailable:          "Results are only available once the election has closed.",
}

// IsValidationError reports whether the cause of `err` is a client-correctable or precondition error of the taxonomy.
// `ErrorEncryptionNotConfigured` is excluded since it is a deployment defect.
func IsValidationError(err error) bool {
	cause := errors.Cause(err)
	if cause == ErrorEncryptionNotConfigured {
		return false
	}

	_, ok := userMessages[cause]
	return ok
}

// IsOperatorError reports whether `err` needs operator attention rather than voter retry guidance.
func IsOperatorError(err error) bool {
	return errors.Cause(err) == ErrorEncryptionNotConfigured
}

// UserMessage returns the message that may be shown to a voter for `err`.
// Anything outside the taxonomy gets a generic message so internal details never leak.
func UserMessage(err error) string {
	if msg, ok := userMessages[errors.Cause(err)]; ok {
		return msg
	}

	return "An internal error occurred. Please try again later."
}
