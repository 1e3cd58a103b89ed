package errorcode

import "errors"

const (
	// CodeNotFound means the token, credential, receipt or election does not exist.
	CodeNotFound = "~NOTFOUND~"
	// CodeAlreadyUsed means the single-use token or ballot credential has been consumed.
	CodeAlreadyUsed = "~ALREADYUSED~"
	// CodeExpired means the voting token is past its expiry.
	CodeExpired = "~EXPIRED~"
	// CodeElectionNotOpen means the election is not accepting voters.
	CodeElectionNotOpen = "~ELECTIONNOTOPEN~"
	// CodeAlreadyVoted means the voter has already been issued a ballot credential.
	CodeAlreadyVoted = "~ALREADYVOTED~"
	// CodeIdentityMismatch means the submitted identity evidence did not match. It must not say which field.
	CodeIdentityMismatch = "~IDENTITYMISMATCH~"
	// CodeIdentityVerificationRequired means the token holder has not passed identity verification yet.
	CodeIdentityVerificationRequired = "~IDENTITYVERIFICATIONREQUIRED~"
	// CodeInvalidOption means the option does not belong to the election.
	CodeInvalidOption = "~INVALIDOPTION~"
	// CodeInvalidCredential means no ballot credential with that value exists for the election.
	CodeInvalidCredential = "~INVALIDCREDENTIAL~"
	// CodeEncryptionNotConfigured is a deployment defect: the election has no encryption key.
	CodeEncryptionNotConfigured = "~ENCRYPTIONNOTCONFIGURED~"
	// CodeAuditNotAvailable means the audit trail is requested before the election is closed.
	CodeAuditNotAvailable = "~AUDITNOTAVAILABLE~"
	// CodeResultsNotAvailable means results are requested before the election is closed.
	CodeResultsNotAvailable = "~RESULTSNOTAVAILABLE~"
)

// ErrorNotFound 为使用了 `CodeNotFound` 的 error 实例
var ErrorNotFound = errors.New(CodeNotFound)

// ErrorAlreadyUsed 为使用了 `CodeAlreadyUsed` 的 error 实例
var ErrorAlreadyUsed = errors.New(CodeAlreadyUsed)

// ErrorExpired 为使用了 `CodeExpired` 的 error 实例
var ErrorExpired = errors.New(CodeExpired)

// ErrorElectionNotOpen 为使用了 `CodeElectionNotOpen` 的 error 实例
var ErrorElectionNotOpen = errors.New(CodeElectionNotOpen)

// ErrorAlreadyVoted 为使用了 `CodeAlreadyVoted` 的 error 实例
var ErrorAlreadyVoted = errors.New(CodeAlreadyVoted)

// ErrorIdentityMismatch 为使用了 `CodeIdentityMismatch` 的 error 实例
var ErrorIdentityMismatch = errors.New(CodeIdentityMismatch)

// ErrorIdentityVerificationRequired 为使用了 `CodeIdentityVerificationRequired` 的 error 实例
var ErrorIdentityVerificationRequired = errors.New(CodeIdentityVerificationRequired)

// ErrorInvalidOption 为使用了 `CodeInvalidOption` 的 error 实例
var ErrorInvalidOption = errors.New(CodeInvalidOption)

// ErrorInvalidCredential 为使用了 `CodeInvalidCredential` 的 error 实例
var ErrorInvalidCredential = errors.New(CodeInvalidCredential)

// ErrorEncryptionNotConfigured 为使用了 `CodeEncryptionNotConfigured` 的 error 实例
var ErrorEncryptionNotConfigured = errors.New(CodeEncryptionNotConfigured)

// ErrorAuditNotAvailable 为使用了 `CodeAuditNotAvailable` 的 error 实例
var ErrorAuditNotAvailable = errors.New(CodeAuditNotAvailable)

// ErrorResultsNotAvailable 为使用了 `CodeResultsNotAvailable` 的 error 实例
var ErrorResultsNotAvailable = errors.New(CodeResultsNotAvailable)
