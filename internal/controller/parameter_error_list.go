package controller

import (
	"strconv"
	"strings"
	"time"
)

// ParameterErrorList contains a list of human-readable errors about parameters.
type ParameterErrorList []string

// AppendIfEmptyOrBlankSpaces appends the error message specified if `str` is empty or contains only blank spaces.
//
// Parameters:
//
//	the string to be checked
//	the error message to append
//
// Returns:
//
//	the trimmed string
func (pel *ParameterErrorList) AppendIfEmptyOrBlankSpaces(str string, errMsg string) string {
	if str = strings.TrimSpace(str); str == "" {
		*pel = append(*pel, errMsg)
	}

	return str
}

// AppendIfNotID appends the error message specified if `str` is not a positive integer ID.
//
// Parameters:
//
//	the string to be checked
//	the error message to append
//
// Returns:
//
//	the parsed ID or 0 if there's error
func (pel *ParameterErrorList) AppendIfNotID(str string, errMsg string) uint64 {
	id, err := strconv.ParseUint(strings.TrimSpace(str), 10, 64)
	if err != nil || id == 0 {
		*pel = append(*pel, errMsg)
		return 0
	}

	return id
}

// AppendIfNotDate appends the error message specified if `str` is not a date in the given layout.
//
// Parameters:
//
//	the string to be checked
//	the layout of the date
//	the error message to append
//
// Returns:
//
//	the trimmed string
func (pel *ParameterErrorList) AppendIfNotDate(str string, layout string, errMsg string) string {
	str = strings.TrimSpace(str)
	if _, err := time.Parse(layout, str); err != nil {
		*pel = append(*pel, errMsg)
	}

	return str
}
