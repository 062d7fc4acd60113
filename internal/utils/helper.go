package utils

import (
	"log/slog"
	"os"
	"regexp"
)

var (
	// ?key=VALUE, &api_key=VALUE, apiKey=VALUE ...
	keyParam = regexp.MustCompile(`([?&])(api[_\-]?[kK]ey|key)=([^&\s"]+)`)
	bearer   = regexp.MustCompile(`Bearer\s+([A-Za-z0-9_\-\.]+)`)
	// header sent by the Vision client when authenticating with an API key
	googHeader = regexp.MustCompile(`(?i)x-goog-api-key:\s*([^\s]+)`)
	// Google API keys appearing bare, e.g. echoed back in an error
	googleKey = regexp.MustCompile(`AIza[0-9A-Za-z_\-]{20,}`)
)

// MaskSensitiveData masks API keys and tokens so they never reach the logs.
func MaskSensitiveData(s string) string {
	if s == "" {
		return s
	}

	s = keyParam.ReplaceAllString(s, `${1}${2}=***MASKED***`)
	s = bearer.ReplaceAllString(s, `Bearer ***MASKED***`)
	s = googHeader.ReplaceAllString(s, `x-goog-api-key: ***MASKED***`)
	s = googleKey.ReplaceAllString(s, `***MASKED***`)

	return s
}

// MaskSensitiveError wraps an error and masks sensitive data when the error is converted to string
func MaskSensitiveError(err error) error {
	if err == nil {
		return nil
	}
	return &maskedError{err: err}
}

type maskedError struct {
	err error
}

func (e *maskedError) Error() string {
	return MaskSensitiveData(e.err.Error())
}

func (e *maskedError) Unwrap() error {
	return e.err
}

func ExitOnError(msg string, err error) {
	slog.Error(msg, "err", MaskSensitiveError(err))
	os.Exit(1)
}
