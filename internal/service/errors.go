package service

import "errors"

var (
	ErrNotFound             = errors.New("error not found")
	ErrFetchFailed          = errors.New("error market data fetch failed")
	ErrReportUploadDisabled = errors.New("error report upload is disabled")
)
