package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoFileSelected    = errors.New("no file selected")
	ErrWrongExtension    = errors.New("file is not an Excel workbook")
	ErrMissingDataSheet  = errors.New("workbook has no Data sheet")
	ErrSchemaMismatch    = errors.New("header row is missing required columns")
	ErrReadFailure       = errors.New("failed to read upload")
	ErrProcessingFailure = errors.New("failed to process report")
	ErrReportNotReady    = errors.New("both reports must be uploaded before generating")
)

// Stage tells UserMessage which action failed, since a processing failure reads
// differently on upload (E07) and on generate (E08).
type Stage int

const (
	StageUpload Stage = iota
	StageGenerate
)

const (
	MsgNoFileSelected     = "No file selected. Please select a file to upload."
	MsgWrongExtension     = "Invalid file uploaded. Only Excel files (.xlsx) are supported."
	MsgMissingDataSheet   = "Invalid Excel File uploaded. Expected report format not detected."
	MsgSchemaMismatch     = "Invalid Excel File uploaded. Expected report format and data not detected."
	MsgReadFailure        = "An error occurred. Please refresh and try again or contact support if problem persists. (E06)"
	MsgUploadProcessing   = "Error with file handling. Please refresh and try again. Contact support if problem persists. (E07)"
	MsgGenerateProcessing = "Error processing file. Please try again or contact support if problem persists. (E08)"
)

// UserMessage maps any pipeline error to the fixed operator-facing text
func UserMessage(err error, stage Stage) string {
	switch {
	case errors.Is(err, ErrNoFileSelected), errors.Is(err, ErrReportNotReady):
		return MsgNoFileSelected
	case errors.Is(err, ErrWrongExtension):
		return MsgWrongExtension
	case errors.Is(err, ErrMissingDataSheet):
		return MsgMissingDataSheet
	case errors.Is(err, ErrSchemaMismatch):
		return MsgSchemaMismatch
	case errors.Is(err, ErrReadFailure):
		return MsgReadFailure
	}
	if stage == StageGenerate {
		return MsgGenerateProcessing
	}
	return MsgUploadProcessing
}

// SchemaError lists the required columns absent from the header row
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing columns: %s", strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaMismatch
}
