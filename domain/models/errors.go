package models

import (
	"errors"
	"fmt"
)

var ErrEmptyFile = errors.New("file has no header row")

// MissingColumnError aborts a load: a required column is absent from the header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q", e.Column)
}

// DataQualityError marks a row that was excluded from aggregation.
type DataQualityError struct {
	Row    int
	Column string
	Value  string
	Reason string
}

func (e DataQualityError) Error() string {
	return fmt.Sprintf("row %d: column %q value %q: %s", e.Row, e.Column, e.Value, e.Reason)
}

// UnknownCategoryError is not fatal, the value resolves to the Unknown category.
type UnknownCategoryError struct {
	Row   int
	Field string
	Value string
}

func (e UnknownCategoryError) Error() string {
	return fmt.Sprintf("row %d: unknown %s %q", e.Row, e.Field, e.Value)
}
