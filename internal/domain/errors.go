package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared across the planning core. Callers test them with
// errors.Is; the batch layer treats ErrInsufficientData as skip-this-pair
// while the rest are fatal for the affected table or allocation.
var (
	// ErrInsufficientData marks a pair that lacks a usable lead time or
	// enough history points. The pair is excluded from the result set.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrNoSuppliers marks an optimizer call with an empty candidate pool.
	ErrNoSuppliers = errors.New("no suppliers in candidate pool")

	// ErrInfeasible marks a solve that found no feasible allocation. The
	// soft shortage variable should make the model always feasible, so
	// this surfacing means the model itself is wrong.
	ErrInfeasible = errors.New("optimization model infeasible")
)

// SchemaError reports required fields missing from an input table. Fatal for
// that table; the missing names are carried for the caller.
type SchemaError struct {
	Dataset string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s missing columns: %s", e.Dataset, strings.Join(e.Missing, ", "))
}

// NewSchemaError builds a SchemaError for a dataset and its missing fields.
func NewSchemaError(dataset string, missing ...string) *SchemaError {
	return &SchemaError{Dataset: dataset, Missing: missing}
}
