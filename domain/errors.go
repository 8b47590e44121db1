package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCollectionType is returned when a value that is not a list is
	// passed where a collection of documents is expected.
	ErrCollectionType = errors.New("collection must be a list of documents")
	// ErrPipelineType is returned when an aggregation pipeline is not a
	// list of stages.
	ErrPipelineType = errors.New("pipeline must be a list of stages")
	// ErrCriteriaType is returned when query criteria is not a document.
	ErrCriteriaType = errors.New("criteria must be a document")
	// ErrScanBeforeNext is returned when calling [Cursor.Scan] before
	// calling [Cursor.Next].
	ErrScanBeforeNext = errors.New("scan called before next")
	// ErrTargetNil is returned when a nil value is provided as a decode
	// target.
	ErrTargetNil = errors.New("target interface is nil")
	// ErrNonPointer is returned when a non-pointer value is provided as a
	// decode target.
	ErrNonPointer = errors.New("target must be a pointer")
)

// ErrUnknownOperator is returned when an unregistered dollar-prefixed name is
// used as an operator.
type ErrUnknownOperator struct {
	Class    OperatorClass
	Operator string
}

// Error implements [error].
func (e ErrUnknownOperator) Error() string {
	return fmt.Sprintf("unknown %s operator %q", e.Class, e.Operator)
}

// ErrOperatorName is returned when an extension operator is registered under
// an invalid name.
type ErrOperatorName struct {
	Name string
}

// Error implements [error].
func (e ErrOperatorName) Error() string {
	return fmt.Sprintf("invalid operator name %q", e.Name)
}

// ErrOperatorExists is returned when an extension operator collides with a
// registered name.
type ErrOperatorExists struct {
	Class OperatorClass
	Name  string
}

// Error implements [error].
func (e ErrOperatorExists) Error() string {
	return fmt.Sprintf("%s operator %q is already registered", e.Class, e.Name)
}

// ErrOperatorType is returned when an extension operator has a signature that
// does not fit its class, or when a user query operator returns something
// that is neither a bool nor a [Tester].
type ErrOperatorType struct {
	Class OperatorClass
	Name  string
	Value any
}

// Error implements [error].
func (e ErrOperatorType) Error() string {
	return fmt.Sprintf("%s operator %q has unsupported type %T", e.Class, e.Name, e.Value)
}

// ErrOperandType is returned when an operator is applied to an operand of the
// wrong shape.
type ErrOperandType struct {
	Operator string
	Want     string
	Actual   any
}

// Error implements [error].
func (e ErrOperandType) Error() string {
	return fmt.Sprintf("%s operand should be %s, got %T", e.Operator, e.Want, e.Actual)
}

// ErrOperatorApplication is returned when an operator application document
// carries more than one key.
type ErrOperatorApplication struct {
	Operator string
	Keys     int
}

// Error implements [error].
func (e ErrOperatorApplication) Error() string {
	return fmt.Sprintf("operator application %q must be the only key, got %d keys", e.Operator, e.Keys)
}

// ErrDecode wraps third party decoding errors with the source and target that
// produced them.
type ErrDecode struct {
	Source any
	Target any
}

// Error implements [error].
func (e ErrDecode) Error() string {
	return fmt.Sprintf("cannot decode %T into %T", e.Source, e.Target)
}
