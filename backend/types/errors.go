package types

import "errors"

// Tree invariant errors. These are programming errors: a transaction that
// returns one of them is aborted and nothing is published.
var (
	// ErrNodeNotFound indicates that a key does not resolve to a node.
	ErrNodeNotFound = errors.New("node not found")

	// ErrExpectedText indicates that an operation required a text node.
	ErrExpectedText = errors.New("expected a text node")

	// ErrExpectedElement indicates that an operation required an element node.
	ErrExpectedElement = errors.New("expected an element node")

	// ErrDetached indicates that a node has no parent where one is required.
	ErrDetached = errors.New("node is not attached")

	// ErrInvalidMove indicates an attempt to move a node into itself or one of
	// its descendants, or to give the root a sibling.
	ErrInvalidMove = errors.New("invalid node move")

	// ErrOffsetOutOfRange indicates a text or child offset outside its node.
	ErrOffsetOutOfRange = errors.New("offset out of range")
)

// Selection errors
var (
	// ErrStalePoint indicates a selection point whose key is missing from the
	// snapshot it is published with.
	ErrStalePoint = errors.New("selection point references a missing node")

	// ErrPointType indicates a text point on a non-text node or an element
	// point on a non-element node.
	ErrPointType = errors.New("selection point type does not match its node")
)

// Transaction errors
var (
	// ErrNoTransaction indicates use of a tree handle after its transaction
	// has been published or discarded.
	ErrNoTransaction = errors.New("transaction is closed")
)
