package model

import "errors"

var (
	// ErrInvalidCatalog marks a structural defect in the dimension catalog
	// (no dimensions, a dimension without sub-dimensions, a sub-dimension
	// without levels). Nothing can be scored against such a catalog.
	ErrInvalidCatalog = errors.New("invalid catalog")

	// ErrSerialization marks a stored selection that cannot be parsed back.
	ErrSerialization = errors.New("selection serialization error")

	// ErrCorruptSnapshot marks a stored snapshot whose state no longer
	// decodes. It always accompanies ErrSerialization.
	ErrCorruptSnapshot = errors.New("stored snapshot unreadable")

	// ErrInvalidSelection marks a selection entry that does not fit the catalog.
	ErrInvalidSelection = errors.New("invalid selection")
)
