package normalizer

import (
	"errors"
	"fmt"

	"llamaworker/internal/document"
	"llamaworker/internal/models"
)

// Validation errors.
var (
	ErrNilDocument = errors.New("raw document is nil")
	ErrNoRule      = errors.New("no transformation rule for category")
)

// containerKind is the JSON kind a rule expects at its container path.
type containerKind string

const (
	kindList   containerKind = "list"
	kindObject containerKind = "object"
)

// shape is the container a rule indexes into before reading any entity.
type shape struct {
	path string
	kind containerKind
}

// Validator checks that a raw document has the container its category's rule expects.
type Validator struct {
	shapes map[models.Category]shape
}

// NewValidator creates a validator for the fixed category set.
// The DEX rule reads independent optional sections of the data object, so it only needs the object.
func NewValidator() *Validator {
	return &Validator{
		shapes: map[models.Category]shape{
			models.CategoryProtocolTVL: {path: models.CategoryProtocolTVL.MustInfo().ContainerPath, kind: kindList},
			models.CategoryDexVolume:   {path: "$.data", kind: kindObject},
			models.CategoryYieldPool:   {path: models.CategoryYieldPool.MustInfo().ContainerPath, kind: kindList},
			models.CategoryStablecoin:  {path: models.CategoryStablecoin.MustInfo().ContainerPath, kind: kindList},
			models.CategoryProtocolFee: {path: models.CategoryProtocolFee.MustInfo().ContainerPath, kind: kindList},
		},
	}
}

// Validate returns nil when doc has the expected container for category.
func (v *Validator) Validate(category models.Category, doc *document.RawDocument) error {
	if doc == nil {
		return ErrNilDocument
	}

	s, ok := v.shapes[category]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoRule, category)
	}

	var err error

	switch s.kind {
	case kindList:
		_, err = doc.List(s.path)
	case kindObject:
		_, err = doc.Object(s.path)
	}

	if err != nil {
		return fmt.Errorf("%s: %w", category, err)
	}

	return nil
}

// ContainerPath returns the path checked for category.
func (v *Validator) ContainerPath(category models.Category) string {
	return v.shapes[category].path
}
