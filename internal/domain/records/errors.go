package records

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchema indicates the data source changed its row shape.
var ErrSchema = errors.New("row schema mismatch")

// SchemaError lists required columns that no row of a batch carries.
type SchemaError struct {
	Dataset string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s rows missing required columns: %s", e.Dataset, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}
