package dag

import (
	"fmt"
	"strings"
)

// CycleError reports that a topological order could not place every node.
type CycleError struct {
	// Remaining lists, in lexicographic order, the nodes whose in-degree
	// never reached zero.
	Remaining []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dag: cycle detected involving [%s]", strings.Join(e.Remaining, ", "))
}

// NotFoundError reports a slice target absent from the batch's node set.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("dag: task %q not found in batch", e.Name)
}
