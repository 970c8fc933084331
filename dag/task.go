package dag

// Task is one unit of generation work.
type Task struct {
	// Name uniquely identifies the task within a batch.
	Name string
	// DependsOn lists the names of tasks that must reach a terminal state
	// before this one may start. Names absent from the batch are ignored
	// during graph construction.
	DependsOn []string
	// Payload is opaque to the scheduler and passed through untouched.
	Payload any
}
