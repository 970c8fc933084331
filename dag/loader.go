package dag

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.yaml.in/yaml/v3"
)

// Batch is the on-disk form of a task batch.
type Batch struct {
	// Tasks defines the batch's task specifications.
	Tasks []TaskDef `yaml:"tasks" validate:"required,min=1,dive"`
}

// TaskDef defines one generation task within a batch file. The scheduler
// consumes only Name and DependsOn; the remaining fields travel as payload
// for the renderer.
type TaskDef struct {
	// Name is the unique task identifier in the batch.
	Name string `yaml:"name" validate:"required"`
	// DependsOn lists task names that must finish first.
	DependsOn []string `yaml:"depends_on,omitempty"`
	// Template is the template file rendered for this task.
	Template string `yaml:"template,omitempty"`
	// Output is the artifact path the rendered content is written to.
	Output string `yaml:"output,omitempty"`
	// Data is the template's input data.
	Data map[string]any `yaml:"data,omitempty"`
}

var (
	batchValidator     *validator.Validate
	batchValidatorOnce sync.Once
)

func getValidator() *validator.Validate {
	batchValidatorOnce.Do(func() {
		batchValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	return batchValidator
}

// LoadBatch reads and validates a batch YAML file.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dag: reading batch %s: %w", path, err)
	}
	return ParseBatch(data)
}

// ParseBatch decodes and validates batch YAML.
func ParseBatch(data []byte) (*Batch, error) {
	var b Batch
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("dag: parsing batch: %w", err)
	}
	if err := getValidator().Struct(&b); err != nil {
		return nil, fmt.Errorf("dag: invalid batch: %w", err)
	}
	return &b, nil
}

// TaskList converts the batch into scheduler tasks. Each task carries its
// TaskDef as opaque payload.
func (b *Batch) TaskList() []Task {
	tasks := make([]Task, 0, len(b.Tasks))
	for _, def := range b.Tasks {
		tasks = append(tasks, Task{
			Name:      def.Name,
			DependsOn: def.DependsOn,
			Payload:   def,
		})
	}
	return tasks
}
