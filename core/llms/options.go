// Package llms defines the options shared by the reasoning backends. A
// backend performs single-shot structured prompts: one prompt in, one
// schema-constrained JSON value out, with no retry and no repair.
package llms

type StructuredPromptOptions struct {
	Instructions string
	Temperature  *float64
}

type StructuredPromptOption func(*StructuredPromptOptions)

// WithInstructions sets the system instructions sent alongside the prompt.
func WithInstructions(instructions string) StructuredPromptOption {
	return func(o *StructuredPromptOptions) {
		o.Instructions = instructions
	}
}

func WithTemperature(temperature float64) StructuredPromptOption {
	return func(o *StructuredPromptOptions) {
		o.Temperature = &temperature
	}
}
