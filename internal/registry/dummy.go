package registry

import "slices"

const (
	EchoType    = "echo"
	ReverseType = "reverse"
)

// Echo returns the prompt unchanged behind a fixed tag.
type Echo struct{}

func (Echo) Name() string { return "echo-model" }

func (Echo) Generate(prompt string) (string, error) {
	return "Echo: " + prompt, nil
}

// Reverse returns the prompt's code points in reverse order behind a fixed tag.
type Reverse struct{}

func (Reverse) Name() string { return "reverse-model" }

func (Reverse) Generate(prompt string) (string, error) {
	runes := []rune(prompt)
	slices.Reverse(runes)
	return "Reverse: " + string(runes), nil
}
