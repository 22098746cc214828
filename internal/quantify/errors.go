package quantify

import "fmt"

// InputNotFoundError reports a missing input VCF.
type InputNotFoundError struct {
	Path string
}

func (e *InputNotFoundError) Error() string {
	return fmt.Sprintf("cannot read input VCF: %s", e.Path)
}

// OverwriteError reports an output prefix whose derived VCF path would
// overwrite the input file.
type OverwriteError struct {
	Input  string
	Output string
}

func (e *OverwriteError) Error() string {
	return fmt.Sprintf("cannot overwrite input VCF: %s would be overwritten with output name %s", e.Input, e.Output)
}
