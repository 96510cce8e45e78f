package registry

import (
	"context"
	"fmt"

	"github.com/vk/streamgraph/internal/host"
	"github.com/zclconf/go-cty/cty"
)

// Category groups kinds by the role they play in a stream.
type Category int

const (
	StreamControl Category = iota
	Writing
	Information
	Check
	Manipulation
)

var categoryNames = map[Category][2]string{
	StreamControl: {"StreamControl", "Stream Control"},
	Writing:       {"Writing", "Writing"},
	Information:   {"Information", "Information"},
	Check:         {"Check", "Checks"},
	Manipulation:  {"Manipulation", "Manipulation"},
}

// String returns the machine name of the category.
func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n[0]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// NiceName returns the heading shown when listing the catalog.
func (c Category) NiceName() string {
	if n, ok := categoryNames[c]; ok {
		return n[1]
	}
	return c.String()
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// Field names the write-configuration attribute an evaluation targets.
type Field int

const (
	NoInfo Field = iota
	OriginField
	FilePathField
	CommentField
	PaddingField
	VersionField
	FrameStartField
	FrameEndField
	ExtensionField
)

var fieldNames = [...]string{"none", "origin", "filepath", "comment", "padding", "version", "frame_start", "frame_end", "extension"}

func (f Field) String() string {
	if int(f) >= 0 && int(f) < len(fieldNames) {
		return fieldNames[f]
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// EvalInput is what a kind sees when it is evaluated.
type EvalInput struct {
	NodeID int
	// Value is the node's widget value; cty.NilVal for kinds without a widget.
	Value cty.Value
	// Scene answers existence and validation queries. Kinds must never use
	// it to change the host.
	Scene host.Scene
}

// EvalResult is the outcome of evaluating one node.
type EvalResult struct {
	Field   Field
	Message string
	Success bool
}

// Succeeded builds a successful result.
func Succeeded(field Field, message string) EvalResult {
	return EvalResult{Field: field, Message: message, Success: true}
}

// Failed builds a failed result; message explains the failure to the user.
func Failed(field Field, message string) EvalResult {
	return EvalResult{Field: field, Message: message, Success: false}
}

// EvalFunc computes a node's result from its current state.
type EvalFunc func(ctx context.Context, in EvalInput) EvalResult

// Kind is an immutable node descriptor.
type Kind struct {
	Name          string
	NiceName      string
	Category      Category
	AcceptsInput  bool
	AcceptsOutput bool
	Widget        Widget
	Help          string
	// Evaluate is nil only for stream origins, which produce no payload.
	Evaluate EvalFunc
}

// IsStart reports whether nodes of this kind mark the origin of a traversal.
func (k *Kind) IsStart() bool {
	return k.Category == StreamControl && !k.AcceptsInput
}

// Label returns the nice name, falling back to the machine name.
func (k *Kind) Label() string {
	if k.NiceName != "" {
		return k.NiceName
	}
	return k.Name
}
