package stream

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/vk/streamgraph/internal/registry"
)

// DefaultPadding is used when no padding node contributed to the stream.
const DefaultPadding = "#####"

// WriteConfig accumulates writing fields over one traversal. It is created
// fresh for every traversal and never shared.
type WriteConfig struct {
	Origin    string
	FilePath  string
	Comment   string
	Padding   string
	Version   string
	Extension string
	// StartFrame and EndFrame are nil until a frame node supplies them.
	StartFrame *int
	EndFrame   *int
	// Manipulations holds distinct manipulation kind names in visitation order.
	Manipulations []string
}

// NewWriteConfig returns an empty accumulator with the default padding.
func NewWriteConfig() *WriteConfig {
	return &WriteConfig{Padding: DefaultPadding}
}

// Apply stores a successful result in the field it targets. Padding and
// version values gain a leading underscore. Results targeting no field
// are ignored.
func (w *WriteConfig) Apply(field registry.Field, message string) error {
	switch field {
	case registry.NoInfo:
	case registry.OriginField:
		w.Origin = message
	case registry.FilePathField:
		w.FilePath = message
	case registry.CommentField:
		w.Comment = message
	case registry.PaddingField:
		if message != "" {
			w.Padding = "_" + message
		}
	case registry.VersionField:
		if message != "" {
			w.Version = "_" + message
		}
	case registry.FrameStartField, registry.FrameEndField:
		frame, err := strconv.Atoi(strings.TrimSpace(message))
		if err != nil {
			return fmt.Errorf("invalid frame number %q: %w", message, err)
		}
		if field == registry.FrameStartField {
			w.StartFrame = &frame
		} else {
			w.EndFrame = &frame
		}
	case registry.ExtensionField:
		w.Extension = message
	default:
		return fmt.Errorf("unknown writing field %s", field)
	}
	return nil
}

// AddManipulation records a manipulation kind, reporting whether it was new.
func (w *WriteConfig) AddManipulation(kind string) bool {
	if slices.Contains(w.Manipulations, kind) {
		return false
	}
	w.Manipulations = append(w.Manipulations, kind)
	return true
}

// Missing lists the required fields that were never supplied, in the order
// they are reported.
func (w *WriteConfig) Missing() []registry.Field {
	var missing []registry.Field
	if w.Origin == "" {
		missing = append(missing, registry.OriginField)
	}
	if w.FilePath == "" {
		missing = append(missing, registry.FilePathField)
	}
	if w.Comment == "" {
		missing = append(missing, registry.CommentField)
	}
	if w.StartFrame == nil {
		missing = append(missing, registry.FrameStartField)
	}
	if w.EndFrame == nil {
		missing = append(missing, registry.FrameEndField)
	}
	if w.Extension == "" {
		missing = append(missing, registry.ExtensionField)
	}
	return missing
}

// ComposedPath returns the full output path of the stream.
func (w *WriteConfig) ComposedPath() string {
	return ComposePath(w.FilePath, w.Comment, w.Padding, w.Version, w.Extension)
}

// ComposePath joins the pieces of an output path. Backslashes in dir are
// normalized to forward slashes and a trailing slash is enforced.
func ComposePath(dir, comment, padding, version, extension string) string {
	dir = strings.ReplaceAll(dir, `\`, "/")
	if !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	return dir + comment + padding + version + extension
}

var missingMessages = map[registry.Field]string{
	registry.OriginField:     "There was no origin node detected in this stream",
	registry.FilePathField:   "There was no filepath detected in this stream",
	registry.CommentField:    "There was no comment detected in this stream",
	registry.FrameStartField: "There was no start frame detected in this stream",
	registry.FrameEndField:   "There was no end frame detected in this stream",
	registry.ExtensionField:  "There was no valid file extension detected in this stream",
}
