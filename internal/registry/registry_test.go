package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/streamgraph/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

func noopEval(context.Context, EvalInput) EvalResult { return Succeeded(NoInfo, "ok") }

type testModule struct{ kinds []*Kind }

func (m testModule) Register(r *Registry) {
	for _, k := range m.kinds {
		r.Register(k)
	}
}

func validKinds() []*Kind {
	return []*Kind{
		{Name: "Start", NiceName: "Start", Category: StreamControl, AcceptsOutput: true},
		{Name: "Flip", Category: Manipulation, AcceptsInput: true, AcceptsOutput: true, Evaluate: noopEval},
		{Name: "Comment", Category: Writing, AcceptsInput: true, AcceptsOutput: true, Evaluate: noopEval,
			Widget: Widget{Type: WidgetText}},
		{Name: "Errors", NiceName: "Scene errors", Category: Check, AcceptsInput: true, AcceptsOutput: true, Evaluate: noopEval},
	}
}

func TestRegister_DuplicatePanics(t *testing.T) {
	r := New()
	r.Register(&Kind{Name: "Flip", Evaluate: noopEval})
	assert.Panics(t, func() { r.Register(&Kind{Name: "Flip", Evaluate: noopEval}) })
	assert.Panics(t, func() { r.Register(&Kind{}) })
}

func TestLookup(t *testing.T) {
	r := NewWithModules(testModule{kinds: validKinds()})

	k, ok := r.Lookup("Errors")
	require.True(t, ok)
	assert.Equal(t, Check, k.Category)

	byNice, ok := r.Lookup("Scene errors")
	require.True(t, ok)
	assert.Same(t, k, byNice)

	_, ok = r.Lookup("Nope")
	assert.False(t, ok)
}

func TestKinds_RegistrationOrder(t *testing.T) {
	r := NewWithModules(testModule{kinds: validKinds()})
	var names []string
	for _, k := range r.Kinds() {
		names = append(names, k.Name)
	}
	assert.Equal(t, []string{"Start", "Flip", "Comment", "Errors"}, names)
}

func TestByCategory(t *testing.T) {
	kinds := append(validKinds(), &Kind{Name: "Empty", Category: StreamControl, AcceptsInput: true, AcceptsOutput: true, Evaluate: noopEval})
	r := NewWithModules(testModule{kinds: kinds})

	groups := r.ByCategory()
	require.Len(t, groups, 4)
	assert.Equal(t, StreamControl, groups[0].Category)
	require.Len(t, groups[0].Kinds, 2)
	assert.Equal(t, "Empty", groups[0].Kinds[1].Name)
	assert.Equal(t, "Checks", groups[3].Category.NiceName())
}

func TestValidate(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())

	t.Run("valid catalog", func(t *testing.T) {
		r := NewWithModules(testModule{kinds: validKinds()})
		require.NoError(t, r.Validate(ctx))
	})

	testCases := []struct {
		name    string
		kind    *Kind
		message string
	}{
		{
			name:    "bad name",
			kind:    &Kind{Name: "Bad Name", Category: Check, AcceptsInput: true, Evaluate: noopEval},
			message: "name must be alphanumeric",
		},
		{
			name:    "missing evaluate",
			kind:    &Kind{Name: "Lazy", Category: Check, AcceptsInput: true},
			message: "missing evaluate function",
		},
		{
			name:    "evaluating origin",
			kind:    &Kind{Name: "Origin2", Category: StreamControl, AcceptsOutput: true, Evaluate: noopEval},
			message: "stream origins must not evaluate",
		},
		{
			name:    "unknown category",
			kind:    &Kind{Name: "Odd", Category: Category(42), AcceptsInput: true, Evaluate: noopEval},
			message: "unknown category",
		},
		{
			name:    "no capabilities",
			kind:    &Kind{Name: "Island", Category: Check, Evaluate: noopEval},
			message: "accepts neither input nor output",
		},
		{
			name: "choice without choices",
			kind: &Kind{Name: "Pick", Category: Writing, AcceptsInput: true, Evaluate: noopEval,
				Widget: Widget{Type: WidgetChoice}},
			message: "choice widget has no choices",
		},
		{
			name: "mistyped default",
			kind: &Kind{Name: "Frame", Category: Writing, AcceptsInput: true, Evaluate: noopEval,
				Widget: Widget{Type: WidgetInteger, Max: 10, Default: cty.StringVal("x")}},
			message: "default value is string",
		},
		{
			name: "inverted bounds",
			kind: &Kind{Name: "Frame", Category: Writing, AcceptsInput: true, Evaluate: noopEval,
				Widget: Widget{Type: WidgetInteger, Min: 5, Max: 1}},
			message: "bounds inverted",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewWithModules(testModule{kinds: append(validKinds(), tc.kind)})
			err := r.Validate(ctx)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestKind_IsStart(t *testing.T) {
	kinds := validKinds()
	assert.True(t, kinds[0].IsStart())
	assert.False(t, kinds[1].IsStart())
}
