package memhost

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/streamgraph/internal/config"
	"github.com/vk/streamgraph/internal/ctxlog"
	"github.com/vk/streamgraph/internal/host"
)

func testScene() *Host {
	return New(
		Entity{Name: "Read1", Class: "Read", Dependents: 1},
		Entity{Name: "Read2", Class: "Read"},
		Entity{Name: "beauty", Class: "Merge", Dependents: 1},
		Entity{Name: "Blur1", Class: "Blur", HasError: true},
		Entity{Name: "Viewer1", Class: host.ViewerClass},
		Entity{Name: "NoOp1", Class: "NoOp"},
	)
}

func TestQueries(t *testing.T) {
	ctx := context.Background()
	h := testScene()

	names, err := h.SceneEntities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Blur1", "NoOp1", "Read1", "Read2", "beauty"}, names)

	ok, err := h.EntityExists(ctx, "Viewer1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = h.EntityExists(ctx, "ghost")
	assert.False(t, ok)

	errs, _ := h.EntitiesWithErrors(ctx)
	assert.Equal(t, []string{"Blur1"}, errs)

	reads, _ := h.DisconnectedInputs(ctx, host.ReadClass)
	assert.Equal(t, []string{"Read2"}, reads)

	noops, _ := h.EntitiesOfClass(ctx, "NoOp")
	assert.Equal(t, []string{"NoOp1"}, noops)
}

func TestEntitiesMatching_AnchoredAtStart(t *testing.T) {
	ctx := context.Background()
	h := testScene()

	testCases := []struct {
		pattern string
		want    []string
	}{
		{pattern: "Read", want: []string{"Read1", "Read2"}},
		{pattern: "ead", want: nil},
		{pattern: "[A-Z][a-z]{3}1|beauty", want: []string{"Blur1", "Read1", "beauty"}},
	}
	for _, tc := range testCases {
		t.Run(tc.pattern, func(t *testing.T) {
			got, err := h.EntitiesMatching(ctx, tc.pattern)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := h.EntitiesMatching(ctx, "(")
	assert.Error(t, err)
}

func TestDispatch_ChainsManipulationsAndCleansUp(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	h := testScene()
	req := host.WriteRequest{
		Origin: "beauty", Path: "/out/final#####.exr", StartFrame: 1001, EndFrame: 1010,
		Manipulations: []string{"Flip", "Desaturation"},
	}

	require.NoError(t, h.Dispatch(ctx, req))

	writes := h.Writes()
	require.Len(t, writes, 1)
	assert.Equal(t, req, writes[0].Request)
	assert.Equal(t, []string{"beauty", "EXTRA_FLIP", "EXTRA_DESATURATION"}, writes[0].Chain)
	assert.Equal(t, "WRITER", writes[0].Writer)

	for _, name := range []string{"WRITER", "EXTRA_FLIP", "EXTRA_DESATURATION"} {
		_, ok := h.Entity(name)
		assert.False(t, ok, "%s must be removed after the write", name)
	}
}

func TestDispatch_KeepsSceneEntitiesWithTemporaryNames(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	h := New(
		Entity{Name: "WRITER", Class: "Grade"},
		Entity{Name: "WRITER1", Class: "Grade"},
		Entity{Name: "EXTRA_FLIP", Class: "Blur"},
		Entity{Name: "beauty", Class: "Merge"},
	)

	require.NoError(t, h.Dispatch(ctx, host.WriteRequest{Origin: "WRITER", StartFrame: 1, EndFrame: 2}))
	require.NoError(t, h.Dispatch(ctx, host.WriteRequest{
		Origin: "beauty", StartFrame: 1, EndFrame: 2, Manipulations: []string{"Flip"},
	}))

	writes := h.Writes()
	require.Len(t, writes, 2)
	assert.Equal(t, "WRITER2", writes[0].Writer)
	assert.Equal(t, []string{"WRITER"}, writes[0].Chain)
	assert.Equal(t, "WRITER2", writes[1].Writer)
	assert.Equal(t, []string{"beauty", "EXTRA_FLIP1"}, writes[1].Chain)

	for name, class := range map[string]string{"WRITER": "Grade", "WRITER1": "Grade", "EXTRA_FLIP": "Blur"} {
		e, ok := h.Entity(name)
		require.True(t, ok, "%s belongs to the scene and must survive the write", name)
		assert.Equal(t, class, e.Class)
	}
	for _, name := range []string{"WRITER2", "EXTRA_FLIP1"} {
		_, ok := h.Entity(name)
		assert.False(t, ok, "%s must be removed after the write", name)
	}

	require.NoError(t, h.Dispatch(ctx, host.WriteRequest{Origin: "WRITER", StartFrame: 1, EndFrame: 2}))
}

func TestDispatch_Errors(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	boom := errors.New("render farm offline")

	testCases := []struct {
		name    string
		req     host.WriteRequest
		fail    error
		wantErr error
		wantMsg string
	}{
		{name: "unknown origin", req: host.WriteRequest{Origin: "ghost"}, wantErr: host.ErrUnknownEntity},
		{name: "inverted range", req: host.WriteRequest{Origin: "beauty", StartFrame: 10, EndFrame: 1}, wantMsg: "invalid frame range"},
		{name: "unknown manipulation", req: host.WriteRequest{Origin: "beauty", Manipulations: []string{"Blur"}}, wantMsg: "unsupported manipulation"},
		{name: "host fault", req: host.WriteRequest{Origin: "beauty", Manipulations: []string{"Flip"}}, fail: boom, wantErr: boom},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := testScene()
			h.FailDispatch(tc.fail)

			err := h.Dispatch(ctx, tc.req)
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
			if tc.wantMsg != "" {
				assert.Contains(t, err.Error(), tc.wantMsg)
			}
			assert.Empty(t, h.Writes())
			_, ok := h.Entity("EXTRA_FLIP")
			assert.False(t, ok)
			_, ok = h.Entity("WRITER")
			assert.False(t, ok)
		})
	}
}

func TestFromScene(t *testing.T) {
	h := FromScene(&config.Scene{Entities: []*config.Entity{
		{Name: "Read1", Class: "Read", Dependents: 0},
	}})
	reads, err := h.DisconnectedInputs(context.Background(), "Read")
	require.NoError(t, err)
	assert.Equal(t, []string{"Read1"}, reads)

	assert.NotNil(t, FromScene(nil))
}
