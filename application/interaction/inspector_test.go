package interaction

import (
	"bdd_automation/domain/entities"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInspect_RecomputesVisibilityFromRawSignals(t *testing.T) {
	tests := []struct {
		name    string
		element *entities.ElementDescriptor
		visible bool
	}{
		{name: "rendered box", element: descriptor("button", 0, 0, 80, 30, true), visible: true},
		{name: "zero area widget passing css checks", element: descriptor("a", 0, 0, 0, 18, true), visible: false},
		{name: "display none ancestor", element: descriptor("button", 0, 0, 80, 30, false), visible: false},
		{name: "transparent", element: func() *entities.ElementDescriptor {
			d := descriptor("button", 0, 0, 80, 30, true)
			d.Style.Opacity = "0"
			return d
		}(), visible: false},
		{name: "visibility hidden", element: func() *entities.ElementDescriptor {
			d := descriptor("button", 0, 0, 80, 30, true)
			d.Style.Visibility = "hidden"
			return d
		}(), visible: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := *tt.element
			raw.IsVisible = !tt.visible
			provider := &mockProvider{}
			provider.On("InspectDetailed", mock.Anything, "#target").Return(entities.InspectResult{
				ActionResult: entities.Succeeded("ok"), Found: true, Element: &raw,
			}, nil)

			outcome, err := Inspector{}.Inspect(context.Background(), newTestSession(t, provider, fastSettings()), "#target")
			require.NoError(t, err)
			assert.True(t, outcome.Found)
			assert.Equal(t, tt.visible, outcome.Element.IsVisible)
		})
	}
}

func TestInspect_MissingElementIsNotAnError(t *testing.T) {
	provider := &mockProvider{}
	provider.On("InspectDetailed", mock.Anything, "#nope").Return(entities.InspectResult{ActionResult: entities.Succeeded("ok")}, nil)

	outcome, err := Inspector{}.Inspect(context.Background(), newTestSession(t, provider, fastSettings()), "#nope")
	require.NoError(t, err)
	assert.False(t, outcome.Found)
	assert.Contains(t, outcome.Message, "#nope")
	assert.NotContains(t, outcome.Message, "ok")
}

func TestInspect_FailedLookupKeepsProviderDetail(t *testing.T) {
	provider := &mockProvider{}
	provider.On("InspectDetailed", mock.Anything, "#ghost").Return(entities.InspectResult{ActionResult: entities.Failed("frame detached")}, nil)

	outcome, err := Inspector{}.Inspect(context.Background(), newTestSession(t, provider, fastSettings()), "#ghost")
	require.NoError(t, err)
	assert.False(t, outcome.Found)
	assert.Contains(t, outcome.Message, "no element matches #ghost")
	assert.Contains(t, outcome.Message, "frame detached")
}

func TestInspect_IsIdempotentOnAnUnchangedPage(t *testing.T) {
	page := newFakePage()
	d := descriptor("input", 5, 6, 120, 24, true)
	d.Attributes["name"] = "email"
	d.TextContent = ""
	page.elements["#email"] = d

	s, err := NewSession(page, quietLogger(), fastSettings())
	require.NoError(t, err)

	first, err := Inspector{}.Inspect(context.Background(), s, "#email")
	require.NoError(t, err)
	second, err := Inspector{}.Inspect(context.Background(), s, "#email")
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("inspection changed between calls (-first +second):\n%s", diff)
	}

	// descriptors are snapshots, not views of provider state
	first.Element.Attributes["name"] = "changed"
	third, err := Inspector{}.Inspect(context.Background(), s, "#email")
	require.NoError(t, err)
	assert.Equal(t, "email", third.Element.Attributes["name"])
}
