package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotification(t *testing.T) {
	n, err := NewNotification("success", "Saved")
	require.NoError(t, err)

	assert.NotEmpty(t, n.ID)
	assert.Len(t, n.ID, 26)
	assert.Equal(t, KindSuccess, n.Kind)
	assert.Equal(t, "Saved", n.Message)
	assert.Equal(t, StateShowing, n.State)
	assert.WithinDuration(t, time.Now(), n.CreatedAt, time.Second)
}

func TestNewNotification_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		n := MustNewNotification("info", "x")
		assert.False(t, seen[n.ID], "duplicate id %s", n.ID)
		seen[n.ID] = true
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"success", KindSuccess},
		{"error", KindError},
		{"warning", KindWarning},
		{"info", KindInfo},
		{"  ERROR ", KindError},
		{"Warning", KindWarning},
		{"", KindInfo},
		{"debug", KindInfo},
		{"danger", KindInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseKind(tt.input))
		})
	}
}

func TestKind_Valid(t *testing.T) {
	for _, k := range Kinds() {
		assert.True(t, k.Valid(), k)
	}
	assert.False(t, Kind("bogus").Valid())
	assert.False(t, Kind("").Valid())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "showing", StateShowing.String())
	assert.Equal(t, "paused", StatePaused.String())
	assert.Equal(t, "dismissing", StateDismissing.String())
	assert.Equal(t, "removed", StateRemoved.String())
	assert.Equal(t, "unknown", State(42).String())

	text, err := StatePaused.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "paused", string(text))
}

func TestState_Visible(t *testing.T) {
	assert.True(t, StateShowing.Visible())
	assert.True(t, StatePaused.Visible())
	assert.True(t, StateDismissing.Visible())
	assert.False(t, StateRemoved.Visible())
}

func TestNotification_Age(t *testing.T) {
	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	n := &Notification{CreatedAt: created}

	assert.Equal(t, 3*time.Second, n.Age(created.Add(3*time.Second)))
	assert.Equal(t, time.Duration(0), n.Age(created.Add(-time.Second)))
}

func TestNotification_MessageTruncated(t *testing.T) {
	tests := []struct {
		name    string
		message string
		maxLen  int
		want    string
	}{
		{"short", "Saved", 10, "Saved"},
		{"exact", "Saved", 5, "Saved"},
		{"truncated", "Profile saved successfully", 10, "Profile s…"},
		{"whitespace collapsed", "a\n\n  b\tc", 10, "a b c"},
		{"zero", "Saved", 0, ""},
		{"one", "Saved", 1, "S"},
		{"multibyte", "Contraseña incorrecta", 10, "Contraseñ…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Notification{Message: tt.message}
			assert.Equal(t, tt.want, n.MessageTruncated(tt.maxLen))
		})
	}
}

func TestDefaultPresentation(t *testing.T) {
	assert.Equal(t, "check-circle", DefaultPresentation(KindSuccess).Icon)
	assert.Equal(t, "exclamation-circle", DefaultPresentation(KindError).Icon)
	assert.Equal(t, "exclamation-triangle", DefaultPresentation(KindWarning).Icon)
	assert.Equal(t, "info-circle", DefaultPresentation(KindInfo).Icon)

	// Unknown kinds render as info.
	assert.Equal(t, DefaultPresentation(KindInfo), DefaultPresentation(Kind("nope")))
}

func TestPresentation_Merge(t *testing.T) {
	p := Presentation{Title: "Éxito"}.Merge(DefaultPresentation(KindSuccess))
	assert.Equal(t, "Éxito", p.Title)
	assert.Equal(t, "check-circle", p.Icon)
	assert.Equal(t, "✔", p.Glyph)
}
