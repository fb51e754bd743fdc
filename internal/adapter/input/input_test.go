package input

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/model"
)

func TestStdinAdapter_Import(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Request
	}{
		{
			name:  "empty",
			input: "\n  \n",
		},
		{
			name:  "json array",
			input: `[{"kind":"success","message":"saved"},{"kind":"fatal","message":"odd"}]`,
			want: []Request{
				{Kind: model.KindSuccess, Message: "saved"},
				{Kind: model.KindInfo, Message: "odd"},
			},
		},
		{
			name:  "json lines",
			input: "{\"kind\":\"error\",\"message\":\"boom\"}\n{\"kind\":\"warning\",\"message\":\"careful\"}\n",
			want: []Request{
				{Kind: model.KindError, Message: "boom"},
				{Kind: model.KindWarning, Message: "careful"},
			},
		},
		{
			name:  "plain lines",
			input: "warning: disk almost full\nNote: not a kind\njust text\n",
			want: []Request{
				{Kind: model.KindWarning, Message: "disk almost full"},
				{Kind: model.KindInfo, Message: "Note: not a kind"},
				{Kind: model.KindInfo, Message: "just text"},
			},
		},
		{
			name:  "control characters stripped",
			input: "error: bad\x07 bell\n",
			want:  []Request{{Kind: model.KindError, Message: "bad bell"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewStdinAdapterWithReader(strings.NewReader(tt.input))
			assert.Equal(t, "stdin", a.Name())
			got, err := a.Import(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStdinAdapter_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{name: "bad array", input: `[{"kind":`, wantMsg: "failed to parse JSON input"},
		{name: "bad line", input: "info: ok\n{nope}\n", wantMsg: "line 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStdinAdapterWithReader(strings.NewReader(tt.input)).Import(context.Background())
			require.Error(t, err)
			var ae *AdapterError
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, "stdin", ae.Source)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.NotNil(t, errors.Unwrap(err))
		})
	}
}

func TestStdinAdapter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewStdinAdapterWithReader(strings.NewReader("info: x\n")).Import(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
