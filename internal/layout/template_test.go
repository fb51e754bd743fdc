package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplateString(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantErr     bool
		checkLayout func(t *testing.T, config *LayoutConfig)
	}{
		{
			name: "simple toast with header and body",
			input: `<toast>
				<header>
					<icon />
					<title />
				</header>
				<body />
			</toast>`,
			checkLayout: func(t *testing.T, config *LayoutConfig) {
				require.Len(t, config.Elements, 2)
				assert.Equal(t, ElementTypeHeader, config.Elements[0].Type)
				assert.Equal(t, ElementTypeBody, config.Elements[1].Type)

				header := config.Elements[0]
				require.Len(t, header.Children, 2)
				assert.Equal(t, ElementTypeIcon, header.Children[0].Type)
				assert.Equal(t, ElementTypeTitle, header.Children[1].Type)
				assert.False(t, config.Has(ElementTypeClose))
			},
		},
		{
			name: "box with orientation attribute",
			input: `<toast>
				<box orientation="vertical">
					<title />
					<body />
				</box>
			</toast>`,
			checkLayout: func(t *testing.T, config *LayoutConfig) {
				require.Len(t, config.Elements, 1)
				box := config.Elements[0]
				assert.Equal(t, ElementTypeBox, box.Type)
				assert.Equal(t, "vertical", box.Attr("orientation", "horizontal"))
				assert.Equal(t, "x", box.Attr("missing", "x"))
				require.Len(t, box.Children, 2)
				assert.True(t, config.Has(ElementTypeBody))
			},
		},
		{
			name: "unknown element is skipped with its children",
			input: `<toast>
				<actions><button /></actions>
				<body />
				<image />
			</toast>`,
			checkLayout: func(t *testing.T, config *LayoutConfig) {
				require.Len(t, config.Elements, 1)
				assert.Equal(t, ElementTypeBody, config.Elements[0].Type)
				assert.Equal(t, []string{"actions", "image"}, config.Skipped)
			},
		},
		{
			name:  "empty toast",
			input: `<toast></toast>`,
			checkLayout: func(t *testing.T, config *LayoutConfig) {
				assert.Empty(t, config.Elements)
			},
		},
		{
			name: "all element types",
			input: `<toast>
				<header />
				<body />
				<icon />
				<title />
				<close />
				<progress />
				<timestamp />
				<box />
			</toast>`,
			checkLayout: func(t *testing.T, config *LayoutConfig) {
				require.Len(t, config.Elements, 8)
				assert.Empty(t, config.Skipped)
			},
		},
		{
			name:  "width attributes",
			input: `<toast min-width="20" max-width="50ch"><body /></toast>`,
			checkLayout: func(t *testing.T, config *LayoutConfig) {
				assert.Equal(t, 20, config.MinWidth)
				assert.Equal(t, 50, config.MaxWidth)
			},
		},
		{
			name:  "invalid width is ignored",
			input: `<toast min-width="wide"><body /></toast>`,
			checkLayout: func(t *testing.T, config *LayoutConfig) {
				assert.Zero(t, config.MinWidth)
			},
		},
		{
			name:  "leading comment and declaration",
			input: `<?xml version="1.0"?><!-- custom --><toast><body /></toast>`,
			checkLayout: func(t *testing.T, config *LayoutConfig) {
				require.Len(t, config.Elements, 1)
			},
		},
		{
			name:    "wrong root",
			input:   `<popup><body /></popup>`,
			wantErr: true,
		},
		{
			name:    "no root",
			input:   ``,
			wantErr: true,
		},
		{
			name:    "malformed",
			input:   `<toast><body></toast>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := ParseTemplateString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.checkLayout != nil {
				tt.checkLayout(t, config)
			}
		})
	}
}

func TestParseTemplate_NoRootError(t *testing.T) {
	_, err := ParseTemplateString(`<popup />`)
	assert.ErrorIs(t, err, ErrNoRoot)
}

func TestDefaultLayout_MatchesDefaultXML(t *testing.T) {
	parsed, err := ParseTemplateString(DefaultTemplateXML())
	require.NoError(t, err)
	parsed.Skipped = nil

	assert.Equal(t, DefaultLayout(), parsed)
	assert.True(t, parsed.Has(ElementTypeClose))
}

func TestEmbeddedTemplates(t *testing.T) {
	names := ListEmbeddedTemplates()
	assert.ElementsMatch(t, []string{"compact", "default", "minimal"}, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			cfg, ok := GetEmbeddedTemplate(name)
			require.True(t, ok)
			assert.True(t, cfg.Has(ElementTypeBody), "every template shows the message")
			assert.Empty(t, cfg.Skipped)
		})
	}

	def, ok := GetEmbeddedTemplate("default")
	require.True(t, ok)
	assert.Equal(t, DefaultLayout(), def)

	_, ok = GetEmbeddedTemplate("nope")
	assert.False(t, ok)
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	custom := `<toast><body /><wobble /></toast>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.xml"), []byte(custom), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "minimal.xml"), []byte(`<toast><title /></toast>`), 0o644))

	loader := NewLoader(dir, nil)

	cfg, err := loader.Load("custom")
	require.NoError(t, err)
	assert.Equal(t, []string{"wobble"}, cfg.Skipped)

	// User templates override embedded ones.
	cfg, err = loader.Load("minimal")
	require.NoError(t, err)
	require.Len(t, cfg.Elements, 1)
	assert.Equal(t, ElementTypeTitle, cfg.Elements[0].Type)

	// Empty name means default.
	cfg, err = loader.Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLayout(), cfg)

	_, err = loader.Load("missing")
	assert.Error(t, err)

	// A loader without a directory still serves embedded templates.
	cfg, err = NewLoader("", nil).Load("compact")
	require.NoError(t, err)
	assert.True(t, cfg.Has(ElementTypeTitle))
}
