package model

// Presentation describes how a kind is shown: title text, icon name and terminal glyph.
type Presentation struct {
	Title string `toml:"title" yaml:"title"`
	Icon  string `toml:"icon" yaml:"icon"`
	Glyph string `toml:"glyph" yaml:"glyph"`
}

var defaultPresentations = map[Kind]Presentation{
	KindSuccess: {Title: "Success", Icon: "check-circle", Glyph: "✔"},
	KindError:   {Title: "Error", Icon: "exclamation-circle", Glyph: "✖"},
	KindWarning: {Title: "Warning", Icon: "exclamation-triangle", Glyph: "▲"},
	KindInfo:    {Title: "Information", Icon: "info-circle", Glyph: "ℹ"},
}

// DefaultPresentation returns the built-in presentation for a kind.
// Unknown kinds get the info presentation.
func DefaultPresentation(k Kind) Presentation {
	return defaultPresentations[ParseKind(string(k))]
}

// Merge returns p with empty fields filled from fallback.
func (p Presentation) Merge(fallback Presentation) Presentation {
	if p.Title == "" {
		p.Title = fallback.Title
	}
	if p.Icon == "" {
		p.Icon = fallback.Icon
	}
	if p.Glyph == "" {
		p.Glyph = fallback.Glyph
	}
	return p
}
