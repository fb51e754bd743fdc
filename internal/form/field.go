package form

import "slices"

// Field is the state of one form input.
type Field struct {
	Name        string
	Label       string
	Placeholder string
	Value       string

	Focused bool
	Invalid bool
	// Shaking is set when a submit finds the field invalid and cleared by
	// StopShake once the shake animation has played.
	Shaking bool

	Password bool
	Revealed bool

	// Options, when set, restrict Value to one of them; Cycle steps through.
	Options []string
}

// Floating reports whether the label floats above the input: the field is
// focused or has a value.
func (f *Field) Floating() bool {
	return f.Focused || f.Value != ""
}

// Focus marks the field focused.
func (f *Field) Focus() { f.Focused = true }

// Blur removes focus.
func (f *Field) Blur() { f.Focused = false }

// SetValue replaces the value. Editing an invalid field clears the mark.
func (f *Field) SetValue(v string) {
	if v != f.Value {
		f.Invalid = false
	}
	f.Value = v
}

// TogglePassword switches a password field between masked and plain text.
// It returns the new revealed state; non-password fields are unaffected.
func (f *Field) TogglePassword() bool {
	if !f.Password {
		return false
	}
	f.Revealed = !f.Revealed
	return f.Revealed
}

// Masked reports whether the value should be echoed as bullets.
func (f *Field) Masked() bool {
	return f.Password && !f.Revealed
}

// ToggleIcon is the Font Awesome name for the password toggle: "eye" while
// masked and "eye-slash" while revealed. Non-password fields have none.
func (f *Field) ToggleIcon() string {
	switch {
	case !f.Password:
		return ""
	case f.Revealed:
		return "eye-slash"
	default:
		return "eye"
	}
}

// Cycle moves Value to the next option, wrapping around.
func (f *Field) Cycle(step int) {
	if len(f.Options) == 0 {
		return
	}
	i := slices.Index(f.Options, f.Value)
	n := len(f.Options)
	f.Value = f.Options[((i+step)%n+n)%n]
}

// Shake marks the field invalid and starts the shake animation.
func (f *Field) Shake() {
	f.Invalid = true
	f.Shaking = true
}

// StopShake ends the shake animation. The invalid mark stays.
func (f *Field) StopShake() {
	f.Shaking = false
}
