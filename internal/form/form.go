package form

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jmylchreest/toastui/internal/model"
)

// Field names.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldConfirm  = "confirm"
	FieldRole     = "role"
)

// Mode selects which form a Form is.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// String returns the tab label for the mode.
func (m Mode) String() string {
	if m == ModeRegister {
		return "Register"
	}
	return "Sign in"
}

type loginInput struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type registrationInput struct {
	Username string `form:"username" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=8"`
	Confirm  string `form:"confirm" validate:"required,eqfield=Password"`
	Role     string `form:"role" validate:"required,oneof=patient doctor"`
}

// Rules are applied in this order; the first failing rule names the message.
var ruleOrder = []string{"required", "email", "eqfield", "min", "oneof"}

var ruleErrors = map[string]error{
	"required": ErrRequired,
	"email":    ErrInvalidEmail,
	"eqfield":  ErrPasswordMismatch,
	"min":      ErrPasswordTooShort,
	"oneof":    ErrInvalidRole,
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			return f.Tag.Get("form")
		})
		validateInst = v
	})
	return validateInst
}

// Outcome is the result of a submit.
type Outcome struct {
	Kind    model.Kind
	Message string
	Err     error
	Account *Account
}

// OK reports whether the submit succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

func failure(err error) Outcome {
	return Outcome{Kind: model.KindError, Message: Message(err), Err: err}
}

// Form is a sign-in or registration form.
type Form struct {
	mode    Mode
	fields  []*Field
	focus   int
	loading bool
}

// NewLogin creates the sign-in form.
func NewLogin() *Form {
	f := &Form{
		mode: ModeLogin,
		fields: []*Field{
			{Name: FieldUsername, Label: "Username", Placeholder: "your username"},
			{Name: FieldPassword, Label: "Password", Placeholder: "your password", Password: true},
		},
	}
	f.SetFocus(0)
	return f
}

// NewRegistration creates the registration form. Role defaults to patient.
func NewRegistration() *Form {
	roles := make([]string, len(RegistrableRoles))
	for i, r := range RegistrableRoles {
		roles[i] = string(r)
	}
	f := &Form{
		mode: ModeRegister,
		fields: []*Field{
			{Name: FieldUsername, Label: "Username", Placeholder: "choose a username"},
			{Name: FieldEmail, Label: "Email", Placeholder: "you@example.com"},
			{Name: FieldPassword, Label: "Password", Placeholder: "at least 8 characters", Password: true},
			{Name: FieldConfirm, Label: "Confirm password", Placeholder: "repeat the password", Password: true},
			{Name: FieldRole, Label: "Register as", Value: string(RolePatient), Options: roles},
		},
	}
	f.SetFocus(0)
	return f
}

// Mode returns which form this is.
func (f *Form) Mode() Mode { return f.mode }

// Fields returns the fields in tab order.
func (f *Form) Fields() []*Field { return f.fields }

// Field returns the named field, or nil.
func (f *Form) Field(name string) *Field {
	for _, fl := range f.fields {
		if fl.Name == name {
			return fl
		}
	}
	return nil
}

// Value returns the named field's value.
func (f *Form) Value(name string) string {
	if fl := f.Field(name); fl != nil {
		return fl.Value
	}
	return ""
}

// FocusIndex returns the index of the focused field.
func (f *Form) FocusIndex() int { return f.focus }

// Focused returns the focused field.
func (f *Form) Focused() *Field { return f.fields[f.focus] }

// SetFocus focuses field i, wrapping around.
func (f *Form) SetFocus(i int) {
	n := len(f.fields)
	i = ((i % n) + n) % n
	for _, fl := range f.fields {
		fl.Blur()
	}
	f.focus = i
	f.fields[i].Focus()
}

// FocusNext moves focus to the next field.
func (f *Form) FocusNext() { f.SetFocus(f.focus + 1) }

// FocusPrev moves focus to the previous field.
func (f *Form) FocusPrev() { f.SetFocus(f.focus - 1) }

// TogglePassword toggles visibility of the focused field, or of the first
// password field when the focused one is not a password.
func (f *Form) TogglePassword() {
	if fl := f.Focused(); fl.Password {
		fl.TogglePassword()
		return
	}
	for _, fl := range f.fields {
		if fl.Password {
			fl.TogglePassword()
			return
		}
	}
}

func (f *Form) input() any {
	if f.mode == ModeRegister {
		return &registrationInput{
			Username: strings.TrimSpace(f.Value(FieldUsername)),
			Email:    strings.TrimSpace(f.Value(FieldEmail)),
			Password: f.Value(FieldPassword),
			Confirm:  f.Value(FieldConfirm),
			Role:     f.Value(FieldRole),
		}
	}
	return &loginInput{
		Username: strings.TrimSpace(f.Value(FieldUsername)),
		Password: f.Value(FieldPassword),
	}
}

// Validate checks every field and returns the failures ordered by rule,
// then by field order. Each error wraps the sentinel for its rule.
func (f *Form) Validate() []*FieldError {
	err := validatorInstance().Struct(f.input())
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*FieldError{{Field: "", Tag: "invalid", Err: err}}
	}

	out := make([]*FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, &FieldError{Field: fe.Field(), Tag: fe.Tag(), Err: ruleErrors[fe.Tag()]})
	}
	slices.SortStableFunc(out, func(a, b *FieldError) int {
		if d := slices.Index(ruleOrder, a.Tag) - slices.Index(ruleOrder, b.Tag); d != 0 {
			return d
		}
		return f.fieldIndex(a.Field) - f.fieldIndex(b.Field)
	})
	return out
}

func (f *Form) fieldIndex(name string) int {
	return slices.IndexFunc(f.fields, func(fl *Field) bool { return fl.Name == name })
}

// Submission is a snapshot of a form's values taken by Begin. Running it
// never touches the form, so it may run off the UI goroutine.
type Submission struct {
	mode  Mode
	input any
}

// Mode returns the form the submission was taken from.
func (s *Submission) Mode() Mode { return s.mode }

// Run submits the snapshot to the directory.
func (s *Submission) Run(dir *Directory) Outcome {
	switch in := s.input.(type) {
	case *registrationInput:
		acc, err := dir.Register(in.Username, in.Email, in.Password, Role(in.Role))
		if err != nil {
			return failure(err)
		}
		return Outcome{Kind: model.KindSuccess, Message: "Account created. You can sign in now!", Account: acc}
	case *loginInput:
		acc, err := dir.Authenticate(in.Username, in.Password)
		if err != nil {
			return failure(err)
		}
		return Outcome{Kind: model.KindSuccess, Message: "Welcome " + acc.Username + "!", Account: acc}
	}
	return failure(errors.New("unknown form"))
}

// Begin validates the form. Invalid fields shake and an error outcome is
// returned with a nil Submission. Otherwise the form enters the loading state
// and the returned Submission holds the values to submit. Begin returns a nil
// Submission and an empty outcome while a submit is already in flight.
func (f *Form) Begin() (Outcome, *Submission) {
	if f.loading {
		return Outcome{}, nil
	}
	errs := f.Validate()
	if len(errs) > 0 {
		for _, fe := range errs {
			if fl := f.Field(fe.Field); fl != nil {
				fl.Shake()
			}
		}
		return failure(errs[0]), nil
	}
	f.loading = true
	return Outcome{}, &Submission{mode: f.mode, input: f.input()}
}

// Finish leaves the loading state and applies the outcome: failing fields
// shake, and password fields are cleared.
func (f *Form) Finish(o Outcome) {
	f.loading = false
	switch {
	case errors.Is(o.Err, ErrUsernameTaken):
		f.Field(FieldUsername).Shake()
	case errors.Is(o.Err, ErrEmailTaken):
		f.Field(FieldEmail).Shake()
	case errors.Is(o.Err, ErrInvalidCredentials):
		f.Field(FieldPassword).Shake()
	}
	for _, fl := range f.fields {
		if fl.Password {
			fl.Value = ""
		}
	}
	if o.OK() {
		f.Reset()
	}
}

// Loading reports whether a submit is in flight.
func (f *Form) Loading() bool { return f.loading }

// ButtonText is the submit button label.
func (f *Form) ButtonText() string {
	switch {
	case f.mode == ModeLogin && f.loading:
		return "Signing in..."
	case f.mode == ModeLogin:
		return "Sign in"
	case f.loading:
		return "Creating account..."
	default:
		return "Create account"
	}
}

// StopShaking ends the shake animation on every field.
func (f *Form) StopShaking() {
	for _, fl := range f.fields {
		fl.StopShake()
	}
}

// Shaking reports whether any field is shaking.
func (f *Form) Shaking() bool {
	return slices.ContainsFunc(f.fields, func(fl *Field) bool { return fl.Shaking })
}

// Reset clears values and marks and focuses the first field. A submit in
// flight stays in flight until Finish.
func (f *Form) Reset() {
	for _, fl := range f.fields {
		fl.Invalid = false
		fl.Shaking = false
		fl.Revealed = false
		if len(fl.Options) > 0 {
			fl.Value = fl.Options[0]
		} else {
			fl.Value = ""
		}
	}
	f.SetFocus(0)
}
