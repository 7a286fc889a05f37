// Package admin holds the add/edit form state of the admin panel.
package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/Praveenjayasiri/Simple-User-Management-System/models"
)

// ErrFieldsRequired is the single validation error the form reports.
var ErrFieldsRequired = errors.New("All fields are required")

// Directory is what the panel needs from the user directory.
type Directory interface {
	AddUser(ctx context.Context, fields models.UserFields) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, fields models.UserFields) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) (*models.User, error)
}

// Form is the set of fields edited in either mode.
type Form struct {
	Username string `validate:"required"`
	Email    string `validate:"required"`
	Role     string `validate:"required"`
	// Password is optional; when empty on edit the stored password is kept.
	Password string
}

// FormFrom fills a form from a stored record.
func FormFrom(u *models.User) Form {
	return Form{Username: u.Username, Email: u.Email, Role: u.Role}
}

// Fields converts the form into a store patch.
func (f Form) Fields() models.UserFields {
	fields := models.UserFields{
		Username: models.StringPtr(f.Username),
		Email:    models.StringPtr(f.Email),
		Role:     models.StringPtr(f.Role),
	}
	if f.Password != "" {
		fields.Password = models.StringPtr(f.Password)
	}
	return fields
}

// Editing is the record currently being edited.
type Editing struct {
	ID int64
	Form
}

// Panel is the admin form state machine. Exactly one of add mode (Editing
// is nil, Draft is active) or edit mode is in effect at any time.
type Panel struct {
	dir      Directory
	validate *validator.Validate

	Draft   Form
	Editing *Editing
	Error   string
}

func NewPanel(dir Directory) *Panel {
	return &Panel{dir: dir, validate: validator.New()}
}

func (p *Panel) InEditMode() bool {
	return p.Editing != nil
}

// Edit switches to edit mode with a copy of u.
func (p *Panel) Edit(u *models.User) {
	p.Editing = &Editing{ID: u.ID, Form: FormFrom(u)}
	p.Error = ""
}

// Cancel leaves edit mode without touching any data.
func (p *Panel) Cancel() {
	p.Editing = nil
	p.Error = ""
}

// Active returns the form currently bound to the inputs.
func (p *Panel) Active() *Form {
	if p.Editing != nil {
		return &p.Editing.Form
	}
	return &p.Draft
}

// SetField writes value into the named field of the active form. Unknown
// names are ignored.
func (p *Panel) SetField(name, value string) {
	f := p.Active()
	switch name {
	case "username":
		f.Username = value
	case "email":
		f.Email = value
	case "role":
		f.Role = value
	case "password":
		f.Password = value
	}
}

// ValidateForm checks that username, email and role are all non-empty.
// On failure Error is set and ErrFieldsRequired returned; on success Error
// is cleared.
func (p *Panel) ValidateForm(f Form) error {
	if err := p.validate.Struct(f); err != nil {
		p.Error = ErrFieldsRequired.Error()
		return ErrFieldsRequired
	}
	p.Error = ""
	return nil
}

// Submit validates the active form and writes it through the directory.
// Add mode resets the draft; edit mode returns to add mode. A validation
// or store failure leaves the form as it was.
func (p *Panel) Submit(ctx context.Context) (*models.User, error) {
	if p.Editing != nil {
		if err := p.ValidateForm(p.Editing.Form); err != nil {
			return nil, err
		}
		updated, err := p.dir.UpdateUser(ctx, p.Editing.ID, p.Editing.Fields())
		if err != nil {
			return nil, fmt.Errorf("save user %d: %w", p.Editing.ID, err)
		}
		p.Editing = nil
		return updated, nil
	}

	if err := p.ValidateForm(p.Draft); err != nil {
		return nil, err
	}
	created, err := p.dir.AddUser(ctx, p.Draft.Fields())
	if err != nil {
		return nil, fmt.Errorf("add user: %w", err)
	}
	p.Draft = Form{}
	return created, nil
}

// Delete removes the user immediately, with no confirmation step.
func (p *Panel) Delete(ctx context.Context, id int64) (*models.User, error) {
	return p.dir.DeleteUser(ctx, id)
}
