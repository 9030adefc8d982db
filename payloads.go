package gatekit

import (
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
)

// CommentMaxLength caps comment bodies, matching the public API contract.
const CommentMaxLength = 400

// PasswordMinLength is the registration floor for secrets.
const PasswordMinLength = 8

// RegisterPayload is the registration body
type RegisterPayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Name     string `form:"name" json:"name"`
}

// Validate will validate the payload
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("must enter a valid email"), is.Email.Error("must enter a valid email")),
		validation.Field(&r.Password, validation.Required.Error("password must be at least 8 characters"),
			validation.Length(PasswordMinLength, 100).Error("password must be at least 8 characters")),
		validation.Field(&r.Name, validation.Required.Error("name is required")),
	)
}

// LoginPayload is the credential login body
type LoginPayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will validate the payload
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("must enter a valid email"), is.Email.Error("must enter a valid email")),
		validation.Field(&r.Password, validation.Required.Error("password is required")),
	)
}

// PostPayload covers post create and update
type PostPayload struct {
	Title     string `form:"title" json:"title"`
	Body      string `form:"body" json:"body"`
	Published bool   `form:"is_published" json:"is_published"`
}

// Validate will validate the payload
func (r PostPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("title is required")),
		validation.Field(&r.Body, validation.Required.Error("post content is required")),
	)
}

// CommentCreatePayload is the comment creation body; the parent post id
// travels in the body as in the original API.
type CommentCreatePayload struct {
	Body   string `form:"body" json:"body"`
	PostID string `form:"post_id" json:"post_id"`
}

// Validate will validate the payload
func (r CommentCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Body, validation.Required.Error("comment text is required"),
			validation.Length(1, CommentMaxLength).Error("comment must be 400 characters or fewer")),
		validation.Field(&r.PostID, validation.Required.Error("post id is required"), is.UUID.Error("post id is invalid")),
	)
}

// CommentUpdatePayload is the comment edit body
type CommentUpdatePayload struct {
	Body string `form:"body" json:"body"`
}

// Validate will validate the payload
func (r CommentUpdatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Body, validation.Required.Error("comment text is required"),
			validation.Length(1, CommentMaxLength).Error("comment must be 400 characters or fewer")),
	)
}

// PrincipalUpdatePayload is the profile edit body
type PrincipalUpdatePayload struct {
	Email string `form:"email" json:"email"`
	Name  string `form:"name" json:"name"`
}

// Validate will validate the payload
func (r PrincipalUpdatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("must enter a valid email"), is.Email.Error("must enter a valid email")),
		validation.Field(&r.Name, validation.Required.Error("name is required")),
	)
}

// PasswordChangePayload is the credential-change body
type PasswordChangePayload struct {
	Password string `form:"password" json:"password"`
}

// Validate will validate the payload
func (r PasswordChangePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required.Error("password must be at least 8 characters"),
			validation.Length(PasswordMinLength, 100).Error("password must be at least 8 characters")),
	)
}

// WrapValidationError lifts an ozzo validation result into the error
// taxonomy, keeping every field violation.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}

	richErr := errors.Wrap(err, errors.CategoryValidation, "invalid request payload").
		WithCode(errors.CodeBadRequest)

	if fields, ok := err.(validation.Errors); ok {
		meta := make(map[string]any, len(fields))
		for field, ferr := range fields {
			meta[field] = ferr.Error()
		}
		richErr = richErr.WithMetadata(meta)
	}

	return richErr
}

// ValidationMessages flattens a validation error into the sorted message
// list the multi-error envelope renders. Non-validation errors yield a
// single message.
func ValidationMessages(err error) []string {
	if err == nil {
		return nil
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && len(richErr.Metadata) > 0 {
		fields := make([]string, 0, len(richErr.Metadata))
		for field := range richErr.Metadata {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		messages := make([]string, 0, len(fields))
		for _, field := range fields {
			if msg, ok := richErr.Metadata[field].(string); ok {
				messages = append(messages, field+": "+msg)
			}
		}
		if len(messages) > 0 {
			return messages
		}
	}

	return []string{err.Error()}
}
