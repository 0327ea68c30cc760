package notes

import (
	"errors"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// messages maps field and failing tag to the client-facing message.
var messages = map[string]map[string]string{
	"title": {
		"required": "Title is required",
		"min":      "Title cannot be empty",
		"max":      "Title cannot exceed 100 characters",
	},
	"content": {
		"required": "Content is required",
		"min":      "Content cannot be empty",
		"max":      "Content cannot exceed 5000 characters",
	},
	"tags": {
		"max": "Each tag cannot exceed 30 characters",
	},
	"priority": {
		"oneof": "Priority must be low, medium, or high",
	},
}

func checkStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		field := fe.Field()
		if i := strings.IndexByte(field, '['); i >= 0 {
			field = field[:i]
		}
		msg, ok := messages[field][fe.Tag()]
		if !ok {
			msg = field + " is invalid"
		}
		out.Errors = append(out.Errors, FieldError{Field: field, Message: msg})
	}
	return out
}

func trimAll(tags []string) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = strings.TrimSpace(t)
	}
	return out
}

// normalizeCreate trims text fields and validates the result.
func normalizeCreate(in CreateNoteInput) (CreateNoteInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Tags = trimAll(in.Tags)
	if err := checkStruct(in); err != nil {
		return in, err
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	return in, nil
}

// normalizeUpdate trims the present fields and validates them.
func normalizeUpdate(in UpdateNoteInput) (NotePatch, error) {
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		in.Title = &t
	}
	if in.Content != nil {
		c := strings.TrimSpace(*in.Content)
		in.Content = &c
	}
	if in.Tags != nil {
		tags := trimAll(*in.Tags)
		in.Tags = &tags
	}
	if err := checkStruct(in); err != nil {
		return NotePatch{}, err
	}

	patch := NotePatch{Title: in.Title, Content: in.Content, Priority: in.Priority}
	if in.Tags != nil {
		patch.Tags = *in.Tags
		patch.SetTags = true
	}
	return patch, nil
}

// ParseID validates a note identifier.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, newValidationError("id", "Invalid note ID format")
	}
	return oid, nil
}

// ParsePriority validates a priority value.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", newValidationError("priority", "Priority must be low, medium, or high")
	}
	return p, nil
}

// ParseListQuery reads list parameters from a query string. Absent values
// are left zero so Compose applies its defaults.
func ParseListQuery(v url.Values) (ListQuery, error) {
	q := ListQuery{
		Archived:  v.Get("archived"),
		Search:    v.Get("search"),
		SortBy:    v.Get("sortBy"),
		SortOrder: v.Get("sortOrder"),
	}

	verr := &ValidationError{}
	if p := v.Get("priority"); p != "" {
		if _, err := ParsePriority(p); err != nil {
			verr.Errors = append(verr.Errors, err.(*ValidationError).Errors...)
		}
		q.Priority = Priority(p)
	}
	var ok bool
	if q.Page, ok = positiveInt(v.Get("page")); !ok {
		verr.Errors = append(verr.Errors, FieldError{Field: "page", Message: "Page must be a positive integer"})
	}
	if q.Limit, ok = positiveInt(v.Get("limit")); !ok {
		verr.Errors = append(verr.Errors, FieldError{Field: "limit", Message: "Limit must be a positive integer"})
	}

	if len(verr.Errors) > 0 {
		return ListQuery{}, verr
	}
	return q, nil
}

func positiveInt(s string) (int, bool) {
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
