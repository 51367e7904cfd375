package reconcile

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"carmodel-inventory/internal/model"
	"carmodel-inventory/internal/storeclient"
	"carmodel-inventory/pkg/validator"
)

// Fields are the scalar values of the record form.
type Fields struct {
	ModelName           string `json:"modelName" form:"modelName" validate:"required"`
	ModelCode           string `json:"modelCode" form:"modelCode" validate:"required,max=50"`
	Brand               string `json:"brand" form:"brand" validate:"required"`
	Class               string `json:"class" form:"class" validate:"required"`
	Price               string `json:"price" form:"price" validate:"required,decimal_gte0"`
	DateOfManufacturing string `json:"dateOfManufacturing" form:"dateOfManufacturing" validate:"required"`
	Active              bool   `json:"active" form:"active"`
	SortOrder           string `json:"sortOrder" form:"sortOrder"`
	Description         string `json:"description" form:"description"`
	Features            string `json:"features" form:"features"`
}

// FieldsFromRecord fills the form from a fetched record, date in canonical
// YYYY-MM-DD form.
func FieldsFromRecord(r *model.Record) Fields {
	f := Fields{
		ModelName:   r.ModelName,
		ModelCode:   r.ModelCode,
		Brand:       r.Brand,
		Class:       r.Class,
		Price:       r.Price.String(),
		Active:      r.Active,
		SortOrder:   strconv.Itoa(r.SortOrder),
		Description: r.Description,
		Features:    r.Features,
	}
	if !r.DateOfManufacturing.IsZero() {
		f.DateOfManufacturing = r.DateOfManufacturing.UTC().Format("2006-01-02")
	}
	return f
}

// UnmarshalJSON accepts price and sortOrder as JSON numbers or strings.
func (f *Fields) UnmarshalJSON(data []byte) error {
	type plain Fields
	aux := struct {
		*plain
		Price     json.RawMessage `json:"price"`
		SortOrder json.RawMessage `json:"sortOrder"`
	}{plain: (*plain)(f)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var ok bool
	if f.Price, ok = scalarText(aux.Price); !ok {
		return &FieldError{Field: "price", Message: "must be a number"}
	}
	if f.SortOrder, ok = scalarText(aux.SortOrder); !ok {
		return &FieldError{Field: "sortOrder", Message: "must be an integer"}
	}
	return nil
}

// scalarText returns a JSON string or number as text; null or absent is "".
func scalarText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", true
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", false
	}
	return n.String(), true
}

// FieldError is a validation failure on a single form field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + " " + e.Message
}

// jsonNames maps struct fields to the names the form and the store use.
var jsonNames = map[string]string{
	"ModelName":           "modelName",
	"ModelCode":           "modelCode",
	"Brand":               "brand",
	"Class":               "class",
	"Price":               "price",
	"DateOfManufacturing": "dateOfManufacturing",
	"SortOrder":           "sortOrder",
}

// Normalize validates f and returns a copy ready for submission: trimmed
// text, canonical date, sortOrder defaulted to 0.
func (f Fields) Normalize() (Fields, error) {
	f.ModelName = strings.TrimSpace(f.ModelName)
	f.ModelCode = strings.TrimSpace(f.ModelCode)
	f.Brand = strings.TrimSpace(f.Brand)
	f.Class = strings.TrimSpace(f.Class)
	f.Price = strings.TrimSpace(f.Price)
	f.SortOrder = strings.TrimSpace(f.SortOrder)

	if verr := validator.First(&f); verr != nil {
		return f, toFieldError(verr)
	}

	date, err := NormalizeDate(f.DateOfManufacturing)
	if err != nil {
		return f, &FieldError{Field: "dateOfManufacturing", Message: "must be YYYY-MM-DD"}
	}
	f.DateOfManufacturing = date

	if f.SortOrder == "" {
		f.SortOrder = "0"
	} else if _, err := strconv.Atoi(f.SortOrder); err != nil {
		return f, &FieldError{Field: "sortOrder", Message: "must be an integer"}
	}
	return f, nil
}

func toFieldError(verr *validator.ErrorResponse) *FieldError {
	name, ok := jsonNames[verr.FailedField]
	if !ok {
		name = verr.FailedField
	}
	switch verr.Tag {
	case "required":
		return &FieldError{Field: name, Message: "is required"}
	case "decimal_gte0":
		return &FieldError{Field: name, Message: "must be a non-negative number"}
	case "max":
		return &FieldError{Field: name, Message: "must be at most " + verr.Value + " characters"}
	}
	return &FieldError{Field: name, Message: "failed on " + verr.Tag}
}

// formFields lists the text parts in the order the store has always received them.
func (f Fields) formFields() []storeclient.FormField {
	return []storeclient.FormField{
		{Name: "modelName", Value: f.ModelName},
		{Name: "modelCode", Value: f.ModelCode},
		{Name: "brand", Value: f.Brand},
		{Name: "class", Value: f.Class},
		{Name: "description", Value: f.Description},
		{Name: "features", Value: f.Features},
		{Name: "price", Value: f.Price},
		{Name: "dateOfManufacturing", Value: f.DateOfManufacturing},
		{Name: "active", Value: strconv.FormatBool(f.Active)},
		{Name: "sortOrder", Value: f.SortOrder},
	}
}
