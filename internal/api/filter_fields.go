package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chroniclecms/chronicle/internal/constants"
	apperrors "github.com/chroniclecms/chronicle/internal/errors"
	"github.com/chroniclecms/chronicle/internal/model"
	"github.com/chroniclecms/chronicle/internal/query"
)

// FieldsFilter applies exact-match constraints from query parameters
// named after the view's stored fields. Parameters that name no exposed
// stored field are ignored; they may belong to later backends. Values
// are coerced by the field's kind, and a value that does not coerce
// rejects the request.
type FieldsFilter struct{}

func NewFieldsFilter() *FieldsFilter {
	return &FieldsFilter{}
}

func (f *FieldsFilter) FilterQueryset(r *Request, qs query.PageQuery, view *View) (query.PageQuery, error) {
	for _, field := range view.StoredFields() {
		if !r.Params.Has(field.Name) {
			continue
		}
		raw := r.Params.Get(field.Name)

		switch field.Kind {
		case model.KindTags:
			for _, tag := range strings.Split(raw, ",") {
				qs = qs.FilterHasTag(tag)
			}
			r.State.FilteredByTag = true

		case model.KindBoolean:
			value, err := ParseBooleanValue(raw)
			if err != nil {
				return nil, fieldFilterError(raw, field.Name, "expected a boolean: true, false, 1 or 0")
			}
			qs = qs.FilterEquals(field.Column, value)

		case model.KindInteger:
			value, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fieldFilterError(raw, field.Name, "expected an integer")
			}
			qs = qs.FilterEquals(field.Column, value)

		default:
			qs = qs.FilterEquals(field.Column, raw)
		}
	}
	return qs, nil
}

func (f *FieldsFilter) SchemaFields(view *View) []SchemaField {
	stored := view.StoredFields()
	fields := make([]SchemaField, 0, len(stored))
	for _, field := range stored {
		sf := SchemaField{
			Name:        field.Name,
			Required:    false,
			Location:    SchemaLocationQuery,
			Type:        SchemaTypeString,
			Title:       titleize(field.Name),
			Description: fmt.Sprintf("Only return pages whose %s field exactly matches this value.", field.Name),
		}
		switch field.Kind {
		case model.KindBoolean:
			sf.Type = SchemaTypeBoolean
		case model.KindInteger:
			sf.Type = SchemaTypeInteger
		case model.KindTags:
			sf.Description = "A comma-separated list of tags. Only pages carrying every listed tag are returned."
		}
		fields = append(fields, sf)
	}
	return fields
}

// ParseBooleanValue coerces a boolean query value. Accepted spellings
// are true, false, 1 and 0, case-insensitively.
func ParseBooleanValue(raw string) (bool, error) {
	lowered := strings.ToLower(raw)
	for _, v := range constants.BooleanTrueValues {
		if lowered == v {
			return true, nil
		}
	}
	for _, v := range constants.BooleanFalseValues {
		if lowered == v {
			return false, nil
		}
	}
	return false, fmt.Errorf("not a boolean value: %q", raw)
}

func fieldFilterError(value, fieldName, cause string) error {
	return apperrors.BadRequestf("field filter error. '%s' is not a valid value for %s (%s)", value, fieldName, cause)
}
