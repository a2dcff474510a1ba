package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FieldViolation describes one failed constraint
type FieldViolation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Validator checks documents against their `validate` struct tags
type Validator struct {
	validate *validator.Validate
}

var timeType = reflect.TypeOf(time.Time{})

// NewValidator reports field names by their JSON name and registers the lnglat rule
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// lnglat checks a [longitude, latitude] pair
	_ = v.RegisterValidation("lnglat", func(fl validator.FieldLevel) bool {
		coords, ok := fl.Field().Interface().([]float64)
		if !ok || len(coords) != 2 {
			return false
		}
		return coords[0] >= -180 && coords[0] <= 180 && coords[1] >= -90 && coords[1] <= 90
	})
	return &Validator{validate: v}
}

// Struct validates every field of doc
func (v *Validator) Struct(doc interface{}) []FieldViolation {
	return violations("", v.validate.Struct(doc))
}

// Fields validates only the named top-level fields of doc, addressed by JSON name.
// Names that do not belong to doc are skipped.
func (v *Validator) Fields(doc interface{}, names ...string) []FieldViolation {
	val := reflect.Indirect(reflect.ValueOf(doc))
	var out []FieldViolation
	for _, name := range names {
		fv, tag, ok := fieldByJSONName(val, name)
		if !ok {
			continue
		}
		if tag != "" {
			out = append(out, violations(name, v.validate.Var(fv.Interface(), tag))...)
		}
		if fv.Kind() == reflect.Struct && fv.Type() != timeType {
			out = append(out, violations(name, v.validate.Struct(fv.Interface()))...)
		}
	}
	return out
}

// HasField reports whether doc declares a field with the given JSON name
func HasField(doc interface{}, name string) bool {
	_, _, ok := fieldByJSONName(reflect.Indirect(reflect.ValueOf(doc)), name)
	return ok
}

// FieldValue returns the value of the field with the given JSON name
func FieldValue(doc interface{}, name string) (interface{}, bool) {
	fv, _, ok := fieldByJSONName(reflect.Indirect(reflect.ValueOf(doc)), name)
	if !ok {
		return nil, false
	}
	return fv.Interface(), true
}

// IsTimeField reports whether the named field holds a time.Time
func IsTimeField(doc interface{}, name string) bool {
	fv, _, ok := fieldByJSONName(reflect.Indirect(reflect.ValueOf(doc)), name)
	return ok && fv.Type() == timeType
}

// IsOptional reports whether the named field may be absent from a stored document:
// it is marked omitempty and declares no required rule.
func IsOptional(doc interface{}, name string) bool {
	val := reflect.Indirect(reflect.ValueOf(doc))
	sf, ok := structFieldByJSONName(val.Type(), name)
	if !ok {
		return false
	}
	opts := strings.Split(sf.Tag.Get("json"), ",")[1:]
	if !contains(opts, "omitempty") {
		return false
	}
	rules := strings.Split(sf.Tag.Get("validate"), ",")
	return !contains(rules, "required") || (len(rules) > 0 && rules[0] == "omitempty")
}

func structFieldByJSONName(typ reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			if f, ok := structFieldByJSONName(sf.Type, name); ok {
				return f, true
			}
			continue
		}
		if strings.SplitN(sf.Tag.Get("json"), ",", 2)[0] == name {
			return sf, true
		}
	}
	return reflect.StructField{}, false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func fieldByJSONName(val reflect.Value, name string) (reflect.Value, string, bool) {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			if fv, tag, ok := fieldByJSONName(val.Field(i), name); ok {
				return fv, tag, true
			}
			continue
		}
		if strings.SplitN(sf.Tag.Get("json"), ",", 2)[0] == name {
			return val.Field(i), sf.Tag.Get("validate"), true
		}
	}
	return reflect.Value{}, "", false
}

func violations(prefix string, err error) []FieldViolation {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldViolation{{Field: prefix, Rule: "invalid", Message: err.Error()}}
	}
	out := make([]FieldViolation, 0, len(verrs))
	for _, fe := range verrs {
		field := joinField(prefix, fe.Namespace())
		rule := fe.Tag()
		if p := fe.Param(); p != "" {
			rule += "=" + p
		}
		out = append(out, FieldViolation{
			Field:   field,
			Rule:    fe.Tag(),
			Message: fmt.Sprintf("%s must satisfy %s", field, rule),
		})
	}
	return out
}

// joinField drops the root type name that validator puts in front of struct namespaces
func joinField(prefix, ns string) string {
	if ns == "" {
		return prefix
	}
	if strings.HasPrefix(ns, "[") {
		return prefix + ns
	}
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if prefix == "" {
		return ns
	}
	return prefix + "." + ns
}
