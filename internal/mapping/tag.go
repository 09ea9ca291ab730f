package mapping

import (
	"fmt"
	"strings"

	"tablemap/internal/diagnostic"
)

// TagKey is the struct tag read for field options.
const TagKey = "sql"

// OptionError is a rejected field option, from a tag or from YAML.
type OptionError struct {
	Code    string
	Message string
}

func (e *OptionError) Error() string {
	return e.Message
}

// ParseTag parses the value of a sql struct tag:
//
//	sql:"-"                                  skip the field
//	sql:"name"                               column name
//	sql:"name,bind=BindF,extract=ExtractF"   custom conversion
//	sql:",codec=PathCodec"                   default name, codec variable
func ParseTag(tag string) (FieldOptions, error) {
	var opts FieldOptions

	if tag == "-" {
		opts.Skip = true
		return opts, nil
	}

	parts := strings.Split(tag, ",")
	opts.Column = strings.TrimSpace(parts[0])

	seen := make(map[string]bool)
	for _, p := range parts[1:] {
		key, value, _ := strings.Cut(strings.TrimSpace(p), "=")
		if seen[key] {
			return opts, &OptionError{
				Code:    diagnostic.CodeDuplicateOverride,
				Message: fmt.Sprintf("option %q given twice in tag", key),
			}
		}
		seen[key] = true

		var dst *string
		switch key {
		case "bind":
			dst = &opts.Bind
		case "extract":
			dst = &opts.Extract
		case "codec":
			dst = &opts.Codec
		default:
			return opts, &OptionError{
				Code:    diagnostic.CodeUnknownOption,
				Message: fmt.Sprintf("unknown tag option %q", key),
			}
		}

		if value == "" {
			return opts, &OptionError{
				Code:    diagnostic.CodeUnknownOption,
				Message: fmt.Sprintf("tag option %q needs a value", key),
			}
		}
		*dst = value
	}

	return opts, opts.Check()
}

// Check rejects option combinations that cannot be honored.
func (o FieldOptions) Check() error {
	if o.Codec != "" && (o.Bind != "" || o.Extract != "") {
		return &OptionError{
			Code:    diagnostic.CodeCodecConflict,
			Message: "codec cannot be combined with bind or extract",
		}
	}

	if o.Skip && (o.Column != "" || o.Codec != "" || o.Bind != "" || o.Extract != "") {
		return &OptionError{
			Code:    diagnostic.CodeCodecConflict,
			Message: "a skipped field cannot carry other options",
		}
	}

	return nil
}

// MergeOptions combines options from a struct tag and from YAML. An option
// set in both places is reported as a duplicate override, even when both
// values agree.
func MergeOptions(tag, file FieldOptions) (FieldOptions, error) {
	merged := tag
	var dups []string

	pick := func(name string, dst *string, v string) {
		if v == "" {
			return
		}
		if *dst != "" {
			dups = append(dups, name)
			return
		}
		*dst = v
	}

	pick("column", &merged.Column, file.Column)
	pick("bind", &merged.Bind, file.Bind)
	pick("extract", &merged.Extract, file.Extract)
	pick("codec", &merged.Codec, file.Codec)

	if file.Skip {
		if tag.Skip {
			dups = append(dups, "skip")
		}
		merged.Skip = true
	}

	if len(dups) > 0 {
		return merged, &OptionError{
			Code:    diagnostic.CodeDuplicateOverride,
			Message: fmt.Sprintf("%s set both in the struct tag and in YAML", strings.Join(dups, ", ")),
		}
	}

	return merged, merged.Check()
}
