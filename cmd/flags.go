package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/conneroisu/deckgen/internal/errors"
)

// validateFormat checks an output-format flag value against the accepted set.
func validateFormat(format string, valid []string) error {
	for _, v := range valid {
		if format == v {
			return nil
		}
	}

	return errors.NewValidationError(
		errors.ErrCodeBadFormat,
		fmt.Sprintf("invalid format %q (valid formats: %s)", format, strings.Join(valid, ", ")),
	).WithContext("format", format)
}

// exclusiveFlags returns an error when more than one of the named flags was
// set on the command line.
func exclusiveFlags(fs *pflag.FlagSet, names ...string) error {
	var set []string
	for _, name := range names {
		if fs.Changed(name) {
			set = append(set, "--"+name)
		}
	}

	if len(set) > 1 {
		return fmt.Errorf("flags %s are mutually exclusive", strings.Join(set, " and "))
	}

	return nil
}
