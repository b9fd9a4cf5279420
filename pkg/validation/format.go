// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/rent-vs-buy/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateLogFormat checks if the log encoding is one zap can build.
func ValidateLogFormat(format string) error {
	if format != "json" && format != "console" {
		return fmt.Errorf("invalid log format: %s", format)
	}
	return nil
}
