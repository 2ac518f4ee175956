package checker

import "strings"

// Mode selects the check strategy.
type Mode string

const (
	// ModeCommon scans for error terms, confusable characters and repeats.
	ModeCommon Mode = "common"
	// ModeSpec annotates terminology (and optionally mistranslation hints).
	ModeSpec Mode = "spec"
)

// Column is a 1-based column number limited to A-Z.
type Column int

// ParseColumn accepts a single letter A-Z, case-insensitive.
func ParseColumn(s string) (Column, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 1 || s[0] < 'A' || s[0] > 'Z' {
		return 0, configError("column %q must be a single letter A-Z", s)
	}
	return Column(s[0]-'A') + 1, nil
}

func (c Column) String() string {
	if c < 1 || c > 26 {
		return "?"
	}
	return string(rune('A' + int(c) - 1))
}

// Config selects the mode, columns and sheets for one run.
type Config struct {
	Mode           Mode   `json:"mode"`
	InputColumn    string `json:"inputCol"`
	OutputColumn1  string `json:"outputCol1"`
	OutputColumn2  string `json:"outputCol2,omitempty"`
	CheckAllSheets bool   `json:"checkAllSheets"`
	// IncludeMistranslationHints is only used in spec mode.
	IncludeMistranslationHints bool `json:"includeTransHint"`
}

// Columns are the resolved columns of a validated Config.
type Columns struct {
	Input   Column
	Output1 Column
	Output2 Column // zero in spec mode
}

// Validate resolves the column letters and rejects unknown modes, missing columns
// and output columns that overlap the input column.
func (c Config) Validate() (Columns, error) {
	var cols Columns
	if c.Mode != ModeCommon && c.Mode != ModeSpec {
		return cols, configError("unknown mode %q", c.Mode)
	}

	required := []struct {
		name  string
		value string
		dst   *Column
	}{
		{"inputCol", c.InputColumn, &cols.Input},
		{"outputCol1", c.OutputColumn1, &cols.Output1},
	}
	if c.Mode == ModeCommon {
		required = append(required, struct {
			name  string
			value string
			dst   *Column
		}{"outputCol2", c.OutputColumn2, &cols.Output2})
	}

	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return cols, configError("missing column %s", r.name)
		}
		col, err := ParseColumn(r.value)
		if err != nil {
			return cols, configError("%s: column %q must be a single letter A-Z", r.name, r.value)
		}
		*r.dst = col
	}

	if cols.Output1 == cols.Input || cols.Output2 == cols.Input {
		return cols, configError("output column must differ from input column %s", cols.Input)
	}
	if c.Mode == ModeCommon && cols.Output1 == cols.Output2 {
		return cols, configError("error and warning columns must differ (%s)", cols.Output1)
	}
	return cols, nil
}
