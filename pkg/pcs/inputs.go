package pcs

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/lsmithpanw/pcs-where-is/internal/errors"
)

// LoadQueries expands the positional argument of a search. When arg names an
// existing file it must hold a JSON array of strings or numbers; otherwise arg
// itself is the only query.
func LoadQueries(arg string) ([]string, error) {
	info, err := os.Stat(arg)
	if err != nil || info.IsDir() {
		return []string{arg}, nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("unable to read input file %s", arg), err)
	}

	parsed := gjson.ParseBytes(data)
	if !gjson.ValidBytes(data) || !parsed.IsArray() {
		return nil, errors.NewValidationError(fmt.Sprintf("input file %s must contain a JSON array", arg), nil)
	}

	var queries []string
	var bad error
	parsed.ForEach(func(_, value gjson.Result) bool {
		switch value.Type {
		case gjson.String, gjson.Number:
			queries = append(queries, value.String())
			return true
		default:
			bad = errors.NewValidationError(
				fmt.Sprintf("input file %s contains an unsupported value: %s", arg, value.Raw), nil)
			return false
		}
	})
	if bad != nil {
		return nil, bad
	}
	return queries, nil
}
