package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/texbox/internal/core/domain"
	"go.trai.ch/zerr"
)

var errInvalidSet = zerr.New("invalid --set value, expected key=value")

func addSetFlag(cmd *cobra.Command) {
	cmd.Flags().StringArray("set", nil, "Override a template variable (key=value, repeatable)")
}

// parseSet turns the repeated --set flags into a dictionary. Later values win.
func parseSet(cmd *cobra.Command) (domain.Vars, error) {
	values, _ := cmd.Flags().GetStringArray("set")
	if len(values) == 0 {
		return nil, nil
	}

	vars := make(domain.Vars, len(values))
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			return nil, zerr.With(zerr.Wrap(errInvalidSet, "failed to parse flag"), "value", v)
		}
		vars[key] = value
	}
	if err := vars.Validate(); err != nil {
		return nil, err
	}
	return vars, nil
}
