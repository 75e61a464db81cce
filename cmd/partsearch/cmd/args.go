package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/partsearch/pkg/octopart"
)

var errNotFound = errors.New("not found")

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		for _, f := range strings.Split(a, ",") {
			if f == "" {
				continue
			}
			id, err := strconv.ParseInt(f, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid id %q: %w", f, err)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func splitNames(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		for _, f := range strings.Split(a, ",") {
			if f != "" {
				out = append(out, f)
			}
		}
	}
	return out
}

// decodeJSONArg decodes a flag value holding JSON, keeping numbers exact.
func decodeJSONArg(flag, s string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("--%s: invalid JSON: %w", flag, err)
	}
	return v, nil
}

// parseSort turns field:order pairs into sortby entries.
func parseSort(specs []string) ([]any, error) {
	out := make([]any, 0, len(specs))
	for _, s := range specs {
		field, order, ok := strings.Cut(s, ":")
		if !ok {
			order = "asc"
		}
		if field == "" {
			return nil, fmt.Errorf("--sort %q: missing field", s)
		}
		out = append(out, []any{field, order})
	}
	return out, nil
}

var hideFlags = map[string]string{
	"images":              "optimize.hide_images",
	"datasheets":          "optimize.hide_datasheets",
	"descriptions":        "optimize.hide_descriptions",
	"offers":              "optimize.hide_offers",
	"unauthorized-offers": "optimize.hide_unauthorized_offers",
	"specs":               "optimize.hide_specs",
}

func addHideFlag(cmd *cobra.Command, hide *[]string) {
	cmd.Flags().StringSliceVar(hide, "hide", nil,
		"omit part sections (images, datasheets, descriptions, offers, unauthorized-offers, specs)")
}

// applyHide sets optimize.hide_* arguments for the named sections.
func applyHide(args octopart.Args, hide []string) error {
	for _, h := range hide {
		key, ok := hideFlags[h]
		if !ok {
			return fmt.Errorf("--hide: unknown section %q", h)
		}
		args[key] = true
	}
	return nil
}

// setIfChanged copies a flag into args only when the user set it, so the
// API defaults apply otherwise.
func setIfChanged(cmd *cobra.Command, args octopart.Args, flag, key string, value any) {
	if cmd.Flags().Changed(flag) {
		args[key] = value
	}
}
