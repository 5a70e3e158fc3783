package commands

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	ferrors "github.com/vrm-addon-for-blender/docsite/internal/foundation/errors"
)

// ShowCmd implements the 'config' command.
type ShowCmd struct {
	Format string `help:"Output format" enum:"yaml,json" default:"yaml"`
}

func (s *ShowCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return ferrors.InternalError("marshal configuration").WithCause(err).Build()
	}
	if s.Format == "json" {
		// Round-trip through a generic document so JSON keys match the YAML keys.
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return ferrors.InternalError("convert configuration").WithCause(err).Build()
		}
		if data, err = json.MarshalIndent(doc, "", "  "); err != nil {
			return ferrors.InternalError("marshal configuration").WithCause(err).Build()
		}
		data = append(data, '\n')
	}
	_, err = fmt.Fprint(g.Stdout, string(data))
	return err
}
