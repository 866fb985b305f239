package commands

import (
	"os"

	"git.home.luguber.info/inful/htmlprep/internal/foundation/errors"
)

// ConfigCmd implements the 'config' command.
type ConfigCmd struct {
	Overrides `embed:""`
}

func (c *ConfigCmd) Run(_ *Global, root *CLI) error {
	opts, err := loadOptions(root, c.Overrides)
	if err != nil {
		return err
	}
	data, err := opts.Marshal()
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to render configuration").Build()
	}
	_, err = os.Stdout.Write(data)
	return err
}
