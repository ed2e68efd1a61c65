package applier

import (
	"errors"
	"fmt"

	"github.com/rorym/ota-apply/internal/config"
	"github.com/rorym/ota-apply/internal/pack"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// MissingFileMessage is printed to stderr when the configuration file is absent.
const MissingFileMessage = "Configuration file not found."

// Flags are the apply options accepted on the command line.
var Flags = []cli.Flag{
	&cli.StringFlag{
		Name:  "out",
		Value: pack.DefaultDir,
		Usage: "directory the pack files are written to",
	},
	&cli.StringFlag{
		Name:  "schema",
		Usage: "JSON Schema the configuration must satisfy (default: no validation)",
	},
}

// Action runs Apply for the first positional argument.
func Action(c *cli.Context) error {
	opts := Options{
		ConfigPath: c.Args().First(),
		OutDir:     c.String("out"),
		SchemaPath: c.String("schema"),
	}

	packs, err := Apply(opts)
	if err != nil {
		if errors.Is(err, config.ErrMissingFile) {
			return cli.Exit(MissingFileMessage, 1)
		}
		return err
	}

	logrus.Infof("wrote %d packs from %s", len(packs), opts.ConfigPath)
	fmt.Fprintln(c.App.Writer, SuccessMessage)
	return nil
}
