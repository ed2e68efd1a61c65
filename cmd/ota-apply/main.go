package main

import (
	"fmt"
	"os"

	"github.com/rorym/ota-apply/internal/applier"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// urfave/cli stops parsing flags at the first positional argument.
const usageText = `ota-apply [options] <config-file-path>

Options must come before the configuration path; anything after it is ignored.`

func newApp() *cli.App {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "log",
			Usage: "log file path (default: stderr)",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Value: "text",
			Usage: "log format (text or json)",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging",
		},
	}

	return &cli.App{
		Name:      "ota-apply",
		Usage:     "write OTA pack files derived from an app configuration",
		ArgsUsage: "<config-file-path>",
		UsageText: usageText,
		Flags:     append(flags, applier.Flags...),
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.WarnLevel)
			}
			if c.String("log-format") == "json" {
				logrus.SetFormatter(&logrus.JSONFormatter{})
			}
			if logFile := c.String("log"); logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				logrus.SetOutput(f)
			}
			return nil
		},
		Action: applier.Action,
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}
