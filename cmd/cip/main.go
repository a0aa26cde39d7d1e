package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/robinjoseph08/golib/logger"
	"github.com/shukubooks/shuku/pkg/cip"
	"github.com/shukubooks/shuku/pkg/version"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	app := &cli.App{
		Name:      "cip",
		Usage:     "parse the CIP record out of an ebook file",
		Version:   version.Version,
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return cli.Exit("path to ebook file is required", 1)
			}

			ctx := log.WithContext(c.Context)
			record, err := cip.Extract(ctx, path)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("app run error")
	}
}
