package main

import (
	"os"

	"github.com/robinjoseph08/golib/logger"
	"github.com/shukubooks/shuku/pkg/calibre"
	"github.com/shukubooks/shuku/pkg/catalog"
	"github.com/shukubooks/shuku/pkg/config"
	"github.com/shukubooks/shuku/pkg/covers"
	"github.com/shukubooks/shuku/pkg/database"
	"github.com/shukubooks/shuku/pkg/errcodes"
	"github.com/shukubooks/shuku/pkg/importer"
	"github.com/shukubooks/shuku/pkg/migrations"
	"github.com/shukubooks/shuku/pkg/namesplit"
	"github.com/shukubooks/shuku/pkg/version"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	app := &cli.App{
		Name:    "importer",
		Usage:   "CLI to import Calibre libraries into the catalog",
		Version: version.Version,
		Commands: []*cli.Command{
			{
				Name:      "import-library",
				Usage:     "import every book of a Calibre library",
				ArgsUsage: "<calibre_path>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "move-files",
						Usage: "move files out of the Calibre library instead of copying",
					},
					&cli.BoolFlag{
						Name:  "allow-duplication",
						Usage: "import books even when their uuid already exists",
					},
					&cli.IntFlag{
						Name:  "uid",
						Usage: "owner uid for imported files and directories",
					},
					&cli.IntFlag{
						Name:  "gid",
						Usage: "owner gid for imported files and directories",
					},
				},
				Action: importLibrary,
			},
			{
				Name:   "split-names",
				Usage:  "split composite author and tag names into atomic rows",
				Action: splitNames,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("app run error")
	}
}

func setup(c *cli.Context) (*config.Config, *bun.DB, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, err
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, err
	}

	if _, err := migrations.BringUpToDate(c.Context, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return cfg, db, nil
}

func importLibrary(c *cli.Context) error {
	log := logger.New()
	ctx := log.WithContext(c.Context)

	calibrePath := c.Args().First()
	if calibrePath == "" {
		return errcodes.ConfigError("calibre_path argument is required")
	}

	cfg, db, err := setup(c)
	if err != nil {
		return err
	}
	defer db.Close()

	source, err := calibre.Open(calibrePath)
	if err != nil {
		return err
	}
	defer source.Close()

	opts := importer.DefaultOptions()
	if c.Bool("move-files") {
		opts.FileAction = importer.FileActionMove
	}
	opts.AllowDuplication = c.Bool("allow-duplication")
	if c.IsSet("uid") {
		uid := c.Int("uid")
		opts.UID = &uid
	}
	if c.IsSet("gid") {
		gid := c.Int("gid")
		opts.GID = &gid
	}

	log.Info("importing library", logger.Data{
		"calibre_path": calibrePath,
		"library_root": cfg.LibraryRootDir,
	})

	ingestor := importer.NewIngestor(
		source,
		catalog.NewService(db),
		covers.NewTranscoder(),
		calibrePath,
		cfg.LibraryRootDir,
		opts,
	)
	return ingestor.Run(ctx)
}

func splitNames(c *cli.Context) error {
	log := logger.New()
	ctx := log.WithContext(c.Context)

	_, db, err := setup(c)
	if err != nil {
		return err
	}
	defer db.Close()

	splitter := namesplit.NewSplitter(catalog.NewService(db))
	return splitter.Run(ctx)
}
