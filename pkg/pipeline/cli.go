package pipeline

import (
	"github.com/kr/pretty"
	"github.com/railhop/railhop/pkg/artifacts"
	"github.com/railhop/railhop/pkg/config"
	"github.com/railhop/railhop/pkg/feedreader"
	"github.com/railhop/railhop/pkg/reconcile"
	"github.com/railhop/railhop/pkg/timetable"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Ingest operator feeds and write the merged timetable artifacts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "",
				Usage: "path to the configuration file",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}

			return Run(cfg)
		},
	}
}

// Run executes the offline pipeline: parse every operator feed, build
// the merged timetable, reconcile stations, derive the transfer index
// and persist the artifacts.
func Run(cfg *config.Config) error {
	var directories []feedreader.OperatorDirectory
	for _, feed := range cfg.Feeds {
		directories = append(directories, feedreader.OperatorDirectory{
			Operator:  feed.Code,
			Directory: feed.Directory,
		})
	}

	feeds, err := feedreader.ReadAll(directories)
	if err != nil {
		return err
	}

	merged := timetable.Build(feeds)

	manifest := reconcile.LoadManifest(cfg.StationManifest)

	var whitelist [][2]string
	parents := map[string]string{}
	for _, feed := range feeds {
		for _, transfer := range feed.Transfers {
			whitelist = append(whitelist, [2]string{transfer.FromStopID, transfer.ToStopID})
		}
		for _, stop := range feed.Stops {
			if stop.Parent != "" {
				parents[stop.ID] = stop.Parent
			}
		}
	}

	stations := reconcile.BuildStationIndex(merged.Stops, manifest, whitelist, parents)

	merged.TransferIndex = reconcile.BuildTransferIndex(merged.Stops, manifest, stations)

	if err := artifacts.Save(merged, cfg.ArtifactDirectory); err != nil {
		return err
	}

	log.Info().
		Str("directory", cfg.ArtifactDirectory).
		Msg("Build complete: " + pretty.Sprintf("%v", merged.Meta.Counts))

	return nil
}
