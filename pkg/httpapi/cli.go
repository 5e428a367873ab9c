package httpapi

import (
	"github.com/railhop/railhop/pkg/artifacts"
	"github.com/railhop/railhop/pkg/config"
	"github.com/railhop/railhop/pkg/httpapi/routes"
	"github.com/railhop/railhop/pkg/reconcile"
	"github.com/railhop/railhop/pkg/rtm"
	"github.com/railhop/railhop/pkg/search"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the journey query API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: "",
						Usage: "listen target for the web server",
					},
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

					listen := cfg.Listen
					if c.String("listen") != "" {
						listen = c.String("listen")
					}

					snapshot, err := SetupEngine(cfg)
					if err != nil {
						return err
					}

					cache := SetupResponseCache(cfg.RedisAddress)
					tarifs := routes.LoadTarifIndex(cfg.TarifIndex)

					log.Info().Str("listen", listen).Msg("Starting web api server")

					return SetupServer(listen, snapshot, cache, tarifs)
				},
			},
		},
	}
}

// SetupEngine loads the persisted artifacts, re-runs the idempotent
// station reconciliation over them and builds the startup-time derived
// indexes. A missing artifact aborts startup.
func SetupEngine(cfg *config.Config) (*search.TimetableSnapshot, error) {
	timetable, err := artifacts.Load(cfg.ArtifactDirectory)
	if err != nil {
		return nil, err
	}

	manifest := reconcile.LoadManifest(cfg.StationManifest)

	stations := reconcile.BuildStationIndex(
		timetable.Stops,
		manifest,
		whitelistFromTransfers(timetable.TransferIndex),
		nil,
	)

	nameOverrides := map[string]string{}
	for _, entry := range manifest {
		for _, stopID := range entry.StopIDs {
			nameOverrides[stopID] = entry.Name
		}
	}

	return search.NewSnapshot(timetable, stations, nameOverrides), nil
}

// whitelistFromTransfers recovers the same-station link list from the
// persisted transfer index; inter-city edges never vouch for two stops
// being one station.
func whitelistFromTransfers(transferIndex map[string][]rtm.TransferEntry) [][2]string {
	var whitelist [][2]string

	for stopID, entries := range transferIndex {
		for _, entry := range entries {
			if entry.Category == rtm.TransferInterCitySameMetro {
				continue
			}

			whitelist = append(whitelist, [2]string{stopID, entry.SiblingID})
		}
	}

	return whitelist
}
