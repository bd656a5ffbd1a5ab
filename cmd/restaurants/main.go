package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"

	"github.com/zatekoja/zomavan/internal/adapters/providers/zomato"
	"github.com/zatekoja/zomavan/internal/adapters/transport"
	"github.com/zatekoja/zomavan/internal/application/services"
	"github.com/zatekoja/zomavan/internal/infrastructure/observability"
	"github.com/zatekoja/zomavan/pkg/config"
)

var version = "v1.0.0"

var flags = []cli.Flag{
	cli.StringSliceFlag{
		Name:  "subzone, s",
		Usage: "Zomato subzone id to look up (repeatable)",
	},
	cli.StringFlag{
		Name:  "format, f",
		Value: formatTable,
		Usage: "output format: table, json or yaml",
	},
	cli.BoolFlag{
		Name:  "debug",
		Usage: "log upstream requests",
	},
}

func action(c *cli.Context) error {
	subzones := c.GlobalStringSlice("subzone")
	if len(subzones) == 0 {
		return cli.NewExitError("at least one --subzone is required", 2)
	}
	format := c.GlobalString("format")
	if !validFormat(format) {
		return cli.NewExitError(fmt.Sprintf("unknown format %q", format), 2)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	env := "production"
	if c.GlobalBool("debug") {
		env = "development"
	}
	observability.InitLoggerWithWriter(os.Stderr, cfg.OTEL.ServiceName+"-cli", env)

	requestService, err := transport.NewRequestService(cfg, nil, nil)
	if err != nil {
		return err
	}
	svc := services.NewRestaurantService(zomato.NewRestaurantListProvider(requestService))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results := svc.ListRestaurantsForSubzones(ctx, subzones)
	if err := render(os.Stdout, format, results); err != nil {
		return err
	}

	for _, result := range results {
		if result.Err != nil {
			return cli.NewExitError("one or more subzone lookups failed", 1)
		}
	}
	return nil
}

func main() {
	app := cli.NewApp()
	app.Name = "restaurants"
	app.Usage = "list the best rated restaurants of Zomato subzones"
	app.UsageText = "restaurants --subzone 98284 [--subzone ...] [--format table|json|yaml]"
	app.Version = version
	app.Flags = flags
	app.Action = action

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("restaurants failed")
	}
}
