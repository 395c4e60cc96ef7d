package main

import (
	"os"

	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/operations"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/send"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"go.uber.org/automaxprocs/maxprocs"
)

func main() {
	// commands set up their own environment; buildApp only wires the
	// command tree and the global log level.
	app := buildApp()
	grip.EmergencyFatal(app.Run(os.Args))
}

func buildApp() *cli.App {
	app := cli.NewApp()
	app.Name = "yoga-studio"
	app.Usage = "yoga studio management API"
	app.Version = studio.BuildRevision

	// Register sub-commands here.
	app.Commands = []cli.Command{
		operations.Version(),
		operations.Service(),
		operations.Admin(),
	}

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "level",
			Value: "info",
			Usage: "Specify lowest visible log level as string: 'emergency|alert|critical|error|warning|notice|info|debug|trace'",
		},
	}

	app.Before = func(c *cli.Context) error {
		if err := loggingSetup(app.Name, c.String("level")); err != nil {
			return err
		}
		// match GOMAXPROCS to the container's CPU quota
		_, err := maxprocs.Set(maxprocs.Logger(grip.Debugf))
		return errors.Wrap(err, "setting GOMAXPROCS")
	}

	return app
}

func loggingSetup(name, l string) error {
	if err := grip.SetSender(send.MakeErrorLogger()); err != nil {
		return err
	}
	grip.SetName(name)

	sender := grip.GetSender()
	info := sender.Level()
	info.Threshold = level.FromString(l)

	return sender.SetLevel(info)
}
