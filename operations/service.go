package operations

import (
	"context"
	"time"

	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

const closeEnvironmentTimeout = 30 * time.Second

func Service() cli.Command {
	return cli.Command{
		Name:  "service",
		Usage: "run yoga studio services",
		Subcommands: []cli.Command{
			startWebService(),
		},
	}
}

// setupEnvironment loads the settings and connects to the database. When
// configureLogger is set it also installs the log sender the settings
// describe.
func setupEnvironment(ctx context.Context, confPath string, configureLogger bool) (studio.Environment, error) {
	settings, err := studio.LoadSettings(confPath)
	if err != nil {
		return nil, errors.Wrap(err, "loading settings")
	}

	if configureLogger {
		sender, err := settings.Log.GetSender(grip.Name())
		if err != nil {
			return nil, errors.Wrap(err, "configuring logger")
		}
		if err = grip.SetSender(sender); err != nil {
			return nil, errors.Wrap(err, "setting logger")
		}
	}

	env, err := studio.NewEnvironment(ctx, settings)
	if err != nil {
		return nil, errors.Wrap(err, "configuring application environment")
	}
	return env, nil
}

func closeEnvironment(env studio.Environment) {
	ctx, cancel := context.WithTimeout(context.Background(), closeEnvironmentTimeout)
	defer cancel()

	grip.Error(message.WrapError(env.Close(ctx), message.Fields{
		"message": "closing environment",
	}))
}
