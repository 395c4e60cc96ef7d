package operations

import (
	"strings"

	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"github.com/urfave/cli"
)

const confFlagName = "conf"

func joinFlagNames(ids ...string) string { return strings.Join(ids, ", ") }

func serviceConfigFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.StringFlag{
		Name:   joinFlagNames(confFlagName, "config", "c"),
		Usage:  "path to the service configuration file",
		Value:  studio.FindSettingsFile(),
		EnvVar: studio.SettingsFileEnv,
	})
}
