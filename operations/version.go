package operations

import (
	"fmt"

	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"github.com/urfave/cli"
)

func Version() cli.Command {
	return cli.Command{
		Name:  "version",
		Usage: "prints the revision of the current binary",
		Action: func(c *cli.Context) error {
			revision := studio.BuildRevision
			if revision == "" {
				revision = "development"
			}
			fmt.Println(studio.ServiceName, revision)
			return nil
		},
	}
}
