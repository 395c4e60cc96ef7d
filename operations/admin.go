package operations

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

func Admin() cli.Command {
	return cli.Command{
		Name:  "admin",
		Usage: "database maintenance for the yoga studio service",
		Subcommands: []cli.Command{
			adminReconcileLinks(),
			adminSetupDB(),
		},
	}
}

func adminReconcileLinks() cli.Command {
	return cli.Command{
		Name:   "reconcile-links",
		Usage:  "repair the class lists of instructors and class locations",
		Flags:  serviceConfigFlags(),
		Before: mergeBeforeFuncs(setServiceName("yoga-studio.admin"), setPlainLogger),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			env, err := setupEnvironment(ctx, c.String(confFlagName), false)
			if err != nil {
				return errors.WithStack(err)
			}
			defer closeEnvironment(env)

			stats, err := model.ReconcileClassLinks(ctx, env.Store())
			if err != nil {
				return errors.Wrap(err, "reconciling class links")
			}

			out, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return errors.Wrap(err, "marshalling reconcile stats")
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func adminSetupDB() cli.Command {
	return cli.Command{
		Name:   "setup-db",
		Usage:  "create the service's collections and indexes",
		Flags:  serviceConfigFlags(),
		Before: mergeBeforeFuncs(setServiceName("yoga-studio.admin"), setPlainLogger),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			env, err := setupEnvironment(ctx, c.String(confFlagName), false)
			if err != nil {
				return errors.WithStack(err)
			}
			defer closeEnvironment(env)

			store, ok := env.Store().(model.IndexStore)
			if !ok {
				return errors.New("the configured store cannot create indexes")
			}
			if err = model.SetupCollections(ctx, store); err != nil {
				return errors.Wrap(err, "setting up collections")
			}

			fmt.Println("collections and indexes are ready")
			return nil
		},
	}
}
