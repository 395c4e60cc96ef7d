package operations

import (
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/send"
	"github.com/urfave/cli"
)

func mergeBeforeFuncs(ops ...cli.BeforeFunc) cli.BeforeFunc {
	return func(c *cli.Context) error {
		catcher := grip.NewBasicCatcher()

		for _, op := range ops {
			catcher.Add(op(c))
		}

		return catcher.Resolve()
	}
}

func setServiceName(name string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		grip.SetName(name)
		return nil
	}
}

// setPlainLogger is for commands whose output is read by a person.
func setPlainLogger(c *cli.Context) error {
	sender := send.MakePlainLogger()
	sender.SetName(grip.Name())
	if err := sender.SetLevel(grip.GetSender().Level()); err != nil {
		return err
	}
	return grip.SetSender(sender)
}
