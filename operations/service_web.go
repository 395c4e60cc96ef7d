package operations

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/rest/route"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/grip/recovery"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

const shutdownTimeout = 30 * time.Second

func startWebService() cli.Command {
	return cli.Command{
		Name:   "web",
		Usage:  "start the yoga studio REST API",
		Flags:  serviceConfigFlags(),
		Before: setServiceName("yoga-studio.web"),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			env, err := setupEnvironment(ctx, c.String(confFlagName), true)
			if err != nil {
				return errors.WithStack(err)
			}
			defer closeEnvironment(env)
			defer recovery.LogStackTraceAndExit("yoga studio web service")

			handler, err := route.NewHandler(env)
			if err != nil {
				return errors.Wrap(err, "building HTTP handler")
			}

			stopReconcile, err := startReconcileJob(ctx, env)
			if err != nil {
				return errors.Wrap(err, "scheduling link reconciliation")
			}
			defer stopReconcile()

			server := getServer(env.Settings().Api.ListenAddr(), handler)

			catcher := grip.NewBasicCatcher()
			gracefulWait := make(chan struct{})
			go gracefulShutdownForSignals(server, gracefulWait, catcher)

			if err = server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				catcher.Wrap(err, "running HTTP server")
				return catcher.Resolve()
			}
			<-gracefulWait

			grip.Notice("web service stopped")
			return catcher.Resolve()
		},
	}
}

// getServer produces an HTTP server instance for a handler.
func getServer(addr string, n http.Handler) *http.Server {
	grip.Notice(message.Fields{
		"action":  "starting service",
		"service": addr,
		"build":   studio.BuildRevision,
		"process": grip.Name(),
	})

	return &http.Server{
		Addr:              addr,
		Handler:           n,
		ReadTimeout:       time.Minute,
		ReadHeaderTimeout: 30 * time.Second,
		WriteTimeout:      time.Minute,
	}
}

// gracefulShutdownForSignals waits for SIGTERM or SIGINT, then stops the
// server from accepting new requests and waits for in-flight requests to
// finish. wait is closed once the server has stopped.
func gracefulShutdownForSignals(server *http.Server, wait chan struct{}, catcher grip.Catcher) {
	defer recovery.LogStackTraceAndContinue("graceful shutdown")
	defer close(wait)

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigChan

	grip.Info(message.Fields{
		"message": "received signal, shutting down",
		"signal":  sig.String(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	catcher.Wrap(server.Shutdown(ctx), "shutting down HTTP server")
}
