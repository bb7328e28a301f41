/*
Glaemserver starts a glaemscribe transliteration server and begins listening
for HTTP requests.

Usage:

	glaemserver [flags]
	glaemserver [flags] -l [[ADDRESS]:PORT]

Once started, the server listens for HTTP requests and responds to them
using the /api/v1 REST surface (GET /modes, POST /transcribe, POST
/admin/reload). By default it listens on localhost:8080; this can be
changed with the --listen/-l flag (or the corresponding environment
variable).

If an admin token is not given, one is generated and printed to stderr on
startup. As a consequence, restarting the server in this mode invalidates
any previously distributed token. This is suitable for testing, but an
explicit token should be given via flag or environment variable in
production.

The flags are:

	-v, --version
		Give the current version of the glaemscribe server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, defaults to the value of environment variable
		GLAEMSCRIBE_LISTEN_ADDRESS, and if that is not given, defaults to
		localhost:8080.

	-b, --bundle BUNDLE_DIR
		Load the mode bundle from the given directory (must contain a
		modes.toml manifest). If not given, defaults to the value of
		environment variable GLAEMSCRIBE_BUNDLE_DIR, and if that is not
		given, defaults to ./modes.

	-s, --storage STORAGE_DIR
		Store the request log and finalize-result cache database in the
		given directory. If not given, defaults to the value of environment
		variable GLAEMSCRIBE_STORAGE_DIR, and if that is not given, defaults
		to the current directory.

	-t, --admin-token ADMIN_TOKEN
		Require the given token as a bearer token on /admin routes. If not
		given, will default to the value of environment variable
		GLAEMSCRIBE_ADMIN_TOKEN, and if that is not given, a random token is
		generated and printed to stderr.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/glaemscribe/glaemscribe-go/internal/registry"
	"github.com/glaemscribe/glaemscribe-go/internal/version"
	"github.com/glaemscribe/glaemscribe-go/server/api"
	"github.com/glaemscribe/glaemscribe-go/server/config"
	"github.com/glaemscribe/glaemscribe-go/server/store"
)

const (
	ExitSuccess = iota
	ExitUsageError
	ExitBundleError
	ExitStartupError
)

const defaultUnauthDelay = 1500 * time.Millisecond

var (
	returnCode = ExitSuccess

	flagVersion    = pflag.BoolP("version", "v", false, "Give the current version of the glaemscribe server and then exit.")
	flagListen     = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagBundle     = pflag.StringP("bundle", "b", "", "Load the mode bundle from the given directory.")
	flagStorage    = pflag.StringP("storage", "s", "", "Store the request log/finalize cache database in the given directory.")
	flagAdminToken = pflag.StringP("admin-token", "t", "", "Require the given token on /admin routes.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n", panicErr)
			os.Exit(ExitStartupError)
		}
		os.Exit(returnCode)
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("glaemscribe server v%s\n", version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		returnCode = ExitUsageError
		return
	}

	cfg, err := config.FromEnv(config.Config{
		ListenAddress: *flagListen,
		BundleDir:     *flagBundle,
		StorageDir:    *flagStorage,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not resolve configuration: %s\n", err.Error())
		returnCode = ExitUsageError
		return
	}
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = "localhost:8080"
	}
	if cfg.BundleDir == "" {
		cfg.BundleDir = "./modes"
	}
	if cfg.StorageDir == "" {
		cfg.StorageDir = "."
	}

	adminToken := *flagAdminToken
	if adminToken == "" {
		adminToken = os.Getenv(config.EnvAdminToken)
	}
	if adminToken == "" {
		adminToken, err = config.GenerateAdminToken()
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not generate admin token: %s\n", err.Error())
			returnCode = ExitStartupError
			return
		}
		fmt.Fprintf(os.Stderr, "no admin token given; generated one for this run:\n%s\n", adminToken)
	}

	bundle, err := registry.Load(cfg.BundleDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load bundle from %s: %s\n", cfg.BundleDir, err.Error())
		returnCode = ExitBundleError
		return
	}

	st, err := store.Open(cfg.StorageDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not open store in %s: %s\n", cfg.StorageDir, err.Error())
		returnCode = ExitStartupError
		return
	}

	a := api.New(bundle, st, cfg.BundleDir, adminToken, defaultUnauthDelay)

	mux := http.NewServeMux()
	mux.Handle(api.PathPrefix+"/", http.StripPrefix(api.PathPrefix, a.Router()))

	srv := &http.Server{
		Addr:    cfg.ListenAddress,
		Handler: mux,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("glaemscribe server listening on %s, bundle %s", cfg.ListenAddress, cfg.BundleDir)
		serveErr <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "server error: %s\n", err.Error())
			returnCode = ExitStartupError
		}
	case <-sigCh:
		log.Print("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown error: %s\n", err.Error())
			returnCode = ExitStartupError
		}
	}
}
