// sqlfixture serves HTTP routes that drive SQL call patterns against a scratch database
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeptools/gw-sqlfixture/app"
	"github.com/zeptools/gw-sqlfixture/bootstrap"
	"github.com/zeptools/gw-sqlfixture/conf"
	"github.com/zeptools/gw-sqlfixture/db/pools"
	"github.com/zeptools/gw-sqlfixture/db/sqldb"
	"github.com/zeptools/gw-sqlfixture/routing"
	"github.com/zeptools/gw-sqlfixture/servers"
)

var (
	appRoot string
	listen  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "sqlfixture",
	Short: "HTTP fixture exercising SQL client call patterns",
	Long: `sqlfixture recreates a scratch database on startup and serves routes that run
queries through callbacks, awaitable futures, prepared statements and
shared or per-request connection pools.

Settings come from config/.core.json and .env under --root, then the environment
(DB_TYPE, DB_HOST, DB_PORT, DB_USER, DB_PW, DB_NAME, APP_PORT, WITH_STDOUT), then flags.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		core, err := conf.Load(appRoot, os.LookupEnv)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cmd.Flags().Changed("listen") {
			core.Listen = listen
		}
		if cmd.Flags().Changed("verbose") {
			core.Verbose = verbose
		}
		return run(cmd.Context(), core)
	},
}

func init() {
	rootCmd.Flags().StringVar(&appRoot, "root", ".", "directory holding config/.core.json and .env")
	rootCmd.Flags().StringVar(&listen, "listen", conf.DefaultListen, "HTTP listen address")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "write an access log to stdout")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, core *conf.Core) error {
	rootCtx, rootCancel := context.WithCancel(ctx)
	defer rootCancel()
	core.BaseInit(rootCtx, rootCancel)
	conf.RegisterSQLBackends()

	store := sqldb.NewRawStore(core.SQLDB.Type)
	if err := store.Load(app.SQL, bootstrap.SQL); err != nil {
		return fmt.Errorf("load sql statements: %w", err)
	}

	fixture := app.New()
	provisioner := &bootstrap.Provisioner{Store: store}
	go func() {
		shared, err := provisioner.Provision(rootCtx, &core.SQLDB, core.AdminConf())
		if err != nil {
			// GET / keeps waiting; the database routes keep answering ENOTOPEN
			log.Printf("[ERROR][BOOT] provisioning failed, the service will not become ready: %v", err)
			return
		}
		fixture.Ready(app.NewEnv(shared, pools.FactoryOpener(&core.SQLDB), store))
		log.Printf("[INFO][BOOT] ready")
	}()

	// outermost first; the access log sees the 500 of a recovered panic
	wrappers := []routing.HandlerWrapper{routing.RequestID}
	if core.Verbose {
		prefix := fmt.Sprintf("%s (%d):\t", core.AppName, os.Getpid())
		wrappers = append(wrappers, routing.AccessLog(os.Stdout, prefix))
	}
	wrappers = append(wrappers, routing.RecoverWrapper)
	server := &http.Server{
		Addr:              core.Listen,
		Handler:           fixture.Handler(wrappers...),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return servers.RunWithGracefulShutdown(rootCtx, server, core.AppName, fixture.Close, core.ShutdownTimeout())
}
