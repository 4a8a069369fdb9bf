// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/api"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/metrics"
	"github.com/vechain/stakepool/pool"
	"github.com/vechain/stakepool/pool/epoch"
	"github.com/vechain/stakepool/reward"
	"github.com/vechain/stakepool/token"
	"github.com/vechain/stakepool/transfer"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Stakepool",
		Usage:     "Delegated staking pool",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			inMemoryFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiAccountsLimitFlag,
			enableAPILogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			pprofFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			ownerFlag,
			rewardFeeFlag,
			unlockDelayFlag,
			epochDurationFlag,
			rewardPerEpochFlag,
			rewardBudgetFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { log.Info("exited") }()

	logLevel := initLogger(ctx)

	cfg, err := loadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}
	if err := cfg.applyFlags(ctx); err != nil {
		return err
	}
	params, err := cfg.params()
	if err != nil {
		return err
	}

	enableMetrics := ctx.Bool(enableMetricsFlag.Name)
	if enableMetrics {
		metrics.InitializePrometheusMetrics()
	}

	db, dbPath, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() { log.Info("closing pool database..."); db.Close() }()

	clock := epoch.NewTimed(params.genesis, params.epochDuration)
	var rewards reward.Source
	if !params.rewardPerEpoch.IsZero() {
		rewards = reward.NewSchedule(params.rewardPerEpoch, params.rewardBudget, clock.CurrentEpoch())
	}

	issuer, err := token.NewLocal(db)
	if err != nil {
		return err
	}
	p, err := pool.New(db, params.pool, clock, issuer, transfer.NewRecorder(), rewards)
	if err != nil {
		return err
	}
	issuer.Start(p.Callback())
	defer func() { log.Info("stopping token issuer..."); issuer.Stop() }()

	exitCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if ctx.Bool(enableAdminFlag.Name) {
		url, closeAdmin, err := api.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, p)
		if err != nil {
			return err
		}
		defer func() { log.Info("stopping admin server..."); closeAdmin() }()
		log.Info("admin server started", "url", url)
	}

	printStartupMessage(p, dbPath, params)

	group, groupCtx := errgroup.WithContext(exitCtx)
	group.Go(func() error {
		return serve(groupCtx, "API", ctx.String(apiAddrFlag.Name), api.New(p, api.Options{
			AllowedOrigins:  ctx.String(apiCorsFlag.Name),
			AccountsLimit:   ctx.Uint64(apiAccountsLimitFlag.Name),
			PprofOn:         ctx.Bool(pprofFlag.Name),
			EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
			EnableMetrics:   enableMetrics,
		}))
	})
	if enableMetrics {
		group.Go(func() error {
			return serve(groupCtx, "metrics", ctx.String(metricsAddrFlag.Name), metricsHandler())
		})
	}
	group.Go(func() error {
		// ticking faster than the epoch keeps the reward lag well below one epoch
		return p.Run(groupCtx, params.epochDuration/4+1)
	})
	return group.Wait()
}

func metricsHandler() http.Handler {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	return handlers.CompressHandler(router)
}

func printStartupMessage(p *pool.Pool, dbPath string, params *poolParams) {
	s := p.Summary()
	fmt.Printf(`Starting %v
    Database     [ %v ]
    Epoch        [ %v every %v ]
    Reward fee   [ %v to %v ]
    Unlock delay [ %v epochs ]
    Pool         [ staked %v, shares %v ]
`,
		fullVersion(),
		dbPath,
		s.CurrentEpoch, params.epochDuration,
		s.RewardFee, params.pool.Owner,
		s.UnlockDelay,
		s.TotalStakedBalance, s.TotalShares,
	)
}
