// Command roundsd runs the multi-chain round settlement node: one executor
// per configured chain wired over the shared message queue, plus the HTTP
// query/submission endpoint.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/inconshreveable/log15"
	"github.com/spf13/cobra"

	dbm "github.com/winzalabs/winzachain/common/db"
	"github.com/winzalabs/winzachain/executor"
	lty "github.com/winzalabs/winzachain/plugin/dapp/lottery/types"
	pty "github.com/winzalabs/winzachain/plugin/dapp/prediction/types"
	"github.com/winzalabs/winzachain/queue"
	"github.com/winzalabs/winzachain/rpc"
	"github.com/winzalabs/winzachain/types"

	_ "github.com/winzalabs/winzachain/plugin/dapp/leaderboard/executor"
	_ "github.com/winzalabs/winzachain/plugin/dapp/lottery/executor"
	_ "github.com/winzalabs/winzachain/plugin/dapp/prediction/executor"
	_ "github.com/winzalabs/winzachain/system/dapp/coins"
)

var mlog = log.New("module", "main")

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "roundsd",
		Short: "multi-chain wagering round settlement node",
		RunE:  run,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "winzachain.toml", "config file")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := types.LoadConfig(configPath)
	if err != nil {
		return err
	}
	lty.SetHostChain(cfg.Lottery.HostChain)
	pty.SetHostChain(cfg.Prediction.HostChain)
	pty.SetLeaderboardChain(cfg.Prediction.LeaderboardChain)

	q := queue.New(cfg.Title)
	defer q.Close()

	execs := make(map[string]*executor.Executor, len(cfg.Chains))
	for _, chain := range cfg.Chains {
		db := dbm.NewDB(chain.ID, cfg.DB.Backend, cfg.DB.Path, cfg.DB.Cache)
		defer db.Close()

		e := executor.New(chain.ID, db, q)
		e.Start()
		defer e.Stop()
		execs[chain.ID] = e
		mlog.Info("chain started", "chain", chain.ID, "backend", cfg.DB.Backend)
	}

	if err := openLotteryRound(cfg, execs); err != nil {
		return err
	}

	server := rpc.New(execs)
	if err := server.Start(cfg.RPC.Listen); err != nil {
		return err
	}
	defer server.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	mlog.Info("node running", "title", cfg.Title, "chains", len(cfg.Chains))
	<-sig
	mlog.Info("shutting down")
	return nil
}

// openLotteryRound makes sure the hosting chain has an accepting round at
// the configured ticket price. A node restarted mid-round leaves the
// existing round untouched.
func openLotteryRound(cfg *types.Config, execs map[string]*executor.Executor) error {
	if cfg.Lottery.TicketPrice == "" {
		return nil
	}
	host := cfg.Lottery.HostChain
	if host == "" {
		host = cfg.Chains[0].ID
	}
	e, ok := execs[host]
	if !ok {
		return types.ErrChainNotExist
	}
	if _, err := e.Query(lty.LotteryX, "GetActiveRound", nil); err == nil {
		return nil
	}

	price, err := types.ParseCoinAmount(cfg.Lottery.TicketPrice)
	if err != nil {
		return err
	}
	_, err = e.Exec(&types.Transaction{
		Execer:  lty.LotteryX,
		Action:  "Create",
		Payload: types.Encode(&lty.LotteryCreate{TicketPrice: price}),
	})
	if err != nil {
		return err
	}
	mlog.Info("lottery round opened", "chain", host, "price", cfg.Lottery.TicketPrice)
	return nil
}
