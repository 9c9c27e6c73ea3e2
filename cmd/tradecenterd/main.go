/*

tradecenterd runs the Gen-I link-cable Trade Center emulator: it drives a
trade protocol session against a transport, persists incoming Pokémon to a
bounded slot table, and exposes a small telemetry surface for watching it
happen.

*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/gbxlink/tradecenter/config"
	"github.com/gbxlink/tradecenter/driver"
	"github.com/gbxlink/tradecenter/link"
	"github.com/gbxlink/tradecenter/storage"
	"github.com/gbxlink/tradecenter/telemetry"
	"github.com/gbxlink/tradecenter/tradeblock"
	"github.com/gbxlink/tradecenter/tradecore"
	"github.com/gbxlink/tradecenter/tradeengine"
)

const (
	appName    = "tradecenterd"
	appVersion = "v0.1.0"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	app := &cli.App{
		Name:    appName,
		Version: appVersion,
		Usage:   "emulate a Gen-I link-cable Trade Center partner",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to a YAML config file"},
			&cli.BoolFlag{Name: "json-log", Usage: "emit JSON logs instead of the console writer"},
		},
		Commands: []*cli.Command{
			runCommand(),
			simulateCommand(),
			snapshotCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(c *cli.Context) zerolog.Logger {
	if c.Bool("json-log") {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.Default(), nil
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "drive a loopback transport, logging and serving telemetry until interrupted",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			log := newLogger(c)

			table := storage.NewTable(cfg.Storage.Capacity, cfg.Storage.Evict)
			table.SetOutgoing(defaultOutgoingBlock(cfg))

			sink := telemetry.NewSink(log)
			sess := tradeengine.NewSession(nil, sink)
			sess.SetLocalTrainer(cfg.Trainer.ID, cfg.Trainer.Name)
			sess.SetOutgoingBlock(defaultOutgoingBlock(cfg))

			srv := telemetry.NewServer(sink, func() tradeengine.Snapshot { return sess.Snapshot() }, log)
			go func() {
				log.Info().Str("addr", cfg.Telemetry.Addr).Msg("telemetry listening")
				if err := http.ListenAndServe(cfg.Telemetry.Addr, srv); err != nil {
					log.Error().Err(err).Msg("telemetry server stopped")
				}
			}()

			a, _ := link.NewLoopbackPair()
			onCommit := func(ev tradeengine.Committed) {
				if ev.Received == nil {
					return
				}
				species := ev.Received.Pokemon[0].Species
				if _, err := table.Store(c.Context, ev.Received.Pokemon[0], ev.Received.TrainerName); err != nil {
					log.Error().Err(err).Uint8("species", species).Msg("failed to store received pokemon")
				}
			}

			return driver.Run(c.Context, a, sess, log, onCommit)
		},
	}
}

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "replay the built-in handshake-through-commit scenario against a scripted transport, logging trade events at info level",
		Action: func(c *cli.Context) error {
			log := newLogger(c)
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			sess := tradeengine.NewSession(nil, telemetry.NewSink(log))
			sess.SetLocalTrainer(cfg.Trainer.ID, cfg.Trainer.Name)
			sess.SetOutgoingBlock(defaultOutgoingBlock(cfg))

			script := buildHandshakeScript(defaultOutgoingBlock(cfg))
			transport := link.NewScripted(script)

			err = driver.Run(context.Background(), transport, sess, log, func(ev tradeengine.Committed) {
				fmt.Println("trade committed")
			})
			return err
		},
	}
}

func snapshotCommand() *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "print the snapshot of a fresh, idle session (for scripting/documentation purposes)",
		Action: func(c *cli.Context) error {
			sess := tradeengine.NewSession(nil, nil)
			fmt.Printf("%+v\n", sess.Snapshot())
			return nil
		},
	}
}

func defaultOutgoingBlock(cfg *config.Config) *tradeblock.Block {
	b := &tradeblock.Block{
		TrainerName:  cfg.Trainer.Name,
		PartyCount:   1,
		PartySpecies: [7]byte{25, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
	}
	b.Pokemon[0] = tradeblock.PokemonCore{
		Species: 25, CurrentHP: 35, Level: 10, LevelCopy: 10,
		Stats: [5]uint16{35, 20, 18, 25, 20},
	}
	for i := 1; i < len(b.Pokemon); i++ {
		b.Pokemon[i] = tradeblock.PokemonCore{Species: 1, Level: 1, LevelCopy: 1, Stats: [5]uint16{1, 1, 1, 1, 1}}
	}
	for i := range b.OTNames {
		b.OTNames[i] = cfg.Trainer.Name
		b.Nicknames[i] = "PIKACHU"
	}
	return b
}

// buildHandshakeScript constructs an inbound byte sequence driving a
// session from IDLE through COMMIT, offering outgoing in BLOCK_SWAP and
// echoing it back as the "peer's" block too (a self-trade, useful only for
// exercising the state machine end to end).
func buildHandshakeScript(outgoing *tradeblock.Block) []byte {
	var script []byte
	script = append(script, tradecore.Master, tradecore.Connected, tradecore.MenuTradeCenterSelected)
	for i := 0; i < tradecore.SerialRNSLength; i++ {
		script = append(script, tradecore.Preamble)
	}
	for i := 0; i < 10; i++ {
		script = append(script, byte(i))
	}
	for i := 0; i < tradecore.SerialTradeBlockPreambleLength; i++ {
		script = append(script, tradecore.Preamble)
	}
	wire := tradeblock.Serialise(outgoing)
	script = append(script, wire[:]...)
	script = append(script, tradecore.PatchTerm, tradecore.PatchTerm)
	script = append(script, tradecore.SelMonBase, tradecore.TradeAccept, tradecore.Blank)
	return script
}
