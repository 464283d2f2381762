package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/dmg-core/dmgcore"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "dmgcore"
	app.Description = "A Game Boy (DMG) CPU/bus core"
	app.Usage = "dmgcore [options] <rom_path>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "skip-boot",
			Usage: "start execution at 0x0100 with post-boot register values instead of running the boot ROM",
		},
		cli.StringFlag{
			Name:  "boot-rom",
			Usage: "path to a 256-byte DMG boot ROM overlay",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "trace every executed instruction to stderr",
		},
		cli.Uint64Flag{
			Name:  "max-instructions",
			Usage: "stop after this many instructions (0 = unbounded, subject to interruption)",
			Value: 0,
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("dmgcore exited with an error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() == 0 {
		cli.ShowAppHelp(c)
		return errors.New("no ROM path provided")
	}
	romPath := c.Args().Get(0)

	var opts []dmgcore.Option
	if c.Bool("skip-boot") {
		opts = append(opts, dmgcore.WithSkipBoot())
	}
	if bootPath := c.String("boot-rom"); bootPath != "" {
		boot, err := os.ReadFile(bootPath)
		if err != nil {
			return err
		}
		if len(boot) != 256 {
			return errors.New("dmgcore: boot ROM must be exactly 256 bytes")
		}
		opts = append(opts, dmgcore.WithBootROM(boot))
	}

	machine, err := dmgcore.NewWithFile(romPath, opts...)
	if err != nil {
		return err
	}

	if c.Bool("debug") {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		slog.SetDefault(slog.New(handler))
	}

	if max := c.Uint64("max-instructions"); max > 0 || c.Bool("debug") {
		return runBounded(machine, max, c.Bool("debug"))
	}

	return machine.Run(context.Background())
}

func runBounded(machine *dmgcore.Machine, max uint64, debug bool) error {
	cpu := machine.CPU()
	for i := uint64(0); max == 0 || i < max; i++ {
		pc := cpu.PC()
		if _, err := machine.Step(); err != nil {
			return err
		}
		if debug {
			slog.Debug("step", "pc", pc, "op", cpu.Name(), "af", cpu.AF(), "flags", cpu.FlagString())
		}
	}
	return nil
}
