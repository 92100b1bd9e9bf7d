package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/retrograde6502/nescore/nes"

	"github.com/faiface/pixel/pixelgl"
	cli "gopkg.in/urfave/cli.v2"
)

// parseAddrFlag parses a "$1234"/"0x1234"/"1234" style address flag value.
func parseAddrFlag(s string) (uint16, error) {
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "0x")
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return uint16(v), nil
}

func main() {
	app := &cli.App{
		Name:  "nescore",
		Usage: "an 8-bit console CPU core: run, disassemble, assemble, and trace-test 6502 programs",
		Commands: []*cli.Command{
			runCommand(),
			disassembleCommand(),
			assembleCommand(),
			testCommand(),
			showTilesCommand(),
		},
	}
	sort.Sort(cli.FlagsByName(app.Flags))

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "load a ROM and drive it in the debug display",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "rom", Usage: "path to an iNES ROM file"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "show the register/disassembly debug panel"},
			&cli.BoolFlag{Name: "log", Aliases: []string{"l"}, Usage: "log every executed instruction"},
		},
		Action: func(c *cli.Context) error {
			bus := nes.NewBus(c.Bool("debug"), c.Bool("log"))
			cart := nes.NewCartridge(c.String("rom"))
			bus.InsertCartridge(cart)
			bus.Reset()

			pixelgl.Run(bus.Run)
			return nil
		},
	}
}

func disassembleCommand() *cli.Command {
	return &cli.Command{
		Name:  "disassemble",
		Usage: "render a flat binary as canonical 6502 assembly",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Usage: "path to a flat binary image"},
			&cli.StringFlag{Name: "start", Value: "0x8000", Usage: "address the binary's first byte loads at"},
		},
		Action: func(c *cli.Context) error {
			data, err := ioutil.ReadFile(c.String("in"))
			if err != nil {
				return err
			}

			start, err := parseAddrFlag(c.String("start"))
			if err != nil {
				return err
			}
			mem := make([]byte, 0x10000)
			copy(mem[start:], data)
			end := start + uint16(len(data))

			d := nes.NewDisassembler(mem, start, end)
			for {
				inst, err, ok := d.Next()
				if !ok {
					break
				}
				if err != nil {
					return err
				}
				fmt.Printf("$%04X: %s\n", inst.Addr, nes.RenderInstruction(inst.Name, inst.Mode, inst.Addr, inst.Operand))
			}
			return nil
		},
	}
}

func assembleCommand() *cli.Command {
	return &cli.Command{
		Name:  "assemble",
		Usage: "compile a listing to raw bytes",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Usage: "path to a source listing"},
			&cli.StringFlag{Name: "out", Usage: "path to write assembled bytes to"},
			&cli.StringFlag{Name: "start", Value: "0x0600", Usage: "address the first instruction assembles at"},
		},
		Action: func(c *cli.Context) error {
			src, err := ioutil.ReadFile(c.String("in"))
			if err != nil {
				return err
			}

			start, err := parseAddrFlag(c.String("start"))
			if err != nil {
				return err
			}

			bytes, err := nes.Assemble(string(src), start)
			if err != nil {
				return err
			}

			return ioutil.WriteFile(c.String("out"), bytes, 0644)
		},
	}
}

func testCommand() *cli.Command {
	return &cli.Command{
		Name:  "test",
		Usage: "run a ROM against a golden trace log",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "rom", Usage: "path to an iNES ROM file"},
			&cli.StringFlag{Name: "trace", Usage: "path to a golden trace log"},
		},
		Action: func(c *cli.Context) error {
			bus := nes.NewBus(false, false)
			cart := nes.NewCartridge(c.String("rom"))
			bus.InsertCartridge(cart)
			bus.Reset()

			golden, err := ioutil.ReadFile(c.String("trace"))
			if err != nil {
				return err
			}

			if err := nes.CompareTrace(string(golden), bus.Cpu); err != nil {
				return err
			}
			fmt.Println("trace matched")
			return nil
		},
	}
}

func showTilesCommand() *cli.Command {
	return &cli.Command{
		Name:  "show_tiles",
		Usage: "dump a cartridge's CHR ROM to a PNG tile sheet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "rom", Usage: "path to an iNES ROM file"},
			&cli.StringFlag{Name: "out", Usage: "path to write the PNG tile sheet to"},
		},
		Action: func(c *cli.Context) error {
			cart := nes.NewCartridge(c.String("rom"))

			f, err := os.Create(c.String("out"))
			if err != nil {
				return err
			}
			defer f.Close()

			return nes.DumpCHRTiles(cart, f)
		},
	}
}
