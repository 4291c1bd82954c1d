// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"log"
	"os"

	"github.com/ezrec/rvsoc/cpu"
	"github.com/ezrec/rvsoc/emulator"
)

func main() {
	var compile string
	var image string
	var export string
	var board string
	var ticks int
	var output string
	var verbose bool

	flag.StringVar(&compile, "c", "", ".s file to assemble")
	flag.StringVar(&image, "i", "", ".hex image to load")
	flag.StringVar(&export, "x", "", "Write .hex image, do not execute")
	flag.StringVar(&board, "config", "", ".toml board configuration")
	flag.IntVar(&ticks, "n", 0, "Maximum ticks to run, 0 for no limit")
	flag.StringVar(&output, "o", "-", "UART output")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) != 0 && len(image) != 0 {
		log.Fatalf("%v: -c and -i are exclusive", os.Args[0])
	}

	config := emulator.DefaultConfig()
	if len(board) != 0 {
		inf, err := os.Open(board)
		if err != nil {
			log.Fatalf("%v: %v", board, err)
		}
		config, err = emulator.LoadConfig(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", board, err)
		}
	}

	emu, err := emulator.NewEmulator(config)
	if err != nil {
		log.Fatalf("%v: %v", board, err)
	}
	emu.Verbose = verbose

	prog := &cpu.Program{}

	// Assemble a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := emu.Assembler()
		prog, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	// Load a previously assembled image.
	if len(image) != 0 {
		inf, err := os.Open(image)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
		defer inf.Close()

		prog, err = cpu.ReadHex(inf)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
	}

	if len(export) != 0 {
		ouf, err := os.Create(export)
		if err != nil {
			log.Fatalf("%v: %v", export, err)
		}
		err = prog.WriteHex(ouf)
		if err == nil {
			err = ouf.Close()
		}
		if err != nil {
			log.Fatalf("%v: %v", export, err)
		}
		return
	}

	if output == "-" {
		emu.Monitor.Output = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		emu.Monitor.Output = ouf
	}

	emu.Program = prog
	err = emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	err = emu.Run(ticks)
	if err != nil {
		log.Print(emu.Cpu.String())
		log.Fatal(err)
	}

	if verbose {
		log.Printf("halted after %v ticks\n%v", emu.Ticks(), emu.Cpu)
	}
}
