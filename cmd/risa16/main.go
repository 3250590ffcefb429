// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/tebeka/atexit"
	"golang.org/x/term"

	"github.com/ezrec/risa16/cpu"
	"github.com/ezrec/risa16/emulator"
	"github.com/ezrec/risa16/internal"
	"github.com/ezrec/risa16/translate"
)

// readSource reads the program text from a file, or from stdin for "-".
func readSource(name string) (text string, err error) {
	var data []byte
	if name == "-" {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			err = errors.New(translate.From("refusing to read program from a terminal"))
			return
		}
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return
	}

	text = string(data)
	return
}

// predefine returns a parser for NAME=VALUE equate arguments.
func predefine(asm *cpu.Assembler) func(arg string) error {
	return func(arg string) error {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || len(name) == 0 {
			return errors.New(translate.From("%q is not NAME=VALUE", arg))
		}
		asm.Predefine(name, value)
		return nil
	}
}

func main() {
	var verbose bool
	var limit int
	var trace string
	var lang string
	var listing bool

	emu := emulator.NewEmulator()
	asm := &cpu.Assembler{}

	for name, value := range emu.Defines() {
		asm.Predefine(name, value)
	}

	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.IntVar(&limit, "n", 0, "Maximum instructions to execute (0 = no limit)")
	flag.StringVar(&trace, "trace", "", "Write a JSON instruction trace to this file")
	flag.StringVar(&lang, "lang", "", "Message language (BCP 47 tag)")
	flag.BoolVar(&listing, "l", false, "Print the program listing, do not execute")
	flag.Func("D", "Predefine an equate, NAME=VALUE", predefine(asm))

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %v [options] <file|->\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		atexit.Exit(1)
	}

	if len(lang) != 0 {
		translate.SetLanguage(lang)
	}

	input := flag.Arg(0)

	text, err := readSource(input)
	if err != nil {
		atexit.Fatalf("%v: %v", input, err)
	}

	asm.Verbose = verbose
	if verbose {
		for name, value := range internal.SortedDefines(emu.Defines()) {
			log.Printf("define %v = %v", name, value)
		}
	}

	prog, err := asm.Parse(strings.NewReader(text))
	if err != nil {
		atexit.Fatalf("%v: %v", input, err)
	}

	if listing {
		fmt.Print(prog.String())
		atexit.Exit(0)
	}

	if len(trace) != 0 {
		ouf, err := os.Create(trace)
		if err != nil {
			atexit.Fatalf("%v: %v", trace, err)
		}
		atexit.Register(func() { ouf.Close() })

		emu.Trace = slog.New(slog.NewJSONHandler(ouf, &slog.HandlerOptions{
			Level: emulator.LevelTrace,
		}))
	}

	emu.Verbose = verbose
	emu.Program = prog

	err = emu.Reset()
	if err != nil {
		atexit.Fatalf("%v: %v", input, err)
	}

	err = emu.Run(limit)
	if err != nil {
		log.Printf("%v: %v", input, err)
	}

	fmt.Println("Final registers:")
	for n, val := range emu.Register {
		fmt.Printf("R%d = 0x%04X\n", n, val)
	}

	if verbose {
		fmt.Print(emu.Machine.String())
	}

	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
