package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ianjrobertson/ti84/runtime"
)

type appConfig struct {
	plain  bool
	degree bool
	load   string
}

func main() {
	cfg := appConfig{}
	flag.BoolVar(&cfg.plain, "plain", false, "line-mode REPL instead of the TUI")
	flag.BoolVar(&cfg.degree, "degree", false, "start in degree mode")
	flag.StringVar(&cfg.load, "load", "", "directory of .8xp.txt program sources to preload")
	flag.Parse()

	st := runtime.NewState()
	if cfg.degree {
		st.SetAngleMode(runtime.Degree)
	}
	if cfg.load != "" {
		if err := loadPrograms(st, cfg.load); err != nil {
			fmt.Fprintln(os.Stderr, "load:", err)
			os.Exit(1)
		}
	}

	var err error
	if cfg.plain {
		err = runPlain(st)
	} else {
		err = runTUI(st)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
