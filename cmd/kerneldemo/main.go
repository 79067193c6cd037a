// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command kerneldemo runs the kernel-thread scheduler in ksync/kthread
// against the concrete scenarios its tests hold themselves to, printing
// what each thread observed. It is the interactive analogue of running a
// Pintos kernel with -o mlfqs or a particular test binary: a human at a
// terminal gets to watch a scheduling decision happen instead of reading
// an assertion about it. With -profile, tick-driven scenarios are paced
// live at -tick-hz through a timebase.Driver rather than stepped
// instantaneously, so the reported timing profile reflects real elapsed
// time.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"v.io/x/kernel/textutil"
	"v.io/x/kernel/timing"
	"v.io/x/kernel/vlog"
)

func main() {
	fs := pflag.NewFlagSet("kerneldemo", pflag.ExitOnError)
	cfg, err := registerFlags(fs)
	if err != nil {
		vlog.Log.Fatalf("kerneldemo: registering flags: %v", err)
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		vlog.Log.Fatalf("kerneldemo: parsing flags: %v", err)
	}

	if cfg.List {
		listScenarios(os.Stdout)
		return
	}

	toRun, err := selectScenarios(cfg.Scenario)
	if err != nil {
		vlog.Log.Fatalf("kerneldemo: %v", err)
	}

	timer := timing.NewFullTimer("kerneldemo")
	for _, s := range toRun {
		if cfg.MLFQS && !s.mlfqs {
			fmt.Printf("skipping %s under -mlfqs: donation is disabled, this scenario requires it\n", s.name)
			continue
		}
		timer.Push(s.name)
		observed, err := s.run(cfg)
		timer.Pop()
		if err != nil {
			vlog.Log.Errorf("kerneldemo: scenario %s: %v", s.name, err)
			continue
		}
		printScenario(os.Stdout, s, observed)
	}
	timer.Finish()

	if cfg.Profile {
		fmt.Println()
		fmt.Println("profile:")
		printer := timing.IntervalPrinter{}
		if err := printer.Print(textutil.PrefixWriter(os.Stdout, "  "), timer.Root()); err != nil {
			vlog.Log.Errorf("kerneldemo: printing profile: %v", err)
		}
	}
}

func selectScenarios(name string) ([]scenario, error) {
	if name == "all" || name == "" {
		return scenarios, nil
	}
	for _, s := range scenarios {
		if s.name == name {
			return []scenario{s}, nil
		}
	}
	return nil, fmt.Errorf("unknown scenario %q, pass -list to see available scenarios", name)
}

func listScenarios(w *os.File) {
	pw := textutil.PrefixWriter(w, "  ")
	fmt.Fprintln(w, "available scenarios:")
	for _, s := range scenarios {
		fmt.Fprintf(pw, "%-16s %s\n", s.name, s.summary)
	}
}

func printScenario(w *os.File, s scenario, observed []string) {
	fmt.Fprintf(w, "%s: %s\n", s.name, s.summary)
	pw := textutil.PrefixWriter(w, "  ")
	for _, line := range observed {
		fmt.Fprintln(pw, line)
	}
}
