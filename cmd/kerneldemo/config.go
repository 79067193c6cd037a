// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"time"

	"github.com/spf13/pflag"
	"v.io/x/kernel/cmd/pflagvar"
)

// config mirrors the handful of boot-time options Pintos exposes on its
// own kernel command line (-mlfqs, -o timer-freq, thread time slice) as a
// tagged struct registered against a pflag.FlagSet.
type config struct {
	MLFQS     bool          `flag:"mlfqs,false,disable priority donation and run the multi-level feedback queue scheduler instead"`
	TickHz    time.Duration `flag:"tick-hz,10ms,wall-clock period of one simulated timer tick for the sleep scenario when -profile drives the kernel live, via a timebase.Driver, instead of stepping it instantaneously"`
	TimeSlice int           `flag:"time-slice,4,number of ticks a running thread may hold the CPU before being force-yielded"`
	Scenario  string        `flag:"scenario,all,name of the scenario to run, or 'all'"`
	Profile   bool          `flag:"profile,false,print a hierarchical timing profile of the run, and pace any tick-driven scenario at -tick-hz instead of stepping it instantaneously"`
	List      bool          `flag:"list,false,list available scenarios and exit"`
}

func registerFlags(fs *pflag.FlagSet) (*config, error) {
	cfg := &config{}
	if err := pflagvar.RegisterFlagsInStruct(fs, "flag", cfg, nil, nil); err != nil {
		return nil, err
	}
	return cfg, nil
}
