package main

import (
	"flag"
	"fmt"

	"github.com/mattjoyce/inlet/internal/config"
	"github.com/mattjoyce/inlet/internal/doctor"
)

func runDoctor(args []string) int {
	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	configPath := fs.String("config", "", "optional YAML config file")
	_ = fs.Parse(args)

	// Gather, not Load: doctor reports a missing secret as a finding instead
	// of refusing to run.
	cfg, err := config.Gather(*configPath)
	if err != nil {
		fmt.Printf("FAIL  config: %v\n", err)
		return 1
	}

	result := doctor.Run(cfg)
	fmt.Print(result.Report())
	if !result.Healthy {
		return 1
	}
	return 0
}
