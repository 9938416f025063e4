package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/phil-mansfield/gomd"
	"github.com/phil-mansfield/gomd/io"
	"github.com/phil-mansfield/gomd/particle"
)

func main() {
	var (
		config        string
		exampleConfig bool
		saveSnapshot  string
		quiet         bool
	)

	flag.StringVar(&config, "Config", "", "Configuration file.")
	flag.BoolVar(
		&exampleConfig, "ExampleConfig", false,
		"Prints an example configuration file to stdout.",
	)
	flag.StringVar(
		&saveSnapshot, "SaveSnapshot", "",
		"Writes the final particle configuration to the given file.",
	)
	flag.BoolVar(
		&quiet, "Quiet", false, "Suppresses per-step occupancy logging.",
	)

	flag.Parse()

	if exampleConfig {
		fmt.Println(io.ExampleConfigFile)
		return
	}
	if config == "" {
		log.Fatal(
			"Must supply a -Config file. Run with -ExampleConfig to see " +
				"the format.",
		)
	}

	con, err := io.ReadConfig(config)
	if err != nil {
		log.Fatal(err.Error())
	}

	if con.Run.LogFile != "" {
		fp, err := os.Create(con.Run.LogFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		defer fp.Close()
		log.SetOutput(fp)
	}

	sim, err := gomd.NewSim(con)
	if err != nil {
		log.Fatal(err.Error())
	}
	sim.Log(!quiet)

	if err := sim.Run(con.Run.Steps); err != nil {
		log.Fatal(err.Error())
	}

	if saveSnapshot != "" {
		err := particle.WriteSnapshot(saveSnapshot, sim.Store)
		if err != nil {
			log.Fatal(err.Error())
		}
	}
}
