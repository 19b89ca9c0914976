package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/appbootstrap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := appbootstrap.Run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "incident-monitor: %v\n", err)
		os.Exit(1)
	}
}
