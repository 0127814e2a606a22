package main

import (
	"flag"

	"github.com/caarlos0/env"
	log "github.com/sirupsen/logrus"

	"github.com/sugarwhisk/cupcake-shop/internal/app/config"
	"github.com/sugarwhisk/cupcake-shop/internal/app/server"
)

func main() {
	var cfg config.Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatal(err)
	}

	flag.StringVar(&cfg.ServerAddress, "a", cfg.ServerAddress, "server address")
	flag.Parse()

	// Fail fast on incomplete configuration, before any listener opens.
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	if err := server.Serve(&cfg); err != nil {
		log.Fatal(err)
	}
}
