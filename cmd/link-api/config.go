// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain/models"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/logging"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/service"
)

// flags are the command line flags for the link service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the link service.
type environment struct {
	Port               string
	NatsURL            string
	SkipEtagValidation bool
	LinkTablesFile     string
}

// parseFlags parses command line flags for the link service
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv parses environment variables for the link service
func parseEnv() environment {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://nats:4222"
	}

	return environment{
		Port:               port,
		NatsURL:            natsURL,
		SkipEtagValidation: os.Getenv("SKIP_ETAG_VALIDATION") == "true",
		LinkTablesFile:     os.Getenv("LINK_TABLES_FILE"),
	}
}

// linkTables is the JSON schema of the optional classifier tables file.
// Any table left empty in the file keeps its built-in default.
type linkTables struct {
	Platforms        []models.PlatformEntry `json:"platforms"`
	ShortenerDomains []string               `json:"shortener_domains"`
	SuspiciousTLDs   []string               `json:"suspicious_tlds"`
}

// loadClassifierConfig builds the classifier configuration, applying the
// LINK_TABLES_FILE override when one is set.
func loadClassifierConfig(env environment) (service.ClassifierConfig, error) {
	config := service.ClassifierConfig{}

	if env.LinkTablesFile == "" {
		return config, nil
	}

	data, err := os.ReadFile(env.LinkTablesFile)
	if err != nil {
		return config, err
	}

	var tables linkTables
	if err := json.Unmarshal(data, &tables); err != nil {
		return config, err
	}

	config.Platforms = tables.Platforms
	config.ShortenerDomains = tables.ShortenerDomains
	config.SuspiciousTLDs = tables.SuspiciousTLDs

	slog.With(
		"file", env.LinkTablesFile,
		"platforms", len(tables.Platforms),
		"shortener_domains", len(tables.ShortenerDomains),
		"suspicious_tlds", len(tables.SuspiciousTLDs),
	).Debug("loaded classifier tables override")

	return config, nil
}
