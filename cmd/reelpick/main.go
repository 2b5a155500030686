// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

// Package main is the entry point for the reelpick command.
//
// Reelpick recommends one movie in two phases. A genetic algorithm first
// searches the catalog for the set of movies that best fits the requested
// release period, length and genres. The user then rates movies from that
// set and the candidates are reranked with the liked and disliked
// directors, stars and keywords.
//
// # Subcommands
//
//	reelpick serve                     run the HTTP API (see internal/api)
//	reelpick recommend [flags]         run both phases once and print the pick
//	reelpick tune [flags]              sweep search parameters and store the results
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (SEARCH_POP_SIZE, CATALOG_PATH, HTTP_PORT, ...)
//   - Config file (-config, $CONFIG_PATH or ./config.yaml)
//   - Built-in defaults
//
// # Example Usage
//
//	export CATALOG_PATH=data/movies.parquet
//	reelpick recommend -start 1990 -end 2005 -length 120 -genres "Crime,Drama" -like 12,40 -dislike 7
//
//	reelpick serve -addr :9090
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the running command. serve stops accepting
// requests and waits for in-flight searches before exiting.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/reelpick/reelpick/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, defaultDeps())
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, d deps) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}

	var err error
	switch args[0] {
	case "serve":
		err = runServe(ctx, args[1:], stderr, d)
	case "recommend":
		err = runRecommend(ctx, args[1:], stdout, stderr, d)
	case "tune":
		err = runTune(ctx, args[1:], stdout, stderr, d)
	case "version":
		fmt.Fprintln(stdout, version)
		return 0
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		printUsage(stderr)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	default:
		logging.Error().Err(err).Str("command", args[0]).Msg("command failed")
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `reelpick - two-phase movie recommendation

Usage:
  reelpick serve [-config file] [-addr host:port]
  reelpick recommend -start YEAR -end YEAR -length MIN -genres G1,G2 [-like I,J] [-dislike K] [-json]
  reelpick tune -start YEAR -end YEAR -length MIN -genres G1,G2 [-repeats N]
  reelpick version

Run "reelpick <command> -h" for the flags of a command.`)
}
