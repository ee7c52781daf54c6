// Linktitle converts URLs into titled markdown links the way an editor
// plugin would: each argument is pasted into an in-memory buffer, a
// placeholder is inserted immediately, and the resolved title replaces it
// once the fetch completes.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"linktitle/buffer"
	"linktitle/config"
	"linktitle/pipeline"
)

func main() {
	configPath := flag.String("config", "", "path to config.toml (default ~/.config/linktitle/config.toml)")
	maxLength := flag.Int("max-length", -1, "override max title length (0 = unlimited)")
	render := flag.Bool("render", false, "prefer the headless browser over the HTTP scrape")
	noProxy := flag.Bool("no-proxy", false, "disable social-media mirror rewriting")
	blacklist := flag.String("blacklist", "", "extra blacklist entries, comma separated")
	verbose := flag.Bool("v", false, "debug logging to stderr")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "linktitle: %v\n", err)
		os.Exit(1)
	}
	if *maxLength >= 0 {
		cfg.Fetch.MaxTitleLength = *maxLength
	}
	if *render {
		cfg.Fetch.UseAlternateScraper = true
	}
	if *noProxy {
		cfg.Fetch.UseProxyRewrite = false
	}
	if *blacklist != "" {
		if cfg.Fetch.Blacklist != "" {
			cfg.Fetch.Blacklist += ","
		}
		cfg.Fetch.Blacklist += *blacklist
	}

	log := zerolog.Nop()
	if *verbose {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	p := pipeline.New(cfg, log, func(msg string) {
		fmt.Fprintf(os.Stderr, "linktitle: %s\n", msg)
	})

	args := flag.Args()
	if len(args) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				args = append(args, line)
			}
		}
	}

	for _, arg := range args {
		buf := buffer.NewMemory("")
		p.HandlePaste(buf, arg).Wait()
		fmt.Println(buf.Value())
	}
}
