package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/damagecalc/internal/importer"
	"github.com/cory-johannsen/damagecalc/internal/lookup"
)

func main() {
	baseURL := flag.String("base-url", lookup.DefaultPokeAPIURL, "PokeAPI root URL")
	creatures := flag.String("creatures", "", "comma-separated creature names")
	moves := flag.String("moves", "", "comma-separated move names")
	outputDir := flag.String("output", "", "path to output dex directory")
	concurrency := flag.Int("concurrency", importer.DefaultConcurrency, "maximum in-flight lookups")
	timeout := flag.Duration("timeout", 10*time.Second, "per-request timeout")
	flag.Parse()

	if *outputDir == "" || (*creatures == "" && *moves == "") {
		fmt.Fprintln(os.Stderr, "usage: import-dex -output <dir> -creatures <a,b,...> -moves <x,y,...> [-base-url <url>]")
		os.Exit(1)
	}
	if *concurrency < 1 {
		fmt.Fprintln(os.Stderr, "-concurrency must be >= 1")
		os.Exit(1)
	}

	src := lookup.NewPokeAPI(*baseURL, *timeout, zap.NewNop())
	imp := importer.New(src, *concurrency, os.Stdout)

	start := time.Now()
	if err := imp.Run(context.Background(), splitNames(*creatures), splitNames(*moves), *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("import complete in %s\n", time.Since(start).Round(time.Millisecond))
}

func splitNames(s string) []string {
	var out []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
