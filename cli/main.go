// Command oggdl reads Spotify links from stdin, expands playlists,
// albums, and shows, and downloads each track or episode's OGG audio
// sequentially, either into files or into a helper program's stdin.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/sv4u/oggdl/download"
	"github.com/sv4u/oggdl/download/audio"
	"github.com/sv4u/oggdl/download/config"
	"github.com/sv4u/oggdl/download/logging"
	"github.com/sv4u/oggdl/download/queue"
	"github.com/sv4u/oggdl/download/sink"
	"github.com/sv4u/oggdl/download/spotify"
)

// Version is set at build time via ldflags.
var Version = "dev"

const (
	exitOK     = 0
	exitConfig = 1
	exitAuth   = 2
	exitInput  = 3
)

type cliArgs struct {
	Helper string `arg:"positional" help:"program invoked per item as: helper <id> <title> <album> <artist>... with the audio on stdin; omit to write .ogg files instead"`
	Config string `arg:"--config" help:"path to the YAML configuration file"`
}

func (cliArgs) Version() string {
	return "oggdl " + Version
}

func main() {
	os.Exit(run())
}

func run() int {
	var args cliArgs
	arg.MustParse(&args)

	// A .env next to the binary is a convenience, not a requirement.
	_ = godotenv.Load()

	cfg, err := config.Load(args.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "oggdl: %v\n", err)
		return exitConfig
	}

	_, runDir, restore, err := setUpRunLog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "oggdl: %v\n", err)
		return exitConfig
	}
	defer restore()

	ctx, stop, signals := watchSignals(context.Background())
	defer stop()

	log.Printf("INFO: oggdl_start version=%s run_dir=%s", Version, runDir)

	client, err := spotify.NewClient(&spotify.Config{
		ClientID:          cfg.Download.ClientID,
		ClientSecret:      cfg.Download.ClientSecret,
		CacheMaxSize:      cfg.Download.CacheMaxSize,
		CacheTTL:          cacheTTL(cfg),
		RateLimitEnabled:  cfg.Download.RateLimitEnabled,
		RateLimitRequests: cfg.Download.RateLimitRequests,
		RateLimitWindow:   cfg.Download.RateLimitWindow,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "oggdl: %v\n", err)
		return exitAuth
	}
	if err := client.Authenticate(ctx); err != nil {
		log.Printf("ERROR: authentication_failed error=%v", err)
		fmt.Fprintf(os.Stderr, "oggdl: %v\n", err)
		return exitAuth
	}

	provider, err := audio.NewProvider(&audio.Config{
		FetchCommand: cfg.Download.FetchCommand,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "oggdl: %v\n", err)
		return exitConfig
	}

	events, err := logging.NewLogger(filepath.Join(runDir, "items.jsonl"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "oggdl: %v\n", err)
		return exitConfig
	}
	defer events.Close()

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(os.Stderr, "Reading links from stdin, one per line. Finish with %q or EOF.\n", queue.Sentinel)
	}

	builder := queue.NewBuilder(queue.NewExpander(client))
	q, err := builder.Build(ctx, os.Stdin)
	if err != nil {
		log.Printf("ERROR: input_read_failed error=%v", err)
		fmt.Fprintf(os.Stderr, "oggdl: %v\n", err)
		return exitInput
	}

	driver := download.NewDriver(
		download.NewSession(client, provider),
		selectSink(args.Helper, cfg),
		recordEvents(events),
	)

	stats, err := driver.Run(ctx, q)
	cs := client.CacheStats()
	log.Printf("INFO: cache_stats hits=%d misses=%d size=%d max_size=%d", cs.Hits, cs.Misses, cs.Size, cs.MaxSize)
	printSummary(stats)
	if err != nil {
		// Cancellation mid-run. Processed items stay processed.
		return 128 + signals.Received()
	}
	return exitOK
}

// selectSink picks the helper-process sink when a helper was given,
// the file sink otherwise.
func selectSink(helper string, cfg *config.Config) download.Sink {
	if helper != "" {
		log.Printf("INFO: sink_selected type=helper helper=%s", helper)
		return sink.NewHelperSink(helper)
	}
	log.Printf("INFO: sink_selected type=file output_dir=%s", cfg.Download.OutputDir)
	return sink.NewFileSink(cfg.Download.OutputDir)
}

// recordEvents mirrors every item state change into the JSON event log.
func recordEvents(events *logging.Logger) func(*queue.Item) {
	return func(item *queue.Item) {
		events.Record(logging.ItemEvent{
			ItemID:    item.ItemID,
			Kind:      string(item.Ref.Kind),
			SpotifyID: item.Ref.ID,
			State:     string(item.GetState()),
			Bytes:     item.BytesWritten,
			Error:     item.Error,
		})
	}
}

func printSummary(stats map[string]int) {
	fmt.Fprintf(os.Stderr, "oggdl: %d done, %d failed, %d skipped (%d total)\n",
		stats["done"], stats["failed"], stats["skipped"], stats["total"])
}

func cacheTTL(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Download.CacheTTL) * time.Second
}
