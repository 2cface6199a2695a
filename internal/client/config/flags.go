package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophtimeline/internal/client/timeline"
	"github.com/dmitrijs2005/gophtimeline/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   address and port of the gateway
//	-i int      online check interval in seconds
//	-d string   data directory
//	-p string   profile
//	-e string   people encoding
//	-u int      upload concurrency
//	-l string   log level
//
// Panics on malformed values.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-d", "-p", "-e", "-u", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.Profile, "p", cfg.Profile, "profile id")
	encoding := fs.String("e", string(cfg.PeopleEncoding), "people encoding (structured|sentinel)")
	fs.IntVar(&cfg.UploadConcurrency, "u", cfg.UploadConcurrency, "parallel media uploads")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.PeopleEncoding = timeline.PeopleEncoding(*encoding)
}
