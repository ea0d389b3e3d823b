// Command ludoserver runs the authoritative Ludo game server.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/yourusername/ludoengine/pkg/server"
)

const version = "0.1.0"

func main() {
	host := flag.String("host", "localhost", "Host to bind to (use 0.0.0.0 for all interfaces)")
	port := flag.Int("port", 8080, "Port to listen on")
	readTimeout := flag.Duration("read-timeout", 30*time.Second, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	grace := flag.Duration("grace-window", 60*time.Second, "How long a fully disconnected room survives")
	inactivity := flag.Duration("inactivity", 30*time.Minute, "Idle time before a room is reaped")
	sweep := flag.Duration("sweep-interval", time.Minute, "How often the inactivity sweep runs")
	debug := flag.Bool("debug", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("ludoserver v%s\n", version)
		os.Exit(0)
	}

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	config := server.ServerConfig{
		Host:         *host,
		Port:         *port,
		ReadTimeout:  *readTimeout,
		WriteTimeout: *writeTimeout,
		IdleTimeout:  60 * time.Second,
		Hub: server.HubConfig{
			GraceWindow:         *grace,
			InactivityThreshold: *inactivity,
			SweepInterval:       *sweep,
		},
	}

	srv := server.NewServer(config, version, log)
	if err := srv.ListenAndServeWithGracefulShutdown(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
