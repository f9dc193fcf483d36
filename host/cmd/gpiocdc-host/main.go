package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"gpiocdc/core"
	"gpiocdc/host/client"
	"gpiocdc/host/config"
	"gpiocdc/host/console"
	"gpiocdc/host/script"
	"gpiocdc/host/serial"
	"gpiocdc/host/sim"
	"gpiocdc/host/web"
	"gpiocdc/protocol"
)

var (
	configPath  = flag.String("config", config.DefaultPath, "Settings file (created if missing)")
	device      = flag.String("device", "", "Serial device path (default: config, else probe every port)")
	baud        = flag.Int("baud", 0, "Baud rate (ignored by USB CDC)")
	layoutName  = flag.String("layout", "", "Board layout: arduino-micro, pico or mcp23017")
	simulate    = flag.Bool("sim", false, "Talk to an in-process simulated board")
	listPorts   = flag.Bool("list", false, "List serial ports and exit")
	serve       = flag.Bool("serve", false, "Serve the HTTP/websocket bridge")
	consoleMode = flag.Bool("console", false, "Open the terminal pin panel")
	scriptPath  = flag.String("script", "", "Run a command script and exit")
	watch       = flag.Bool("watch", false, "With -script, re-run the script on every save")
	verbose     = flag.Bool("verbose", false, "Enable verbose output")
)

func main() {
	log.SetPrefix("gpiocdc: ")
	log.SetFlags(0)
	flag.Parse()

	if err := run(); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}

// run does everything main does, returning instead of exiting so deferred
// cleanup always happens
func run() error {
	if *listPorts {
		ports, err := serial.List()
		if err != nil {
			return err
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg)

	layout, err := cfg.BoardLayout()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var (
		stats func() core.Stats
		link  func() protocol.LinkStats
		rw    io.ReadWriteCloser
	)
	if *simulate {
		mode, err := cfg.PulseMode()
		if err != nil {
			return err
		}
		dev, err := sim.New(layout, mode)
		if err != nil {
			return err
		}
		dev.SetDebug(*verbose)
		stats, link = dev.Stats, dev.Link
		rw = dev.Dial(ctx)
		log.Printf("simulated %s board", layout.Name)
	} else {
		rw, err = openPort(cfg)
		if err != nil {
			return err
		}
	}

	c := client.New(rw, cfg.ClientOptions())
	defer c.Close()

	switch {
	case *scriptPath != "" && *watch:
		err = script.Watch(ctx, *scriptPath, c, nil)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		return err
	case *scriptPath != "":
		return script.RunFile(ctx, *scriptPath, c)
	case *serve:
		srv := web.NewServer(c, layout, web.ServerConfig{
			Verbose: cfg.Web.Verbose || *verbose,
			Stats:   stats,
			Link:    link,
		})
		log.Printf("listening on %s", cfg.Web.ListenAddr)
		return srv.ListenAndServe(cfg.Web.ListenAddr)
	case *consoleMode:
		return console.New(layout, c).Run()
	}
	return repl(ctx, c, layout, os.Stdin, os.Stdout)
}

func applyFlags(cfg *config.Config) {
	if *device != "" {
		cfg.Device = *device
	}
	if *baud != 0 {
		cfg.Baud = *baud
	}
	if *layoutName != "" {
		cfg.Layout = *layoutName
	}
}

// openPort opens the configured device, or the first port answering the
// help request with a pin mapping
func openPort(cfg *config.Config) (serial.Port, error) {
	name := cfg.Device
	if name == "" {
		var err error
		name, err = serial.Find(cfg.Baud, probe(cfg.ClientOptions()))
		if err != nil {
			return nil, err
		}
	}

	sc := serial.DefaultConfig(name)
	sc.Baud = cfg.Baud
	p, err := serial.Open(sc)
	if err != nil {
		return nil, err
	}
	log.Printf("connected to %s (protocol %s)", name, protocol.Version)
	return p, nil
}

func probe(opts client.Options) func(serial.Port) error {
	return func(p serial.Port) error {
		// the reader goroutine ends when Find closes the port
		text, err := client.New(p, opts).Help()
		if err != nil {
			return err
		}
		if !strings.HasPrefix(text, "Pin mapping") {
			return fmt.Errorf("unexpected reply %q", text)
		}
		return nil
	}
}
