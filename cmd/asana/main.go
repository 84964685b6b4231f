package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ayusman/asana/internal/app"
	"github.com/ayusman/asana/internal/config"
	"github.com/ayusman/asana/internal/log"
	"github.com/ayusman/asana/internal/mode"
	"github.com/ayusman/asana/internal/server"
	"github.com/ayusman/asana/internal/tray"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Init(log.Options{Level: cfg.LogLevel, File: cfg.LogFile})

	if err := run(cfg); err != nil {
		log.Fatal(log.Fields{"error": err}, "asana stopped")
	}
}

func run(cfg config.Config) error {
	reg := mode.Defaults()

	a, err := app.New(app.Config{
		Registry:     reg,
		Mode:         mode.ID(cfg.Mode),
		CameraID:     cfg.Camera,
		TickInterval: cfg.TickInterval,
		Enabled:      cfg.Enabled,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	if cfg.WebDir != "" {
		log.Info(log.Fields{"dir": cfg.WebDir}, "serving static files")
	}
	srv := server.New(server.Config{StaticDir: cfg.WebDir, Source: a})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Run(gctx) })
	g.Go(func() error { return srv.Run(gctx, cfg.Addr) })

	if cfg.Tray {
		t := tray.New(a.Modes(), a.Mode().ID, cfg.Enabled)
		t.OnToggle(a.SetEnabled)
		t.OnMode(func(id mode.ID) { _ = a.SwitchMode(id) })
		t.OnOpen(func() { openBrowser(hudURL(cfg.Addr)) })
		t.OnQuit(stop)

		g.Go(func() error {
			results, cancel := a.Subscribe()
			defer cancel()
			for {
				select {
				case <-gctx.Done():
					t.Quit()
					return nil
				case res := <-results:
					t.Update(res)
				}
			}
		})

		// The tray owns the main thread until it quits.
		t.Run()
		stop()
	}

	return g.Wait()
}

func hudURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Warn(log.Fields{"url": url, "error": err}, "could not open browser")
	}
}
