package main

import (
	"context"
	"errors"

	"github.com/KilimcininKorOglu/rdl2/internal/config"
)

// watchConvert converts in to out, then converts again after every valid
// change of the configuration file until ctx ends. Failed reloads and
// conversions are logged and the previous output is left in place.
func (a *app) watchConvert(ctx context.Context, in, out string, override func(*config.Config)) error {
	if a.configFile == "" {
		return errors.New("--watch requires --config")
	}
	if err := a.convert(in, out); err != nil {
		return err
	}

	// The watcher calls back from its own goroutine. Only the latest
	// config and error are kept; everything else happens on this one.
	reloads := make(chan *config.Config, 1)
	failures := make(chan error, 1)
	watcher, err := config.NewConfigWatcher(&config.WatcherConfig{
		FilePath: a.configFile,
		OnChange: func(_, newCfg *config.Config) { offerLatest(reloads, newCfg) },
		OnError:  func(err error) { offerLatest(failures, err) },
	})
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()
	a.logger.Info("watching configuration", "config", a.configFile)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("stopped watching configuration", "config", a.configFile)
			return nil

		case err := <-failures:
			a.logger.Warn("ignoring configuration change", "config", a.configFile, "error", err.Error())

		case cfg := <-reloads:
			override(cfg)
			if err := a.applyConfig(cfg); err != nil {
				a.logger.Warn("ignoring configuration change", "config", a.configFile, "error", err.Error())
				continue
			}
			if err := a.convert(in, out); err != nil {
				a.logger.Error("conversion failed", "input", in, "error", err.Error())
				continue
			}
			a.logger.Info("converted after configuration change", "output", out)
		}
	}
}

// offerLatest puts v in the single-slot channel ch, replacing a value that
// was not received yet.
func offerLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
