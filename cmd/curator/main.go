package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"go.hackfix.me/curator/app"
	actx "go.hackfix.me/curator/app/context"
	aerrors "go.hackfix.me/curator/app/errors"
)

func main() {
	a, err := app.New("curator",
		filepath.Join(xdg.ConfigHome, "curator", "config.json"),
		filepath.Join(xdg.DataHome, "curator"),
		app.WithTimeNow(time.Now),
		app.WithEnv(osEnv{}),
		app.WithFDs(
			os.Stdin,
			colorable.NewColorable(os.Stdout),
			colorable.NewColorable(os.Stderr),
		),
		app.WithFS(osfs.New()),
		app.WithLogger(isatty.IsTerminal(os.Stderr.Fd())),
	)
	if err != nil {
		exit(err)
	}
	if err = a.Run(os.Args[1:]); err != nil {
		exit(err)
	}
}

func exit(err error) {
	var serr *aerrors.StructuredError
	if errors.As(err, &serr) {
		aerrors.Log(slog.Default(), err)
	} else {
		aerrors.Errorf(err)
	}
	os.Exit(1)
}

type osEnv struct{}

var _ actx.Environment = &osEnv{}

func (e osEnv) Get(key string) string {
	return os.Getenv(key)
}

func (e osEnv) Set(key, val string) error {
	return os.Setenv(key, val)
}
