/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Command iconfont runs the icon font tasks of a task file.
//
//	iconfont [-f iconfont.yaml] [-v] [-list] [task ...]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"golang.org/x/term"

	"github.com/zhimiaox/iconfont/config"
)

const defaultTask = "iconfonts"

var (
	taskFile = flag.String("f", config.DefaultFile, "Path to the task file")
	verbose  = flag.Bool("v", false, "Log debug messages")
	list     = flag.Bool("list", false, "List the tasks of the task file and exit")
)

func main() {
	flag.Parse()
	initDisplay()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, flag.Args()); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, tasks []string) error {
	cfg, err := config.Load(*taskFile)
	if err != nil {
		return err
	}
	if *list {
		for _, name := range cfg.TaskNames() {
			pterm.Println(name)
		}
		return nil
	}
	if len(tasks) == 0 {
		tasks = []string{defaultTask}
	}
	for _, task := range tasks {
		if _, err := cfg.Task(task); err != nil {
			return err
		}
	}
	for _, task := range tasks {
		pterm.Info.Printfln("running task %s", task)
		written, err := cfg.Run(ctx, task)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return fmt.Errorf("task %s interrupted", task)
			}
			return fmt.Errorf("task %s: %w", task, err)
		}
		for _, f := range written {
			pterm.Success.Println(f.Path)
		}
	}
	return nil
}

// We use pterm for moderately fancy output, plain when not on a terminal.
func initDisplay() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		pterm.DisableColor()
	}
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}
