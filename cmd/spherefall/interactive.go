package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/spherefall/internal/gui"
	"github.com/san-kum/spherefall/internal/serve"
	"github.com/san-kum/spherefall/internal/viz"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	w := gui.Open(cfg, logger)
	defer w.Close()
	return w.Run()
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui needs an interactive terminal")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// stderr would draw over the program, so logs are dropped unless a
	// file is given
	if logFile == "" {
		logLevel = "fatal"
	}
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	m := viz.NewModel(cfg)
	m.SetLogger(logger)
	if err := m.Start(); err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	sc := serve.DefaultConfig()
	sc.Address = addr
	sc.HostKeyPath = filepath.Join(dataDir, "host_key")
	if hostKey != "" {
		sc.HostKeyPath = hostKey
	}
	sc.MaxSessions = maxSessions

	srv, err := serve.New(sc, cfg, logger)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx)
}
