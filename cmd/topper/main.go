package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/cmejj/topper"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const defaultPort = 31337

var rootCmd = &cobra.Command{
	Use:   "topper [port]",
	Short: "Run the topper demo server",
	Long: "Run the topper demo server, registering the same five demo " +
		"resources as the reference hello-world example, plus an admin " +
		"server on an ephemeral port.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		port := defaultPort
		if len(args) == 1 {
			p, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid port %q: %w", args[0], err)
			}
			port = p
		}
		return run(port)
	},
}

func run(port int) error {
	server, err := topper.NewServer("127.0.0.1", port)
	if err != nil {
		return err
	}

	resources := []topper.Resource{
		topper.HelloResource{},
		topper.HelloParamResource{},
		topper.HelloDoubleParamResource{},
		topper.HelloQueryParamResource{},
		topper.HelloPostParamResource{},
	}
	for _, r := range resources {
		if err := server.RegisterResource(r); err != nil {
			return err
		}
	}

	if err := server.Start(); err != nil {
		return err
	}

	// Also start an admin server on some ephemeral port.
	if err := server.StartAdminServer("127.0.0.1", 0); err != nil {
		return err
	}
	logrus.WithField("admin_address", server.AdminAddr()).Info("admin server ready")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		server.StopAndWait()
	}()

	// Wait for interruption.
	return server.Wait()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
