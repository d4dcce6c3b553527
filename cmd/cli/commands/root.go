// Package commands implements the AdPulse admin CLI
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adpulse/adpulse/internal/constants"
	"github.com/adpulse/adpulse/pkg/api/v1/client"
	"github.com/adpulse/adpulse/pkg/api/v1/routes"
)

// flag names
const (
	flagServerAddress = "server-address"
)

var (
	// apiClient is the shared API client instance
	apiClient client.Client
	// serverAddress holds the target API server address. Flag parsing sets this.
	serverAddress string
)

// initClient initializes the API client
func initClient() error {
	var err error
	opts := client.DefaultOptions()
	opts.BaseURL = serverAddress

	apiClient, err = client.NewClient(opts)
	return err
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&serverAddress, flagServerAddress, "s", routes.DefaultBaseURL,
		"Address of the AdPulse API server (env: ADPULSE_SERVER_ADDRESS)")

	RootCmd.AddCommand(GetGenerationsCmd())
	RootCmd.AddCommand(GetAdsCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "adpulse",
	Short: "AdPulse CLI - manage generation jobs and the ads catalog",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Flag > env var > default
		if !cmd.Flags().Changed(flagServerAddress) {
			if envAddr := os.Getenv(constants.EnvServerAddress); envAddr != "" {
				serverAddress = envAddr
			}
		}

		if serverAddress == "" {
			return fmt.Errorf("server address cannot be empty")
		}
		return initClient()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}
