package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/seralo/convo/internal/app"
	"github.com/seralo/convo/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "convo",
	Short: "A terminal chat client",
	Long:  `convo is a terminal client for a conversation backend: browse your conversations, read transcripts, and chat with the assistant.`,
	Run: func(cmd *cobra.Command, args []string) {
		runApp()
	},
}

func runApp() {
	closer, err := logging.Setup()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closer.Close()

	application, err := app.NewApplication()
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	defer application.Stop()

	if err := application.Start(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(useCmd)
}
