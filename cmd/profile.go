package cmd

import (
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/seralo/convo/internal/config"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage backend profiles",
	Long:  `Manage named backend profiles, each pointing at a conversation backend URL.`,
}

var listProfilesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		fmt.Printf("Active Profile: %s\n\n", cfg.ActiveProfile)
		fmt.Println("Available Profiles:")
		for name, profile := range cfg.Profiles {
			marker := ""
			if name == cfg.ActiveProfile {
				marker = " (active)"
			}
			fmt.Printf("  %s%s\n", name, marker)
			fmt.Printf("    Backend URL: %s\n", profile.BackendURL)
			fmt.Println()
		}
	},
}

var addProfileCmd = &cobra.Command{
	Use:   "add [profile-name]",
	Short: "Add a new profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		var profileName string
		if len(args) > 0 {
			profileName = args[0]
		} else {
			prompt := promptui.Prompt{
				Label: "Profile name",
			}
			profileName, err = prompt.Run()
			if err != nil {
				log.Fatalf("Prompt failed: %v", err)
			}
		}

		if _, exists := cfg.Profiles[profileName]; exists {
			log.Fatalf("Profile '%s' already exists", profileName)
		}

		urlPrompt := promptui.Prompt{
			Label:   "Backend URL",
			Default: "http://localhost:8000",
		}
		backendURL, err := urlPrompt.Run()
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}

		cfg.Profiles[profileName] = config.Profile{BackendURL: backendURL}

		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Profile '%s' added successfully!\n", profileName)
	},
}

var deleteProfileCmd = &cobra.Command{
	Use:   "delete [profile-name]",
	Short: "Delete a profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		var profileName string
		if len(args) > 0 {
			profileName = args[0]
		} else {
			profileNames := make([]string, 0, len(cfg.Profiles))
			for name := range cfg.Profiles {
				profileNames = append(profileNames, name)
			}

			if len(profileNames) == 0 {
				log.Fatalf("No profiles available to delete")
			}

			prompt := promptui.Select{
				Label: "Select profile to delete",
				Items: profileNames,
			}
			_, profileName, err = prompt.Run()
			if err != nil {
				log.Fatalf("Selection failed: %v", err)
			}
		}

		if _, exists := cfg.Profiles[profileName]; !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		confirmPrompt := promptui.Prompt{
			Label:     fmt.Sprintf("Delete profile '%s'? (y/N)", profileName),
			IsConfirm: true,
		}
		if _, err := confirmPrompt.Run(); err != nil {
			fmt.Println("Deletion cancelled")
			return
		}

		// Keep a valid active profile after deletion
		if cfg.ActiveProfile == profileName {
			for name := range cfg.Profiles {
				if name != profileName {
					cfg.ActiveProfile = name
					break
				}
			}
			if len(cfg.Profiles) == 1 {
				cfg.ActiveProfile = "default"
				cfg.Profiles["default"] = config.Profile{BackendURL: "http://localhost:8000"}
			}
		}

		delete(cfg.Profiles, profileName)

		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Profile '%s' deleted successfully!\n", profileName)
	},
}

var switchProfileCmd = &cobra.Command{
	Use:   "switch [profile-name]",
	Short: "Switch to a different profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		var profileName string
		if len(args) > 0 {
			profileName = args[0]
		} else {
			profileNames := make([]string, 0, len(cfg.Profiles))
			for name := range cfg.Profiles {
				if name != cfg.ActiveProfile {
					profileNames = append(profileNames, name)
				}
			}

			if len(profileNames) == 0 {
				fmt.Println("No other profiles available to switch to")
				return
			}

			prompt := promptui.Select{
				Label: "Select profile to switch to",
				Items: profileNames,
			}
			_, profileName, err = prompt.Run()
			if err != nil {
				log.Fatalf("Selection failed: %v", err)
			}
		}

		if _, exists := cfg.Profiles[profileName]; !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		cfg.ActiveProfile = profileName

		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Switched to profile '%s'\n", profileName)
	},
}

func init() {
	profileCmd.AddCommand(listProfilesCmd)
	profileCmd.AddCommand(addProfileCmd)
	profileCmd.AddCommand(deleteProfileCmd)
	profileCmd.AddCommand(switchProfileCmd)
}
