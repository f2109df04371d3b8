package ui

import (
	"fmt"
	"os"

	"github.com/terrasight/terrasight/internal/compute"
	"github.com/terrasight/terrasight/internal/session"
	"github.com/terrasight/terrasight/output"
)

type menuOption struct {
	title   string
	handler func()
}

// ShowMenu displays the main menu and handles user input
func ShowMenu(client *compute.Client) {
	computeClient = client
	activeSession = session.New()

	menuOptions := []menuOption{
		{"Define the region of interest", DefineROI},
		{"Show the current session", ShowSession},
		{"Rainfall accumulation and anomaly", AnalyzeRainfall},
		{"Water quality monitoring", AnalyzeWaterQuality},
		{"Water body change and encroachment detection", AnalyzeEncroachment},
		{"Flood extent mapping", AnalyzeFlood},
		{"Water harvesting structure suitability", AnalyzeSuitability},
		{"Vegetation health indices", AnalyzeVegetation},
		{"Carbon stock estimation", AnalyzeCarbonStock},
		{"Land cover classification", AnalyzeLandCover},
		{"Reset the session", ResetSession},
		{"Exit the application", func() {
			fmt.Println("Waiting for pending exports...")
			output.WaitForExports()
			fmt.Println("Exiting...")
			os.Exit(0)
		}},
	}

	for {
		fmt.Println("\033[34m===================\033[0m")
		for i, opt := range menuOptions {
			fmt.Printf("\033[34m%d. %s\033[0m\n", i+1, opt.title)
		}
		fmt.Println("\033[34mPlease enter your choice:\033[0m")

		var choice int
		_, err := fmt.Scan(&choice)
		if err != nil {
			fmt.Printf("\n\033[31mInvalid input. Please enter a number.\033[0m\n")
			fmt.Scanln() // Clear the buffer
			continue
		}

		if choice < 1 || choice > len(menuOptions) {
			fmt.Println("\033[31mInvalid choice. Please try again.\033[0m")
			continue
		}

		menuOptions[choice-1].handler()
	}
}
