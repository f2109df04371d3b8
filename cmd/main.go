package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/common-nighthawk/go-figure"
	bannercolor "github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/terrasight/terrasight/internal/compute"
	"github.com/terrasight/terrasight/internal/notification"
	"github.com/terrasight/terrasight/internal/ui"
)

func printBanner() {
	figure1 := figure.NewFigure("Terra", "isometric1", true)
	figure2 := figure.NewFigure("Sight", "isometric1", true)
	bannercolor.Cyan(figure1.String())
	bannercolor.Cyan(figure2.String())
	fmt.Println()
}

func initCLI() {
	defer func() {
		if r := recover(); r != nil {
			pc, file, line, ok := runtime.Caller(3)
			var location string
			if ok {
				fn := runtime.FuncForPC(pc)
				location = fmt.Sprintf("%s:%d in %s", file, line, fn.Name())
			} else {
				location = "Unknown location"
			}

			fmt.Printf("\n\033[31mPANIC: %v\033[0m\n", r)
			fmt.Printf("\033[31mLocation: %s\033[0m\n", location)
			fmt.Printf("\033[31mExiting...\033[0m\n")

			stack := debug.Stack()
			errMessage := fmt.Sprintf("TerraSight panic:\n\n%v\n\nLocation: %s\n\nStack trace:\n%s", r, location, stack)
			err := notification.SendDiscordErrorNotification(errMessage)
			if err != nil {
				fmt.Printf("\033[31mFailed to send notification: %s\033[0m\n", err.Error())
			}
		}
	}()
	printBanner()

	client, err := compute.NewClient(context.Background())
	if err != nil {
		if errors.Is(err, compute.ErrAuth) {
			fmt.Printf("\033[31mCompute service authentication failed: %s\033[0m\n", err.Error())
			fmt.Println("\033[31mCheck TERRASIGHT_CLIENT_ID, TERRASIGHT_CLIENT_SECRET and TERRASIGHT_TOKEN_URL.\033[0m")
			os.Exit(1)
		}
		fmt.Printf("\033[31mFailed to initialize the compute client: %s\033[0m\n", err.Error())
		os.Exit(1)
	}

	ui.ShowMenu(client)
}

func main() {
	err := godotenv.Load("../../.env")
	if err != nil {
		err := godotenv.Load("../.env")
		if err != nil {
			godotenv.Load(".env")
		}
	}

	initCLI()
}
