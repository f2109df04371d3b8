package ui

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Colors for consistent UI
const (
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorReset  = "\033[0m"
)

// PrintWarning displays a warning message with consistent formatting
func PrintWarning(message string) {
	fmt.Printf("%s\nWarning:%s\n", ColorYellow, ColorReset)
	fmt.Printf("%s%s%s\n", ColorYellow, message, ColorReset)
}

// PrintError displays an error message with consistent formatting
func PrintError(message string) {
	fmt.Printf("\n%sError: %s%s\n", ColorRed, message, ColorReset)
}

// PrintSuccess displays a success message with consistent formatting
func PrintSuccess(message string) {
	fmt.Printf("\n%s%s%s\n", ColorGreen, message, ColorReset)
}

// PrintInfo displays an info message with consistent formatting
func PrintInfo(message string) {
	fmt.Printf("%s%s%s", ColorBlue, message, ColorReset)
}

// ReadString reads a string from stdin with trimming
func ReadString(prompt string) string {
	reader := bufio.NewReader(os.Stdin)
	PrintInfo(prompt)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// ReadInt reads an integer from stdin with validation
func ReadInt(prompt string, min, max int) (int, error) {
	input := ReadString(prompt)

	value, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", input)
	}

	if value < min || value > max {
		return 0, fmt.Errorf("value must be between %d and %d", min, max)
	}

	return value, nil
}

// ReadFloat reads a float from stdin, falling back to a default on empty
// input.
func ReadFloat(prompt string, def, min, max float64) (float64, error) {
	input := ReadString(prompt)
	if input == "" {
		return def, nil
	}

	value, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", input)
	}
	if value < min || value > max {
		return 0, fmt.Errorf("value must be between %g and %g", min, max)
	}

	return value, nil
}

// ReadDate reads a date from stdin with validation
func ReadDate(prompt string) (time.Time, error) {
	input := ReadString(prompt)
	if input == "today" {
		return time.Now(), nil
	}
	date, err := time.Parse("2006-01-02", input)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s. Please use YYYY-MM-DD", input)
	}
	return date, nil
}

// ReadDateRange reads end date and number of days to calculate start date
func ReadDateRange() (time.Time, time.Time, error) {
	endDate, err := ReadDate("Enter the end date (YYYY-MM-DD or 'today'): ")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	days, err := ReadInt("Enter number of days to look back: ", 1, 3650)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	startDate := endDate.AddDate(0, 0, -days)
	return startDate, endDate, nil
}

// ReadChoice shows a numbered list and returns the selected index.
func ReadChoice(prompt string, options []string) (int, error) {
	fmt.Printf("%s\n%s%s\n", ColorGreen, prompt, ColorReset)
	for i, option := range options {
		fmt.Printf("%s%d. %s%s\n", ColorGreen, i+1, option, ColorReset)
	}

	choice, err := ReadInt("Enter your choice: ", 1, len(options))
	if err != nil {
		return 0, err
	}
	return choice - 1, nil
}
