package main

import (
	"fmt"
	"time"

	"perch/internal/core/usage"
	"perch/internal/storage"

	"github.com/spf13/cobra"
)

var reportDays int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print reconstructed usage sessions without starting the app",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().IntVar(&reportDays, "days", 7, "Number of trailing days to report")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	config, err := storage.LoadConfig(appName)
	if err != nil {
		return err
	}

	dbPath, err := storage.DefaultDBPath(appName)
	if err != nil {
		return err
	}
	pingLog, err := storage.OpenPingLog(dbPath)
	if err != nil {
		return fmt.Errorf("open ping log: %w", err)
	}
	defer pingLog.Close()

	days, err := usage.History(pingLog, reportDays, config.BreakThreshold, time.Now())
	if err != nil {
		return err
	}
	if len(days) == 0 {
		fmt.Println("No activity recorded.")
		return nil
	}

	for _, day := range days {
		fmt.Printf("%s  total %s\n", day.Date, formatMinutes(day.TotalMinutes))
		for _, session := range day.Sessions {
			fmt.Printf("  %s - %s  %s\n", session.Start, session.End, formatMinutes(session.DurationMinutes))
		}
	}
	return nil
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}
