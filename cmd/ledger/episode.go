package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var episodeCmd = &cobra.Command{
	Use:   "episode",
	Short: "Advance an Episode through observation and closure",
}

var episodeStartObservationCmd = &cobra.Command{
	Use:   "start-observation",
	Short: "Advance an Episode from DECIDED to UNDER_OBSERVATION",
	RunE: func(cmd *cobra.Command, args []string) error {
		episodeID, _ := cmd.Flags().GetString("episode")
		if episodeID == "" {
			return errors.New("episode is required")
		}

		c, err := core()
		if err != nil {
			return err
		}
		ep, err := c.StartObservation(episodeID)
		if err != nil {
			return err
		}

		fmt.Printf("[+] Episode under observation | id=%s state=%s\n", ep.ID, ep.State)
		return nil
	},
}

var episodeCloseCmd = &cobra.Command{
	Use:   "close",
	Short: "Advance an Episode to CLOSED",
	RunE: func(cmd *cobra.Command, args []string) error {
		episodeID, _ := cmd.Flags().GetString("episode")
		if episodeID == "" {
			return errors.New("episode is required")
		}

		c, err := core()
		if err != nil {
			return err
		}
		ep, err := c.CloseEpisode(episodeID)
		if err != nil {
			return err
		}

		fmt.Printf("[+] Episode closed | id=%s state=%s\n", ep.ID, ep.State)
		return nil
	},
}

func init() {
	episodeStartObservationCmd.Flags().String("episode", "", "episode id")
	episodeCloseCmd.Flags().String("episode", "", "episode id")

	episodeCmd.AddCommand(episodeStartObservationCmd, episodeCloseCmd)
	rootCmd.AddCommand(episodeCmd)
}
