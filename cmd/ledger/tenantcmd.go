package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/config"
	"ledger/internal/tenant"
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Register and administer tenants",
}

var tenantRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		name, _ := cmd.Flags().GetString("name")
		maxEvents, _ := cmd.Flags().GetInt("max-events")
		maxStorageMB, _ := cmd.Flags().GetInt("max-storage-mb")
		rateLimitRPM, _ := cmd.Flags().GetInt("rate-limit-rpm")

		if id == "" {
			return errors.New("id is required")
		}

		reg, err := tenant.NewRegistry(flagBaseDir)
		if err != nil {
			return err
		}
		cfg, err := reg.Register(id, name, config.Quotas{
			MaxEvents:    maxEvents,
			MaxStorageMB: maxStorageMB,
			RateLimitRPM: rateLimitRPM,
		}, nil)
		if err != nil {
			return err
		}

		fmt.Printf("[+] Tenant registered | id=%s status=%s\n", cfg.ID, cfg.Status)
		return nil
	},
}

var tenantListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every registered tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := tenant.NewRegistry(flagBaseDir)
		if err != nil {
			return err
		}
		configs, err := reg.List()
		if err != nil {
			return err
		}
		for _, cfg := range configs {
			fmt.Printf("%s\t%s\t%s\n", cfg.ID, cfg.Name, cfg.Status)
		}
		return nil
	},
}

var tenantSuspendCmd = &cobra.Command{
	Use:   "suspend",
	Short: "Suspend a tenant, refusing further traffic until resumed",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		if id == "" {
			return errors.New("id is required")
		}

		reg, err := tenant.NewRegistry(flagBaseDir)
		if err != nil {
			return err
		}
		cfg, err := reg.Suspend(id)
		if err != nil {
			return err
		}

		fmt.Printf("[+] Tenant suspended | id=%s status=%s\n", cfg.ID, cfg.Status)
		return nil
	},
}

var tenantResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a suspended tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		if id == "" {
			return errors.New("id is required")
		}

		reg, err := tenant.NewRegistry(flagBaseDir)
		if err != nil {
			return err
		}
		cfg, err := reg.Resume(id)
		if err != nil {
			return err
		}

		fmt.Printf("[+] Tenant resumed | id=%s status=%s\n", cfg.ID, cfg.Status)
		return nil
	},
}

func init() {
	tenantRegisterCmd.Flags().String("id", "", "tenant id")
	tenantRegisterCmd.Flags().String("name", "", "display name")
	tenantRegisterCmd.Flags().Int("max-events", 0, "event log quota, 0 for unlimited")
	tenantRegisterCmd.Flags().Int("max-storage-mb", 0, "storage quota in MB, 0 for unlimited")
	tenantRegisterCmd.Flags().Int("rate-limit-rpm", 0, "requests-per-minute quota, 0 for unlimited")

	tenantSuspendCmd.Flags().String("id", "", "tenant id")
	tenantResumeCmd.Flags().String("id", "", "tenant id")

	tenantCmd.AddCommand(tenantRegisterCmd, tenantListCmd, tenantSuspendCmd, tenantResumeCmd)
	rootCmd.AddCommand(tenantCmd)
}
