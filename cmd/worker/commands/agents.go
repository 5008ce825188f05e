package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nepfy/nepfy-backend/config"
	"github.com/nepfy/nepfy-backend/internal/agents"
	"github.com/nepfy/nepfy-backend/internal/bootstrap"
)

func AgentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Manage AI agent configs stored in Redis",
	}
	cmd.AddCommand(agentsImportCommand())
	return cmd
}

func agentsImportCommand() *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "import [file.yaml]",
		Short: "Import agent configs from YAML, or the built-in defaults when no file is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cfgs []agents.AgentConfig
				err  error
			)
			if len(args) == 1 {
				data, rerr := os.ReadFile(args[0])
				if rerr != nil {
					return rerr
				}
				cfgs, err = agents.ParseSeeds(data)
			} else {
				cfgs, err = agents.DefaultSeeds()
			}
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			rdb, err := bootstrap.OpenRedis(cmd.Context(), cfg.Redis)
			if err != nil {
				return err
			}
			defer rdb.Close()

			n, err := agents.Seed(cmd.Context(), agents.NewRedisStore(rdb), cfgs, overwrite)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d agents\n", n, len(cfgs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace agents that already exist")
	return cmd
}
