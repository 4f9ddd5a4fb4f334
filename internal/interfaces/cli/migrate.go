package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewMigrateCmd manages the database schema.
func NewMigrateCmd(open MigratorOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	withMigrator := func(fn func(cmd *cobra.Command, m SchemaMigrator, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			m, err := open(cc)
			if err != nil {
				return err
			}
			defer m.Close()
			return fn(cmd, m, args)
		}
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(cmd *cobra.Command, m SchemaMigrator, _ []string) error {
			if err := m.Up(); err != nil {
				return err
			}
			return printStatus(cmd, m)
		}),
	}

	down := &cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1 step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: withMigrator(func(cmd *cobra.Command, m SchemaMigrator, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("steps must be a positive integer, got %q", args[0])
				}
				steps = n
			}
			if err := m.Down(steps); err != nil {
				return err
			}
			return printStatus(cmd, m)
		}),
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the applied schema version",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(cmd *cobra.Command, m SchemaMigrator, _ []string) error {
			return printStatus(cmd, m)
		}),
	}

	force := &cobra.Command{
		Use:   "force <version>",
		Short: "Set the schema version without running migrations",
		Args:  cobra.ExactArgs(1),
		RunE: withMigrator(func(cmd *cobra.Command, m SchemaMigrator, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("version must be an integer, got %q", args[0])
			}
			if err := m.Force(v); err != nil {
				return err
			}
			return printStatus(cmd, m)
		}),
	}

	cmd.AddCommand(up, down, status, force)
	return cmd
}

type schemaStatus struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

func (s schemaStatus) String() string {
	if s.Dirty {
		return fmt.Sprintf("schema version %d (dirty)", s.Version)
	}
	return fmt.Sprintf("schema version %d", s.Version)
}

func printStatus(cmd *cobra.Command, m SchemaMigrator) error {
	v, dirty, err := m.Status()
	if err != nil {
		return err
	}
	return PrintResult(cmd, schemaStatus{Version: v, Dirty: dirty})
}

//Personal.AI order the ending
