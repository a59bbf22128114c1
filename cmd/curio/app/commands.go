package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/curioworks/curio/pkg/errors"
	"github.com/curioworks/curio/pkg/logging"
	"github.com/curioworks/curio/pkg/records"
	"github.com/curioworks/curio/pkg/store"
)

// NewReconcileCommand creates the reconcile command.
func (a *App) NewReconcileCommand() *cobra.Command {
	var (
		mappingFile string
		projectFile string
		resumeFile  string
	)

	cmd := &cobra.Command{
		Use:   "reconcile [records.json]",
		Short: "Batch-reconcile entity-valued cells against the knowledge base",
		Long: `Reconcile loads CMS records and a property mapping, queries the
knowledge base for every pending entity-valued cell, auto-accepts
candidates scoring at or above the acceptance threshold, and saves the
session to a project file for manual review of the rest.

Examples:
  curio reconcile items.json --mapping mapping.yaml
  curio reconcile --resume session.curio.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.Session()
			if err != nil {
				return err
			}
			ctx := logging.WithLogger(cmd.Context(), a.logger)

			switch {
			case resumeFile != "":
				if err := session.LoadProject(ctx, resumeFile); err != nil {
					return err
				}
				if projectFile == "" {
					projectFile = resumeFile
				}
			case len(args) == 1:
				raw, err := LoadRecords(args[0])
				if err != nil {
					return err
				}
				mapping, err := LoadMapping(mappingFile)
				if err != nil {
					return err
				}
				if err := session.Load(ctx, raw, mapping.Mapped, mapping.Manual); err != nil {
					return err
				}
			default:
				return errors.NewValidationError("records", nil, "a records file or --resume is required")
			}

			summary, err := session.ReconcileAll(ctx)
			if err != nil {
				return err
			}

			cmd.Printf("queried:       %d\n", summary.Queried)
			cmd.Printf("auto-accepted: %d\n", summary.AutoAccepted)
			cmd.Printf("needs review:  %d\n", summary.NeedsReview)
			cmd.Printf("no results:    %d\n", summary.NoResults)
			cmd.Printf("failed:        %d\n", summary.Failed)

			printProgress(cmd, session)

			if projectFile == "" {
				projectFile = "session.curio.yaml"
			}
			if err := session.SaveProject(ctx, projectFile); err != nil {
				return err
			}
			cmd.Printf("project saved: %s\n", projectFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&mappingFile, "mapping", "m", "", "property mapping file (required with a records file)")
	cmd.Flags().StringVarP(&projectFile, "project", "p", "", "project file to write (default session.curio.yaml)")
	cmd.Flags().StringVar(&resumeFile, "resume", "", "resume from an existing project file")

	return cmd
}

// NewValidateCommand creates the validate command.
func (a *App) NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <project.yaml>",
		Short: "Validate literal values against format constraints",
		Long: `Validate re-checks every literal-valued cell of a saved project
against its property's format constraint: an explicit knowledge-base
constraint when present, a built-in identifier pattern otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.Session()
			if err != nil {
				return err
			}
			ctx := logging.WithLogger(cmd.Context(), a.logger)

			if err := session.LoadProject(ctx, args[0]); err != nil {
				return err
			}
			s, err := session.Store()
			if err != nil {
				return err
			}

			checked, invalid := 0, 0
			var walkErr error
			s.EachCell(func(ref store.CellRef, prop *records.Property, _ *records.ReconciledValue) bool {
				if prop.Metadata.EntityValued() {
					return true
				}
				if ref.Index >= len(prop.OriginalValues) {
					return true
				}
				result, err := session.Check(ctx, ref, prop.OriginalValues[ref.Index])
				if err != nil {
					walkErr = err
					return false
				}
				checked++
				if !result.Valid {
					invalid++
					cmd.Printf("%s: %q: %s\n", ref, prop.OriginalValues[ref.Index], result.Message)
					for _, fix := range result.Fixes {
						cmd.Printf("  suggestion: %s -> %q\n", fix.Label, fix.Value)
					}
				}
				return true
			})
			if walkErr != nil {
				return walkErr
			}

			cmd.Printf("checked %d literal values, %d invalid\n", checked, invalid)
			if invalid > 0 {
				return fmt.Errorf("%d of %d literal values failed validation", invalid, checked)
			}
			return nil
		},
	}
	return cmd
}

// NewInspectCommand creates the inspect command.
func (a *App) NewInspectCommand() *cobra.Command {
	var wide bool

	cmd := &cobra.Command{
		Use:   "inspect <project.yaml>",
		Short: "Show reconciliation progress of a saved project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.Session()
			if err != nil {
				return err
			}
			ctx := logging.WithLogger(cmd.Context(), a.logger)

			if err := session.LoadProject(ctx, args[0]); err != nil {
				return err
			}
			printProgress(cmd, session)

			if !wide {
				return nil
			}
			s, err := session.Store()
			if err != nil {
				return err
			}
			s.EachCell(func(ref store.CellRef, prop *records.Property, rv *records.ReconciledValue) bool {
				line := fmt.Sprintf("%-40s %-12s", ref, rv.Status)
				if rv.Selected != nil {
					switch rv.Selected.Kind {
					case records.MatchKindEntity:
						line += fmt.Sprintf(" %s (%s)", rv.Selected.ID, rv.Selected.Label)
					case records.MatchKindNoItem:
						line += " no item: " + rv.Selected.Reason
					default:
						line += " " + rv.Selected.Value
					}
				}
				cmd.Println(line)
				return true
			})
			return nil
		},
	}

	cmd.Flags().BoolVarP(&wide, "wide", "w", false, "list every cell with its decision")
	return cmd
}

// NewDescribeCommand creates the describe command.
func (a *App) NewDescribeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <property-id>",
		Short: "Show datatype and constraints of a knowledge-base property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.Session()
			if err != nil {
				return err
			}
			ctx := logging.WithLogger(cmd.Context(), a.logger)

			meta, err := session.Describe(ctx, args[0])
			if err != nil {
				return err
			}
			cmd.Printf("property: %s\n", args[0])
			cmd.Printf("datatype: %s\n", meta.Datatype)
			for _, c := range meta.Constraints {
				cmd.Printf("constraint (%s): %s\n", c.Type, c.PatternValue())
				if c.Description != "" {
					cmd.Printf("  %s\n", c.Description)
				}
			}
			return nil
		},
	}
	return cmd
}

// NewSchemaCommand creates the schema command.
func (a *App) NewSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema <schema-id>",
		Short: "Show property suggestions for an entity schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.Session()
			if err != nil {
				return err
			}
			ctx := logging.WithLogger(cmd.Context(), a.logger)

			suggestions, err := session.Suggestions(ctx, args[0])
			if err != nil {
				return err
			}
			cmd.Println("required:")
			for _, id := range suggestions.Required {
				cmd.Printf("  %s\n", id)
			}
			cmd.Println("optional:")
			for _, id := range suggestions.Optional {
				cmd.Printf("  %s\n", id)
			}
			return nil
		},
	}
	return cmd
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("curio %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}

// printProgress prints the aggregate cell counters and the workflow
// gate.
func printProgress(cmd *cobra.Command, session interface {
	Progress() (store.Progress, error)
}) {
	p, err := session.Progress()
	if err != nil {
		return
	}
	cmd.Printf("progress: %d/%d decided (reconciled %d, skipped %d, no-item %d, errors %d, pending %d)\n",
		p.Total-p.Pending, p.Total, p.Reconciled, p.Skipped, p.NoItem, p.Errors, p.Pending)
	if p.CanAdvance() {
		cmd.Println("all values decided; ready to advance")
	}
}
