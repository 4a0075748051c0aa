package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/description"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/diag"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/loader"
)

var describeCmd = &cobra.Command{
	Use:   "describe <description.xml>",
	Short: "Load a component description and show it",
	Long: `Load a single XML component description, print a summary of what it
declares and list every load issue with its line and column.

Exits with an error when any issue has error severity.`,
	Args: cobra.ExactArgs(1),
	RunE: runDescribe,
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	res, err := loader.New(logger).LoadFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	showDescription(res.Description)
	showIssues(res.Issues)
	if err := res.Issues.Err(); err != nil {
		return fmt.Errorf("%s has %d error(s)", args[0], len(res.Issues.Errors()))
	}
	return nil
}

func showDescription(d *description.ComponentDescription) {
	fmt.Printf("Component: %s\n", d.Name)
	fmt.Printf("GUID: %s\n", d.ID)
	if d.Metadata.Author != "" {
		fmt.Printf("Author: %s\n", d.Metadata.Author)
	}
	if d.Metadata.Version != "" {
		fmt.Printf("Version: %s\n", d.Metadata.Version)
	}
	fmt.Printf("Format version: %s\n", d.Metadata.FormatVersion)
	fmt.Printf("Minimum size: %g\n", d.MinSize)
	if d.Metadata.ImplementSet != "" {
		fmt.Printf("Implements: %s:%s\n", d.Metadata.ImplementSet, d.Metadata.ImplementItem)
	}
	fmt.Println()

	if len(d.Properties) > 0 {
		fmt.Println("Properties:")
		for _, p := range d.Properties {
			fmt.Printf("  %s (%s, key %q) default %s", p.Name, p.Type, p.Key(), p.Default)
			if len(p.Options) > 0 {
				opts := make([]string, len(p.Options))
				for i, o := range p.Options {
					opts[i] = o.Text()
				}
				fmt.Printf(" options [%s]", strings.Join(opts, ", "))
			}
			if len(p.FormatRules) > 0 {
				fmt.Printf(" %d format rule(s)", len(p.FormatRules))
			}
			fmt.Println()
		}
		fmt.Println()
	}

	if len(d.Flags) > 0 {
		fmt.Println("Flags:")
		for _, f := range d.Flags {
			fmt.Printf("  %s when %s\n", f.Value, f.Conditions)
		}
		fmt.Println()
	}

	if len(d.Metadata.Configurations) > 0 {
		fmt.Println("Configurations:")
		for _, c := range d.Metadata.Configurations {
			fmt.Printf("  %s", c.Name)
			if c.ImplementationName != "" {
				fmt.Printf(" (implements %s)", c.ImplementationName)
			}
			fmt.Printf(": %d setter(s)\n", len(c.Setters))
		}
		fmt.Println()
	}

	fmt.Println("Statistics:")
	connections, commands := 0, 0
	for _, g := range d.Connections {
		connections += len(g.Connections)
	}
	for _, g := range d.Render {
		commands += len(g.Commands)
	}
	fmt.Printf("  Connection groups: %d (%d connections)\n", len(d.Connections), connections)
	fmt.Printf("  Render groups: %d (%d commands)\n", len(d.Render), commands)
	fmt.Println()
}

func showIssues(issues diag.Issues) {
	if len(issues) == 0 {
		fmt.Println("No issues.")
		return
	}
	fmt.Printf("Issues (%d):\n", len(issues))
	for _, i := range issues {
		fmt.Printf("  %s\n", i)
	}
}
