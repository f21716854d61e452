// labnote is a small authoring tool around the notation engine: translate
// chord notation on the command line or render it to a MIDI file without
// running the API server.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harmonylab/lab-api/internal/midifile"
	"github.com/harmonylab/lab-api/internal/notation"
)

var outputPath string

var rootCmd = &cobra.Command{
	Use:   "labnote",
	Short: "Chord notation tools for harmony lab exercises",
}

var parseCmd = &cobra.Command{
	Use:   "parse <notation>",
	Short: "Translate chord notation to MIDI pitch numbers",
	Long: `Translate chord notation to MIDI pitch numbers and print the result
as JSON. Exits non-zero when the notation is invalid.

Example:
  labnote parse "<c e g>1 <f a c>1"`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		res := notation.Parse(args[0])

		out, err := json.MarshalIndent(res, "", "    ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		if !res.IsValid {
			return fmt.Errorf("notation is invalid (%d errors)", len(res.Errors))
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <notation>",
	Short: "Render chord notation to a Standard MIDI File",
	Long: `Render chord notation to a Standard MIDI File. Hidden notes are
omitted from the rendering.

Example:
  labnote export -o triad.mid "<c e g>1"`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		res := notation.Parse(args[0])
		if !res.IsValid {
			for _, msg := range res.Errors {
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
			}
			return fmt.Errorf("notation is invalid (%d errors)", len(res.Errors))
		}

		data, err := midifile.Render(res.Chords)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outputPath, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d chords to %s\n", len(res.Chords), outputPath)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "out.mid", "output file path")
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
