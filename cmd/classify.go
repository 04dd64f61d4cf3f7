package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lacrosselens/lacrosselens-engine/pkg/extraction"
)

var classifyOutput string

// classifiedPlay is the printed form of a classification.
type classifiedPlay struct {
	Type    string `json:"type" yaml:"type"`
	Success bool   `json:"success" yaml:"success"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify [text]",
	Short: "Classify a play description",
	Long: `Run the play classifier on a description and print the detected plays.
The text is read from the arguments, or from stdin when none are given.

Example:
  lacrosselens classify "Smith wins the faceoff and scores on a bounce shot"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if len(args) == 0 {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			text = string(b)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return fmt.Errorf("no text to classify")
		}

		plays := []classifiedPlay{}
		for _, p := range extraction.Classify(text) {
			plays = append(plays, classifiedPlay{Type: string(p.Type), Success: p.Success})
		}
		return writePlays(cmd.OutOrStdout(), classifyOutput, plays)
	},
}

func writePlays(w io.Writer, format string, plays []classifiedPlay) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plays)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plays); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		if len(plays) == 0 {
			_, err := fmt.Fprintln(w, "no plays detected")
			return err
		}
		for _, p := range plays {
			result := "failed"
			if p.Success {
				result = "success"
			}
			if _, err := fmt.Fprintf(w, "%-14s %s\n", p.Type, result); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyOutput, "output", "o", "text", "output format: text, json or yaml")
	rootCmd.AddCommand(classifyCmd)
}
