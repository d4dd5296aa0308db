package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ts2427/breachstudy/internal/pipeline"
	"github.com/ts2427/breachstudy/internal/reports"
	"github.com/ts2427/breachstudy/internal/validation"
)

var (
	validateInput  string
	validateLabels string
	validatePDF    string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Score the classifier against manually coded ground truth",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		cls, err := buildClassifier(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close()
		}

		in, err := os.Open(validateInput)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer in.Close()

		labels, err := os.Open(validateLabels)
		if err != nil {
			return fmt.Errorf("opening manual labels: %w", err)
		}
		defer labels.Close()

		p := pipeline.New(cls,
			pipeline.WithColumns(cfg.Dataset.Columns),
			pipeline.WithStore(st),
			pipeline.WithLogger(newLogger()),
		)

		report, err := p.Validate(ctx, in, labels)
		if err != nil {
			return err
		}

		bands := validation.Bands{
			Excellent: cfg.Validation.ExcellentF1,
			Good:      cfg.Validation.GoodF1,
		}
		fmt.Print(validation.RenderText(report, bands))

		if validatePDF != "" {
			data, err := reports.ValidationReportPDF(report, bands)
			if err != nil {
				return err
			}
			if err := os.WriteFile(validatePDF, data, 0o644); err != nil {
				return fmt.Errorf("writing report PDF: %w", err)
			}
		}

		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "breach corpus CSV (required)")
	validateCmd.Flags().StringVarP(&validateLabels, "labels", "l", "", "manual coding CSV (required)")
	validateCmd.Flags().StringVar(&validatePDF, "pdf", "", "optional report PDF path")
	validateCmd.MarkFlagRequired("input")
	validateCmd.MarkFlagRequired("labels")
	rootCmd.AddCommand(validateCmd)
}
