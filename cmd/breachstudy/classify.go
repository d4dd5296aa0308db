package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ts2427/breachstudy/internal/models"
	"github.com/ts2427/breachstudy/internal/pipeline"
	"github.com/ts2427/breachstudy/internal/reports"
)

var (
	classifyInput   string
	classifyOutput  string
	classifySummary string
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify the breach corpus and write the enriched dataset",
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

		in, err := os.Open(classifyInput)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer in.Close()

		out, err := os.Create(classifyOutput)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer out.Close()

		p := pipeline.New(cls,
			pipeline.WithColumns(cfg.Dataset.Columns),
			pipeline.WithWorkers(cfg.Classifier.Workers),
			pipeline.WithStore(st),
			pipeline.WithLogger(newLogger()),
		)

		summary, err := p.Classify(ctx, in, out)
		if err != nil {
			return err
		}

		fmt.Printf("Classified %d records: %d high severity, %d complex\n",
			summary.Records, summary.HighSeverity, summary.Complex)
		for _, cat := range models.Categories() {
			fmt.Printf("  %-20s %d\n", cat, summary.ByCategory[cat])
		}

		if classifySummary != "" {
			data, err := reports.ClassificationSummaryPDF(
				summary.Records, summary.HighSeverity, summary.Complex, summary.ByCategory)
			if err != nil {
				return err
			}
			if err := os.WriteFile(classifySummary, data, 0o644); err != nil {
				return fmt.Errorf("writing summary PDF: %w", err)
			}
		}

		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyInput, "input", "i", "", "breach corpus CSV (required)")
	classifyCmd.Flags().StringVarP(&classifyOutput, "output", "o", "", "enriched output CSV (required)")
	classifyCmd.Flags().StringVar(&classifySummary, "summary-pdf", "", "optional summary PDF path")
	classifyCmd.MarkFlagRequired("input")
	classifyCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(classifyCmd)
}
