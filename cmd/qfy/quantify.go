package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tparidae/hap.py/internal/count"
	"github.com/tparidae/hap.py/internal/quantify"
	"github.com/tparidae/hap.py/internal/report"
	"github.com/tparidae/hap.py/internal/summary"
)

func newQuantifyCmd() *cobra.Command {
	cfg := quantify.DefaultConfig()
	cfg.WriteCounts = true

	var (
		req           quantify.Request
		mode          string
		noWriteCounts bool
		noROC         bool
	)

	cmd := &cobra.Command{
		Use:   "quantify [flags] <in.vcf>",
		Short: "Quantify an annotated comparison VCF into benchmarking reports",
		Long: `Quantify counts the annotated truth/query records of a comparison VCF,
stratifies them by region, and writes summary statistics, ranking curves
and a metrics document under the report prefix.`,
		Example: `  qfy quantify -o bench -f conf.bed annotated.vcf.gz
  qfy quantify -o bench --stratification strat.tsv --roc QQ --roc-delta 0.5 annotated.vcf.gz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.InputVCF = args[0]
			cfg.Mode = count.Mode(mode)
			cfg.WriteCounts = cfg.WriteCounts && !noWriteCounts
			cfg.ROCEnabled = cfg.ROCEnabled && !noROC
			cfg.Verbose = flagVerbose
			cfg.Runner = "qfy"
			cfg.Version = version

			applyConfigDefaults(cmd, &cfg)

			if req.Prefix == "" {
				return fmt.Errorf("a report prefix is required (use -o)")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			sum, err := quantify.Run(req, cfg, zap.L())
			if err != nil {
				return err
			}

			// In default mode, echo the headline numbers to stdout.
			if !flagQuiet && !flagVerbose {
				fmt.Println("Benchmarking Summary:")
				printSummary(os.Stdout, sum)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Prefix, "report-prefix", "o", "", "Filename prefix for report output")
	cmd.Flags().StringVarP(&req.Reference, "reference", "r", "", "Specify a reference file")
	cmd.Flags().StringVarP(&mode, "type", "t", string(cfg.Mode), "Annotation format in input VCF file (xcmp or ga4gh)")
	cmd.Flags().StringVarP(&req.ConfBED, "false-positives", "f", "", "False positive / confident call regions (.bed or .bed.gz)")
	cmd.Flags().StringVar(&req.StratTSV, "stratification", "", "Stratification file list (TSV format -- first column is region name, second column is file name)")
	cmd.Flags().BoolVar(&cfg.FixChr, "stratification-fixchr", false, "Add chr prefix to stratification files if necessary")
	cmd.Flags().BoolVarP(&cfg.WriteVCF, "write-vcf", "V", false, "Write an annotated VCF")
	cmd.Flags().BoolVarP(&cfg.WriteCounts, "write-counts", "X", true, "Write advanced counts and metrics")
	cmd.Flags().BoolVar(&noWriteCounts, "no-write-counts", false, "Do not write advanced counts and metrics")
	cmd.Flags().BoolVar(&cfg.OutputVTC, "output-vtc", false, "Write VTC field in the final VCF which gives the counts each position has contributed to")
	cmd.Flags().BoolVar(&cfg.PreserveInfo, "preserve-info", false, "Preserve and merge the INFO fields in truth and query")
	cmd.Flags().StringVar(&cfg.ROCFeature, "roc", cfg.ROCFeature, "Select a feature to produce a ROC on (INFO feature, QUAL, QQ, ...)")
	cmd.Flags().BoolVar(&noROC, "no-roc", false, "Disable ROC computation and only output summary statistics")
	cmd.Flags().StringVar(&cfg.ROCFilter, "roc-filter", "", "Select a filter to ignore when making ROCs")
	cmd.Flags().Float64Var(&cfg.ROCDelta, "roc-delta", cfg.ROCDelta, "Minimum spacing between ROC QQ levels")
	cmd.Flags().BoolVar(&cfg.StrictColumns, "strict-columns", false, "Fail when optional summary columns are missing from the counts")
	cmd.Flags().IntVar(&cfg.Threads, "threads", cfg.Threads, "Number of threads to use")

	return cmd
}

// applyConfigDefaults fills in viper-persisted defaults for flags the user
// did not set on the command line.
func applyConfigDefaults(cmd *cobra.Command, cfg *quantify.Config) {
	if !cmd.Flags().Changed("roc") && viper.IsSet("roc.feature") {
		cfg.ROCFeature = viper.GetString("roc.feature")
	}
	if !cmd.Flags().Changed("roc-delta") && viper.IsSet("roc.delta") {
		cfg.ROCDelta = viper.GetFloat64("roc.delta")
	}
	if !cmd.Flags().Changed("threads") && viper.IsSet("threads") {
		cfg.Threads = viper.GetInt("threads")
	}
}

// printSummary renders the SNP and INDEL headline rows as an aligned table.
func printSummary(out *os.File, sum *summary.Table) {
	tw := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(sum.Columns, "\t"))
	for i := range sum.Rows {
		r := &sum.Rows[i]
		if r.Type != "SNP" && r.Type != "INDEL" {
			continue
		}
		fmt.Fprintln(tw, strings.Join(report.Cells(sum.Columns, r), "\t"))
	}
	tw.Flush()
}
