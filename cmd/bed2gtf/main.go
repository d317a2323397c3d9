// Package main provides the bed2gtf command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/bed2gtf/internal/bed"
	"github.com/inodb/bed2gtf/internal/convert"
	"github.com/inodb/bed2gtf/internal/isoforms"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// fatalError marks an error raised by a command body, as opposed to a
// flag or argument error surfaced before the command ran.
type fatalError struct{ err error }

func (e fatalError) Error() string { return e.err.Error() }
func (e fatalError) Unwrap() error { return e.err }

func fatalOn(err error) error {
	if err != nil {
		return fatalError{err}
	}
	return nil
}

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		var fatal fatalError
		if errors.As(err, &fatal) {
			return ExitError
		}
		return ExitUsage
	}
	return ExitSuccess
}

type convertFlags struct {
	bedPath     string
	isoforms    string
	isoformsDB  string
	swap        bool
	output      string
	threads     int
	compress    bool
	noGene      bool
	biotype     string
	strict      bool
	source      string
	profileMode string
}

func newRootCmd() *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:     "bed2gtf",
		Short:   "Convert BED12 files to GTF",
		Version: fmt.Sprintf("%s (%s) built %s", version, commit, date),
		Long: `bed2gtf converts BED12 interval records into fully attributed GTF
feature lines: gene, transcript, exon, CDS, start_codon, stop_codon
and UTR, with stable gene identifiers resolved through an external
transcript-to-gene mapping.`,
		Example: `  bed2gtf -b input.bed -i isoforms.txt -o output.gtf
  bed2gtf -b input.bed.gz --isoforms-db mapping.duckdb -o output.gtf.gz --gz
  bed2gtf -b input.bed --no-gene -o output.gtf
  cat input.bed | bed2gtf -b - --no-gene -o -`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fatalOn(runConvert(&flags))
		},
	}

	cmd.Flags().StringVarP(&flags.bedPath, "bed", "b", "", "Path to BED file, '-' for stdin (required)")
	cmd.Flags().StringVarP(&flags.isoforms, "isoforms", "i", "", "Path to transcript-gene mapping file")
	cmd.Flags().StringVar(&flags.isoformsDB, "isoforms-db", "", "Path to DuckDB transcript-gene mapping database")
	cmd.Flags().BoolVar(&flags.swap, "swap", false, "Mapping columns are (transcript_id, gene_id) instead of (gene_id, transcript_id)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Path to output GTF file, '-' for stdout (required)")
	cmd.Flags().IntVarP(&flags.threads, "threads", "t", runtime.NumCPU(), "Number of worker threads")
	cmd.Flags().BoolVar(&flags.compress, "gz", false, "Compress output with gzip")
	cmd.Flags().BoolVar(&flags.noGene, "no-gene", false, "Disable gene assignment: no gene lines, no gene_id attributes")
	cmd.Flags().StringVar(&flags.biotype, "biotype", "protein_coding", "gene_biotype attribute for gene lines, '' to omit")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "Treat invalid thick regions as fatal instead of downgrading to exon-only output")
	cmd.Flags().StringVar(&flags.source, "source", "bed2gtf", "Value for the GTF source column")
	cmd.Flags().StringVar(&flags.profileMode, "profile", "", "Enable profiling: cpu or mem")

	cobra.CheckErr(cmd.MarkFlagRequired("bed"))
	cobra.CheckErr(cmd.MarkFlagRequired("output"))

	// Config file values fill in for flags that were not set.
	cobra.CheckErr(viper.BindPFlag("threads", cmd.Flags().Lookup("threads")))
	cobra.CheckErr(viper.BindPFlag("gz", cmd.Flags().Lookup("gz")))
	cobra.CheckErr(viper.BindPFlag("biotype", cmd.Flags().Lookup("biotype")))
	cobra.CheckErr(viper.BindPFlag("source", cmd.Flags().Lookup("source")))

	cobra.OnInitialize(initConfig)

	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig reads ~/.bed2gtf.yaml if present.
func initConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	viper.AddConfigPath(home)
	viper.SetConfigName(".bed2gtf")
	viper.SetConfigType("yaml")
	_ = viper.ReadInConfig()
}

func runConvert(flags *convertFlags) error {
	switch flags.profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q, expected cpu or mem", flags.profileMode)
	}

	logCfg := zap.NewDevelopmentConfig()
	logCfg.DisableStacktrace = true
	logger, err := logCfg.Build()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	var mapping isoforms.Map
	if !flags.noGene {
		switch {
		case flags.isoformsDB != "":
			mapping, err = isoforms.LoadDB(flags.isoformsDB)
		case flags.isoforms != "":
			mapping, err = isoforms.Load(flags.isoforms, flags.swap)
		default:
			return fmt.Errorf("either --isoforms or --isoforms-db is required unless --no-gene is set")
		}
		if err != nil {
			return fmt.Errorf("load isoforms: %w", err)
		}
		logger.Info("loaded isoform mapping", zap.Int("transcripts", len(mapping)))
	}

	parser, err := bed.NewParser(flags.bedPath)
	if err != nil {
		return err
	}
	defer parser.Close()

	conv := convert.New(convert.Options{
		Workers:   viper.GetInt("threads"),
		GeneLines: !flags.noGene,
		Strict:    flags.strict,
		Biotype:   viper.GetString("biotype"),
		Source:    viper.GetString("source"),
	}, mapping)
	conv.SetLogger(logger)

	features, err := conv.Run(parser)
	if err != nil {
		return err
	}

	out := os.Stdout
	if flags.output != "" && flags.output != "-" {
		out, err = os.Create(flags.output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer out.Close()
	}

	compress := viper.GetBool("gz") || strings.HasSuffix(flags.output, ".gz")
	writer := convert.NewWriter(out, compress)
	if err := writer.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := writer.WriteFeatures(features); err != nil {
		return err
	}
	return writer.Close()
}
