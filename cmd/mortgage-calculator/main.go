package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/iwvelando/mortgage-calculator/internal/calculator"
	"github.com/iwvelando/mortgage-calculator/internal/config"
	"github.com/iwvelando/mortgage-calculator/internal/form"
	"github.com/iwvelando/mortgage-calculator/internal/logging"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/output"
	"github.com/iwvelando/mortgage-calculator/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	amount := flag.String("amount", "", "mortgage amount for a single calculation")
	term := flag.String("term", "", "mortgage term in whole years for a single calculation")
	rate := flag.String("rate", "", "annual interest rate as a percentage for a single calculation")
	repaymentType := flag.String("type", "", "mortgage type for a single calculation: repayment, interest only")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	single := *amount != "" || *term != "" || *rate != "" || *repaymentType != ""

	// A single calculation only needs the config file for logging and output
	// settings, so a missing file is not an error there.
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		if !single || !errors.Is(err, fs.ErrNotExist) {
			fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
			os.Exit(1)
		}
		conf = &config.Configuration{}
	}

	// Initialize logging based on config and CLI override
	logger, err := logging.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	var results []calculator.Result
	if single {
		results = calculateSingle(logger, form.Form{
			MortgageAmount: *amount,
			MortgageTerm:   *term,
			InterestRate:   *rate,
			MortgageType:   *repaymentType,
		})
	} else {
		// Validate configuration and display any warnings
		for _, warning := range conf.ValidateConfiguration() {
			logger.Warn("Configuration warning: "+warning,
				zap.String("op", "main"),
			)
		}

		results, err = calculator.GetResults(logger, *conf)
		if err != nil {
			logger.Fatal("failed to calculate scenarios",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}

	if err := output.Write(os.Stdout, outputFormat, results); err != nil {
		logger.Fatal("failed to write results",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

// calculateSingle validates the flag values the way the web form does and
// exits with every field error logged when any is invalid.
func calculateSingle(logger *zap.Logger, f form.Form) []calculator.Result {
	validated := f.Validate()
	if !validated.Valid() {
		fields := make([]string, 0, len(validated.Errors))
		for field := range validated.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			logger.Error("invalid input",
				zap.String("op", "main"),
				zap.String("field", field),
				zap.String("error", validated.Errors[field]),
			)
		}
		_ = logger.Sync()
		os.Exit(1)
	}

	result, err := calculator.Calculate("command line", validated.Amount, validated.TermYears, validated.InterestRate, validated.Type)
	if err != nil {
		logger.Fatal("failed to calculate repayments",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	return []calculator.Result{result}
}
