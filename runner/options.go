package runner

import (
	"fmt"
	"os"
	"strconv"

	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/formatter"
	"github.com/projectdiscovery/gologger/levels"
	fileutilz "github.com/projectdiscovery/utils/file"

	"github.com/projectdiscovery/sentix/common/fileutil"
	"github.com/projectdiscovery/sentix/common/sentiment"
	"github.com/projectdiscovery/sentix/internal/config"
)

// OnResultCallback is invoked for every one-shot prediction
type OnResultCallback func(sentiment.Prediction)

// Options contains configuration options for sentix.
type Options struct {
	ConfigFile  string
	Dataset     string
	TextColumn  string
	LabelColumn string
	// Seed is nil unless a split seed was given
	Seed        *int64
	MaxFeatures int
	Stem        bool
	Evaluate    bool
	Threads     int
	Listen      string
	CacheSize   int
	Review      string
	ReviewList  string
	Silent      bool
	Verbose     bool
	Debug       bool
	NoColor     bool
	Version     bool
	// Stdin classifies one review per line read from piped input
	Stdin bool
	// OnResult replaces the default stdout output in one-shot mode
	OnResult OnResultCallback
}

// ParseOptions parses the command line options for application
func ParseOptions() *Options {
	options := &Options{}
	var seed string

	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`sentix is a movie review sentiment classifier served over a single web form.`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringVarP(&options.Dataset, "dataset", "d", "", "labeled CSV corpus used for training (default embedded sample corpus)"),
		flagSet.StringVar(&options.TextColumn, "text-column", "", "corpus column holding the review text (default review)"),
		flagSet.StringVar(&options.LabelColumn, "label-column", "", "corpus column holding the label (default sentiment)"),
		flagSet.StringVarP(&options.Review, "review", "r", "", "classify a single review and exit"),
		flagSet.StringVarP(&options.ReviewList, "list", "l", "", "classify every line of a file and exit"),
		flagSet.BoolVar(&options.Stdin, "stdin", false, "classify every line piped on stdin and exit"),
	)

	flagSet.CreateGroup("model", "Model",
		flagSet.IntVar(&options.MaxFeatures, "max-features", 0, "vocabulary size cap (default 5000)"),
		flagSet.StringVar(&seed, "seed", "", "train/test split seed (default 42)"),
		flagSet.BoolVar(&options.Stem, "stem", false, "stem tokens with the snowball english stemmer"),
		flagSet.BoolVarP(&options.Evaluate, "evaluate", "e", false, "report metrics on the held-out split after training"),
		flagSet.IntVarP(&options.Threads, "threads", "t", 0, "workers normalizing the training corpus (default 10)"),
	)

	flagSet.CreateGroup("server", "Server",
		flagSet.StringVar(&options.Listen, "listen", "", "address to serve the form on (default 127.0.0.1:5000)"),
		flagSet.IntVar(&options.CacheSize, "cache-size", 0, "number of predictions to memoize (0 disables)"),
	)

	flagSet.CreateGroup("config", "Configuration",
		flagSet.StringVar(&options.ConfigFile, "config", "", "path to the sentix yaml configuration file"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.BoolVar(&options.Silent, "silent", false, "silent mode"),
		flagSet.BoolVarP(&options.Verbose, "verbose", "v", false, "verbose mode"),
		flagSet.BoolVar(&options.Debug, "debug", false, "debug mode"),
		flagSet.BoolVarP(&options.NoColor, "no-color", "nc", false, "disable colors in cli output"),
		flagSet.BoolVar(&options.Version, "version", false, "display sentix version"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("Could not parse flags: %s\n", err)
	}

	// Read the inputs and configure the logging
	options.configureOutput()

	if !options.Silent {
		showBanner()
	}

	if options.Version {
		gologger.Info().Msgf("Current Version: %s\n", Version)
		os.Exit(0)
	}

	if seed != "" {
		value, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			gologger.Fatal().Msgf("invalid value for seed option: %s\n", seed)
		}
		options.Seed = &value
	}

	if err := options.ValidateOptions(); err != nil {
		gologger.Fatal().Msgf("%s\n", err)
	}

	return options
}

// ValidateOptions checks the referenced files exist and numeric knobs are sane
func (options *Options) ValidateOptions() error {
	if options.ConfigFile != "" && !fileutilz.FileExists(options.ConfigFile) {
		return fmt.Errorf("file %s does not exist", options.ConfigFile)
	}
	if options.Dataset != "" && !fileutilz.FileExists(options.Dataset) {
		return fmt.Errorf("file %s does not exist", options.Dataset)
	}
	if options.ReviewList != "" && !fileutilz.FileExists(options.ReviewList) {
		return fmt.Errorf("file %s does not exist", options.ReviewList)
	}
	if options.Stdin && !fileutil.HasStdin() {
		return fmt.Errorf("stdin option requires piped input")
	}
	if options.MaxFeatures < 0 {
		return fmt.Errorf("invalid value for max features option: %d", options.MaxFeatures)
	}
	if options.Threads < 0 {
		return fmt.Errorf("invalid value for threads option: %d", options.Threads)
	}
	if options.CacheSize < 0 {
		return fmt.Errorf("invalid value for cache size option: %d", options.CacheSize)
	}
	return nil
}

// ToConfig layers the explicitly set flags over the config file (or defaults)
func (options *Options) ToConfig() (*config.Config, error) {
	cfg := config.Default()
	if options.ConfigFile != "" {
		var err error
		if cfg, err = config.LoadConfigFromFile(options.ConfigFile); err != nil {
			return nil, err
		}
	}

	if options.Dataset != "" {
		cfg.Dataset.Path = options.Dataset
	}
	if options.TextColumn != "" {
		cfg.Dataset.TextColumn = options.TextColumn
	}
	if options.LabelColumn != "" {
		cfg.Dataset.LabelColumn = options.LabelColumn
	}
	if options.Seed != nil {
		cfg.Dataset.Seed = *options.Seed
	}
	if options.MaxFeatures != 0 {
		cfg.Model.MaxFeatures = options.MaxFeatures
	}
	if options.Threads != 0 {
		cfg.Model.Threads = options.Threads
	}
	cfg.Model.Stem = cfg.Model.Stem || options.Stem
	cfg.Model.Evaluate = cfg.Model.Evaluate || options.Evaluate
	if options.Listen != "" {
		cfg.Server.Listen = options.Listen
	}
	if options.CacheSize != 0 {
		cfg.Server.CacheSize = options.CacheSize
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// configureOutput configures the output on the screen
func (options *Options) configureOutput() {
	// If the user desires verbose output, show verbose output
	if options.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	if options.Debug {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelDebug)
	}
	if options.NoColor {
		gologger.DefaultLogger.SetFormatter(formatter.NewCLI(true))
	}
	if options.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	}
}
