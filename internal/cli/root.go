package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quickwritereader/wideid/codec"
	"github.com/quickwritereader/wideid/config"
	"github.com/quickwritereader/wideid/ndarray"
	_ "github.com/quickwritereader/wideid/ndarray/wasmmem"
)

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	backend    string
	verbose    bool

	cfg      config.Config
	log      *zap.Logger
	provider *ndarray.Provider
	codec    *codec.Codec
}

// NewRoot constructs the root Cobra command. It registers the encode and
// decode commands.
func NewRoot() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "wideid",
		Short:         "Lossless 64-bit identifier conversion",
		Long:          "wideid moves 64-bit graph identifiers between host values, foreign numeric arrays and wire encodings without losing precision.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a JSON config file")
	root.PersistentFlags().StringVar(&a.backend, "backend", "", fmt.Sprintf("foreign runtime backend (%v)", ndarray.Backends()))
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newEncodeCommand(a))
	root.AddCommand(newDecodeCommand(a))
	root.AddCommand(newBackendsCommand())
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	config.FromEnv(&cfg)
	if a.backend != "" {
		cfg.Backend = a.backend
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	opts, err := cfg.CodecOptions()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg, a.verbose)
	if err != nil {
		return err
	}
	ndarray.SetLogger(log.Named("ndarray"))
	codec.SetLogger(log.Named("codec"))

	a.cfg = cfg
	a.log = log
	a.provider = cfg.Provider()
	a.codec = codec.New(a.provider, append(opts, codec.WithLogger(log.Named("codec")))...)
	log.Debug("configured",
		zap.String("backend", cfg.Backend),
		zap.Int("fileThreshold", cfg.FileThreshold),
		zap.String("byteOrder", cfg.ByteOrder))
	return nil
}

func newLogger(cfg config.Config, development bool) (*zap.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

func newBackendsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List registered foreign runtime backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range ndarray.Backends() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
