package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-mongoapi/pkg/database"
	"github.com/huynhanx03/go-mongoapi/pkg/database/mongodb"
	"github.com/huynhanx03/go-mongoapi/pkg/logger"
	"github.com/huynhanx03/go-mongoapi/pkg/mongoapi"
	"github.com/huynhanx03/go-mongoapi/pkg/models"
	"github.com/huynhanx03/go-mongoapi/pkg/settings"
)

// Store is the document store the commands run against
type Store interface {
	database.DocumentStore[mongodb.Model, mongodb.FindOption]
	Registry() *mongodb.Registry
}

// StoreFactory opens a Store for cfg. The returned func releases it.
type StoreFactory func(ctx context.Context, cfg *settings.Config, log *zap.Logger) (Store, func(), error)

type globalFlags struct {
	configPath string
	uri        string
	database   string
	typeName   string
}

type app struct {
	flags    globalFlags
	cfg      *settings.Config
	log      *zap.Logger
	newStore StoreFactory
}

// RootCommand creates the mongoapi command tree. A nil factory connects
// to the configured MongoDB server.
func RootCommand(factory StoreFactory) *cobra.Command {
	a := &app{
		log:      zap.NewNop(),
		newStore: factory,
	}
	if a.newStore == nil {
		a.newStore = OpenStore
	}

	rootCmd := &cobra.Command{
		Use:          "mongoapi",
		Short:        "JSON driven CRUD over MongoDB collections",
		Long:         "Insert, select, update and delete documents whose collection is named after their model type.",
		SilenceUsage: true,
	}

	setupFlags(rootCmd, &a.flags)

	rootCmd.AddCommand(
		insertCommand(a),
		insertManyCommand(a),
		selectCommand(a),
		updateCommand(a),
		updateManyCommand(a),
		deleteCommand(a),
		deleteManyCommand(a),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.initialize()
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		_ = a.log.Sync()
	}

	return rootCmd
}

func setupFlags(rootCmd *cobra.Command, flags *globalFlags) {
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to the config file (default ./config.yaml or ./configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.uri, "uri", "", "MongoDB connection string, overrides mongodb.uri")
	rootCmd.PersistentFlags().StringVar(&flags.database, "database", "", "Database name, overrides mongodb.database")
	rootCmd.PersistentFlags().StringVarP(&flags.typeName, "type", "t", models.ExampleType, "Model type, which is also the collection name")
}

// initialize loads the configuration and logger once flags are parsed
func (a *app) initialize() error {
	cfg, err := settings.Load(a.flags.configPath)
	if err != nil {
		return err
	}
	if a.flags.uri != "" {
		cfg.MongoDB.URI = a.flags.uri
	}
	if a.flags.database != "" {
		cfg.MongoDB.Database = a.flags.database
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}

	a.cfg = cfg
	a.log = log
	return nil
}

// withStore opens a store for the duration of fn
func (a *app) withStore(cmd *cobra.Command, fn func(ctx context.Context, s Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, release, err := a.newStore(ctx, a.cfg, a.log)
	if err != nil {
		return err
	}
	defer release()

	return fn(ctx, store)
}

// print writes v as indented JSON to the command's output
func (a *app) print(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

// OpenStore connects a mongoapi.API with the bundled models registered
func OpenStore(ctx context.Context, cfg *settings.Config, log *zap.Logger) (Store, func(), error) {
	api := mongoapi.New(mongoapi.WithLogger(log))
	if err := api.RegisterDefaultModels(); err != nil {
		return nil, nil, err
	}
	if err := api.ConnectWithConfig(ctx, &cfg.MongoDB); err != nil {
		return nil, nil, err
	}

	release := func() {
		_ = api.Disconnect(context.Background())
	}
	return api, release, nil
}
