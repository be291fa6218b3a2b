package cmd

import (
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/tethrai/tethr-go/internal/api"
	"github.com/tethrai/tethr-go/internal/chat"
	"github.com/tethrai/tethr-go/internal/clipboard"
	"github.com/tethrai/tethr-go/internal/config"
	"github.com/tethrai/tethr-go/internal/models"
	"github.com/tethrai/tethr-go/internal/workspace"
)

var (
	cfgFile     string
	baseURL     string
	workspaceID int
	modelID     string
	debug       bool
)

// app bundles the wired client for command handlers.
type app struct {
	cfg        *config.Config
	logger     *log.Logger
	controller *chat.Controller
	sessions   *chat.SessionStore
	catalog    *models.Catalog
	workspaces *workspace.Store
}

var rootCmd = &cobra.Command{
	Use:   "tethr",
	Short: "Command-line client for the Tethr chat service",
	Long: `tethr keeps a local view of your chat conversations in sync with the
Tethr service: send messages, browse history, pick models and switch
workspace scope.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		log.Error("command failed", "error", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/tethr/tethr.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "chat service base URL")
	rootCmd.PersistentFlags().IntVar(&workspaceID, "workspace", 0, "workspace ID to scope calls to")
	rootCmd.PersistentFlags().StringVar(&modelID, "model", "", "model ID to send with")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// newApp loads config and wires the stores, catalog and controller together.
func newApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if workspaceID != 0 {
		cfg.Workspace = workspaceID
	}
	if modelID != "" {
		cfg.DefaultModel = modelID
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "tethr"})
	if debug || cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	var opts []api.Option
	if cfg.RequestTimeout > 0 {
		opts = append(opts, api.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}))
	}
	if cfg.SendRate > 0 {
		opts = append(opts, api.WithSendLimiter(rate.NewLimiter(rate.Limit(cfg.SendRate), 1)))
	}
	client := api.NewClient(cfg.BaseURL, opts...)

	sessions := chat.NewSessionStore()
	catalog := models.NewCatalog(client, logger)
	catalog.Select(cfg.DefaultModel)
	workspaces := workspace.NewStore(client, logger)
	controller := chat.NewController(sessions, client, workspaces, catalog, clipboard.System{}, logger)

	return &app{
		cfg:        cfg,
		logger:     logger,
		controller: controller,
		sessions:   sessions,
		catalog:    catalog,
		workspaces: workspaces,
	}, nil
}

// selectScope applies the configured workspace before scoped calls.
func (a *app) selectScope(cmd *cobra.Command) {
	if a.cfg.Workspace == 0 {
		return
	}
	a.workspaces.Refresh(cmd.Context())
	if !a.workspaces.SelectID(a.cfg.Workspace) {
		a.logger.Warn("workspace not found, staying unscoped", "workspace", a.cfg.Workspace)
	}
}
