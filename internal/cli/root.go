package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Adda-Baaj/taskprobe/internal/app"
	"github.com/Adda-Baaj/taskprobe/internal/config"
	"github.com/Adda-Baaj/taskprobe/internal/logger"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

// sessionAnnotation marks commands that need config, logging and the ledger.
const sessionAnnotation = "session"

// session holds what the persistent pre-run builds for a single invocation.
type session struct {
	cfg   *config.Config
	log   logger.Logger
	probe *app.Probe

	baseURL        string
	identitySource string
	logLevel       string
}

func (s *session) open(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if s.baseURL != "" {
		cfg.BaseURL = s.baseURL
	}
	if s.identitySource != "" {
		cfg.IdentitySource = s.identitySource
	}
	if s.logLevel != "" {
		cfg.LogLevel = s.logLevel
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log.InfoObj("taskprobe starting", "command", cmd.CommandPath())

	probe, err := app.NewProbe(cfg, log)
	if err != nil {
		log.ErrorObj("failed to initialize probe", "error", err)
		return err
	}

	s.cfg, s.log, s.probe = cfg, log, probe
	return nil
}

func (s *session) close() {
	if s.log == nil {
		return
	}
	if s.probe != nil {
		_ = s.probe.Close()
	}
	_ = logger.Close()
}

// needsSession marks cmd so the root pre-run opens a session for it.
func needsSession(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[sessionAnnotation] = "true"
	return cmd
}

func newRootCmd(s *session) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskprobe",
		Short: "Functional test driver for the task management REST service",
		Long: `taskprobe calls the task service REST endpoints (registration, login,
tasks, companies, users, avatars), validates every response envelope and
prints the decoded JSON body. Registered accounts are kept in a local ledger
so later runs can log in with them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[sessionAnnotation] != "true" {
				return nil
			}
			return s.open(cmd)
		},
	}
	root.Version = Version
	root.SetVersionTemplate("taskprobe version {{.Version}}\n")

	root.PersistentFlags().StringVar(&s.baseURL, "base-url", "", "task service base url (overrides BASE_URL)")
	root.PersistentFlags().StringVar(&s.identitySource, "identity-source", "", "identity source: randomuser or local")
	root.PersistentFlags().StringVar(&s.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	for _, cmd := range []*cobra.Command{
		newRegisterCmd(s),
		newLoginCmd(s),
		newCreateTaskCmd(s),
		newCreateCompanyCmd(s),
		newCreateUserCmd(s),
		newAddAvatarCmd(s),
		newDeleteAvatarCmd(s),
		newSeedCmd(s),
		newAccountsCmd(s),
	} {
		root.AddCommand(needsSession(cmd))
	}
	return root
}

// Execute runs the CLI with args, writing command output to out.
func Execute(ctx context.Context, args []string, out io.Writer) error {
	s := &session{}
	defer s.close()

	root := newRootCmd(s)
	root.SetArgs(args)
	root.SetOut(out)
	return root.ExecuteContext(ctx)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
