package cmds

import (
	"context"
	stderrors "errors"
	"net/url"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/go-go-golems/remotehand/pkg/action"
	"github.com/go-go-golems/remotehand/pkg/config"
	"github.com/go-go-golems/remotehand/pkg/journal"
	"github.com/go-go-golems/remotehand/pkg/session"
	"github.com/go-go-golems/remotehand/pkg/tui"
)

const (
	// DefaultServerURL is the well-known relay; /session is appended
	// before dialing.
	DefaultServerURL = "wss://serverwitch.dev"
	DefaultLogFile   = "remotehand.log"

	// mailboxSize bounds the lifecycle notification queue between the
	// session engine and the view.
	mailboxSize = 100
)

type options struct {
	url        string
	outputFile string
	transcript string
	noConfirm  bool
}

func NewRootCmd(version string) *cobra.Command {
	var (
		rawURL     string
		outputFile string
		transcript string
		noConfirm  bool
		configPath string
	)

	cmd := &cobra.Command{
		Use:     "remotehand",
		Short:   "Let a remote controller drive this machine through a relay",
		Version: version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = config.DefaultPath()
			}
			cfg, err := config.LoadOptional(configPath)
			if err != nil {
				return err
			}

			// Flags win over the config file.
			if !cmd.Flags().Changed("url") && cfg.URL != "" {
				rawURL = cfg.URL
			}
			if !cmd.Flags().Changed("output-file") && cfg.LogFile != "" {
				outputFile = cfg.LogFile
			}
			if !cmd.Flags().Changed("transcript") && cfg.Transcript != "" {
				transcript = cfg.Transcript
			}
			if !cmd.Flags().Changed("yes") && cfg.NoConfirm {
				noConfirm = true
			}
			if transcript == "" {
				transcript = outputFile + ".jsonl"
			}

			return run(cmd, options{
				url:        rawURL,
				outputFile: outputFile,
				transcript: transcript,
				noConfirm:  noConfirm,
			})
		},
	}

	cmd.Flags().StringVarP(&rawURL, "url", "u", DefaultServerURL, "URL of the relay server")
	cmd.Flags().StringVarP(&outputFile, "output-file", "o", DefaultLogFile, "Path to write logs")
	cmd.Flags().StringVar(&transcript, "transcript", "", "Path to the JSONL session transcript (default <output-file>.jsonl)")
	cmd.Flags().BoolVar(&noConfirm, "yes", false, "DANGEROUS: execute all actions without confirmation")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to the config file (default ~/.remotehand.yaml)")

	return cmd
}

// sessionURL appends the /session endpoint to the relay base URL.
func sessionURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrap(err, "parse relay url")
	}
	return u.JoinPath("session").String(), nil
}

func run(cmd *cobra.Command, opts options) error {
	// The terminal belongs to the view; logs go to a file.
	logFile, err := os.OpenFile(opts.outputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrap(err, "open log file")
	}
	defer func() { _ = logFile.Close() }()
	log.Logger = zerolog.New(logFile).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	sessionURL, err := sessionURL(opts.url)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	bus, err := journal.NewBus()
	if err != nil {
		return err
	}
	recorder, err := journal.OpenRecorder(opts.transcript)
	if err != nil {
		return err
	}
	defer func() { _ = recorder.Close() }()
	recorder.Register(bus)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		err := bus.Run(egCtx)
		if stderrors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	// Events published before the router consumes would be dropped.
	select {
	case <-bus.Router.Running():
	case <-egCtx.Done():
		return eg.Wait()
	}
	jour := journal.New(bus.Publisher)

	sess, err := session.Dial(egCtx, sessionURL, session.Options{
		Runner:  action.NewLocal(),
		Journal: jour,
	})
	if err != nil {
		cancel()
		_ = eg.Wait()
		return err
	}
	log.Info().Str("session_id", sess.ID).Msg("session started")
	jour.SessionStarted(sess.ID)

	mailbox := make(chan action.Notification, mailboxSize)
	mailbox <- action.NewSession{SessionID: sess.ID}

	program := tea.NewProgram(tui.NewModel(),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	go tui.Forward(egCtx, mailbox, program)

	// Whichever of the two tasks ends first takes the program down; the
	// other is abandoned, not drained.
	eg.Go(func() error {
		err := sess.ProcessMessages(egCtx, opts.noConfirm, mailbox)
		log.Info().Msg("session closed")
		program.Quit()
		cancel()
		if stderrors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	eg.Go(func() error {
		final, err := program.Run()
		log.Info().Msg("application closed")
		cancel()
		if err != nil {
			if stderrors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if m, ok := final.(tui.Model); ok && m.Err() != nil {
			return m.Err()
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return errors.Wrap(err, "remotehand")
	}
	return nil
}
