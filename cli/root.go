package cli

import (
	"io"
	"os"

	"library-tracker/config"
	"library-tracker/library"
	"library-tracker/logger"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// app carries what every command needs once flags are parsed.
type app struct {
	cfg config.Config
	log *zap.Logger
	mgr *library.LibraryManager
}

// Execute runs the command line in args against the library described by
// cfg and closes the store afterwards.
func Execute(cfg config.Config, args []string, in io.Reader, out io.Writer) error {
	a := &app{cfg: cfg}
	root := newRootCommand(a)
	if args == nil {
		// cobra falls back to os.Args on nil.
		args = []string{}
	}
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)

	err := root.Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

// newRootCommand builds the library-tracker command tree. Without a
// subcommand it starts the interactive menu.
func newRootCommand(a *app) *cobra.Command {
	cfg := a.cfg
	var logLevel string

	root := &cobra.Command{
		Use:           "library-tracker",
		Short:         "Track books, users and loans in a single state file",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel != "" {
				if err := a.cfg.Log.Level.UnmarshalText([]byte(logLevel)); err != nil {
					return errors.Wrap(err, "parse --log-level")
				}
			}
			return a.open()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			interactive := false
			if f, ok := in.(*os.File); ok {
				interactive = term.IsTerminal(int(f.Fd()))
			}
			NewShell(in, cmd.OutOrStdout(), a.mgr, a.log).WithBanner(interactive).Run()
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfg.Storage.DataFile, "data", cfg.Storage.DataFile, "path of the state file")
	flags.StringVar(&a.cfg.Storage.Backend, "backend", cfg.Storage.Backend, "storage backend: file or sqlite")
	flags.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newBookCommand(a),
		newUserCommand(a),
		newBorrowCommand(a),
		newReturnCommand(a),
		newImportCommand(a),
	)
	return root
}

func (a *app) open() error {
	a.log = logger.NewLogger(a.cfg.Log, "library-tracker")

	store, err := library.OpenStore(a.cfg.Storage.Backend, a.cfg.Storage.DataFile)
	if err != nil {
		return err
	}
	mgr, err := library.NewLibraryManager(store, a.log, library.WithLoanPeriod(a.cfg.LoanPeriod()))
	if err != nil {
		store.Close()
		return err
	}
	a.mgr = mgr
	a.log.Debug("library opened",
		zap.String("backend", a.cfg.Storage.Backend),
		zap.String("path", a.cfg.Storage.DataFile))
	return nil
}

func (a *app) close() error {
	if a.mgr == nil {
		return nil
	}
	err := a.mgr.Close()
	a.mgr = nil
	_ = a.log.Sync()
	return err
}
