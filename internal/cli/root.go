package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version is set by main.go.
var Version = "dev"

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "cryptochest",
	Short: "Encrypted file repository engine",
	Long: `cryptochest manages local-disk, password-protected, versioned file
repositories: it scans a set of folders for repository and file blobs,
opens a repository against a password, and lets you list, create,
update and delete the files inside it. Every write is authenticated
(ChaCha20-Poly1305 or AES-256-GCM) and published atomically.`,
	Version: Version,
}

// Execute runs the CLI, installing a SIGINT/SIGTERM handler so a
// long-running scan or watch can be interrupted cleanly.
func Execute(version string) error {
	Version = version
	rootCmd.Version = version

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sigChan:
			os.Exit(1)
		case <-done:
		}
	}()

	return rootCmd.Execute()
}

// passwordStdin, when set via --password-stdin, makes every subcommand
// that needs a password read one line from stdin instead of prompting
// interactively — for scripted use where stdin is piped.
var passwordStdin bool

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin instead of prompting")
	rootCmd.AddCommand(initCmd, reposCmd, filesCmd, putCmd, rmCmd)
}

// readPassword returns a password either piped via --password-stdin or
// prompted interactively, confirming twice when confirm is true.
func readPassword(confirm bool) (string, error) {
	if passwordStdin {
		return ReadPasswordFromStdin()
	}
	return ReadPasswordInteractive(confirm)
}
