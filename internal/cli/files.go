package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/krampenschiesser/cryptochest/internal/actor"
	"github.com/spf13/cobra"
)

var (
	filesFolder string
	filesRepo   string
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the files inside an opened repository",
	RunE:  runFiles,
}

func init() {
	filesCmd.Flags().StringVar(&filesFolder, "folder", ".", "folder the repository lives in")
	filesCmd.Flags().StringVar(&filesRepo, "repo", "", "repository UUID")
	filesCmd.MarkFlagRequired("repo")
}

func runFiles(cmd *cobra.Command, args []string) error {
	repoID, err := uuid.Parse(filesRepo)
	if err != nil {
		return fmt.Errorf("invalid --repo: %w", err)
	}

	return withOpenRepository(filesFolder, repoID, func(control *actor.Control, token uuid.UUID) error {
		resp, err := control.Send(actor.ListFiles{RepositoryID: repoID, Token: token})
		if err != nil {
			return fmt.Errorf("engine stopped: %w", err)
		}
		files, ok := resp.(actor.Files)
		if !ok {
			return fmt.Errorf("unexpected response listing files")
		}
		if len(files.Files) == 0 {
			fmt.Println("No files.")
			return nil
		}
		for _, f := range files.Files {
			fmt.Printf("%s  v%d  %s\n", f.ID, f.Version, f.Header)
		}
		return nil
	})
}
