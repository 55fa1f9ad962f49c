package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/krampenschiesser/cryptochest/internal/actor"
	"github.com/spf13/cobra"
)

var (
	putFolder string
	putRepo   string
	putHeader string
	putPath   string
)

var putCmd = &cobra.Command{
	Use:   "put",
	Short: "Create a new encrypted file in an opened repository",
	RunE:  runPut,
}

func init() {
	putCmd.Flags().StringVar(&putFolder, "folder", ".", "folder the repository lives in")
	putCmd.Flags().StringVar(&putRepo, "repo", "", "repository UUID")
	putCmd.Flags().StringVar(&putHeader, "header", "", "plaintext header describing the file")
	putCmd.Flags().StringVar(&putPath, "content-file", "", "path to the file whose contents should be stored")
	putCmd.MarkFlagRequired("repo")
	putCmd.MarkFlagRequired("header")
	putCmd.MarkFlagRequired("content-file")
}

func runPut(cmd *cobra.Command, args []string) error {
	repoID, err := uuid.Parse(putRepo)
	if err != nil {
		return fmt.Errorf("invalid --repo: %w", err)
	}
	content, err := os.ReadFile(putPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", putPath, err)
	}

	return withOpenRepository(putFolder, repoID, func(control *actor.Control, token uuid.UUID) error {
		resp, err := control.Send(actor.CreateFile{RepositoryID: repoID, Token: token, Header: putHeader, Content: content})
		if err != nil {
			return fmt.Errorf("engine stopped: %w", err)
		}
		created, ok := resp.(actor.FileCreated)
		if !ok {
			return fmt.Errorf("could not create file: %#v", resp)
		}
		fmt.Printf("Created file %s (version %d)\n", created.Descriptor.ID, created.Descriptor.Version)
		return nil
	})
}
