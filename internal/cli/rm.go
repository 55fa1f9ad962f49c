package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/krampenschiesser/cryptochest/internal/actor"
	"github.com/krampenschiesser/cryptochest/internal/repostate"
	"github.com/spf13/cobra"
)

var (
	rmFolder string
	rmRepo   string
	rmFile   string
)

var rmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Delete a file from an opened repository",
	RunE:  runRm,
}

func init() {
	rmCmd.Flags().StringVar(&rmFolder, "folder", ".", "folder the repository lives in")
	rmCmd.Flags().StringVar(&rmRepo, "repo", "", "repository UUID")
	rmCmd.Flags().StringVar(&rmFile, "file", "", "file UUID to delete")
	rmCmd.MarkFlagRequired("repo")
	rmCmd.MarkFlagRequired("file")
}

func runRm(cmd *cobra.Command, args []string) error {
	repoID, err := uuid.Parse(rmRepo)
	if err != nil {
		return fmt.Errorf("invalid --repo: %w", err)
	}
	fileID, err := uuid.Parse(rmFile)
	if err != nil {
		return fmt.Errorf("invalid --file: %w", err)
	}

	return withOpenRepository(rmFolder, repoID, func(control *actor.Control, token uuid.UUID) error {
		descriptor := repostate.FileDescriptor{ID: fileID, RepositoryID: repoID}
		resp, err := control.Send(actor.DeleteFile{Token: token, Descriptor: descriptor})
		if err != nil {
			return fmt.Errorf("engine stopped: %w", err)
		}
		if _, ok := resp.(actor.FileDeleted); !ok {
			return fmt.Errorf("could not delete file: %#v", resp)
		}
		fmt.Printf("Deleted file %s\n", fileID)
		return nil
	})
}
