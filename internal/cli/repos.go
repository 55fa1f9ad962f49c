package cli

import (
	"fmt"

	"github.com/krampenschiesser/cryptochest/internal/actor"
	"github.com/spf13/cobra"
)

var reposFolder string

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "List repositories found in a folder",
	RunE:  runRepos,
}

func init() {
	reposCmd.Flags().StringVar(&reposFolder, "folder", ".", "folder to scan for repositories")
}

func runRepos(cmd *cobra.Command, args []string) error {
	control, err := actor.Start([]string{reposFolder})
	if err != nil {
		return fmt.Errorf("starting engine: %w", err)
	}
	defer control.Stop()

	resp, err := control.Send(actor.ListRepositories{})
	if err != nil {
		return fmt.Errorf("engine stopped: %w", err)
	}
	repos := resp.(actor.Repositories)
	if len(repos.Repositories) == 0 {
		fmt.Println("No repositories found.")
		return nil
	}
	for _, r := range repos.Repositories {
		fmt.Printf("%s  %s  %s\n", r.ID, r.Name, r.Path)
	}
	return nil
}
