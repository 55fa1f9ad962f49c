package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/krampenschiesser/cryptochest/internal/actor"
)

// withOpenRepository starts an actor over folder, opens repositoryID with
// a password from readPassword (prompted, or read from stdin under
// --password-stdin), runs fn against the resulting
// token, and always closes the repository and stops the actor
// afterwards — even if fn returns an error.
func withOpenRepository(folder string, repositoryID uuid.UUID, fn func(control *actor.Control, token uuid.UUID) error) error {
	control, err := actor.Start([]string{folder})
	if err != nil {
		return fmt.Errorf("starting engine: %w", err)
	}
	defer control.Stop()

	password, err := readPassword(false)
	if err != nil {
		return err
	}

	resp, err := control.Send(actor.OpenRepository{RepositoryID: repositoryID, Password: []byte(password)})
	if err != nil {
		return fmt.Errorf("engine stopped: %w", err)
	}
	opened, ok := resp.(actor.RepositoryOpened)
	if !ok {
		return fmt.Errorf("could not open repository: wrong password or unknown repository")
	}
	defer control.Send(actor.CloseRepository{RepositoryID: repositoryID, Token: opened.Token})

	return fn(control, opened.Token)
}
