package cli

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/krampenschiesser/cryptochest/internal/codec"
	"github.com/krampenschiesser/cryptochest/internal/crypto"
	"github.com/krampenschiesser/cryptochest/internal/filestore"
	"github.com/krampenschiesser/cryptochest/internal/util"
	"github.com/spf13/cobra"
)

var (
	initFolder   string
	initName     string
	initAES      bool
	initGenerate bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new repository in a folder",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().StringVar(&initFolder, "folder", ".", "folder to create the repository in")
	initCmd.Flags().StringVar(&initName, "name", "", "repository display name")
	initCmd.Flags().BoolVar(&initAES, "aes", false, "use AES-256-GCM instead of ChaCha20-Poly1305")
	initCmd.Flags().BoolVar(&initGenerate, "generate", false, "generate a random password instead of prompting for one")
}

func runInit(cmd *cobra.Command, args []string) error {
	if initName == "" {
		return fmt.Errorf("--name is required")
	}

	password, err := passwordForInit()
	if err != nil {
		return err
	}
	pw := crypto.NewPlainPw([]byte(password))
	defer pw.Zero()

	salt, err := crypto.RandomBytes(16)
	if err != nil {
		return err
	}
	params := crypto.ScryptParams{Iterations: 15, MemoryCost: 8, Parallelism: 1}

	hashed, err := crypto.DeriveHashedPw(pw, params, crypto.KeySize)
	if err != nil {
		return fmt.Errorf("deriving key: %w", err)
	}
	defer hashed.Zero()
	verifier, err := crypto.DeriveDoubleHashedPw(hashed, params, crypto.KeySize)
	if err != nil {
		return fmt.Errorf("deriving verifier: %w", err)
	}

	encKind := codec.EncryptionChaCha20Poly1305
	if initAES {
		encKind = codec.EncryptionAES256GCM
	}

	id := uuid.New()
	repo := codec.Repository{
		Header: codec.RepoHeader{
			Main:             codec.MainHeader{Kind: codec.FileKindRepository, ID: id, Version: 0},
			EncryptionKind:   encKind,
			PasswordHashKind: codec.PasswordHashScrypt,
			Scrypt:           codec.ScryptParams{Iterations: params.Iterations, MemoryCost: params.MemoryCost, Parallelism: params.Parallelism},
			Salt:             salt,
		},
		Verifier: verifier.Bytes(),
		Name:     initName,
	}

	path := filepath.Join(initFolder, fmt.Sprintf("%s.repo", id.String()))
	if err := filestore.SaveRepository(path, repo); err != nil {
		return fmt.Errorf("saving repository: %w", err)
	}

	fmt.Printf("Created repository %s (%s) at %s\n", initName, id, path)
	return nil
}

// passwordForInit returns the password protecting a brand-new repository:
// either generated on the spot (--generate), printed once since it is
// never stored anywhere, or entered interactively with confirmation.
func passwordForInit() (string, error) {
	if !initGenerate {
		return readPassword(true)
	}
	password, err := util.GenPassword(util.PassgenOptions{Length: 24, Upper: true, Lower: true, Numbers: true, Symbols: true})
	if err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}
	fmt.Printf("Generated password (store it now, it will not be shown again): %s\n", password)
	return password, nil
}
