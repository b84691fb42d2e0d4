package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/logger"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yourorg/foldedsha256/circuits"
	"github.com/yourorg/foldedsha256/pkg/witness"
)

func main() {
	var (
		dir, vkPath string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "verifier",
		Short: "Verify every step proof and the chaining of states to the digest",
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(verbose)
			lg := logger.Logger().With().Str("cmd", "verifier").Logger()

			if dir == "" {
				_ = godotenv.Load()
				dir = os.Getenv("FOLDED_SHA256_OUTDIR")
				if dir == "" {
					dir = "./"
				}
			}
			if vkPath == "" {
				vkPath = filepath.Join(dir, witness.VerifyingKeyFile)
			}

			manifest, pubs, err := witness.Load(dir)
			if err != nil {
				return err
			}
			if err := witness.CheckChain(pubs, manifest); err != nil {
				return err
			}

			vBytes, err := os.ReadFile(vkPath)
			if err != nil {
				return err
			}
			vk := groth16.NewVerifyingKey(circuits.Curve())
			if _, err := vk.ReadFrom(bytes.NewReader(vBytes)); err != nil {
				return fmt.Errorf("verifying key: %w", err)
			}

			for _, pub := range pubs {
				pBytes, err := os.ReadFile(witness.ProofPath(dir, pub.Step))
				if err != nil {
					return err
				}
				proof := groth16.NewProof(circuits.Curve())
				if _, err := proof.ReadFrom(bytes.NewReader(pBytes)); err != nil {
					return fmt.Errorf("step %d proof: %w", pub.Step, err)
				}
				pubWit, err := pub.PublicWitness()
				if err != nil {
					return err
				}
				if err := groth16.Verify(proof, vk, pubWit); err != nil {
					return fmt.Errorf("step %d verification failed: %w", pub.Step, err)
				}
				lg.Debug().Int("step", pub.Step).Msg("step verified")
			}

			fmt.Printf("digest: %s\n", manifest.Digest.Hex())
			fmt.Println("proof verified ✅")
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory written by the prover (default $FOLDED_SHA256_OUTDIR or ./)")
	cmd.Flags().StringVar(&vkPath, "vk", "", "Verifying key (default <dir>/step_vk.bin)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Debug logging")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	logger.Set(zerolog.New(out).Level(level).With().Timestamp().Logger())
}
