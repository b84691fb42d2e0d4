package main

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/logger"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yourorg/foldedsha256/circuits"
	"github.com/yourorg/foldedsha256/pkg/witness"
)

// contextKey is a custom type for context keys to avoid conflicts
type contextKey string

const startTimeKey contextKey = "start"

func main() {
	var (
		inputLenLog uint
		messageHex  string
		outDir      string
		nativeOnly  bool
		verbose     bool
	)

	rootCmd := &cobra.Command{
		Use:   "prover",
		Short: "Prove SHA-256 compression steps, one Groth16 proof per 64-byte block",
		Long: "Hashes 2^input-len-log zero bytes (or --message) by stepping the SHA-256\n" +
			"compression function once per padded block and proves every step.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			setupLogger(verbose)
			lg := logger.Logger().With().Str("cmd", "prover").Logger()

			if outDir == "" {
				_ = godotenv.Load()
				outDir = os.Getenv("FOLDED_SHA256_OUTDIR")
				if outDir == "" {
					outDir = "./"
				}
			}

			msg, err := inputMessage(inputLenLog, messageHex)
			if err != nil {
				return err
			}
			lg.Info().Int("inputLen", len(msg)).Msg("input")

			// -----------------------------------------------------------------
			// Native stepping and witness bundles
			// -----------------------------------------------------------------
			t := time.Now()
			bundles, manifest, err := witness.BuildAll(msg)
			if err != nil {
				return err
			}
			lg.Info().Int("steps", manifest.Steps).Dur("took", time.Since(t)).Msg("native steps")

			if nativeOnly {
				fmt.Printf("digest: %s\n", manifest.Digest.Hex())
				return nil
			}

			// -----------------------------------------------------------------
			// Circuit compile
			// -----------------------------------------------------------------
			t = time.Now()
			cs, err := frontend.Compile(
				circuits.Curve().ScalarField(),
				r1cs.NewBuilder,
				bundles[0].Blueprint,
			)
			if err != nil {
				return err
			}
			lg.Info().Int("constraints", cs.GetNbConstraints()).Dur("took", time.Since(t)).Msg("step circuit compiled")

			// -----------------------------------------------------------------
			// Trusted setup (cached)
			// -----------------------------------------------------------------
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			t = time.Now()
			pk, vk, err := loadOrSetup(cs, outDir)
			if err != nil {
				return err
			}
			lg.Info().Dur("took", time.Since(t)).Msg("setup")

			// -----------------------------------------------------------------
			// Prove, one step per block
			// -----------------------------------------------------------------
			t = time.Now()
			for _, b := range bundles {
				stepStart := time.Now()
				proof, err := groth16.Prove(cs, pk, b.Full)
				if err != nil {
					return fmt.Errorf("prove step %d: %w", b.Public.Step, err)
				}
				pub, err := b.Public.PublicWitness()
				if err != nil {
					return err
				}
				if err := groth16.Verify(proof, vk, pub); err != nil {
					return fmt.Errorf("step %d proof does not verify: %w", b.Public.Step, err)
				}

				var buf bytes.Buffer
				if _, err := proof.WriteTo(&buf); err != nil {
					return err
				}
				if err := os.WriteFile(witness.ProofPath(outDir, b.Public.Step), buf.Bytes(), 0o644); err != nil {
					return err
				}
				lg.Info().Int("step", b.Public.Step).Dur("took", time.Since(stepStart)).Msg("prove_step")
			}
			lg.Info().Dur("took", time.Since(t)).Msg("all steps proven")

			// -----------------------------------------------------------------
			// Outputs
			// -----------------------------------------------------------------
			if err := witness.Save(outDir, bundles, manifest); err != nil {
				return err
			}

			csBuf := new(bytes.Buffer)
			_, _ = cs.WriteTo(csBuf)
			sum := sha256.Sum256(csBuf.Bytes())
			fmt.Printf("circuit hash: %x\n", sum[:4])
			fmt.Printf("digest: %s\n", manifest.Digest.Hex())
			fmt.Printf("proof done in %s\n", time.Since(cmd.Context().Value(startTimeKey).(time.Time)))
			return nil
		},
	}

	rootCmd.Flags().UintVar(&inputLenLog, "input-len-log", 6, "Base 2 log of the zero-byte input length")
	rootCmd.Flags().StringVar(&messageHex, "message", "", "0x-prefixed hex message, overrides --input-len-log")
	rootCmd.Flags().StringVar(&outDir, "outdir", "", "Output directory (default $FOLDED_SHA256_OUTDIR or ./)")
	rootCmd.Flags().BoolVar(&nativeOnly, "native-only", false, "Only run the native steps and print the digest")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "Debug logging")

	rootCmd.SetContext(context.WithValue(context.Background(), startTimeKey, time.Now()))
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// maxInputLenLog bounds the generated zero-byte input to 1 GiB.
const maxInputLenLog = 30

// inputMessage returns the decoded --message, or 2^inputLenLog zero bytes.
func inputMessage(inputLenLog uint, messageHex string) ([]byte, error) {
	if messageHex != "" {
		msg, err := hexutil.Decode(messageHex)
		if err != nil {
			return nil, fmt.Errorf("--message: %w", err)
		}
		return msg, nil
	}
	if inputLenLog > maxInputLenLog {
		return nil, fmt.Errorf("--input-len-log %d exceeds %d", inputLenLog, maxInputLenLog)
	}
	return make([]byte, 1<<inputLenLog), nil
}

func loadOrSetup(cs constraint.ConstraintSystem, outDir string) (groth16.ProvingKey, groth16.VerifyingKey, error) {
	pkPath := filepath.Join(outDir, witness.ProvingKeyFile)
	vkPath := filepath.Join(outDir, witness.VerifyingKeyFile)

	pk := groth16.NewProvingKey(circuits.Curve())
	vk := groth16.NewVerifyingKey(circuits.Curve())

	if pkBytes, err := os.ReadFile(pkPath); err == nil {
		vkBytes, err := os.ReadFile(vkPath)
		if err != nil {
			return nil, nil, err
		}
		if _, err := pk.ReadFrom(bytes.NewReader(pkBytes)); err != nil {
			return nil, nil, fmt.Errorf("cached proving key: %w", err)
		}
		if _, err := vk.ReadFrom(bytes.NewReader(vkBytes)); err != nil {
			return nil, nil, fmt.Errorf("cached verifying key: %w", err)
		}
		return pk, vk, nil
	}

	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return nil, nil, err
	}
	var b bytes.Buffer
	if _, err := pk.WriteTo(&b); err != nil {
		return nil, nil, err
	}
	if err := os.WriteFile(pkPath, b.Bytes(), 0o644); err != nil {
		return nil, nil, err
	}
	b.Reset()
	if _, err := vk.WriteTo(&b); err != nil {
		return nil, nil, err
	}
	if err := os.WriteFile(vkPath, b.Bytes(), 0o644); err != nil {
		return nil, nil, err
	}
	return pk, vk, nil
}

func setupLogger(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	logger.Set(zerolog.New(out).Level(level).With().Timestamp().Logger())
}
