// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/idshield/verification/cmd/app/commands"
	"github.com/idshield/verification/internal/app"
	"github.com/idshield/verification/internal/config"
	cryptoDomain "github.com/idshield/verification/internal/crypto/domain"
	cryptoService "github.com/idshield/verification/internal/crypto/service"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Identity verification service",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					defer func() { _ = container.Shutdown(ctx) }()

					return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
				},
			},
			{
				Name:  "create-keypair",
				Usage: "Generate an RSA key pair for envelope key wrapping",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "bits",
						Aliases: []string{"b"},
						Value:   cryptoDomain.MinRSAKeyBits,
						Usage:   "RSA modulus size in bits (minimum 2048)",
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Value:   "",
						Usage:   "Write the private key to this file instead of stdout",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateKeypair(
						commands.DefaultIO().Writer,
						int(cmd.Int("bits")),
						cmd.String("out"),
					)
				},
			},
			{
				Name:  "create-storage-key",
				Usage: "Generate the key for column encryption at rest",
				Flags: kmsFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateStorageKey(
						ctx,
						cryptoService.NewKMSService(),
						commands.DefaultIO().Writer,
						cmd.String("kms-provider"),
						cmd.String("kms-key-uri"),
					)
				},
			},
			{
				Name:  "create-index-secret",
				Usage: "Generate the secret for blind index token derivation",
				Flags: kmsFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateIndexSecret(
						ctx,
						cryptoService.NewKMSService(),
						commands.DefaultIO().Writer,
						cmd.String("kms-provider"),
						cmd.String("kms-key-uri"),
					)
				},
			},
			{
				Name:  "seal",
				Usage: "Seal a payload into an ingress request body (client-side utility)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "public-key",
						Aliases:  []string{"k"},
						Required: true,
						Usage:    "Path to the service's PEM-encoded RSA public key",
					},
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Value:   "",
						Usage:   "Path to the payload JSON (reads stdin when omitted)",
					},
					&cli.StringFlag{
						Name:    "algorithm",
						Aliases: []string{"alg"},
						Value:   "aes-gcm",
						Usage:   "Encryption algorithm to use (aes-gcm or chacha20-poly1305)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunSeal(
						commands.DefaultIO(),
						cmd.String("public-key"),
						cmd.String("file"),
						cmd.String("algorithm"),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

// kmsFlags returns the shared KMS flags for key material commands.
func kmsFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "kms-provider",
			Value: "",
			Usage: "KMS provider (gcpkms, awskms, azurekeyvault, hashivault, localsecrets)",
		},
		&cli.StringFlag{
			Name:  "kms-key-uri",
			Value: "",
			Usage: "KMS key URI used to encrypt the generated value",
		},
	}
}
