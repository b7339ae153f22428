package commands

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"

	capabilityService "github.com/allisson/certify/internal/capability/service"
)

// RunCreateSigningSecret generates a download capability signing secret and prints it
// as a CAPABILITY_SECRET line. With kmsKeyURI set the secret is encrypted by the KMS
// keeper first and KMS_PROVIDER/KMS_KEY_URI lines are printed alongside it.
//
// For local development use kmsProvider="localsecrets" with kmsKeyURI="base64key://...",
// or leave both empty to store the secret unencrypted.
func RunCreateSigningSecret(
	ctx context.Context,
	kmsService capabilityService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsProvider, kmsKeyURI string,
) error {
	if (kmsProvider == "") != (kmsKeyURI == "") {
		return fmt.Errorf("--kms-provider and --kms-key-uri are required together")
	}

	logger.Info("generating capability signing secret", slog.Bool("kms", kmsKeyURI != ""))

	encoded, err := capabilityService.GenerateSecret(ctx, kmsService, kmsKeyURI, rand.Read)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(writer, "# Download capability signing secret")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	if kmsKeyURI != "" {
		_, _ = fmt.Fprintf(writer, "KMS_PROVIDER=%q\n", kmsProvider)
		_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=%q\n", kmsKeyURI)
	}
	_, _ = fmt.Fprintf(writer, "CAPABILITY_SECRET=%q\n", encoded)

	return nil
}
