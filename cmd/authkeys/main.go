// authkeys is an offline operator tool for the keys of self-hosted
// deployments: it generates key sets, validates and diagnoses existing
// tokens, and encrypts secrets for storage.
//
// Usage:
//
//	authkeys generate [--secret S] [--expires-in 10y]
//	authkeys validate --secret S TOKEN
//	authkeys diagnose --secret S --anon TOKEN --service TOKEN
//	authkeys encrypt [--password P] [--key-version N] < plaintext
//	authkeys decrypt [--password P] < blob.json
//	authkeys checksum [FILE]
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"go.stackadmin.dev/authkeys"
	"go.stackadmin.dev/authkeys/pkg/auth"
	"go.stackadmin.dev/authkeys/pkg/encryption"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// errFailedCheck makes the process exit with status 1 after a report of an
// invalid token or a diagnosis with issues has been printed.
var errFailedCheck = errors.New("check failed")

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := run(os.Args[1:], os.Stdin, os.Stdout, &logger); err != nil {
		if !errors.Is(err, errFailedCheck) {
			logger.Error().Err(err).Msg("authkeys failed")
		}
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer, logger *zerolog.Logger) error {
	if len(args) == 0 {
		printUsage(stdout)
		return errors.New("no command given")
	}

	command, args := args[0], args[1:]
	flagSet := pflag.NewFlagSet("authkeys "+command, pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	switch command {
	case "generate":
		secret := flagSet.String("secret", os.Getenv("JWT_SECRET"), "reuse this secret instead of generating one")
		expiresIn := flagSet.String("expires-in", auth.DefaultExpiresIn, "token lifetime, e.g. 10y, 90d, 3600")
		if err := flagSet.Parse(args); err != nil {
			return err
		}

		keys, err := authkeys.NewSDK(authkeys.WithLogger(logger)).GenerateKeySet(*secret, *expiresIn)
		if err != nil {
			return err
		}
		return writeJSON(stdout, keys)

	case "validate":
		secret := flagSet.String("secret", os.Getenv("JWT_SECRET"), "secret the token should be signed with")
		if err := flagSet.Parse(args); err != nil {
			return err
		}
		if flagSet.NArg() != 1 {
			return errors.New("validate takes exactly one token")
		}

		result := auth.Validate(flagSet.Arg(0), *secret)
		if err := writeJSON(stdout, result); err != nil {
			return err
		}
		if !result.Valid {
			return errFailedCheck
		}
		return nil

	case "diagnose":
		secret := flagSet.String("secret", os.Getenv("JWT_SECRET"), "deployment JWT secret")
		anon := flagSet.String("anon", os.Getenv("ANON_KEY"), "deployed anon token")
		service := flagSet.String("service", os.Getenv("SERVICE_ROLE_KEY"), "deployed service_role token")
		if err := flagSet.Parse(args); err != nil {
			return err
		}

		diagnosis := auth.DetectDokployIssues(*anon, *service, *secret)
		if err := writeJSON(stdout, diagnosis); err != nil {
			return err
		}
		for _, issue := range diagnosis.Issues {
			logger.Warn().Str("kind", string(issue.Kind)).Msg(issue.Message)
		}
		if diagnosis.HasIssues {
			return errFailedCheck
		}
		return nil

	case "encrypt":
		password := flagSet.String("password", os.Getenv("AUTHKEYS_PASSWORD"), "encryption password")
		keyVersion := flagSet.Int("key-version", 0, "key version recorded in the blob")
		if err := flagSet.Parse(args); err != nil {
			return err
		}
		if *password == "" {
			return errors.New("a password is required (--password or AUTHKEYS_PASSWORD)")
		}

		plaintext, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("reading plaintext: %w", err)
		}
		var options []encryption.EncryptOption
		if *keyVersion > 0 {
			options = append(options, encryption.WithKeyVersion(*keyVersion))
		}
		blob, err := encryption.Encrypt(plaintext, *password, options...)
		if err != nil {
			return err
		}
		return writeJSON(stdout, blob)

	case "decrypt":
		password := flagSet.String("password", os.Getenv("AUTHKEYS_PASSWORD"), "encryption password")
		if err := flagSet.Parse(args); err != nil {
			return err
		}

		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("reading blob: %w", err)
		}
		blob, err := encryption.ParseBlob(data)
		if err != nil {
			return err
		}
		plaintext, err := encryption.Decrypt(blob, *password)
		if err != nil {
			return err
		}
		_, err = stdout.Write(plaintext)
		return err

	case "checksum":
		if err := flagSet.Parse(args); err != nil {
			return err
		}

		var in io.Reader = stdin
		if flagSet.NArg() > 0 {
			f, err := os.Open(flagSet.Arg(0))
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			in = f
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return err
		}
		return writeJSON(stdout, map[string]string{
			"blake3": encryption.Checksum(data),
			"sha256": encryption.Hash(data),
		})

	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	}

	printUsage(stdout)
	return fmt.Errorf("unknown command %q", command)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `usage: authkeys <command> [flags]

commands:
  generate   create a new anon/service_role key set
  validate   validate a token against a secret
  diagnose   check a deployed anon/service_role pair for known defects
  encrypt    encrypt stdin with a password into a JSON blob
  decrypt    decrypt a JSON blob read from stdin
  checksum   print integrity checksums of a file or stdin
`)
}
