package toolapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"go.stackadmin.dev/authkeys"
	"go.stackadmin.dev/authkeys/internal/jsonerr"
	"go.stackadmin.dev/authkeys/pkg/auth"
	"go.stackadmin.dev/authkeys/repair"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodySize = 64 << 10

// GenerateKeySetRequest is the body of POST /generate_key_set.
type GenerateKeySetRequest struct {
	Secret    string `json:"secret,omitempty"`
	ExpiresIn string `json:"expiresIn,omitempty"`
}

// DiagnoseAndRepairRequest is the body of POST /diagnose_and_repair.
// Unset flags default to true.
type DiagnoseAndRepairRequest struct {
	DeploymentID       string `json:"deploymentId"`
	KeepExistingSecret *bool  `json:"keepExistingSecret,omitempty"`
	AutoRestart        *bool  `json:"autoRestart,omitempty"`
	ValidateAuth       *bool  `json:"validateAuth,omitempty"`
}

// NewHandler returns an http.Handler serving the SDK operations:
//
//	POST /generate_key_set
//	POST /diagnose_and_repair
func NewHandler(sdk *authkeys.SDK, logger *zerolog.Logger) http.Handler {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /generate_key_set", func(w http.ResponseWriter, req *http.Request) {
		params := &GenerateKeySetRequest{}
		if err := decode(req, params); err != nil {
			jsonerr.Error(w, err, http.StatusBadRequest)
			return
		}

		keys, err := sdk.GenerateKeySet(params.Secret, params.ExpiresIn)
		if err != nil {
			logger.Err(err).Msg("error while generating key set")
			jsonerr.Error(w, err, statusFor(err))
			return
		}
		jsonerr.Write(w, keys, http.StatusOK)
	})

	mux.HandleFunc("POST /diagnose_and_repair", func(w http.ResponseWriter, req *http.Request) {
		params := &DiagnoseAndRepairRequest{}
		if err := decode(req, params); err != nil {
			jsonerr.Error(w, err, http.StatusBadRequest)
			return
		}
		if params.DeploymentID == "" {
			jsonerr.Error(w, errors.New("deploymentId must be provided"), http.StatusBadRequest)
			return
		}

		repairParams := authkeys.DefaultRepairParams()
		setIfPresent(&repairParams.KeepExistingSecret, params.KeepExistingSecret)
		setIfPresent(&repairParams.AutoRestart, params.AutoRestart)
		setIfPresent(&repairParams.ValidateAuth, params.ValidateAuth)

		report, err := sdk.DiagnoseAndRepair(req.Context(), params.DeploymentID, repairParams)
		if err != nil {
			logger.Err(err).Str("deployment_id", params.DeploymentID).Msg("error while repairing deployment")
			jsonerr.Error(w, err, statusFor(err))
			return
		}
		jsonerr.Write(w, report, http.StatusOK)
	})

	return mux
}

func decode(req *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(req.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("unable to read request body: %w", err)
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("unable to unmarshal request body: %w", err)
	}
	return nil
}

func setIfPresent(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidDuration),
		errors.Is(err, auth.ErrEmptySecret),
		errors.Is(err, auth.ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, repair.ErrNoStore):
		return http.StatusServiceUnavailable
	case errors.Is(err, auth.ErrGenerationInvariant):
		return http.StatusInternalServerError
	}
	return http.StatusBadGateway
}
