package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/settlewise/internal/auth"
	"github.com/mmynk/settlewise/internal/calculator"
	"github.com/mmynk/settlewise/internal/money"
	"github.com/mmynk/settlewise/internal/settlement"
	"github.com/mmynk/settlewise/internal/storage"
)

// invalidArgumentErrors are caused by the request rather than the server.
var invalidArgumentErrors = []error{
	money.ErrInvalidMoney,
	calculator.ErrNoParticipants,
	calculator.ErrDuplicateParticipant,
	calculator.ErrNegativeAmount,
	calculator.ErrSharesMismatch,
	calculator.ErrUnknownParticipant,
	calculator.ErrBlankParticipant,
	settlement.ErrInvalidSize,
	settlement.ErrOutOfRange,
	settlement.ErrInvalidAmount,
	auth.ErrInvalidEmail,
	auth.ErrWeakPassword,
}

// toConnectError maps domain errors onto Connect codes. Errors that already
// carry a code are returned as is.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, err)
	}
	for _, target := range invalidArgumentErrors {
		if errors.Is(err, target) {
			return connect.NewError(connect.CodeInvalidArgument, err)
		}
	}
	return connect.NewError(connect.CodeInternal, err)
}

func invalidArgument(msg string) error {
	return connect.NewError(connect.CodeInvalidArgument, errors.New(msg))
}
