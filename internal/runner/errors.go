package runner

import "github.com/pkg/errors"

var (
	// ErrAlreadyActive — у пользователя уже есть сессия.
	ErrAlreadyActive = errors.New("session already active")
	// ErrNoActiveSession — останавливать нечего.
	ErrNoActiveSession = errors.New("no active session")
	// ErrActionFailed — источник не смог выполнить вход/выход.
	ErrActionFailed = errors.New("action failed")

	errAborted = errors.New("session cancelled")
)
